// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cardforge/internal/export"
	"cardforge/internal/layout"
)

// errInvalid is returned by validate when a record fails its checks. The
// individual failures have already been printed.
var errInvalid = errors.New("template record is not valid")

func buildSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of template records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := export.Schema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return nil
		},
	}
}

func buildValidateCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a record against the schema and the editor's export rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(args[0], format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if errs := export.Verify(rec); len(errs) > 0 {
				fmt.Fprintf(out, "%s: %d problem(s)\n", args[0], len(errs))
				for _, e := range errs {
					fmt.Fprintf(out, "  - %s\n", e.Error())
				}
				return errInvalid
			}
			fmt.Fprintf(out, "%s: ok (%s, %s, %d text areas)\n", args[0], rec.TemplateID, rec.Orientation, len(rec.TextAreas))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json or yaml (default from extension)")
	return cmd
}

func buildConvertCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Re-encode a record as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(args[0], from)
			if err != nil {
				return err
			}
			target, err := export.ParseFormat(to)
			if err != nil {
				return err
			}
			body, err := export.Encode(rec, target)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			out.Write(body)
			if !strings.HasSuffix(string(body), "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&from, "format", "f", "", "Input format: json or yaml (default from extension)")
	cmd.Flags().StringVarP(&to, "to", "t", "yaml", "Output format: json or yaml")
	return cmd
}

func buildClampCmd() *cobra.Command {
	var (
		orientation         string
		x, y, width, height float64
	)
	cmd := &cobra.Command{
		Use:   "clamp",
		Short: "Show where the editor would place a text area",
		Long: `Clamp a rectangle into the canvas of the given orientation, exactly as the
editor does for move and resize gestures, and print the result as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := layout.ParseOrientation(orientation)
			if err != nil {
				return err
			}
			r := layout.ClampToBounds(x, y, width, height, layout.CanvasFor(o))
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(r)
		},
	}
	cmd.Flags().StringVarP(&orientation, "orientation", "o", string(layout.OrientationSquare), "Canvas orientation: square, portrait or landscape")
	cmd.Flags().Float64Var(&x, "x", 0, "Left edge in canvas pixels")
	cmd.Flags().Float64Var(&y, "y", 0, "Top edge in canvas pixels")
	cmd.Flags().Float64Var(&width, "width", layout.DefaultAreaWidth, "Width in canvas pixels")
	cmd.Flags().Float64Var(&height, "height", layout.DefaultAreaHeight, "Height in canvas pixels")
	return cmd
}

// readRecord loads and schema-checks a record file.
func readRecord(path, format string) (export.Record, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return export.Record{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return export.Record{}, fmt.Errorf("read record: %w", err)
	}
	rec, err := export.Decode(data, f)
	if err != nil {
		return export.Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}
