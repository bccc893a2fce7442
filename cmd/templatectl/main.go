// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is templatectl, an offline tool for exported card templates:
// it prints the record schema, validates and converts record files, and
// previews how the editor clamps text-area geometry.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "templatectl",
		Short: "Inspect and validate cardforge template records",
		Long: `templatectl works on template records exported by the cardforge editor.

Records are JSON or YAML. The format is taken from the file extension
unless --format is given.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		buildSchemaCmd(),
		buildValidateCmd(),
		buildConvertCmd(),
		buildClampCmd(),
	)
	return root
}
