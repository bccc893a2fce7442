// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package greeting

import (
	"context"
	"log/slog"

	"cardforge/internal/recipients"
)

// Single wraps one generated card in a Response.
func Single(ctx context.Context, g Generator, req Request) (Response, error) {
	res, err := g.Generate(ctx, req)
	if err != nil {
		return Response{}, err
	}
	return Response{Status: StatusSuccess, Total: 1, Generated: 1, Results: []Result{res}}, nil
}

// GenerateBatch renders one card per recipient, in order. A row without a
// template id takes templateIDs[row % len(templateIDs)]. Row failures are
// collected; only a cancelled context stops the batch early.
func GenerateBatch(ctx context.Context, g Generator, rows []recipients.Recipient, templateIDs []string, baseImageURL string) Response {
	resp := Response{Total: len(rows), Results: []Result{}}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			resp.Errors = append(resp.Errors, RowError{Row: i, Error: err.Error()})
			break
		}

		req := Request{
			TemplateID:    row.TemplateID,
			RecipientName: row.Name,
			Occasion:      row.Occasion,
			Message:       row.Message,
			SenderName:    row.Sender,
			Tone:          row.Tone,
			BaseImageURL:  baseImageURL,
		}
		if req.TemplateID == "" && len(templateIDs) > 0 {
			req.TemplateID = templateIDs[i%len(templateIDs)]
		}

		res, err := g.Generate(ctx, req)
		if err != nil {
			slog.Warn("greeting row failed", "row", i, "template", req.TemplateID, "error", err)
			resp.Errors = append(resp.Errors, RowError{Row: i, Error: err.Error()})
			continue
		}
		res.Row = i
		if res.TemplateID == "" {
			res.TemplateID = req.TemplateID
		}
		resp.Results = append(resp.Results, res)
	}

	resp.Generated = len(resp.Results)
	resp.Status = StatusSuccess
	if resp.Generated == 0 {
		resp.Status = StatusError
	}
	return resp
}
