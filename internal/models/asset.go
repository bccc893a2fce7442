// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the rows stored in PostgreSQL.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Asset is a template background uploaded to object storage. Metadata is
// stored in PostgreSQL; the file itself lives in the bucket.
type Asset struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	S3Key        string    `json:"s3_key"`
	CreatedAt    time.Time `json:"created_at"`
}

// HumanSize returns a human-readable file size string.
func (a *Asset) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case a.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(a.SizeBytes)/float64(mb))
	case a.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(a.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", a.SizeBytes)
	}
}
