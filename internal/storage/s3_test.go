// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import "testing"

func TestNew_NoCredentials(t *testing.T) {
	c, err := New("", "eu-central-1", "", "", "cards", "")
	if err != nil || c != nil {
		t.Errorf("New without endpoint = (%v, %v), want (nil, nil)", c, err)
	}
	if _, err := New("http://minio:9000", "us-east-1", "ak", "sk", "", ""); err == nil {
		t.Error("New without bucket should fail")
	}
}

func TestFileURLAndKeyFromURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		wantURL   string
	}{
		{"path style", "", "https://s3.example.com/cards/templates/assets/a.png"},
		{"cdn", "https://cdn.example.com/", "https://cdn.example.com/templates/assets/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("https://s3.example.com/", "eu-central-1", "ak", "sk", "cards", tt.publicURL)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got := c.FileURL("templates/assets/a.png")
			if got != tt.wantURL {
				t.Errorf("FileURL = %q, want %q", got, tt.wantURL)
			}
			key, ok := c.KeyFromURL(got)
			if !ok || key != "templates/assets/a.png" {
				t.Errorf("KeyFromURL = (%q, %v)", key, ok)
			}
		})
	}
}

func TestKeyFromURL_Foreign(t *testing.T) {
	c, _ := New("https://s3.example.com", "eu-central-1", "ak", "sk", "cards", "")
	if _, ok := c.KeyFromURL("https://elsewhere.example.com/cards/x.png"); ok {
		t.Error("foreign URL should not resolve to a key")
	}
	if c.Bucket() != "cards" {
		t.Errorf("Bucket = %q", c.Bucket())
	}
}
