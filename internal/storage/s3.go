// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// template background assets. It wraps the AWS SDK v2 and is configured for
// path-style access (required by CEPH/Hetzner and MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client stores objects in a single public-read bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for stored files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an object with a public-read ACL so downstream renderers
// can fetch it directly.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Delete removes an object.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL of a stored object.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	return buildURL(c.publicURL, c.endpoint, c.bucket, key)
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// KeyFromURL extracts the object key from a public file URL. Returns
// ("", false) if the URL does not belong to this storage.
func (c *Client) KeyFromURL(rawURL string) (string, bool) {
	return keyFromURL(c.publicURL, c.endpoint, c.bucket, rawURL)
}

func buildURL(publicURL, endpoint, bucket, key string) string {
	if publicURL != "" {
		return publicURL + "/" + key
	}
	return endpoint + "/" + bucket + "/" + key
}

func keyFromURL(publicURL, endpoint, bucket, rawURL string) (string, bool) {
	if publicURL != "" {
		if key, ok := strings.CutPrefix(rawURL, publicURL+"/"); ok && key != "" {
			return key, true
		}
	}
	if key, ok := strings.CutPrefix(rawURL, endpoint+"/"+bucket+"/"); ok && key != "" {
		return key, true
	}
	return "", false
}
