// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// document blobs. It wraps the AWS SDK v2 and is configured for
// path-style access (required by CEPH/Hetzner/MinIO). Clients never
// proxy blob bytes; uploads and downloads happen directly against
// presigned URLs issued here.
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

// Key prefixes by visibility. Public blobs may be served directly from
// the bucket; private ones are reachable only through presigned GETs.
const (
	publicPrefix  = "public/"
	privatePrefix = "private/uploads/"
)

// DefaultUploadTTL bounds how long an issued upload location stays valid.
const DefaultUploadTTL = 15 * time.Minute

// DefaultDownloadTTL bounds presigned download URLs for private blobs.
const DefaultDownloadTTL = 1 * time.Hour

// Client wraps an S3 client for document blob operations on one bucket.
type Client struct {
	s3        *s3.Client
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// UploadLocation is a one-time destination for a direct client upload.
type UploadLocation struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Metadata describes a stored blob, fetched without reading its bytes.
type Metadata struct {
	Size        int64
	ContentType string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage; callers must treat a nil client as storage
// being unavailable.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
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
		presigner: s3.NewPresignClient(s3Client),
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// BuildKey returns a fresh object key for an upload: a random hex
// filename keeping the original extension, under the prefix matching
// the requested visibility. Random names make keys unguessable and
// collision-free regardless of what the client called the file.
func BuildKey(filename string, public bool) string {
	ext := strings.ToLower(path.Ext(filename))
	id := uuid.New()
	name := hex.EncodeToString(id[:]) + ext
	if public {
		return publicPrefix + name
	}
	return privatePrefix + name
}

// IssueUploadLocation presigns a PUT for the given key so the client
// can upload the blob directly, bypassing the API server. The content
// type is baked into the signature so the client cannot swap it.
func (c *Client) IssueUploadLocation(ctx context.Context, key, contentType string, ttl time.Duration) (*UploadLocation, error) {
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}
	req, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("s3 presign put %s: %w", key, err)
	}
	return &UploadLocation{
		Key:       key,
		URL:       req.URL,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// IssueDownloadLocation presigns a GET for a private blob. Public blobs
// should be served via FileURL instead.
func (c *Client) IssueDownloadLocation(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultDownloadTTL
	}
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign get %s: %w", key, err)
	}
	return req.URL, nil
}

// GetMetadata fetches size and content type for a blob via HeadObject.
// Returns (nil, nil) when the object does not exist, so callers can
// distinguish a missing upload from a storage failure.
func (c *Client) GetMetadata(ctx context.Context, key string) (*Metadata, error) {
	out, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3 head %s: %w", key, err)
	}
	m := &Metadata{}
	if out.ContentLength != nil {
		m.Size = *out.ContentLength
	}
	if out.ContentType != nil {
		m.ContentType = *out.ContentType
	}
	return m, nil
}

// Delete removes a blob. Reports whether the object existed; deleting
// an absent key is not an error.
func (c *Client) Delete(ctx context.Context, key string) (bool, error) {
	if _, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head %s: %w", key, err)
	}

	if _, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return false, fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return true, nil
}

// FileURL returns the direct URL for a public blob. Uses the configured
// public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// IsPublicKey reports whether a key lives under the public prefix.
func IsPublicKey(key string) bool {
	return strings.HasPrefix(key, publicPrefix)
}

// isNotFound matches the S3 error surface for missing objects. HeadObject
// reports 404s as NotFound rather than NoSuchKey.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}
