/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/sets"
)

const (
	partSize           = 100 * 1024 * 1024  // 100MB per part
	largeFileThreshold = 1024 * 1024 * 1024 // Files larger than 1GB use concurrent transfer
)

// s3Backend talks to Amazon S3 or any compatible endpoint. Credentials come
// from the ambient AWS configuration, which is how env secrets reach worker
// pods.
type s3Backend struct {
	client *s3.Client
}

func newS3Backend(ctx context.Context) (*s3Backend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &s3Backend{client: s3.NewFromConfig(cfg)}, nil
}

// List enumerates the top-level entries under uri.
func (b *s3Backend) List(ctx context.Context, uri string) ([]string, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	key := loc.Key
	if key != "" && !strings.HasSuffix(key, "/") {
		exists, err := b.objectExists(ctx, loc.Bucket, key)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", uri, err)
		}
		if exists {
			return []string{uri}, nil
		}
		key += "/"
	}

	seen := sets.NewSet()
	var entries []string
	add := func(entry string) {
		if seen.Has(entry) {
			return
		}
		seen.Insert(entry)
		entries = append(entries, entry)
	}

	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(loc.Bucket),
		Prefix:    aws.String(key),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", key, err)
		}
		for _, obj := range page.Contents {
			// Skip the placeholder object some tools create for the
			// prefix itself.
			if *obj.Key == key {
				continue
			}
			add(loc.ChildURI(*obj.Key))
		}
		for _, cp := range page.CommonPrefixes {
			add(loc.ChildURI(*cp.Prefix))
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no objects found at %s", uri)
	}
	return entries, nil
}

// SyncDown mirrors an object or prefix to the local filesystem.
func (b *s3Backend) SyncDown(ctx context.Context, uri, localPath string) error {
	loc, err := ParseURI(uri)
	if err != nil {
		return err
	}
	if loc.Key == "" || strings.HasSuffix(loc.Key, "/") {
		return b.downloadPrefix(ctx, loc, loc.Key, localPath)
	}
	exists, err := b.objectExists(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", uri, err)
	}
	if exists {
		return b.downloadObject(ctx, loc.Bucket, loc.Key, localPath)
	}
	return b.downloadPrefix(ctx, loc, loc.Key+"/", localPath)
}

// SyncUp mirrors a local file or directory to an object or prefix.
func (b *s3Backend) SyncUp(ctx context.Context, localPath, uri string) error {
	loc, err := ParseURI(uri)
	if err != nil {
		return err
	}
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", localPath, err)
	}
	if info.IsDir() {
		return b.uploadDirectory(ctx, localPath, loc)
	}
	key := loc.Key
	if key == "" || strings.HasSuffix(key, "/") {
		key += filepath.Base(localPath)
	}
	return b.uploadFile(ctx, localPath, loc.Bucket, key)
}

func (b *s3Backend) objectExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// downloadPrefix mirrors every object under prefix into localDir, preserving
// the relative directory structure.
func (b *s3Backend) downloadPrefix(ctx context.Context, loc *Location, prefix, localDir string) error {
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(loc.Bucket),
		Prefix: aws.String(prefix),
	})
	found := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			key := *obj.Key
			if strings.HasSuffix(key, "/") {
				continue
			}
			relativePath := strings.TrimPrefix(key, prefix)
			localPath := filepath.Join(localDir, filepath.FromSlash(relativePath))
			if err := b.downloadObject(ctx, loc.Bucket, key, localPath); err != nil {
				return fmt.Errorf("failed to download %s: %w", loc.ChildURI(key), err)
			}
			found++
		}
	}
	if found == 0 {
		return fmt.Errorf("no objects found at %s", loc.ChildURI(prefix))
	}
	return nil
}

// downloadObject fetches one object to the exact local path. Small files use
// a single request, large files a concurrent ranged download.
func (b *s3Backend) downloadObject(ctx context.Context, bucket, key, localPath string) error {
	head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	if *head.ContentLength < largeFileThreshold {
		return b.downloadSmallObject(ctx, bucket, key, localPath)
	}
	return b.downloadLargeObject(ctx, bucket, key, localPath)
}

func (b *s3Backend) downloadSmallObject(ctx context.Context, bucket, key, localPath string) error {
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err = io.Copy(file, resp.Body); err != nil {
		os.Remove(localPath) // Clean up on error
		return err
	}
	return nil
}

func (b *s3Backend) downloadLargeObject(ctx context.Context, bucket, key, localPath string) error {
	downloader := manager.NewDownloader(b.client, func(d *manager.Downloader) {
		d.PartSize = partSize
		d.Concurrency = 5
	})

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err = downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		os.Remove(localPath)
		return err
	}
	return nil
}

// uploadDirectory walks localDir and uploads every regular file under the
// location's key, treated as a prefix.
func (b *s3Backend) uploadDirectory(ctx context.Context, localDir string, loc *Location) error {
	prefix := loc.Key
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return filepath.WalkDir(localDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			klog.Warningf("skipping special file %s", path)
			return nil
		}
		relativePath, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		return b.uploadFile(ctx, path, loc.Bucket, prefix+filepath.ToSlash(relativePath))
	})
}

func (b *s3Backend) uploadFile(ctx context.Context, localPath, bucket, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	uploader := manager.NewUploader(b.client, func(u *manager.Uploader) {
		u.PartSize = partSize
		u.Concurrency = 5
	})
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	}); err != nil {
		return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", localPath, bucket, key, err)
	}
	return nil
}
