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

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/sets"
)

// serviceAccountFile is the conventional name of a GCP key inside a mounted
// secret.
const serviceAccountFile = "service-account.json"

// gsBackend talks to Google Cloud Storage. If one of the mount secrets
// carries a service account key the client authenticates with it, otherwise
// it falls back to application default credentials.
type gsBackend struct {
	client *gcs.Client
}

func newGSBackend(ctx context.Context, secrets []pipeline.Secret) (*gsBackend, error) {
	var opts []option.ClientOption
	for i := range secrets {
		secret := &secrets[i]
		if !secret.IsMount() {
			continue
		}
		keyFile := filepath.Join(secret.MountPath, serviceAccountFile)
		if _, err := os.Stat(keyFile); err == nil {
			klog.Infof("authenticating to gcs with %s", keyFile)
			opts = append(opts, option.WithCredentialsFile(keyFile))
			break
		}
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}
	return &gsBackend{client: client}, nil
}

// List enumerates the top-level entries under uri.
func (b *gsBackend) List(ctx context.Context, uri string) ([]string, error) {
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

	it := b.client.Bucket(loc.Bucket).Objects(ctx, &gcs.Query{
		Prefix:    key,
		Delimiter: "/",
	})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", key, err)
		}
		switch {
		case attrs.Prefix != "":
			add(loc.ChildURI(attrs.Prefix))
		case attrs.Name == key:
			// The placeholder object for the prefix itself.
		default:
			add(loc.ChildURI(attrs.Name))
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no objects found at %s", uri)
	}
	return entries, nil
}

// SyncDown mirrors an object or prefix to the local filesystem.
func (b *gsBackend) SyncDown(ctx context.Context, uri, localPath string) error {
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
func (b *gsBackend) SyncUp(ctx context.Context, localPath, uri string) error {
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

func (b *gsBackend) objectExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := b.client.Bucket(bucket).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *gsBackend) downloadPrefix(ctx context.Context, loc *Location, prefix, localDir string) error {
	it := b.client.Bucket(loc.Bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	found := 0
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		relativePath := strings.TrimPrefix(attrs.Name, prefix)
		localPath := filepath.Join(localDir, filepath.FromSlash(relativePath))
		if err := b.downloadObject(ctx, loc.Bucket, attrs.Name, localPath); err != nil {
			return fmt.Errorf("failed to download %s: %w", loc.ChildURI(attrs.Name), err)
		}
		found++
	}
	if found == 0 {
		return fmt.Errorf("no objects found at %s", loc.ChildURI(prefix))
	}
	return nil
}

func (b *gsBackend) downloadObject(ctx context.Context, bucket, key, localPath string) error {
	reader, err := b.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err = io.Copy(file, reader); err != nil {
		os.Remove(localPath) // Clean up on error
		return err
	}
	return nil
}

func (b *gsBackend) uploadDirectory(ctx context.Context, localDir string, loc *Location) error {
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

func (b *gsBackend) uploadFile(ctx context.Context, localPath, bucket, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := b.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return fmt.Errorf("failed to upload %s to gs://%s/%s: %w", localPath, bucket, key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to upload %s to gs://%s/%s: %w", localPath, bucket, key, err)
	}
	return nil
}
