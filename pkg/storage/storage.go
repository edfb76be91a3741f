/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
)

const (
	// SchemeGS selects the Google Cloud Storage backend.
	SchemeGS = "gs"
	// SchemeS3 selects the Amazon S3 backend.
	SchemeS3 = "s3"
)

// Location is a parsed bucket URI of the form <scheme>://<bucket>/<key>.
type Location struct {
	Scheme string
	Bucket string
	Key    string
}

// ChildURI rebuilds a full URI for another key in the same bucket.
func (l *Location) ChildURI(key string) string {
	return l.Scheme + "://" + l.Bucket + "/" + key
}

// ParseURI splits a bucket URI into scheme, bucket and key. The key may be
// empty (the bucket root) and keeps any trailing slash, which is how callers
// distinguish prefixes from objects.
func ParseURI(uri string) (*Location, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid storage URI %q: %v", uri, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("storage URI %q has no scheme", uri)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("storage URI %q has no bucket", uri)
	}
	return &Location{
		Scheme: u.Scheme,
		Bucket: u.Host,
		Key:    strings.TrimPrefix(u.Path, "/"),
	}, nil
}

// ValidateURI checks that uri names a location on a supported backend. It
// lets pipeline specs be rejected up front, before any rows are written or
// clients are built.
func ValidateURI(uri string) error {
	loc, err := ParseURI(uri)
	if err != nil {
		return err
	}
	switch loc.Scheme {
	case SchemeGS, SchemeS3:
		return nil
	default:
		return fmt.Errorf("cannot find storage backend for %s", uri)
	}
}

// ForURI builds the backend responsible for uri. Mount secrets are consulted
// by backends that read credentials from files, see newGSBackend.
func ForURI(ctx context.Context, uri string, secrets []pipeline.Secret) (Interface, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	switch loc.Scheme {
	case SchemeGS:
		return newGSBackend(ctx, secrets)
	case SchemeS3:
		return newS3Backend(ctx)
	default:
		return nil, fmt.Errorf("cannot find storage backend for %s", uri)
	}
}

// Resolver hands out backends by URI scheme and caches them, so a worker
// moving many files reuses one client per backend. It implements Interface
// itself by delegating each call to the backend of the uri, which also makes
// it usable as the planner's lister when an input mixes schemes.
type Resolver struct {
	secrets []pipeline.Secret

	mu       sync.Mutex
	backends map[string]Interface
}

var _ Interface = &Resolver{}

// NewResolver returns a Resolver that passes the given secrets to every
// backend it constructs.
func NewResolver(secrets []pipeline.Secret) *Resolver {
	return &Resolver{
		secrets:  secrets,
		backends: make(map[string]Interface),
	}
}

// ForURI returns the cached backend for the uri's scheme, constructing it on
// first use.
func (r *Resolver) ForURI(ctx context.Context, uri string) (Interface, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if backend, ok := r.backends[loc.Scheme]; ok {
		return backend, nil
	}
	backend, err := ForURI(ctx, uri, r.secrets)
	if err != nil {
		return nil, err
	}
	r.backends[loc.Scheme] = backend
	return backend, nil
}

// List implements Interface.
func (r *Resolver) List(ctx context.Context, uri string) ([]string, error) {
	backend, err := r.ForURI(ctx, uri)
	if err != nil {
		return nil, err
	}
	return backend.List(ctx, uri)
}

// SyncDown implements Interface.
func (r *Resolver) SyncDown(ctx context.Context, uri, localPath string) error {
	backend, err := r.ForURI(ctx, uri)
	if err != nil {
		return err
	}
	return backend.SyncDown(ctx, uri, localPath)
}

// SyncUp implements Interface.
func (r *Resolver) SyncUp(ctx context.Context, localPath, uri string) error {
	backend, err := r.ForURI(ctx, uri)
	if err != nil {
		return err
	}
	return backend.SyncUp(ctx, localPath, uri)
}
