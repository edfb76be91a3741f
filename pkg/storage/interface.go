/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package storage

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=mock/mock.go

// Interface is the contract every cloud storage backend satisfies. Backends
// are selected by URI scheme, see ForURI.
type Interface interface {
	// List enumerates the top-level entries under uri without recursing.
	// Entries that are themselves prefixes keep their trailing slash. If uri
	// names a single object, List returns just that uri. The result is
	// deduplicated and an empty result is reported as an error, so listing
	// doubles as an accessibility check.
	List(ctx context.Context, uri string) ([]string, error)

	// SyncDown mirrors a remote object or prefix to a local file or
	// directory. Parent directories are created as needed and extra local
	// files are left alone.
	SyncDown(ctx context.Context, uri, localPath string) error

	// SyncUp mirrors a local file or directory to a remote object or prefix.
	// Remote files outside the mirrored set are left alone.
	SyncUp(ctx context.Context, localPath, uri string) error
}
