/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"embed"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"k8s.io/klog/v2"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies any pending schema migrations. A Postgres session-level
// advisory lock serializes concurrent server replicas, so a scaled-up
// deployment only runs the migrations once.
func (c *Client) Migrate(ctx context.Context) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db.DB, fsys,
		goose.WithSessionLocker(locker))
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	for _, r := range results {
		if r == nil || r.Empty {
			continue
		}
		klog.Infof("applied migration %s (%v)", r.Source.Path, r.Duration)
	}
	if err != nil {
		klog.ErrorS(err, "failed to apply migrations")
		return err
	}
	return nil
}
