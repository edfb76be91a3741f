/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"k8s.io/klog/v2"

	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
)

var inputFilesByDatumCmd = fmt.Sprintf(
	`SELECT * FROM %s WHERE datum_id = $1 ORDER BY created_at`, TInputFiles)

// insertInputFiles bulk-inserts input file rows in chunks, within the
// caller's transaction. Ids come from the column default.
func insertInputFiles(ctx context.Context, tx *sqlx.Tx, files []*NewInputFile) error {
	for start := 0; start < len(files); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(files) {
			end = len(files)
		}
		builder := sqrl.Insert(TInputFiles).PlaceholderFormat(sqrl.Dollar).
			Columns("datum_id", "uri", "local_path", "job_id")
		for _, f := range files[start:end] {
			builder = builder.Values(f.DatumId, f.URI, f.LocalPath, f.JobId)
		}
		sql, args, err := builder.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sql, args...); err != nil {
			return err
		}
	}
	return nil
}

// SelectInputFilesByDatum returns the input files of a datum in insertion
// order, the order the planner emitted them in.
func (c *Client) SelectInputFilesByDatum(ctx context.Context, datumID uuid.UUID) ([]*InputFile, error) {
	if datumID == uuid.Nil {
		return nil, commonerrors.NewBadRequest("datum id is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var files []*InputFile
	if err := db.SelectContext(ctx, &files, inputFilesByDatumCmd, datumID); err != nil {
		klog.ErrorS(err, "failed to select input files", "datum", datumID)
		return nil, err
	}
	return files, nil
}

// CountInputFiles returns the total count of input files matching the criteria.
func (c *Client) CountInputFiles(ctx context.Context, query sqrl.Sqlizer) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	sql, args, err := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TInputFiles).Where(query).ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}
