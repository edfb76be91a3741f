/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"k8s.io/klog/v2"

	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
)

var (
	markOutputFilesCmd = fmt.Sprintf(
		`UPDATE %s SET status = $1, updated_at = $2 WHERE id = ANY($3)`, TOutputFiles)
	deleteOutputFilesForDatumCmd = fmt.Sprintf(
		`DELETE FROM %s WHERE datum_id = $1`, TOutputFiles)
)

// CreateOutputFiles records the files a worker is about to upload. Rows are
// created with status running so an upload that dies leaves a trace. Returns
// the created rows including their ids.
func (c *Client) CreateOutputFiles(ctx context.Context, files []*NewOutputFile) ([]*OutputFile, error) {
	if len(files) == 0 {
		return nil, commonerrors.NewBadRequest("the input is empty")
	}
	db, err := c.GetGormDB()
	if err != nil {
		return nil, err
	}

	rows := make([]*OutputFile, 0, len(files))
	for _, f := range files {
		rows = append(rows, &OutputFile{
			Id:      uuid.New(),
			Status:  StatusRunning,
			JobId:   f.JobId,
			DatumId: f.DatumId,
			URI:     f.URI,
		})
	}
	if err := db.WithContext(ctx).CreateInBatches(rows, insertChunkSize).Error; err != nil {
		klog.ErrorS(err, "failed to insert output files", "count", len(rows))
		return nil, err
	}
	return rows, nil
}

// MarkOutputFiles finalizes uploaded output files, flipping the done and
// error batches in a single transaction.
func (c *Client) MarkOutputFiles(ctx context.Context, doneIds, errorIds []uuid.UUID) error {
	if len(doneIds) == 0 && len(errorIds) == 0 {
		return nil
	}
	return c.withTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		now := time.Now().UTC()
		if len(doneIds) > 0 {
			if _, err := tx.ExecContext(ctx, markOutputFilesCmd, StatusDone, now, pq.Array(doneIds)); err != nil {
				klog.ErrorS(err, "failed to mark output files as done", "count", len(doneIds))
				return err
			}
		}
		if len(errorIds) > 0 {
			if _, err := tx.ExecContext(ctx, markOutputFilesCmd, StatusError, now, pq.Array(errorIds)); err != nil {
				klog.ErrorS(err, "failed to mark output files as error", "count", len(errorIds))
				return err
			}
		}
		return nil
	})
}
