/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"k8s.io/klog/v2"

	dbutils "github.com/AMD-AIG-AIMA/falconeri/pkg/database/utils"
	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
)

var (
	getDatumCmd  = fmt.Sprintf(`SELECT * FROM %s WHERE id = $1 LIMIT 1`, TDatums)
	lockDatumCmd = fmt.Sprintf(`SELECT * FROM %s WHERE id = $1 FOR UPDATE`, TDatums)

	// reservedDatumCmd finds a datum a pod already holds, so a reservation
	// can be re-sent when the previous HTTP response was lost in transit.
	reservedDatumCmd = fmt.Sprintf(
		`SELECT * FROM %s WHERE job_id = $1 AND pod_name = $2 AND status = $3 LIMIT 1`, TDatums)

	// nextDatumCmd picks one ready datum. SKIP LOCKED keeps concurrent
	// workers from queueing up behind each other's reservations.
	nextDatumCmd = fmt.Sprintf(
		`SELECT id FROM %s WHERE job_id = $1 AND status = $2 LIMIT 1 FOR UPDATE SKIP LOCKED`, TDatums)
	reserveDatumCmd = fmt.Sprintf(`UPDATE %s SET status = $2, node_name = $3, pod_name = $4,
		attempted_run_count = attempted_run_count + 1, updated_at = $5 WHERE id = $1 RETURNING *`, TDatums)

	markDatumDoneCmd = fmt.Sprintf(
		`UPDATE %s SET status = $2, output = $3, updated_at = $4 WHERE id = $1 RETURNING *`, TDatums)
	markDatumErrorCmd = fmt.Sprintf(`UPDATE %s SET status = $2, output = $3, error_message = $4,
		backtrace = $5, updated_at = $6 WHERE id = $1 RETURNING *`, TDatums)
	rescheduleDatumCmd = fmt.Sprintf(
		`UPDATE %s SET status = $2, updated_at = $3 WHERE id = $1`, TDatums)

	zombieDatumsCmd = fmt.Sprintf(
		`SELECT d.* FROM %s d JOIN %s j ON j.id = d.job_id WHERE d.status = $1 AND j.status = $2`,
		TDatums, TJobs)
	rerunableDatumsCmd = fmt.Sprintf(`SELECT d.* FROM %s d JOIN %s j ON j.id = d.job_id
		WHERE j.status = $1 AND d.status = $2 AND d.attempted_run_count < d.maximum_allowed_run_count`,
		TDatums, TJobs)
)

// insertDatums bulk-inserts datum rows in chunks, within the caller's
// transaction. Status is left to its column default of ready.
func insertDatums(ctx context.Context, tx *sqlx.Tx, datums []*NewDatum) error {
	for start := 0; start < len(datums); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(datums) {
			end = len(datums)
		}
		builder := sqrl.Insert(TDatums).PlaceholderFormat(sqrl.Dollar).
			Columns("id", "job_id", "maximum_allowed_run_count")
		for _, d := range datums[start:end] {
			builder = builder.Values(d.Id, d.JobId, d.MaximumAllowedRunCount)
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

// ReserveNextDatum hands one datum of a job to a worker pod. The first call
// from a pod transitions a ready datum to running and charges an attempt;
// calling again with the same pod name returns the datum it already holds
// without charging another attempt. A nil datum means the job has no ready
// datums left.
func (c *Client) ReserveNextDatum(ctx context.Context, jobID uuid.UUID, nodeName, podName string) (*Datum, []*InputFile, error) {
	if jobID == uuid.Nil || nodeName == "" || podName == "" {
		return nil, nil, commonerrors.NewBadRequest("job id, node_name and pod_name are required")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, nil, err
	}

	var held []*Datum
	if err := db.SelectContext(ctx, &held, reservedDatumCmd, jobID, podName, StatusRunning); err != nil {
		klog.ErrorS(err, "failed to look up existing reservation", "job", jobID, "pod", podName)
		return nil, nil, err
	}
	if len(held) > 0 {
		datum := held[0]
		klog.Warningf("pod %s tried to reserve datum %s more than once", podName, datum.Id)
		files, err := c.SelectInputFilesByDatum(ctx, datum.Id)
		if err != nil {
			return nil, nil, err
		}
		return datum, files, nil
	}

	var reserved *Datum
	err = c.withTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var ids []uuid.UUID
		if err := tx.SelectContext(ctx, &ids, nextDatumCmd, jobID, StatusReady); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		var datum Datum
		if err := tx.GetContext(ctx, &datum, reserveDatumCmd,
			ids[0], StatusRunning, nodeName, podName, time.Now().UTC()); err != nil {
			return err
		}
		reserved = &datum
		return nil
	})
	if err != nil {
		klog.ErrorS(err, "failed to reserve datum", "job", jobID, "pod", podName)
		return nil, nil, err
	}
	if reserved == nil {
		return nil, nil, nil
	}

	files, err := c.SelectInputFilesByDatum(ctx, reserved.Id)
	if err != nil {
		return nil, nil, err
	}
	klog.Infof("reserved datum %s for pod %s (attempt %d/%d)",
		reserved.Id, podName, reserved.AttemptedRunCount, reserved.MaximumAllowedRunCount)
	return reserved, files, nil
}

// MarkDatumAsDone records a successful datum together with the output the
// worker captured. Overwriting by id keeps the call idempotent when a worker
// retries a lost response.
func (c *Client) MarkDatumAsDone(ctx context.Context, datumID uuid.UUID, output string) (*Datum, error) {
	if datumID == uuid.Nil {
		return nil, commonerrors.NewBadRequest("datum id is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var datum Datum
	if err := db.GetContext(ctx, &datum, markDatumDoneCmd,
		datumID, StatusDone, output, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commonerrors.NewNotFoundWithMessage(fmt.Sprintf("datum %s not found", datumID))
		}
		klog.ErrorS(err, "failed to mark datum as done", "datum", datumID)
		return nil, err
	}
	return &datum, nil
}

// MarkDatumAsError records a failed datum together with the captured output
// and the worker's error details.
func (c *Client) MarkDatumAsError(ctx context.Context, datumID uuid.UUID, output, errorMessage, backtrace string) (*Datum, error) {
	if datumID == uuid.Nil {
		return nil, commonerrors.NewBadRequest("datum id is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var datum Datum
	if err := db.GetContext(ctx, &datum, markDatumErrorCmd,
		datumID, StatusError, output, errorMessage, backtrace, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commonerrors.NewNotFoundWithMessage(fmt.Sprintf("datum %s not found", datumID))
		}
		klog.ErrorS(err, "failed to mark datum as error", "datum", datumID)
		return nil, err
	}
	return &datum, nil
}

// MarkDatumAsErrorIfRunning marks a datum as failed only when it is still
// running, re-checking under a row lock. It reports whether the datum was
// changed. The babysitter uses this for datums whose worker pod vanished, so
// a result the worker reported in the meantime always wins.
func (c *Client) MarkDatumAsErrorIfRunning(ctx context.Context, datumID uuid.UUID, output, errorMessage, backtrace string) (bool, error) {
	if datumID == uuid.Nil {
		return false, commonerrors.NewBadRequest("datum id is empty")
	}
	changed := false
	err := c.withTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var datum Datum
		if err := tx.GetContext(ctx, &datum, lockDatumCmd, datumID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return commonerrors.NewNotFoundWithMessage(fmt.Sprintf("datum %s not found", datumID))
			}
			return err
		}
		if datum.Status != StatusRunning {
			klog.Infof("datum %s is no longer running, leaving its status alone", datumID)
			return nil
		}
		if err := tx.GetContext(ctx, &datum, markDatumErrorCmd,
			datumID, StatusError, output, errorMessage, backtrace, time.Now().UTC()); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		klog.ErrorS(err, "failed to mark zombie datum as error", "datum", datumID)
		return false, err
	}
	return changed, nil
}

// RescheduleDatumIfRerunable puts a failed datum back in the ready queue if
// it still has attempts left, re-checking under a row lock. Output files from
// the failed attempt are deleted so the next attempt starts clean. The
// attempt counter is not touched here; reservation charges it.
func (c *Client) RescheduleDatumIfRerunable(ctx context.Context, datumID uuid.UUID) (bool, error) {
	if datumID == uuid.Nil {
		return false, commonerrors.NewBadRequest("datum id is empty")
	}
	changed := false
	err := c.withTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var datum Datum
		if err := tx.GetContext(ctx, &datum, lockDatumCmd, datumID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return commonerrors.NewNotFoundWithMessage(fmt.Sprintf("datum %s not found", datumID))
			}
			return err
		}
		if !datum.Rerunable() {
			klog.Infof("datum %s is no longer rerunable, leaving it alone", datumID)
			return nil
		}
		if _, err := tx.ExecContext(ctx, rescheduleDatumCmd, datumID, StatusReady, time.Now().UTC()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteOutputFilesForDatumCmd, datumID); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		klog.ErrorS(err, "failed to reschedule datum", "datum", datumID)
		return false, err
	}
	if changed {
		klog.Infof("rescheduled failed datum %s", datumID)
	}
	return changed, nil
}

// GetDatum retrieves a datum by ID.
func (c *Client) GetDatum(ctx context.Context, id uuid.UUID) (*Datum, error) {
	if id == uuid.Nil {
		return nil, commonerrors.NewBadRequest("datum id is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var datums []*Datum
	if err := db.SelectContext(ctx, &datums, getDatumCmd, id); err != nil {
		klog.ErrorS(err, "failed to select datum", "id", id)
		return nil, err
	}
	if len(datums) == 0 {
		return nil, commonerrors.NewNotFoundWithMessage(fmt.Sprintf("datum %s not found", id))
	}
	return datums[0], nil
}

// SelectDatums retrieves multiple datum records.
func (c *Client) SelectDatums(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*Datum, error) {
	startTime := time.Now().UTC()
	defer func() {
		if query != nil {
			strQuery := dbutils.CvtToSqlStr(query)
			klog.Infof("select datums, query: %s, orderBy: %v, limit: %d, offset: %d, cost (%v)",
				strQuery, orderBy, limit, offset, time.Since(startTime))
		}
	}()
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	sql, args, err := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).
		From(TDatums).
		Where(query).
		OrderBy(orderBy...).
		Limit(uint64(limit)).
		Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, err
	}

	var datums []*Datum
	if c.RequestTimeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
		err = db.SelectContext(ctx2, &datums, sql, args...)
	} else {
		err = db.SelectContext(ctx, &datums, sql, args...)
	}
	return datums, err
}

// CountDatums returns the total count of datums matching the criteria.
func (c *Client) CountDatums(ctx context.Context, query sqrl.Sqlizer) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	sql, args, err := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TDatums).Where(query).ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}

// SelectZombieDatumCandidates returns running datums of running jobs, for
// the babysitter to check against the pods Kubernetes still knows about.
func (c *Client) SelectZombieDatumCandidates(ctx context.Context) ([]*Datum, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var datums []*Datum
	if err := db.SelectContext(ctx, &datums, zombieDatumsCmd, StatusRunning, StatusRunning); err != nil {
		klog.ErrorS(err, "failed to select zombie datum candidates")
		return nil, err
	}
	return datums, nil
}

// SelectRerunableDatums returns failed datums of running jobs that still
// have attempts left.
func (c *Client) SelectRerunableDatums(ctx context.Context) ([]*Datum, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var datums []*Datum
	if err := db.SelectContext(ctx, &datums, rerunableDatumsCmd, StatusRunning, StatusError); err != nil {
		klog.ErrorS(err, "failed to select rerunable datums")
		return nil, err
	}
	return datums, nil
}
