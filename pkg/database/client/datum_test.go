/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gotest.tools/assert"
)

func datumRow(id, jobID uuid.UUID, status Status, podName string, attempts, max int32) *sqlmock.Rows {
	now := time.Now().UTC()
	var pod interface{}
	if podName != "" {
		pod = podName
	}
	return sqlmock.NewRows(datumColumns).AddRow(
		id.String(), now, now, string(status), jobID.String(),
		nil, nil, pod, nil, nil, int64(attempts), int64(max))
}

func inputFileRows(datumID, jobID uuid.UUID, uris ...string) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows(inputFileColumns)
	for _, uri := range uris {
		rows.AddRow(uuid.New().String(), now, datumID.String(), uri, "/pfs/books/a.txt", jobID.String())
	}
	return rows
}

func TestReserveNextDatum(t *testing.T) {
	c, mock := newMockClient(t)
	jobID := uuid.New()
	datumID := uuid.New()

	mock.ExpectQuery(reservedDatumCmd).
		WithArgs(jobID.String(), "pod-1", string(StatusRunning)).
		WillReturnRows(sqlmock.NewRows(datumColumns))
	mock.ExpectBegin()
	mock.ExpectQuery(nextDatumCmd).
		WithArgs(jobID.String(), string(StatusReady)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(datumID.String()))
	mock.ExpectQuery(reserveDatumCmd).
		WithArgs(datumID.String(), string(StatusRunning), "node-1", "pod-1", sqlmock.AnyArg()).
		WillReturnRows(datumRow(datumID, jobID, StatusRunning, "pod-1", 1, 2))
	mock.ExpectCommit()
	mock.ExpectQuery(inputFilesByDatumCmd).
		WithArgs(datumID.String()).
		WillReturnRows(inputFileRows(datumID, jobID, "gs://example-bucket/books/a.txt"))

	datum, files, err := c.ReserveNextDatum(context.Background(), jobID, "node-1", "pod-1")
	assert.NilError(t, err)
	assert.Equal(t, datum.Id, datumID)
	assert.Equal(t, datum.Status, StatusRunning)
	assert.Equal(t, datum.AttemptedRunCount, int32(1))
	assert.Equal(t, len(files), 1)
	assert.Equal(t, files[0].URI, "gs://example-bucket/books/a.txt")
	assert.NilError(t, mock.ExpectationsWereMet())
}

func TestReserveNextDatumIsIdempotentPerPod(t *testing.T) {
	c, mock := newMockClient(t)
	jobID := uuid.New()
	datumID := uuid.New()

	// The pod already holds a running datum; it gets the same one back and
	// no attempt is charged.
	mock.ExpectQuery(reservedDatumCmd).
		WithArgs(jobID.String(), "pod-1", string(StatusRunning)).
		WillReturnRows(datumRow(datumID, jobID, StatusRunning, "pod-1", 1, 2))
	mock.ExpectQuery(inputFilesByDatumCmd).
		WithArgs(datumID.String()).
		WillReturnRows(inputFileRows(datumID, jobID, "gs://example-bucket/books/a.txt"))

	datum, files, err := c.ReserveNextDatum(context.Background(), jobID, "node-1", "pod-1")
	assert.NilError(t, err)
	assert.Equal(t, datum.Id, datumID)
	assert.Equal(t, datum.AttemptedRunCount, int32(1))
	assert.Equal(t, len(files), 1)
	assert.NilError(t, mock.ExpectationsWereMet())
}

func TestReserveNextDatumNoneLeft(t *testing.T) {
	c, mock := newMockClient(t)
	jobID := uuid.New()

	mock.ExpectQuery(reservedDatumCmd).
		WithArgs(jobID.String(), "pod-1", string(StatusRunning)).
		WillReturnRows(sqlmock.NewRows(datumColumns))
	mock.ExpectBegin()
	mock.ExpectQuery(nextDatumCmd).
		WithArgs(jobID.String(), string(StatusReady)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	datum, files, err := c.ReserveNextDatum(context.Background(), jobID, "node-1", "pod-1")
	assert.NilError(t, err)
	assert.Assert(t, datum == nil)
	assert.Assert(t, files == nil)
	assert.NilError(t, mock.ExpectationsWereMet())
}

func TestMarkDatumAsDone(t *testing.T) {
	c, mock := newMockClient(t)
	jobID := uuid.New()
	datumID := uuid.New()

	mock.ExpectQuery(markDatumDoneCmd).
		WithArgs(datumID.String(), string(StatusDone), "all good", sqlmock.AnyArg()).
		WillReturnRows(datumRow(datumID, jobID, StatusDone, "pod-1", 1, 2))

	datum, err := c.MarkDatumAsDone(context.Background(), datumID, "all good")
	assert.NilError(t, err)
	assert.Equal(t, datum.Status, StatusDone)
	assert.NilError(t, mock.ExpectationsWereMet())
}

func TestMarkDatumAsErrorIfRunningSkipsFinishedDatum(t *testing.T) {
	c, mock := newMockClient(t)
	jobID := uuid.New()
	datumID := uuid.New()

	// The worker reported a result between the babysitter's scan and its
	// lock, so the datum is left alone.
	mock.ExpectBegin()
	mock.ExpectQuery(lockDatumCmd).WithArgs(datumID.String()).
		WillReturnRows(datumRow(datumID, jobID, StatusDone, "pod-1", 1, 2))
	mock.ExpectCommit()

	changed, err := c.MarkDatumAsErrorIfRunning(context.Background(), datumID,
		"(did not capture output)", "worker pod disappeared while working on datum", "(no backtrace available)")
	assert.NilError(t, err)
	assert.Equal(t, changed, false)
	assert.NilError(t, mock.ExpectationsWereMet())
}

func TestMarkDatumAsErrorIfRunning(t *testing.T) {
	c, mock := newMockClient(t)
	jobID := uuid.New()
	datumID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockDatumCmd).WithArgs(datumID.String()).
		WillReturnRows(datumRow(datumID, jobID, StatusRunning, "pod-1", 1, 2))
	mock.ExpectQuery(markDatumErrorCmd).
		WithArgs(datumID.String(), string(StatusError), "(did not capture output)",
			"worker pod disappeared while working on datum", "(no backtrace available)", sqlmock.AnyArg()).
		WillReturnRows(datumRow(datumID, jobID, StatusError, "pod-1", 1, 2))
	mock.ExpectCommit()

	changed, err := c.MarkDatumAsErrorIfRunning(context.Background(), datumID,
		"(did not capture output)", "worker pod disappeared while working on datum", "(no backtrace available)")
	assert.NilError(t, err)
	assert.Equal(t, changed, true)
	assert.NilError(t, mock.ExpectationsWereMet())
}

func TestRescheduleDatumIfRerunable(t *testing.T) {
	c, mock := newMockClient(t)
	jobID := uuid.New()
	datumID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockDatumCmd).WithArgs(datumID.String()).
		WillReturnRows(datumRow(datumID, jobID, StatusError, "pod-1", 1, 2))
	mock.ExpectExec(rescheduleDatumCmd).
		WithArgs(datumID.String(), string(StatusReady), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteOutputFilesForDatumCmd).
		WithArgs(datumID.String()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	changed, err := c.RescheduleDatumIfRerunable(context.Background(), datumID)
	assert.NilError(t, err)
	assert.Equal(t, changed, true)
	assert.NilError(t, mock.ExpectationsWereMet())
}

func TestRescheduleDatumIfRerunableOutOfAttempts(t *testing.T) {
	c, mock := newMockClient(t)
	jobID := uuid.New()
	datumID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockDatumCmd).WithArgs(datumID.String()).
		WillReturnRows(datumRow(datumID, jobID, StatusError, "pod-1", 2, 2))
	mock.ExpectCommit()

	changed, err := c.RescheduleDatumIfRerunable(context.Background(), datumID)
	assert.NilError(t, err)
	assert.Equal(t, changed, false)
	assert.NilError(t, mock.ExpectationsWereMet())
}
