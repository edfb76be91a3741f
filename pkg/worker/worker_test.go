/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package worker

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gotest.tools/assert"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/api"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	mock_storage "github.com/AMD-AIG-AIMA/falconeri/pkg/storage/mock"
	mock_worker "github.com/AMD-AIG-AIMA/falconeri/pkg/worker/mock"
)

func newTestRunner(t *testing.T) (*Runner, *mock_worker.MockAPIClient, *mock_storage.MockInterface) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	client := mock_worker.NewMockAPIClient(ctrl)
	store := mock_storage.NewMockInterface(ctrl)
	runner := &Runner{
		client:       client,
		store:        store,
		inputRoot:    t.TempDir(),
		scratchDir:   t.TempDir(),
		pollInterval: time.Millisecond,
		stdout:       io.Discard,
		stderr:       io.Discard,
	}
	return runner, client, store
}

func TestRunProcessesDatumUntilJobFinishes(t *testing.T) {
	runner, client, store := newTestRunner(t)

	jobId := uuid.New()
	datumId := uuid.New()
	outPath := filepath.Join(runner.inputRoot, "out", "result.txt")
	runningJob := &dbclient.Job{
		Id:        jobId,
		Status:    dbclient.StatusRunning,
		JobName:   "word-count-x7k2m",
		Command:   pq.StringArray{"sh", "-c", "echo processed; echo payload > " + outPath},
		EgressURI: "gs://b/out",
	}
	doneJob := &dbclient.Job{Id: jobId, Status: dbclient.StatusDone}
	datum := &dbclient.Datum{Id: datumId, JobId: jobId, Status: dbclient.StatusRunning}
	inputPath := filepath.Join(runner.inputRoot, "in", "a.csv")
	files := []dbclient.InputFile{
		{Id: uuid.New(), DatumId: datumId, URI: "gs://b/in/a.csv", LocalPath: inputPath},
	}

	// Stale state from a previous datum, which the first reset must clear.
	staleDir := filepath.Join(runner.inputRoot, "leftover")
	assert.NilError(t, os.MkdirAll(staleDir, 0o755))
	stalePath := filepath.Join(runner.scratchDir, "junk.tmp")
	assert.NilError(t, os.WriteFile(stalePath, []byte("junk"), 0o644))

	gomock.InOrder(
		client.EXPECT().Job(gomock.Any(), jobId).Return(runningJob, nil),
		client.EXPECT().ReserveNextDatum(gomock.Any(), runningJob).Return(datum, files, nil),
		client.EXPECT().Job(gomock.Any(), jobId).Return(doneJob, nil),
	)
	store.EXPECT().SyncDown(gomock.Any(), "gs://b/in/a.csv", inputPath).DoAndReturn(
		func(_ context.Context, _ string, localPath string) error {
			if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
				return err
			}
			return os.WriteFile(localPath, []byte("a,b\n"), 0o644)
		})
	created := []*dbclient.OutputFile{
		{Id: uuid.New(), JobId: jobId, DatumId: datumId, URI: "gs://b/out/result.txt", Status: dbclient.StatusRunning},
	}
	client.EXPECT().CreateOutputFiles(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, newFiles []*dbclient.NewOutputFile) ([]*dbclient.OutputFile, error) {
			assert.Equal(t, len(newFiles), 1)
			assert.Equal(t, newFiles[0].URI, "gs://b/out/result.txt")
			assert.Equal(t, newFiles[0].JobId, jobId)
			assert.Equal(t, newFiles[0].DatumId, datumId)
			return created, nil
		})
	store.EXPECT().SyncUp(gomock.Any(), filepath.Join(runner.inputRoot, "out"), "gs://b/out/").Return(nil)
	client.EXPECT().PatchOutputFiles(gomock.Any(), []api.OutputFilePatch{
		{Id: created[0].Id, Status: dbclient.StatusDone},
	}).Return(nil)
	client.EXPECT().MarkDatumAsDone(gomock.Any(), datum, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *dbclient.Datum, output string) error {
			assert.Assert(t, strings.Contains(output, "processed"))
			return nil
		})

	assert.NilError(t, runner.Run(context.Background(), jobId))

	// The stale state is gone and the final reset left an empty out dir.
	_, err := os.Stat(staleDir)
	assert.Assert(t, os.IsNotExist(err))
	_, err = os.Stat(stalePath)
	assert.Assert(t, os.IsNotExist(err))
	entries, err := os.ReadDir(runner.inputRoot)
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 1)
	assert.Equal(t, entries[0].Name(), "out")
}

func TestRunReportsFailedDatum(t *testing.T) {
	runner, client, _ := newTestRunner(t)

	jobId := uuid.New()
	runningJob := &dbclient.Job{
		Id:        jobId,
		Status:    dbclient.StatusRunning,
		Command:   pq.StringArray{"sh", "-c", "echo oops >&2; exit 3"},
		EgressURI: "gs://b/out/",
	}
	doneJob := &dbclient.Job{Id: jobId, Status: dbclient.StatusError}
	datum := &dbclient.Datum{Id: uuid.New(), JobId: jobId, Status: dbclient.StatusRunning}

	gomock.InOrder(
		client.EXPECT().Job(gomock.Any(), jobId).Return(runningJob, nil),
		client.EXPECT().ReserveNextDatum(gomock.Any(), runningJob).Return(datum, nil, nil),
		client.EXPECT().Job(gomock.Any(), jobId).Return(doneJob, nil),
	)
	client.EXPECT().MarkDatumAsError(gomock.Any(), datum, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *dbclient.Datum, output, errorMessage, backtrace string) error {
			assert.Assert(t, strings.Contains(output, "oops"))
			assert.Assert(t, strings.Contains(errorMessage, "exit status 3"))
			assert.Assert(t, backtrace != "")
			return nil
		})

	assert.NilError(t, runner.Run(context.Background(), jobId))
}

func TestRunRejectsEmptyCommand(t *testing.T) {
	runner, client, _ := newTestRunner(t)

	jobId := uuid.New()
	runningJob := &dbclient.Job{Id: jobId, Status: dbclient.StatusRunning, EgressURI: "gs://b/out/"}
	doneJob := &dbclient.Job{Id: jobId, Status: dbclient.StatusError}
	datum := &dbclient.Datum{Id: uuid.New(), JobId: jobId, Status: dbclient.StatusRunning}

	gomock.InOrder(
		client.EXPECT().Job(gomock.Any(), jobId).Return(runningJob, nil),
		client.EXPECT().ReserveNextDatum(gomock.Any(), runningJob).Return(datum, nil, nil),
		client.EXPECT().Job(gomock.Any(), jobId).Return(doneJob, nil),
	)
	client.EXPECT().MarkDatumAsError(gomock.Any(), datum, "", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *dbclient.Datum, _, errorMessage, _ string) error {
			assert.Assert(t, strings.Contains(errorMessage, "command is empty"))
			return nil
		})

	assert.NilError(t, runner.Run(context.Background(), jobId))
}

func TestRunWaitsForOtherWorkers(t *testing.T) {
	runner, client, _ := newTestRunner(t)

	jobId := uuid.New()
	runningJob := &dbclient.Job{Id: jobId, Status: dbclient.StatusRunning, JobName: "word-count-x7k2m"}
	doneJob := &dbclient.Job{Id: jobId, Status: dbclient.StatusDone, JobName: "word-count-x7k2m"}

	gomock.InOrder(
		client.EXPECT().Job(gomock.Any(), jobId).Return(runningJob, nil),
		client.EXPECT().ReserveNextDatum(gomock.Any(), runningJob).Return(nil, nil, nil),
		client.EXPECT().Job(gomock.Any(), jobId).Return(runningJob, nil),
		client.EXPECT().Job(gomock.Any(), jobId).Return(doneJob, nil),
	)

	assert.NilError(t, runner.Run(context.Background(), jobId))
}

func TestRunStopsWhenJobAlreadyFinished(t *testing.T) {
	runner, client, _ := newTestRunner(t)

	jobId := uuid.New()
	client.EXPECT().Job(gomock.Any(), jobId).Return(
		&dbclient.Job{Id: jobId, Status: dbclient.StatusCanceled}, nil)

	assert.NilError(t, runner.Run(context.Background(), jobId))
}

func TestUploadOutputsMarksFilesAsErrorWhenSyncFails(t *testing.T) {
	runner, client, store := newTestRunner(t)

	job := &dbclient.Job{Id: uuid.New(), Status: dbclient.StatusRunning, EgressURI: "gs://b/out/"}
	datum := &dbclient.Datum{Id: uuid.New(), JobId: job.Id}
	outDir := filepath.Join(runner.inputRoot, "out")
	assert.NilError(t, os.MkdirAll(outDir, 0o755))
	assert.NilError(t, os.WriteFile(filepath.Join(outDir, "x.txt"), []byte("x"), 0o644))

	created := []*dbclient.OutputFile{
		{Id: uuid.New(), JobId: job.Id, DatumId: datum.Id, URI: "gs://b/out/x.txt", Status: dbclient.StatusRunning},
	}
	client.EXPECT().CreateOutputFiles(gomock.Any(), gomock.Any()).Return(created, nil)
	store.EXPECT().SyncUp(gomock.Any(), outDir, "gs://b/out/").Return(os.ErrDeadlineExceeded)
	client.EXPECT().PatchOutputFiles(gomock.Any(), []api.OutputFilePatch{
		{Id: created[0].Id, Status: dbclient.StatusError},
	}).Return(nil)

	err := runner.uploadOutputs(context.Background(), job, datum)
	assert.ErrorContains(t, err, "deadline")
}

func TestUploadOutputsSkipsEmptyOutDir(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	job := &dbclient.Job{Id: uuid.New(), EgressURI: "gs://b/out/"}
	datum := &dbclient.Datum{Id: uuid.New(), JobId: job.Id}
	assert.NilError(t, os.MkdirAll(filepath.Join(runner.inputRoot, "out"), 0o755))

	assert.NilError(t, runner.uploadOutputs(context.Background(), job, datum))
}

func TestResetWorkDirsRequiresMountedDirs(t *testing.T) {
	runner, _, _ := newTestRunner(t)
	runner.inputRoot = filepath.Join(runner.inputRoot, "gone")

	err := runner.resetWorkDirs()
	assert.ErrorContains(t, err, "does not exist")
}
