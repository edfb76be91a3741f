/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package worker processes the datums of one job inside a worker pod. It
// reserves datums from falconerid, downloads their input files, runs the
// pipeline command and uploads everything the command left in the output
// directory.
package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/api"
	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/storage"
)

// APIClient is the slice of the falconerid client the worker needs.
type APIClient interface {
	Job(ctx context.Context, id uuid.UUID) (*dbclient.Job, error)
	ReserveNextDatum(ctx context.Context, job *dbclient.Job) (*dbclient.Datum, []dbclient.InputFile, error)
	MarkDatumAsDone(ctx context.Context, datum *dbclient.Datum, output string) error
	MarkDatumAsError(ctx context.Context, datum *dbclient.Datum, output, errorMessage, backtrace string) error
	CreateOutputFiles(ctx context.Context, files []*dbclient.NewOutputFile) ([]*dbclient.OutputFile, error)
	PatchOutputFiles(ctx context.Context, patches []api.OutputFilePatch) error
}

// Runner drives the process-one-datum loop of a worker pod.
type Runner struct {
	client       APIClient
	store        storage.Interface
	inputRoot    string
	scratchDir   string
	pollInterval time.Duration
	stdout       io.Writer
	stderr       io.Writer
}

// NewRunner builds a Runner with the configured work directories. Storage
// credentials come from the pod environment, so no mount secrets are passed
// to the backends here.
func NewRunner(client APIClient) *Runner {
	return &Runner{
		client:       client,
		store:        storage.NewResolver(nil),
		inputRoot:    commonconfig.GetWorkerInputRoot(),
		scratchDir:   commonconfig.GetWorkerScratchDir(),
		pollInterval: time.Duration(commonconfig.GetWorkerPollIntervalSecond()) * time.Second,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// Run processes datums of the given job until none are left. A datum that
// fails is reported to falconerid and the loop moves on; only API failures
// abort the worker.
func (r *Runner) Run(ctx context.Context, jobId uuid.UUID) error {
	for {
		job, err := r.client.Job(ctx, jobId)
		if err != nil {
			return err
		}
		if job.Status != dbclient.StatusRunning {
			return nil
		}

		datum, files, err := r.client.ReserveNextDatum(ctx, job)
		if err != nil {
			return err
		}
		if datum == nil {
			klog.V(2).Info("no more datums to process")
			// Don't exit until all the other workers are ready to exit. We
			// may be running under a Kubernetes Job, and a zero exit status
			// tells it that descheduling the remaining workers is safe.
			return r.waitForJobToFinish(ctx, job)
		}

		if err := r.processAndReport(ctx, job, datum, files); err != nil {
			return err
		}
	}
}

// processAndReport processes one datum and records the result. Processing
// failures are reported to falconerid together with the captured command
// output; the error returned here is only ever an API failure.
func (r *Runner) processAndReport(ctx context.Context, job *dbclient.Job, datum *dbclient.Datum, files []dbclient.InputFile) error {
	var output lockedBuffer
	if err := r.processDatum(ctx, job, datum, files, &output); err != nil {
		klog.ErrorS(err, "failed to process datum", "datum", datum.Id)
		backtrace := fmt.Sprintf("%+v", err)
		return r.client.MarkDatumAsError(ctx, datum, output.String(), err.Error(), backtrace)
	}
	return r.client.MarkDatumAsDone(ctx, datum, output.String())
}

// processDatum downloads the input files, runs the pipeline command and
// uploads its outputs, starting and ending with clean work directories.
func (r *Runner) processDatum(ctx context.Context, job *dbclient.Job, datum *dbclient.Datum, files []dbclient.InputFile, output io.Writer) error {
	klog.Infof("processing datum %s", datum.Id)
	if err := r.resetWorkDirs(); err != nil {
		return err
	}

	// Download each file. No mount secrets are passed here: credentials are
	// supposed to be in the pod environment, injected at job creation time.
	for i := range files {
		if err := r.store.SyncDown(ctx, files[i].URI, files[i].LocalPath); err != nil {
			return errors.Wrapf(err, "could not download %s", files[i].URI)
		}
	}

	if err := r.runCommand(ctx, job, output); err != nil {
		return err
	}
	if err := r.uploadOutputs(ctx, job, datum); err != nil {
		return errors.Wrap(err, "could not upload outputs")
	}
	return r.resetWorkDirs()
}

// runCommand runs the job's command, teeing its stdout and stderr to the
// worker's own streams and to the shared capture buffer.
func (r *Runner) runCommand(ctx context.Context, job *dbclient.Job, record io.Writer) error {
	if len(job.Command) == 0 {
		return errors.Errorf("job %s command is empty", job.Id)
	}
	cmd := exec.CommandContext(ctx, job.Command[0], job.Command[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "could not run %q", job.Command[0])
	}

	g := new(errgroup.Group)
	g.Go(func() error { return tee(stdout, r.stdout, record) })
	g.Go(func() error { return tee(stderr, r.stderr, record) })

	// Drain both pipes before Wait; Wait closes them.
	teeErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		return errors.Wrapf(err, "command %q failed", strings.Join(job.Command, " "))
	}
	return teeErr
}

// tee copies child output to the console and the capture buffer. A small
// copy buffer is plenty, I/O performance does not matter for log output.
func tee(from io.Reader, console, record io.Writer) error {
	buf := make([]byte, 4*1024)
	if _, err := io.CopyBuffer(io.MultiWriter(console, record), from, buf); err != nil {
		return errors.Wrap(err, "error reading from child process")
	}
	return nil
}

// uploadOutputs registers everything under <inputRoot>/out with falconerid
// and uploads it to the job's egress bucket in one batch. The records are
// created before the upload so an interrupted upload leaves visibly
// unfinished output files rather than silently missing ones.
func (r *Runner) uploadOutputs(ctx context.Context, job *dbclient.Job, datum *dbclient.Datum) error {
	outDir := filepath.Join(r.inputRoot, "out")
	egressURI := job.EgressURI
	if !strings.HasSuffix(egressURI, "/") {
		egressURI += "/"
	}

	var newFiles []*dbclient.NewOutputFile
	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			klog.Warningf("can't upload special file %s", path)
			return nil
		}
		relPath, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		newFiles = append(newFiles, &dbclient.NewOutputFile{
			JobId:   job.Id,
			DatumId: datum.Id,
			URI:     egressURI + filepath.ToSlash(relPath),
		})
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "error listing %s", outDir)
	}
	if len(newFiles) == 0 {
		return nil
	}

	created, err := r.client.CreateOutputFiles(ctx, newFiles)
	if err != nil {
		return err
	}

	status := dbclient.StatusDone
	syncErr := r.store.SyncUp(ctx, outDir, egressURI)
	if syncErr != nil {
		status = dbclient.StatusError
	}
	patches := make([]api.OutputFilePatch, 0, len(created))
	for _, file := range created {
		patches = append(patches, api.OutputFilePatch{Id: file.Id, Status: status})
	}
	if err := r.client.PatchOutputFiles(ctx, patches); err != nil {
		return err
	}
	return syncErr
}

// waitForJobToFinish polls the job until it leaves running.
func (r *Runner) waitForJobToFinish(ctx context.Context, job *dbclient.Job) error {
	for job.Status == dbclient.StatusRunning {
		klog.V(2).Info("waiting for job to finish")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.pollInterval):
		}
		fresh, err := r.client.Job(ctx, job.Id)
		if err != nil {
			return err
		}
		job = fresh
	}
	klog.Infof("all workers of job %s have finished", job.JobName)
	return nil
}

// resetWorkDirs restores the input root and the scratch directory to a
// clean state and recreates the output directory.
func (r *Runner) resetWorkDirs() error {
	if err := resetWorkDir(r.inputRoot); err != nil {
		return err
	}
	outDir := filepath.Join(r.inputRoot, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create %s", outDir)
	}
	return resetWorkDir(r.scratchDir)
}

// resetWorkDir empties a directory that must already exist. The directory
// itself is a volume mount, so it is never removed.
func resetWorkDir(workDir string) error {
	info, err := os.Stat(workDir)
	if err != nil || !info.IsDir() {
		return errors.Errorf("the directory %s does not exist, but the worker expects it", workDir)
	}
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return errors.Wrapf(err, "error listing directory %s", workDir)
	}
	for _, entry := range entries {
		path := filepath.Join(workDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return errors.Wrapf(err, "cannot delete %s", path)
		}
	}
	return nil
}

// lockedBuffer collects the interleaved stdout and stderr of the child
// process. Both tee goroutines write to it concurrently.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
