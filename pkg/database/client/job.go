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
	insertJobFormat = `INSERT INTO ` + TJobs + ` (%s) VALUES (%s)`

	getJobCmd       = fmt.Sprintf(`SELECT * FROM %s WHERE id = $1 LIMIT 1`, TJobs)
	getJobByNameCmd = fmt.Sprintf(`SELECT * FROM %s WHERE job_name = $1 LIMIT 1`, TJobs)
	lockJobCmd      = fmt.Sprintf(`SELECT * FROM %s WHERE id = $1 FOR UPDATE`, TJobs)

	updateJobStatusCmd = fmt.Sprintf(
		`UPDATE %s SET status = $2, updated_at = $3 WHERE id = $1 RETURNING *`, TJobs)
	markJobErrorCmd = fmt.Sprintf(
		`UPDATE %s SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4 RETURNING *`, TJobs)

	// datumStatusCountsCmd summarizes a job's datums per status. The FILTER
	// column counts failed datums that still have attempts left.
	datumStatusCountsCmd = fmt.Sprintf(`SELECT status, count(*) AS count,
		count(*) FILTER (WHERE status = $2 AND attempted_run_count < maximum_allowed_run_count) AS rerunable_count
		FROM %s WHERE job_id = $1 GROUP BY status ORDER BY status`, TDatums)

	runningJobsCmd = fmt.Sprintf(
		`SELECT * FROM %s WHERE status = $1 ORDER BY created_at`, TJobs)

	errorDatumsCmd = fmt.Sprintf(
		`SELECT * FROM %s WHERE job_id = $1 AND status = $2 ORDER BY created_at`, TDatums)
	inputFilesForJobDatumsCmd = fmt.Sprintf(
		`SELECT * FROM %s WHERE job_id = $1 ORDER BY created_at`, TInputFiles)
)

// InsertJobWithPlan atomically creates a job together with its datums and
// input files, so a half-planned job is never visible to workers. The job is
// created with status running.
func (c *Client) InsertJobWithPlan(ctx context.Context, job *NewJob, datums []*NewDatum, files []*NewInputFile) (*Job, error) {
	if job == nil {
		return nil, commonerrors.NewBadRequest("the input is empty")
	}
	job.Status = StatusRunning

	var created Job
	err := c.withTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, generateCommand(*job, insertJobFormat, ""), job); err != nil {
			klog.ErrorS(err, "failed to insert job", "job", job.JobName)
			return err
		}
		if err := insertDatums(ctx, tx, datums); err != nil {
			klog.ErrorS(err, "failed to insert datums", "job", job.JobName)
			return err
		}
		if err := insertInputFiles(ctx, tx, files); err != nil {
			klog.ErrorS(err, "failed to insert input files", "job", job.JobName)
			return err
		}
		return tx.GetContext(ctx, &created, getJobCmd, job.Id)
	})
	if err != nil {
		return nil, err
	}
	klog.Infof("created job %s with %d datum(s) and %d input file(s)", created.JobName, len(datums), len(files))
	return &created, nil
}

// GetJob retrieves a job by ID.
func (c *Client) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	if id == uuid.Nil {
		return nil, commonerrors.NewBadRequest("job id is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var jobs []*Job
	if err := db.SelectContext(ctx, &jobs, getJobCmd, id); err != nil {
		klog.ErrorS(err, "failed to select job", "id", id)
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, commonerrors.NewNotFoundWithMessage(fmt.Sprintf("job %s not found", id))
	}
	return jobs[0], nil
}

// GetJobByName retrieves a job by its Kubernetes job name.
func (c *Client) GetJobByName(ctx context.Context, jobName string) (*Job, error) {
	if jobName == "" {
		return nil, commonerrors.NewBadRequest("job name is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var jobs []*Job
	if err := db.SelectContext(ctx, &jobs, getJobByNameCmd, jobName); err != nil {
		klog.ErrorS(err, "failed to select job", "name", jobName)
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, commonerrors.NewNotFoundWithMessage(fmt.Sprintf("job %q not found", jobName))
	}
	return jobs[0], nil
}

// SelectJobs retrieves multiple job records.
func (c *Client) SelectJobs(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*Job, error) {
	startTime := time.Now().UTC()
	defer func() {
		if query != nil {
			strQuery := dbutils.CvtToSqlStr(query)
			klog.Infof("select jobs, query: %s, orderBy: %v, limit: %d, offset: %d, cost (%v)",
				strQuery, orderBy, limit, offset, time.Since(startTime))
		}
	}()
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	sql, args, err := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).
		From(TJobs).
		Where(query).
		OrderBy(orderBy...).
		Limit(uint64(limit)).
		Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, err
	}

	var jobs []*Job
	if c.RequestTimeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
		err = db.SelectContext(ctx2, &jobs, sql, args...)
	} else {
		err = db.SelectContext(ctx, &jobs, sql, args...)
	}
	return jobs, err
}

// CountJobs returns the total count of jobs matching the criteria.
func (c *Client) CountJobs(ctx context.Context, query sqrl.Sqlizer) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	sql, args, err := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TJobs).Where(query).ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}

// SelectRunningJobs returns every job currently marked running, oldest
// first. The babysitter walks this list on each tick.
func (c *Client) SelectRunningJobs(ctx context.Context) ([]*Job, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var jobs []*Job
	if err := db.SelectContext(ctx, &jobs, runningJobsCmd, StatusRunning); err != nil {
		klog.ErrorS(err, "failed to select running jobs")
		return nil, err
	}
	return jobs, nil
}

// DatumStatusCounts returns the per-status datum summary for a job.
func (c *Client) DatumStatusCounts(ctx context.Context, jobID uuid.UUID) ([]*DatumStatusCount, error) {
	if jobID == uuid.Nil {
		return nil, commonerrors.NewBadRequest("job id is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var counts []*DatumStatusCount
	if err := db.SelectContext(ctx, &counts, datumStatusCountsCmd, jobID, StatusError); err != nil {
		klog.ErrorS(err, "failed to count datums by status", "job", jobID)
		return nil, err
	}
	return counts, nil
}

// UpdateJobStatusIfDone recomputes a running job's status from its datums and
// moves it to done or error once nothing is left to run. Jobs that already
// finished are returned unchanged, so the call is safe to repeat after every
// datum update. The job row is locked while the counts are taken.
func (c *Client) UpdateJobStatusIfDone(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	if jobID == uuid.Nil {
		return nil, commonerrors.NewBadRequest("job id is empty")
	}
	var job Job
	err := c.withTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &job, lockJobCmd, jobID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return commonerrors.NewNotFoundWithMessage(fmt.Sprintf("job %s not found", jobID))
			}
			return err
		}
		if job.Status != StatusRunning {
			return nil
		}

		var counts []*DatumStatusCount
		if err := tx.SelectContext(ctx, &counts, datumStatusCountsCmd, jobID, StatusError); err != nil {
			klog.ErrorS(err, "failed to count datums by status", "job", jobID)
			return err
		}

		var unfinished, successful, rerunable, failed int64
		for _, sc := range counts {
			switch sc.Status {
			case StatusReady, StatusRunning:
				unfinished += sc.Count
			case StatusDone:
				successful += sc.Count
			case StatusError:
				rerunable += sc.RerunableCount
				failed += sc.Count - sc.RerunableCount
			case StatusCanceled:
				failed += sc.Count
			}
		}

		// Datums that are still pending, or that failed but may be handed
		// out again, keep the job running.
		if unfinished > 0 || rerunable > 0 {
			return nil
		}
		newStatus := StatusDone
		if failed > 0 {
			newStatus = StatusError
		}
		if err := tx.GetContext(ctx, &job, updateJobStatusCmd, jobID, newStatus, time.Now().UTC()); err != nil {
			klog.ErrorS(err, "failed to update job status", "job", jobID, "status", newStatus)
			return err
		}
		klog.Infof("job %s finished with status %q (%d done, %d failed)",
			job.JobName, newStatus, successful, failed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkJobAsError moves a job from running to error. Jobs that reached a
// terminal status in the meantime are left alone and returned as they are.
func (c *Client) MarkJobAsError(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	if jobID == uuid.Nil {
		return nil, commonerrors.NewBadRequest("job id is empty")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}
	var jobs []*Job
	if err := db.SelectContext(ctx, &jobs, markJobErrorCmd, jobID, StatusError, time.Now().UTC(), StatusRunning); err != nil {
		klog.ErrorS(err, "failed to mark job as error", "job", jobID)
		return nil, err
	}
	if len(jobs) == 0 {
		klog.Warningf("job %s is no longer running, leaving its status alone", jobID)
		return c.GetJob(ctx, jobID)
	}
	return jobs[0], nil
}

// RetryJob clones a failed job into a fresh one covering only the datums
// that failed. The new job reuses the stored pipeline spec, command and
// egress URI, and its datums start with a clean attempt counter. Everything
// happens in one transaction so a partially cloned job is never visible.
// It returns the new job and the number of datums it was created with.
func (c *Client) RetryJob(ctx context.Context, jobID uuid.UUID, jobName string) (*Job, int, error) {
	if jobID == uuid.Nil || jobName == "" {
		return nil, 0, commonerrors.NewBadRequest("job id and job name are required")
	}

	var created Job
	var datumCount int
	err := c.withTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var job Job
		if err := tx.GetContext(ctx, &job, lockJobCmd, jobID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return commonerrors.NewNotFoundWithMessage(fmt.Sprintf("job %s not found", jobID))
			}
			return err
		}
		if job.Status != StatusError {
			return commonerrors.NewBadRequest(fmt.Sprintf(
				"can only retry jobs with status %q, but job %s has status %q",
				StatusError, job.JobName, job.Status))
		}

		var errorDatums []*Datum
		if err := tx.SelectContext(ctx, &errorDatums, errorDatumsCmd, jobID, StatusError); err != nil {
			klog.ErrorS(err, "failed to select failed datums", "job", jobID)
			return err
		}
		if len(errorDatums) == 0 {
			return commonerrors.NewBadRequest(fmt.Sprintf("job %s has no failed datums to retry", job.JobName))
		}
		var files []*InputFile
		if err := tx.SelectContext(ctx, &files, inputFilesForJobDatumsCmd, jobID); err != nil {
			klog.ErrorS(err, "failed to select input files", "job", jobID)
			return err
		}
		filesByDatum := make(map[uuid.UUID][]*InputFile, len(errorDatums))
		for _, f := range files {
			filesByDatum[f.DatumId] = append(filesByDatum[f.DatumId], f)
		}

		newJob := &NewJob{
			Id:           uuid.New(),
			Status:       StatusRunning,
			PipelineSpec: job.PipelineSpec,
			JobName:      jobName,
			Command:      job.Command,
			EgressURI:    job.EgressURI,
		}
		newDatums := make([]*NewDatum, 0, len(errorDatums))
		newFiles := make([]*NewInputFile, 0, len(files))
		for _, d := range errorDatums {
			nd := &NewDatum{
				Id:                     uuid.New(),
				JobId:                  newJob.Id,
				MaximumAllowedRunCount: d.MaximumAllowedRunCount,
			}
			newDatums = append(newDatums, nd)
			for _, f := range filesByDatum[d.Id] {
				newFiles = append(newFiles, &NewInputFile{
					DatumId:   nd.Id,
					URI:       f.URI,
					LocalPath: f.LocalPath,
					JobId:     newJob.Id,
				})
			}
		}

		if _, err := tx.NamedExecContext(ctx, generateCommand(*newJob, insertJobFormat, ""), newJob); err != nil {
			klog.ErrorS(err, "failed to insert retry job", "job", jobName)
			return err
		}
		if err := insertDatums(ctx, tx, newDatums); err != nil {
			return err
		}
		if err := insertInputFiles(ctx, tx, newFiles); err != nil {
			return err
		}
		datumCount = len(newDatums)
		return tx.GetContext(ctx, &created, getJobCmd, newJob.Id)
	})
	if err != nil {
		return nil, 0, err
	}
	klog.Infof("created job %s retrying %d failed datum(s) of job %s", created.JobName, datumCount, jobID)
	return &created, datumCount, nil
}
