/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

//go:generate mockgen -source=interface.go -destination=mock/mock.go

// Interface is the database surface the API server, the babysitter and the
// CLI consume. It exists so handlers can be tested against a mock.
type Interface interface {
	Close()

	// Jobs.
	InsertJobWithPlan(ctx context.Context, job *NewJob, datums []*NewDatum, files []*NewInputFile) (*Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
	GetJobByName(ctx context.Context, jobName string) (*Job, error)
	SelectJobs(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*Job, error)
	SelectRunningJobs(ctx context.Context) ([]*Job, error)
	CountJobs(ctx context.Context, query sqrl.Sqlizer) (int, error)
	DatumStatusCounts(ctx context.Context, jobID uuid.UUID) ([]*DatumStatusCount, error)
	UpdateJobStatusIfDone(ctx context.Context, jobID uuid.UUID) (*Job, error)
	MarkJobAsError(ctx context.Context, jobID uuid.UUID) (*Job, error)
	RetryJob(ctx context.Context, jobID uuid.UUID, jobName string) (*Job, int, error)

	// Datums.
	ReserveNextDatum(ctx context.Context, jobID uuid.UUID, nodeName, podName string) (*Datum, []*InputFile, error)
	MarkDatumAsDone(ctx context.Context, datumID uuid.UUID, output string) (*Datum, error)
	MarkDatumAsError(ctx context.Context, datumID uuid.UUID, output, errorMessage, backtrace string) (*Datum, error)
	MarkDatumAsErrorIfRunning(ctx context.Context, datumID uuid.UUID, output, errorMessage, backtrace string) (bool, error)
	RescheduleDatumIfRerunable(ctx context.Context, datumID uuid.UUID) (bool, error)
	GetDatum(ctx context.Context, id uuid.UUID) (*Datum, error)
	SelectDatums(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*Datum, error)
	CountDatums(ctx context.Context, query sqrl.Sqlizer) (int, error)
	SelectZombieDatumCandidates(ctx context.Context) ([]*Datum, error)
	SelectRerunableDatums(ctx context.Context) ([]*Datum, error)

	// Input files.
	SelectInputFilesByDatum(ctx context.Context, datumID uuid.UUID) ([]*InputFile, error)
	CountInputFiles(ctx context.Context, query sqrl.Sqlizer) (int, error)

	// Output files.
	CreateOutputFiles(ctx context.Context, files []*NewOutputFile) ([]*OutputFile, error)
	MarkOutputFiles(ctx context.Context, doneIds, errorIds []uuid.UUID) error
}

var _ Interface = &Client{}
