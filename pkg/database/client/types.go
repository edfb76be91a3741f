/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	DESC = "desc"
	ASC  = "asc"

	CreatedTime = "created_at"
)

// Table names.
const (
	TJobs        = "jobs"
	TDatums      = "datums"
	TInputFiles  = "input_files"
	TOutputFiles = "output_files"
)

// Status is the lifecycle state shared by jobs, datums and output files.
// The values map onto the Postgres `status` enum type.
type Status string

const (
	// StatusReady means the record is waiting to be picked up.
	StatusReady Status = "ready"
	// StatusRunning means the record has been handed to a worker pod.
	StatusRunning Status = "running"
	// StatusDone means the work finished successfully.
	StatusDone Status = "done"
	// StatusError means the work failed.
	StatusError Status = "error"
	// StatusCanceled means the work was canceled by an operator.
	StatusCanceled Status = "canceled"
)

// HasFinished reports whether the status is terminal. Terminal statuses are
// never changed back to ready or running.
func (s Status) HasFinished() bool {
	return s == StatusDone || s == StatusError || s == StatusCanceled
}

// Job is one execution of a pipeline, tracked in the `jobs` table. The
// pipeline spec it was created from is stored verbatim so a job can be
// retried long after the original file is gone.
type Job struct {
	Id           uuid.UUID      `db:"id" json:"id"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
	Status       Status         `db:"status" json:"status"`
	PipelineSpec datatypes.JSON `db:"pipeline_spec" json:"pipeline_spec"`
	JobName      string         `db:"job_name" json:"job_name"`
	Command      pq.StringArray `db:"command" json:"command"`
	EgressURI    string         `db:"egress_uri" json:"egress_uri"`
}

// GetJobFieldTags returns the JobFieldTags value.
func GetJobFieldTags() map[string]string {
	j := Job{}
	return getFieldTags(j)
}

// NewJob carries the caller-supplied columns for a `jobs` insert. Ids are
// minted by the caller so datums and input files can reference the job
// before anything is written.
type NewJob struct {
	Id           uuid.UUID      `db:"id" json:"id"`
	Status       Status         `db:"status" json:"status"`
	PipelineSpec datatypes.JSON `db:"pipeline_spec" json:"pipeline_spec"`
	JobName      string         `db:"job_name" json:"job_name"`
	Command      pq.StringArray `db:"command" json:"command"`
	EgressURI    string         `db:"egress_uri" json:"egress_uri"`
}

// Datum is one unit of work belonging to a job. Workers reserve datums,
// process the associated input files and report back done or error.
type Datum struct {
	Id                     uuid.UUID `db:"id" json:"id"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
	Status                 Status    `db:"status" json:"status"`
	JobId                  uuid.UUID `db:"job_id" json:"job_id"`
	ErrorMessage           *string   `db:"error_message" json:"error_message"`
	NodeName               *string   `db:"node_name" json:"node_name"`
	PodName                *string   `db:"pod_name" json:"pod_name"`
	Backtrace              *string   `db:"backtrace" json:"backtrace"`
	Output                 *string   `db:"output" json:"output"`
	AttemptedRunCount      int32     `db:"attempted_run_count" json:"attempted_run_count"`
	MaximumAllowedRunCount int32     `db:"maximum_allowed_run_count" json:"maximum_allowed_run_count"`
}

// Rerunable reports whether a failed datum still has attempts left and may
// be handed out again.
func (d *Datum) Rerunable() bool {
	return d.Status == StatusError && d.AttemptedRunCount < d.MaximumAllowedRunCount
}

// GetDatumFieldTags returns the DatumFieldTags value.
func GetDatumFieldTags() map[string]string {
	d := Datum{}
	return getFieldTags(d)
}

// NewDatum carries the caller-supplied columns for a `datums` insert.
type NewDatum struct {
	Id                     uuid.UUID `db:"id" json:"id"`
	JobId                  uuid.UUID `db:"job_id" json:"job_id"`
	MaximumAllowedRunCount int32     `db:"maximum_allowed_run_count" json:"maximum_allowed_run_count"`
}

// InputFile records one object a worker must download before processing a
// datum. Input files are immutable once written, so the table carries no
// updated_at column.
type InputFile struct {
	Id        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	DatumId   uuid.UUID `db:"datum_id" json:"datum_id"`
	URI       string    `db:"uri" json:"uri"`
	LocalPath string    `db:"local_path" json:"local_path"`
	JobId     uuid.UUID `db:"job_id" json:"job_id"`
}

// GetInputFileFieldTags returns the InputFileFieldTags value.
func GetInputFileFieldTags() map[string]string {
	f := InputFile{}
	return getFieldTags(f)
}

// NewInputFile carries the caller-supplied columns for an `input_files`
// insert. Ids default to gen_random_uuid() in Postgres.
type NewInputFile struct {
	DatumId   uuid.UUID `db:"datum_id" json:"datum_id"`
	URI       string    `db:"uri" json:"uri"`
	LocalPath string    `db:"local_path" json:"local_path"`
	JobId     uuid.UUID `db:"job_id" json:"job_id"`
}

// OutputFile records one object a worker uploads to the job's egress bucket.
// Rows are created with status running before the upload starts so a crashed
// upload is visible.
type OutputFile struct {
	Id        uuid.UUID `db:"id" json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Status    Status    `db:"status" json:"status"`
	JobId     uuid.UUID `db:"job_id" json:"job_id"`
	DatumId   uuid.UUID `db:"datum_id" json:"datum_id"`
	URI       string    `db:"uri" json:"uri"`
}

// GetOutputFileFieldTags returns the OutputFileFieldTags value.
func GetOutputFileFieldTags() map[string]string {
	f := OutputFile{}
	return getFieldTags(f)
}

// NewOutputFile carries the caller-supplied columns for an `output_files`
// insert. Workers send these before uploading the files themselves.
type NewOutputFile struct {
	JobId   uuid.UUID `db:"job_id" json:"job_id"`
	DatumId uuid.UUID `db:"datum_id" json:"datum_id"`
	URI     string    `db:"uri" json:"uri"`
}

// DatumStatusCount is one row of the per-status datum summary used to derive
// a job's status and to render progress in the CLI.
type DatumStatusCount struct {
	Status Status `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
	// RerunableCount is the subset of Count that failed but still has
	// attempts left. Only meaningful for the error row.
	RerunableCount int64 `db:"rerunable_count" json:"rerunable_count"`
}

// getFieldTags retrieves FieldTags for internal use.
func getFieldTags(obj interface{}) map[string]string {
	result := make(map[string]string)
	t := reflect.TypeOf(obj)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		result[strings.ToLower(field.Name)] = field.Tag.Get("db")
	}
	return result
}

// generateCommand generates SQL command string using reflection
// Iterates through struct fields and builds column and value lists
// Skips fields with specified ignoreTag
// Returns formatted SQL command with columns and values
func generateCommand(obj interface{}, format, ignoreTag string) string {
	t := reflect.TypeOf(obj)
	columns := make([]string, 0, t.NumField())
	values := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("db")
		if tag == ignoreTag {
			continue
		}
		columns = append(columns, tag)
		values = append(values, fmt.Sprintf(":%s", tag))
	}
	cmd := fmt.Sprintf(format, strings.Join(columns, ", "), strings.Join(values, ", "))
	return cmd
}

// GetFieldTag returns the FieldTag value.
func GetFieldTag(tags map[string]string, name string) string {
	name = strings.ToLower(name)
	return tags[name]
}
