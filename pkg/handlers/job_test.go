/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gotest.tools/assert"
	batchv1 "k8s.io/api/batch/v1"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/api"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
)

const pipelineJSON = `{
  "pipeline": {"name": "word_count"},
  "transform": {"cmd": ["python3", "/extract_words.py"], "image": "example/nlp:1.2"},
  "parallelism_spec": {"constant": 2},
  "resource_requests": {"memory": "500Mi", "cpu": 1.0},
  "input": {"atom": {"URI": "gs://b/in", "repo": "in", "glob": "/*"}},
  "egress": {"URI": "gs://b/out/"}
}`

func TestCreateJob(t *testing.T) {
	h, db, k8s, lister := newTestHandler(t)

	lister.EXPECT().List(gomock.Any(), "gs://b/in/").
		Return([]string{"gs://b/in/a.csv", "gs://b/in/b.csv"}, nil)
	db.EXPECT().InsertJobWithPlan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *dbclient.NewJob, datums []*dbclient.NewDatum, files []*dbclient.NewInputFile) (*dbclient.Job, error) {
			assert.Equal(t, len(datums), 2)
			assert.Equal(t, len(files), 2)
			assert.Equal(t, files[0].LocalPath, "/pfs/in/a.csv")
			return &dbclient.Job{
				Id:      job.Id,
				Status:  job.Status,
				JobName: job.JobName,
			}, nil
		})
	k8s.EXPECT().CreateJob(gomock.Any(), gomock.Any()).Return(nil)

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(pipelineJSON))
	h.CreateJob(c)
	assert.Equal(t, rsp.Code, http.StatusOK)

	job := &dbclient.Job{}
	assert.NilError(t, json.Unmarshal(rsp.Body.Bytes(), job))
	assert.Assert(t, strings.HasPrefix(job.JobName, "word-count-"))
	assert.Equal(t, job.Status, dbclient.StatusRunning)
}

func TestCreateJobRejectsUnknownField(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	body := strings.Replace(pipelineJSON, `"pipeline"`, `"pipelines"`, 1)
	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	h.CreateJob(c)
	assert.Equal(t, rsp.Code, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(rsp.Body.String(), "unknown field"), rsp.Body.String())
}

func TestCreateJobRejectsInvalidSpec(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	body := strings.Replace(pipelineJSON, `"egress": {"URI": "gs://b/out/"}`, `"egress": {"URI": ""}`, 1)
	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	h.CreateJob(c)
	assert.Equal(t, rsp.Code, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(rsp.Body.String(), "egress URI is required"), rsp.Body.String())
}

func TestCreateJobRejectsUnusableURI(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	body := strings.Replace(pipelineJSON, `"egress": {"URI": "gs://b/out/"}`, `"egress": {"URI": "ftp://b/out/"}`, 1)
	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	h.CreateJob(c)
	assert.Equal(t, rsp.Code, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(rsp.Body.String(), "cannot find storage backend"), rsp.Body.String())
}

func TestGetJob(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	id := uuid.New()
	db.EXPECT().GetJob(gomock.Any(), id).
		Return(&dbclient.Job{Id: id, Status: dbclient.StatusRunning, JobName: "word-count-x7k2m"}, nil)

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodGet, "/jobs/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.GetJob(c)
	assert.Equal(t, rsp.Code, http.StatusOK)

	job := &dbclient.Job{}
	assert.NilError(t, json.Unmarshal(rsp.Body.Bytes(), job))
	assert.Equal(t, job.Id, id)
	assert.Equal(t, job.JobName, "word-count-x7k2m")
}

func TestGetJobNotFound(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	id := uuid.New()
	db.EXPECT().GetJob(gomock.Any(), id).
		Return(nil, commonerrors.NewNotFoundWithMessage("job "+id.String()+" not found"))

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodGet, "/jobs/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.GetJob(c)
	assert.Equal(t, rsp.Code, http.StatusNotFound)
	assert.Assert(t, strings.Contains(rsp.Body.String(), "not found"), rsp.Body.String())
}

func TestGetJobRejectsBadId(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodGet, "/jobs/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.GetJob(c)
	assert.Equal(t, rsp.Code, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(rsp.Body.String(), `invalid id "nope"`), rsp.Body.String())
}

func TestFindJobByName(t *testing.T) {
	h, db, _, _ := newTestHandler(t)
	db.EXPECT().GetJobByName(gomock.Any(), "word-count-x7k2m").
		Return(&dbclient.Job{Id: uuid.New(), JobName: "word-count-x7k2m"}, nil)

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodGet, "/jobs?job_name=word-count-x7k2m", nil)
	h.FindJobByName(c)
	assert.Equal(t, rsp.Code, http.StatusOK)

	job := &dbclient.Job{}
	assert.NilError(t, json.Unmarshal(rsp.Body.Bytes(), job))
	assert.Equal(t, job.JobName, "word-count-x7k2m")
}

func TestFindJobByNameRequiresName(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	h.FindJobByName(c)
	assert.Equal(t, rsp.Code, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(rsp.Body.String(), "job_name is required"), rsp.Body.String())
}

func TestRetryJob(t *testing.T) {
	h, db, k8s, _ := newTestHandler(t)

	oldId := uuid.New()
	oldJob := &dbclient.Job{
		Id:           oldId,
		Status:       dbclient.StatusError,
		JobName:      "word-count-x7k2m",
		PipelineSpec: datatypes.JSON(pipelineJSON),
	}
	db.EXPECT().GetJob(gomock.Any(), oldId).Return(oldJob, nil)
	db.EXPECT().RetryJob(gomock.Any(), oldId, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, jobName string) (*dbclient.Job, int, error) {
			return &dbclient.Job{
				Id:           uuid.New(),
				Status:       dbclient.StatusRunning,
				JobName:      jobName,
				PipelineSpec: oldJob.PipelineSpec,
			}, 1, nil
		})
	k8s.EXPECT().CreateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, workload *batchv1.Job) error {
			// One rerunable datum caps the stored parallelism of two.
			assert.Equal(t, *workload.Spec.Parallelism, int32(1))
			return nil
		})

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodPost, "/jobs/"+oldId.String()+"/retry", nil)
	c.Params = gin.Params{{Key: "id", Value: oldId.String()}}
	h.RetryJob(c)
	assert.Equal(t, rsp.Code, http.StatusOK)

	job := &dbclient.Job{}
	assert.NilError(t, json.Unmarshal(rsp.Body.Bytes(), job))
	assert.Assert(t, job.JobName != oldJob.JobName)
	assert.Equal(t, job.Status, dbclient.StatusRunning)
}

func TestReserveNextDatum(t *testing.T) {
	h, db, _, _ := newTestHandler(t)

	jobId := uuid.New()
	datumId := uuid.New()
	nodeName := "node-1"
	podName := "worker-abc12"
	db.EXPECT().GetJob(gomock.Any(), jobId).
		Return(&dbclient.Job{Id: jobId, Status: dbclient.StatusRunning}, nil)
	db.EXPECT().ReserveNextDatum(gomock.Any(), jobId, nodeName, podName).
		Return(
			&dbclient.Datum{
				Id:       datumId,
				JobId:    jobId,
				Status:   dbclient.StatusRunning,
				NodeName: &nodeName,
				PodName:  &podName,
			},
			[]*dbclient.InputFile{
				{Id: uuid.New(), DatumId: datumId, URI: "gs://b/in/a.csv", LocalPath: "/pfs/in/a.csv"},
			},
			nil)

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	body := `{"node_name": "node-1", "pod_name": "worker-abc12"}`
	c.Request = httptest.NewRequest(http.MethodPost,
		"/jobs/"+jobId.String()+"/reserve_next_datum", strings.NewReader(body))
	c.Params = gin.Params{{Key: "id", Value: jobId.String()}}
	h.ReserveNextDatum(c)
	assert.Equal(t, rsp.Code, http.StatusOK)

	reservation := &api.DatumReservationResponse{}
	assert.NilError(t, json.Unmarshal(rsp.Body.Bytes(), reservation))
	assert.Equal(t, reservation.Datum.Id, datumId)
	assert.Equal(t, len(reservation.InputFiles), 1)
	assert.Equal(t, reservation.InputFiles[0].LocalPath, "/pfs/in/a.csv")
}

func TestReserveNextDatumNoneLeft(t *testing.T) {
	h, db, _, _ := newTestHandler(t)

	jobId := uuid.New()
	db.EXPECT().GetJob(gomock.Any(), jobId).
		Return(&dbclient.Job{Id: jobId, Status: dbclient.StatusRunning}, nil)
	db.EXPECT().ReserveNextDatum(gomock.Any(), jobId, "node-1", "worker-abc12").
		Return(nil, nil, nil)

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	body := `{"node_name": "node-1", "pod_name": "worker-abc12"}`
	c.Request = httptest.NewRequest(http.MethodPost,
		"/jobs/"+jobId.String()+"/reserve_next_datum", strings.NewReader(body))
	c.Params = gin.Params{{Key: "id", Value: jobId.String()}}
	h.ReserveNextDatum(c)
	assert.Equal(t, rsp.Code, http.StatusOK)
	// A null body tells the worker the job has nothing left to hand out.
	assert.Equal(t, rsp.Body.String(), "null")
}

func TestReserveNextDatumUnknownJob(t *testing.T) {
	h, db, _, _ := newTestHandler(t)

	jobId := uuid.New()
	db.EXPECT().GetJob(gomock.Any(), jobId).
		Return(nil, commonerrors.NewNotFoundWithMessage("job "+jobId.String()+" not found"))

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	body := `{"node_name": "node-1", "pod_name": "worker-abc12"}`
	c.Request = httptest.NewRequest(http.MethodPost,
		"/jobs/"+jobId.String()+"/reserve_next_datum", strings.NewReader(body))
	c.Params = gin.Params{{Key: "id", Value: jobId.String()}}
	h.ReserveNextDatum(c)
	assert.Equal(t, rsp.Code, http.StatusNotFound)
}

func TestReserveNextDatumRequiresIdentity(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	jobId := uuid.New()
	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	body := `{"node_name": "", "pod_name": ""}`
	c.Request = httptest.NewRequest(http.MethodPost,
		"/jobs/"+jobId.String()+"/reserve_next_datum", strings.NewReader(body))
	c.Params = gin.Params{{Key: "id", Value: jobId.String()}}
	h.ReserveNextDatum(c)
	assert.Equal(t, rsp.Code, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(rsp.Body.String(), "node_name and pod_name are required"), rsp.Body.String())
}
