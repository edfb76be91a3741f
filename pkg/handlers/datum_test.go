/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"gotest.tools/assert"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
)

func patchDatumContext(t *testing.T, id uuid.UUID, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodPatch, "/datums/"+id.String(), strings.NewReader(body))
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	return rsp, c
}

func TestPatchDatumDone(t *testing.T) {
	h, db, _, _ := newTestHandler(t)

	datumId := uuid.New()
	jobId := uuid.New()
	output := "processed 2 files"
	db.EXPECT().MarkDatumAsDone(gomock.Any(), datumId, output).
		Return(&dbclient.Datum{
			Id:     datumId,
			JobId:  jobId,
			Status: dbclient.StatusDone,
			Output: &output,
		}, nil)
	db.EXPECT().UpdateJobStatusIfDone(gomock.Any(), jobId).
		Return(&dbclient.Job{Id: jobId, Status: dbclient.StatusDone}, nil)

	rsp, c := patchDatumContext(t, datumId, `{"status": "done", "output": "processed 2 files"}`)
	h.PatchDatum(c)
	assert.Equal(t, rsp.Code, http.StatusOK)

	datum := &dbclient.Datum{}
	assert.NilError(t, json.Unmarshal(rsp.Body.Bytes(), datum))
	assert.Equal(t, datum.Id, datumId)
	assert.Equal(t, datum.Status, dbclient.StatusDone)
}

func TestPatchDatumError(t *testing.T) {
	h, db, _, _ := newTestHandler(t)

	datumId := uuid.New()
	jobId := uuid.New()
	db.EXPECT().MarkDatumAsError(gomock.Any(), datumId, "partial output", "exit status 1", "stack trace here").
		Return(&dbclient.Datum{
			Id:     datumId,
			JobId:  jobId,
			Status: dbclient.StatusError,
		}, nil)
	db.EXPECT().UpdateJobStatusIfDone(gomock.Any(), jobId).
		Return(&dbclient.Job{Id: jobId, Status: dbclient.StatusRunning}, nil)

	body := `{"status": "error", "output": "partial output",
		"error_message": "exit status 1", "backtrace": "stack trace here"}`
	rsp, c := patchDatumContext(t, datumId, body)
	h.PatchDatum(c)
	assert.Equal(t, rsp.Code, http.StatusOK)

	datum := &dbclient.Datum{}
	assert.NilError(t, json.Unmarshal(rsp.Body.Bytes(), datum))
	assert.Equal(t, datum.Status, dbclient.StatusError)
}

func TestPatchDatumRejectsMixedShapes(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	datumId := uuid.New()

	bodies := []string{
		// done must not carry error fields.
		`{"status": "done", "output": "x", "error_message": "boom"}`,
		`{"status": "done", "output": "x", "backtrace": "stack"}`,
		// error needs both error fields.
		`{"status": "error", "output": "x"}`,
		`{"status": "error", "output": "x", "error_message": "boom"}`,
		// Other statuses cannot be patched in.
		`{"status": "running", "output": "x"}`,
		`{"status": "ready", "output": "x"}`,
	}
	for _, body := range bodies {
		rsp, c := patchDatumContext(t, datumId, body)
		h.PatchDatum(c)
		assert.Equal(t, rsp.Code, http.StatusBadRequest, body)
		assert.Assert(t, strings.Contains(rsp.Body.String(), "cannot update datum"), rsp.Body.String())
	}
}

func TestPatchDatumRejectsBadId(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	rsp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rsp)
	c.Request = httptest.NewRequest(http.MethodPatch, "/datums/42", strings.NewReader(`{"status": "done", "output": ""}`))
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	h.PatchDatum(c)
	assert.Equal(t, rsp.Code, http.StatusBadRequest)
	assert.Assert(t, strings.Contains(rsp.Body.String(), `invalid id "42"`), rsp.Body.String())
}
