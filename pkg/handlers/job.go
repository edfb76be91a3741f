/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/api"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/launcher"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/storage"
)

// CreateJob starts a new job from a pipeline spec: it plans the datums from
// cloud storage, inserts them with the job, and launches the worker batch
// job on the cluster.
func (h *Handler) CreateJob(c *gin.Context) {
	handle(c, h.createJob)
}

func (h *Handler) createJob(c *gin.Context) (interface{}, error) {
	data, err := c.GetRawData()
	if err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("failed to read request body: %v", err))
	}
	spec, err := pipeline.Parse(data)
	if err != nil {
		return nil, commonerrors.NewBadRequest(err.Error())
	}
	// Catch unusable bucket URIs here so they fail the request instead of
	// surfacing later as a planner error.
	for _, uri := range append(spec.Input.URIs(), spec.Egress.URI) {
		if err := storage.ValidateURI(uri); err != nil {
			return nil, commonerrors.NewBadRequest(err.Error())
		}
	}
	lister := h.listerFor(spec.Transform.Secrets)
	return launcher.RunJob(c.Request.Context(), h.dbClient, h.k8sClient,
		lister, spec, config.GetWorkerInputRoot())
}

// GetJob looks up a job by id.
func (h *Handler) GetJob(c *gin.Context) {
	handle(c, h.getJob)
}

func (h *Handler) getJob(c *gin.Context) (interface{}, error) {
	id, err := parseUuidParam(c)
	if err != nil {
		return nil, err
	}
	return h.dbClient.GetJob(c.Request.Context(), id)
}

// FindJobByName looks up a job by its unique Kubernetes job name.
func (h *Handler) FindJobByName(c *gin.Context) {
	handle(c, h.findJobByName)
}

func (h *Handler) findJobByName(c *gin.Context) (interface{}, error) {
	jobName := c.Query("job_name")
	if jobName == "" {
		return nil, commonerrors.NewBadRequest("query parameter job_name is required")
	}
	return h.dbClient.GetJobByName(c.Request.Context(), jobName)
}

// RetryJob creates a new job that re-runs the failed datums of a finished
// job.
func (h *Handler) RetryJob(c *gin.Context) {
	handle(c, h.retryJob)
}

func (h *Handler) retryJob(c *gin.Context) (interface{}, error) {
	id, err := parseUuidParam(c)
	if err != nil {
		return nil, err
	}
	job, err := h.dbClient.GetJob(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	return launcher.RetryJob(c.Request.Context(), h.dbClient, h.k8sClient, job)
}

// ReserveNextDatum reserves the next ready datum of a job for the calling
// worker pod. The response is JSON null once no ready datums remain.
func (h *Handler) ReserveNextDatum(c *gin.Context) {
	handle(c, h.reserveNextDatum)
}

func (h *Handler) reserveNextDatum(c *gin.Context) (interface{}, error) {
	id, err := parseUuidParam(c)
	if err != nil {
		return nil, err
	}
	req := &api.DatumReservationRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	if req.NodeName == "" || req.PodName == "" {
		return nil, commonerrors.NewBadRequest("node_name and pod_name are required")
	}

	// Resolve the job first so an unknown id is a 404 rather than an empty
	// reservation.
	ctx := c.Request.Context()
	job, err := h.dbClient.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	datum, inputFiles, err := h.dbClient.ReserveNextDatum(ctx, job.Id, req.NodeName, req.PodName)
	if err != nil {
		return nil, err
	}
	if datum == nil {
		return (*api.DatumReservationResponse)(nil), nil
	}

	rsp := &api.DatumReservationResponse{
		Datum:      *datum,
		InputFiles: make([]dbclient.InputFile, 0, len(inputFiles)),
	}
	for _, f := range inputFiles {
		rsp.InputFiles = append(rsp.InputFiles, *f)
	}
	return rsp, nil
}
