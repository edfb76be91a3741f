/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/api"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
)

// PatchDatum records the outcome of processing a datum. Only two patch
// shapes are accepted: status done with no error fields, or status error
// with both error_message and backtrace. Either way the owning job's status
// is re-derived so the last datum finishes the job.
func (h *Handler) PatchDatum(c *gin.Context) {
	handle(c, h.patchDatum)
}

func (h *Handler) patchDatum(c *gin.Context) (interface{}, error) {
	id, err := parseUuidParam(c)
	if err != nil {
		return nil, err
	}
	patch := &api.DatumPatch{}
	if err := c.ShouldBindJSON(patch); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request body: %v", err))
	}

	ctx := c.Request.Context()
	var datum *dbclient.Datum
	switch {
	case patch.Status == dbclient.StatusDone && patch.ErrorMessage == nil && patch.Backtrace == nil:
		datum, err = h.dbClient.MarkDatumAsDone(ctx, id, patch.Output)
	case patch.Status == dbclient.StatusError && patch.ErrorMessage != nil && patch.Backtrace != nil:
		datum, err = h.dbClient.MarkDatumAsError(ctx, id, patch.Output, *patch.ErrorMessage, *patch.Backtrace)
	default:
		return nil, commonerrors.NewBadRequest(fmt.Sprintf(
			"cannot update datum with status %q: error_message and backtrace must both be set for error and unset for done",
			patch.Status))
	}
	if err != nil {
		return nil, err
	}

	if _, err := h.dbClient.UpdateJobStatusIfDone(ctx, datum.JobId); err != nil {
		return nil, err
	}
	return datum, nil
}
