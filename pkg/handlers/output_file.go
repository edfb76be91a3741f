/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/api"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
)

// CreateOutputFiles records a batch of files a worker is about to upload.
// The rows are returned with their freshly minted ids so the worker can
// patch them once the upload finishes.
func (h *Handler) CreateOutputFiles(c *gin.Context) {
	handle(c, h.createOutputFiles)
}

func (h *Handler) createOutputFiles(c *gin.Context) (interface{}, error) {
	var files []*dbclient.NewOutputFile
	if err := c.ShouldBindJSON(&files); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return h.dbClient.CreateOutputFiles(c.Request.Context(), files)
}

// PatchOutputFiles finalizes a batch of uploaded files as done or error.
// Both batches are applied in one transaction and the response carries no
// body.
func (h *Handler) PatchOutputFiles(c *gin.Context) {
	var patches []api.OutputFilePatch
	if err := c.ShouldBindJSON(&patches); err != nil {
		abortWithError(c, commonerrors.NewBadRequest(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	var doneIds, errorIds []uuid.UUID
	for _, patch := range patches {
		switch patch.Status {
		case dbclient.StatusDone:
			doneIds = append(doneIds, patch.Id)
		case dbclient.StatusError:
			errorIds = append(errorIds, patch.Id)
		default:
			abortWithError(c, commonerrors.NewBadRequest(fmt.Sprintf(
				"cannot patch output file %s with status %q", patch.Id, patch.Status)))
			return
		}
	}

	if err := h.dbClient.MarkOutputFiles(c.Request.Context(), doneIds, errorIds); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
