/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package api holds the request and response bodies of the falconerid REST
// API that are not plain database records.
package api

import (
	"github.com/google/uuid"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
)

// BasicAuthUser is the fixed username every falconerid client authenticates
// with. The matching password is the cluster's Postgres password.
const BasicAuthUser = "falconeri"

// DatumReservationRequest is the body of POST /jobs/<id>/reserve_next_datum.
// Node and pod names identify the worker so a lost response can be replayed.
type DatumReservationRequest struct {
	NodeName string `json:"node_name"`
	PodName  string `json:"pod_name"`
}

// DatumReservationResponse is the non-null response to a reservation: the
// reserved datum plus the files the worker must download. A JSON null body
// means the job has no ready datums left.
type DatumReservationResponse struct {
	Datum      dbclient.Datum       `json:"datum"`
	InputFiles []dbclient.InputFile `json:"input_files"`
}

// DatumPatch is the body of PATCH /datums/<id>, reporting how processing a
// datum went. Status must be done or error; error_message and backtrace are
// required for error and forbidden for done.
type DatumPatch struct {
	Status       dbclient.Status `json:"status"`
	Output       string          `json:"output"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	Backtrace    *string         `json:"backtrace,omitempty"`
}

// OutputFilePatch is one element of the PATCH /output_files body, finalizing
// an upload as done or error.
type OutputFilePatch struct {
	Id     uuid.UUID       `json:"id"`
	Status dbclient.Status `json:"status"`
}
