/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"gotest.tools/assert"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/database/utils"
)

func init() {
	// sqlx does not know the sqlmock driver, teach it our placeholder style.
	sqlx.BindDriver("sqlmock", sqlx.DOLLAR)
}

var (
	jobColumns = []string{
		"id", "created_at", "updated_at", "status", "pipeline_spec",
		"job_name", "command", "egress_uri",
	}
	datumColumns = []string{
		"id", "created_at", "updated_at", "status", "job_id",
		"error_message", "node_name", "pod_name", "backtrace", "output",
		"attempted_run_count", "maximum_allowed_run_count",
	}
	inputFileColumns = []string{
		"id", "created_at", "datum_id", "uri", "local_path", "job_id",
	}
	countColumns = []string{"status", "count", "rerunable_count"}
)

// newMockClient wires a Client to a sqlmock connection so transactional SQL
// can be verified without a real Postgres.
func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NilError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Client{db: sqlx.NewDb(db, "sqlmock"), DBConfig: &utils.DBConfig{}}, mock
}
