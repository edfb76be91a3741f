/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package storage

import (
	"context"
	"testing"

	"gotest.tools/assert"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantScheme string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{
			name:       "gs prefix",
			uri:        "gs://mybucket/books/",
			wantScheme: "gs",
			wantBucket: "mybucket",
			wantKey:    "books/",
		},
		{
			name:       "s3 object",
			uri:        "s3://mybucket/path/to/file.csv",
			wantScheme: "s3",
			wantBucket: "mybucket",
			wantKey:    "path/to/file.csv",
		},
		{
			name:       "bucket root without key",
			uri:        "gs://mybucket",
			wantScheme: "gs",
			wantBucket: "mybucket",
			wantKey:    "",
		},
		{
			name:       "bucket root with slash",
			uri:        "gs://mybucket/",
			wantScheme: "gs",
			wantBucket: "mybucket",
			wantKey:    "",
		},
		{
			name:    "missing scheme",
			uri:     "mybucket/key",
			wantErr: true,
		},
		{
			name:    "missing bucket",
			uri:     "gs:///key",
			wantErr: true,
		},
		{
			name:    "empty",
			uri:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseURI(tt.uri)

			if tt.wantErr {
				assert.Assert(t, err != nil, "expected error but got none")
				return
			}

			assert.NilError(t, err)
			assert.Equal(t, tt.wantScheme, loc.Scheme)
			assert.Equal(t, tt.wantBucket, loc.Bucket)
			assert.Equal(t, tt.wantKey, loc.Key)
		})
	}
}

func TestChildURI(t *testing.T) {
	loc, err := ParseURI("gs://mybucket/books/")
	assert.NilError(t, err)
	assert.Equal(t, loc.ChildURI("books/a.txt"), "gs://mybucket/books/a.txt")
	assert.Equal(t, loc.ChildURI("books/sub/"), "gs://mybucket/books/sub/")
}

func TestValidateURI(t *testing.T) {
	assert.NilError(t, ValidateURI("gs://mybucket/books/"))
	assert.NilError(t, ValidateURI("s3://mybucket/out"))
	assert.ErrorContains(t, ValidateURI("ftp://mybucket/out"), "cannot find storage backend")
	assert.ErrorContains(t, ValidateURI("gs:///out"), "has no bucket")
	assert.ErrorContains(t, ValidateURI("just-a-path"), "has no scheme")
}

func TestForURIUnsupportedScheme(t *testing.T) {
	_, err := ForURI(context.Background(), "http://example.com/file", nil)
	assert.ErrorContains(t, err, "cannot find storage backend for http://example.com/file")

	_, err = ForURI(context.Background(), "not a uri at all", nil)
	assert.Assert(t, err != nil)
}
