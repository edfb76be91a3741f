/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package planner

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gotest.tools/assert"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
)

type fakeLister struct {
	listings map[string][]string
	calls    []string
}

func (f *fakeLister) List(_ context.Context, uri string) ([]string, error) {
	f.calls = append(f.calls, uri)
	entries, ok := f.listings[uri]
	if !ok {
		return nil, fmt.Errorf("no such prefix %s", uri)
	}
	return entries, nil
}

// localPathsByDatum groups the planned input files by datum, preserving both
// orderings, so tests can assert on the shape of the plan.
func localPathsByDatum(datums []*dbclient.NewDatum, files []*dbclient.NewInputFile) [][]string {
	byDatum := make(map[uuid.UUID][]string, len(datums))
	for _, f := range files {
		byDatum[f.DatumId] = append(byDatum[f.DatumId], f.LocalPath)
	}
	result := make([][]string, 0, len(datums))
	for _, d := range datums {
		result = append(result, byDatum[d.Id])
	}
	return result
}

func TestPlanTopLevelEntries(t *testing.T) {
	lister := &fakeLister{listings: map[string][]string{
		"gs://b/in/": {"gs://b/in/a.csv", "gs://b/in/b.csv"},
	}}
	jobID := uuid.New()
	input := pipeline.Input{Atom: &pipeline.Atom{URI: "gs://b/in/", Repo: "in", Glob: pipeline.GlobTopLevelEntries}}

	datums, files, err := Plan(context.Background(), lister, jobID, input, "/pfs", 3)
	assert.NilError(t, err)
	assert.Equal(t, len(datums), 2)
	assert.Equal(t, len(files), 2)

	paths := localPathsByDatum(datums, files)
	assert.DeepEqual(t, paths, [][]string{{"/pfs/in/a.csv"}, {"/pfs/in/b.csv"}})
	assert.Equal(t, files[0].URI, "gs://b/in/a.csv")
	assert.Equal(t, files[1].URI, "gs://b/in/b.csv")

	for i, d := range datums {
		assert.Equal(t, d.JobId, jobID)
		assert.Equal(t, d.MaximumAllowedRunCount, int32(3))
		assert.Equal(t, files[i].JobId, jobID)
	}
	assert.Assert(t, datums[0].Id != datums[1].Id)
}

func TestPlanWholeRepo(t *testing.T) {
	lister := &fakeLister{listings: map[string][]string{
		"gs://b/books/": {"gs://b/books/a.txt"},
	}}
	// The uri is missing its trailing slash and must be normalized.
	input := pipeline.Input{Atom: &pipeline.Atom{URI: "gs://b/books", Repo: "books", Glob: pipeline.GlobWholeRepo}}

	datums, files, err := Plan(context.Background(), lister, uuid.New(), input, "/pfs", 1)
	assert.NilError(t, err)
	assert.Equal(t, len(datums), 1)
	assert.Equal(t, len(files), 1)
	assert.Equal(t, files[0].URI, "gs://b/books/")
	assert.Equal(t, files[0].LocalPath, "/pfs/books/")

	// Accessibility is verified even though the listing result is unused.
	assert.DeepEqual(t, lister.calls, []string{"gs://b/books/"})
}

func TestPlanCross(t *testing.T) {
	lister := &fakeLister{listings: map[string][]string{
		"gs://b/cats/": {"gs://b/cats/c1", "gs://b/cats/c2"},
		"gs://b/dogs/": {"gs://b/dogs/d1", "gs://b/dogs/d2"},
	}}
	input := pipeline.Input{Cross: []pipeline.Input{
		{Atom: &pipeline.Atom{URI: "gs://b/cats/", Repo: "cats", Glob: pipeline.GlobTopLevelEntries}},
		{Atom: &pipeline.Atom{URI: "gs://b/dogs/", Repo: "dogs", Glob: pipeline.GlobTopLevelEntries}},
	}}

	datums, files, err := Plan(context.Background(), lister, uuid.New(), input, "/pfs", 1)
	assert.NilError(t, err)
	assert.Equal(t, len(datums), 4)
	assert.Equal(t, len(files), 8)

	paths := localPathsByDatum(datums, files)
	assert.DeepEqual(t, paths, [][]string{
		{"/pfs/cats/c1", "/pfs/dogs/d1"},
		{"/pfs/cats/c1", "/pfs/dogs/d2"},
		{"/pfs/cats/c2", "/pfs/dogs/d1"},
		{"/pfs/cats/c2", "/pfs/dogs/d2"},
	})
}

func TestPlanUnionConcatenates(t *testing.T) {
	lister := &fakeLister{listings: map[string][]string{
		"gs://b/cats/": {"gs://b/cats/c1"},
		"gs://b/dogs/": {"gs://b/dogs/d1", "gs://b/dogs/d2"},
	}}
	input := pipeline.Input{Union: []pipeline.Input{
		{Atom: &pipeline.Atom{URI: "gs://b/cats/", Repo: "cats", Glob: pipeline.GlobTopLevelEntries}},
		{Atom: &pipeline.Atom{URI: "gs://b/dogs/", Repo: "dogs", Glob: pipeline.GlobTopLevelEntries}},
	}}

	datums, files, err := Plan(context.Background(), lister, uuid.New(), input, "/pfs", 1)
	assert.NilError(t, err)
	assert.Equal(t, len(datums), 3)

	paths := localPathsByDatum(datums, files)
	assert.DeepEqual(t, paths, [][]string{
		{"/pfs/cats/c1"}, {"/pfs/dogs/d1"}, {"/pfs/dogs/d2"},
	})
}

func TestPlanCrossOfNothing(t *testing.T) {
	lister := &fakeLister{}
	input := pipeline.Input{Cross: []pipeline.Input{}}

	datums, files, err := Plan(context.Background(), lister, uuid.New(), input, "/pfs", 1)
	assert.NilError(t, err)
	assert.Equal(t, len(datums), 0)
	assert.Equal(t, len(files), 0)
}

func TestPlanRejectsDirectoryEntry(t *testing.T) {
	lister := &fakeLister{listings: map[string][]string{
		"gs://b/in/": {"gs://b/in/sub/"},
	}}
	input := pipeline.Input{Atom: &pipeline.Atom{URI: "gs://b/in/", Repo: "in", Glob: pipeline.GlobTopLevelEntries}}

	_, _, err := Plan(context.Background(), lister, uuid.New(), input, "/pfs", 1)
	assert.ErrorContains(t, err, "cannot make a datum from directory")
}

func TestPlanListingErrorAborts(t *testing.T) {
	lister := &fakeLister{listings: map[string][]string{}}
	input := pipeline.Input{Atom: &pipeline.Atom{URI: "gs://b/in/", Repo: "in", Glob: pipeline.GlobTopLevelEntries}}

	_, _, err := Plan(context.Background(), lister, uuid.New(), input, "/pfs", 1)
	assert.ErrorContains(t, err, "cannot list gs://b/in/")
}
