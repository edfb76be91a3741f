/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package planner turns a pipeline input expression into the datums and
// input files of a new job.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
)

// Lister enumerates the top-level entries under a cloud storage URI. It is
// the one storage operation planning needs.
type Lister interface {
	List(ctx context.Context, uri string) ([]string, error)
}

// datumSpec is one planned datum before ids are minted. Cross products
// combine specs, so ids can only be assigned once the tree is fully
// evaluated.
type datumSpec struct {
	files []fileSpec
}

type fileSpec struct {
	uri       string
	localPath string
}

// Plan evaluates an input expression against cloud storage and returns the
// datum and input file records for a bulk insert. Each NewDatum carries a
// freshly minted id referenced by its NewInputFiles. Listing failures abort
// planning; nothing is persisted here.
func Plan(ctx context.Context, lister Lister, jobID uuid.UUID, input pipeline.Input, inputRoot string, maximumRunCount int32) ([]*dbclient.NewDatum, []*dbclient.NewInputFile, error) {
	specs, err := planInput(ctx, lister, input, inputRoot)
	if err != nil {
		return nil, nil, err
	}

	datums := make([]*dbclient.NewDatum, 0, len(specs))
	var files []*dbclient.NewInputFile
	for _, spec := range specs {
		datum := &dbclient.NewDatum{
			Id:                     uuid.New(),
			JobId:                  jobID,
			MaximumAllowedRunCount: maximumRunCount,
		}
		datums = append(datums, datum)
		for _, f := range spec.files {
			files = append(files, &dbclient.NewInputFile{
				DatumId:   datum.Id,
				URI:       f.uri,
				LocalPath: f.localPath,
				JobId:     jobID,
			})
		}
	}
	klog.Infof("planned %d datum(s) with %d input file(s)", len(datums), len(files))
	return datums, files, nil
}

func planInput(ctx context.Context, lister Lister, input pipeline.Input, inputRoot string) ([]datumSpec, error) {
	switch {
	case input.Atom != nil:
		return planAtom(ctx, lister, input.Atom, inputRoot)
	case input.Union != nil:
		return planUnion(ctx, lister, input.Union, inputRoot)
	case input.Cross != nil:
		return planCross(ctx, lister, input.Cross, inputRoot)
	default:
		return nil, fmt.Errorf("cannot plan empty input")
	}
}

func planAtom(ctx context.Context, lister Lister, atom *pipeline.Atom, inputRoot string) ([]datumSpec, error) {
	uri := atom.URI
	if !strings.HasSuffix(uri, "/") {
		uri += "/"
	}

	// Listing also verifies the bucket is reachable before any rows are
	// written, even when the whole prefix becomes a single datum.
	entries, err := lister.List(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", uri, err)
	}

	switch atom.Glob {
	case pipeline.GlobWholeRepo:
		return []datumSpec{{files: []fileSpec{{
			uri:       uri,
			localPath: inputRoot + "/" + atom.Repo + "/",
		}}}}, nil
	case pipeline.GlobTopLevelEntries:
		specs := make([]datumSpec, 0, len(entries))
		for _, entry := range entries {
			if strings.HasSuffix(entry, "/") {
				return nil, fmt.Errorf("cannot make a datum from directory %s, use glob %q instead",
					entry, pipeline.GlobWholeRepo)
			}
			idx := strings.LastIndex(entry, "/")
			if idx < 0 {
				return nil, fmt.Errorf("cannot get basename of %s", entry)
			}
			specs = append(specs, datumSpec{files: []fileSpec{{
				uri: entry,
				// entry[idx:] keeps the leading slash.
				localPath: inputRoot + "/" + atom.Repo + entry[idx:],
			}}})
		}
		return specs, nil
	default:
		return nil, fmt.Errorf("do not know how to plan glob %q", atom.Glob)
	}
}

func planUnion(ctx context.Context, lister Lister, inputs []pipeline.Input, inputRoot string) ([]datumSpec, error) {
	var specs []datumSpec
	for _, input := range inputs {
		children, err := planInput(ctx, lister, input, inputRoot)
		if err != nil {
			return nil, err
		}
		specs = append(specs, children...)
	}
	return specs, nil
}

// planCross folds the children left to right, so the first child varies
// slowest in the output ordering.
func planCross(ctx context.Context, lister Lister, inputs []pipeline.Input, inputRoot string) ([]datumSpec, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	specs, err := planInput(ctx, lister, inputs[0], inputRoot)
	if err != nil {
		return nil, err
	}
	for _, input := range inputs[1:] {
		next, err := planInput(ctx, lister, input, inputRoot)
		if err != nil {
			return nil, err
		}
		combined := make([]datumSpec, 0, len(specs)*len(next))
		for _, a := range specs {
			for _, b := range next {
				files := make([]fileSpec, 0, len(a.files)+len(b.files))
				files = append(files, a.files...)
				files = append(files, b.files...)
				combined = append(combined, datumSpec{files: files})
			}
		}
		specs = combined
	}
	return specs, nil
}
