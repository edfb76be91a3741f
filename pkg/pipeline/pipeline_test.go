/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package pipeline

import (
	"encoding/json"
	"testing"

	"gotest.tools/assert"
)

const bookWordsSpec = `
{
  "pipeline": {
    "name": "book_words"
  },
  "transform": {
    "cmd": [ "python3", "/extract_words.py" ],
    "image": "somerepo/my_python_nlp",
    "secrets": [
      { "name": "gcloud-service-account", "mount_path": "/etc/gcloud" },
      { "name": "aws-keys", "key": "AWS_SECRET_ACCESS_KEY", "env_var": "AWS_SECRET_ACCESS_KEY" }
    ]
  },
  "parallelism_spec": {
    "constant": 2
  },
  "resource_requests": {
    "memory": "500Mi",
    "cpu": 0.5
  },
  "node_selector": {
    "cloud.google.com/gke-nodepool": "worker"
  },
  "input": {
    "atom": {
      "URI": "gs://example-bucket/books/",
      "repo": "books",
      "glob": "/*"
    }
  },
  "egress": {
    "URI": "gs://example-bucket/words/"
  }
}`

func TestParseBookWordsSpec(t *testing.T) {
	spec, err := Parse([]byte(bookWordsSpec))
	assert.NilError(t, err)

	assert.Equal(t, spec.Pipeline.Name, "book_words")
	assert.Equal(t, spec.Transform.Cmd[0], "python3")
	assert.Equal(t, spec.Transform.Image, "somerepo/my_python_nlp")
	assert.Equal(t, spec.ParallelismSpec.Constant, int32(2))
	assert.Equal(t, spec.ResourceRequests.Memory, "500Mi")
	assert.Equal(t, spec.ResourceRequests.CPU, 0.5)
	assert.Equal(t, spec.NodeSelector["cloud.google.com/gke-nodepool"], "worker")
	assert.Equal(t, spec.Egress.URI, "gs://example-bucket/words/")

	assert.Assert(t, spec.Input.Atom != nil)
	assert.Equal(t, spec.Input.Atom.URI, "gs://example-bucket/books/")
	assert.Equal(t, spec.Input.Atom.Repo, "books")
	assert.Equal(t, spec.Input.Atom.Glob, GlobTopLevelEntries)

	assert.Equal(t, len(spec.Transform.Secrets), 2)
	assert.Assert(t, spec.Transform.Secrets[0].IsMount())
	assert.Equal(t, spec.Transform.Secrets[0].MountPath, "/etc/gcloud")
	assert.Assert(t, spec.Transform.Secrets[1].IsEnv())
	assert.Equal(t, spec.Transform.Secrets[1].EnvVar, "AWS_SECRET_ACCESS_KEY")

	// datum_tries was not given, so the default applies.
	assert.Equal(t, spec.MaximumAllowedRunCount(), int32(1))
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte(`{
	  "pipeline": { "name": "p", "owner": "nobody" },
	  "transform": { "cmd": ["true"], "image": "img" },
	  "parallelism_spec": { "constant": 1 },
	  "resource_requests": { "memory": "1Gi", "cpu": 1 },
	  "input": { "atom": { "URI": "gs://b/x/", "repo": "x", "glob": "/" } },
	  "egress": { "URI": "gs://b/out/" }
	}`))
	assert.ErrorContains(t, err, "owner")
}

func TestParseRejectsUnknownInputType(t *testing.T) {
	in := &Input{}
	err := json.Unmarshal([]byte(`{"git": {"URI": "x"}}`), in)
	assert.ErrorContains(t, err, "unknown input type")
}

func TestInputOneOf(t *testing.T) {
	in := &Input{}
	err := json.Unmarshal([]byte(`{}`), in)
	assert.ErrorContains(t, err, "exactly one")

	err = json.Unmarshal([]byte(`{"cross": [], "union": []}`), in)
	assert.ErrorContains(t, err, "exactly one")
}

func TestInputPfsAlias(t *testing.T) {
	in := &Input{}
	err := json.Unmarshal([]byte(`{"pfs": {"URI": "s3://b/in/", "repo": "in", "glob": "/"}}`), in)
	assert.NilError(t, err)
	assert.Assert(t, in.Atom != nil)
	assert.Equal(t, in.Atom.Repo, "in")

	// The alias normalizes to "atom" when written back out.
	data, err := json.Marshal(in)
	assert.NilError(t, err)
	assert.Equal(t, string(data), `{"atom":{"URI":"s3://b/in/","repo":"in","glob":"/"}}`)
}

func TestInputRoundTrip(t *testing.T) {
	in := &Input{}
	source := `{"cross":[{"atom":{"URI":"gs://b/a/","repo":"a","glob":"/"}},{"union":[{"atom":{"URI":"gs://b/c/","repo":"c","glob":"/*"}}]}]}`
	err := json.Unmarshal([]byte(source), in)
	assert.NilError(t, err)

	data, err := json.Marshal(in)
	assert.NilError(t, err)
	assert.Equal(t, string(data), source)
}

func TestInputURIs(t *testing.T) {
	in := &Input{}
	source := `{"cross":[{"atom":{"URI":"gs://b/a/","repo":"a","glob":"/"}},{"union":[{"atom":{"URI":"gs://b/c/","repo":"c","glob":"/*"}},{"atom":{"URI":"s3://d/e/","repo":"e","glob":"/"}}]}]}`
	assert.NilError(t, json.Unmarshal([]byte(source), in))
	assert.DeepEqual(t, in.URIs(), []string{"gs://b/a/", "gs://b/c/", "s3://d/e/"})
}

func TestSecretOneOf(t *testing.T) {
	s := &Secret{}
	err := json.Unmarshal([]byte(`{"name": "creds"}`), s)
	assert.ErrorContains(t, err, "must have either mount_path or both key and env_var")

	err = json.Unmarshal([]byte(`{"name": "creds", "mount_path": "/etc/creds", "key": "k", "env_var": "K"}`), s)
	assert.ErrorContains(t, err, "cannot have both")

	err = json.Unmarshal([]byte(`{"name": "creds", "path": "/etc/creds"}`), s)
	assert.ErrorContains(t, err, "unknown secret field")

	err = json.Unmarshal([]byte(`{"name": "creds", "mount_path": "/etc/creds"}`), s)
	assert.NilError(t, err)
	assert.Assert(t, s.IsMount())
}

func TestValidateGlob(t *testing.T) {
	assert.NilError(t, GlobWholeRepo.Validate())
	assert.NilError(t, GlobTopLevelEntries.Validate())
	assert.ErrorContains(t, Glob("/**").Validate(), "not supported")
}

func TestValidateSpec(t *testing.T) {
	base := func() *Spec {
		return &Spec{
			Pipeline:         PipelineInfo{Name: "word_count"},
			Transform:        Transform{Cmd: []string{"run"}, Image: "img"},
			ParallelismSpec:  ParallelismSpec{Constant: 1},
			ResourceRequests: ResourceRequests{Memory: "1Gi", CPU: 1},
			Input: Input{
				Atom: &Atom{URI: "gs://b/in/", Repo: "in", Glob: GlobWholeRepo},
			},
			Egress: Egress{URI: "gs://b/out/"},
		}
	}

	assert.NilError(t, base().Validate())

	spec := base()
	spec.Pipeline.Name = ""
	assert.ErrorContains(t, spec.Validate(), "pipeline name is required")

	spec = base()
	spec.Pipeline.Name = "has spaces"
	assert.ErrorContains(t, spec.Validate(), "kubernetes job name")

	spec = base()
	spec.Transform.Cmd = nil
	assert.ErrorContains(t, spec.Validate(), "cmd is required")

	spec = base()
	spec.ParallelismSpec.Constant = 0
	assert.ErrorContains(t, spec.Validate(), "at least 1")

	spec = base()
	spec.Input.Atom.Repo = ""
	assert.ErrorContains(t, spec.Validate(), "repo is required")

	spec = base()
	spec.Egress.URI = ""
	assert.ErrorContains(t, spec.Validate(), "egress URI is required")
}

func TestMaximumAllowedRunCount(t *testing.T) {
	spec := &Spec{DatumTries: 3}
	assert.Equal(t, spec.MaximumAllowedRunCount(), int32(3))

	spec = &Spec{}
	assert.Equal(t, spec.MaximumAllowedRunCount(), int32(1))
}
