/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/jsonutil"
)

const (
	// DefaultMaximumRunCount is how many times a datum may be attempted
	// when the pipeline spec does not say otherwise.
	DefaultMaximumRunCount = 1
)

// Glob decides how an atom input is split into datums.
type Glob string

const (
	// GlobWholeRepo emits a single datum holding the entire prefix.
	GlobWholeRepo Glob = "/"
	// GlobTopLevelEntries emits one datum per top-level entry of the prefix.
	GlobTopLevelEntries Glob = "/*"
)

// Validate checks that the glob is one of the supported modes.
func (g Glob) Validate() error {
	switch g {
	case GlobWholeRepo, GlobTopLevelEntries:
		return nil
	default:
		return fmt.Errorf("glob %q is not supported, expected %q or %q",
			string(g), string(GlobWholeRepo), string(GlobTopLevelEntries))
	}
}

// Spec is a JSON pipeline description submitted by a user. The format is
// loosely compatible with a subset of Pachyderm's pipeline files, and is
// parsed strictly: unknown fields are rejected so that typos do not
// silently change the meaning of a job.
type Spec struct {
	Pipeline         PipelineInfo      `json:"pipeline"`
	Transform        Transform         `json:"transform"`
	ParallelismSpec  ParallelismSpec   `json:"parallelism_spec"`
	ResourceRequests ResourceRequests  `json:"resource_requests"`
	NodeSelector     map[string]string `json:"node_selector,omitempty"`
	DatumTries       int32             `json:"datum_tries,omitempty"`
	// JobTimeoutSeconds bounds the wall-clock runtime of the whole job. It
	// becomes the activeDeadlineSeconds of the worker workload.
	JobTimeoutSeconds *int64 `json:"job_timeout,omitempty"`
	Input             Input  `json:"input"`
	Egress            Egress `json:"egress"`
}

// PipelineInfo names the pipeline. The name is reused as the prefix of the
// Kubernetes job name, so it must normalize to a DNS label.
type PipelineInfo struct {
	Name string `json:"name"`
}

// Transform describes the container to run over each datum.
type Transform struct {
	Cmd             []string          `json:"cmd"`
	Image           string            `json:"image"`
	ImagePullPolicy string            `json:"image_pull_policy,omitempty"`
	Env             map[string]string `json:"env,omitempty"`
	Secrets         []Secret          `json:"secrets,omitempty"`
	ServiceAccount  string            `json:"service_account,omitempty"`
}

// ParallelismSpec sets how many worker pods process the job.
type ParallelismSpec struct {
	Constant int32 `json:"constant"`
}

// ResourceRequests declares the per-worker resource footprint.
type ResourceRequests struct {
	Memory string  `json:"memory"`
	CPU    float64 `json:"cpu"`
}

// Egress names the destination the workers upload their outputs to.
type Egress struct {
	URI string `json:"URI"`
}

// Parse decodes and validates a pipeline spec from JSON.
func Parse(data []byte) (*Spec, error) {
	spec := &Spec{}
	if err := jsonutil.UnmarshalStrict(data, spec); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline spec: %v", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// pipelineNamePattern matches names that turn into legal DNS labels once
// NormalizeName lowercases them and maps "_" to "-".
var pipelineNamePattern = regexp.MustCompile(`^[A-Za-z0-9]([-_A-Za-z0-9]*[A-Za-z0-9])?$`)

// Validate checks the semantic constraints the JSON grammar cannot express.
func (s *Spec) Validate() error {
	if s.Pipeline.Name == "" {
		return fmt.Errorf("pipeline name is required")
	}
	if !pipelineNamePattern.MatchString(s.Pipeline.Name) {
		return fmt.Errorf("pipeline name %q cannot be used in a kubernetes job name", s.Pipeline.Name)
	}
	if len(s.Transform.Cmd) == 0 {
		return fmt.Errorf("transform cmd is required")
	}
	if s.Transform.Image == "" {
		return fmt.Errorf("transform image is required")
	}
	for i := range s.Transform.Secrets {
		if err := s.Transform.Secrets[i].Validate(); err != nil {
			return err
		}
	}
	if s.ParallelismSpec.Constant < 1 {
		return fmt.Errorf("parallelism_spec constant must be at least 1")
	}
	if s.DatumTries < 0 {
		return fmt.Errorf("datum_tries cannot be negative")
	}
	if s.JobTimeoutSeconds != nil && *s.JobTimeoutSeconds <= 0 {
		return fmt.Errorf("job_timeout must be positive")
	}
	if err := s.Input.Validate(); err != nil {
		return err
	}
	if s.Egress.URI == "" {
		return fmt.Errorf("egress URI is required")
	}
	return nil
}

// MaximumAllowedRunCount returns how many times each datum of this pipeline
// may be attempted before it is considered permanently failed.
func (s *Spec) MaximumAllowedRunCount() int32 {
	if s.DatumTries >= 1 {
		return s.DatumTries
	}
	return DefaultMaximumRunCount
}

// Atom is a single cloud-storage prefix to shard into datums.
type Atom struct {
	URI  string `json:"URI"`
	Repo string `json:"repo"`
	Glob Glob   `json:"glob"`
}

// Input is a recursive expression describing which files each datum
// receives. Exactly one of Atom, Cross or Union is set.
type Input struct {
	Atom  *Atom
	Cross []Input
	Union []Input
}

// UnmarshalJSON enforces the one-of shape. The key "pfs" is accepted as an
// alias for "atom" for compatibility with Pachyderm pipeline files.
func (in *Input) UnmarshalJSON(data []byte) error {
	var branches map[string]json.RawMessage
	if err := json.Unmarshal(data, &branches); err != nil {
		return fmt.Errorf("failed to parse input: %v", err)
	}
	if len(branches) != 1 {
		return fmt.Errorf("input must have exactly one of \"atom\", \"cross\" or \"union\"")
	}
	*in = Input{}
	for key, raw := range branches {
		switch key {
		case "atom", "pfs":
			atom := &Atom{}
			if err := jsonutil.UnmarshalStrict(raw, atom); err != nil {
				return fmt.Errorf("failed to parse %q input: %v", key, err)
			}
			in.Atom = atom
		case "cross":
			if err := json.Unmarshal(raw, &in.Cross); err != nil {
				return fmt.Errorf("failed to parse \"cross\" input: %v", err)
			}
		case "union":
			if err := json.Unmarshal(raw, &in.Union); err != nil {
				return fmt.Errorf("failed to parse \"union\" input: %v", err)
			}
		default:
			return fmt.Errorf("unknown input type %q", key)
		}
	}
	return nil
}

// MarshalJSON emits the branch that is set. A "pfs" alias round-trips as
// "atom".
func (in Input) MarshalJSON() ([]byte, error) {
	switch {
	case in.Atom != nil:
		return json.Marshal(map[string]*Atom{"atom": in.Atom})
	case in.Cross != nil:
		return json.Marshal(map[string][]Input{"cross": in.Cross})
	case in.Union != nil:
		return json.Marshal(map[string][]Input{"union": in.Union})
	default:
		return nil, fmt.Errorf("input has no atom, cross or union branch")
	}
}

// Validate recursively checks the expression.
func (in *Input) Validate() error {
	set := 0
	if in.Atom != nil {
		set++
	}
	if in.Cross != nil {
		set++
	}
	if in.Union != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("input must have exactly one of \"atom\", \"cross\" or \"union\"")
	}
	if in.Atom != nil {
		if in.Atom.URI == "" {
			return fmt.Errorf("atom input URI is required")
		}
		if in.Atom.Repo == "" {
			return fmt.Errorf("atom input repo is required")
		}
		return in.Atom.Glob.Validate()
	}
	children := in.Cross
	if children == nil {
		children = in.Union
	}
	for i := range children {
		if err := children[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// URIs collects every atom URI in the expression tree.
func (in *Input) URIs() []string {
	if in.Atom != nil {
		return []string{in.Atom.URI}
	}
	children := in.Cross
	if children == nil {
		children = in.Union
	}
	var uris []string
	for i := range children {
		uris = append(uris, children[i].URIs()...)
	}
	return uris
}

// Secret maps a Kubernetes secret into a worker container, either as a
// mounted directory or as a single environment variable.
type Secret struct {
	Name string `json:"name"`
	// MountPath is set for mount secrets.
	MountPath string `json:"mount_path,omitempty"`
	// Key and EnvVar are set for env secrets.
	Key    string `json:"key,omitempty"`
	EnvVar string `json:"env_var,omitempty"`
}

// IsMount reports whether the secret is mounted as a directory of files.
func (s *Secret) IsMount() bool {
	return s.MountPath != ""
}

// IsEnv reports whether the secret maps one key to an environment variable.
func (s *Secret) IsEnv() bool {
	return s.Key != "" && s.EnvVar != ""
}

// UnmarshalJSON enforces that a secret is either {name, mount_path} or
// {name, key, env_var}, with no extra fields.
func (s *Secret) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to parse secret: %v", err)
	}
	*s = Secret{}
	for key, value := range fields {
		switch key {
		case "name":
			s.Name = value
		case "mount_path":
			s.MountPath = value
		case "key":
			s.Key = value
		case "env_var":
			s.EnvVar = value
		default:
			return fmt.Errorf("unknown secret field %q", key)
		}
	}
	return s.Validate()
}

// Validate checks the one-of shape of the secret.
func (s *Secret) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("secret name is required")
	}
	isMount := s.MountPath != ""
	isEnv := s.Key != "" || s.EnvVar != ""
	switch {
	case isMount && isEnv:
		return fmt.Errorf("secret %q cannot have both mount_path and key/env_var", s.Name)
	case isMount:
		return nil
	case s.Key != "" && s.EnvVar != "":
		return nil
	default:
		return fmt.Errorf("secret %q must have either mount_path or both key and env_var", s.Name)
	}
}
