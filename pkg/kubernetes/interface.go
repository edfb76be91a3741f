/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package kubernetes

import (
	"context"

	batchv1 "k8s.io/api/batch/v1"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/sets"
)

//go:generate mockgen -source=interface.go -destination=mock/mock.go

// Interface is the cluster surface the orchestrator consumes: create and
// delete worker Jobs, observe what is actually running, and read secrets.
type Interface interface {
	// CreateJob submits a batch Job to the configured namespace.
	CreateJob(ctx context.Context, job *batchv1.Job) error

	// DeleteJob removes a Job and its pods. Deleting a Job that does not
	// exist is not an error.
	DeleteJob(ctx context.Context, name string) error

	// ListJobNames returns the names of all Jobs in the namespace.
	ListJobNames(ctx context.Context) (sets.Set, error)

	// ListRunningPodNames returns the names of all pods in phase Running.
	ListRunningPodNames(ctx context.Context) (sets.Set, error)

	// GetSecretValue reads one key of a named secret.
	GetSecretValue(ctx context.Context, name, key string) (string, error)
}
