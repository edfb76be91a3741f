/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package launcher starts pipeline runs: it plans the datums, records the
// job in the database and submits the worker workload to Kubernetes.
package launcher

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/planner"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/stringutil"
)

const (
	// CreatedByLabel marks workloads created by falconeri so operators can
	// find and clean them up together.
	CreatedByLabel = "created-by"
	// CreatedByValue is the value of CreatedByLabel on worker workloads.
	CreatedByValue = "falconeri"

	// tagLength is the number of random characters appended to a pipeline
	// name to make the Kubernetes job name unique.
	tagLength = 5

	workerContainerName = "worker"
	// workerBinary is where user images are expected to install the worker
	// runner.
	workerBinary = "/usr/local/bin/falconeri-worker"

	// credentialsVolumeName mounts the falconeri secret into every worker so
	// it can authenticate against falconerid.
	credentialsVolumeName = "falconeri-credentials"

	// ttlSecondsAfterFinished lets Kubernetes garbage collect finished
	// workloads after a day. The vanished job check tolerates this.
	ttlSecondsAfterFinished = int32(24 * 60 * 60)
)

// UniqueJobName derives a fresh Kubernetes job name from a pipeline name.
// The name must be a legal DNS label, so it is lowercased, underscores
// become hyphens, and a random tag keeps repeated runs distinct.
func UniqueJobName(pipelineName string) (string, error) {
	tag, err := stringutil.RandomTag(tagLength)
	if err != nil {
		return "", err
	}
	return stringutil.NormalizeName(pipelineName) + "-" + tag, nil
}

// RunJob plans the datums of a pipeline, inserts the job with its plan in
// one transaction, and launches the worker workload. If the launch fails the
// database rows are left in place; the babysitter will mark the job as
// errored once the vanished job window passes.
func RunJob(ctx context.Context, db dbclient.Interface, k8s kubernetes.Interface, lister planner.Lister, spec *pipeline.Spec, inputRoot string) (*dbclient.Job, error) {
	jobID := uuid.New()
	jobName, err := UniqueJobName(spec.Pipeline.Name)
	if err != nil {
		return nil, err
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize pipeline spec: %w", err)
	}

	datums, files, err := planner.Plan(ctx, lister, jobID, spec.Input, inputRoot, spec.MaximumAllowedRunCount())
	if err != nil {
		return nil, err
	}

	newJob := &dbclient.NewJob{
		Id:           jobID,
		Status:       dbclient.StatusRunning,
		PipelineSpec: datatypes.JSON(specJSON),
		JobName:      jobName,
		Command:      pq.StringArray(spec.Transform.Cmd),
		EgressURI:    spec.Egress.URI,
	}
	job, err := db.InsertJobWithPlan(ctx, newJob, datums, files)
	if err != nil {
		return nil, err
	}

	if err := startBatchJob(ctx, k8s, spec, job, spec.ParallelismSpec.Constant); err != nil {
		return nil, err
	}
	return job, nil
}

// RetryJob clones the failed datums of an errored job into a fresh job and
// launches a workload for it. Parallelism is capped at the number of datums
// being retried, so a wide job that failed on a handful of datums does not
// spin up idle workers. The stored pipeline spec keeps its original
// parallelism; the cap only affects the workload being launched.
func RetryJob(ctx context.Context, db dbclient.Interface, k8s kubernetes.Interface, oldJob *dbclient.Job) (*dbclient.Job, error) {
	spec, err := pipeline.Parse(oldJob.PipelineSpec)
	if err != nil {
		return nil, fmt.Errorf("cannot parse pipeline spec stored with job %s: %w", oldJob.JobName, err)
	}
	jobName, err := UniqueJobName(spec.Pipeline.Name)
	if err != nil {
		return nil, err
	}

	job, datumCount, err := db.RetryJob(ctx, oldJob.Id, jobName)
	if err != nil {
		return nil, err
	}

	parallelism := spec.ParallelismSpec.Constant
	if int32(datumCount) < parallelism {
		parallelism = int32(datumCount)
	}
	if err := startBatchJob(ctx, k8s, spec, job, parallelism); err != nil {
		return nil, err
	}
	return job, nil
}

func startBatchJob(ctx context.Context, k8s kubernetes.Interface, spec *pipeline.Spec, job *dbclient.Job, parallelism int32) error {
	klog.Infof("launching workload %s with parallelism %d", job.JobName, parallelism)
	workload, err := buildWorkerJob(spec, job, parallelism)
	if err != nil {
		return err
	}
	return k8s.CreateJob(ctx, workload)
}

// buildWorkerJob renders the Kubernetes batch job that runs the workers. The
// worker binary is baked into the user's transform image and receives the
// job id as its only argument.
func buildWorkerJob(spec *pipeline.Spec, job *dbclient.Job, parallelism int32) (*batchv1.Job, error) {
	requests, err := workerResourceRequests(&spec.ResourceRequests)
	if err != nil {
		return nil, err
	}
	volumes, mounts := workerSecretVolumes(spec.Transform.Secrets)

	workload := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name: job.JobName,
			Labels: map[string]string{
				CreatedByLabel: CreatedByValue,
			},
		},
		Spec: batchv1.JobSpec{
			Parallelism:             ptr.To(parallelism),
			Completions:             ptr.To(parallelism),
			// Datum retries are tracked in the database, not by the Job
			// controller; a worker pod that dies is not recreated.
			BackoffLimit:            ptr.To(int32(0)),
			TTLSecondsAfterFinished: ptr.To(ttlSecondsAfterFinished),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						CreatedByLabel: CreatedByValue,
						"job-name":     job.JobName,
					},
				},
				Spec: corev1.PodSpec{
					RestartPolicy:      corev1.RestartPolicyNever,
					NodeSelector:       spec.NodeSelector,
					ServiceAccountName: spec.Transform.ServiceAccount,
					Containers: []corev1.Container{{
						Name:            workerContainerName,
						Image:           spec.Transform.Image,
						ImagePullPolicy: corev1.PullPolicy(spec.Transform.ImagePullPolicy),
						Command:         []string{workerBinary, job.Id.String()},
						Env:             workerEnv(spec),
						Resources:       corev1.ResourceRequirements{Requests: requests},
						VolumeMounts:    mounts,
					}},
					Volumes: volumes,
				},
			},
		},
	}
	if spec.JobTimeoutSeconds != nil {
		workload.Spec.ActiveDeadlineSeconds = spec.JobTimeoutSeconds
	}
	return workload, nil
}

func workerResourceRequests(requests *pipeline.ResourceRequests) (corev1.ResourceList, error) {
	memory, err := resource.ParseQuantity(requests.Memory)
	if err != nil {
		return nil, fmt.Errorf("invalid memory request %q: %w", requests.Memory, err)
	}
	cpu := resource.NewMilliQuantity(int64(requests.CPU*1000), resource.DecimalSI)
	return corev1.ResourceList{
		corev1.ResourceMemory: memory,
		corev1.ResourceCPU:    *cpu,
	}, nil
}

// workerEnv builds the container environment: the node and pod identity the
// worker reports when reserving datums, then user variables, then env
// secrets. User variables are sorted so the manifest is deterministic.
func workerEnv(spec *pipeline.Spec) []corev1.EnvVar {
	env := []corev1.EnvVar{
		{
			Name: kubernetes.NodeNameEnv,
			ValueFrom: &corev1.EnvVarSource{
				FieldRef: &corev1.ObjectFieldSelector{FieldPath: "spec.nodeName"},
			},
		},
		{
			Name: kubernetes.PodNameEnv,
			ValueFrom: &corev1.EnvVarSource{
				FieldRef: &corev1.ObjectFieldSelector{FieldPath: "metadata.name"},
			},
		},
	}

	names := make([]string, 0, len(spec.Transform.Env))
	for name := range spec.Transform.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		env = append(env, corev1.EnvVar{Name: name, Value: spec.Transform.Env[name]})
	}

	for i := range spec.Transform.Secrets {
		secret := &spec.Transform.Secrets[i]
		if !secret.IsEnv() {
			continue
		}
		env = append(env, corev1.EnvVar{
			Name: secret.EnvVar,
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: secret.Name},
					Key:                  secret.Key,
				},
			},
		})
	}
	return env
}

// workerSecretVolumes builds the pod volumes: the falconeri credentials every
// worker needs, then the user's mount secrets.
func workerSecretVolumes(secrets []pipeline.Secret) ([]corev1.Volume, []corev1.VolumeMount) {
	volumes := []corev1.Volume{{
		Name: credentialsVolumeName,
		VolumeSource: corev1.VolumeSource{
			Secret: &corev1.SecretVolumeSource{SecretName: kubernetes.SecretName},
		},
	}}
	mounts := []corev1.VolumeMount{{
		Name:      credentialsVolumeName,
		MountPath: commonconfig.DefaultSecretPath,
		ReadOnly:  true,
	}}
	for i := range secrets {
		secret := &secrets[i]
		if !secret.IsMount() {
			continue
		}
		volumeName := "secret-" + secret.Name
		volumes = append(volumes, corev1.Volume{
			Name: volumeName,
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: secret.Name},
			},
		})
		mounts = append(mounts, corev1.VolumeMount{
			Name:      volumeName,
			MountPath: secret.MountPath,
			ReadOnly:  true,
		})
	}
	return volumes, mounts
}
