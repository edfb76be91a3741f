/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package launcher

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gotest.tools/assert"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	mock_client "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client/mock"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
	mock_kubernetes "github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes/mock"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
	mock_storage "github.com/AMD-AIG-AIMA/falconeri/pkg/storage/mock"
)

const tagCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func testSpec() *pipeline.Spec {
	return &pipeline.Spec{
		Pipeline: pipeline.PipelineInfo{Name: "word_count"},
		Transform: pipeline.Transform{
			Cmd:   []string{"python3", "/extract_words.py"},
			Image: "example/nlp:1.2",
			Env:   map[string]string{"BETA": "2", "ALPHA": "1"},
			Secrets: []pipeline.Secret{
				{Name: "gcs-key", MountPath: "/etc/gcs"},
				{Name: "aws", Key: "access_key", EnvVar: "AWS_ACCESS_KEY_ID"},
			},
			ServiceAccount: "pipeline-runner",
		},
		ParallelismSpec:  pipeline.ParallelismSpec{Constant: 4},
		ResourceRequests: pipeline.ResourceRequests{Memory: "500Mi", CPU: 1.5},
		NodeSelector:     map[string]string{"pool": "batch"},
		DatumTries:       2,
		Input: pipeline.Input{Atom: &pipeline.Atom{
			URI:  "gs://b/in",
			Repo: "in",
			Glob: pipeline.GlobTopLevelEntries,
		}},
		Egress: pipeline.Egress{URI: "gs://b/out/"},
	}
}

func TestUniqueJobName(t *testing.T) {
	name, err := UniqueJobName("Word_Count")
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(name, "word-count-"))

	tag := strings.TrimPrefix(name, "word-count-")
	assert.Equal(t, len(tag), 5)
	for _, c := range tag {
		assert.Assert(t, strings.ContainsRune(tagCharset, c), "unexpected tag character %q", c)
	}

	other, err := UniqueJobName("Word_Count")
	assert.NilError(t, err)
	assert.Assert(t, name != other)
}

func TestBuildWorkerJob(t *testing.T) {
	spec := testSpec()
	spec.JobTimeoutSeconds = ptr.To(int64(3600))
	job := &dbclient.Job{
		Id:      uuid.New(),
		JobName: "word-count-ab12c",
	}

	workload, err := buildWorkerJob(spec, job, 4)
	assert.NilError(t, err)

	assert.Equal(t, workload.Name, "word-count-ab12c")
	assert.Equal(t, workload.Labels[CreatedByLabel], CreatedByValue)
	assert.Equal(t, *workload.Spec.Parallelism, int32(4))
	assert.Equal(t, *workload.Spec.Completions, int32(4))
	assert.Equal(t, *workload.Spec.BackoffLimit, int32(0))
	assert.Equal(t, *workload.Spec.ActiveDeadlineSeconds, int64(3600))

	pod := workload.Spec.Template.Spec
	assert.Equal(t, pod.RestartPolicy, corev1.RestartPolicyNever)
	assert.Equal(t, pod.NodeSelector["pool"], "batch")
	assert.Equal(t, pod.ServiceAccountName, "pipeline-runner")
	assert.Equal(t, len(pod.Containers), 1)

	container := pod.Containers[0]
	assert.Equal(t, container.Image, "example/nlp:1.2")
	assert.DeepEqual(t, container.Command, []string{workerBinary, job.Id.String()})

	memory := container.Resources.Requests[corev1.ResourceMemory]
	assert.Equal(t, memory.String(), "500Mi")
	cpu := container.Resources.Requests[corev1.ResourceCPU]
	assert.Equal(t, cpu.MilliValue(), int64(1500))

	// Identity env first, then user env in sorted order, then env secrets.
	env := container.Env
	assert.Equal(t, len(env), 5)
	assert.Equal(t, env[0].Name, kubernetes.NodeNameEnv)
	assert.Equal(t, env[0].ValueFrom.FieldRef.FieldPath, "spec.nodeName")
	assert.Equal(t, env[1].Name, kubernetes.PodNameEnv)
	assert.Equal(t, env[1].ValueFrom.FieldRef.FieldPath, "metadata.name")
	assert.Equal(t, env[2].Name, "ALPHA")
	assert.Equal(t, env[2].Value, "1")
	assert.Equal(t, env[3].Name, "BETA")
	assert.Equal(t, env[4].Name, "AWS_ACCESS_KEY_ID")
	assert.Equal(t, env[4].ValueFrom.SecretKeyRef.Name, "aws")
	assert.Equal(t, env[4].ValueFrom.SecretKeyRef.Key, "access_key")

	// The falconeri credentials come first, then the user's mount secrets.
	assert.Equal(t, len(pod.Volumes), 2)
	assert.Equal(t, pod.Volumes[0].Name, credentialsVolumeName)
	assert.Equal(t, pod.Volumes[0].Secret.SecretName, kubernetes.SecretName)
	assert.Equal(t, pod.Volumes[1].Name, "secret-gcs-key")
	assert.Equal(t, pod.Volumes[1].Secret.SecretName, "gcs-key")
	assert.Equal(t, len(container.VolumeMounts), 2)
	assert.Equal(t, container.VolumeMounts[0].MountPath, commonconfig.DefaultSecretPath)
	assert.Assert(t, container.VolumeMounts[0].ReadOnly)
	assert.Equal(t, container.VolumeMounts[1].MountPath, "/etc/gcs")
}

func TestBuildWorkerJobRejectsBadMemory(t *testing.T) {
	spec := testSpec()
	spec.ResourceRequests.Memory = "lots"
	_, err := buildWorkerJob(spec, &dbclient.Job{JobName: "x"}, 1)
	assert.ErrorContains(t, err, `invalid memory request "lots"`)
}

func TestRunJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	db := mock_client.NewMockInterface(ctrl)
	k8s := mock_kubernetes.NewMockInterface(ctrl)
	lister := mock_storage.NewMockInterface(ctrl)
	spec := testSpec()

	lister.EXPECT().List(gomock.Any(), "gs://b/in/").
		Return([]string{"gs://b/in/a.csv", "gs://b/in/b.csv"}, nil)

	db.EXPECT().InsertJobWithPlan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *dbclient.NewJob, datums []*dbclient.NewDatum, files []*dbclient.NewInputFile) (*dbclient.Job, error) {
			assert.Equal(t, job.Status, dbclient.StatusRunning)
			assert.Assert(t, strings.HasPrefix(job.JobName, "word-count-"))
			assert.DeepEqual(t, []string(job.Command), spec.Transform.Cmd)
			assert.Equal(t, job.EgressURI, "gs://b/out/")

			// The stored spec must parse back to what was submitted.
			stored, err := pipeline.Parse(job.PipelineSpec)
			assert.NilError(t, err)
			assert.Equal(t, stored.Pipeline.Name, "word_count")
			assert.Equal(t, stored.ParallelismSpec.Constant, int32(4))

			assert.Equal(t, len(datums), 2)
			assert.Equal(t, len(files), 2)
			assert.Equal(t, datums[0].JobId, job.Id)
			assert.Equal(t, datums[0].MaximumAllowedRunCount, int32(2))
			assert.Equal(t, files[0].LocalPath, "/pfs/in/a.csv")
			assert.Equal(t, files[1].LocalPath, "/pfs/in/b.csv")

			return &dbclient.Job{
				Id:        job.Id,
				Status:    job.Status,
				JobName:   job.JobName,
				Command:   job.Command,
				EgressURI: job.EgressURI,
			}, nil
		})

	var launched *batchv1.Job
	k8s.EXPECT().CreateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, workload *batchv1.Job) error {
			launched = workload
			return nil
		})

	job, err := RunJob(context.Background(), db, k8s, lister, spec, "/pfs")
	assert.NilError(t, err)
	assert.Assert(t, launched != nil)
	assert.Equal(t, launched.Name, job.JobName)
	// A fresh run keeps the requested parallelism even with fewer datums.
	assert.Equal(t, *launched.Spec.Parallelism, int32(4))
}

func TestRunJobLaunchFailureKeepsRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	db := mock_client.NewMockInterface(ctrl)
	k8s := mock_kubernetes.NewMockInterface(ctrl)
	lister := mock_storage.NewMockInterface(ctrl)
	spec := testSpec()

	lister.EXPECT().List(gomock.Any(), "gs://b/in/").
		Return([]string{"gs://b/in/a.csv"}, nil)
	db.EXPECT().InsertJobWithPlan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *dbclient.NewJob, _ []*dbclient.NewDatum, _ []*dbclient.NewInputFile) (*dbclient.Job, error) {
			return &dbclient.Job{Id: job.Id, JobName: job.JobName}, nil
		})
	k8s.EXPECT().CreateJob(gomock.Any(), gomock.Any()).
		Return(errors.New("cluster is full"))

	// The insert is not rolled back; the babysitter cleans up the job row.
	_, err := RunJob(context.Background(), db, k8s, lister, spec, "/pfs")
	assert.ErrorContains(t, err, "cluster is full")
}

func TestRetryJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	db := mock_client.NewMockInterface(ctrl)
	k8s := mock_kubernetes.NewMockInterface(ctrl)

	spec := testSpec()
	spec.ParallelismSpec.Constant = 10
	specJSON, err := json.Marshal(spec)
	assert.NilError(t, err)
	oldJob := &dbclient.Job{
		Id:           uuid.New(),
		Status:       dbclient.StatusError,
		JobName:      "word-count-ab12c",
		PipelineSpec: datatypes.JSON(specJSON),
	}

	db.EXPECT().RetryJob(gomock.Any(), oldJob.Id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, jobName string) (*dbclient.Job, int, error) {
			assert.Assert(t, strings.HasPrefix(jobName, "word-count-"))
			assert.Assert(t, jobName != oldJob.JobName)
			return &dbclient.Job{
				Id:           uuid.New(),
				Status:       dbclient.StatusRunning,
				JobName:      jobName,
				PipelineSpec: oldJob.PipelineSpec,
			}, 3, nil
		})

	var launched *batchv1.Job
	k8s.EXPECT().CreateJob(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, workload *batchv1.Job) error {
			launched = workload
			return nil
		})

	job, err := RetryJob(context.Background(), db, k8s, oldJob)
	assert.NilError(t, err)
	assert.Equal(t, launched.Name, job.JobName)
	// Three failed datums cap the stored parallelism of ten.
	assert.Equal(t, *launched.Spec.Parallelism, int32(3))
}

func TestRetryJobRejectsCorruptSpec(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	db := mock_client.NewMockInterface(ctrl)
	k8s := mock_kubernetes.NewMockInterface(ctrl)

	oldJob := &dbclient.Job{
		Id:           uuid.New(),
		JobName:      "word-count-ab12c",
		PipelineSpec: datatypes.JSON(`{"not": "a pipeline"}`),
	}
	_, err := RetryJob(context.Background(), db, k8s, oldJob)
	assert.ErrorContains(t, err, "cannot parse pipeline spec stored with job word-count-ab12c")
}
