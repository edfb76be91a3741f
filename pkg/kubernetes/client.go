/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package kubernetes

import (
	"context"
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/klog/v2"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/config"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/sets"
)

const (
	defaultQPS   = 1000
	defaultBurst = 1000
)

// Client implements Interface against a real cluster. All operations are
// scoped to a single namespace.
type Client struct {
	clientSet  kubernetes.Interface
	ctrlClient ctrlclient.Client
	restConfig *rest.Config
	namespace  string
}

var _ Interface = &Client{}

// NewClient builds a Client from the ambient kubeconfig (in-cluster config
// when running in a pod, ~/.kube/config otherwise).
func NewClient() (*Client, error) {
	restConfig, err := GetRestConfig()
	if err != nil {
		return nil, err
	}
	clientSet, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, err
	}
	runtimeClient, err := ctrlclient.New(restConfig, ctrlclient.Options{})
	if err != nil {
		return nil, err
	}
	return &Client{
		clientSet:  clientSet,
		ctrlClient: runtimeClient,
		restConfig: restConfig,
		namespace:  commonconfig.GetNamespace(),
	}, nil
}

// NewClientWithClientSet wraps an existing client set. Used by tests and by
// callers that already hold one.
func NewClientWithClientSet(clientSet kubernetes.Interface, namespace string) *Client {
	return &Client{
		clientSet: clientSet,
		namespace: namespace,
	}
}

// NewClientWithRuntimeClient wraps an existing controller-runtime client.
// Tests pass a fake client builder product.
func NewClientWithRuntimeClient(runtimeClient ctrlclient.Client, namespace string) *Client {
	return &Client{
		ctrlClient: runtimeClient,
		namespace:  namespace,
	}
}

// GetRestConfig resolves the ambient REST configuration.
func GetRestConfig() (*rest.Config, error) {
	restConfig, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	restConfig.QPS = defaultQPS
	restConfig.Burst = defaultBurst
	return restConfig, nil
}

// Namespace returns the namespace the client operates in.
func (c *Client) Namespace() string {
	return c.namespace
}

// CreateJob submits a batch Job.
func (c *Client) CreateJob(ctx context.Context, job *batchv1.Job) error {
	if _, err := c.clientSet.BatchV1().Jobs(c.namespace).Create(ctx, job, metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("failed to create job %s: %w", job.Name, err)
	}
	klog.Infof("job %s/%s created", c.namespace, job.Name)
	return nil
}

// DeleteJob removes a Job together with its pods.
func (c *Client) DeleteJob(ctx context.Context, name string) error {
	propagation := metav1.DeletePropagationBackground
	err := c.clientSet.BatchV1().Jobs(c.namespace).Delete(ctx, name, metav1.DeleteOptions{
		PropagationPolicy: &propagation,
	})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete job %s: %w", name, err)
	}
	return nil
}

// ListJobNames returns the names of all Jobs in the namespace.
func (c *Client) ListJobNames(ctx context.Context) (sets.Set, error) {
	jobs, err := c.clientSet.BatchV1().Jobs(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	names := sets.NewSet()
	for i := range jobs.Items {
		names.Insert(jobs.Items[i].Name)
	}
	return names, nil
}

// ListRunningPodNames returns the names of all pods currently in phase
// Running.
func (c *Client) ListRunningPodNames(ctx context.Context) (sets.Set, error) {
	pods, err := c.clientSet.CoreV1().Pods(c.namespace).List(ctx, metav1.ListOptions{
		FieldSelector: "status.phase=Running",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list running pods: %w", err)
	}
	names := sets.NewSet()
	for i := range pods.Items {
		names.Insert(pods.Items[i].Name)
	}
	return names, nil
}

// GetSecretValue reads one key of a named secret.
func (c *Client) GetSecretValue(ctx context.Context, name, key string) (string, error) {
	secret, err := c.clientSet.CoreV1().Secrets(c.namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("secret %s has no key %q", name, key)
	}
	return string(value), nil
}
