/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package kubernetes

import (
	"context"
	"fmt"
	"io"
	"net/http"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"
	"k8s.io/klog/v2"
)

const (
	// ServiceName is the name of the orchestrator deployment and service.
	ServiceName = "falconerid"
	// PostgresName is the name of the Postgres deployment, service and
	// volume claim.
	PostgresName = "falconeri-postgres"
	// SecretName is the secret holding the orchestrator's credentials.
	SecretName = "falconeri"
	// PasswordKey is the secret key carrying the Postgres password, which
	// doubles as the API admin password.
	PasswordKey = "POSTGRES_PASSWORD"
	// AppLabel marks the pods of a falconeri deployment.
	AppLabel = "app"
	// PostgresPort is the port the falconeri-postgres service listens on.
	PostgresPort = 5432
)

// PortForward forwards localhost:localPort to remotePort on a running pod
// labeled app=<app> until ctx is canceled. It blocks for the lifetime of the
// forward.
func (c *Client) PortForward(ctx context.Context, app string, localPort, remotePort int, out, errOut io.Writer) error {
	podName, err := c.findRunningPod(ctx, app)
	if err != nil {
		return err
	}

	req := c.clientSet.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(c.namespace).
		Name(podName).
		SubResource("portforward")

	transport, upgrader, err := spdy.RoundTripperFor(c.restConfig)
	if err != nil {
		return fmt.Errorf("failed to build port-forward transport: %w", err)
	}
	dialer := spdy.NewDialer(upgrader, &http.Client{Transport: transport}, http.MethodPost, req.URL())

	readyCh := make(chan struct{})
	go func() {
		select {
		case <-readyCh:
			klog.Infof("forwarding localhost:%d to pod %s port %d", localPort, podName, remotePort)
		case <-ctx.Done():
		}
	}()

	forwarder, err := portforward.New(dialer,
		[]string{fmt.Sprintf("%d:%d", localPort, remotePort)}, ctx.Done(), readyCh, out, errOut)
	if err != nil {
		return fmt.Errorf("failed to build port forwarder: %w", err)
	}
	return forwarder.ForwardPorts()
}

// findRunningPod picks one running pod of the named deployment.
func (c *Client) findRunningPod(ctx context.Context, app string) (string, error) {
	pods, err := c.clientSet.CoreV1().Pods(c.namespace).List(ctx, metav1.ListOptions{
		LabelSelector: AppLabel + "=" + app,
	})
	if err != nil {
		return "", fmt.Errorf("failed to list %s pods: %w", app, err)
	}
	for i := range pods.Items {
		if pods.Items[i].Status.Phase == corev1.PodRunning {
			return pods.Items[i].Name, nil
		}
	}
	return "", fmt.Errorf("no running %s pod found in namespace %s", app, c.namespace)
}
