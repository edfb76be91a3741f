/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package restclient talks to the falconerid REST API on behalf of the CLI
// and the worker pods.
package restclient

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
)

// ConnectVia says how to reach falconerid and PostgreSQL.
type ConnectVia int

const (
	// ConnectViaCluster assumes internal cluster networking and DNS.
	ConnectViaCluster ConnectVia = iota
	// ConnectViaProxy assumes a kubectl port-forward on localhost.
	ConnectViaProxy
)

// String implements fmt.Stringer.
func (v ConnectVia) String() string {
	if v == ConnectViaProxy {
		return "proxy"
	}
	return "cluster"
}

// baseURL returns the falconerid endpoint for this connection mode.
func (v ConnectVia) baseURL() string {
	if v == ConnectViaProxy {
		return fmt.Sprintf("http://localhost:%d/", commonconfig.GetServerPort())
	}
	return fmt.Sprintf("http://%s:%d/", kubernetes.ServiceName, commonconfig.GetServerPort())
}

// shouldRetryByDefault reports whether failed requests should be retried.
//
// On the cluster we retry, because cluster DNS is flaky and a large job may
// burn a thousand worker-hours, at which point something will inevitably
// break. Through a proxy it is better to hand errors straight to the person
// at the terminal.
func (v ConnectVia) shouldRetryByDefault() bool {
	return v == ConnectViaCluster
}

// retryIfAppropriate runs op, retrying with exponential backoff when this
// connection mode calls for it. The default backoff gives up after 15
// minutes. Canceling the context stops the retries.
func (v ConnectVia) retryIfAppropriate(ctx context.Context, op func() error) error {
	if !v.shouldRetryByDefault() {
		return op()
	}
	return backoff.Retry(op, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
}
