/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package cli implements the falconeri operator tool: deploying the
// orchestrator into a cluster, proxying to it, and managing jobs and datums.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	ctrlruntime "sigs.k8s.io/controller-runtime"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/restclient"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/version"
)

var namespace string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "falconeri",
	Short: "A tool for running batch jobs on Kubernetes",
	Long: `Falconeri runs containerized batch jobs over collections of cloud
storage files, tracking the work in a PostgreSQL database.

Typical workflow:
  falconeri deploy
  falconeri proxy        (keep running in a separate terminal)
  falconeri migrate
  falconeri job run -f pipeline-spec.json`,
	SilenceUsage: true,
	Version:      version.Version,
}

// Execute runs the selected subcommand.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", "default",
		"kubernetes namespace falconeri is deployed in")
}

// signalContext returns a context canceled by SIGINT or SIGTERM. A second
// signal kills the process outright.
func signalContext() context.Context {
	return ctrlruntime.SetupSignalHandler()
}

// newKubernetesClient builds a cluster client honoring the --namespace flag.
func newKubernetesClient() (*kubernetes.Client, error) {
	commonconfig.SetNamespace(namespace)
	return kubernetes.NewClient()
}

// newRestClient talks to falconerid through the local proxy, authenticating
// with the password from the cluster secret.
func newRestClient(ctx context.Context) (*restclient.Client, error) {
	commonconfig.SetNamespace(namespace)
	return restclient.NewClient(ctx, restclient.ConnectViaProxy)
}
