/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/stringutil"
)

var (
	deployDryRun       bool
	deploySkipSecret   bool
	deployDevelopment  bool
	postgresStorage    string
	postgresMemory     string
	postgresCPU        string
	falconeridReplicas int32
	falconeridMemory   string
	falconeridCPU      string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy falconeri onto the current cluster",
	Long: `Deploy falconeri onto the cluster selected by the current kubectl context.

A fresh deployment generates a random Postgres password and stores it in the
falconeri secret. Redeploying keeps the existing secret, so upgrades never
lock falconerid out of its own database.`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false,
		"print the manifests instead of applying them")
	deployCmd.Flags().BoolVar(&deploySkipSecret, "skip-secret", false,
		"never create the falconeri secret")
	deployCmd.Flags().BoolVar(&deployDevelopment, "development", false,
		"use small resource defaults and a locally built image")
	deployCmd.Flags().StringVar(&postgresStorage, "postgres-storage", "",
		"postgres volume size (default 10Gi, development 100Mi)")
	deployCmd.Flags().StringVar(&postgresMemory, "postgres-memory", "",
		"postgres memory request (default 1Gi, development 256Mi)")
	deployCmd.Flags().StringVar(&postgresCPU, "postgres-cpu", "",
		"postgres cpu request (default 500m, development 100m)")
	deployCmd.Flags().Int32Var(&falconeridReplicas, "falconerid-replicas", 0,
		"falconerid replica count (default 2, development 1)")
	deployCmd.Flags().StringVar(&falconeridMemory, "falconerid-memory", "",
		"falconerid memory request (default 256Mi, development 64Mi)")
	deployCmd.Flags().StringVar(&falconeridCPU, "falconerid-cpu", "",
		"falconerid cpu request (default 450m, development 100m)")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg := prodDeployConfig()
	if deployDevelopment {
		cfg = devDeployConfig()
	}
	cfg.Namespace = namespace
	overrideDeployConfig(&cfg)

	objects, err := deployManifests(&cfg)
	if err != nil {
		return err
	}

	// Everything below needs a cluster, so a --dry-run --skip-secret
	// invocation works without one.
	var k8s *kubernetes.Client
	if !deploySkipSecret || !deployDryRun {
		if k8s, err = newKubernetesClient(); err != nil {
			return err
		}
	}
	ctx := signalContext()

	if !deploySkipSecret {
		exists, err := k8s.ResourceExists(ctx, &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{
				Name:      kubernetes.SecretName,
				Namespace: cfg.Namespace,
			},
		})
		if err != nil {
			return err
		}
		if !exists {
			password, err := stringutil.RandomAlphanumeric(passwordLength)
			if err != nil {
				return fmt.Errorf("failed to generate postgres password: %w", err)
			}
			objects = append([]ctrlclient.Object{secretManifest(&cfg, password)}, objects...)
		}
	}

	if deployDryRun {
		return renderManifests(cmd.OutOrStdout(), objects)
	}

	for _, obj := range objects {
		if err := k8s.Apply(ctx, obj); err != nil {
			return err
		}
	}
	fmt.Printf("falconeri deployed to namespace %s\n", cfg.Namespace)
	return nil
}

// overrideDeployConfig replaces defaults with any explicitly set flag values.
func overrideDeployConfig(cfg *deployConfig) {
	if postgresStorage != "" {
		cfg.PostgresStorage = postgresStorage
	}
	if postgresMemory != "" {
		cfg.PostgresMemory = postgresMemory
	}
	if postgresCPU != "" {
		cfg.PostgresCPU = postgresCPU
	}
	if falconeridReplicas > 0 {
		cfg.FalconeridReplicas = falconeridReplicas
	}
	if falconeridMemory != "" {
		cfg.FalconeridMemory = falconeridMemory
	}
	if falconeridCPU != "" {
		cfg.FalconeridCPU = falconeridCPU
	}
}
