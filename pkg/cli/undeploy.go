/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
)

var undeployAll bool

var undeployCmd = &cobra.Command{
	Use:   "undeploy",
	Short: "Remove falconeri from the current cluster",
	Long: `Remove the falconeri deployments, services and RBAC objects.

The Postgres volume and the credential secret survive so a later deploy picks
the job history back up. Pass --all to delete those too.`,
	Args: cobra.NoArgs,
	RunE: runUndeploy,
}

func init() {
	rootCmd.AddCommand(undeployCmd)
	undeployCmd.Flags().BoolVar(&undeployAll, "all", false,
		"also delete the falconeri secret and the Postgres volume")
}

func runUndeploy(cmd *cobra.Command, args []string) error {
	k8s, err := newKubernetesClient()
	if err != nil {
		return err
	}
	ctx := signalContext()

	for _, obj := range undeployObjects(namespace, undeployAll) {
		if err := k8s.DeleteObject(ctx, obj); err != nil {
			return err
		}
	}
	if !undeployAll {
		fmt.Println("kept the falconeri secret and the Postgres volume; use --all to delete them")
	}
	return nil
}

// undeployObjects lists the deployed objects in reverse apply order. Names
// and namespaces are enough for deletion.
func undeployObjects(namespace string, all bool) []ctrlclient.Object {
	meta := func(name string) metav1.ObjectMeta {
		return metav1.ObjectMeta{Name: name, Namespace: namespace}
	}
	objects := []ctrlclient.Object{
		&corev1.Service{ObjectMeta: meta(kubernetes.ServiceName)},
		&appsv1.Deployment{ObjectMeta: meta(kubernetes.ServiceName)},
		&corev1.Service{ObjectMeta: meta(kubernetes.PostgresName)},
		&appsv1.Deployment{ObjectMeta: meta(kubernetes.PostgresName)},
		&rbacv1.RoleBinding{ObjectMeta: meta(appName)},
		&rbacv1.Role{ObjectMeta: meta(appName)},
		&corev1.ServiceAccount{ObjectMeta: meta(appName)},
	}
	if all {
		objects = append(objects,
			&corev1.PersistentVolumeClaim{ObjectMeta: meta(kubernetes.PostgresName)},
			&corev1.Secret{ObjectMeta: meta(kubernetes.SecretName)},
		)
	}
	return objects
}
