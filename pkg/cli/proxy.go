/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Forward local ports to falconerid and Postgres",
	Long: `Forward localhost ports to the falconerid and Postgres services.

Keep this running in a separate terminal; the job, datum, migrate and db
commands all talk to the cluster through it.`,
	Args: cobra.NoArgs,
	RunE: runProxy,
}

func init() {
	rootCmd.AddCommand(proxyCmd)
}

func runProxy(cmd *cobra.Command, args []string) error {
	k8s, err := newKubernetesClient()
	if err != nil {
		return err
	}
	ctx := signalContext()

	serverPort := commonconfig.GetServerPort()
	fmt.Printf("forwarding localhost:%d to %s and localhost:%d to %s\n",
		serverPort, kubernetes.ServiceName, kubernetes.PostgresPort, kubernetes.PostgresName)

	// Either forward failing tears down the other through the group context.
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return k8s.PortForward(ctx, kubernetes.ServiceName, serverPort, serverPort, os.Stdout, os.Stderr)
	})
	group.Go(func() error {
		return k8s.PortForward(ctx, kubernetes.PostgresName, kubernetes.PostgresPort, kubernetes.PostgresPort, os.Stdout, os.Stderr)
	})
	return group.Wait()
}
