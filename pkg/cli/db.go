/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the falconeri database directly",
}

var dbURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the proxied database URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL(signalContext())
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

var dbConsoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open a psql shell against the proxied database",
	Args:  cobra.NoArgs,
	RunE:  runDbConsole,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbURLCmd)
	dbCmd.AddCommand(dbConsoleCmd)
}

// databaseURL builds the URL of the database behind the local proxy. Set
// DATABASE_URL to target another database entirely.
func databaseURL(ctx context.Context) (string, error) {
	if url := os.Getenv(commonconfig.DatabaseURLEnv); url != "" {
		return url, nil
	}
	password, err := clusterPostgresPassword(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgres://%s:%s@localhost:%d/%s",
		postgresUser, password, kubernetes.PostgresPort, postgresDBName), nil
}

func runDbConsole(cmd *cobra.Command, args []string) error {
	ctx := signalContext()
	url, err := databaseURL(ctx)
	if err != nil {
		return err
	}
	console := exec.CommandContext(ctx, "psql", url)
	console.Stdin = os.Stdin
	console.Stdout = os.Stdout
	console.Stderr = os.Stderr
	return console.Run()
}
