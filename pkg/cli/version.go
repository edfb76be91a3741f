/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the falconeri version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
