/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"github.com/spf13/cobra"
)

var datumCmd = &cobra.Command{
	Use:   "datum",
	Short: "Inspect the datums of a job",
}

func init() {
	rootCmd.AddCommand(datumCmd)
}
