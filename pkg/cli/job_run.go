/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
)

var jobRunFile string

var jobRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a new job from a pipeline spec",
	Long: `Start a new job from a pipeline spec and print its name.

The name is the pipeline name plus a random tag, for example
"word-count-ab12c". Pass it to "falconeri job describe" or
"falconeri job wait" to follow the job.`,
	Args: cobra.NoArgs,
	RunE: runJobRun,
}

func init() {
	jobCmd.AddCommand(jobRunCmd)
	jobRunCmd.Flags().StringVarP(&jobRunFile, "file", "f", "",
		"pipeline spec file (JSON)")
	_ = jobRunCmd.MarkFlagRequired("file")
}

func runJobRun(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(jobRunFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", jobRunFile, err)
	}
	spec, err := pipeline.Parse(data)
	if err != nil {
		return err
	}

	ctx := signalContext()
	client, err := newRestClient(ctx)
	if err != nil {
		return err
	}
	job, err := client.NewJob(ctx, spec)
	if err != nil {
		return err
	}
	fmt.Println(job.JobName)
	return nil
}
