/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
)

var jobRetryCmd = &cobra.Command{
	Use:   "retry <job name>",
	Short: "Re-run the failed datums of a job as a new job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobRetry,
}

func init() {
	jobCmd.AddCommand(jobRetryCmd)
}

func runJobRetry(cmd *cobra.Command, args []string) error {
	ctx := signalContext()
	client, err := newRestClient(ctx)
	if err != nil {
		return err
	}
	job, err := client.FindJobByName(ctx, args[0])
	if err != nil {
		return err
	}
	if job.Status != dbclient.StatusError {
		return fmt.Errorf("can only retry jobs with status %q, and %s has status %q",
			dbclient.StatusError, job.JobName, job.Status)
	}
	retried, err := client.RetryJob(ctx, job)
	if err != nil {
		return err
	}
	fmt.Println(retried.JobName)
	return nil
}
