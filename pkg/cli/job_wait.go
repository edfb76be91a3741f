/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
)

// waitPollInterval paces the status polls. Jobs run for minutes to hours, so
// a relaxed interval keeps the API quiet without feeling unresponsive.
const waitPollInterval = 30 * time.Second

var jobWaitCmd = &cobra.Command{
	Use:   "wait <job name>",
	Short: "Block until a job finishes",
	Long: `Block until a job reaches a terminal status.

Exits zero only when the job finished with status done, so it can gate the
next step of a shell script.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobWait,
}

func init() {
	jobCmd.AddCommand(jobWaitCmd)
}

func runJobWait(cmd *cobra.Command, args []string) error {
	ctx := signalContext()
	client, err := newRestClient(ctx)
	if err != nil {
		return err
	}
	job, err := client.FindJobByName(ctx, args[0])
	if err != nil {
		return err
	}

	status := job.Status
	fmt.Printf("%s\t%s\n", job.JobName, status)
	for !status.HasFinished() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitPollInterval):
		}
		if job, err = client.Job(ctx, job.Id); err != nil {
			return err
		}
		if job.Status != status {
			status = job.Status
			fmt.Printf("%s\t%s\n", job.JobName, status)
		}
	}

	if status != dbclient.StatusDone {
		return fmt.Errorf("job %s finished with status %q", job.JobName, status)
	}
	return nil
}
