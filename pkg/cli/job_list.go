/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
)

// jobListLimit caps the listing; jobs older than the newest 500 rarely matter
// at a terminal.
const jobListLimit = 500

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs",
	Long:  `List recent jobs. Requires "falconeri proxy" running in another terminal.`,
	Args:  cobra.NoArgs,
	RunE:  runJobList,
}

func init() {
	jobCmd.AddCommand(jobListCmd)
}

func runJobList(cmd *cobra.Command, args []string) error {
	ctx := signalContext()
	db, err := proxyDatabaseClient(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	jobs, err := db.SelectJobs(ctx, nil,
		[]string{dbclient.CreatedTime + " " + dbclient.ASC}, jobListLimit, 0)
	if err != nil {
		return err
	}
	printJobTable(os.Stdout, jobs)
	return nil
}

func printJobTable(out io.Writer, jobs []*dbclient.Job) {
	table := newTable(out)
	fmt.Fprintln(table, "JOB NAME\tSTATUS\tCREATED AT")
	for _, job := range jobs {
		fmt.Fprintf(table, "%s\t%s\t%s\n", job.JobName, job.Status, formatTime(job.CreatedAt))
	}
	table.Flush()
}
