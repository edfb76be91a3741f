/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/spf13/cobra"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
)

// describeDatumLimit caps the running and failed datum tables so a huge job
// stays readable.
const describeDatumLimit = 1000

var jobDescribeCmd = &cobra.Command{
	Use:   "describe <job name>",
	Short: "Show a job's progress and failures",
	Long: `Show a job's per-status datum counts, the datums currently running and the
datums that failed. Requires "falconeri proxy" running in another terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobDescribe,
}

func init() {
	jobCmd.AddCommand(jobDescribeCmd)
}

func runJobDescribe(cmd *cobra.Command, args []string) error {
	ctx := signalContext()
	db, err := proxyDatabaseClient(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	job, err := db.GetJobByName(ctx, args[0])
	if err != nil {
		return err
	}
	counts, err := db.DatumStatusCounts(ctx, job.Id)
	if err != nil {
		return err
	}
	order := []string{dbclient.CreatedTime + " " + dbclient.ASC}
	running, err := db.SelectDatums(ctx,
		sqrl.Eq{"job_id": job.Id, "status": dbclient.StatusRunning},
		order, describeDatumLimit, 0)
	if err != nil {
		return err
	}
	failed, err := db.SelectDatums(ctx,
		sqrl.Eq{"job_id": job.Id, "status": dbclient.StatusError},
		order, describeDatumLimit, 0)
	if err != nil {
		return err
	}

	printJobDescription(os.Stdout, job, counts, running, failed)
	return nil
}

func printJobDescription(out io.Writer, job *dbclient.Job,
	counts []*dbclient.DatumStatusCount, running, failed []*dbclient.Datum) {
	fmt.Fprintf(out, "Name:     %s\n", job.JobName)
	fmt.Fprintf(out, "Id:       %s\n", job.Id)
	fmt.Fprintf(out, "Status:   %s\n", job.Status)
	fmt.Fprintf(out, "Created:  %s\n", formatTime(job.CreatedAt))
	fmt.Fprintf(out, "Updated:  %s\n", formatTime(job.UpdatedAt))
	fmt.Fprintf(out, "Command:  %s\n", strings.Join(job.Command, " "))
	fmt.Fprintf(out, "Egress:   %s\n", job.EgressURI)

	fmt.Fprintln(out)
	table := newTable(out)
	fmt.Fprintln(table, "STATUS\tDATUMS\tRERUNABLE")
	for _, row := range counts {
		fmt.Fprintf(table, "%s\t%d\t%d\n", row.Status, row.Count, row.RerunableCount)
	}
	table.Flush()

	if len(running) > 0 {
		fmt.Fprintln(out)
		table = newTable(out)
		fmt.Fprintln(table, "RUNNING DATUM\tNODE\tPOD")
		for _, datum := range running {
			fmt.Fprintf(table, "%s\t%s\t%s\n",
				datum.Id, orDash(datum.NodeName), orDash(datum.PodName))
		}
		table.Flush()
	}

	if len(failed) > 0 {
		fmt.Fprintln(out)
		table = newTable(out)
		fmt.Fprintln(table, "FAILED DATUM\tATTEMPTS\tERROR")
		for _, datum := range failed {
			fmt.Fprintf(table, "%s\t%d of %d\t%s\n",
				datum.Id, datum.AttemptedRunCount, datum.MaximumAllowedRunCount,
				firstLine(orDash(datum.ErrorMessage)))
		}
		table.Flush()
		fmt.Fprintln(out)
		fmt.Fprintln(out, `use "falconeri datum describe <id>" for the full error`)
	}
}
