/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"
	"io"
	"os"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/spf13/cobra"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
)

const datumListLimit = 1000

var datumListCmd = &cobra.Command{
	Use:   "list <job name>",
	Short: "List the datums of a job",
	Long:  `List the datums of a job. Requires "falconeri proxy" running in another terminal.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDatumList,
}

func init() {
	datumCmd.AddCommand(datumListCmd)
}

func runDatumList(cmd *cobra.Command, args []string) error {
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
	datums, err := db.SelectDatums(ctx, sqrl.Eq{"job_id": job.Id},
		[]string{dbclient.CreatedTime + " " + dbclient.ASC}, datumListLimit, 0)
	if err != nil {
		return err
	}
	printDatumTable(os.Stdout, datums)
	return nil
}

func printDatumTable(out io.Writer, datums []*dbclient.Datum) {
	table := newTable(out)
	fmt.Fprintln(table, "DATUM ID\tSTATUS\tATTEMPTS\tNODE")
	for _, datum := range datums {
		fmt.Fprintf(table, "%s\t%s\t%d of %d\t%s\n",
			datum.Id, datum.Status, datum.AttemptedRunCount,
			datum.MaximumAllowedRunCount, orDash(datum.NodeName))
	}
	table.Flush()
}
