/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
)

var datumDescribeCmd = &cobra.Command{
	Use:   "describe <datum id>",
	Short: "Show a datum's input files and error output",
	Long: `Show everything recorded about one datum, including the full error message,
backtrace and combined output of its last failed run. Requires
"falconeri proxy" running in another terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runDatumDescribe,
}

func init() {
	datumCmd.AddCommand(datumDescribeCmd)
}

func runDatumDescribe(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid datum id %q: %w", args[0], err)
	}

	ctx := signalContext()
	db, err := proxyDatabaseClient(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	datum, err := db.GetDatum(ctx, id)
	if err != nil {
		return err
	}
	files, err := db.SelectInputFilesByDatum(ctx, id)
	if err != nil {
		return err
	}

	printDatumDescription(os.Stdout, datum, files)
	return nil
}

func printDatumDescription(out io.Writer, datum *dbclient.Datum, files []*dbclient.InputFile) {
	fmt.Fprintf(out, "Id:        %s\n", datum.Id)
	fmt.Fprintf(out, "Job:       %s\n", datum.JobId)
	fmt.Fprintf(out, "Status:    %s\n", datum.Status)
	fmt.Fprintf(out, "Attempts:  %d of %d\n", datum.AttemptedRunCount, datum.MaximumAllowedRunCount)
	fmt.Fprintf(out, "Node:      %s\n", orDash(datum.NodeName))
	fmt.Fprintf(out, "Pod:       %s\n", orDash(datum.PodName))
	fmt.Fprintf(out, "Created:   %s\n", formatTime(datum.CreatedAt))
	fmt.Fprintf(out, "Updated:   %s\n", formatTime(datum.UpdatedAt))

	if len(files) > 0 {
		fmt.Fprintln(out)
		table := newTable(out)
		fmt.Fprintln(table, "INPUT FILE\tLOCAL PATH")
		for _, file := range files {
			fmt.Fprintf(table, "%s\t%s\n", file.URI, file.LocalPath)
		}
		table.Flush()
	}

	printTextBlock(out, "Error", datum.ErrorMessage)
	printTextBlock(out, "Backtrace", datum.Backtrace)
	printTextBlock(out, "Output", datum.Output)
}

// printTextBlock prints a labeled multi-line field, skipping absent ones.
func printTextBlock(out io.Writer, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	fmt.Fprintf(out, "\n%s:\n%s\n", label, *value)
}
