/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
	ctrlruntime "sigs.k8s.io/controller-runtime"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/restclient"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/version"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/worker"
)

// falconeri-worker runs inside the pods of a worker job. The launcher bakes
// the job id into the pod command line; everything else comes from the
// environment and the mounted credentials.
func main() {
	klog.InitFlags(nil)
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	jobId, err := uuid.Parse(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid job id %q: %v\n", flag.Arg(0), err)
		os.Exit(2)
	}

	ctx := ctrlruntime.SetupSignalHandler()
	client, err := restclient.NewClient(ctx, restclient.ConnectViaCluster)
	if err != nil {
		klog.ErrorS(err, "failed to build falconerid client")
		os.Exit(1)
	}
	if err := worker.NewRunner(client).Run(ctx, jobId); err != nil {
		klog.ErrorS(err, "worker failed", "job", jobId)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: falconeri-worker <job id>")
	fmt.Fprintln(os.Stderr, "Processes datums of the given job until none are left.")
	flag.PrintDefaults()
}
