/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package kubernetes

import (
	"fmt"
	"os"
)

const (
	// NodeNameEnv carries the node a worker pod was scheduled onto. The
	// launcher injects it via the downward API.
	NodeNameEnv = "FALCONERI_NODE_NAME"
	// PodNameEnv carries the worker pod's own name, which doubles as its
	// reservation identity.
	PodNameEnv = "FALCONERI_POD_NAME"
)

// NodeName reads the node name a worker was given by the launcher.
func NodeName() (string, error) {
	return requiredEnv(NodeNameEnv)
}

// PodName reads the pod name a worker was given by the launcher.
func PodName() (string, error) {
	return requiredEnv(PodNameEnv)
}

func requiredEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s is not set", name)
	}
	return value, nil
}
