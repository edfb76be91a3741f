/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// server
	serverPrefix = "server."
	serverPort   = serverPrefix + "port"

	// health_check
	healthCheckPrefix = "health_check."
	healthCheckEnable = healthCheckPrefix + "enable"
	healthCheckPort   = healthCheckPrefix + "port"

	// db
	dbPrefix               = "db."
	dbSecretPath           = dbPrefix + "secret_path"
	dbSslMode              = dbPrefix + "ssl_mode"
	dbMaxOpenConns         = dbPrefix + "max_open_conns"
	dbMaxIdleConns         = dbPrefix + "max_idle_conns"
	dbMaxLifetime          = dbPrefix + "max_life_time_second"
	dbMaxIdleTimeSecond    = dbPrefix + "max_idle_time_second"
	dbConnectTimeoutSecond = dbPrefix + "connect_timeout_second"
	dbRequestTimeoutSecond = dbPrefix + "request_timeout_second"

	// kubernetes
	kubernetesPrefix    = "kubernetes."
	kubernetesNamespace = kubernetesPrefix + "namespace"

	// babysitter
	babysitterPrefix         = "babysitter."
	babysitterIntervalSecond = babysitterPrefix + "interval_second"
	babysitterVanishedSecond = babysitterPrefix + "vanished_after_second"

	// worker
	workerPrefix             = "worker."
	workerPollIntervalSecond = workerPrefix + "poll_interval_second"
	workerInputRoot          = workerPrefix + "input_root"
	workerScratchDir         = workerPrefix + "scratch_dir"

	// tracing
	tracingPrefix = "tracing."
	tracingEnable = tracingPrefix + "enable"
)

const (
	// DefaultSecretPath is where the falconeri secret is mounted inside the
	// cluster. One file per item: host, port, user, password, dbname.
	DefaultSecretPath = "/etc/falconeri/secrets"

	// DefaultServerPort is the port falconerid listens on.
	DefaultServerPort = 8089

	// NamespaceEnv carries the pod's own namespace into falconerid.
	NamespaceEnv = "FALCONERI_NAMESPACE"

	// DatabaseURLEnv, when set, overrides the mounted secret files as the
	// source of the Postgres connection parameters. Meant for development
	// against a hand-run database.
	DatabaseURLEnv = "DATABASE_URL"
)
