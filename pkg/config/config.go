/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// SetValue sets a configuration value for the specified key.
func SetValue(key, value string) {
	viper.Set(key, value)
}

// LoadConfig loads configuration from the specified file path.
func LoadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	return viper.ReadInConfig()
}

func getString(key, defaultValue string) string {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetString(key)
}

func getBool(key string, defaultValue bool) bool {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetBool(key)
}

func getInt(key string, defaultValue int) int {
	if !viper.IsSet(key) {
		return defaultValue
	}
	return viper.GetInt(key)
}

func getFromFile(configPath, item string) string {
	path := getString(configPath, DefaultSecretPath)
	data, err := os.ReadFile(filepath.Join(path, item))
	if err != nil {
		return ""
	}
	key := string(data)
	return strings.TrimRight(key, "\r\n")
}

// GetServerPort returns the API server port.
func GetServerPort() int {
	return getInt(serverPort, DefaultServerPort)
}

// IsHealthCheckEnabled returns whether health checks are enabled.
func IsHealthCheckEnabled() bool {
	return getBool(healthCheckEnable, false)
}

// GetHealthCheckPort returns the port for health check endpoint.
func GetHealthCheckPort() int {
	return getInt(healthCheckPort, 0)
}

// GetDBHost returns the database host address.
func GetDBHost() string {
	return getFromFile(dbSecretPath, "host")
}

// GetDBPort returns the database port number.
func GetDBPort() int {
	data := getFromFile(dbSecretPath, "port")
	n, err := strconv.Atoi(data)
	if err != nil {
		return 0
	}
	return n
}

// GetDBName returns the database name.
func GetDBName() string {
	return getFromFile(dbSecretPath, "dbname")
}

// GetDBUser returns the database username.
func GetDBUser() string {
	return getFromFile(dbSecretPath, "user")
}

// GetDBPassword returns the database password. It doubles as the shared
// admin credential for the HTTP API.
func GetDBPassword() string {
	return getFromFile(dbSecretPath, "password")
}

// GetDBSslMode returns the database SSL mode.
func GetDBSslMode() string {
	return getString(dbSslMode, "disable")
}

// GetDBMaxOpenConns returns the maximum number of open database connections.
func GetDBMaxOpenConns() int {
	return getInt(dbMaxOpenConns, 100)
}

// GetDBMaxIdleConns returns the maximum number of idle database connections.
func GetDBMaxIdleConns() int {
	return getInt(dbMaxIdleConns, 10)
}

// GetDBMaxLifetimeSecond returns the maximum lifetime of database connections in seconds.
func GetDBMaxLifetimeSecond() int {
	return getInt(dbMaxLifetime, 600)
}

// GetDBMaxIdleTimeSecond returns the maximum idle time of database connections in seconds.
func GetDBMaxIdleTimeSecond() int {
	return getInt(dbMaxIdleTimeSecond, 60)
}

// GetDBConnectTimeoutSecond returns the database connection timeout in seconds.
func GetDBConnectTimeoutSecond() int {
	return getInt(dbConnectTimeoutSecond, 10)
}

// GetDBRequestTimeoutSecond returns the per-request database timeout in seconds.
func GetDBRequestTimeoutSecond() int {
	return getInt(dbRequestTimeoutSecond, 0)
}

// GetNamespace returns the Kubernetes namespace falconeri operates in. The
// deployment manifests set NamespaceEnv via the downward API so falconerid
// follows whatever namespace it was deployed into.
func GetNamespace() string {
	if viper.IsSet(kubernetesNamespace) {
		return viper.GetString(kubernetesNamespace)
	}
	if ns := os.Getenv(NamespaceEnv); ns != "" {
		return ns
	}
	return "default"
}

// SetNamespace overrides the namespace, typically from a CLI flag.
func SetNamespace(namespace string) {
	viper.Set(kubernetesNamespace, namespace)
}

// GetBabysitterIntervalSecond returns the babysitter tick interval in seconds.
func GetBabysitterIntervalSecond() int {
	return getInt(babysitterIntervalSecond, 120)
}

// GetBabysitterVanishedSecond returns how old a running job must be before a
// missing Kubernetes workload marks it as errored, in seconds.
func GetBabysitterVanishedSecond() int {
	return getInt(babysitterVanishedSecond, 900)
}

// GetWorkerPollIntervalSecond returns how often an idle worker re-checks its
// job status, in seconds.
func GetWorkerPollIntervalSecond() int {
	return getInt(workerPollIntervalSecond, 30)
}

// GetWorkerInputRoot returns the directory worker input files are downloaded
// under. Output is uploaded from <input root>/out.
func GetWorkerInputRoot() string {
	return getString(workerInputRoot, "/pfs")
}

// GetWorkerScratchDir returns the scratch directory wiped between datums.
func GetWorkerScratchDir() string {
	return getString(workerScratchDir, "/scratch")
}

// IsTracingEnable returns whether OpenTelemetry tracing is enabled.
func IsTracingEnable() bool {
	return getBool(tracingEnable, false)
}
