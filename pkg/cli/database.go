/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cli

import (
	"context"
	"fmt"
	"time"

	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	dbutils "github.com/AMD-AIG-AIMA/falconeri/pkg/database/utils"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
)

// proxyDatabaseClient connects to Postgres through the local proxy, using the
// password stored in the cluster secret.
func proxyDatabaseClient(ctx context.Context) (*dbclient.Client, error) {
	password, err := clusterPostgresPassword(ctx)
	if err != nil {
		return nil, err
	}
	db, err := dbclient.NewClientWithConfig(&dbutils.DBConfig{
		DBName:         postgresDBName,
		Username:       postgresUser,
		Password:       password,
		Host:           "localhost",
		Port:           kubernetes.PostgresPort,
		SSLMode:        "disable",
		MaxOpenConns:   5,
		MaxIdleConns:   1,
		MaxIdleTime:    time.Minute,
		MaxLifetime:    10 * time.Minute,
		ConnectTimeout: 10,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot reach Postgres on localhost:%d (is \"falconeri proxy\" running?): %w",
			kubernetes.PostgresPort, err)
	}
	return db, nil
}

// clusterPostgresPassword reads the generated password out of the falconeri
// secret.
func clusterPostgresPassword(ctx context.Context) (string, error) {
	k8s, err := newKubernetesClient()
	if err != nil {
		return "", err
	}
	return k8s.GetSecretValue(ctx, kubernetes.SecretName, kubernetes.PasswordKey)
}
