/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/database/utils"
	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
)

// insertChunkSize bounds the number of rows per bulk INSERT so a large datum
// plan never exceeds the Postgres bind-parameter limit.
const insertChunkSize = 1000

var (
	once     sync.Once
	instance *Client
)

// Client represents a database client that manages both sqlx and gorm database connections.
// It encapsulates the database configuration and provides methods to interact with the database.
type Client struct {
	db              *sqlx.DB // sqlx database instance
	gorm            *gorm.DB // gorm ORM database instance
	*utils.DBConfig          // Embedded database configuration
}

// NewClient creates a singleton instance of the database Client.
// It initializes the database configuration from common configuration,
// validates the parameters, establishes connections using both sqlx and gorm
// The initialization happens only once even if called multiple times.
//
// Returns:
//   - *Client: Singleton database client instance
func NewClient() *Client {
	once.Do(func() {
		cfg, err := databaseConfig()
		if err != nil {
			klog.ErrorS(err, "failed to assemble db config")
			return
		}
		if err := checkParams(cfg); err != nil {
			klog.ErrorS(err, "failed to check db params")
			return
		}
		db, err := utils.Connect(cfg, utils.PgDriver)
		if err != nil {
			klog.Errorf("%s", err.Error())
			return
		}
		err = db.Ping()
		if err != nil {
			klog.ErrorS(err, "failed to ping db")
			return
		}
		gormDb, err := utils.ConnectGorm(cfg)
		if err != nil {
			klog.ErrorS(err, "failed to init gorm")
			return
		}
		instance = &Client{db: db, DBConfig: cfg, gorm: gormDb}
		klog.Infof("init db-client successfully! conn-timeout: %d(s), request-timeout: %d(s)",
			cfg.ConnectTimeout, commonconfig.GetDBRequestTimeoutSecond())
	})
	return instance
}

// databaseConfig assembles the connection parameters: a DATABASE_URL env
// override wins, otherwise the mounted secret files. Pool limits always come
// from the config layer because connection URLs do not carry them.
func databaseConfig() (*utils.DBConfig, error) {
	var cfg *utils.DBConfig
	if rawURL := os.Getenv(commonconfig.DatabaseURLEnv); rawURL != "" {
		parsed, err := utils.ParseURL(rawURL)
		if err != nil {
			return nil, err
		}
		cfg = parsed
		cfg.ConnectTimeout = commonconfig.GetDBConnectTimeoutSecond()
	} else {
		cfg = &utils.DBConfig{
			DBName:         commonconfig.GetDBName(),
			Username:       commonconfig.GetDBUser(),
			Password:       commonconfig.GetDBPassword(),
			Host:           commonconfig.GetDBHost(),
			Port:           commonconfig.GetDBPort(),
			SSLMode:        commonconfig.GetDBSslMode(),
			ConnectTimeout: commonconfig.GetDBConnectTimeoutSecond(),
		}
	}
	cfg.MaxOpenConns = commonconfig.GetDBMaxOpenConns()
	cfg.MaxIdleConns = commonconfig.GetDBMaxIdleConns()
	cfg.MaxLifetime = time.Duration(commonconfig.GetDBMaxLifetimeSecond()) * time.Second
	cfg.MaxIdleTime = time.Duration(commonconfig.GetDBMaxIdleTimeSecond()) * time.Second
	cfg.RequestTimeout = time.Duration(commonconfig.GetDBRequestTimeoutSecond()) * time.Second
	return cfg, nil
}

// NewClientWithConfig builds a client for an explicit configuration,
// bypassing the singleton. The CLI uses it to reach Postgres through a local
// port forward.
func NewClientWithConfig(cfg *utils.DBConfig) (*Client, error) {
	if err := checkParams(cfg); err != nil {
		return nil, err
	}
	db, err := utils.Connect(cfg, utils.PgDriver)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	gormDb, err := utils.ConnectGorm(cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Client{db: db, DBConfig: cfg, gorm: gormDb}, nil
}

// Close performs the Close operation.
func (c *Client) Close() {
	err := c.db.Close()
	if err != nil {
		klog.ErrorS(err, "failed to close db connection")
	}
}

// getDB retrieves DB for internal use.
func (c *Client) getDB() (*sqlx.DB, error) {
	if c.db == nil {
		return nil, commonerrors.NewInternalError("The client of db has not been initialized")
	}
	return c.db.Unsafe(), nil
}

// GetGormDB retrieves the gorm instance, for callers that prefer the ORM.
func (c *Client) GetGormDB() (*gorm.DB, error) {
	if c.gorm == nil {
		return nil, commonerrors.NewInternalError("The gorm client has not been initialized")
	}
	return c.gorm, nil
}

// withTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. The configured request timeout bounds the whole
// transaction.
func (c *Client) withTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}
	if c.RequestTimeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
		ctx = ctx2
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// checkParams checks Params and returns the result.
func checkParams(cfg *utils.DBConfig) error {
	var errs []error
	if cfg.DBName == "" {
		errs = append(errs, fmt.Errorf("dbname not found"))
	}
	if cfg.Username == "" {
		errs = append(errs, fmt.Errorf("username not found"))
	}
	if cfg.Password == "" {
		errs = append(errs, fmt.Errorf("password not found"))
	}
	if cfg.Host == "" {
		errs = append(errs, fmt.Errorf("host not found"))
	}
	if cfg.SSLMode == "" {
		errs = append(errs, fmt.Errorf("ssl_mode not found"))
	}
	if cfg.Port == 0 {
		errs = append(errs, fmt.Errorf("port not found"))
	}
	return utilerrors.NewAggregate(errs)
}
