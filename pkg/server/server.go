/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package server wires the falconerid daemon together: flag parsing, logging,
// configuration, the database client plus schema migrations, the Kubernetes
// client, the REST API and the background babysitter.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"k8s.io/klog/v2/klogr"
	ctrlruntime "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/babysitter"
	commonbackoff "github.com/AMD-AIG-AIMA/falconeri/pkg/backoff"
	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/handlers"
	commonklog "github.com/AMD-AIG-AIMA/falconeri/pkg/klog"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/options"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/trace"
)

type Server struct {
	opts         *options.Options
	httpServer   *http.Server
	healthServer *http.Server
	dbClient     *dbclient.Client
	k8sClient    *kubernetes.Client
	babysitter   *babysitter.Babysitter
	ctx          context.Context
	isInited     bool
}

// NewServer creates and returns a new Server instance.
func NewServer() (*Server, error) {
	s := &Server{
		opts: &options.Options{},
		ctx:  ctrlruntime.SetupSignalHandler(),
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// init performs the initial setup of the server: flag parsing, logging,
// configuration loading, the database client (including running any pending
// schema migrations), the Kubernetes client and the babysitter. It marks the
// server as initialized.
func (s *Server) init() error {
	gin.SetMode(gin.ReleaseMode)
	var err error
	if err = s.opts.InitFlags(); err != nil {
		klog.ErrorS(err, "failed to parse flags")
		return err
	}
	if err = s.initLogs(); err != nil {
		klog.ErrorS(err, "failed to init logs")
		return err
	}
	if err = s.initConfig(); err != nil {
		klog.ErrorS(err, "failed to init config")
		return err
	}
	// A fresh deploy starts falconerid and Postgres together, so the first
	// boot often finds the database not accepting connections yet.
	err = commonbackoff.Retry(func() error {
		if s.dbClient = dbclient.NewClient(); s.dbClient == nil {
			return fmt.Errorf("database is not reachable yet")
		}
		return nil
	}, 2*time.Minute, 15*time.Second)
	if err != nil {
		klog.ErrorS(err, "failed to initialize the database client")
		return err
	}
	if err = s.dbClient.Migrate(s.ctx); err != nil {
		klog.ErrorS(err, "failed to run database migrations")
		return err
	}
	if s.k8sClient, err = kubernetes.NewClient(); err != nil {
		klog.ErrorS(err, "failed to init kubernetes client")
		return err
	}
	s.babysitter = babysitter.New(s.ctx, s.dbClient, s.k8sClient)
	if commonconfig.IsTracingEnable() {
		if err = trace.InitTracer(kubernetes.ServiceName); err != nil {
			klog.Warningf("Failed to init tracer: %v", err)
		}
	} else {
		klog.Info("Tracing is disabled (tracing.enable: false)")
	}
	s.isInited = true
	return nil
}

// Start begins serving: the REST API, the health endpoints and the babysitter
// each run in their own goroutine. It blocks until the process receives
// SIGINT or SIGTERM and then calls Stop to shut everything down.
func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init falconerid first")
		return
	}
	gin.EnableJsonDecoderDisallowUnknownFields()

	klog.Infof("starting falconerid")
	go func() {
		if err := s.startHttpServer(); err != nil {
			klog.ErrorS(err, "failed to start http-server")
			os.Exit(-1)
		}
	}()
	go func() {
		if err := s.startHealthServer(); err != nil {
			klog.ErrorS(err, "failed to start health-server")
			os.Exit(-1)
		}
	}()
	go s.babysitter.Start()

	<-s.ctx.Done()
	s.Stop()
}

// Stop gracefully shuts down the HTTP servers and the babysitter, closes the
// tracer and the database pool, and flushes logs.
func (s *Server) Stop() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	s.babysitter.Stop()
	klog.Info("shutting down http server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		klog.ErrorS(err, "failed to shutdown httpserver")
	}
	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(ctx); err != nil {
			klog.ErrorS(err, "failed to shutdown health server")
		}
	}
	if err := trace.CloseTracer(); err != nil {
		klog.ErrorS(err, "failed to close tracer")
	}
	s.dbClient.Close()
	klog.Info("falconerid is stopped")
	klog.Flush()
}

// initLogs initializes the logging system with the specified log file path and
// size. It also sets up the controller-runtime logger to use klog.
func (s *Server) initLogs() error {
	if err := commonklog.Init(s.opts.LogfilePath, s.opts.LogFileSize); err != nil {
		return err
	}
	ctrlruntime.SetLogger(klogr.NewWithOptions())
	return nil
}

// initConfig loads the server configuration from the specified config file
// path. Without -config the built-in defaults plus the mounted secret files
// are enough, so an empty path is not an error.
func (s *Server) initConfig() error {
	if s.opts.Config == "" {
		klog.Info("no config file given, using built-in defaults")
		return nil
	}
	fullPath, err := filepath.Abs(s.opts.Config)
	if err != nil {
		return err
	}
	if err = commonconfig.LoadConfig(fullPath); err != nil {
		return fmt.Errorf("config path: %s, err: %v", fullPath, err)
	}
	return nil
}

// startHttpServer initializes and starts the REST API server. Every route
// sits behind basic auth; the shared credential is the Postgres password.
func (s *Server) startHttpServer() error {
	if commonconfig.GetServerPort() <= 0 {
		return fmt.Errorf("the falconerid port is not defined")
	}
	engine := gin.New()
	engine.Use(handlers.Logger(), gin.Recovery())
	if commonconfig.IsTracingEnable() {
		engine.Use(handlers.Tracing())
	}
	engine.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "no route for %s %s", c.Request.Method, c.Request.URL.Path)
	})
	handler := handlers.NewHandler(s.dbClient, s.k8sClient)
	handlers.InitRouters(engine, handler, commonconfig.GetDBPassword())
	addr := fmt.Sprintf(":%d", commonconfig.GetServerPort())
	s.httpServer = &http.Server{Addr: addr, Handler: engine}
	klog.Infof("http-server listen port: %d", commonconfig.GetServerPort())
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		klog.ErrorS(err, "failed to start http server")
		return err
	}
	return nil
}

// startHealthServer serves the liveness and readiness probes on a dedicated
// port when health checking is enabled.
func (s *Server) startHealthServer() error {
	if !commonconfig.IsHealthCheckEnabled() {
		return nil
	}
	if commonconfig.GetHealthCheckPort() <= 0 {
		return fmt.Errorf("the healthcheck port is not defined")
	}
	checks := &healthz.Handler{Checks: map[string]healthz.Checker{
		"ping": healthz.Ping,
	}}
	mux := http.NewServeMux()
	mux.Handle("/healthz", http.StripPrefix("/healthz", checks))
	mux.Handle("/healthz/", http.StripPrefix("/healthz", checks))
	mux.Handle("/readyz", http.StripPrefix("/readyz", checks))
	mux.Handle("/readyz/", http.StripPrefix("/readyz", checks))
	addr := fmt.Sprintf(":%d", commonconfig.GetHealthCheckPort())
	s.healthServer = &http.Server{Addr: addr, Handler: mux}
	klog.Infof("health-server listen port: %d", commonconfig.GetHealthCheckPort())
	if err := s.healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		klog.ErrorS(err, "failed to start health server")
		return err
	}
	return nil
}
