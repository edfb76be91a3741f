/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package handlers implements the falconerid REST API used by the CLI and
// the worker pods: job submission and lookup, datum reservation and
// completion, and output file bookkeeping. Every route sits behind HTTP
// basic auth with the shared cluster credential.
package handlers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/api"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	commonerrors "github.com/AMD-AIG-AIMA/falconeri/pkg/errors"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/planner"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/storage"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/version"
)

// Handler handles HTTP requests from the falconeri CLI and the workers.
type Handler struct {
	dbClient  dbclient.Interface
	k8sClient kubernetes.Interface
	// listerFor builds the storage lister used to plan a new job's datums.
	// Swappable so handler tests need no cloud credentials.
	listerFor func(secrets []pipeline.Secret) planner.Lister
}

// NewHandler creates a new API handler.
func NewHandler(dbClient dbclient.Interface, k8sClient kubernetes.Interface) *Handler {
	return &Handler{
		dbClient:  dbClient,
		k8sClient: k8sClient,
		listerFor: func(secrets []pipeline.Secret) planner.Lister {
			return storage.NewResolver(secrets)
		},
	}
}

// InitRouters registers all API routes with the Gin engine. The password is
// the shared basic auth credential, which doubles as the Postgres password.
func InitRouters(e *gin.Engine, h *Handler, password string) {
	group := e.Group("/", BasicAuth(password))
	{
		group.GET("version", h.GetVersion)

		group.POST("jobs", h.CreateJob)
		group.GET("jobs", h.FindJobByName)
		group.GET("jobs/:id", h.GetJob)
		group.POST("jobs/:id/retry", h.RetryJob)
		group.POST("jobs/:id/reserve_next_datum", h.ReserveNextDatum)

		group.PATCH("datums/:id", h.PatchDatum)

		group.POST("output_files", h.CreateOutputFiles)
		group.PATCH("output_files", h.PatchOutputFiles)
	}
}

// BasicAuth enforces HTTP basic auth against the shared cluster credential.
// Both the username and the password are compared in constant time.
func BasicAuth(password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(api.BasicAuthUser)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
		if !ok || !userMatch || !passMatch {
			c.Header("WWW-Authenticate", `Basic realm="falconeri"`)
			c.String(http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Logger returns a middleware that logs one line per request via klog.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		klog.Infof("%s %s %d %v client=%s",
			c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

type handleFunc func(*gin.Context) (interface{}, error)

// handle is a common handler wrapper: it runs fn and writes the result as
// JSON. A typed nil result renders as a JSON null body.
func handle(c *gin.Context, fn handleFunc) {
	result, err := fn(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// abortWithError logs err and ends the request with a plain-text body so
// the CLI and the workers can print it verbatim.
func abortWithError(c *gin.Context, err error) {
	klog.ErrorS(err, "handler error", "method", c.Request.Method, "path", c.Request.URL.Path)
	c.String(getHTTPStatusCode(err), err.Error())
	c.Abort()
}

// getHTTPStatusCode returns the appropriate HTTP status code for an error.
// Errors without a recognized status are server faults.
func getHTTPStatusCode(err error) int {
	var statusErr *apierrors.StatusError
	if errors.As(err, &statusErr) {
		return int(statusErr.Status().Code)
	}
	switch {
	case apierrors.IsNotFound(err):
		return http.StatusNotFound
	case apierrors.IsBadRequest(err), apierrors.IsInvalid(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetVersion reports the server version as plain text. Clients compare it
// with their own version to surface skew.
func (h *Handler) GetVersion(c *gin.Context) {
	c.String(http.StatusOK, version.Version)
}

// parseUuidParam parses the :id path parameter of the current route.
func parseUuidParam(c *gin.Context) (uuid.UUID, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid id %q: %v", raw, err))
	}
	return id, nil
}
