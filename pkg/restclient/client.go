/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/AMD-AIG-AIMA/falconeri/pkg/api"
	commonconfig "github.com/AMD-AIG-AIMA/falconeri/pkg/config"
	dbclient "github.com/AMD-AIG-AIMA/falconeri/pkg/database/client"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/kubernetes"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/pipeline"
	"github.com/AMD-AIG-AIMA/falconeri/pkg/version"
)

// Client calls the falconerid REST API.
type Client struct {
	via        ConnectVia
	baseURL    *url.URL
	username   string
	password   string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a client for the given connection mode. The shared
// credential is resolved the same way falconerid resolves it: from the
// mounted secret files on the cluster, or by reading the falconeri secret
// through the Kubernetes API when connecting through a proxy.
func NewClient(ctx context.Context, via ConnectVia) (*Client, error) {
	password, err := resolvePassword(ctx, via)
	if err != nil {
		return nil, err
	}
	return NewClientWithCredentials(via, via.baseURL(), password)
}

// NewClientWithCredentials builds a client against an explicit endpoint with
// an explicit credential. Used by tests and by callers that already hold the
// password.
func NewClientWithCredentials(via ConnectVia, baseURL, password string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid falconerid URL %q", baseURL)
	}
	return &Client{
		via:        via,
		baseURL:    u,
		username:   api.BasicAuthUser,
		password:   password,
		userAgent:  version.UserAgent(filepath.Base(os.Args[0])),
		httpClient: newHTTPClient(via),
	}, nil
}

// newHTTPClient tunes connection reuse per connection mode. On the cluster
// falconerid may see hundreds of inbound worker connections, so drop them as
// fast as possible. Through a proxy there is exactly one peer, so keep the
// forwarded connection warm.
func newHTTPClient(via ConnectVia) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        128,
		MaxIdleConnsPerHost: 64,
		IdleConnTimeout:     1 * time.Minute,
	}
	if via == ConnectViaCluster {
		transport = &http.Transport{DisableKeepAlives: true}
	}
	return &http.Client{Transport: transport}
}

// resolvePassword looks up the shared POSTGRES_PASSWORD credential.
func resolvePassword(ctx context.Context, via ConnectVia) (string, error) {
	if via == ConnectViaProxy {
		k8s, err := kubernetes.NewClient()
		if err != nil {
			return "", err
		}
		return k8s.GetSecretValue(ctx, kubernetes.SecretName, kubernetes.PasswordKey)
	}
	password := commonconfig.GetDBPassword()
	if password == "" {
		return "", errors.Errorf("could not read %s from %s",
			kubernetes.PasswordKey, commonconfig.DefaultSecretPath)
	}
	return password, nil
}

// Version fetches the server version.
//
// GET /version
func (c *Client) Version(ctx context.Context) (string, error) {
	var body []byte
	err := c.via.retryIfAppropriate(ctx, func() error {
		var err error
		body, _, err = c.do(ctx, http.MethodGet, "version", nil)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// NewJob creates a job from a pipeline spec. This does not retry on network
// failure, because it is very expensive and not idempotent.
//
// POST /jobs
func (c *Client) NewJob(ctx context.Context, spec *pipeline.Spec) (*dbclient.Job, error) {
	var job dbclient.Job
	if err := c.doJSON(ctx, http.MethodPost, "jobs", spec, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Job fetches a job by ID.
//
// GET /jobs/<job_id>
func (c *Client) Job(ctx context.Context, id uuid.UUID) (*dbclient.Job, error) {
	var job dbclient.Job
	err := c.via.retryIfAppropriate(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("jobs/%s", id), nil, &job)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// FindJobByName fetches a job by name.
//
// GET /jobs?job_name=$NAME
func (c *Client) FindJobByName(ctx context.Context, jobName string) (*dbclient.Job, error) {
	path := "jobs?job_name=" + url.QueryEscape(jobName)
	var job dbclient.Job
	err := c.via.retryIfAppropriate(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, path, nil, &job)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// RetryJob re-runs the failed work of an existing job. Not retried on
// network failure for the same reason as NewJob.
//
// POST /jobs/<job_id>/retry
func (c *Client) RetryJob(ctx context.Context, job *dbclient.Job) (*dbclient.Job, error) {
	var fresh dbclient.Job
	path := fmt.Sprintf("jobs/%s/retry", job.Id)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &fresh); err != nil {
		return nil, err
	}
	return &fresh, nil
}

// ReserveNextDatum reserves the next available datum of a job for this pod
// and returns it along with the input files to download. A (nil, nil, nil)
// return means the job has nothing left to hand out. This can only be called
// from inside a worker pod, because the reservation is keyed on the node and
// pod names the launcher injected into the environment.
//
// POST /jobs/<job_id>/reserve_next_datum
func (c *Client) ReserveNextDatum(ctx context.Context, job *dbclient.Job) (*dbclient.Datum, []dbclient.InputFile, error) {
	nodeName, err := kubernetes.NodeName()
	if err != nil {
		return nil, nil, err
	}
	podName, err := kubernetes.PodName()
	if err != nil {
		return nil, nil, err
	}
	request := &api.DatumReservationRequest{NodeName: nodeName, PodName: podName}
	path := fmt.Sprintf("jobs/%s/reserve_next_datum", job.Id)

	var reservation *api.DatumReservationResponse
	err = c.via.retryIfAppropriate(ctx, func() error {
		reservation = nil
		return c.doJSON(ctx, http.MethodPost, path, request, &reservation)
	})
	if err != nil {
		return nil, nil, err
	}
	if reservation == nil {
		return nil, nil, nil
	}
	return &reservation.Datum, reservation.InputFiles, nil
}

// MarkDatumAsDone reports a datum as processed and records the command
// output. The datum is updated in place with the server's copy.
func (c *Client) MarkDatumAsDone(ctx context.Context, datum *dbclient.Datum, output string) error {
	return c.patchDatum(ctx, datum, &api.DatumPatch{
		Status: dbclient.StatusDone,
		Output: output,
	})
}

// MarkDatumAsError reports a datum as failed and records the output and the
// error information. The datum is updated in place with the server's copy.
func (c *Client) MarkDatumAsError(ctx context.Context, datum *dbclient.Datum, output, errorMessage, backtrace string) error {
	return c.patchDatum(ctx, datum, &api.DatumPatch{
		Status:       dbclient.StatusError,
		Output:       output,
		ErrorMessage: &errorMessage,
		Backtrace:    &backtrace,
	})
}

// patchDatum applies a patch to a datum.
//
// PATCH /datums/<datum_id>
func (c *Client) patchDatum(ctx context.Context, datum *dbclient.Datum, patch *api.DatumPatch) error {
	path := fmt.Sprintf("datums/%s", datum.Id)
	var updated dbclient.Datum
	err := c.via.retryIfAppropriate(ctx, func() error {
		return c.doJSON(ctx, http.MethodPatch, path, patch, &updated)
	})
	if err != nil {
		return err
	}
	*datum = updated
	return nil
}

// CreateOutputFiles registers files a worker is about to upload. Retried on
// the cluster even though a double create will fail: the repeated failures
// eventually fail the datum, which can then be rescheduled as a whole.
//
// POST /output_files
func (c *Client) CreateOutputFiles(ctx context.Context, files []*dbclient.NewOutputFile) ([]*dbclient.OutputFile, error) {
	var created []*dbclient.OutputFile
	err := c.via.retryIfAppropriate(ctx, func() error {
		created = nil
		return c.doJSON(ctx, http.MethodPost, "output_files", files, &created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// PatchOutputFiles finalizes previously created output files as done or
// error.
//
// PATCH /output_files
func (c *Client) PatchOutputFiles(ctx context.Context, patches []api.OutputFilePatch) error {
	return c.via.retryIfAppropriate(ctx, func() error {
		_, _, err := c.do(ctx, http.MethodPatch, "output_files", patches)
		return err
	})
}

// doJSON performs a request and decodes a JSON response body into out. A nil
// out discards the body.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	data, _, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "error parsing response from %s", path)
	}
	return nil
}

// do builds one authenticated request and runs it. Responses outside the 2xx
// range become errors carrying the (plain text) response body.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "invalid request path %q", path)
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rsp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "error requesting %s %s", method, u)
	}
	defer rsp.Body.Close()
	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, rsp.StatusCode, errors.Wrapf(err, "error reading response from %s", u)
	}
	if rsp.StatusCode < http.StatusOK || rsp.StatusCode >= http.StatusMultipleChoices {
		return nil, rsp.StatusCode, errors.Errorf("unexpected HTTP status %s for %s:\n%s",
			rsp.Status, u, data)
	}
	return data, rsp.StatusCode, nil
}
