// Package executor issues HTTP requests for test definitions and runs
// batches of them with bounded concurrency.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/restprobe/restprobe/internal/models"
)

const userAgent = "restprobe/1.0"

// Executor turns one test definition into one response snapshot. The
// embedded client's connection pool is safe for concurrent use, so a single
// Executor serves a whole batch.
type Executor struct {
	client *http.Client
	log    *logrus.Logger
}

// NewExecutor creates an executor with a tuned transport. Per-test timeouts
// come from the definitions themselves, so the client carries none.
func NewExecutor(log *logrus.Logger) *Executor {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	return &Executor{
		client: &http.Client{Transport: transport},
		log:    log,
	}
}

// methodAllowsBody reports whether the request method carries a payload.
func methodAllowsBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// Execute runs one HTTP test and captures the response as a snapshot.
// It fails only on transport-level problems (connect, timeout, reset) or an
// unbuildable request; assertion evaluation is the caller's business.
func (e *Executor) Execute(ctx context.Context, def models.TestDefinition) (*models.ResponseSnapshot, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, def.Timeout())
	defer cancel()

	req, err := e.buildRequest(ctx, def)
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"test":   def.Name,
		"method": def.Method,
		"url":    def.URL,
	}).Debug("executing request")

	// Elapsed time covers send through full body receipt.
	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout after %s: %w", def.Timeout(), err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout after %s: %w", def.Timeout(), err)
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return newSnapshot(resp, raw, elapsed), nil
}

// buildRequest assembles the HTTP request. A structured (non-string) body is
// serialized as JSON with Content-Type set to application/json, unless the
// caller already supplied that header — an explicit header always wins.
func (e *Executor) buildRequest(ctx context.Context, def models.TestDefinition) (*http.Request, error) {
	var bodyReader io.Reader
	setJSONContentType := false

	if def.Body != nil && methodAllowsBody(def.Method) {
		switch body := def.Body.(type) {
		case string:
			bodyReader = strings.NewReader(body)
		default:
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize request body: %w", err)
			}
			bodyReader = bytes.NewReader(encoded)
			setJSONContentType = true
		}
	}

	req, err := http.NewRequestWithContext(ctx, def.Method, def.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for name, value := range def.Headers {
		req.Header.Set(name, value)
	}
	if setJSONContentType && !hasHeader(def.Headers, "Content-Type") {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// newSnapshot normalizes a transport response. JSON parsing is best-effort
// regardless of the declared content type: a failed parse just leaves the
// parsed slot absent, and JSON assertions later surface that as evaluation
// errors.
func newSnapshot(resp *http.Response, raw []byte, elapsed time.Duration) *models.ResponseSnapshot {
	headers := make(map[string]string, len(resp.Header))
	for name, values := range resp.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	snap := &models.ResponseSnapshot{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       string(raw),
		Elapsed:    elapsed,
	}

	var parsed any
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil {
		snap.JSON = parsed
		snap.HasJSON = true
	}
	return snap
}
