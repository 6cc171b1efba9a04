// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package astronomy

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skywatch/skywatch/internal/schema"
	"github.com/skywatch/skywatch/pkg/errutil"
)

// CodeLookupFailed is the error code of every lookup failure.
const CodeLookupFailed = "REMOTE_LOOKUP_FAILED"

// Failure stages, recorded as the "stage" error context.
const (
	StageFetch  = "fetch"
	StageDecode = "decode"
)

// Defaults.
const (
	DefaultEndpoint = "https://api.ipgeolocation.io/astronomy"
	DefaultTimeout  = 10 * time.Second
)

// maxBody bounds the response size read from the API.
const maxBody = 1 << 20

const tracerName = "github.com/skywatch/skywatch/internal/astronomy"

// Client queries the astronomy API.
type Client struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	base     http.RoundTripper
	logger   *slog.Logger

	http   *http.Client
	schema *schema.Schema
	tracer trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each lookup, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTransport sets the base transport wrapped by the tracing transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for endpoint. An empty endpoint uses
// DefaultEndpoint.
func NewClient(endpoint, apiKey string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("endpoint", endpoint).Wrap(err)
	}

	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  DefaultTimeout,
		base:     http.DefaultTransport,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	sch, err := NewResponseSchema()
	if err != nil {
		return nil, err
	}
	c.schema = sch
	c.http = &http.Client{
		Transport: otelhttp.NewTransport(c.base),
		Timeout:   c.timeout,
	}
	c.tracer = otel.Tracer(tracerName)
	return c, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Lookup fetches and parses the astronomy data for location.
func (c *Client) Lookup(ctx context.Context, location string) (*Report, error) {
	ctx, span := c.tracer.Start(ctx, "astronomy.Lookup",
		trace.WithAttributes(attribute.String("astronomy.location", location)))
	defer span.End()

	report, err := c.lookup(ctx, location)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errutil.Code(err))
		errutil.LogErrorAt(ctx, c.logger, slog.LevelWarn, "astronomy lookup failed", err)
		return nil, err
	}
	c.logger.DebugContext(ctx, "astronomy lookup succeeded", "event", "lookup_succeeded", "location", location)
	return report, nil
}

func (c *Client) lookup(ctx context.Context, location string) (*Report, error) {
	resp, err := c.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return Parse(resp)
}

// Fetch performs the HTTP request and validates the response shape.
func (c *Client) Fetch(ctx context.Context, location string) (*Response, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fetchError("parse endpoint", err.Error())
	}
	q := u.Query()
	q.Set("apiKey", c.apiKey)
	q.Set("location", location)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fetchError("build request", c.redact(err))
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fetchError("send request", c.redact(err))
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBody))
	if err != nil {
		return nil, fetchError("read body", c.redact(err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, oops.Code(CodeLookupFailed).
			With("stage", StageFetch).
			With("operation", "check status").
			With("status", httpResp.StatusCode).
			Errorf("%s for location %q", httpResp.Status, location)
	}

	if !json.Valid(body) {
		return nil, fetchError("decode body", "response is not valid JSON")
	}
	if err := c.schema.ValidateJSON(body); err != nil {
		return nil, oops.Code(CodeLookupFailed).
			With("stage", StageDecode).
			With("operation", "validate response").
			Errorf("%s", schema.FormatError(err))
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, oops.Code(CodeLookupFailed).
			With("stage", StageDecode).
			With("operation", "decode body").
			Errorf("%v", err)
	}
	return &out, nil
}

// redact renders err with the API key masked; request errors embed the URL.
func (c *Client) redact(err error) string {
	msg := err.Error()
	if c.apiKey == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(c.apiKey), "REDACTED")
	return strings.ReplaceAll(msg, c.apiKey, "REDACTED")
}

// Stage returns the failure stage recorded on a lookup error, or "".
func Stage(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if stage, ok := oopsErr.Context()["stage"].(string); ok {
		return stage
	}
	return ""
}

func fetchError(operation, msg string) error {
	return oops.Code(CodeLookupFailed).
		With("stage", StageFetch).
		With("operation", operation).
		Errorf("%s", msg)
}
