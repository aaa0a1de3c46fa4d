// Package apiclient is the HTTP client wrapper for the job-board backend.
//
// Every call goes through the same pipeline:
//
//	bearer token from the session store → dispatch → decode envelope
//	                                                  ↘ normalize failure into *domain.APIError
//
// One Client exists per resource group (auth, jobs); they differ only in
// timeout.
package apiclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

const (
	// DefaultTimeout applies to the auth group.
	DefaultTimeout = 10 * time.Second
	// UploadTimeout applies to the jobs group, which carries multipart bodies.
	UploadTimeout = 60 * time.Second

	RequestIDHeader = "X-Request-ID"

	tracerName = "github.com/jobportal/portal/internal/infrastructure/apiclient"
)

// Recorder receives one observation per completed call. kind is empty on
// success.
type Recorder interface {
	ObserveCall(client, method, route string, status int, kind domain.ErrorKind, elapsed time.Duration)
}

// Options configures a Client.
type Options struct {
	// Name labels logs, spans and metrics ("auth", "jobs").
	Name    string
	BaseURL string
	// Timeout bounds a whole exchange. Zero uses DefaultTimeout.
	Timeout time.Duration
	// Tokens supplies the bearer token. Nil sends every request anonymously.
	Tokens         ports.TokenSource
	Logger         zerolog.Logger
	Metrics        Recorder
	TracerProvider trace.TracerProvider
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// Client is a resty client with the bearer interceptor and error
// normalization attached.
type Client struct {
	name    string
	http    *resty.Client
	tokens  ports.TokenSource
	log     zerolog.Logger
	metrics Recorder
	tracer  trace.Tracer
}

// New builds a Client from opts.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	log := opts.Logger.With().Str("component", "apiclient").Str("client", opts.Name).Logger()

	c := &Client{
		name:    opts.Name,
		tokens:  opts.Tokens,
		log:     log,
		metrics: opts.Metrics,
		tracer:  tp.Tracer(tracerName),
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}
	rc.OnBeforeRequest(c.authorize)
	c.http = rc

	return c
}

// authorize is the request interceptor: it reads the token at send time so a
// login in another goroutine is picked up by the next request.
func (c *Client) authorize(_ *resty.Client, r *resty.Request) error {
	if c.tokens != nil {
		token, err := c.tokens.Token(r.Context())
		if err != nil {
			return err
		}
		if token != "" {
			r.SetAuthToken(token)
		}
	}
	if r.Header.Get(RequestIDHeader) == "" {
		r.SetHeader(RequestIDHeader, uuid.NewString())
	}
	return nil
}

// requestOption customises one request before dispatch.
type requestOption func(*resty.Request)

func withBody(body any) requestOption {
	return func(r *resty.Request) { r.SetBody(body) }
}

func withPathParam(name, value string) requestOption {
	return func(r *resty.Request) { r.SetPathParam(name, value) }
}

func withQuery(params map[string]string) requestOption {
	return func(r *resty.Request) {
		if len(params) > 0 {
			r.SetQueryParams(params)
		}
	}
}

func withFile(field string, file ports.Upload) requestOption {
	return func(r *resty.Request) {
		r.SetMultipartField(field, file.FileName, file.ContentType, file.Content)
	}
}

func withFormField(name, value string) requestOption {
	return func(r *resty.Request) { r.SetMultipartFormData(map[string]string{name: value}) }
}

// errorBody is the backend's failure envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// call sends one request and decodes the success envelope into T.
func call[T any](ctx context.Context, c *Client, method, route string, opts ...requestOption) (*domain.Envelope[T], error) {
	var out domain.Envelope[T]
	if err := c.send(ctx, method, route, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

// send runs the pipeline. route is the path template (e.g. /api/jobs/{id})
// and doubles as the span and metric label.
func (c *Client) send(ctx context.Context, method, route string, result any, opts ...requestOption) error {
	ctx, span := c.tracer.Start(ctx, c.name+" "+method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.template", route),
			attribute.String("jobportal.client", c.name),
		),
	)
	defer span.End()

	req := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		ExpectContentType("application/json")
	if result != nil {
		req.SetResult(result)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, route)
	elapsed := time.Since(start)

	status := 0
	if resp != nil && resp.RawResponse != nil {
		status = resp.StatusCode()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	apiErr := normalize(resp, err)

	var kind domain.ErrorKind
	if apiErr != nil {
		kind = apiErr.Kind()
		span.SetStatus(codes.Error, apiErr.Message)
		if cause := apiErr.Unwrap(); cause != nil {
			span.RecordError(cause)
		}
		c.log.Debug().
			Str("method", method).
			Str("route", route).
			Int("status", status).
			Str("kind", string(kind)).
			Err(apiErr).
			Msg("api call failed")
	}
	if c.metrics != nil {
		c.metrics.ObserveCall(c.name, method, route, status, kind, elapsed)
	}

	if apiErr != nil {
		return apiErr
	}
	return nil
}

// normalize maps a resty outcome to an *domain.APIError, or nil on success.
//
//	status >= 400        → body message, else "Error: <status>"
//	no response          → network message
//	undecodable success  → unexpected reply
//	anything else        → the error's own message
func normalize(resp *resty.Response, err error) *domain.APIError {
	received := resp != nil && resp.RawResponse != nil

	if received && resp.StatusCode() >= http.StatusBadRequest {
		msg := domain.BackendStatusMessage(resp.StatusCode())
		if body, ok := resp.Error().(*errorBody); ok && strings.TrimSpace(body.Message) != "" {
			msg = body.Message
		}
		return domain.NewAPIError(domain.KindBackend, resp.StatusCode(), msg, err)
	}
	if err == nil {
		return nil
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if received {
		return domain.NewAPIError(domain.KindPayload, resp.StatusCode(), domain.UnexpectedReplyMessage, err)
	}
	if isNetworkError(err) {
		return domain.NewAPIError(domain.KindNetwork, 0, domain.NetworkErrorMessage, err)
	}
	return domain.NewAPIError(domain.KindConstruction, 0, err.Error(), err)
}

// isNetworkError reports whether err happened after the request was handed
// to the transport. URL parse failures are construction errors.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Op != "parse"
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// restyLogger routes resty's internal warnings into zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSpace(format), v...)
}
