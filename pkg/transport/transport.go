package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/vango-dev/contactform/pkg/contact"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for contact submissions.
const defaultTracerName = "contactform"

// maxDrain bounds how much of a response body is read before closing.
const maxDrain = 64 << 10

// StatusError reports a response other than 200 OK.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
	}
	return "unexpected response status " + status
}

// Client submits payloads with HTTP POST.
type Client struct {
	endpoint  string
	http      *http.Client
	tracer    trace.Tracer
	sanitizer Sanitizer
	userAgent string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithTracerProvider sets the provider used for request spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(defaultTracerName)
	}
}

// WithSanitizer rewrites every field value before it is encoded.
func WithSanitizer(s Sanitizer) Option {
	return func(c *Client) {
		c.sanitizer = s
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client posting to endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:  endpoint,
		http:      &http.Client{},
		tracer:    otel.Tracer(defaultTracerName),
		userAgent: "contactform",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", "transport")
	}
	return c
}

// Endpoint returns the URL submissions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send implements contact.Transport.
func (c *Client) Send(ctx context.Context, p contact.Payload) error {
	ctx, span := c.tracer.Start(ctx, "contact.submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("url.full", c.endpoint),
		),
	)
	defer span.End()

	body, contentType, err := encode(p, c.sanitizer)
	if err != nil {
		return c.fail(span, fmt.Errorf("encode form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return c.fail(span, err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("posting contact form", "endpoint", c.endpoint, "bytes", body.Len())

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(span, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return c.fail(span, &StatusError{Code: resp.StatusCode, Status: resp.Status})
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Debug("contact form post failed", "endpoint", c.endpoint, "error", err)
	return err
}

// encode writes the payload as multipart/form-data in label order.
func encode(p contact.Payload, s Sanitizer) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range p.Pairs() {
		value := kv.Value
		if s != nil {
			value = s.Sanitize(value)
		}
		if err := w.WriteField(kv.Key, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var _ contact.Transport = (*Client)(nil)
