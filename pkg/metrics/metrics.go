// Package metrics records contact form submission outcomes in Prometheus.
package metrics

import (
	"context"
	"errors"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/contactform/pkg/contact"
	"github.com/vango-dev/contactform/pkg/transport"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "contactform").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for send duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "contactform",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector observes finished attempts.
//
// Metrics collected:
//   - contactform_attempts_total: attempts by outcome (blocked, succeeded, failed)
//   - contactform_blocked_total: blocked attempts by reason
//   - contactform_failures_total: failed sends by error type
//   - contactform_send_duration_seconds: time from submit to transport outcome
//
// Example:
//
//	c := metrics.New(metrics.WithNamespace("site"))
//	ctrl := contact.New(t, contact.WithObserver(c))
//	http.Handle("/metrics", promhttp.Handler())
type Collector struct {
	attemptsTotal *prometheus.CounterVec
	blockedTotal  *prometheus.CounterVec
	failuresTotal *prometheus.CounterVec
	sendDuration  prometheus.Histogram
}

// New registers the contact form metrics and returns their collector.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		attemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "attempts_total",
			Help:        "Total number of contact form submit attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		blockedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "blocked_total",
			Help:        "Total number of submits blocked by validation",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		failuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failures_total",
			Help:        "Total number of failed sends by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"error_type"}),

		sendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "send_duration_seconds",
			Help:        "Contact form send duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// ObserveAttempt implements contact.Observer.
func (c *Collector) ObserveAttempt(a *contact.Attempt) {
	phase := a.Phase()
	c.attemptsTotal.WithLabelValues(phase.String()).Inc()

	switch phase {
	case contact.Blocked:
		c.blockedTotal.WithLabelValues(blockReason(a.Err())).Inc()
	case contact.Succeeded:
		c.sendDuration.Observe(a.Duration().Seconds())
	case contact.Failed:
		c.sendDuration.Observe(a.Duration().Seconds())
		c.failuresTotal.WithLabelValues(categorizeError(a.Err())).Inc()
	}
}

func blockReason(err error) string {
	switch {
	case errors.Is(err, contact.ErrMissingField):
		return "missing_field"
	case errors.Is(err, contact.ErrInvalidEmail):
		return "invalid_email"
	default:
		return "unknown"
	}
}

// categorizeError keeps the error label low-cardinality.
func categorizeError(err error) string {
	var statusErr *transport.StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, contact.ErrNoTransport):
		return "unconfigured"
	default:
		return "network"
	}
}

var _ contact.Observer = (*Collector)(nil)
