package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vango-dev/contactform/pkg/toast"
)

// Default notification texts.
const (
	DefaultSuccessMessage  = "Message sent successfully!"
	DefaultFallbackMessage = "An error occurred"
)

// Controller owns the state of one contact form.
// All handlers are safe for concurrent use.
type Controller struct {
	transport Transport
	notifier  toast.Notifier
	observer  Observer
	logger    *slog.Logger

	liveEmailGate   bool
	successMessage  string
	fallbackMessage string
	now             func() time.Time

	mu       sync.Mutex
	fields   Fields
	checks   checkpoints
	inFlight int
	last     *Attempt
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where success and error toasts go.
func WithNotifier(n toast.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithObserver registers an observer for finished attempts.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithLiveEmailGate makes OnSubmit re-check the current email instead of
// trusting the flag from the last email blur.
func WithLiveEmailGate(enabled bool) Option {
	return func(c *Controller) {
		c.liveEmailGate = enabled
	}
}

// WithMessages overrides the success toast and the fallback error toast.
// Empty strings keep the defaults.
func WithMessages(success, fallback string) Option {
	return func(c *Controller) {
		if success != "" {
			c.successMessage = success
		}
		if fallback != "" {
			c.fallbackMessage = fallback
		}
	}
}

// WithClock sets the time source used for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a Controller with empty fields that submits through t.
func New(t Transport, opts ...Option) *Controller {
	c := &Controller{
		transport:       t,
		notifier:        toast.Discard,
		successMessage:  DefaultSuccessMessage,
		fallbackMessage: DefaultFallbackMessage,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", "contact")
	}
	if c.notifier == nil {
		c.notifier = toast.Discard
	}
	return c
}

// Fields returns a copy of the current values.
func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Validation returns the state derived from the last validation checks.
func (c *Controller) Validation() ValidationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checks.state()
}

// Phase returns Sending while any attempt is in flight, Idle otherwise.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight > 0 {
		return Sending
	}
	return Idle
}

// InFlight returns the number of transport calls still pending.
func (c *Controller) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// LastAttempt returns the attempt that most recently reached a terminal
// phase, or nil.
func (c *Controller) LastAttempt() *Attempt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// OnFieldChange replaces the value of field. Values longer than the field
// limit are truncated. Validation flags are left alone.
func (c *Controller) OnFieldChange(field Field, value string) {
	if !field.Valid() {
		c.logger.Debug("ignoring change of unknown field", "field", int(field))
		return
	}
	value = truncate(value, field.MaxLength())

	c.mu.Lock()
	c.fields.set(field, value)
	c.mu.Unlock()

	c.logger.Debug("field changed", "field", field.String(), "length", len(value))
}

// OnBlur runs the required check. Leaving the email field also runs the
// email syntax check on the current email value.
func (c *Controller) OnBlur(field Field) {
	c.mu.Lock()
	c.checks.checkRequired(c.fields)
	if field == FieldEmail {
		c.checks.checkEmail(c.fields.Email)
	}
	state := c.checks.state()
	c.mu.Unlock()

	c.logger.Debug("field blurred",
		"field", field.String(),
		"missing_required", state.MissingRequired,
		"email_invalid", state.EmailInvalid)
}

// OnSubmit validates the form and, when it passes, sends it on a new
// goroutine. The returned Attempt is already finished when the submit was
// blocked.
//
// Gate order: an empty field blocks and raises MissingRequired; otherwise a
// raised EmailInvalid flag blocks without touching any flag; otherwise
// MissingRequired clears and the payload is sent. On success the fields are
// emptied; on failure they are kept.
func (c *Controller) OnSubmit(ctx context.Context) *Attempt {
	a := newAttempt(c.now())

	c.mu.Lock()
	fields := c.fields
	if !fields.Complete() {
		c.checks.checkRequired(fields)
		c.mu.Unlock()
		err := fmt.Errorf("%w: %s", ErrMissingField, joinFields(fields.Missing()))
		c.block(a, err)
		return a
	}
	if c.liveEmailGate {
		c.checks.checkEmail(fields.Email)
	}
	if c.checks.state().EmailInvalid {
		c.mu.Unlock()
		c.block(a, ErrInvalidEmail)
		return a
	}
	c.checks.checkRequired(fields)
	c.inFlight++
	c.mu.Unlock()

	p := PayloadFrom(fields)
	a.sending(p)
	c.logger.Info("sending contact form", "attempt", a.ID)

	go c.send(ctx, a, p)
	return a
}

// Submit is OnSubmit followed by waiting for the outcome.
func (c *Controller) Submit(ctx context.Context) (*Attempt, error) {
	a := c.OnSubmit(ctx)
	_, err := a.Wait(ctx)
	return a, err
}

func (c *Controller) send(ctx context.Context, a *Attempt, p Payload) {
	var err error
	if c.transport == nil {
		err = ErrNoTransport
	} else {
		err = c.transport.Send(ctx, p)
	}

	c.mu.Lock()
	c.inFlight--
	if err == nil {
		c.fields = Fields{}
	}
	c.last = a
	c.mu.Unlock()

	if err == nil {
		a.settle(Succeeded, nil, c.now())
		c.logger.Info("contact form sent", "attempt", a.ID, "duration", a.Duration())
		c.notifier.Success(c.successMessage)
	} else {
		a.settle(Failed, fmt.Errorf("%w: %w", ErrTransport, err), c.now())
		c.logger.Warn("contact form failed", "attempt", a.ID, "error", err)
		c.notifier.Error(failureMessage(err, c.fallbackMessage))
	}
	c.observe(a)
	a.close()
}

func (c *Controller) block(a *Attempt, err error) {
	a.settle(Blocked, err, c.now())

	c.mu.Lock()
	c.last = a
	c.mu.Unlock()

	c.logger.Warn("contact form blocked", "attempt", a.ID, "reason", err)
	c.observe(a)
	a.close()
}

func (c *Controller) observe(a *Attempt) {
	if c.observer != nil {
		c.observer.ObserveAttempt(a)
	}
}

// failureMessage picks the text shown for a failed send.
func failureMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

func joinFields(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
