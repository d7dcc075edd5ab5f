package toast

import (
	"fmt"
	"io"
	"sync"
)

// Notifier is the notification channel a form reports outcomes through.
// Implementations must not block for long; callers do not wait for delivery.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// ForEmitter returns a Notifier that shows toasts through e.
func ForEmitter(e Emitter) Notifier {
	return emitterNotifier{e: e}
}

type emitterNotifier struct {
	e Emitter
}

func (n emitterNotifier) Success(message string) { Success(n.e, message) }
func (n emitterNotifier) Error(message string)   { Error(n.e, message) }

// Discard is a Notifier that drops every toast.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Success(string) {}
func (discard) Error(string)   {}

// Writer prints toasts as single terminal lines.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewWriter returns a Writer printing to w. When color is set, lines are
// prefixed with ANSI-coloured markers.
func NewWriter(w io.Writer, color bool) *Writer {
	return &Writer{w: w, color: color}
}

func (n *Writer) Success(message string) {
	n.print("\033[32m✓\033[0m", "OK", message)
}

func (n *Writer) Error(message string) {
	n.print("\033[31m✗\033[0m", "ERROR", message)
}

func (n *Writer) print(colored, plain, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	marker := plain
	if n.color {
		marker = colored
	}
	fmt.Fprintf(n.w, "%s %s\n", marker, message)
}

// Entry is a toast captured by a Recorder.
type Entry struct {
	Level   Type
	Message string
}

// Recorder is a Notifier and Emitter that keeps every toast in memory.
// It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Success(message string) { r.add(TypeSuccess, message) }
func (r *Recorder) Error(message string)   { r.add(TypeError, message) }

// Emit implements Emitter so a Recorder can stand in for a client.
func (r *Recorder) Emit(name string, data any) {
	if name != EventName {
		return
	}
	m, ok := data.(map[string]any)
	if !ok {
		return
	}
	level, _ := m["level"].(string)
	message, _ := m["message"].(string)
	r.add(Type(level), message)
}

func (r *Recorder) add(level Type, message string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
	r.mu.Unlock()
}

// Entries returns a copy of the captured toasts in arrival order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of captured toasts.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Last returns the most recent toast, if any.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Reset drops all captured toasts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
