// ABOUTME: Notification sinks for the CLI, logs, and tests
// ABOUTME: WriterSink renders styled lines; LogSink and Recorder capture history

package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
)

// Symbol returns the glyph shown next to a notification of kind k
func Symbol(k Kind) string {
	switch k {
	case Success:
		return "✓"
	case Error:
		return "✗"
	default:
		return "•"
	}
}

// Render formats n as a single styled line
func Render(n Notification) string {
	line := Symbol(n.Kind) + " " + n.Message
	switch n.Kind {
	case Success:
		return successStyle.Render(line)
	case Error:
		return errorStyle.Render(line)
	default:
		return infoStyle.Render(line)
	}
}

// WriterSink prints notifications to w, one per line
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Deliver(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, Render(n))
}

// LogSink records notifications in the structured log
type LogSink struct{}

func (LogSink) Deliver(n Notification) {
	level := slog.LevelInfo
	if n.Kind == Error {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "Notification", "id", n.ID, "kind", string(n.Kind), "message", n.Message)
}

// Recorder keeps every delivered notification in order
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Deliver(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

// Messages returns the recorded messages of kind k
func (r *Recorder) Messages(k Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.all {
		if n.Kind == k {
			out = append(out, n.Message)
		}
	}
	return out
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}
