// Package notify owns the single transient banner shown to a visitor.
//
// A Notifier holds at most one Notification. Showing a new one replaces the
// previous one immediately and cancels its pending dismissal; nothing is ever
// queued. Each notification removes itself after its TTL.
package notify

import (
	"crypto/rand"
	"sync"
	"time"

	"givingbank/internal/schedule"

	"github.com/oklog/ulid/v2"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

const (
	// DefaultTTL is how long a banner stays up unless the caller asks otherwise.
	DefaultTTL = 5 * time.Second
	// ProgressTTL is used for the short "search in progress" banner.
	ProgressTTL = 1500 * time.Millisecond
)

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case Success, Error, Warning, Info:
		return true
	}
	return false
}

// Color is the banner background for the severity.
func (s Severity) Color() string {
	switch s {
	case Success:
		return "#27ae60"
	case Error:
		return "#e74c3c"
	case Warning:
		return "#f39c12"
	case Info:
		return "#3498db"
	}
	return "#3498db"
}

type Notification struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	ShownAt  time.Time     `json:"shown_at"`
	TTL      time.Duration `json:"ttl"`
}

// ExpiresAt is when the banner is scheduled to disappear.
func (n Notification) ExpiresAt() time.Time {
	return n.ShownAt.Add(n.TTL)
}

// Observer is told about every notification that becomes visible.
type Observer func(Notification)

type Option func(*Notifier)

func WithTTL(ttl time.Duration) Option {
	return func(n *Notifier) {
		if ttl > 0 {
			n.ttl = ttl
		}
	}
}

func WithObserver(o Observer) Option {
	return func(n *Notifier) { n.observers = append(n.observers, o) }
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

type Notifier struct {
	mu        sync.Mutex
	sched     *schedule.Scheduler
	current   *Notification
	dismiss   *schedule.Task
	ttl       time.Duration
	now       func() time.Time
	observers []Observer
	entropy   *ulid.MonotonicEntropy
}

// New builds a notifier whose dismissals run on sched. Closing sched drops
// any pending dismissal along with everything else the owner scheduled.
func New(sched *schedule.Scheduler, opts ...Option) *Notifier {
	n := &Notifier{
		sched:   sched,
		ttl:     DefaultTTL,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify shows message with the default TTL.
func (n *Notifier) Notify(message string, sev Severity) Notification {
	return n.NotifyFor(message, sev, n.ttl)
}

// NotifyFor shows message for ttl, replacing whatever was visible.
func (n *Notifier) NotifyFor(message string, sev Severity, ttl time.Duration) Notification {
	if !sev.Valid() {
		sev = Info
	}
	if ttl <= 0 {
		ttl = n.ttl
	}

	n.mu.Lock()
	now := n.now()
	note := Notification{
		ID:       ulid.MustNew(ulid.Timestamp(now), n.entropy).String(),
		Message:  message,
		Severity: sev,
		ShownAt:  now,
		TTL:      ttl,
	}

	n.dismiss.Cancel()
	n.current = &note
	id := note.ID
	n.dismiss = n.sched.After(ttl, func() { n.expire(id) })
	observers := n.observers
	n.mu.Unlock()

	for _, o := range observers {
		o(note)
	}
	return note
}

// expire removes the notification only if it is still the one on screen.
func (n *Notifier) expire(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil && n.current.ID == id {
		n.current = nil
		n.dismiss = nil
	}
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss removes the visible notification early.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dismiss.Cancel()
	n.dismiss = nil
	n.current = nil
}
