// Package session keeps the per-visitor page state: the forms as last
// rendered, the visitor's notifier and the scheduler that owns every delayed
// callback started on the visitor's behalf.
package session

import (
	"context"
	"sync"
	"time"

	"givingbank/internal/notify"
	"givingbank/internal/schedule"
	"givingbank/internal/validate"

	"go.uber.org/zap"
)

// Page is one visitor's state. All mutations of forms and page data go
// through Dispatch, one at a time, the same way a browser tab handles its
// events on a single thread.
type Page struct {
	VisitorID string
	Notifier  *notify.Notifier

	sched    *schedule.Scheduler
	mu       sync.Mutex
	forms    map[string]*validate.Form
	data     map[string]any
	lastSeen time.Time
	seenMu   sync.Mutex
}

// Dispatch runs fn with exclusive access to the page.
func (p *Page) Dispatch(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

// After schedules fn to run through Dispatch once d has passed. The task is
// cancelled if the page is torn down first.
func (p *Page) After(d time.Duration, fn func()) *schedule.Task {
	return p.sched.After(d, func() { p.Dispatch(fn) })
}

// Form returns the named form, creating an empty one on first use. Call it
// from inside Dispatch.
func (p *Page) Form(id string) *validate.Form {
	f, ok := p.forms[id]
	if !ok {
		f = validate.NewForm(id)
		p.forms[id] = f
	}
	return f
}

// Get and Set hold small per-page values such as the last level summary.
// Call them from inside Dispatch.
func (p *Page) Get(key string) (any, bool) {
	v, ok := p.data[key]
	return v, ok
}

func (p *Page) Set(key string, v any) {
	p.data[key] = v
}

func (p *Page) Pending() int {
	return p.sched.Pending()
}

func (p *Page) touch(now time.Time) {
	p.seenMu.Lock()
	p.lastSeen = now
	p.seenMu.Unlock()
}

func (p *Page) idleSince() time.Time {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	return p.lastSeen
}

func (p *Page) close() {
	p.sched.Close()
}

// Registry hands out pages by visitor ID and tears down idle ones.
type Registry struct {
	mu         sync.Mutex
	pages      map[string]*Page
	idle       time.Duration
	notifyOpts []notify.Option
	now        func() time.Time
	log        *zap.Logger
}

type Option func(*Registry)

func WithNotifierOptions(opts ...notify.Option) Option {
	return func(r *Registry) { r.notifyOpts = append(r.notifyOpts, opts...) }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

func NewRegistry(idle time.Duration, opts ...Option) *Registry {
	r := &Registry{
		pages: make(map[string]*Page),
		idle:  idle,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Page returns the visitor's page, creating it on first sight, and marks it
// as recently used.
func (r *Registry) Page(visitorID string) *Page {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pages[visitorID]
	if !ok {
		sched := schedule.New()
		p = &Page{
			VisitorID: visitorID,
			Notifier:  notify.New(sched, r.notifyOpts...),
			sched:     sched,
			forms:     make(map[string]*validate.Form),
			data:      make(map[string]any),
		}
		r.pages[visitorID] = p
	}
	p.touch(r.now())
	return p
}

// Lookup returns an existing page without creating or touching it.
func (r *Registry) Lookup(visitorID string) (*Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[visitorID]
	return p, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweep tears down pages idle for longer than the registry's idle window and
// returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var stale []*Page
	for id, p := range r.pages {
		if p.idleSince().Before(cutoff) {
			stale = append(stale, p)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, p := range stale {
		p.close()
	}
	return len(stale)
}

// Start sweeps on every tick until ctx is cancelled, then closes all pages.
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			r.log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Debug("swept idle pages", zap.Int("count", n), zap.Int("remaining", r.Len()))
			}
		}
	}
}

// Close tears down every page and cancels their scheduled callbacks.
func (r *Registry) Close() {
	r.mu.Lock()
	pages := r.pages
	r.pages = make(map[string]*Page)
	r.mu.Unlock()

	for _, p := range pages {
		p.close()
	}
}
