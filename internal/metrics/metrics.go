package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"givingbank/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type Collector struct {
	RequestCount    atomic.Int64
	ErrorCount      atomic.Int64
	RequestDuration atomic.Int64 // nanoseconds total
	ActiveRequests  atomic.Int64
	DraftSaves      atomic.Int64
	startTime       time.Time

	mu            sync.Mutex
	notifications map[notify.Severity]int64
	rejections    map[string]int64

	// Visitors reports the number of live visitor pages, if set.
	Visitors func() int
}

func NewCollector() *Collector {
	return &Collector{
		startTime:     time.Now(),
		notifications: make(map[notify.Severity]int64),
		rejections:    make(map[string]int64),
	}
}

var Default = NewCollector()

// ObserveNotification counts a shown notification. It matches notify.Observer.
func (m *Collector) ObserveNotification(n notify.Notification) {
	m.mu.Lock()
	m.notifications[n.Severity]++
	m.mu.Unlock()
}

// ObserveRejection counts a rejected submit by form.
func (m *Collector) ObserveRejection(form, _ string) {
	m.mu.Lock()
	m.rejections[form]++
	m.mu.Unlock()
}

func (m *Collector) Notifications(sev notify.Severity) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifications[sev]
}

func (m *Collector) Rejections(form string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejections[form]
}

func (m *Collector) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.ActiveRequests.Add(1)
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		m.ActiveRequests.Add(-1)
		m.RequestCount.Add(1)
		m.RequestDuration.Add(duration.Nanoseconds())

		if c.Response().StatusCode() >= 500 {
			m.ErrorCount.Add(1)
		}

		return err
	}
}

func (m *Collector) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/plain; version=0.0.4")
		return c.SendString(m.Render())
	}
}

// Render returns the collector state in the Prometheus text format.
func (m *Collector) Render() string {
	uptime := time.Since(m.startTime).Seconds()
	totalRequests := m.RequestCount.Load()
	totalErrors := m.ErrorCount.Load()
	activeReqs := m.ActiveRequests.Load()
	totalDuration := m.RequestDuration.Load()

	var avgDuration float64
	if totalRequests > 0 {
		avgDuration = float64(totalDuration) / float64(totalRequests) / 1e6 // milliseconds
	}

	var b strings.Builder
	fmt.Fprintf(&b, `# HELP givingbank_uptime_seconds Time since server start
# TYPE givingbank_uptime_seconds gauge
givingbank_uptime_seconds %.2f

# HELP givingbank_http_requests_total Total HTTP requests
# TYPE givingbank_http_requests_total counter
givingbank_http_requests_total %d

# HELP givingbank_http_errors_total Total HTTP 5xx errors
# TYPE givingbank_http_errors_total counter
givingbank_http_errors_total %d

# HELP givingbank_http_active_requests Current active requests
# TYPE givingbank_http_active_requests gauge
givingbank_http_active_requests %d

# HELP givingbank_http_request_duration_avg_ms Average request duration in milliseconds
# TYPE givingbank_http_request_duration_avg_ms gauge
givingbank_http_request_duration_avg_ms %.2f

# HELP givingbank_draft_saves_total Drafts written
# TYPE givingbank_draft_saves_total counter
givingbank_draft_saves_total %d
`, uptime, totalRequests, totalErrors, activeReqs, avgDuration, m.DraftSaves.Load())

	if m.Visitors != nil {
		fmt.Fprintf(&b, `
# HELP givingbank_visitors Live visitor pages
# TYPE givingbank_visitors gauge
givingbank_visitors %d
`, m.Visitors())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b.WriteString("\n# HELP givingbank_notifications_total Notifications shown by severity\n")
	b.WriteString("# TYPE givingbank_notifications_total counter\n")
	for _, sev := range []notify.Severity{notify.Success, notify.Error, notify.Warning, notify.Info} {
		fmt.Fprintf(&b, "givingbank_notifications_total{severity=%q} %d\n", string(sev), m.notifications[sev])
	}

	if len(m.rejections) > 0 {
		b.WriteString("\n# HELP givingbank_rejections_total Rejected submits by form\n")
		b.WriteString("# TYPE givingbank_rejections_total counter\n")
		forms := make([]string, 0, len(m.rejections))
		for f := range m.rejections {
			forms = append(forms, f)
		}
		sort.Strings(forms)
		for _, f := range forms {
			fmt.Fprintf(&b, "givingbank_rejections_total{form=%q} %d\n", f, m.rejections[f])
		}
	}
	return b.String()
}
