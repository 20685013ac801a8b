package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"workvouch/internal/shared/server/respond"
	"workvouch/internal/shared/telemetry"
)

const checkTimeout = 2 * time.Second

// Pinger is a dependency whose reachability is reported.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Pinger
}

// NewService constructs a new health service. Nil pingers are skipped.
func NewService(checks map[string]Pinger) *Service {
	s := &Service{checks: make(map[string]Pinger)}
	for name, p := range checks {
		if p != nil {
			s.checks[name] = p
		}
	}
	return s
}

// Report is the health payload.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Status pings every dependency. OK is false if any ping fails.
func (s *Service) Status(ctx context.Context) Report {
	r := Report{OK: true}
	if len(s.checks) == 0 {
		return r
	}
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	r.Checks = make(map[string]string, len(names))
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checks[name].Ping(cctx)
		cancel()
		if err != nil {
			r.OK = false
			r.Checks[name] = "down"
			telemetry.Warn("health.check_failed", map[string]any{"check": name, "error": err})
			continue
		}
		r.Checks[name] = "up"
	}
	return r
}

// Handler answers 200 when healthy and 503 otherwise.
func (s *Service) Handler(c *gin.Context) {
	r := s.Status(c.Request.Context())
	status := http.StatusOK
	if !r.OK {
		status = http.StatusServiceUnavailable
	}
	respond.JSON(c, status, r)
}
