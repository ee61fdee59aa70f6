// Package health provides liveness and readiness checks for the service.
package health

import (
	"sync"
	"time"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check is the outcome of one component check.
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
}

// CheckFunc performs a health check.
type CheckFunc func() Check

// Checker manages health checks for the application.
type Checker struct {
	mu          sync.RWMutex
	checks      map[string]CheckFunc
	readyChecks map[string]CheckFunc
	liveChecks  map[string]CheckFunc
	startTime   time.Time
}

// Response is the overall health response.
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	Uptime    float64          `json:"uptime_seconds"`
}

// NewChecker creates a new health checker.
func NewChecker() *Checker {
	return &Checker{
		checks:      make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		liveChecks:  make(map[string]CheckFunc),
		startTime:   time.Now(),
	}
}

// RegisterCheck registers a general health check.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// RegisterReadinessCheck registers a readiness check.
func (c *Checker) RegisterReadinessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyChecks[name] = check
}

// RegisterLivenessCheck registers a liveness check.
func (c *Checker) RegisterLivenessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveChecks[name] = check
}

// Check performs all general health checks.
func (c *Checker) Check() Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.perform(c.checks)
}

// CheckReadiness performs readiness checks.
func (c *Checker) CheckReadiness() Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.perform(c.readyChecks)
}

// CheckLiveness performs liveness checks.
func (c *Checker) CheckLiveness() Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.perform(c.liveChecks)
}

func (c *Checker) perform(checks map[string]CheckFunc) Response {
	resp := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(checks)),
		Uptime:    time.Since(c.startTime).Seconds(),
	}

	for name, fn := range checks {
		start := time.Now()
		check := fn()
		check.Name = name
		check.LastChecked = start
		check.Duration = time.Since(start) / time.Millisecond
		resp.Checks[name] = check

		switch check.Status {
		case StatusUnhealthy:
			resp.Status = StatusUnhealthy
		case StatusDegraded:
			if resp.Status == StatusHealthy {
				resp.Status = StatusDegraded
			}
		}
	}

	return resp
}
