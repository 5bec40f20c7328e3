// Package health exposes liveness and readiness probes for the pipeline:
// database connectivity, the enhancement engine, and crawl-target
// reachability.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"seoul-store-crawler/pkg/logging"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// ComponentHealth is the outcome of checking a single component.
type ComponentHealth struct {
	Name        string                 `json:"name"`
	Status      Status                 `json:"status"`
	Message     string                 `json:"message,omitempty"`
	LastChecked time.Time              `json:"last_checked"`
	Duration    time.Duration          `json:"duration"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// SystemHealth aggregates all component checks.
type SystemHealth struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Uptime     time.Duration              `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// Checker is a single component health check.
type Checker interface {
	Check(ctx context.Context) ComponentHealth
	Name() string
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) ComponentHealth
}

func (cf CheckFunc) Check(ctx context.Context) ComponentHealth { return cf.fn(ctx) }
func (cf CheckFunc) Name() string                              { return cf.name }

func NewCheckFunc(name string, fn func(ctx context.Context) ComponentHealth) Checker {
	return CheckFunc{name: name, fn: fn}
}

// Manager runs registered checkers and aggregates their results.
type Manager struct {
	checkers  map[string]Checker
	results   map[string]ComponentHealth
	startTime time.Time
	version   string
	timeout   time.Duration
	log       *logging.ComponentLogger
	mu        sync.RWMutex
}

type ManagerConfig struct {
	Timeout time.Duration
	Version string
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Timeout: 10 * time.Second,
		Version: "1.0.0",
	}
}

func NewManager(cfg ManagerConfig, log *logging.Logger) *Manager {
	return &Manager{
		checkers:  make(map[string]Checker),
		results:   make(map[string]ComponentHealth),
		startTime: time.Now(),
		version:   cfg.Version,
		timeout:   cfg.Timeout,
		log:       log.WithComponent("health"),
	}
}

func (m *Manager) Register(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := checker.Name()
	m.checkers[name] = checker
	m.results[name] = ComponentHealth{Name: name, Status: StatusUnknown}

	m.log.Info("registered health checker", logging.String("checker", name))
}

// CheckAll runs every registered checker concurrently.
func (m *Manager) CheckAll(ctx context.Context) SystemHealth {
	start := time.Now()

	m.mu.RLock()
	checkers := make([]Checker, 0, len(m.checkers))
	for _, c := range m.checkers {
		checkers = append(checkers, c)
	}
	m.mu.RUnlock()

	results := make(chan ComponentHealth, len(checkers))
	var wg sync.WaitGroup
	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()
			results <- c.Check(checkCtx)
		}(checker)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	components := make(map[string]ComponentHealth)
	for result := range results {
		components[result.Name] = result
		m.mu.Lock()
		m.results[result.Name] = result
		m.mu.Unlock()
	}

	status := overallStatus(components)

	m.log.Debug("completed health check",
		logging.String("status", string(status)),
		logging.Duration("duration", time.Since(start)),
		logging.Int("components", len(components)))

	return SystemHealth{
		Status:     status,
		Timestamp:  time.Now(),
		Version:    m.version,
		Uptime:     time.Since(m.startTime),
		Components: components,
	}
}

// Cached returns the last known component results without re-checking.
func (m *Manager) Cached() SystemHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()

	components := make(map[string]ComponentHealth, len(m.results))
	for name, result := range m.results {
		components[name] = result
	}

	return SystemHealth{
		Status:     overallStatus(components),
		Timestamp:  time.Now(),
		Version:    m.version,
		Uptime:     time.Since(m.startTime),
		Components: components,
	}
}

func (m *Manager) uptime() time.Duration {
	return time.Since(m.startTime)
}

func overallStatus(components map[string]ComponentHealth) Status {
	if len(components) == 0 {
		return StatusUnknown
	}

	healthy := 0
	for _, c := range components {
		switch c.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusHealthy:
			healthy++
		}
	}
	if healthy == len(components) {
		return StatusHealthy
	}
	return StatusDegraded
}

// DatabaseChecker verifies database connectivity and reports pool stats.
type DatabaseChecker struct {
	db   *sql.DB
	name string
}

func NewDatabaseChecker(db *sql.DB, name string) *DatabaseChecker {
	return &DatabaseChecker{db: db, name: name}
}

func (dc *DatabaseChecker) Name() string { return dc.name }

func (dc *DatabaseChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()
	result := ComponentHealth{
		Name:        dc.name,
		LastChecked: time.Now(),
		Metadata:    make(map[string]interface{}),
	}

	if err := dc.db.PingContext(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Message = "database connection failed"
		result.Duration = time.Since(start)
		return result
	}

	var one int
	if err := dc.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		result.Status = StatusDegraded
		result.Error = err.Error()
		result.Message = "database query failed"
	} else {
		result.Status = StatusHealthy
		result.Message = "database connection successful"
	}

	stats := dc.db.Stats()
	result.Metadata["open_connections"] = stats.OpenConnections
	result.Metadata["in_use"] = stats.InUse
	result.Metadata["idle"] = stats.Idle

	result.Duration = time.Since(start)
	return result
}

// EngineChecker reports enhancement engine activity via a stats snapshot.
type EngineChecker struct {
	getStats func() interface{}
	name     string
}

func NewEngineChecker(name string, getStats func() interface{}) *EngineChecker {
	return &EngineChecker{getStats: getStats, name: name}
}

func (ec *EngineChecker) Name() string { return ec.name }

func (ec *EngineChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()
	result := ComponentHealth{
		Name:        ec.name,
		LastChecked: time.Now(),
		Metadata:    make(map[string]interface{}),
	}

	if ec.getStats == nil {
		result.Status = StatusUnknown
		result.Message = "engine statistics unavailable"
	} else {
		result.Metadata["stats"] = ec.getStats()
		result.Status = StatusHealthy
		result.Message = "engine running"
	}

	result.Duration = time.Since(start)
	return result
}

// HTTPChecker verifies an external HTTP dependency responds.
type HTTPChecker struct {
	client *http.Client
	url    string
	name   string
}

func NewHTTPChecker(url, name string, timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		client: &http.Client{Timeout: timeout},
		url:    url,
		name:   name,
	}
}

func (hc *HTTPChecker) Name() string { return hc.name }

func (hc *HTTPChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()
	result := ComponentHealth{
		Name:        hc.name,
		LastChecked: time.Now(),
		Metadata:    map[string]interface{}{"url": hc.url},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.url, nil)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Message = "request failed"
		result.Duration = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	result.Metadata["status_code"] = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result.Status = StatusHealthy
		result.Message = fmt.Sprintf("responding (status: %d)", resp.StatusCode)
	case resp.StatusCode >= 500:
		result.Status = StatusUnhealthy
		result.Message = fmt.Sprintf("server error (status: %d)", resp.StatusCode)
	default:
		result.Status = StatusDegraded
		result.Message = fmt.Sprintf("degraded (status: %d)", resp.StatusCode)
	}

	result.Duration = time.Since(start)
	return result
}
