// Package processor runs the concurrent enhancement pipeline: a worker pool
// pulls crawled stores from a priority-tagged queue, enhances each one, and
// persists the outcome. External API traffic is throttled with a token
// bucket so bursts of stores do not blow through quota.
package processor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"seoul-store-crawler/internal/models"
	"seoul-store-crawler/pkg/events"
	"seoul-store-crawler/pkg/logging"
	"seoul-store-crawler/pkg/metrics"
)

// Job is one store queued for enhancement.
type Job struct {
	Store    models.Store
	Priority int // higher runs sooner when the queue backs up
	Retry    int
}

// Result is the outcome of processing one store. Store carries the
// enhanced record for persistence when Success is set.
type Result struct {
	StoreID          int64
	Success          bool
	Store            *models.Store
	Enhancement      *models.EnhancementResult
	Error            error
	ProcessingTimeMs int64
	Retries          int
}

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	TotalJobs      int64
	CompletedJobs  int64
	SuccessfulJobs int64
	FailedJobs     int64
	AverageTimeMs  int64
	StartTime      time.Time
	LastActivity   time.Time
	WorkerCount    int
	QueueSize      int64
	GeocodeCalls   int64
}

// Enhancer is the per-store enrichment stage the engine drives.
type Enhancer interface {
	Enhance(ctx context.Context, store *models.Store) *models.EnhancementResult
}

// Repository persists enhancement outcomes.
type Repository interface {
	SaveEnhanced(ctx context.Context, store *models.Store) error
	MarkFailed(ctx context.Context, storeID int64, reason string) error
}

// RateLimiter is a token bucket. Tokens refill at a fixed rate up to the
// burst capacity; Wait blocks until a token or context cancellation.
type RateLimiter struct {
	tokens   chan struct{}
	interval time.Duration
	ticker   *time.Ticker
	mu       sync.Mutex
	running  bool
}

func NewRateLimiter(rps, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = rps
	}

	rl := &RateLimiter{
		tokens:   make(chan struct{}, burst),
		interval: time.Second / time.Duration(rps),
	}
	for i := 0; i < burst; i++ {
		rl.tokens <- struct{}{}
	}
	return rl
}

func (rl *RateLimiter) Start() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.running {
		return
	}
	rl.ticker = time.NewTicker(rl.interval)
	rl.running = true

	go func() {
		for range rl.ticker.C {
			select {
			case rl.tokens <- struct{}{}:
			default:
				// bucket full
			}
		}
	}()
}

func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.running {
		return
	}
	rl.ticker.Stop()
	rl.running = false
}

func (rl *RateLimiter) Wait(ctx context.Context) error {
	select {
	case <-rl.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Config holds engine tuning knobs.
type Config struct {
	WorkerCount  int
	MaxRetries   int
	RetryDelay   time.Duration
	JobTimeout   time.Duration
	GeocodeRPS   int
	GeocodeBurst int
	QueueSize    int
}

func DefaultConfig() Config {
	return Config{
		WorkerCount:  8,
		MaxRetries:   3,
		RetryDelay:   5 * time.Second,
		JobTimeout:   60 * time.Second,
		GeocodeRPS:   10,
		GeocodeBurst: 20,
		QueueSize:    2000,
	}
}

// Engine coordinates the worker pool.
type Engine struct {
	enhancer Enhancer
	repo     Repository

	workerCount int
	maxRetries  int
	retryDelay  time.Duration
	jobTimeout  time.Duration

	rateLimit *RateLimiter

	jobQueue   chan Job
	resultChan chan Result
	ctx        context.Context
	cancel     context.CancelFunc
	workerWg   sync.WaitGroup
	resultWg   sync.WaitGroup

	stats   Stats
	statsMu sync.RWMutex

	log          *logging.ComponentLogger
	shutdownOnce sync.Once
	events       events.EventStore

	mSucceeded *metrics.Counter
	mFailed    *metrics.Counter
	mJobTime   *metrics.Histogram
}

func NewEngine(enhancer Enhancer, repo Repository, cfg Config, log *logging.Logger) *Engine {
	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		enhancer:    enhancer,
		repo:        repo,
		workerCount: cfg.WorkerCount,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		jobTimeout:  cfg.JobTimeout,
		rateLimit:   NewRateLimiter(cfg.GeocodeRPS, cfg.GeocodeBurst),
		jobQueue:    make(chan Job, cfg.QueueSize),
		resultChan:  make(chan Result, cfg.QueueSize),
		ctx:         ctx,
		cancel:      cancel,
		log:         log.WithComponent("processor"),
		stats: Stats{
			StartTime:    time.Now(),
			LastActivity: time.Now(),
			WorkerCount:  cfg.WorkerCount,
		},
		mSucceeded: metrics.Default.Counter("enhance_jobs_succeeded_total", "Stores enhanced successfully"),
		mFailed:    metrics.Default.Counter("enhance_jobs_failed_total", "Stores that failed enhancement"),
		mJobTime: metrics.Default.Histogram("enhance_job_seconds",
			"Per-store enhancement time", []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}),
	}
}

// SetEventStore enables audit logging of enhancement outcomes. Must be
// called before Start.
func (e *Engine) SetEventStore(es events.EventStore) {
	e.events = es
}

func (e *Engine) Start() {
	e.log.Info("starting engine", logging.Int("workers", e.workerCount))

	e.rateLimit.Start()

	for i := 0; i < e.workerCount; i++ {
		e.workerWg.Add(1)
		go e.worker(i)
	}

	e.resultWg.Add(1)
	go e.resultProcessor()
}

// Stop drains the queue and shuts the pool down, waiting up to timeout.
func (e *Engine) Stop(timeout time.Duration) error {
	var err error

	e.shutdownOnce.Do(func() {
		e.log.Info("stopping engine")

		// Let workers drain the queue, then let the result processor drain
		// the result channel.
		close(e.jobQueue)

		workersDone := make(chan struct{})
		go func() {
			e.workerWg.Wait()
			close(workersDone)
		}()

		select {
		case <-workersDone:
		case <-time.After(timeout):
			err = fmt.Errorf("shutdown timeout exceeded")
			e.cancel()
			<-workersDone
		}

		close(e.resultChan)
		e.resultWg.Wait()

		e.rateLimit.Stop()
		e.cancel()
	})

	return err
}

// EnqueueStores queues stores for enhancement. Returns an error if the
// queue fills before all stores are accepted.
func (e *Engine) EnqueueStores(stores []models.Store) error {
	for _, store := range stores {
		job := Job{
			Store:    store,
			Priority: jobPriority(store),
		}

		select {
		case e.jobQueue <- job:
			atomic.AddInt64(&e.stats.TotalJobs, 1)
			atomic.AddInt64(&e.stats.QueueSize, 1)
		default:
			return fmt.Errorf("job queue full, enqueued %d of %d stores",
				atomic.LoadInt64(&e.stats.QueueSize), len(stores))
		}
	}
	return nil
}

// jobPriority favors stores with more raw material to work with.
func jobPriority(store models.Store) int {
	priority := 0
	if store.HoursText != nil && *store.HoursText != "" {
		priority += 10
	}
	if store.Address != "" || store.BasicAddress != "" {
		priority += 5
	}
	if len(store.RawCategories) > 0 {
		priority += 2
	}
	return priority
}

func (e *Engine) Stats() Stats {
	e.statsMu.RLock()
	stats := Stats{
		CompletedJobs:  e.stats.CompletedJobs,
		SuccessfulJobs: e.stats.SuccessfulJobs,
		FailedJobs:     e.stats.FailedJobs,
		AverageTimeMs:  e.stats.AverageTimeMs,
		StartTime:      e.stats.StartTime,
		LastActivity:   e.stats.LastActivity,
		WorkerCount:    e.stats.WorkerCount,
	}
	e.statsMu.RUnlock()

	stats.TotalJobs = atomic.LoadInt64(&e.stats.TotalJobs)
	stats.QueueSize = atomic.LoadInt64(&e.stats.QueueSize)
	stats.GeocodeCalls = atomic.LoadInt64(&e.stats.GeocodeCalls)
	return stats
}

func (e *Engine) worker(id int) {
	defer e.workerWg.Done()

	e.log.Debug("worker started", logging.Int("worker", id))
	defer e.log.Debug("worker stopped", logging.Int("worker", id))

	for {
		select {
		case job, ok := <-e.jobQueue:
			if !ok {
				return
			}
			atomic.AddInt64(&e.stats.QueueSize, -1)
			result := e.processJob(job)

			select {
			case e.resultChan <- result:
			case <-e.ctx.Done():
				return
			}

		case <-e.ctx.Done():
			return
		}
	}
}

// processJob enhances one store with exponential backoff on retryable
// failures.
func (e *Engine) processJob(job Job) Result {
	start := time.Now()
	store := job.Store

	jobCtx, cancel := context.WithTimeout(e.ctx, e.jobTimeout)
	defer cancel()

	result := Result{
		StoreID: store.ID,
		Retries: job.Retry,
	}

	var err error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt*attempt) * e.retryDelay
			e.log.Debug("retrying store",
				logging.Int64("store_id", store.ID),
				logging.Int("attempt", attempt+1))

			select {
			case <-time.After(delay):
			case <-jobCtx.Done():
				result.Error = fmt.Errorf("job cancelled during retry delay: %w", jobCtx.Err())
				result.ProcessingTimeMs = time.Since(start).Milliseconds()
				return result
			}
		}

		var enhancement *models.EnhancementResult
		enhancement, err = e.enhanceWithRateLimit(jobCtx, &store)
		if err == nil {
			result.Success = true
			result.Store = &store
			result.Enhancement = enhancement
			break
		}

		if !isRetryableError(err) {
			e.log.Warn("non-retryable error",
				logging.Int64("store_id", store.ID),
				logging.String("error", err.Error()))
			break
		}
	}

	result.Error = err
	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return result
}

func (e *Engine) enhanceWithRateLimit(ctx context.Context, store *models.Store) (*models.EnhancementResult, error) {
	// Enhancement can call the geocoding API, so every job pays the toll.
	if err := e.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}
	atomic.AddInt64(&e.stats.GeocodeCalls, 1)

	enhancement := e.enhancer.Enhance(ctx, store)
	if enhancement.Error != nil {
		return enhancement, enhancement.Error
	}
	if !enhancement.Success {
		return enhancement, fmt.Errorf("enhancement incomplete for store %d", store.ID)
	}
	return enhancement, nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	retryable := []string{
		"timeout",
		"rate limit",
		"quota exceeded",
		"service unavailable",
		"internal server error",
		"connection refused",
		"connection reset",
		"temporary failure",
	}
	for _, s := range retryable {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (e *Engine) resultProcessor() {
	defer e.resultWg.Done()

	for {
		select {
		case result, ok := <-e.resultChan:
			if !ok {
				return
			}
			e.handleResult(result)

		case <-e.ctx.Done():
			return
		}
	}
}

func (e *Engine) handleResult(result Result) {
	e.statsMu.Lock()
	e.stats.CompletedJobs++
	e.stats.LastActivity = time.Now()
	if e.stats.CompletedJobs == 1 {
		e.stats.AverageTimeMs = result.ProcessingTimeMs
	} else {
		e.stats.AverageTimeMs = (e.stats.AverageTimeMs*(e.stats.CompletedJobs-1) + result.ProcessingTimeMs) / e.stats.CompletedJobs
	}
	if result.Success {
		e.stats.SuccessfulJobs++
	} else {
		e.stats.FailedJobs++
	}
	e.statsMu.Unlock()

	e.mJobTime.Observe(float64(result.ProcessingTimeMs) / 1000)
	if result.Success {
		e.mSucceeded.Inc()
	} else {
		e.mFailed.Inc()
	}

	if e.repo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if result.Success {
		if result.Store != nil {
			if err := e.repo.SaveEnhanced(ctx, result.Store); err != nil {
				e.log.Error("persisting enhanced store failed", err,
					logging.Int64("store_id", result.StoreID))
			}
		}
		e.appendEvent(ctx, enhancedEvent(result))
		return
	}

	reason := "enhancement failed"
	if result.Error != nil {
		reason = result.Error.Error()
	}
	if err := e.repo.MarkFailed(ctx, result.StoreID, reason); err != nil {
		e.log.Error("marking store failed errored", err,
			logging.Int64("store_id", result.StoreID))
	}
	e.appendEvent(ctx, events.StoreEnhanceFailed{
		Base:    events.Base{Ts: time.Now(), SID: result.StoreID},
		Reason:  reason,
		Retries: result.Retries,
	})
}

// appendEvent records an audit event best-effort; audit failures never
// block the pipeline.
func (e *Engine) appendEvent(ctx context.Context, ev events.Event) {
	if e.events == nil {
		return
	}
	if err := e.events.Append(ctx, ev); err != nil {
		e.log.Warn("audit event append failed",
			logging.String("type", ev.Type()),
			logging.Int64("store_id", ev.StoreID()),
			logging.String("error", err.Error()))
	}
}

func enhancedEvent(result Result) events.StoreEnhanced {
	ev := events.StoreEnhanced{
		Base:   events.Base{Ts: time.Now(), SID: result.StoreID},
		TimeMs: result.ProcessingTimeMs,
	}
	if result.Store != nil {
		if result.Store.OpenHours != nil {
			ev.OpenHours = *result.Store.OpenHours
		}
		if result.Store.MinPrice != nil {
			ev.MinPrice = *result.Store.MinPrice
		}
		if result.Store.MaxPrice != nil {
			ev.MaxPrice = *result.Store.MaxPrice
		}
		ev.TagCount = len(result.Store.Tags)
	}
	if result.Enhancement != nil {
		ev.GeocodeConf = result.Enhancement.GeocodeConf
	}
	return ev
}
