// Package metrics is a small dependency-free registry with Prometheus
// text exposition. The pipeline records crawl and enhancement counters
// here; the health server exposes them at /metrics.
package metrics

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a monotonically increasing number.
type Counter struct {
	name string
	help string
	val  int64
}

func (c *Counter) Inc()            { atomic.AddInt64(&c.val, 1) }
func (c *Counter) Add(delta int64) { atomic.AddInt64(&c.val, delta) }
func (c *Counter) Get() int64      { return atomic.LoadInt64(&c.val) }

// Gauge is an arbitrary number that can go up and down. The value is a
// float64 stored atomically as bits.
type Gauge struct {
	name string
	help string
	bits uint64
}

func (g *Gauge) Set(v float64) { atomic.StoreUint64(&g.bits, math.Float64bits(v)) }
func (g *Gauge) Add(delta float64) {
	for {
		old := atomic.LoadUint64(&g.bits)
		nv := math.Float64frombits(old) + delta
		if atomic.CompareAndSwapUint64(&g.bits, old, math.Float64bits(nv)) {
			return
		}
	}
}
func (g *Gauge) Get() float64 { return math.Float64frombits(atomic.LoadUint64(&g.bits)) }

// Histogram has fixed buckets plus sum and count. The last bucket is
// always +Inf.
type Histogram struct {
	name    string
	help    string
	bounds  []float64
	counts  []uint64
	sumBits uint64
	count   uint64
}

func (h *Histogram) Observe(v float64) {
	i := sort.SearchFloat64s(h.bounds, v)
	atomic.AddUint64(&h.counts[i], 1)
	atomic.AddUint64(&h.count, 1)
	for {
		old := atomic.LoadUint64(&h.sumBits)
		nv := math.Float64frombits(old) + v
		if atomic.CompareAndSwapUint64(&h.sumBits, old, math.Float64bits(nv)) {
			return
		}
	}
}

// Timer observes elapsed seconds into a histogram.
type Timer struct {
	h     *Histogram
	start time.Time
}

func (h *Histogram) Start() Timer { return Timer{h: h, start: time.Now()} }

func (t Timer) Observe() {
	if t.h != nil {
		t.h.Observe(time.Since(t.start).Seconds())
	}
}

// Registry holds named metrics. Lookups are get-or-create so callers can
// grab the same counter from multiple places.
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

// Default is the process-wide registry.
var Default = NewRegistry()

func (r *Registry) Counter(name, help string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := &Counter{name: sanitize(name), help: help}
	r.counters[name] = c
	return c
}

func (r *Registry) Gauge(name, help string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[name]; ok {
		return g
	}
	g := &Gauge{name: sanitize(name), help: help}
	r.gauges[name] = g
	return g
}

func (r *Registry) Histogram(name, help string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.histograms[name]; ok {
		return h
	}
	bounds := append([]float64{}, buckets...)
	sort.Float64s(bounds)
	if len(bounds) == 0 || !math.IsInf(bounds[len(bounds)-1], 1) {
		bounds = append(bounds, math.Inf(1))
	}
	h := &Histogram{name: sanitize(name), help: help, bounds: bounds, counts: make([]uint64, len(bounds))}
	r.histograms[name] = h
	return h
}

// Handler exposes the registry in Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")

		r.mu.RLock()
		counters := sortedValues(r.counters)
		gauges := sortedValues(r.gauges)
		histograms := sortedValues(r.histograms)
		r.mu.RUnlock()

		for _, c := range counters {
			fmt.Fprintf(w, "# HELP %s %s\n", c.name, escapeHelp(c.help))
			fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
			fmt.Fprintf(w, "%s %d\n", c.name, c.Get())
		}
		for _, g := range gauges {
			fmt.Fprintf(w, "# HELP %s %s\n", g.name, escapeHelp(g.help))
			fmt.Fprintf(w, "# TYPE %s gauge\n", g.name)
			fmt.Fprintf(w, "%s %g\n", g.name, g.Get())
		}
		for _, h := range histograms {
			fmt.Fprintf(w, "# HELP %s %s\n", h.name, escapeHelp(h.help))
			fmt.Fprintf(w, "# TYPE %s histogram\n", h.name)
			var cum uint64
			for i, ub := range h.bounds {
				cum += atomic.LoadUint64(&h.counts[i])
				label := fmt.Sprintf("%g", ub)
				if math.IsInf(ub, 1) {
					label = "+Inf"
				}
				fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", h.name, label, cum)
			}
			fmt.Fprintf(w, "%s_sum %g\n", h.name, math.Float64frombits(atomic.LoadUint64(&h.sumBits)))
			fmt.Fprintf(w, "%s_count %d\n", h.name, atomic.LoadUint64(&h.count))
		}
	})
}

// Handler exposes the Default registry.
func Handler() http.Handler { return Default.Handler() }

func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}

func escapeHelp(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func sortedValues[T any](m map[string]*T) []*T {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*T, 0, len(names))
	for _, name := range names {
		out = append(out, m[name])
	}
	return out
}
