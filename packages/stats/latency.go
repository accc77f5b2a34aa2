// Package stats aggregates call latencies for the ping command.
package stats

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Recorder collects latencies and outcomes. Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	total   atomic.Int64
	success atomic.Int64
	errors  atomic.Int64

	// microseconds, 1us to 60s, 3 significant digits
	histogram *hdrhistogram.Histogram

	startTime time.Time
	endTime   time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Start marks the beginning of the run
func (r *Recorder) Start() {
	r.mu.Lock()
	r.startTime = time.Now()
	r.mu.Unlock()
}

// Stop marks the end of the run
func (r *Recorder) Stop() {
	r.mu.Lock()
	r.endTime = time.Now()
	r.mu.Unlock()
}

// Record adds one call. Failed calls count toward the error total but their
// latency is still recorded when it is known (d > 0).
func (r *Recorder) Record(d time.Duration, err error) {
	r.total.Add(1)
	if err != nil {
		r.errors.Add(1)
	} else {
		r.success.Add(1)
	}
	if err != nil && d <= 0 {
		return
	}

	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}

	r.mu.Lock()
	_ = r.histogram.RecordValue(us)
	r.mu.Unlock()
}

type Summary struct {
	Duration time.Duration
	Total    int64
	Success  int64
	Errors   int64

	RPS       float64
	ErrorRate float64

	Min    time.Duration
	Mean   time.Duration
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Max    time.Duration
	StdDev time.Duration
}

func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	duration := r.endTime.Sub(r.startTime)
	if r.endTime.IsZero() {
		duration = time.Since(r.startTime)
	}
	if r.startTime.IsZero() {
		duration = 0
	}

	total := r.total.Load()
	errs := r.errors.Load()

	s := Summary{
		Duration: duration,
		Total:    total,
		Success:  r.success.Load(),
		Errors:   errs,
	}
	if duration.Seconds() > 0 {
		s.RPS = float64(total) / duration.Seconds()
	}
	if total > 0 {
		s.ErrorRate = float64(errs) / float64(total)
	}
	if r.histogram.TotalCount() > 0 {
		s.Min = us(r.histogram.Min())
		s.Max = us(r.histogram.Max())
		s.Mean = us(int64(r.histogram.Mean()))
		s.StdDev = us(int64(r.histogram.StdDev()))
		s.P50 = us(r.histogram.ValueAtQuantile(50))
		s.P95 = us(r.histogram.ValueAtQuantile(95))
		s.P99 = us(r.histogram.ValueAtQuantile(99))
	}
	return s
}

func us(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// Thresholds are upper bounds a run must stay within. Zero disables a check.
type Thresholds struct {
	P95       time.Duration
	ErrorRate float64
}

type ThresholdResult struct {
	Name     string
	Passed   bool
	Expected string
	Actual   string
}

// Evaluate checks s against t.
func (t Thresholds) Evaluate(s Summary) []ThresholdResult {
	var results []ThresholdResult

	if t.P95 > 0 {
		results = append(results, ThresholdResult{
			Name:     "p95",
			Passed:   s.P95 <= t.P95,
			Expected: "<= " + t.P95.String(),
			Actual:   s.P95.String(),
		})
	}

	if t.ErrorRate > 0 {
		results = append(results, ThresholdResult{
			Name:     "error rate",
			Passed:   s.ErrorRate <= t.ErrorRate,
			Expected: "<= " + FormatPercent(t.ErrorRate),
			Actual:   FormatPercent(s.ErrorRate),
		})
	}

	return results
}

// FormatPercent renders a 0..1 ratio as a percentage
func FormatPercent(f float64) string {
	return formatFloat(f*100) + "%"
}

func formatFloat(f float64) string {
	if f == float64(int(f)) {
		return strconv.Itoa(int(f))
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
