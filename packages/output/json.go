package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/studyhub/packages/api"
)

// JSONPing is the JSON shape of a ping report, durations in milliseconds
type JSONPing struct {
	URL       string  `json:"url"`
	Total     int64   `json:"total"`
	Success   int64   `json:"success"`
	Errors    int64   `json:"errors"`
	ErrorRate float64 `json:"errorRate"`
	RPS       float64 `json:"rps"`
	Duration  float64 `json:"duration"`
	Min       float64 `json:"min"`
	Mean      float64 `json:"mean"`
	P50       float64 `json:"p50"`
	P95       float64 `json:"p95"`
	P99       float64 `json:"p99"`
	Max       float64 `json:"max"`
	Passed    bool    `json:"passed"`

	Thresholds []JSONThreshold `json:"thresholds,omitempty"`
}

type JSONThreshold struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// JSONFormatter writes one JSON document per call
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *JSONFormatter) write(v any) {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}

func (f *JSONFormatter) FormatGroups(groups []api.Group) {
	if groups == nil {
		groups = []api.Group{}
	}
	f.write(map[string]any{"groups": groups})
}

func (f *JSONFormatter) FormatUsers(users []api.User) {
	if users == nil {
		users = []api.User{}
	}
	f.write(map[string]any{"users": users})
}

func (f *JSONFormatter) FormatProfile(p *api.Profile) {
	f.write(map[string]any{"user": p})
}

func (f *JSONFormatter) FormatBackend(info BackendInfo) {
	f.write(info)
}

func (f *JSONFormatter) FormatPing(report PingReport) {
	s := report.Summary
	out := JSONPing{
		URL:       report.URL,
		Total:     s.Total,
		Success:   s.Success,
		Errors:    s.Errors,
		ErrorRate: s.ErrorRate,
		RPS:       s.RPS,
		Duration:  ms(s.Duration.Nanoseconds()),
		Min:       ms(s.Min.Nanoseconds()),
		Mean:      ms(s.Mean.Nanoseconds()),
		P50:       ms(s.P50.Nanoseconds()),
		P95:       ms(s.P95.Nanoseconds()),
		P99:       ms(s.P99.Nanoseconds()),
		Max:       ms(s.Max.Nanoseconds()),
		Passed:    report.Passed(),
	}
	for _, t := range report.Thresholds {
		out.Thresholds = append(out.Thresholds, JSONThreshold(t))
	}
	f.write(out)
}

func (f *JSONFormatter) FormatSuccess(msg string) {
	f.write(map[string]string{"message": msg})
}

func (f *JSONFormatter) FormatError(err error) {
	f.write(map[string]string{"error": err.Error()})
}

func ms(ns int64) float64 {
	return float64(ns) / 1e6
}
