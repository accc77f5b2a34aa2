package output

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/studyhub/packages/api"
	"github.com/abdul-hamid-achik/studyhub/packages/stats"
)

// Formatter renders command results
type Formatter interface {
	FormatGroups(groups []api.Group)
	FormatUsers(users []api.User)
	FormatProfile(p *api.Profile)
	FormatBackend(info BackendInfo)
	FormatPing(report PingReport)
	FormatSuccess(msg string)
	FormatError(err error)
}

// BackendInfo describes the resolved backend configuration
type BackendInfo struct {
	BaseURL    string `json:"baseURL"`
	Configured bool   `json:"configured"`
	TokenStore string `json:"tokenStore"`
	SignedIn   bool   `json:"signedIn"`
}

// PingReport is the outcome of a ping run
type PingReport struct {
	URL        string                  `json:"url"`
	Summary    stats.Summary           `json:"summary"`
	Thresholds []stats.ThresholdResult `json:"thresholds,omitempty"`
}

// Passed reports whether every threshold held
func (r PingReport) Passed() bool {
	for _, t := range r.Thresholds {
		if !t.Passed {
			return false
		}
	}
	return true
}

// New returns the formatter for format ("console" or "json").
func New(format string, w io.Writer, noColor bool) (Formatter, error) {
	switch format {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(WithJSONWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use console or json)", format)
	}
}

// truncate shortens s for table cells
func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
