package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/studyhub/packages/api"
)

type ConsoleFormatter struct {
	writer  io.Writer
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatGroups(groups []api.Group) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	if len(groups) == 0 {
		fmt.Fprintf(f.writer, "No groups found\n")
		return
	}

	for _, g := range groups {
		fmt.Fprintf(f.writer, "%s %s\n", bold(g.GroupName), cyan("("+g.Subject+")"))
		if g.Description != "" {
			fmt.Fprintf(f.writer, "  %s\n", truncate(g.Description, 100))
		}

		details := fmt.Sprintf("  level: %s", valueOr(g.SkillLevel, "-"))
		if g.MaxMembers > 0 {
			details += fmt.Sprintf("  members: %d", g.MaxMembers)
		}
		if g.MeetingFrequency != "" {
			details += "  meets: " + g.MeetingFrequency
		}
		if g.Location != "" {
			details += "  at: " + g.Location
		}
		fmt.Fprintf(f.writer, "%s\n", details)
		fmt.Fprintf(f.writer, "  %s\n", faint("id: "+g.ID))
	}
	fmt.Fprintf(f.writer, "\n%d groups\n", len(groups))
}

func (f *ConsoleFormatter) FormatUsers(users []api.User) {
	bold := color.New(color.Bold).SprintFunc()

	if len(users) == 0 {
		fmt.Fprintf(f.writer, "No users found\n")
		return
	}

	fmt.Fprintf(f.writer, "%s\n", bold(fmt.Sprintf("%-6s %-30s %s", "ID", "EMAIL", "NAME")))
	for _, u := range users {
		fmt.Fprintf(f.writer, "%-6d %-30s %s\n", u.ID, truncate(u.Email, 30), u.Name)
	}
}

func (f *ConsoleFormatter) FormatProfile(p *api.Profile) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("Name: "), p.Name)
	fmt.Fprintf(f.writer, "%s %s\n", bold("Email:"), p.Email)
}

func (f *ConsoleFormatter) FormatBackend(info BackendInfo) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold("Backend:    "), info.BaseURL)
	if info.Configured {
		fmt.Fprintf(f.writer, "%s %s\n", bold("Configured: "), green("yes"))
	} else {
		fmt.Fprintf(f.writer, "%s %s\n", bold("Configured: "), yellow("no, using the default backend URL"))
	}
	fmt.Fprintf(f.writer, "%s %s\n", bold("Token store:"), info.TokenStore)
	if info.SignedIn {
		fmt.Fprintf(f.writer, "%s %s\n", bold("Signed in:  "), green("yes"))
	} else {
		fmt.Fprintf(f.writer, "%s %s\n", bold("Signed in:  "), "no")
	}
}

func (f *ConsoleFormatter) FormatPing(report PingReport) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	s := report.Summary
	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Ping: "+report.URL))
	fmt.Fprintf(f.writer, "Requests: %d total, %s, ", s.Total, green(fmt.Sprintf("%d ok", s.Success)))
	if s.Errors > 0 {
		fmt.Fprintf(f.writer, "%s\n", red(fmt.Sprintf("%d failed", s.Errors)))
	} else {
		fmt.Fprintf(f.writer, "0 failed\n")
	}
	fmt.Fprintf(f.writer, "Latency:  min %s  mean %s  p50 %s  p95 %s  p99 %s  max %s\n",
		s.Min, s.Mean, s.P50, s.P95, s.P99, s.Max)
	fmt.Fprintf(f.writer, "Time:     %dms (%.1f req/s)\n", s.Duration.Milliseconds(), s.RPS)

	if len(report.Thresholds) > 0 {
		fmt.Fprintf(f.writer, "\nThresholds:\n")
		for _, t := range report.Thresholds {
			symbol := green("✓")
			if !t.Passed {
				symbol = red("✗")
			}
			fmt.Fprintf(f.writer, "  %s %s: %s (expected %s)\n", symbol, t.Name, t.Actual, t.Expected)
		}
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatSuccess(msg string) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", green("✓"), msg)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
