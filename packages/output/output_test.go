package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/studyhub/packages/api"
	"github.com/abdul-hamid-achik/studyhub/packages/stats"
)

func sampleGroups() []api.Group {
	return []api.Group{
		{ID: "g1", GroupName: "Calculus", Subject: "Math", MaxMembers: 5, SkillLevel: "beginner", Location: "Library"},
		{ID: "g2", GroupName: "Physics", Subject: "Science", Description: strings.Repeat("x", 150)},
	}
}

func TestConsoleFormatter_Groups(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatGroups(sampleGroups())

	out := buf.String()
	assert.Contains(t, out, "Calculus (Math)")
	assert.Contains(t, out, "members: 5")
	assert.Contains(t, out, "at: Library")
	assert.Contains(t, out, "id: g2")
	assert.Contains(t, out, strings.Repeat("x", 100)+"...")
	assert.Contains(t, out, "2 groups")
}

func TestConsoleFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatGroups(nil)
	f.FormatUsers(nil)

	assert.Equal(t, "No groups found\nNo users found\n", buf.String())
}

func TestConsoleFormatter_Users(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatUsers([]api.User{{ID: 7, Email: "ada@example.com", Name: "Ada"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "EMAIL")
	assert.Contains(t, lines[1], "ada@example.com")
	assert.True(t, strings.HasPrefix(lines[1], "7 "))
}

func TestConsoleFormatter_Backend(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatBackend(BackendInfo{BaseURL: "http://127.0.0.1:8000", TokenStore: "memory:"})

	out := buf.String()
	assert.Contains(t, out, "http://127.0.0.1:8000")
	assert.Contains(t, out, "no, using the default backend URL")
}

func TestConsoleFormatter_Ping(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatPing(PingReport{
		URL:     "http://localhost:8000/",
		Summary: stats.Summary{Total: 10, Success: 9, Errors: 1, P95: 20 * time.Millisecond},
		Thresholds: []stats.ThresholdResult{
			{Name: "p95", Passed: true, Expected: "<= 50ms", Actual: "20ms"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "10 total")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "p95 20ms")
	assert.Contains(t, out, "✓ p95: 20ms (expected <= 50ms)")
}

func TestConsoleFormatter_Messages(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatSuccess("Signed in")
	f.FormatError(errors.New("boom"))

	assert.Equal(t, "✓ Signed in\nError: boom\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(WithJSONWriter(&buf))

	f.FormatGroups(sampleGroups()[:1])

	var out struct {
		Groups []api.Group `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Groups, 1)
	assert.Equal(t, "Calculus", out.Groups[0].GroupName)

	buf.Reset()
	f.FormatUsers(nil)
	assert.JSONEq(t, `{"users": []}`, buf.String())

	buf.Reset()
	f.FormatError(errors.New("boom"))
	assert.JSONEq(t, `{"error": "boom"}`, buf.String())
}

func TestJSONFormatter_Ping(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(WithJSONWriter(&buf))

	f.FormatPing(PingReport{
		URL:     "http://localhost:8000/",
		Summary: stats.Summary{Total: 2, Success: 2, P95: 1500 * time.Microsecond},
		Thresholds: []stats.ThresholdResult{
			{Name: "p95", Passed: false, Expected: "<= 1ms", Actual: "1.5ms"},
		},
	})

	var out JSONPing
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, int64(2), out.Total)
	assert.InDelta(t, 1.5, out.P95, 0.0001)
	assert.False(t, out.Passed)
	require.Len(t, out.Thresholds, 1)
	assert.Equal(t, "p95", out.Thresholds[0].Name)
}

func TestNew(t *testing.T) {
	f, err := New("json", &bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = New("", &bytes.Buffer{}, true)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleFormatter{}, f)

	_, err = New("xml", &bytes.Buffer{}, false)
	assert.Error(t, err)
}

func TestSessionNavigator(t *testing.T) {
	var buf bytes.Buffer
	nav := NewSessionNavigator(&buf)

	nav.Navigate("/login")
	nav.Navigate("/login")

	assert.Equal(t, []string{"/login", "/login"}, nav.Visited())
	assert.Equal(t, 1, strings.Count(buf.String(), "studyhub login"))
}
