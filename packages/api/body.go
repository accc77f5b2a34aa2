package api

import (
	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/studyhub/packages/http"
)

// body probes loosely shaped JSON responses.
type body struct {
	response *http.Response
	json     gjson.Result
}

func newBody(resp *http.Response) *body {
	b := &body{response: resp}
	if resp != nil && gjson.ValidBytes(resp.Body) {
		b.json = gjson.ParseBytes(resp.Body)
	}
	return b
}

// String returns the string at path, or "" when absent.
func (b *body) String(path string) string {
	if !b.json.Exists() {
		return ""
	}
	return b.json.Get(path).String()
}

// Has reports whether path exists in the body.
func (b *body) Has(path string) bool {
	return b.json.Exists() && b.json.Get(path).Exists()
}

// Message returns the first human-readable message field the backend set.
// The backend is inconsistent about the casing.
func (b *body) Message() string {
	for _, path := range []string{"error", "detail", "message", "Message"} {
		if v := b.String(path); v != "" {
			return v
		}
	}
	return ""
}
