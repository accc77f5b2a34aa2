package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

// toResponse copies what the server sent. It returns nil when there was no
// server response at all.
func toResponse(resp *resty.Response) *Response {
	if resp == nil || resp.RawResponse == nil {
		return nil
	}

	headers := make(map[string]string)
	for k := range resp.Header() {
		headers[k] = resp.Header().Get(k)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Headers:    headers,
		Body:       resp.Body(),
		Duration:   resp.Time(),
	}
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Decode unmarshals the JSON body into v
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
