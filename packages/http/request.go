package http

import "time"

// Request describes one call relative to the client's base URL.
type Request struct {
	Method      string
	Path        string
	Headers     map[string]string
	QueryParams map[string]string
	Body        any // []byte and string are sent as-is, anything else as JSON
	Result      any // when set, a successful JSON body is decoded into it
	Timeout     time.Duration
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method:      method,
		Path:        path,
		Headers:     make(map[string]string),
		QueryParams: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

func (r *Request) SetResult(result any) *Request {
	r.Result = result
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

func (r *Request) SetQueryParam(key, value string) *Request {
	if r.QueryParams == nil {
		r.QueryParams = make(map[string]string)
	}
	r.QueryParams[key] = value
	return r
}
