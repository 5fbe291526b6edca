package lambda

import (
	"context"
	"encoding/json"
	"net/http"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`

	// Claims are the verified token claims forwarded by the authorizer
	Claims map[string]string `json:"claims"`

	RequestID string `json:"request_id"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// DefaultHeaders are set on every response
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// JSON builds a response with v encoded as the body
func JSON(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: status, Headers: DefaultHeaders(), Body: body}, nil
}

// NoContent builds an empty 204 response
func NoContent() *Response {
	return &Response{StatusCode: http.StatusNoContent, Headers: DefaultHeaders()}
}

// PathParam returns a path parameter or ""
func (r *Request) PathParam(name string) string {
	return r.PathParams[name]
}

// Query returns a query string parameter or ""
func (r *Request) Query(name string) string {
	return r.QueryParams[name]
}
