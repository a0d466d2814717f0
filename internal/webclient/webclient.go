// Package webclient is the outbound HTTP transport capability for ladle.
// Backends register themselves by name; operations receive a WebClient and
// never construct one directly.
package webclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}

// ResponseKind classifies what the transport was allowed to see. A normal
// response is "basic". Proxying backends may report "opaque" when the remote
// side yields no inspectable status or body.
type ResponseKind string

const (
	ResponseBasic  ResponseKind = "basic"
	ResponseOpaque ResponseKind = "opaque"
)

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte

	// NoCache asks the backend to bypass intermediate caches.
	NoCache bool
}

// ErrBodyConsumed is returned when a response body is read a second time.
var ErrBodyConsumed = errors.New("webclient: response body already consumed")

// Response carries the transport result. The body is readable exactly once,
// as text or as bytes.
type Response struct {
	Request    *Request
	StatusCode int
	Kind       ResponseKind
	Headers    http.Header
	FetchedAt  time.Time

	body     io.ReadCloser
	consumed bool
}

// NewResponse wraps a streaming body. The reader is closed by the first read.
func NewResponse(req *Request, status int, kind ResponseKind, headers http.Header, body io.ReadCloser) *Response {
	if headers == nil {
		headers = http.Header{}
	}
	return &Response{
		Request:    req,
		StatusCode: status,
		Kind:       kind,
		Headers:    headers,
		FetchedAt:  time.Now(),
		body:       body,
	}
}

// NewBufferedResponse wraps an in-memory body. Used by backends that already
// hold the full payload, and by test doubles.
func NewBufferedResponse(req *Request, status int, kind ResponseKind, headers http.Header, body []byte) *Response {
	return NewResponse(req, status, kind, headers, io.NopCloser(bytes.NewReader(body)))
}

// Bytes reads and returns the full body. A second read of any form fails
// with ErrBodyConsumed.
func (r *Response) Bytes() ([]byte, error) {
	if r.consumed {
		return nil, ErrBodyConsumed
	}
	r.consumed = true
	if r.body == nil {
		return nil, nil
	}
	defer r.body.Close()
	return io.ReadAll(r.body)
}

// Text reads the full body and decodes it as text. Same single-read rule as
// Bytes.
func (r *Response) Text() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Close releases the body if it was never read.
func (r *Response) Close() error {
	if r.consumed || r.body == nil {
		return nil
	}
	r.consumed = true
	return r.body.Close()
}
