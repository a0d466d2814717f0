// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O.
package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(fields ...logging.Field) logging.Logger {
	return l
}

// ─── WebClient ─────────────────────────────────────────────────────────

// CannedResponse describes what the DummyWebClient returns for one call.
type CannedResponse struct {
	StatusCode int
	Kind       webclient.ResponseKind
	Headers    http.Header
	Body       []byte
	Err        error
}

// DummyWebClient implements webclient.WebClient by replaying canned
// responses in order and recording every request it sees. When the canned
// list runs out the last entry repeats; an empty list yields 200/basic/"".
type DummyWebClient struct {
	mu       sync.Mutex
	Canned   []CannedResponse
	Requests []*webclient.Request
	Closed   bool
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	idx := len(d.Requests) - 1
	if idx >= len(d.Canned) {
		idx = len(d.Canned) - 1
	}
	var canned CannedResponse
	if idx >= 0 {
		canned = d.Canned[idx]
	} else {
		canned = CannedResponse{StatusCode: 200, Kind: webclient.ResponseBasic}
	}
	d.mu.Unlock()

	if canned.Err != nil {
		return nil, canned.Err
	}
	if canned.Kind == "" {
		canned.Kind = webclient.ResponseBasic
	}
	return webclient.NewBufferedResponse(req, canned.StatusCode, canned.Kind, canned.Headers, canned.Body), nil
}

func (d *DummyWebClient) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// LastRequest returns the most recently recorded request, or nil.
func (d *DummyWebClient) LastRequest() *webclient.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Requests) == 0 {
		return nil
	}
	return d.Requests[len(d.Requests)-1]
}
