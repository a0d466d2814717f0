package webclient_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/avelline/ladle/internal/webclient"
)

// ─── Response: single-read body ─────────────────────────────────────────

func TestResponse_Bytes_ReadsOnce(t *testing.T) {
	t.Parallel()
	resp := webclient.NewBufferedResponse(nil, 200, webclient.ResponseBasic, nil, []byte("hello"))

	b, err := resp.Bytes()
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if string(b) != "hello" {
		t.Errorf("body = %q, want hello", b)
	}

	if _, err := resp.Bytes(); !errors.Is(err, webclient.ErrBodyConsumed) {
		t.Errorf("second read error = %v, want ErrBodyConsumed", err)
	}
	if _, err := resp.Text(); !errors.Is(err, webclient.ErrBodyConsumed) {
		t.Errorf("Text after Bytes error = %v, want ErrBodyConsumed", err)
	}
}

func TestResponse_Text_ConsumesBody(t *testing.T) {
	t.Parallel()
	resp := webclient.NewBufferedResponse(nil, 200, webclient.ResponseBasic, nil, []byte("text body"))

	s, err := resp.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if s != "text body" {
		t.Errorf("text = %q", s)
	}
	if _, err := resp.Bytes(); !errors.Is(err, webclient.ErrBodyConsumed) {
		t.Errorf("Bytes after Text error = %v, want ErrBodyConsumed", err)
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestResponse_Close_ReleasesUnreadBody(t *testing.T) {
	t.Parallel()
	tracker := &closeTracker{Reader: strings.NewReader("never read")}
	resp := webclient.NewResponse(nil, 200, webclient.ResponseBasic, nil, tracker)

	if err := resp.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !tracker.closed {
		t.Error("underlying body not closed")
	}
	if _, err := resp.Bytes(); !errors.Is(err, webclient.ErrBodyConsumed) {
		t.Errorf("read after Close error = %v, want ErrBodyConsumed", err)
	}
}

func TestResponse_Close_AfterReadIsNoop(t *testing.T) {
	t.Parallel()
	tracker := &closeTracker{Reader: strings.NewReader("data")}
	resp := webclient.NewResponse(nil, 200, webclient.ResponseBasic, nil, tracker)

	if _, err := resp.Bytes(); err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !tracker.closed {
		t.Error("read should close the body")
	}
	if err := resp.Close(); err != nil {
		t.Errorf("Close after read: %v", err)
	}
}

func TestResponse_NilHeadersDefaulted(t *testing.T) {
	t.Parallel()
	resp := webclient.NewBufferedResponse(nil, 204, webclient.ResponseBasic, nil, nil)
	if resp.Headers == nil {
		t.Fatal("Headers should never be nil")
	}
	resp.Headers.Set("X-Later", "ok")
	if resp.Headers.Get("X-Later") != "ok" {
		t.Error("defaulted headers should be usable")
	}
}

func TestResponse_PreservesMetadata(t *testing.T) {
	t.Parallel()
	h := http.Header{}
	h.Set("Content-Type", "text/plain")
	req := &webclient.Request{Method: "GET", URL: "http://example.com"}
	resp := webclient.NewBufferedResponse(req, 418, webclient.ResponseOpaque, h, nil)

	if resp.Request != req {
		t.Error("request not carried through")
	}
	if resp.StatusCode != 418 {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Kind != webclient.ResponseOpaque {
		t.Errorf("kind = %q", resp.Kind)
	}
	if resp.Headers.Get("Content-Type") != "text/plain" {
		t.Errorf("Content-Type = %q", resp.Headers.Get("Content-Type"))
	}
	if resp.FetchedAt.IsZero() {
		t.Error("FetchedAt not stamped")
	}
}
