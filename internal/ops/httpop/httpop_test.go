package httpop_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/ops/httpop"
	"github.com/avelline/ladle/internal/testutil"
	"github.com/avelline/ladle/internal/value"
	"github.com/avelline/ladle/internal/webclient"
)

func newOp(canned ...testutil.CannedResponse) (*httpop.Op, *testutil.DummyWebClient) {
	wc := &testutil.DummyWebClient{Canned: canned}
	return httpop.New(wc, &testutil.DummyLogger{}), wc
}

// ─── URL short-circuit ─────────────────────────────────────────────────

func TestRun_EmptyURLIsNoOp(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\t\n  "} {
		op, wc := newOp()
		out, err := op.Run(context.Background(), value.NewText(input), ops.Args{})
		if err != nil {
			t.Fatalf("Run(%q): %v", input, err)
		}
		if out.Kind() != value.Text || out.AsText() != "" {
			t.Errorf("Run(%q) = %q, want empty text", input, out.AsText())
		}
		if len(wc.Requests) != 0 {
			t.Errorf("Run(%q) issued %d requests, want none", input, len(wc.Requests))
		}
		if op.OutputType() != value.TypeString {
			t.Errorf("output type changed to %q on no-op", op.OutputType())
		}
	}
}

func TestRun_TrimsURLBeforeRequest(t *testing.T) {
	t.Parallel()

	op, wc := newOp(testutil.CannedResponse{StatusCode: 200, Body: []byte("ok")})
	if _, err := op.Run(context.Background(), value.NewText("  http://example.test/x  "), ops.Args{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := wc.LastRequest().URL; got != "http://example.test/x" {
		t.Errorf("request URL = %q, want trimmed", got)
	}
}

// ─── Missing transport ─────────────────────────────────────────────────

func TestRun_NilTransportIsConfigError(t *testing.T) {
	t.Parallel()

	op := httpop.New(nil, &testutil.DummyLogger{})
	_, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{})
	if !ops.IsKind(err, ops.KindConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no HTTP transport is available") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

// ─── Header parsing integration ────────────────────────────────────────

func TestRun_BadHeaderLineFailsBeforeRequest(t *testing.T) {
	t.Parallel()

	op, wc := newOp(testutil.CannedResponse{StatusCode: 200})
	_, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{
		httpop.ArgHeaders: "Good: yes\nX-Broken",
	})
	if !ops.IsKind(err, ops.KindHeaderParse) {
		t.Fatalf("expected header parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Could not parse header in line: X-Broken") {
		t.Errorf("message does not reference the bad line: %q", err.Error())
	}
	var oe *ops.OpError
	if errors.As(err, &oe) && oe.Line != "X-Broken" {
		t.Errorf("OpError.Line = %q, want %q", oe.Line, "X-Broken")
	}
	if len(wc.Requests) != 0 {
		t.Errorf("request was issued despite bad headers")
	}
}

func TestRun_HeadersReachTransport(t *testing.T) {
	t.Parallel()

	op, wc := newOp(testutil.CannedResponse{StatusCode: 200})
	_, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{
		httpop.ArgHeaders: "X-One: 1\nx-one: 2\nX-Two: b",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	req := wc.LastRequest()
	if got := req.Headers.Get("X-One"); got != "2" {
		t.Errorf("X-One = %q, want last duplicate to win", got)
	}
	if got := req.Headers.Get("X-Two"); got != "b" {
		t.Errorf("X-Two = %q, want %q", got, "b")
	}
	if !req.NoCache {
		t.Errorf("expected NoCache to be set on every request")
	}
}

// ─── Body attachment rules ─────────────────────────────────────────────

func TestRun_BodyAttachment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method   string
		payload  string
		wantBody string
	}{
		{method: http.MethodGet, payload: "ignored", wantBody: ""},
		{method: http.MethodHead, payload: "ignored", wantBody: ""},
		{method: http.MethodPost, payload: "data", wantBody: "data"},
		{method: http.MethodPut, payload: "data", wantBody: "data"},
		{method: http.MethodPatch, payload: "data", wantBody: "data"},
		{method: http.MethodDelete, payload: "data", wantBody: "data"},
		{method: http.MethodOptions, payload: "data", wantBody: "data"},
		{method: http.MethodPost, payload: "", wantBody: ""},
	}

	for _, tc := range tests {
		t.Run(tc.method+"_"+tc.payload, func(t *testing.T) {
			t.Parallel()

			op, wc := newOp(testutil.CannedResponse{StatusCode: 200})
			_, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{
				httpop.ArgMethod:  tc.method,
				httpop.ArgPayload: tc.payload,
			})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			req := wc.LastRequest()
			if req.Method != tc.method {
				t.Errorf("method = %q, want %q", req.Method, tc.method)
			}
			if string(req.Body) != tc.wantBody {
				t.Errorf("body = %q, want %q", req.Body, tc.wantBody)
			}
		})
	}
}

// ─── Output modes ──────────────────────────────────────────────────────

func TestRun_StringMode(t *testing.T) {
	t.Parallel()

	op, _ := newOp(testutil.CannedResponse{StatusCode: 200, Body: []byte("hello")})
	out, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{
		httpop.ArgReturnType: httpop.ReturnString,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind() != value.Text || out.AsText() != "hello" {
		t.Errorf("output = %q (kind %v), want text %q", out.AsText(), out.Kind(), "hello")
	}
	if op.OutputType() != value.TypeString {
		t.Errorf("declared output type = %q, want %q", op.OutputType(), value.TypeString)
	}
}

func TestRun_BytesMode(t *testing.T) {
	t.Parallel()

	body := []byte{0x00, 0x7f, 0xff, 0x10}
	op, _ := newOp(testutil.CannedResponse{StatusCode: 200, Body: body})
	out, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{
		httpop.ArgReturnType: httpop.ReturnBytes,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Kind() != value.Bytes {
		t.Fatalf("output kind = %v, want Bytes", out.Kind())
	}
	got := out.AsBytes()
	if len(got) != len(body) {
		t.Fatalf("output length = %d, want %d", len(got), len(body))
	}
	for i := range body {
		if got[i] != body[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], body[i])
		}
	}
	if op.OutputType() != value.TypeByteArray {
		t.Errorf("declared output type = %q, want %q", op.OutputType(), value.TypeByteArray)
	}
}

func TestRun_OutputTypeFollowsLatestRun(t *testing.T) {
	t.Parallel()

	op, _ := newOp(
		testutil.CannedResponse{StatusCode: 200, Body: []byte("a")},
		testutil.CannedResponse{StatusCode: 200, Body: []byte("b")},
	)

	if _, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{
		httpop.ArgReturnType: httpop.ReturnBytes,
	}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if op.OutputType() != value.TypeByteArray {
		t.Fatalf("after bytes run: output type = %q", op.OutputType())
	}

	if _, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{
		httpop.ArgReturnType: httpop.ReturnString,
	}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if op.OutputType() != value.TypeString {
		t.Errorf("after string run: output type = %q", op.OutputType())
	}
}

// failingBody always errors mid-read.
type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("read exploded") }
func (failingBody) Close() error             { return nil }

// failingReadClient returns a response whose body cannot be read.
type failingReadClient struct{}

func (failingReadClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	return webclient.NewResponse(req, 200, webclient.ResponseBasic, nil, io.NopCloser(failingBody{})), nil
}

func (failingReadClient) Close() error { return nil }

func TestRun_OutputTypeSetBeforeFailingRead(t *testing.T) {
	t.Parallel()

	op := httpop.New(failingReadClient{}, &testutil.DummyLogger{})
	_, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{
		httpop.ArgReturnType: httpop.ReturnBytes,
	})
	if !ops.IsKind(err, ops.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	// The declared type reflects the caller's intent even though the read failed.
	if op.OutputType() != value.TypeByteArray {
		t.Errorf("output type = %q, want %q", op.OutputType(), value.TypeByteArray)
	}
}

// ─── Failure classification ────────────────────────────────────────────

func TestRun_OpaqueZeroStatusIsBlocked(t *testing.T) {
	t.Parallel()

	op, _ := newOp(testutil.CannedResponse{StatusCode: 0, Kind: webclient.ResponseOpaque})
	_, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{})
	if !ops.IsKind(err, ops.KindBlocked) {
		t.Fatalf("expected blocked error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Null response. Try setting the connection mode to CORS.") {
		t.Errorf("missing remediation text: %q", err.Error())
	}
	if ops.IsKind(err, ops.KindTransport) {
		t.Errorf("blocked error must not be classified as transport")
	}
}

func TestRun_ZeroStatusBasicIsNotBlocked(t *testing.T) {
	t.Parallel()

	// Status 0 alone is not the blocked signature; the opaque flag must be set.
	op, _ := newOp(testutil.CannedResponse{StatusCode: 0, Kind: webclient.ResponseBasic, Body: []byte("x")})
	out, err := op.Run(context.Background(), value.NewText("http://example.test"), ops.Args{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.AsText() != "x" {
		t.Errorf("output = %q, want %q", out.AsText(), "x")
	}
}

func TestRun_TransportFailureWrappedWithHints(t *testing.T) {
	t.Parallel()

	op, _ := newOp(testutil.CannedResponse{Err: errors.New("dial tcp: lookup nosuch.example: no such host")})
	_, err := op.Run(context.Background(), value.NewText("http://nosuch.example"), ops.Args{})
	if !ops.IsKind(err, ops.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	msg := err.Error()
	if !strings.Contains(msg, "no such host") {
		t.Errorf("missing original failure text: %q", msg)
	}

	hints := []string{
		"An invalid URL",
		"Requesting an insecure resource (HTTP) from a secure origin (HTTPS)",
		"A cross-origin request blocked by the remote server's policy",
	}
	last := -1
	for _, hint := range hints {
		idx := strings.Index(msg, hint)
		if idx < 0 {
			t.Fatalf("missing hint %q in %q", hint, msg)
		}
		if idx < last {
			t.Errorf("hint %q out of order", hint)
		}
		last = idx
	}
}

// ─── Metadata ──────────────────────────────────────────────────────────

func TestMetadata(t *testing.T) {
	t.Parallel()

	op, _ := newOp()
	if op.Name() != httpop.OpName {
		t.Errorf("Name() = %q", op.Name())
	}
	if op.InputType() != value.TypeString {
		t.Errorf("InputType() = %q", op.InputType())
	}
	if op.OutputType() != value.TypeString {
		t.Errorf("initial OutputType() = %q, want %q", op.OutputType(), value.TypeString)
	}

	var methodSpec, returnSpec *ops.ArgSpec
	specs := op.Args()
	for i := range specs {
		switch specs[i].Name {
		case httpop.ArgMethod:
			methodSpec = &specs[i]
		case httpop.ArgReturnType:
			returnSpec = &specs[i]
		}
	}
	if methodSpec == nil || len(methodSpec.Options) != 7 {
		t.Errorf("Method arg should offer the 7 verbs, got %+v", methodSpec)
	}
	if returnSpec == nil || len(returnSpec.Options) != 2 || returnSpec.Default != httpop.ReturnString {
		t.Errorf("Return type arg misdeclared: %+v", returnSpec)
	}
}
