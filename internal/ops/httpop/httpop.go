// Package httpop implements the "HTTP request" recipe operation: one outbound
// request per invocation, returning the response body as text or as bytes.
package httpop

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/value"
	"github.com/avelline/ladle/internal/webclient"
)

// OpName is the registry name of this operation.
const OpName = "HTTP request"

const description = "Makes an HTTP request to the URL given as input and " +
	"returns the response body as a string or as raw bytes."

// Argument names, as exposed to configuration UIs.
const (
	ArgMethod     = "Method"
	ArgPayload    = "Payload"
	ArgHeaders    = "Headers"
	ArgReturnType = "Return type"
)

// Return type choices.
const (
	ReturnString = "String"
	ReturnBytes  = "Bytes"
)

var methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
}

// transportHints is appended to every wrapped transport failure.
const transportHints = "\n\nThis error could be caused by one of the following:\n" +
	" - An invalid URL\n" +
	" - Requesting an insecure resource (HTTP) from a secure origin (HTTPS)\n" +
	" - A cross-origin request blocked by the remote server's policy"

func init() {
	ops.Register(OpName, func(deps ops.Deps) (ops.Operation, error) {
		return New(deps.WebClient, deps.Logger), nil
	})
}

// Op executes one HTTP request per Run. The declared output type follows the
// "Return type" argument of the most recent Run; instances are therefore not
// safe for concurrent Run calls and the engine builds one per recipe run.
type Op struct {
	wc         webclient.WebClient
	logger     logging.Logger
	outputType string
}

// New creates the operation with an injected transport. A nil logger falls
// back to a stdout logger; a nil transport is reported at Run time as a
// configuration failure, not here, so metadata stays inspectable.
func New(wc webclient.WebClient, logger logging.Logger) *Op {
	if logger == nil {
		logger = logging.NewStdoutLogger("httpop")
	}
	return &Op{
		wc:         wc,
		logger:     logger,
		outputType: value.TypeString,
	}
}

func (o *Op) Name() string        { return OpName }
func (o *Op) Description() string { return description }
func (o *Op) InputType() string   { return value.TypeString }

// OutputType reflects the Return type argument of the most recent Run.
func (o *Op) OutputType() string { return o.outputType }

func (o *Op) Args() []ops.ArgSpec {
	return []ops.ArgSpec{
		{Name: ArgMethod, Type: ops.ArgChoice, Options: methods, Default: http.MethodGet},
		{Name: ArgPayload, Type: ops.ArgText, Multiline: true},
		{Name: ArgHeaders, Type: ops.ArgText, Multiline: true, Default: ""},
		{Name: ArgReturnType, Type: ops.ArgChoice, Options: []string{ReturnString, ReturnBytes}, Default: ReturnString},
	}
}

// Run performs the request described by args against the URL carried in the
// input value.
//
// An input whose trimmed form is empty is a no-op: the result is empty text,
// no request is made and the declared output type is left untouched. All other
// failures surface as *ops.OpError with a specific kind.
func (o *Op) Run(ctx context.Context, in value.Value, args ops.Args) (value.Value, error) {
	rawURL := strings.TrimSpace(in.AsText())
	if rawURL == "" {
		return value.NewText(""), nil
	}

	if o.wc == nil {
		return value.Value{}, &ops.OpError{
			Op:   OpName,
			Kind: ops.KindConfig,
			Err:  errors.New("no HTTP transport is available in this environment"),
		}
	}

	spec := o.Args()
	headers, err := ParseHeaderBlock(args.Get(spec, ArgHeaders))
	if err != nil {
		var lineErr *HeaderLineError
		oe := &ops.OpError{Op: OpName, Kind: ops.KindHeaderParse, Err: err}
		if errors.As(err, &lineErr) {
			oe.Line = lineErr.Line
		}
		return value.Value{}, oe
	}

	method := strings.ToUpper(args.Get(spec, ArgMethod))
	req := &webclient.Request{
		Method:  method,
		URL:     rawURL,
		Headers: headers,
		NoCache: true,
	}

	// GET and HEAD are not expected to carry a body; a payload supplied with
	// them is dropped rather than rejected.
	payload := args.Get(spec, ArgPayload)
	if payload != "" && method != http.MethodGet && method != http.MethodHead {
		req.Body = []byte(payload)
	}

	o.logger.Debug("issuing request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: rawURL},
		logging.Field{Key: "header_count", Value: len(headers)})

	resp, err := o.wc.Do(ctx, req)
	if err != nil {
		return value.Value{}, o.transportError(err)
	}

	if resp.StatusCode == 0 && resp.Kind == webclient.ResponseOpaque {
		_ = resp.Close()
		return value.Value{}, &ops.OpError{
			Op:   OpName,
			Kind: ops.KindBlocked,
			Err:  errors.New("Error: Null response. Try setting the connection mode to CORS."),
		}
	}

	// The declared output type switches before the body read so that a failed
	// read still leaves the caller's intent recorded.
	wantBytes := args.Get(spec, ArgReturnType) == ReturnBytes
	if wantBytes {
		o.outputType = value.TypeByteArray
	} else {
		o.outputType = value.TypeString
	}

	if wantBytes {
		body, err := resp.Bytes()
		if err != nil {
			return value.Value{}, o.transportError(err)
		}
		return value.NewBytes(body), nil
	}

	body, err := resp.Text()
	if err != nil {
		return value.Value{}, o.transportError(err)
	}
	return value.NewText(body), nil
}

// transportError wraps any failure from issuing the request or reading the
// body, appending the fixed hint block to the underlying message.
func (o *Op) transportError(err error) error {
	return &ops.OpError{
		Op:   OpName,
		Kind: ops.KindTransport,
		Err:  fmt.Errorf("%s%s", err.Error(), transportHints),
	}
}
