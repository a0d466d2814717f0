package ops

import (
	"errors"
	"fmt"
)

// ErrorKind is a coarse-grained categorization for operation failures.
type ErrorKind string

const (
	// KindConfig means the operation cannot run in this environment at all,
	// e.g. a required capability was not injected.
	KindConfig ErrorKind = "config"
	// KindHeaderParse means a raw header line could not be parsed.
	KindHeaderParse ErrorKind = "header_parse"
	// KindBlocked means the transport returned the zero-status/opaque
	// signature of a blind cross-origin block.
	KindBlocked ErrorKind = "blocked"
	// KindTransport is the catch-all for failures while issuing the request
	// or reading the body.
	KindTransport ErrorKind = "transport"
	// KindBadInput means the operation's input or arguments were unusable.
	KindBadInput ErrorKind = "bad_input"
)

// OpError wraps an underlying error with the operation name and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Line string // offending raw line, for header parse failures
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
