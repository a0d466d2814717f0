package httpop

import (
	"net/http"
	"strings"
)

// HeaderLineError reports a raw header line that could not be parsed: either
// it has no colon or the name before the colon is empty after trimming.
type HeaderLineError struct {
	Line string
}

func (e *HeaderLineError) Error() string {
	return "Could not parse header in line: " + e.Line
}

// ParseHeaderBlock parses a free-text block of one-header-per-line text into
// a header set. Lines may end in \n or \r\n. Blank lines (after trimming) are
// skipped. Everything before the first colon, trimmed, is the name; everything
// after it, trimmed, is the value (which may be empty). Names are
// case-insensitive and a later duplicate overwrites an earlier one.
//
// On the first bad line a *HeaderLineError is returned and headers parsed so
// far are discarded.
func ParseHeaderBlock(text string) (http.Header, error) {
	headers := http.Header{}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		name, val, found := strings.Cut(line, ":")
		if !found {
			return nil, &HeaderLineError{Line: line}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &HeaderLineError{Line: line}
		}
		headers.Set(name, strings.TrimSpace(val))
	}
	return headers, nil
}
