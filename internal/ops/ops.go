// Package ops defines the pluggable recipe operation contract and the
// registry operations register themselves in.
package ops

import (
	"context"

	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/value"
	"github.com/avelline/ladle/internal/webclient"
)

// ArgType describes how a configuration UI should render an argument.
type ArgType string

const (
	// ArgChoice is a closed choice rendered as a dropdown.
	ArgChoice ArgType = "choice"
	// ArgText is a free-text field.
	ArgText ArgType = "text"
)

// ArgSpec declares one operation argument.
type ArgSpec struct {
	Name      string   `json:"name"`
	Type      ArgType  `json:"type"`
	Options   []string `json:"options,omitempty"`
	Default   string   `json:"default,omitempty"`
	Multiline bool     `json:"multiline,omitempty"`
}

// Args holds the argument values for one invocation, keyed by ArgSpec.Name.
// Missing keys mean "use the default".
type Args map[string]string

// Get returns the value for name, or the declared default when absent.
func (a Args) Get(spec []ArgSpec, name string) string {
	if v, ok := a[name]; ok {
		return v
	}
	for _, s := range spec {
		if s.Name == name {
			return s.Default
		}
	}
	return ""
}

// Operation is a single pluggable recipe step.
//
// OutputType is re-read by the engine after every Run: operations whose output
// shape depends on an argument update it at run time, so the declared type
// always reflects the most recent invocation. An Operation instance is not
// safe for concurrent Run calls for that reason.
type Operation interface {
	Name() string
	Description() string
	Args() []ArgSpec
	InputType() string
	OutputType() string

	Run(ctx context.Context, in value.Value, args Args) (value.Value, error)
}

// Deps carries the shared collaborators handed to operation constructors.
type Deps struct {
	WebClient webclient.WebClient
	Logger    logging.Logger
}
