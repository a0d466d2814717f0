// Package diffop implements the "Diff" recipe operation.
package diffop

import (
	"context"
	"errors"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/value"
)

// OpName is the registry name of this operation.
const OpName = "Diff"

const description = "Splits the input into two samples on the sample " +
	"delimiter and renders the differences between them."

const (
	ArgDelimiter = "Sample delimiter"
	ArgShow      = "Show"
)

// Show choices.
const (
	ShowBoth    = "Both"
	ShowAdded   = "Added only"
	ShowRemoved = "Removed only"
)

var errMissingDelimiter = errors.New("input must contain the sample delimiter exactly once between the two samples")

func init() {
	ops.Register(OpName, func(deps ops.Deps) (ops.Operation, error) {
		return &Op{}, nil
	})
}

// Op diffs the two delimited samples carried in a single input value.
type Op struct{}

func (o *Op) Name() string        { return OpName }
func (o *Op) Description() string { return description }
func (o *Op) InputType() string   { return value.TypeString }
func (o *Op) OutputType() string  { return value.TypeString }

func (o *Op) Args() []ops.ArgSpec {
	return []ops.ArgSpec{
		{Name: ArgDelimiter, Type: ops.ArgText, Default: "\n\n"},
		{Name: ArgShow, Type: ops.ArgChoice, Options: []string{ShowBoth, ShowAdded, ShowRemoved}, Default: ShowBoth},
	}
}

func (o *Op) Run(ctx context.Context, in value.Value, args ops.Args) (value.Value, error) {
	spec := o.Args()
	delimiter := args.Get(spec, ArgDelimiter)
	if delimiter == "" {
		delimiter = "\n\n"
	}

	before, after, found := strings.Cut(in.AsText(), delimiter)
	if !found {
		return value.Value{}, &ops.OpError{Op: OpName, Kind: ops.KindBadInput, Err: errMissingDelimiter}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	show := args.Get(spec, ArgShow)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if show == ShowBoth {
				b.WriteString(d.Text)
			}
		case diffmatchpatch.DiffInsert:
			if show == ShowBoth {
				b.WriteString("[+" + d.Text + "]")
			} else if show == ShowAdded {
				b.WriteString(d.Text)
			}
		case diffmatchpatch.DiffDelete:
			if show == ShowBoth {
				b.WriteString("[-" + d.Text + "]")
			} else if show == ShowRemoved {
				b.WriteString(d.Text)
			}
		}
	}

	return value.NewText(b.String()), nil
}
