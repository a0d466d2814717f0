// Package extractop implements the "Extract with CSS selector" recipe
// operation.
package extractop

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/value"
)

// OpName is the registry name of this operation.
const OpName = "Extract with CSS selector"

const description = "Extracts text or an attribute from the HTML input using " +
	"a CSS selector, one match per output line."

const (
	ArgSelector  = "Selector"
	ArgAttribute = "Attribute"
	ArgDelimiter = "Delimiter"
)

func init() {
	ops.Register(OpName, func(deps ops.Deps) (ops.Operation, error) {
		return &Op{}, nil
	})
}

var errEmptySelector = errors.New("selector must not be empty")

// Op extracts selector matches from an HTML document.
type Op struct{}

func (o *Op) Name() string        { return OpName }
func (o *Op) Description() string { return description }
func (o *Op) InputType() string   { return value.TypeString }
func (o *Op) OutputType() string  { return value.TypeString }

func (o *Op) Args() []ops.ArgSpec {
	return []ops.ArgSpec{
		{Name: ArgSelector, Type: ops.ArgText},
		{Name: ArgAttribute, Type: ops.ArgText, Default: ""},
		{Name: ArgDelimiter, Type: ops.ArgText, Default: "\n"},
	}
}

func (o *Op) Run(ctx context.Context, in value.Value, args ops.Args) (value.Value, error) {
	spec := o.Args()
	selector := strings.TrimSpace(args.Get(spec, ArgSelector))
	if selector == "" {
		return value.Value{}, &ops.OpError{
			Op:   OpName,
			Kind: ops.KindBadInput,
			Err:  errEmptySelector,
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(in.AsText()))
	if err != nil {
		return value.Value{}, &ops.OpError{Op: OpName, Kind: ops.KindBadInput, Err: err}
	}

	attribute := args.Get(spec, ArgAttribute)
	delimiter := args.Get(spec, ArgDelimiter)
	if delimiter == "" {
		delimiter = "\n"
	}

	var parts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if attribute == "" {
			parts = append(parts, strings.TrimSpace(sel.Text()))
			return
		}
		if v, ok := sel.Attr(attribute); ok {
			parts = append(parts, v)
		}
	})

	return value.NewText(strings.Join(parts, delimiter)), nil
}
