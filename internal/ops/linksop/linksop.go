// Package linksop implements the "Extract links" recipe operation.
package linksop

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/value"
)

// OpName is the registry name of this operation.
const OpName = "Extract links"

const description = "Extracts anchor, script, image and stylesheet link " +
	"targets from the HTML input, one per line, optionally resolved against " +
	"a base URL."

const (
	ArgBaseURL = "Base URL"
	ArgUnique  = "Unique"
)

// attribute of interest per element name
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"script": "src",
	"img":    "src",
	"iframe": "src",
}

func init() {
	ops.Register(OpName, func(deps ops.Deps) (ops.Operation, error) {
		return &Op{}, nil
	})
}

// Op walks the HTML tree collecting link targets.
type Op struct{}

func (o *Op) Name() string        { return OpName }
func (o *Op) Description() string { return description }
func (o *Op) InputType() string   { return value.TypeString }
func (o *Op) OutputType() string  { return value.TypeString }

func (o *Op) Args() []ops.ArgSpec {
	return []ops.ArgSpec{
		{Name: ArgBaseURL, Type: ops.ArgText, Default: ""},
		{Name: ArgUnique, Type: ops.ArgChoice, Options: []string{"Yes", "No"}, Default: "Yes"},
	}
}

func (o *Op) Run(ctx context.Context, in value.Value, args ops.Args) (value.Value, error) {
	spec := o.Args()

	var base *url.URL
	if raw := strings.TrimSpace(args.Get(spec, ArgBaseURL)); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return value.Value{}, &ops.OpError{Op: OpName, Kind: ops.KindBadInput, Err: err}
		}
		base = u
	}

	doc, err := html.Parse(strings.NewReader(in.AsText()))
	if err != nil {
		return value.Value{}, &ops.OpError{Op: OpName, Kind: ops.KindBadInput, Err: err}
	}

	unique := args.Get(spec, ArgUnique) != "No"
	seen := map[string]bool{}
	var links []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if target := findAttr(n, attr); target != "" {
					if resolved := resolve(base, target); resolved != "" {
						if !unique || !seen[resolved] {
							seen[resolved] = true
							links = append(links, resolved)
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return value.NewText(strings.Join(links, "\n")), nil
}

func findAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// resolve makes target absolute when a base is given; unparseable targets are
// skipped rather than failing the whole extraction.
func resolve(base *url.URL, target string) string {
	if base == nil {
		return target
	}
	ref, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
