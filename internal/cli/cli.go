package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// CLIArgs are the command-line arguments controlling one invocation. The
// binary either runs a recipe (from a file or built from the single-request
// shorthand flags) or starts the API server.
type CLIArgs struct {
	// RecipePath is a YAML recipe file to run.
	RecipePath string

	// Input is the initial pipeline input fed to the first step.
	Input string

	// URL is the single-request shorthand: run one "HTTP request" step
	// against this URL instead of loading a recipe file.
	URL string

	// Method, Data, Headers and ReturnType configure the shorthand step.
	Method     string
	Data       string
	Headers    string
	ReturnType string

	// Backend selects the transport backend for this run; empty means the
	// config default.
	Backend string

	// Serve starts the API server instead of running a recipe.
	Serve bool

	// Listen overrides the API server listen address when serving.
	Listen string

	// Storage overrides the run archive location.
	Storage string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("ladle-cli", flag.ContinueOnError)
	var (
		recipePath = fs.String("recipe", "", "YAML recipe file to run")
		input      = fs.String("input", "", "Initial input fed to the first recipe step")
		url        = fs.String("url", "", "Shorthand: run a single HTTP request step against this URL")
		method     = fs.String("method", "GET", "HTTP method for the -url shorthand")
		data       = fs.String("data", "", "Request payload for the -url shorthand")
		headers    = fs.String("headers", "", "Raw header block for the -url shorthand (one 'Name: value' per line)")
		returnType = fs.String("return", "String", "Return type for the -url shorthand: String|Bytes")
		backend    = fs.String("backend", "", "Transport backend: nethttp|chromedp (default from config)")
		serve      = fs.Bool("serve", false, "Start the API server instead of running a recipe")
		listen     = fs.String("listen", "", "API server listen address (with -serve)")
		storage    = fs.String("storage", "", "Run archive directory (default from config)")
	)

	// Ensure Parse doesn't write to stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	parsed := &CLIArgs{
		RecipePath: *recipePath,
		Input:      *input,
		URL:        strings.TrimSpace(*url),
		Method:     *method,
		Data:       *data,
		Headers:    *headers,
		ReturnType: *returnType,
		Backend:    *backend,
		Serve:      *serve,
		Listen:     *listen,
		Storage:    *storage,
		RawArgs:    args,
	}

	if !parsed.Serve && parsed.RecipePath == "" && parsed.URL == "" {
		return nil, fmt.Errorf("one of -recipe, -url or -serve is required")
	}
	if parsed.RecipePath != "" && parsed.URL != "" {
		return nil, fmt.Errorf("-recipe and -url are mutually exclusive")
	}

	return parsed, nil
}
