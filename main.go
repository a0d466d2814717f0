// Command ladle runs data-transformation recipes. A recipe is an ordered
// chain of operations fed an initial input; the "HTTP request" operation
// fetches over the wire, the others transform in place.
//
// Usage:
//
//	ladle -url https://example.com -method GET
//	ladle -recipe fetch-and-extract.yaml -input https://example.com
//	ladle -serve -listen :8080
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/avelline/ladle/internal/app"
	"github.com/avelline/ladle/internal/cli"
	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/ops/httpop"
	"github.com/avelline/ladle/internal/recipe"
	"github.com/avelline/ladle/internal/server"
	"github.com/avelline/ladle/internal/value"
	"github.com/avelline/ladle/internal/webclient"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	parsed, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}

	cfg := app.DefaultConfig()
	if parsed.Backend != "" {
		cfg.WebClientCfg.Backend = webclient.Backend(parsed.Backend)
	}
	if parsed.Listen != "" {
		cfg.ListenAddr = parsed.Listen
	}
	if parsed.Storage != "" {
		cfg.StorageRoot = parsed.Storage
	}

	logger := logging.NewStdoutLogger("ladle")

	if parsed.Serve {
		return serve(cfg, logger)
	}

	rec, input, err := buildRecipe(parsed)
	if err != nil {
		return err
	}

	runner, err := app.NewRunner(cfg, nil, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	_, out, err := runner.Run(context.Background(), rec, input, nil)
	if err != nil {
		return err
	}

	// Byte output goes to stdout raw so it can be piped; text gets a newline.
	if out.Kind() == value.Bytes {
		_, err = os.Stdout.Write(out.AsBytes())
		return err
	}
	fmt.Println(out.AsText())
	return nil
}

// buildRecipe returns the recipe to run: either the loaded file or a
// single-step recipe assembled from the shorthand flags.
func buildRecipe(parsed *cli.CLIArgs) (recipe.Recipe, string, error) {
	if parsed.RecipePath != "" {
		rec, err := recipe.LoadFile(parsed.RecipePath)
		return rec, parsed.Input, err
	}

	rec := recipe.Recipe{
		Name: "cli",
		Steps: []recipe.Step{{
			Op: httpop.OpName,
			Args: map[string]string{
				httpop.ArgMethod:     parsed.Method,
				httpop.ArgPayload:    parsed.Data,
				httpop.ArgHeaders:    parsed.Headers,
				httpop.ArgReturnType: parsed.ReturnType,
			},
		}},
	}
	return rec, parsed.URL, nil
}

func serve(cfg *app.Config, logger logging.Logger) error {
	srv, err := server.NewServer(server.Config{AppConfig: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer srv.Close()

	logger.Info("api server listening", logging.Field{Key: "addr", Value: cfg.ListenAddr})
	return srv.HTTPServer().ListenAndServe()
}
