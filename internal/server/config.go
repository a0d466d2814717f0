package server

import (
	"github.com/avelline/ladle/internal/app"
	"github.com/avelline/ladle/internal/logging"
	"github.com/avelline/ladle/internal/webclient"
)

// Config configures the API server.
type Config struct {
	// AppConfig carries the shared runtime configuration. Nil means defaults.
	AppConfig *app.Config

	// Logger is the server logger. Nil means a stdout logger.
	Logger logging.Logger

	// WebClient overrides the transport constructed from AppConfig. Mainly
	// for tests, which inject recording doubles.
	WebClient webclient.WebClient
}
