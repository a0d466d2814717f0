package webclient

import "github.com/avelline/ladle/internal/logging"

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers the nethttp and chromedp backends. It runs
// from init() so NewWebClient always has the built-in backends available;
// callers may still register additional ones.
func RegisterDefaultBackends() {
	RegisterBackend(string(BackendNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})

	RegisterBackend(string(BackendChromeDP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewChromeDPClient(cfg, logger)
	})
}
