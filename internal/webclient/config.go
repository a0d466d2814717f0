package webclient

import "time"

// Backend names the transport implementation to construct.
type Backend string

const (
	BackendNetHTTP  Backend = "nethttp"
	BackendChromeDP Backend = "chromedp"
)

// Config is the minimal configuration required for constructing a WebClient.
type Config struct {
	Backend Backend

	// Timeout is the overall request timeout of the nethttp backend. Zero
	// means the backend default.
	Timeout time.Duration

	// IdleAfter is how long the chromedp backend waits for the network to
	// stay quiet before snapshotting the page.
	IdleAfter time.Duration

	// Headless controls whether the chromedp backend shows a browser window.
	Headless bool
}

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendNetHTTP,
		Timeout:   30 * time.Second,
		IdleAfter: 2 * time.Second,
		Headless:  true,
	}
}
