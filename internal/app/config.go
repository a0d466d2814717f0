package app

import "github.com/avelline/ladle/internal/webclient"

// Config contains the runtime configuration shared by the CLI and the API
// server. Keep this small; per-package knobs live in each package's own
// Config.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server (the CLI runs
	// recipes in-process and does not require the network surface).
	ListenAddr string

	// StorageRoot is the base path where the run archive is kept.
	StorageRoot string

	// HistoryLimit caps how many archived runs list endpoints return.
	HistoryLimit int

	// WebClientCfg selects and configures the outbound transport backend.
	WebClientCfg webclient.Config
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   ":8080",
		StorageRoot:  "~/.config/ladle",
		HistoryLimit: 50,
		WebClientCfg: webclient.DefaultConfig(),
	}
}
