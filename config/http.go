package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// WriteTimeout bounds trigger requests. A run blocks the request until the batch
	// finishes, so this must exceed the longest expected run.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"5m"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.WriteTimeout < 30*time.Second {
		h.WriteTimeout = 30 * time.Second
	}
}
