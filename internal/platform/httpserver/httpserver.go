// Package httpserver builds the process HTTP server.
package httpserver

import (
	"net/http"
	"time"

	"tandem/internal/platform/config"
)

const readHeaderTimeout = 5 * time.Second

// New builds a server for handler from the server config. Zero timeouts are
// left unbounded except the header read, which is always capped.
func New(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
