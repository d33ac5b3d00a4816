// Package httpserver constructs the process HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server for the claims API. The write timeout leaves
// headroom over the per-request timeout enforced by middleware.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       90 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
