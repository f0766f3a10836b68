package main

import (
	"net/http"

	"tasklab/internal/config"
)

// newHTTPClient applies only a transport-level timeout. The engine itself
// adds no request timeouts or retries; a slow backend surfaces as a slow or
// skipped poll tick.
func newHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}
