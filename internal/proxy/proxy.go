// Package proxy forwards the storefront surfaces this service does not
// own (reviews, auth, payment results, admin product edits) straight to
// the catalog backend.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// Passthrough is a single-target reverse proxy to the catalog backend.
type Passthrough struct {
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

func NewPassthrough(backendURL string, logger *slog.Logger) (*Passthrough, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, err
	}

	p := &Passthrough{logger: logger}
	rp := httputil.NewSingleHostReverseProxy(target)
	rp.ErrorHandler = p.errorHandler
	p.proxy = rp

	logger.Info("registered backend passthrough", slog.String("target", backendURL))
	return p, nil
}

func (p *Passthrough) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}

func (p *Passthrough) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("backend passthrough error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"error":{"code":"BAD_GATEWAY","message":"backend unavailable"}}`))
}
