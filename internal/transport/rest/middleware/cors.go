package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"pulsedeck/internal/config"
)

// AllowOrigin decides whether a browser origin may use the API. With
// cross-network access disabled only same-origin requests pass; when
// enabled, origins are still limited to loopback and private-network
// hosts, never the open internet.
func AllowOrigin(cfg *config.Config, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	if strings.EqualFold(parsed.Host, r.Host) {
		return true
	}

	if !cfg.AllowCrossNetwork {
		return false
	}
	return privateHost(parsed.Hostname())
}

// privateHost accepts loopback, RFC1918, IPv6 unique-local and
// link-local addresses, plus the localhost name.
func privateHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}

func CORS(cfg *config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && AllowOrigin(cfg, r) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
