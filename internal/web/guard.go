package web

import (
	"mime"
	"net"
	"net/http"
	"net/url"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
)

// allowedHosts lists the Host values the API answers to: the loopback names on
// the bound port, plus the bind address itself when it names one interface.
func allowedHosts(addr string) map[string]bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return map[string]bool{addr: true}
	}
	hosts := map[string]bool{
		net.JoinHostPort("localhost", port): true,
		net.JoinHostPort("127.0.0.1", port): true,
		net.JoinHostPort("::1", port):       true,
	}
	if ip := net.ParseIP(host); host != "" && (ip == nil || !ip.IsUnspecified()) {
		hosts[net.JoinHostPort(host, port)] = true
	}
	return hosts
}

// localOnly rejects requests whose Host or Origin is not the local API, and
// state-changing bodies that are not JSON. Browsers send cross-site text/plain
// POSTs without a preflight, so both checks are needed.
func localOnly(addr string) func(http.Handler) http.Handler {
	hosts := allowedHosts(addr)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hosts[r.Host] {
				renderError(w, r, errors.NewForbidden("host not allowed"))
				return
			}
			if origin := r.Header.Get("Origin"); origin != "" && !originAllowed(origin, hosts) {
				renderError(w, r, errors.NewForbidden("origin not allowed"))
				return
			}
			if hasBody(r) {
				ct := r.Header.Get("Content-Type")
				if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
					renderError(w, r, errors.NewUnsupportedMedia(ct))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, hosts map[string]bool) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "http" {
		return false
	}
	return hosts[u.Host]
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return r.ContentLength != 0
}
