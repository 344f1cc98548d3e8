// Package web exposes the operations as a local JSON API for the desktop shell.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
)

// maxBodyBytes caps request bodies. Signature data URLs dominate the size.
const maxBodyBytes = 8 << 20

// NewServer creates the HTTP server for the local API.
func NewServer(deps *ops.Deps, bind string, port int) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(bind, strconv.Itoa(port)),
		Handler:           NewRouter(deps, net.JoinHostPort(bind, strconv.Itoa(port))),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the route table for a server listening on addr.
// Exposed so tests can drive it with httptest.
func NewRouter(deps *ops.Deps, addr string) http.Handler {
	h := &Handlers{deps: deps}

	r := mux.NewRouter()
	r.Use(securityHeaders)
	r.Use(localOnly(addr))
	r.Use(hlog.NewHandler(deps.Log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/supervisor/auth", h.SupervisorAuth).Methods("POST")
	api.HandleFunc("/supervisor/check", h.SupervisorCheck).Methods("GET")

	api.HandleFunc("/agents", h.ListAgents).Methods("GET")
	api.HandleFunc("/agents", h.AddAgent).Methods("POST")
	api.HandleFunc("/agents/default", h.SetDefaultAgent).Methods("PUT")
	api.HandleFunc("/agents/{correo}", h.RemoveAgent).Methods("DELETE")

	api.HandleFunc("/terminales", h.ListTerminals).Methods("GET")
	api.HandleFunc("/terminales", h.AddTerminal).Methods("POST")
	api.HandleFunc("/terminales", h.RemoveTerminal).Methods("DELETE")
	api.HandleFunc("/terminales/bulk", h.BulkAddTerminals).Methods("POST")

	api.HandleFunc("/notas", h.ListNotes).Methods("GET")
	api.HandleFunc("/notas", h.AddNote).Methods("POST")
	api.HandleFunc("/notas/{id}", h.UpdateNote).Methods("PUT")
	api.HandleFunc("/notas/{id}", h.RemoveNote).Methods("DELETE")

	api.HandleFunc("/historial", h.ListHistory).Methods("GET")
	api.HandleFunc("/historial", h.AddHistory).Methods("POST")
	api.HandleFunc("/historial/pdf", h.HistoryPDF).Methods("POST")

	api.HandleFunc("/inventario", h.ListItems).Methods("GET")
	api.HandleFunc("/inventario", h.AddItem).Methods("POST")
	api.HandleFunc("/inventario/filtrar", h.FilterItems).Methods("POST")
	api.HandleFunc("/inventario/{id}", h.UpdateItem).Methods("PUT")
	api.HandleFunc("/inventario/{id}", h.RemoveItem).Methods("DELETE")

	api.HandleFunc("/export", h.Export).Methods("POST")
	api.HandleFunc("/sims/generate", h.GenerateSIM).Methods("POST")
	api.HandleFunc("/info", h.Info).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		renderJSON(w, http.StatusNotFound, &ops.FailureOutput{Error: "route not found", Code: "NOT_FOUND"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		renderJSON(w, http.StatusMethodNotAllowed, &ops.FailureOutput{Error: "method not allowed", Code: "VALIDATION_ERROR"})
	})

	return r
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("addr", srv.Addr).Msg("api listening")
	if strings.HasPrefix(srv.Addr, "0.0.0.0:") || strings.HasPrefix(srv.Addr, ":") || strings.Contains(srv.Addr, "::") {
		log.Warn().Msg("binding to all interfaces; the api may be reachable from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

// Serve is a convenience for callers that only hold the config values.
func Serve(deps *ops.Deps, bind string, port int) error {
	return Run(NewServer(deps, bind, port), deps.Log)
}
