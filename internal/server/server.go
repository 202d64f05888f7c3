package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hnrobert/pypiauth/internal/logger"
	"github.com/hnrobert/pypiauth/internal/plugin"
)

const DefaultRealm = "pypi"

type Config struct {
	ListenAddr string
	// PackageDir is served read-only under /packages/.
	PackageDir string
	Realm      string
}

type Server struct {
	cfg Config
	h   http.Handler
}

func New(cfg Config, a plugin.Authenticator) *Server {
	if cfg.Realm == "" {
		cfg.Realm = DefaultRealm
	}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	return &Server{cfg: cfg, h: routes(cfg, a, m, reg)}
}

func (s *Server) Handler() http.Handler { return s.h }

func routes(cfg Config, a plugin.Authenticator, m *Metrics, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	protect := RequireAuth(a, cfg.Realm, m)

	files := http.StripPrefix("/packages/", http.FileServer(http.Dir(cfg.PackageDir)))
	mux.Handle("/packages/", protect(logRequests(files)))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		user := UsernameFrom(r)
		if user == "" {
			user = "-"
		}
		logger.Debug("%s %s %s (%s)", user, r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) ListenAndServe() error {
	httpSrv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("listening on %s, serving %s", s.cfg.ListenAddr, s.cfg.PackageDir)
	return httpSrv.ListenAndServe()
}
