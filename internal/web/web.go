package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/text/language"

	"gardencal/internal/config"
	appLog "gardencal/internal/log"
	"gardencal/internal/store"
)

// Server exposes the care scheduler over a read-only JSON/ICS API.
type Server struct {
	cfg    *config.Config
	store  store.PlantStore
	router *mux.Router

	loc    *time.Location
	locale language.Tag
	now    func() time.Time

	// In-memory cache of computed dashboards. Entries expire after
	// dashboardCacheTTL and are dropped wholesale by FlushCache.
	cacheMu sync.RWMutex
	cache   map[dashboardKey]dashboardEntry
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer constructs a Server over ps. cfg is expected to be validated.
func NewServer(cfg *config.Config, ps store.PlantStore, opts ...Option) *Server {
	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", cfg.Timezone)
		loc = time.Local
	}
	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		locale = language.English
	}

	s := &Server{
		cfg:    cfg,
		store:  ps,
		router: mux.NewRouter(),
		loc:    loc,
		locale: locale,
		now:    time.Now,
		cache:  make(map[dashboardKey]dashboardEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// Handler returns the router wrapped in its middleware. From the outside
// in: CORS (only when origins are configured), request logging, rate
// limiting, basic auth.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		h = s.basicAuthMiddleware(h)
	}
	h = rateLimitMiddleware(s.cfg.RateLimit, h)
	h = logRequests(h)
	// rs/cors treats an empty origin list as "*"; no list means same-origin
	// only.
	if len(s.cfg.CORSOrigins) > 0 {
		h = s.corsHandler().Handler(h)
	}
	return h
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/users/{userID}").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/plants", s.handlePlants).Methods(http.MethodGet)
	api.HandleFunc("/plants/{plantID}", s.handlePlant).Methods(http.MethodGet)
	api.HandleFunc("/calendar", s.handleCalendar).Methods(http.MethodGet)
	api.HandleFunc("/calendar.ics", s.handleICS).Methods(http.MethodGet)
	api.HandleFunc("/reminders", s.handleReminders).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
}

func (s *Server) corsHandler() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: s.basicAuthEnabled(),
		MaxAge:           600,
	})
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Blank credentials count as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="gardencal", charset="UTF-8"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
