// Package web serves the compiled calendar and a JSON preview of
// upcoming class instances.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/teambition/rrule-go"

	"classcal/internal/compile"
	"classcal/internal/config"
	"classcal/internal/ical"
	appLog "classcal/internal/log"
)

// Server provides the HTTP API: /health, /calendar.ics and
// /api/occurrences.
type Server struct {
	cfg      *config.Config
	cacheDir string
	mux      *http.ServeMux

	// Compiled events are cached briefly so a busy calendar client does
	// not trigger a recompilation per request.
	compileMu    sync.RWMutex
	compileCache *compileCache
}

type compileCache struct {
	result    *compile.Result
	updatedAt time.Time
}

const compileCacheTTL = 30 * time.Second

// NewServer constructs a Server. cacheDir is where holiday feed bodies
// are cached between fetches.
func NewServer(cfg *config.Config, cacheDir string) *Server {
	s := &Server{
		cfg:      cfg,
		cacheDir: cacheDir,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the server's http.Handler, wrapped with basic auth
// when credentials are configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Start runs the server until ctx is canceled, then shuts down
// gracefully.
func Start(ctx context.Context, cfg *config.Config, cacheDir string) error {
	s := NewServer(cfg, cacheDir)
	srv := &http.Server{Addr: cfg.Listen, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware guards every endpoint except /health.
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
			w.Header().Set("WWW-Authenticate", `Basic realm="classcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/calendar.ics", s.handleCalendar)
	s.mux.HandleFunc("/api/occurrences", s.handleOccurrences)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// compileCached compiles the configured schedule, reusing a recent
// result when one is available.
func (s *Server) compileCached(ctx context.Context) (*compile.Result, error) {
	now := time.Now()

	s.compileMu.RLock()
	cc := s.compileCache
	s.compileMu.RUnlock()
	if cc != nil && now.Sub(cc.updatedAt) < compileCacheTTL {
		return cc.result, nil
	}

	res, err := compile.Compile(ctx, s.cfg, now, s.cacheDir)
	if err != nil {
		return nil, err
	}

	s.compileMu.Lock()
	s.compileCache = &compileCache{result: res, updatedAt: time.Now()}
	s.compileMu.Unlock()

	return res, nil
}

// handleCalendar serves a freshly compiled iCalendar document.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	res, err := s.compileCached(r.Context())
	if err != nil {
		appLog.Error("calendar compile failed", err)
		writeError(w, http.StatusInternalServerError, "unable to generate calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.Text))
}

// occurrenceDTO is a JSON-friendly view of one upcoming class instance.
type occurrenceDTO struct {
	UID      string    `json:"uid"`
	Summary  string    `json:"summary"`
	Location string    `json:"location"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type occurrencesResponse struct {
	Occurrences []occurrenceDTO `json:"occurrences"`
	RangeStart  time.Time       `json:"range_start"`
	RangeEnd    time.Time       `json:"range_end"`
	Timezone    string          `json:"timezone"`
}

// handleOccurrences expands the compiled weekly series into concrete
// upcoming instances.
//
// GET /api/occurrences?days=7
func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	days := parseIntDefault(r.URL.Query().Get("days"), 7)
	if days <= 0 {
		days = 7
	}

	res, err := s.compileCached(r.Context())
	if err != nil {
		appLog.Error("occurrence preview compile failed", err)
		writeError(w, http.StatusInternalServerError, "unable to generate calendar")
		return
	}

	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	rangeEnd := now.AddDate(0, 0, days)

	dtos, err := expandEvents(res.Events, now, rangeEnd)
	if err != nil {
		appLog.Error("occurrence expansion failed", err)
		writeError(w, http.StatusInternalServerError, "unable to expand occurrences")
		return
	}

	writeJSON(w, http.StatusOK, occurrencesResponse{
		Occurrences: dtos,
		RangeStart:  now,
		RangeEnd:    rangeEnd,
		Timezone:    s.cfg.Timezone,
	})
}

// expandEvents turns each event's weekly rule and exception list into
// concrete instances within [rangeStart, rangeEnd].
func expandEvents(events []ical.Event, rangeStart, rangeEnd time.Time) ([]occurrenceDTO, error) {
	dtos := make([]occurrenceDTO, 0)
	for _, ev := range events {
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:    rrule.WEEKLY,
			Dtstart: ev.Start,
			Until:   ev.Until,
		})
		if err != nil {
			return nil, err
		}

		var set rrule.Set
		set.RRule(rule)
		for _, ex := range ev.Exceptions {
			set.ExDate(ex)
		}

		duration := ev.End.Sub(ev.Start)
		for _, start := range set.Between(rangeStart, rangeEnd, true) {
			dtos = append(dtos, occurrenceDTO{
				UID:      ev.UID,
				Summary:  ev.Summary,
				Location: ev.Location,
				Start:    start,
				End:      start.Add(duration),
			})
		}
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Start.Before(dtos[j].Start) })
	return dtos, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
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
