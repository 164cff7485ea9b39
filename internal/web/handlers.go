package web

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"gardencal/internal/care"
	"gardencal/internal/ics"
	appLog "gardencal/internal/log"
	"gardencal/internal/model"
	"gardencal/internal/store"
)

// today captures the current calendar day once per request.
func (s *Server) today() care.Date {
	return care.DateOf(s.now().In(s.loc))
}

// userKey validates the {userID} path variable and builds the cache key for
// the request's view parameters. It writes a 400 and returns false on bad
// input.
func (s *Server) userKey(w http.ResponseWriter, r *http.Request, today care.Date) (dashboardKey, viewParams, bool) {
	userID := mux.Vars(r)["userID"]
	if _, err := store.ParseID(userID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return dashboardKey{}, viewParams{}, false
	}
	p, err := s.parseViewParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return dashboardKey{}, viewParams{}, false
	}
	return dashboardKey{
		userID:   userID,
		today:    today,
		filters:  p.filters,
		horizon:  p.horizon,
		limit:    p.limit,
		location: p.location,
	}, p, true
}

// writeStoreError maps store failures onto HTTP statuses. Anything that is
// not the caller's fault is reported as a generic, retryable 503.
func writeStoreError(w http.ResponseWriter, err error, kv ...any) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "plant not found")
	default:
		appLog.Error("plant store failed", err, kv...)
		writeError(w, http.StatusServiceUnavailable, "plant records are temporarily unavailable")
	}
}

// GET /api/users/{userID}/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	key, _, ok := s.userKey(w, r, s.today())
	if !ok {
		return
	}
	dash, err := s.dashboard(r.Context(), key)
	if err != nil {
		writeStoreError(w, err, "user_id", key.userID)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

type plantsResponse struct {
	Today     care.Date              `json:"today"`
	Locations []care.LocationSummary `json:"locations"`
}

// GET /api/users/{userID}/plants?location=
func (s *Server) handlePlants(w http.ResponseWriter, r *http.Request) {
	key, _, ok := s.userKey(w, r, s.today())
	if !ok {
		return
	}
	dash, err := s.dashboard(r.Context(), key)
	if err != nil {
		writeStoreError(w, err, "user_id", key.userID)
		return
	}
	writeJSON(w, http.StatusOK, plantsResponse{Today: dash.Today, Locations: dash.Locations})
}

type plantResponse struct {
	Today   care.Date             `json:"today"`
	Summary care.PlantSummary     `json:"summary"`
	Plant   model.Plant           `json:"plant"`
	Events  []model.CalendarEvent `json:"events"`
}

// GET /api/users/{userID}/plants/{plantID}
func (s *Server) handlePlant(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	key, p, ok := s.userKey(w, r, today)
	if !ok {
		return
	}
	plantID := mux.Vars(r)["plantID"]
	if _, err := store.ParseID(plantID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid plant id")
		return
	}

	plant, err := s.store.GetPlant(r.Context(), key.userID, plantID)
	if err != nil {
		writeStoreError(w, err, "user_id", key.userID, "plant_id", plantID)
		return
	}

	writeJSON(w, http.StatusOK, plantResponse{
		Today:   today,
		Summary: care.Summarize(plant, today),
		Plant:   plant,
		Events:  care.BuildCalendarEvents([]model.Plant{plant}, today, p.horizon, p.filters),
	})
}

type calendarResponse struct {
	Month        string                           `json:"month"`
	WeekStart    string                           `json:"week_start"`
	Cells        []int                            `json:"cells"`
	Today        care.Date                        `json:"today"`
	HorizonEnd   care.Date                        `json:"horizon_end"`
	Available    care.FilterAvailability          `json:"available"`
	Events       []model.CalendarEvent            `json:"events"`
	EventsByDate map[string][]model.CalendarEvent `json:"events_by_date"`
}

// GET /api/users/{userID}/calendar?month=YYYY-MM
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	key, _, ok := s.userKey(w, r, today)
	if !ok {
		return
	}
	year, month, err := parseMonth(r.URL.Query().Get("month"), today)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dash, err := s.dashboard(r.Context(), key)
	if err != nil {
		writeStoreError(w, err, "user_id", key.userID)
		return
	}

	events := care.EventsInMonth(dash.Events, year, month)
	writeJSON(w, http.StatusOK, calendarResponse{
		Month:        fmt.Sprintf("%04d-%02d", year, int(month)),
		WeekStart:    s.cfg.WeekStart,
		Cells:        care.MonthGrid(year, month, s.cfg.FirstWeekday()),
		Today:        dash.Today,
		HorizonEnd:   dash.HorizonEnd,
		Available:    dash.Available,
		Events:       events,
		EventsByDate: care.EventsByDate(events),
	})
}

type remindersResponse struct {
	Today      care.Date             `json:"today"`
	HorizonEnd care.Date             `json:"horizon_end"`
	Reminders  []model.CalendarEvent `json:"reminders"`
}

// GET /api/users/{userID}/reminders
func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	key, _, ok := s.userKey(w, r, s.today())
	if !ok {
		return
	}
	dash, err := s.dashboard(r.Context(), key)
	if err != nil {
		writeStoreError(w, err, "user_id", key.userID)
		return
	}
	writeJSON(w, http.StatusOK, remindersResponse{
		Today:      dash.Today,
		HorizonEnd: dash.HorizonEnd,
		Reminders:  dash.Upcoming,
	})
}

// GET /api/users/{userID}/calendar.ics
//
// The body only depends on the plants and today, so its hash doubles as an
// ETag and repeated polls from calendar clients get a 304.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	key, p, ok := s.userKey(w, r, today)
	if !ok {
		return
	}

	plants, err := s.store.ListPlants(r.Context(), key.userID)
	if err != nil {
		writeStoreError(w, err, "user_id", key.userID)
		return
	}

	body, err := ics.Export(plants, today, ics.ExportOptions{
		HorizonDays: p.horizon,
		Filters:     p.filters,
		Stamp:       today.Time(s.loc),
	})
	if err != nil {
		appLog.Error("ics export failed", err, "user_id", key.userID)
		writeError(w, http.StatusInternalServerError, "failed to export calendar")
		return
	}

	sum := sha256.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="gardencal.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// etagMatches applies the weak comparison If-None-Match calls for: header
// may list several validators or be "*", and a W/ prefix is ignored.
func etagMatches(header, etag string) bool {
	for _, v := range strings.Split(header, ",") {
		v = strings.TrimSpace(v)
		if v == "*" || strings.TrimPrefix(v, "W/") == etag {
			return true
		}
	}
	return false
}
