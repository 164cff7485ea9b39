package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gardencal/internal/care"
	"gardencal/internal/model"
)

// viewParams are the query parameters shared by every scheduler view.
type viewParams struct {
	filters  model.Filters
	horizon  int
	limit    int
	location string
}

// parseViewParams reads water/fertilize/prune, days, limit and location.
// Unset values fall back to the configured defaults.
func (s *Server) parseViewParams(q url.Values) (viewParams, error) {
	p := viewParams{
		filters:  model.AllFilters(),
		horizon:  s.cfg.HorizonDays,
		limit:    s.cfg.ReminderLimit,
		location: strings.TrimSpace(q.Get("location")),
	}

	var err error
	if p.filters.Water, err = parseToggle(q, "water"); err != nil {
		return p, err
	}
	if p.filters.Fertilize, err = parseToggle(q, "fertilize"); err != nil {
		return p, err
	}
	if p.filters.Prune, err = parseToggle(q, "prune"); err != nil {
		return p, err
	}

	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid days %q", v)
		}
		p.horizon = n
	}
	p.horizon = care.ClampHorizon(p.horizon)

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return p, fmt.Errorf("invalid limit %q", v)
		}
		p.limit = n
	}

	return p, nil
}

// parseToggle reads a reminder toggle. Absent means on.
func parseToggle(q url.Values, name string) (bool, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return true, nil
	}
	switch strings.ToLower(v) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", name, v)
	}
	return b, nil
}

// parseMonth reads a YYYY-MM month, defaulting to the month of today.
func parseMonth(v string, today care.Date) (int, time.Month, error) {
	if v == "" {
		return today.Year, today.Month, nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q", v)
	}
	return t.Year(), t.Month(), nil
}
