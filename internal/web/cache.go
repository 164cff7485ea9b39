package web

import (
	"context"
	"time"

	"gardencal/internal/care"
	"gardencal/internal/model"
)

const dashboardCacheTTL = 30 * time.Second

type dashboardKey struct {
	userID   string
	today    care.Date
	filters  model.Filters
	horizon  int
	limit    int
	location string
}

type dashboardEntry struct {
	dash      care.Dashboard
	updatedAt time.Time
}

// dashboard returns the dashboard for key, recomputing it from the store
// when the cached copy is missing or stale.
func (s *Server) dashboard(ctx context.Context, key dashboardKey) (care.Dashboard, error) {
	now := time.Now()

	s.cacheMu.RLock()
	e, ok := s.cache[key]
	s.cacheMu.RUnlock()
	if ok && now.Sub(e.updatedAt) < dashboardCacheTTL {
		return e.dash, nil
	}

	plants, err := s.store.ListPlants(ctx, key.userID)
	if err != nil {
		return care.Dashboard{}, err
	}

	dash := care.BuildDashboard(plants, key.today, care.DashboardOptions{
		HorizonDays: key.horizon,
		Limit:       key.limit,
		Filters:     key.filters,
		Locale:      s.locale,
		Location:    key.location,
	})

	s.cacheMu.Lock()
	for k, old := range s.cache {
		if now.Sub(old.updatedAt) >= dashboardCacheTTL {
			delete(s.cache, k)
		}
	}
	s.cache[key] = dashboardEntry{dash: dash, updatedAt: time.Now()}
	s.cacheMu.Unlock()

	return dash, nil
}

// FlushCache drops every cached dashboard and returns how many there were.
func (s *Server) FlushCache() int {
	s.cacheMu.Lock()
	n := len(s.cache)
	s.cache = make(map[dashboardKey]dashboardEntry)
	s.cacheMu.Unlock()
	return n
}
