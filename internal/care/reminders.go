package care

import (
	"sort"

	"gardencal/internal/model"
)

// UpcomingReminders ranks the reminders a sidebar should show.
//
// For every enabled action, in enumeration order, it takes that action's
// reminder events dated within [today, today+horizonDays]. An enabled action
// with none in range gets a single look-ahead entry instead: the earliest
// next due date across plants that falls beyond the horizon, so a category
// never goes silently empty just because its dates sit past the cutoff.
//
// The merged list is sorted by date (stable, so category order breaks ties)
// and truncated to limit; a non-positive limit means UpcomingRemindersLimit.
func UpcomingReminders(events []model.CalendarEvent, plants []model.Plant, today Date, horizonDays int, filters model.Filters, limit int) []model.CalendarEvent {
	if limit <= 0 {
		limit = UpcomingRemindersLimit
	}
	end := HorizonEnd(today, horizonDays)
	lo, hi := FormatDateKey(today), FormatDateKey(end)

	byKind := make(map[model.EventKind][]model.CalendarEvent)
	for _, ev := range events {
		if !ev.IsReminder || ev.Date < lo || ev.Date > hi {
			continue
		}
		byKind[ev.Kind] = append(byKind[ev.Kind], ev)
	}

	results := make([]model.CalendarEvent, 0, limit)
	for _, a := range Actions {
		if !a.Enabled(filters) {
			continue
		}
		if existing := byKind[a.ReminderKind()]; len(existing) > 0 {
			results = append(results, existing...)
			continue
		}
		if ev, ok := lookAhead(plants, a, today, end); ok {
			results = append(results, ev)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Date < results[j].Date
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// lookAhead finds the earliest next due date of a strictly after end. The
// first plant wins ties.
func lookAhead(plants []model.Plant, a Action, today, end Date) (model.CalendarEvent, bool) {
	var (
		best      Date
		bestPlant model.Plant
		found     bool
	)
	for _, p := range plants {
		next, ok := NextDue(p, a, today)
		if !ok || !next.After(end) {
			continue
		}
		if !found || next.Before(best) {
			best, bestPlant, found = next, p, true
		}
	}
	if !found {
		return model.CalendarEvent{}, false
	}
	return reminderEvent(bestPlant, a, best), true
}
