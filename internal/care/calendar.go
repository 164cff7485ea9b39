package care

import (
	"strings"
	"time"

	"gardencal/internal/model"
)

// ClampHorizon maps a requested horizon onto (0, MaxReminderHorizonDays].
// Non-positive requests mean the maximum.
func ClampHorizon(days int) int {
	if days <= 0 || days > MaxReminderHorizonDays {
		return MaxReminderHorizonDays
	}
	return days
}

// HorizonEnd is the last day (inclusive) reminders are projected to.
func HorizonEnd(today Date, horizonDays int) Date {
	return AddDays(today, ClampHorizon(horizonDays))
}

// BuildCalendarEvents lays out every plant's recorded history and the
// reminders projected into [today, today+horizonDays].
//
// History events are emitted for every parseable recorded date regardless
// of filters. Reminder events are emitted per enabled action whose base and
// cadence resolve; a plant without a prune cadence never gets prune
// reminders.
func BuildCalendarEvents(plants []model.Plant, today Date, horizonDays int, filters model.Filters) []model.CalendarEvent {
	end := HorizonEnd(today, horizonDays)
	events := make([]model.CalendarEvent, 0)

	for _, p := range plants {
		if planted, ok := ParseLocalDate(p.PlantedOn); ok {
			events = append(events, historyEvent(p, planted, "Planted", model.KindPlanted))
		}
		for _, a := range Actions {
			for _, d := range ParseDates(a.history(p)) {
				events = append(events, historyEvent(p, d, a.HistoryLabel(), a.HistoryKind()))
			}
		}

		for _, a := range Actions {
			if !a.Enabled(filters) {
				continue
			}
			for _, d := range ReminderDates(p, a, today, end) {
				events = append(events, reminderEvent(p, a, d))
			}
		}
	}

	return events
}

// ReminderDates returns every projected occurrence of a for p within
// [today, end].
func ReminderDates(p model.Plant, a Action, today, end Date) []Date {
	base, ok := ResolveBase(p, a)
	if !ok {
		return nil
	}
	interval, ok := ResolveInterval(p, a)
	if !ok {
		return nil
	}
	return stepDates(base, interval, today, end)
}

func stepDates(base Date, interval int, today, end Date) []Date {
	next, ok := NextDueDate(base, interval, today)
	if !ok {
		return nil
	}
	var out []Date
	for ; !next.After(end); next = AddDays(next, interval) {
		out = append(out, next)
	}
	return out
}

func historyEvent(p model.Plant, d Date, label string, kind model.EventKind) model.CalendarEvent {
	return model.CalendarEvent{
		Date:      FormatDateKey(d),
		Label:     label,
		PlantID:   p.ID,
		PlantName: p.Name,
		Kind:      kind,
	}
}

func reminderEvent(p model.Plant, a Action, d Date) model.CalendarEvent {
	return model.CalendarEvent{
		Date:       FormatDateKey(d),
		Label:      a.ReminderLabel(),
		PlantID:    p.ID,
		PlantName:  p.Name,
		Kind:       a.ReminderKind(),
		IsReminder: true,
	}
}

// EventsByDate indexes events by their date key, keeping input order within
// a day.
func EventsByDate(events []model.CalendarEvent) map[string][]model.CalendarEvent {
	out := make(map[string][]model.CalendarEvent)
	for _, ev := range events {
		out[ev.Date] = append(out[ev.Date], ev)
	}
	return out
}

// EventsInMonth keeps the events dated within the given month.
func EventsInMonth(events []model.CalendarEvent, year int, month time.Month) []model.CalendarEvent {
	prefix := FormatDateKey(Date{Year: year, Month: month, Day: 1})[:len("2006-01-")]
	out := make([]model.CalendarEvent, 0)
	for _, ev := range events {
		if strings.HasPrefix(ev.Date, prefix) {
			out = append(out, ev)
		}
	}
	return out
}

// MonthGrid returns the cells of a month calendar: one zero per blank
// leading cell so the 1st lands under its weekday column, then the day
// numbers 1..N.
func MonthGrid(year int, month time.Month, weekStart time.Weekday) []int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	days := first.AddDate(0, 1, -1).Day()

	cells := make([]int, lead, lead+days)
	for d := 1; d <= days; d++ {
		cells = append(cells, d)
	}
	return cells
}

// FilterAvailability tells the rendering layer which toggles have any data
// behind them.
type FilterAvailability struct {
	Planted   bool `json:"planted"`
	Water     bool `json:"water"`
	Fertilize bool `json:"fertilize"`
	Prune     bool `json:"prune"`
}

// Any reports whether at least one care toggle is meaningful.
func (f FilterAvailability) Any() bool {
	return f.Water || f.Fertilize || f.Prune
}

// AvailableFilters inspects plants for data that could feed each toggle.
func AvailableFilters(plants []model.Plant) FilterAvailability {
	var out FilterAvailability
	for _, p := range plants {
		planted := strings.TrimSpace(p.PlantedOn) != ""
		out.Planted = out.Planted || planted
		out.Water = out.Water || planted || len(p.WateredDates) > 0
		out.Fertilize = out.Fertilize || planted || len(p.FertilizedDates) > 0
		out.Prune = out.Prune || p.PruneIntervalDays != nil || len(p.PrunedDates) > 0
	}
	return out
}
