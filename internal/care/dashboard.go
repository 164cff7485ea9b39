package care

import (
	"golang.org/x/text/language"

	"gardencal/internal/model"
)

// DashboardOptions tunes BuildDashboard. Zero values mean the defaults.
type DashboardOptions struct {
	HorizonDays int
	Limit       int
	Filters     model.Filters
	Locale      language.Tag
	Location    string // "" or "all" keeps every location group
}

// PlantSummary is one plant row as the rendering layer shows it.
type PlantSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Variety  string          `json:"variety,omitempty"`
	Location string          `json:"location"`
	Status   string          `json:"status,omitempty"`
	NextTask string          `json:"next_task"`
	Age      string          `json:"age"`
	NextDue  map[Action]Date `json:"next_due"`
}

// LocationSummary is a location group of plant rows.
type LocationSummary struct {
	Name   string         `json:"name"`
	Plants []PlantSummary `json:"plants"`
}

// Dashboard is everything derived from one user's plants for one "today".
type Dashboard struct {
	Today        Date                             `json:"today"`
	HorizonEnd   Date                             `json:"horizon_end"`
	Filters      model.Filters                    `json:"filters"`
	Available    FilterAvailability               `json:"available"`
	Locations    []LocationSummary                `json:"locations"`
	Events       []model.CalendarEvent            `json:"events"`
	EventsByDate map[string][]model.CalendarEvent `json:"events_by_date"`
	Upcoming     []model.CalendarEvent            `json:"upcoming"`
}

// Summarize derives p's display row.
func Summarize(p model.Plant, today Date) PlantSummary {
	due := make(map[Action]Date, len(Actions))
	for _, t := range DueTasks(p, today) {
		due[t.Action] = t.Date
	}
	return PlantSummary{
		ID:       p.ID,
		Name:     p.Name,
		Variety:  p.Variety,
		Location: LocationName(p),
		Status:   p.Status,
		NextTask: NextTaskForPlant(p, today),
		Age:      FormatAge(p.PlantedOn, today),
		NextDue:  due,
	}
}

// BuildDashboard computes every view of plants against a single today.
func BuildDashboard(plants []model.Plant, today Date, opts DashboardOptions) Dashboard {
	horizon := ClampHorizon(opts.HorizonDays)
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}

	events := BuildCalendarEvents(plants, today, horizon, opts.Filters)

	groups := FilterByLocation(GroupByLocationIn(locale, plants), opts.Location)
	locations := make([]LocationSummary, 0, len(groups))
	for _, g := range groups {
		rows := make([]PlantSummary, 0, len(g.Plants))
		for _, p := range g.Plants {
			rows = append(rows, Summarize(p, today))
		}
		locations = append(locations, LocationSummary{Name: g.Name, Plants: rows})
	}

	return Dashboard{
		Today:        today,
		HorizonEnd:   HorizonEnd(today, horizon),
		Filters:      opts.Filters,
		Available:    AvailableFilters(plants),
		Locations:    locations,
		Events:       events,
		EventsByDate: EventsByDate(events),
		Upcoming:     UpcomingReminders(events, plants, today, horizon, opts.Filters, opts.Limit),
	}
}
