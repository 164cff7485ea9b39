package model

// Plant is a plant care record as handed over by the record store. The
// scheduler treats it as read-only.
//
// Date fields hold the raw text the store produced, either date-only
// ("2024-01-08") or full timestamps ("2024-01-08T00:00:00Z"). They are
// normalized to calendar days by care.ParseLocalDate before any arithmetic.
type Plant struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	Name     string `json:"name" yaml:"name" validate:"required"`
	Variety  string `json:"variety,omitempty" yaml:"variety,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Status   string `json:"status,omitempty" yaml:"status,omitempty"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// PlantedOn is empty when unknown.
	PlantedOn string `json:"planted_on,omitempty" yaml:"planted_on,omitempty"`

	WateredDates    []string `json:"watered_dates" yaml:"watered_dates"`
	FertilizedDates []string `json:"fertilized_dates" yaml:"fertilized_dates"`
	PrunedDates     []string `json:"pruned_dates" yaml:"pruned_dates"`

	// Cadences in days. Nil means unset: water and fertilize then use their
	// defaults, prune produces no reminders at all.
	WaterIntervalDays     *int `json:"water_interval_days,omitempty" yaml:"water_interval_days,omitempty" validate:"omitempty,gt=0"`
	FertilizeIntervalDays *int `json:"fertilize_interval_days,omitempty" yaml:"fertilize_interval_days,omitempty" validate:"omitempty,gt=0"`
	PruneIntervalDays     *int `json:"prune_interval_days,omitempty" yaml:"prune_interval_days,omitempty" validate:"omitempty,gt=0"`
}

// Days returns a pointer to n, for filling the optional interval fields.
func Days(n int) *int {
	return &n
}

// EventKind classifies a calendar event.
type EventKind string

const (
	KindPlanted           EventKind = "planted"
	KindWatered           EventKind = "watered"
	KindFertilized        EventKind = "fertilized"
	KindPruned            EventKind = "pruned"
	KindReminderWater     EventKind = "reminder-water"
	KindReminderFertilize EventKind = "reminder-fertilize"
	KindReminderPrune     EventKind = "reminder-prune"
)

// IsReminder reports whether k is one of the projected reminder kinds.
func (k EventKind) IsReminder() bool {
	switch k {
	case KindReminderWater, KindReminderFertilize, KindReminderPrune:
		return true
	default:
		return false
	}
}

// CalendarEvent is a single dated entry on the care calendar, either a
// recorded fact (planted, watered, ...) or a projected reminder.
//
// Date is the canonical YYYY-MM-DD key.
type CalendarEvent struct {
	Date       string    `json:"date" yaml:"date"`
	Label      string    `json:"label" yaml:"label"`
	PlantID    string    `json:"plant_id" yaml:"plant_id"`
	PlantName  string    `json:"plant_name" yaml:"plant_name"`
	Kind       EventKind `json:"kind" yaml:"kind"`
	IsReminder bool      `json:"is_reminder" yaml:"is_reminder"`
}

// Filters toggles reminder generation per care action. History events are
// never filtered.
type Filters struct {
	Water     bool `json:"water" yaml:"water"`
	Fertilize bool `json:"fertilize" yaml:"fertilize"`
	Prune     bool `json:"prune" yaml:"prune"`
}

// AllFilters enables every reminder category.
func AllFilters() Filters {
	return Filters{Water: true, Fertilize: true, Prune: true}
}
