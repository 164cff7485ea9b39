package care

import (
	"gardencal/internal/model"
)

// Cadence defaults and output bounds.
const (
	WaterIntervalDaysDefault     = 7
	FertilizeIntervalDaysDefault = 30
	MaxReminderHorizonDays       = 60
	UpcomingRemindersLimit       = 5

	NoTasksScheduled   = "No tasks scheduled"
	UnassignedLocation = "Unassigned"
	AgeNotSet          = "Age: Not set"
)

// Action is a recurring care action.
type Action string

const (
	ActionWater     Action = "water"
	ActionFertilize Action = "fertilize"
	ActionPrune     Action = "prune"
)

// Actions lists every care action in enumeration order. Ties between equal
// due dates are broken by this order.
var Actions = []Action{ActionWater, ActionFertilize, ActionPrune}

// Label is the task label used in next-task strings ("Water", ...).
func (a Action) Label() string {
	switch a {
	case ActionWater:
		return "Water"
	case ActionFertilize:
		return "Fertilize"
	case ActionPrune:
		return "Prune"
	default:
		return string(a)
	}
}

// ReminderLabel is the label of projected reminder events.
func (a Action) ReminderLabel() string {
	return a.Label() + " reminder"
}

// HistoryKind is the event kind of a recorded occurrence of a.
func (a Action) HistoryKind() model.EventKind {
	switch a {
	case ActionWater:
		return model.KindWatered
	case ActionFertilize:
		return model.KindFertilized
	default:
		return model.KindPruned
	}
}

// HistoryLabel is the label of a recorded occurrence ("Watered", ...).
func (a Action) HistoryLabel() string {
	switch a {
	case ActionWater:
		return "Watered"
	case ActionFertilize:
		return "Fertilized"
	default:
		return "Pruned"
	}
}

// ReminderKind is the event kind of a projected occurrence of a.
func (a Action) ReminderKind() model.EventKind {
	switch a {
	case ActionWater:
		return model.KindReminderWater
	case ActionFertilize:
		return model.KindReminderFertilize
	default:
		return model.KindReminderPrune
	}
}

// DefaultInterval returns the cadence used when a plant sets none. Pruning
// has no default.
func (a Action) DefaultInterval() (int, bool) {
	switch a {
	case ActionWater:
		return WaterIntervalDaysDefault, true
	case ActionFertilize:
		return FertilizeIntervalDaysDefault, true
	default:
		return 0, false
	}
}

// Enabled reports whether reminders for a are switched on in f.
func (a Action) Enabled(f model.Filters) bool {
	switch a {
	case ActionWater:
		return f.Water
	case ActionFertilize:
		return f.Fertilize
	case ActionPrune:
		return f.Prune
	default:
		return false
	}
}

func (a Action) history(p model.Plant) []string {
	switch a {
	case ActionWater:
		return p.WateredDates
	case ActionFertilize:
		return p.FertilizedDates
	default:
		return p.PrunedDates
	}
}

func (a Action) override(p model.Plant) *int {
	switch a {
	case ActionWater:
		return p.WaterIntervalDays
	case ActionFertilize:
		return p.FertilizeIntervalDays
	default:
		return p.PruneIntervalDays
	}
}

// ParseDates normalizes raw date text, dropping entries ParseLocalDate
// rejects.
func ParseDates(raw []string) []Date {
	out := make([]Date, 0, len(raw))
	for _, s := range raw {
		if d, ok := ParseLocalDate(s); ok {
			out = append(out, d)
		}
	}
	return out
}

// ResolveBase returns the base date of a for p: the latest recorded
// occurrence, else the planting date.
func ResolveBase(p model.Plant, a Action) (Date, bool) {
	if latest, ok := LatestDate(ParseDates(a.history(p))); ok {
		return latest, true
	}
	return ParseLocalDate(p.PlantedOn)
}

// ResolveInterval returns p's cadence for a. A positive override wins over
// the default; a missing or non-positive override falls back to the default,
// which for pruning means no cadence at all.
func ResolveInterval(p model.Plant, a Action) (int, bool) {
	if o := a.override(p); o != nil && *o > 0 {
		return *o, true
	}
	return a.DefaultInterval()
}
