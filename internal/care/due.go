package care

import (
	"sort"

	"gardencal/internal/model"
)

// NextDueDate returns the first occurrence base+k*intervalDays (k >= 1)
// that is not before today. It reports false when base is zero or
// intervalDays is not positive.
func NextDueDate(base Date, intervalDays int, today Date) (Date, bool) {
	if base.IsZero() || intervalDays <= 0 {
		return Date{}, false
	}
	next := AddDays(base, intervalDays)
	if !next.Before(today) {
		return next, true
	}
	// Jump whole intervals instead of looping over stale history.
	steps := DaysBetween(next, today) / intervalDays
	next = AddDays(next, steps*intervalDays)
	if next.Before(today) {
		next = AddDays(next, intervalDays)
	}
	return next, true
}

// NextDue resolves base and interval for a and projects the next due date.
func NextDue(p model.Plant, a Action, today Date) (Date, bool) {
	base, ok := ResolveBase(p, a)
	if !ok {
		return Date{}, false
	}
	interval, ok := ResolveInterval(p, a)
	if !ok {
		return Date{}, false
	}
	return NextDueDate(base, interval, today)
}

// Task is a care action due on a given day.
type Task struct {
	Action Action `json:"action"`
	Label  string `json:"label"`
	Date   Date   `json:"date"`
}

// DueTasks returns the next due task of every action that has one, in
// enumeration order.
func DueTasks(p model.Plant, today Date) []Task {
	tasks := make([]Task, 0, len(Actions))
	for _, a := range Actions {
		if d, ok := NextDue(p, a, today); ok {
			tasks = append(tasks, Task{Action: a, Label: a.Label(), Date: d})
		}
	}
	return tasks
}

// NextTask returns the earliest due task of p. Equal dates keep enumeration
// order (water, fertilize, prune).
func NextTask(p model.Plant, today Date) (Task, bool) {
	tasks := DueTasks(p, today)
	if len(tasks) == 0 {
		return Task{}, false
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Date.Before(tasks[j].Date)
	})
	return tasks[0], true
}

// NextTaskForPlant renders p's next task as "Water today",
// "Fertilize on Feb 3" or NoTasksScheduled.
func NextTaskForPlant(p model.Plant, today Date) string {
	task, ok := NextTask(p, today)
	if !ok {
		return NoTasksScheduled
	}
	return FormatTaskLabel(task.Label, task.Date, today)
}

// FormatTaskLabel renders label with its due date relative to today.
func FormatTaskLabel(label string, due, today Date) string {
	if due == today {
		return label + " today"
	}
	return label + " on " + FormatShortDate(due)
}
