package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"gardencal/internal/care"
	"gardencal/internal/model"
)

const (
	productID   = "gardencal"
	uidDomain   = "@gardencal"
	defaultName = "Garden care"
)

// ExportOptions controls what goes into an exported care calendar.
type ExportOptions struct {
	// Name becomes X-WR-CALNAME. Empty means "Garden care".
	Name string

	// HorizonDays bounds the reminder series, clamped like the dashboard.
	HorizonDays int

	Filters model.Filters

	// Stamp is written as DTSTAMP on every event. Zero means time.Now().
	Stamp time.Time
}

// Export renders plants' care calendar as an iCalendar document.
//
// Recorded history (planted, watered, ...) becomes one all-day VEVENT per
// date. Projected reminders become one recurring all-day VEVENT per plant
// and enabled action; its RRULE expands to exactly the dates
// care.ReminderDates returns for the same horizon.
func Export(plants []model.Plant, today care.Date, opts ExportOptions) ([]byte, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = defaultName
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendarFor(productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	cal.SetName(name)
	cal.SetXWRCalName(name)

	seen := make(map[string]struct{})

	// No filters: history events only.
	for _, ev := range care.BuildCalendarEvents(plants, today, opts.HorizonDays, model.Filters{}) {
		d, ok := care.ParseLocalDate(ev.Date)
		if !ok {
			continue
		}
		uid := fmt.Sprintf("%s-%s-%s%s", ev.PlantID, ev.Kind, ev.Date, uidDomain)
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}

		vev := addAllDay(cal, uid, d, stamp)
		vev.SetSummary(ev.PlantName + ": " + ev.Label)
		vev.AddCategory(string(ev.Kind))
	}

	end := care.HorizonEnd(today, opts.HorizonDays)
	for _, p := range plants {
		for _, a := range care.Actions {
			if !a.Enabled(opts.Filters) {
				continue
			}
			dates := care.ReminderDates(p, a, today, end)
			if len(dates) == 0 {
				continue
			}
			interval, _ := care.ResolveInterval(p, a)

			rule, err := ReminderRule(dates[0], interval, len(dates))
			if err != nil {
				return nil, fmt.Errorf("ics: %s %s rule: %w", p.ID, a, err)
			}

			uid := fmt.Sprintf("%s-%s%s", p.ID, a.ReminderKind(), uidDomain)
			vev := addAllDay(cal, uid, dates[0], stamp)
			vev.SetSummary(p.Name + ": " + a.ReminderLabel())
			vev.AddRrule(rule.OrigOptions.RRuleString())
			vev.AddCategory(string(a.ReminderKind()))
			if loc := strings.TrimSpace(p.Location); loc != "" {
				vev.SetLocation(loc)
			}
			vev.SetDescription(fmt.Sprintf("%s every %d days", a.Label(), interval))
		}
	}

	// RFC 5545 content lines end in CRLF regardless of the host OS.
	return []byte(cal.Serialize(ical.WithNewLineWindows)), nil
}

// ReminderRule builds the daily recurrence of a reminder series: count
// occurrences, interval days apart, starting on first.
func ReminderRule(first care.Date, interval, count int) (*rrule.RRule, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", interval)
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	return rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: interval,
		Count:    count,
		Dtstart:  first.Time(time.UTC),
	})
}

func addAllDay(cal *ical.Calendar, uid string, d care.Date, stamp time.Time) *ical.VEvent {
	vev := cal.AddEvent(uid)
	vev.SetDtStampTime(stamp)
	vev.SetAllDayStartAt(d.Time(time.UTC))
	vev.SetAllDayEndAt(care.AddDays(d, 1).Time(time.UTC))
	vev.SetTimeTransparency(ical.TransparencyTransparent)
	return vev
}
