package care

import (
	"reflect"
	"testing"
	"time"

	"gardencal/internal/model"
)

func reminderKeys(events []model.CalendarEvent, kind model.EventKind) []string {
	var out []string
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev.Date)
		}
	}
	return out
}

func TestBuildCalendarEventsHistoryIsUnconditional(t *testing.T) {
	t.Parallel()

	p := model.Plant{
		ID:              "p1",
		Name:            "Pepper",
		PlantedOn:       "2024-01-01T00:00:00Z",
		WateredDates:    []string{"2024-01-05", "2024-01-08", "bogus"},
		FertilizedDates: []string{"2024-01-03"},
		PrunedDates:     []string{"2024-01-04"},
	}

	events := BuildCalendarEvents([]model.Plant{p}, mustDate(t, "2024-01-10"), MaxReminderHorizonDays, model.Filters{})

	wantKinds := []model.EventKind{
		model.KindPlanted, model.KindWatered, model.KindWatered, model.KindFertilized, model.KindPruned,
	}
	if len(events) != len(wantKinds) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(wantKinds), events)
	}
	for i, ev := range events {
		if ev.Kind != wantKinds[i] {
			t.Errorf("event %d kind = %s, want %s", i, ev.Kind, wantKinds[i])
		}
		if ev.IsReminder {
			t.Errorf("event %d should not be a reminder", i)
		}
		if ev.PlantName != "Pepper" || ev.PlantID != "p1" {
			t.Errorf("event %d plant = %s/%s", i, ev.PlantID, ev.PlantName)
		}
	}
	if events[0].Date != "2024-01-01" || events[0].Label != "Planted" {
		t.Errorf("planted event = %+v", events[0])
	}
}

func TestBuildCalendarEventsWaterReminders(t *testing.T) {
	t.Parallel()

	p := model.Plant{ID: "p1", Name: "Squash", PlantedOn: "2024-05-01"}
	today := mustDate(t, "2024-06-01")

	events := BuildCalendarEvents([]model.Plant{p}, today, MaxReminderHorizonDays, model.Filters{Water: true})

	want := []string{
		"2024-06-05", "2024-06-12", "2024-06-19", "2024-06-26",
		"2024-07-03", "2024-07-10", "2024-07-17", "2024-07-24", "2024-07-31",
	}
	if got := reminderKeys(events, model.KindReminderWater); !reflect.DeepEqual(got, want) {
		t.Errorf("water reminders = %v, want %v", got, want)
	}
	if got := reminderKeys(events, model.KindReminderFertilize); len(got) != 0 {
		t.Errorf("fertilize filter is off, got %v", got)
	}
	for _, ev := range events {
		if ev.Kind == model.KindReminderWater && (!ev.IsReminder || ev.Label != "Water reminder") {
			t.Errorf("bad reminder event %+v", ev)
		}
	}
}

func TestBuildCalendarEventsHorizonIsCapped(t *testing.T) {
	t.Parallel()

	p := model.Plant{ID: "p1", Name: "Kale", PlantedOn: "2024-05-01"}
	today := mustDate(t, "2024-06-01")

	capped := BuildCalendarEvents([]model.Plant{p}, today, 365, model.Filters{Water: true})
	full := BuildCalendarEvents([]model.Plant{p}, today, MaxReminderHorizonDays, model.Filters{Water: true})
	if !reflect.DeepEqual(capped, full) {
		t.Errorf("horizon above the maximum should be capped")
	}

	short := BuildCalendarEvents([]model.Plant{p}, today, 14, model.Filters{Water: true})
	if got := reminderKeys(short, model.KindReminderWater); !reflect.DeepEqual(got, []string{"2024-06-05", "2024-06-12"}) {
		t.Errorf("14-day horizon reminders = %v", got)
	}
}

func TestBuildCalendarEventsNoPruneWithoutInterval(t *testing.T) {
	t.Parallel()

	p := model.Plant{
		ID:          "p1",
		Name:        "Apple",
		PlantedOn:   "2024-01-01",
		PrunedDates: []string{"2024-05-20", "2024-05-30"},
	}
	events := BuildCalendarEvents([]model.Plant{p}, mustDate(t, "2024-06-01"), MaxReminderHorizonDays, model.AllFilters())
	if got := reminderKeys(events, model.KindReminderPrune); len(got) != 0 {
		t.Errorf("prune reminders without interval: %v", got)
	}
	if got := reminderKeys(events, model.KindPruned); len(got) != 2 {
		t.Errorf("pruned history = %v, want 2 entries", got)
	}
}

func TestBuildCalendarEventsFertilizeRollsIntoRange(t *testing.T) {
	t.Parallel()

	p := model.Plant{
		ID:                    "p1",
		Name:                  "Citrus",
		FertilizedDates:       []string{"2024-01-01"},
		FertilizeIntervalDays: model.Days(30),
	}
	today := mustDate(t, "2024-06-01")

	events := BuildCalendarEvents([]model.Plant{p}, today, MaxReminderHorizonDays, model.Filters{Fertilize: true})
	got := reminderKeys(events, model.KindReminderFertilize)
	if len(got) == 0 {
		t.Fatal("expected fertilize reminders after rolling the stale base forward")
	}
	if got[0] != "2024-06-29" {
		t.Errorf("first fertilize reminder = %s, want 2024-06-29", got[0])
	}

	upcoming := UpcomingReminders(events, []model.Plant{p}, today, MaxReminderHorizonDays, model.Filters{Fertilize: true}, 0)
	if len(upcoming) == 0 || upcoming[0].Date != "2024-06-29" {
		t.Errorf("upcoming = %+v, want first entry on 2024-06-29", upcoming)
	}
}

func TestEventsByDateAndMonth(t *testing.T) {
	t.Parallel()

	events := []model.CalendarEvent{
		{Date: "2024-06-05", Kind: model.KindReminderWater, PlantName: "A"},
		{Date: "2024-05-31", Kind: model.KindWatered, PlantName: "A"},
		{Date: "2024-06-05", Kind: model.KindReminderFertilize, PlantName: "B"},
		{Date: "2024-07-01", Kind: model.KindReminderWater, PlantName: "B"},
	}

	byDate := EventsByDate(events)
	if len(byDate) != 3 {
		t.Fatalf("EventsByDate keys = %d, want 3", len(byDate))
	}
	day := byDate["2024-06-05"]
	if len(day) != 2 || day[0].PlantName != "A" || day[1].PlantName != "B" {
		t.Errorf("2024-06-05 = %+v", day)
	}

	june := EventsInMonth(events, 2024, time.June)
	if len(june) != 2 {
		t.Errorf("June events = %+v", june)
	}
}

func TestMonthGrid(t *testing.T) {
	t.Parallel()

	// June 1st 2024 is a Saturday.
	sunday := MonthGrid(2024, time.June, time.Sunday)
	if len(sunday) != 36 {
		t.Fatalf("len = %d, want 36", len(sunday))
	}
	for i := 0; i < 6; i++ {
		if sunday[i] != 0 {
			t.Fatalf("cell %d = %d, want blank", i, sunday[i])
		}
	}
	if sunday[6] != 1 || sunday[35] != 30 {
		t.Errorf("first/last = %d/%d", sunday[6], sunday[35])
	}

	monday := MonthGrid(2024, time.June, time.Monday)
	if len(monday) != 35 || monday[5] != 1 {
		t.Errorf("monday grid = %v", monday)
	}

	feb := MonthGrid(2024, time.February, time.Thursday) // Feb 1st 2024 is a Thursday
	if len(feb) != 29 || feb[0] != 1 {
		t.Errorf("february grid = %v", feb)
	}
}

func TestAvailableFilters(t *testing.T) {
	t.Parallel()

	if got := AvailableFilters(nil); got.Any() || got.Planted {
		t.Errorf("no plants = %+v", got)
	}

	got := AvailableFilters([]model.Plant{
		{ID: "a", Name: "A", WateredDates: []string{"2024-01-01"}},
		{ID: "b", Name: "B", PruneIntervalDays: model.Days(30)},
	})
	want := FilterAvailability{Water: true, Prune: true}
	if got != want {
		t.Errorf("AvailableFilters = %+v, want %+v", got, want)
	}

	got = AvailableFilters([]model.Plant{{ID: "c", Name: "C", PlantedOn: "2024-01-01"}})
	want = FilterAvailability{Planted: true, Water: true, Fertilize: true}
	if got != want {
		t.Errorf("AvailableFilters = %+v, want %+v", got, want)
	}
}
