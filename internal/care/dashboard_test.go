package care

import (
	"encoding/json"
	"strings"
	"testing"

	"gardencal/internal/model"
)

func samplePlants() []model.Plant {
	return []model.Plant{
		{
			ID: "tomato", Name: "Tomato", Location: "Raised bed",
			PlantedOn:    "2024-04-15",
			WateredDates: []string{"2024-05-29"},
		},
		{
			ID: "rose", Name: "Rose", Location: "Front yard",
			PlantedOn:         "2022-05-01",
			PrunedDates:       []string{"2024-05-10"},
			PruneIntervalDays: model.Days(45),
		},
		{ID: "cutting", Name: "Cutting"},
	}
}

func TestBuildDashboard(t *testing.T) {
	t.Parallel()

	today := mustDate(t, "2024-06-01")
	dash := BuildDashboard(samplePlants(), today, DashboardOptions{Filters: model.AllFilters()})

	if dash.Today != today || FormatDateKey(dash.HorizonEnd) != "2024-07-31" {
		t.Errorf("today/horizon = %s/%s", dash.Today, dash.HorizonEnd)
	}

	var names []string
	for _, loc := range dash.Locations {
		names = append(names, loc.Name)
	}
	if strings.Join(names, ",") != "Front yard,Raised bed,Unassigned" {
		t.Errorf("locations = %v", names)
	}

	rose := dash.Locations[0].Plants[0]
	// A 2022 planting date drives the default water cadence to Jun 2.
	if rose.NextTask != "Water on Jun 2" {
		t.Errorf("rose next task = %q", rose.NextTask)
	}
	if rose.Age != "Age: 2y 4w 4d" {
		t.Errorf("rose age = %q", rose.Age)
	}
	if d, ok := rose.NextDue[ActionPrune]; !ok || FormatDateKey(d) != "2024-06-24" {
		t.Errorf("rose next due = %+v", rose.NextDue)
	}

	cutting := dash.Locations[2].Plants[0]
	if cutting.NextTask != NoTasksScheduled || cutting.Age != AgeNotSet || len(cutting.NextDue) != 0 {
		t.Errorf("cutting = %+v", cutting)
	}

	if len(dash.Upcoming) == 0 || len(dash.Upcoming) > UpcomingRemindersLimit {
		t.Fatalf("upcoming len = %d", len(dash.Upcoming))
	}
	if dash.Upcoming[0].Date != "2024-06-02" || dash.Upcoming[0].PlantName != "Rose" {
		t.Errorf("first upcoming = %+v", dash.Upcoming[0])
	}
	if len(dash.EventsByDate["2024-06-05"]) == 0 {
		t.Error("events_by_date is missing the tomato water reminder")
	}
	if !dash.Available.Prune || !dash.Available.Planted {
		t.Errorf("available = %+v", dash.Available)
	}
}

func TestBuildDashboardLocationFilterAndJSON(t *testing.T) {
	t.Parallel()

	today := mustDate(t, "2024-06-01")
	dash := BuildDashboard(samplePlants(), today, DashboardOptions{
		Filters:  model.Filters{Water: true},
		Location: "Raised bed",
	})
	if len(dash.Locations) != 1 || dash.Locations[0].Name != "Raised bed" {
		t.Fatalf("locations = %+v", dash.Locations)
	}

	b, err := json.Marshal(dash)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"today":"2024-06-01"`, `"next_due":{"fertilize":"2024-06-14","water":"2024-06-05"}`, `"kind":"reminder-water"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("json missing %s", want)
		}
	}
}
