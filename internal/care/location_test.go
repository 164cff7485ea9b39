package care

import (
	"testing"

	"golang.org/x/text/language"

	"gardencal/internal/model"
)

func groupNames(groups []LocationGroup) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

func TestGroupByLocation(t *testing.T) {
	t.Parallel()

	plants := []model.Plant{
		{ID: "1", Name: "Tomato", Location: "Backyard"},
		{ID: "2", Name: "Orphan", Location: "   "},
		{ID: "3", Name: "Geranium", Location: "balcony"},
		{ID: "4", Name: "Pepper", Location: " Backyard "},
		{ID: "5", Name: "Nobody"},
	}

	groups := GroupByLocation(plants)

	// Collation orders case-insensitively, unlike a byte-wise sort which
	// would put "Unassigned" before "balcony".
	want := []string{"Backyard", "balcony", UnassignedLocation}
	got := groupNames(groups)
	if len(got) != len(want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("groups = %v, want %v", got, want)
		}
	}

	backyard := groups[0].Plants
	if len(backyard) != 2 || backyard[0].Name != "Tomato" || backyard[1].Name != "Pepper" {
		t.Errorf("Backyard plants = %+v", backyard)
	}
	unassigned := groups[2].Plants
	if len(unassigned) != 2 || unassigned[0].Name != "Orphan" || unassigned[1].Name != "Nobody" {
		t.Errorf("Unassigned plants = %+v", unassigned)
	}
}

func TestGroupByLocationAccents(t *testing.T) {
	t.Parallel()

	plants := []model.Plant{
		{ID: "1", Name: "A", Location: "Orchard"},
		{ID: "2", Name: "B", Location: "Éden bed"},
		{ID: "3", Name: "C", Location: "Arbor"},
	}
	got := groupNames(GroupByLocationIn(language.French, plants))
	want := []string{"Arbor", "Éden bed", "Orchard"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("groups = %v, want %v", got, want)
		}
	}
}

func TestGroupByLocationEmptyPlant(t *testing.T) {
	t.Parallel()

	p := model.Plant{ID: "x", Name: "Seedling"}
	groups := GroupByLocation([]model.Plant{p})
	if len(groups) != 1 || groups[0].Name != UnassignedLocation {
		t.Fatalf("groups = %+v", groups)
	}
	if got := NextTaskForPlant(p, mustDate(t, "2024-01-10")); got != NoTasksScheduled {
		t.Errorf("NextTaskForPlant = %q", got)
	}
}

func TestFilterByLocation(t *testing.T) {
	t.Parallel()

	groups := GroupByLocation([]model.Plant{
		{ID: "1", Name: "A", Location: "Greenhouse"},
		{ID: "2", Name: "B", Location: "Patio"},
	})

	if got := FilterByLocation(groups, "all"); len(got) != 2 {
		t.Errorf("all = %v", groupNames(got))
	}
	if got := FilterByLocation(groups, ""); len(got) != 2 {
		t.Errorf("empty = %v", groupNames(got))
	}
	if got := FilterByLocation(groups, "Patio"); len(got) != 1 || got[0].Name != "Patio" {
		t.Errorf("Patio = %v", groupNames(got))
	}
	if got := FilterByLocation(groups, "Roof"); len(got) != 0 {
		t.Errorf("Roof = %v", groupNames(got))
	}
}
