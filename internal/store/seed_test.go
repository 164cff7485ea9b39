package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSeedFileYAML(t *testing.T) {
	t.Parallel()

	path := writeSeed(t, `
plants:
  - name: Tomato
    location: Raised bed
    planted_on: "2024-04-15"
    watered_dates: ["2024-05-29"]
    water_interval_days: 3
  - name: Rose
    pruned_dates:
      - "2024-05-10"
    prune_interval_days: 45
`)
	plants, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(plants) != 2 {
		t.Fatalf("got %d plants", len(plants))
	}
	tomato := plants[0]
	if tomato.PlantedOn != "2024-04-15" || tomato.WaterIntervalDays == nil || *tomato.WaterIntervalDays != 3 {
		t.Errorf("tomato = %+v", tomato)
	}
	if len(plants[1].PrunedDates) != 1 || plants[1].PrunedDates[0] != "2024-05-10" {
		t.Errorf("rose pruned = %v", plants[1].PrunedDates)
	}

	// Loaded plants go straight into a store.
	s := openTestStore(t)
	user := uuid.NewString()
	if err := s.Seed(context.Background(), user, plants); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	got, err := s.ListPlants(context.Background(), user)
	if err != nil || len(got) != 2 {
		t.Errorf("ListPlants = %d, %v", len(got), err)
	}
}

func TestLoadSeedFileJSON(t *testing.T) {
	t.Parallel()

	path := writeSeed(t, `{"plants": [{"name": "Basil", "fertilized_dates": ["2024-01-01"]}]}`)
	plants, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(plants) != 1 || plants[0].Name != "Basil" || len(plants[0].FertilizedDates) != 1 {
		t.Errorf("plants = %+v", plants)
	}
}

func TestLoadSeedFileErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"nameless": "plants:\n  - location: Shed\n",
		"bad yaml": "plants: [\n",
	}
	for name, body := range tests {
		name, body := name, body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadSeedFile(writeSeed(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
