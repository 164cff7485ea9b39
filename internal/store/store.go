package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gardencal/internal/config"
	appLog "gardencal/internal/log"
	"gardencal/internal/model"
)

var (
	// ErrNotFound is returned when a plant does not exist for the user.
	ErrNotFound = errors.New("store: plant not found")
	// ErrInvalidID is returned for user or plant ids that are not UUIDs.
	ErrInvalidID = errors.New("store: invalid id")
)

// PlantStore is the read side of the plant records. Authorization is the
// caller's job: a store returns whatever belongs to the given user id.
type PlantStore interface {
	ListPlants(ctx context.Context, userID string) ([]model.Plant, error)
	GetPlant(ctx context.Context, userID, plantID string) (model.Plant, error)
	Close() error
}

// Open connects the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (PlantStore, error) {
	switch cfg.Driver {
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN)
	case "sqlite":
		return OpenSQLite(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}
}

// ParseID validates a UUID id as stored in the plants table.
func ParseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u, nil
}

var validate = validator.New()

// sanitize drops non-positive cadences (they mean "unset") and validates
// what remains.
func sanitize(p *model.Plant) error {
	fields := []struct {
		name string
		val  **int
	}{
		{"water_interval_days", &p.WaterIntervalDays},
		{"fertilize_interval_days", &p.FertilizeIntervalDays},
		{"prune_interval_days", &p.PruneIntervalDays},
	}
	for _, f := range fields {
		if *f.val != nil && **f.val <= 0 {
			appLog.Warn("dropping non-positive interval", "plant_id", p.ID, "field", f.name, "value", **f.val)
			*f.val = nil
		}
	}
	if p.WateredDates == nil {
		p.WateredDates = []string{}
	}
	if p.FertilizedDates == nil {
		p.FertilizedDates = []string{}
	}
	if p.PrunedDates == nil {
		p.PrunedDates = []string{}
	}
	return validate.Struct(p)
}

// keepValid sanitizes records in place and drops the ones that fail
// validation, so one bad row never hides a user's whole garden.
func keepValid(plants []model.Plant) []model.Plant {
	out := plants[:0]
	for _, p := range plants {
		if err := sanitize(&p); err != nil {
			appLog.Error("skipping invalid plant record", err, "plant_id", p.ID)
			continue
		}
		out = append(out, p)
	}
	return out
}
