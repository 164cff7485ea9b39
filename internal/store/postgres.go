package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	appLog "gardencal/internal/log"
	"gardencal/internal/model"
)

// Dates are rendered as UTC calendar days, matching how the web app wrote
// them (midnight UTC of the chosen day).
const postgresPlantColumns = `
	p.id::text,
	p.name,
	COALESCE(p.variety, ''),
	COALESCE(p.location, ''),
	COALESCE(p.status, ''),
	COALESCE(p.notes, ''),
	COALESCE(to_char(p.planted_on AT TIME ZONE 'UTC', 'YYYY-MM-DD'), ''),
	ARRAY(SELECT to_char(d AT TIME ZONE 'UTC', 'YYYY-MM-DD') FROM unnest(COALESCE(p.watered_dates, '{}')) AS d),
	ARRAY(SELECT to_char(d AT TIME ZONE 'UTC', 'YYYY-MM-DD') FROM unnest(COALESCE(p.fertilized_dates, '{}')) AS d),
	ARRAY(SELECT to_char(d AT TIME ZONE 'UTC', 'YYYY-MM-DD') FROM unnest(COALESCE(p.pruned_dates, '{}')) AS d),
	p.water_interval_days,
	p.fertilize_interval_days,
	p.prune_interval_days`

// PostgresStore reads plants from the web app's PostgreSQL schema.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens a lib/pq connection pool and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("store: postgres dsn is empty")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}

	appLog.Info("postgres plant store ready")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ListPlants(ctx context.Context, userID string) ([]model.Plant, error) {
	uid, err := ParseID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postgresPlantColumns+`
		   FROM plants p
		  WHERE p.user_id = $1
		  ORDER BY p.updated_at DESC, p.id`, uid)
	if err != nil {
		return nil, fmt.Errorf("store: list plants: %w", err)
	}
	defer rows.Close()

	plants := make([]model.Plant, 0)
	for rows.Next() {
		p, err := scanPostgresPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan plant: %w", err)
		}
		plants = append(plants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list plants: %w", err)
	}
	return keepValid(plants), nil
}

func (s *PostgresStore) GetPlant(ctx context.Context, userID, plantID string) (model.Plant, error) {
	uid, err := ParseID(userID)
	if err != nil {
		return model.Plant{}, err
	}
	pid, err := ParseID(plantID)
	if err != nil {
		return model.Plant{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+postgresPlantColumns+`
		   FROM plants p
		  WHERE p.user_id = $1 AND p.id = $2`, uid, pid)
	p, err := scanPostgresPlant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Plant{}, ErrNotFound
	}
	if err != nil {
		return model.Plant{}, fmt.Errorf("store: get plant: %w", err)
	}
	if err := sanitize(&p); err != nil {
		return model.Plant{}, fmt.Errorf("store: plant %s: %w", plantID, err)
	}
	return p, nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresPlant(r rowScanner) (model.Plant, error) {
	var (
		p                          model.Plant
		watered, fertilized, prune []string
		water, fertilize, pruneIv  sql.NullInt64
	)
	err := r.Scan(
		&p.ID, &p.Name, &p.Variety, &p.Location, &p.Status, &p.Notes,
		&p.PlantedOn,
		pq.Array(&watered), pq.Array(&fertilized), pq.Array(&prune),
		&water, &fertilize, &pruneIv,
	)
	if err != nil {
		return model.Plant{}, err
	}
	p.WateredDates = watered
	p.FertilizedDates = fertilized
	p.PrunedDates = prune
	p.WaterIntervalDays = nullDays(water)
	p.FertilizeIntervalDays = nullDays(fertilize)
	p.PruneIntervalDays = nullDays(pruneIv)
	return p, nil
}

func nullDays(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	return model.Days(int(n.Int64))
}
