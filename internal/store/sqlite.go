package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	appLog "gardencal/internal/log"
	"gardencal/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

const sqlitePlantColumns = `
	id, name,
	COALESCE(variety, ''), COALESCE(location, ''), COALESCE(status, ''), COALESCE(notes, ''),
	COALESCE(planted_on, ''),
	watered_dates, fertilized_dates, pruned_dates,
	water_interval_days, fertilize_interval_days, prune_interval_days`

// SQLiteStore keeps plants in a local SQLite file. Date lists are stored
// as JSON arrays of date text.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. ":memory:" is
// accepted for throwaway stores.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and ":memory:"
	// databases live per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000")

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	appLog.Info("sqlite plant store ready", "path", path)
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, string(b)); err != nil {
		return fmt.Errorf("store: migrate sqlite: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListPlants(ctx context.Context, userID string) ([]model.Plant, error) {
	uid, err := ParseID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqlitePlantColumns+`
		   FROM plants
		  WHERE user_id = ?
		  ORDER BY updated_at DESC, rowid`, uid.String())
	if err != nil {
		return nil, fmt.Errorf("store: list plants: %w", err)
	}
	defer rows.Close()

	plants := make([]model.Plant, 0)
	for rows.Next() {
		p, err := scanSQLitePlant(rows)
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

func (s *SQLiteStore) GetPlant(ctx context.Context, userID, plantID string) (model.Plant, error) {
	uid, err := ParseID(userID)
	if err != nil {
		return model.Plant{}, err
	}
	pid, err := ParseID(plantID)
	if err != nil {
		return model.Plant{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqlitePlantColumns+`
		   FROM plants
		  WHERE user_id = ? AND id = ?`, uid.String(), pid.String())
	p, err := scanSQLitePlant(row)
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

// Seed inserts or replaces plants for userID. Plants without an id get a
// fresh UUID. It backs the -seed flag and tests; the service itself never
// writes.
func (s *SQLiteStore) Seed(ctx context.Context, userID string, plants []model.Plant) error {
	uid, err := ParseID(userID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO plants (
			id, user_id, name, variety, location, status, notes, planted_on,
			watered_dates, fertilized_dates, pruned_dates,
			water_interval_days, fertilize_interval_days, prune_interval_days
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range plants {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		} else if _, err := ParseID(id); err != nil {
			return err
		}

		watered, err := encodeDates(p.WateredDates)
		if err != nil {
			return err
		}
		fertilized, err := encodeDates(p.FertilizedDates)
		if err != nil {
			return err
		}
		pruned, err := encodeDates(p.PrunedDates)
		if err != nil {
			return err
		}

		if _, err := stmt.ExecContext(ctx,
			id, uid.String(), p.Name, p.Variety, p.Location, p.Status, p.Notes, nullString(p.PlantedOn),
			watered, fertilized, pruned,
			nullInt(p.WaterIntervalDays), nullInt(p.FertilizeIntervalDays), nullInt(p.PruneIntervalDays),
		); err != nil {
			return fmt.Errorf("store: seed plant %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	appLog.Info("seeded plants", "user_id", uid.String(), "count", len(plants))
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func scanSQLitePlant(r rowScanner) (model.Plant, error) {
	var (
		p                          model.Plant
		watered, fertilized, prune string
		water, fertilize, pruneIv  sql.NullInt64
	)
	err := r.Scan(
		&p.ID, &p.Name, &p.Variety, &p.Location, &p.Status, &p.Notes,
		&p.PlantedOn,
		&watered, &fertilized, &prune,
		&water, &fertilize, &pruneIv,
	)
	if err != nil {
		return model.Plant{}, err
	}

	if p.WateredDates, err = decodeDates(watered); err != nil {
		return model.Plant{}, err
	}
	if p.FertilizedDates, err = decodeDates(fertilized); err != nil {
		return model.Plant{}, err
	}
	if p.PrunedDates, err = decodeDates(prune); err != nil {
		return model.Plant{}, err
	}
	p.WaterIntervalDays = nullDays(water)
	p.FertilizeIntervalDays = nullDays(fertilize)
	p.PruneIntervalDays = nullDays(pruneIv)
	return p, nil
}

func encodeDates(dates []string) (string, error) {
	if dates == nil {
		dates = []string{}
	}
	b, err := json.Marshal(dates)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeDates(raw string) ([]string, error) {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode date list: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
