package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLitePersister stores scenarios in a SQLite database, one row per month
type SQLitePersister struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the scenario database at path and migrates it
func OpenSQLite(path string) (*SQLitePersister, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	// Pragmas are per connection
	db.SetMaxOpenConns(1)
	return &SQLitePersister{db: db}, nil
}

// Load reads scenarios ordered by insertion position, months by index
func (p *SQLitePersister) Load(ctx context.Context) ([]Scenario, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT s.name, m.payload
		FROM scenarios s
		LEFT JOIN scenario_months m ON m.scenario = s.name
		ORDER BY s.position, m.month_index`)
	if err != nil {
		return nil, fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var out []Scenario
	for rows.Next() {
		var name string
		var payload sql.NullString
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scanning scenario row: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Name != name {
			out = append(out, Scenario{Name: name})
		}
		if !payload.Valid {
			continue
		}
		var m storedMonth
		if err := json.Unmarshal([]byte(payload.String), &m); err != nil {
			return nil, fmt.Errorf("decoding month of %q: %w", name, err)
		}
		last := &out[len(out)-1]
		last.Rows = append(last.Rows, decodeMonth(name, m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scenarios: %w", err)
	}
	if out == nil {
		out = []Scenario{}
	}
	return out, nil
}

// Save replaces every stored scenario in one transaction
func (p *SQLitePersister) Save(ctx context.Context, scenarios []Scenario) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := saveTx(ctx, tx, scenarios); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func saveTx(ctx context.Context, tx *sql.Tx, scenarios []Scenario) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM scenario_months`); err != nil {
		return fmt.Errorf("clearing months: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scenarios`); err != nil {
		return fmt.Errorf("clearing scenarios: %w", err)
	}
	for pos, sc := range scenarios {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scenarios (name, position) VALUES (?, ?)`, sc.Name, pos); err != nil {
			return fmt.Errorf("inserting scenario %q: %w", sc.Name, err)
		}
		for _, r := range sc.Rows {
			payload, err := json.Marshal(encodeMonth(r))
			if err != nil {
				return fmt.Errorf("encoding month %d of %q: %w", r.MonthIndex, sc.Name, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO scenario_months (scenario, month_index, calendar_year, month_in_year, payload) VALUES (?, ?, ?, ?, ?)`,
				sc.Name, r.MonthIndex, r.CalendarYear, r.MonthInYear, string(payload)); err != nil {
				return fmt.Errorf("inserting month %d of %q: %w", r.MonthIndex, sc.Name, err)
			}
		}
	}
	return nil
}

func (p *SQLitePersister) Close() error {
	return p.db.Close()
}
