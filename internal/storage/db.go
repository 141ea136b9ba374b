package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

type DB struct {
	conn *sql.DB
}

// Run is one stored extraction.
type Run struct {
	ID          int64
	Input       string
	CreatedAt   string
	Diagnostics models.Diagnostics
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  input TEXT NOT NULL,
  diagnosticsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
  runId INTEGER NOT NULL,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  website TEXT NOT NULL,
  description TEXT NOT NULL,
  image TEXT NOT NULL,
  PRIMARY KEY(runId, position),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_records_type ON records(type);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveRun stores one extraction and its records in a single transaction and
// returns the run id.
func (d *DB) SaveRun(input string, records []models.Record, diag models.Diagnostics) (int64, error) {
	diagJSON, err := json.Marshal(diag)
	if err != nil {
		return 0, err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`INSERT INTO runs (input, diagnosticsJson) VALUES (?, ?)`, input, string(diagJSON))
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO records (runId, position, name, type, website, description, image)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(runID, i, r.Name, r.Type, r.Website, r.Description, r.Image); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

func (d *DB) GetRun(id int64) (*Run, error) {
	var run Run
	var diagJSON string
	err := d.conn.QueryRow(`SELECT id, input, createdAt, diagnosticsJson FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Input, &run.CreatedAt, &diagJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(diagJSON), &run.Diagnostics); err != nil {
		return nil, err
	}
	return &run, nil
}

// LatestRunID returns the id of the most recent run, or 0 when none exists.
func (d *DB) LatestRunID() (int64, error) {
	var id sql.NullInt64
	if err := d.conn.QueryRow(`SELECT MAX(id) FROM runs`).Scan(&id); err != nil {
		return 0, err
	}
	return id.Int64, nil
}

func (d *DB) ListRecords(runID int64) ([]models.Record, error) {
	rows, err := d.conn.Query(`
SELECT name, type, website, description, image
FROM records
WHERE runId = ?
ORDER BY position ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.Name, &r.Type, &r.Website, &r.Description, &r.Image); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
