// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/termplot/internal/chart"
	"github.com/verte-zerg/termplot/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a named dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store wraps SQLite access for saved datasets.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			scale TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS dataset_points (
			dataset_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			label TEXT NOT NULL,
			value INTEGER NOT NULL,
			PRIMARY KEY (dataset_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_datasets_updated_at ON datasets(updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveDataset stores ds under ds.Name, replacing any dataset with the same name.
func (s *Store) SaveDataset(ctx context.Context, ds model.Dataset) (id int64, err error) {
	if strings.TrimSpace(ds.Name) == "" {
		return 0, fmt.Errorf("dataset name is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	now := s.now().UTC().Format(time.RFC3339Nano)
	err = tx.QueryRowContext(ctx, `SELECT id FROM datasets WHERE name = ?`, ds.Name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, ierr := tx.ExecContext(ctx,
			`INSERT INTO datasets (name, scale, width, height, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			ds.Name, encodeScale(ds.Scale), ds.Width, ds.Height, now, now)
		if ierr != nil {
			return 0, ierr
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if _, err = tx.ExecContext(ctx,
			`UPDATE datasets SET scale = ?, width = ?, height = ?, updated_at = ? WHERE id = ?`,
			encodeScale(ds.Scale), ds.Width, ds.Height, now, id); err != nil {
			return 0, err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM dataset_points WHERE dataset_id = ?`, id); err != nil {
			return 0, err
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_points (dataset_id, idx, label, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, p := range ds.Points {
		if _, err = stmt.ExecContext(ctx, id, i, p.Label, p.Value); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetDataset loads a dataset by name.
func (s *Store) GetDataset(ctx context.Context, name string) (model.Dataset, error) {
	var (
		id                   int64
		ds                   model.Dataset
		scale                string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, scale, width, height, created_at, updated_at FROM datasets WHERE name = ?`, name).
		Scan(&id, &ds.Name, &scale, &ds.Width, &ds.Height, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dataset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return model.Dataset{}, err
	}
	if err := fillDataset(&ds, scale, createdAt, updatedAt); err != nil {
		return model.Dataset{}, err
	}
	points, err := s.listPoints(ctx, []int64{id})
	if err != nil {
		return model.Dataset{}, err
	}
	ds.Points = points[id]
	return ds, nil
}

// ListDatasets returns all datasets with their points, most recently updated first.
func (s *Store) ListDatasets(ctx context.Context) ([]model.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, scale, width, height, created_at, updated_at
		FROM datasets
		ORDER BY updated_at DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var ids []int64
	var datasets []model.Dataset
	for rows.Next() {
		var (
			id                   int64
			ds                   model.Dataset
			scale                string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&id, &ds.Name, &scale, &ds.Width, &ds.Height, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if err := fillDataset(&ds, scale, createdAt, updatedAt); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	points, err := s.listPoints(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		datasets[i].Points = points[id]
	}
	return datasets, nil
}

// DeleteDataset removes a dataset and its points.
func (s *Store) DeleteDataset(ctx context.Context, name string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	var id int64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM datasets WHERE name = ?`, name).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM dataset_points WHERE dataset_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) listPoints(ctx context.Context, ids []int64) (map[int64][]chart.DataPoint, error) {
	result := map[int64][]chart.DataPoint{}
	if len(ids) == 0 {
		return result, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT dataset_id, label, value
		FROM dataset_points
		WHERE dataset_id IN (%s)
		ORDER BY dataset_id, idx`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var id int64
		var p chart.DataPoint
		if err := rows.Scan(&id, &p.Label, &p.Value); err != nil {
			return nil, err
		}
		result[id] = append(result[id], p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func fillDataset(ds *model.Dataset, scale, createdAt, updatedAt string) error {
	parsedScale, err := decodeScale(scale)
	if err != nil {
		return err
	}
	ds.Scale = parsedScale
	if ds.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return err
	}
	if ds.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return err
	}
	return nil
}

func encodeScale(scale chart.Scale) string {
	parts := make([]string, len(scale))
	for i, v := range scale {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func decodeScale(raw string) (chart.Scale, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	scale := make(chart.Scale, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid stored scale %q: %w", raw, err)
		}
		scale = append(scale, v)
	}
	return scale, nil
}
