// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// ErrDatasetNotFound is returned when the ratings CSV does not exist.
var ErrDatasetNotFound = errors.New("dataset file not found")

// importTimeout bounds a single CSV import.
const importTimeout = 10 * time.Minute

// ImportRecord describes one completed CSV import.
type ImportRecord struct {
	ID         string        `json:"id"`
	SourcePath string        `json:"source_path"`
	Rows       int64         `json:"rows"`
	Duration   time.Duration `json:"duration"`
	ImportedAt time.Time     `json:"imported_at"`
}

// Stats summarizes the ratings table.
type Stats struct {
	Ratings    int64         `json:"ratings"`
	Users      int64         `json:"users"`
	Movies     int64         `json:"movies"`
	MinRating  float64       `json:"min_rating"`
	MaxRating  float64       `json:"max_rating"`
	MeanRating float64       `json:"mean_rating"`
	LastImport *ImportRecord `json:"last_import,omitempty"`
}

// ImportCSV replaces the ratings table with the contents of a CSV file that
// has a header row with userId, movieId and rating columns. Other columns,
// such as timestamp, are ignored. Rows keep their file order.
func (db *DB) ImportCSV(ctx context.Context, path string) (record *ImportRecord, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetNotFound, path, err)
	}

	db.importMu.Lock()
	defer db.importMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	record = &ImportRecord{
		ID:         uuid.NewString(),
		SourcePath: path,
	}
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("import", "ratings", time.Since(start), err)
	}()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM ratings"); err != nil {
		return nil, fmt.Errorf("clear ratings: %w", err)
	}

	// read_csv_auto takes its path as a literal, so it is quoted rather than bound.
	insert := fmt.Sprintf(`
		INSERT INTO ratings (seq, user_id, movie_id, rating, import_id)
		SELECT
			row_number() OVER () AS seq,
			CAST(userId AS INTEGER),
			CAST(movieId AS INTEGER),
			CAST(rating AS DOUBLE),
			?
		FROM read_csv_auto(%s, header = true)
		WHERE userId IS NOT NULL AND movieId IS NOT NULL AND rating IS NOT NULL
	`, quoteLiteral(path))

	res, err := tx.ExecContext(ctx, insert, record.ID)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	if record.Rows, err = res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("count imported rows: %w", err)
	}

	record.Duration = time.Since(start)
	record.ImportedAt = time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, source_path, row_count, duration_ms, imported_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.SourcePath, record.Rows, record.Duration.Milliseconds(), record.ImportedAt,
	); err != nil {
		return nil, fmt.Errorf("record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	committed = true
	metrics.DatasetRatings.Set(float64(record.Rows))

	logging.Info().
		Str("import_id", record.ID).
		Str("path", path).
		Int64("rows", record.Rows).
		Dur("duration", record.Duration).
		Msg("Ratings imported")
	return record, nil
}

// Interactions returns every stored rating in ingestion order.
func (db *DB) Interactions(ctx context.Context) (interactions []recommend.Interaction, err error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
	}()

	var count int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM ratings").Scan(&count); err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, "SELECT user_id, movie_id, rating FROM ratings ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeWithLog(rows, "ratings rows")

	interactions = make([]recommend.Interaction, 0, count)
	for rows.Next() {
		var in recommend.Interaction
		if err := rows.Scan(&in.UserID, &in.MovieID, &in.Rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return interactions, nil
}

// Stats returns counts and rating bounds of the stored dataset.
func (db *DB) Stats(ctx context.Context) (*Stats, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	s := &Stats{}
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT user_id),
			COUNT(DISTINCT movie_id),
			COALESCE(MIN(rating), 0),
			COALESCE(MAX(rating), 0),
			COALESCE(AVG(rating), 0)
		FROM ratings
	`).Scan(&s.Ratings, &s.Users, &s.Movies, &s.MinRating, &s.MaxRating, &s.MeanRating)
	if err != nil {
		return nil, fmt.Errorf("query rating stats: %w", err)
	}

	last, err := db.LastImport(ctx)
	if err != nil {
		return nil, err
	}
	s.LastImport = last
	return s, nil
}

// LastImport returns the most recent import, or nil if nothing was imported.
func (db *DB) LastImport(ctx context.Context) (*ImportRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		rec        ImportRecord
		durationMS int64
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, source_path, row_count, duration_ms, imported_at
		FROM imports
		ORDER BY imported_at DESC
		LIMIT 1
	`).Scan(&rec.ID, &rec.SourcePath, &rec.Rows, &durationMS, &rec.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last import: %w", err)
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return &rec, nil
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
