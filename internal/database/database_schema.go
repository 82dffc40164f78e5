// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the ratings and import history tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	// seq is the position of the rating in its source file; Interactions
	// returns ratings ordered by it.
	`CREATE TABLE IF NOT EXISTS ratings (
		seq BIGINT NOT NULL,
		user_id INTEGER NOT NULL,
		movie_id INTEGER NOT NULL,
		rating DOUBLE NOT NULL,
		import_id VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS imports (
		id VARCHAR PRIMARY KEY,
		source_path VARCHAR NOT NULL,
		row_count BIGINT NOT NULL,
		duration_ms BIGINT NOT NULL,
		imported_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
}
