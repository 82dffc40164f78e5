// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package database stores the ratings dataset in DuckDB.

Ratings are loaded from a CSV file with DuckDB's read_csv_auto, which infers
column types and skips columns the engine does not use. Each import replaces
the previous dataset and is recorded in the imports table.

# Schema

  - ratings: seq, user_id, movie_id, rating, import_id
  - imports: id, source_path, row_count, duration_ms, imported_at

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	if _, err := db.ImportCSV(ctx, cfg.Dataset.Path); err != nil {
	    return err
	}
	interactions, err := db.Interactions(ctx)

# Environment Variables

  - ENABLE_QUERY_PROFILING=true: Enable DuckDB detailed profiling
*/
package database
