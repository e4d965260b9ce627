package postprocessing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/devskill-org/enersim/simulation"
)

// StoreResults persists the results table to Postgres in long format: one row
// per (timestamp, output) pair, tagged with the run name. An existing run
// with the same name is replaced in the same transaction, so re-running a
// setup never leaves a mix of old and new rows.
func StoreResults(ctx context.Context, connString, runName string, results *simulation.Results) error {
	if connString == "" {
		return fmt.Errorf("database connection string not configured")
	}
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS simulation_results (
			run_name    TEXT             NOT NULL,
			output_name TEXT             NOT NULL,
			ts          TIMESTAMPTZ      NOT NULL,
			value       DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_name, output_name, ts)
		)`); err != nil {
		return fmt.Errorf("failed to create results table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM simulation_results WHERE run_name = $1`, runName); err != nil {
		return fmt.Errorf("failed to delete existing run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO simulation_results (run_name, output_name, ts, value)
		VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for i, row := range results.Rows {
		timestamp := results.Index[i]
		for col, value := range row {
			if _, err := stmt.ExecContext(ctx, runName, results.ColumnNames[col], timestamp, value); err != nil {
				return fmt.Errorf("failed to insert result row at %s: %w", timestamp.Format(time.RFC3339), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
