package postprocessing

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
)

func TestStoreResultsRejectsEmptyConnString(t *testing.T) {
	err := StoreResults(context.Background(), "", "run", sampleResults())
	if err == nil {
		t.Fatal("expected an error for an empty connection string")
	}
}

func TestStoreResultsRoundTrip(t *testing.T) {
	// Skip if no database connection available
	connString := os.Getenv("TEST_POSTGRES_CONN")
	if connString == "" {
		t.Skip("Skipping test: TEST_POSTGRES_CONN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results := sampleResults()
	if err := StoreResults(ctx, connString, "test_run", results); err != nil {
		t.Fatalf("StoreResults failed: %v", err)
	}
	// storing the same run again must replace, not duplicate
	if err := StoreResults(ctx, connString, "test_run", results); err != nil {
		t.Fatalf("second StoreResults failed: %v", err)
	}

	db, err := sql.Open("postgres", connString)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM simulation_results WHERE run_name = $1`, "test_run").Scan(&count)
	if err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	want := len(results.Rows) * len(results.ColumnNames)
	if count != want {
		t.Errorf("got %d rows in the database, want %d", count, want)
	}

	if _, err := db.ExecContext(ctx,
		`DELETE FROM simulation_results WHERE run_name = $1`, "test_run"); err != nil {
		t.Fatalf("failed to clean up: %v", err)
	}
}
