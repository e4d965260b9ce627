// Package postprocessing turns a finished simulation's results table into
// persisted artifacts: CSV files, charts and an optional database sink. It
// runs strictly after the simulation; nothing here is called from the solver
// loop.
package postprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/devskill-org/enersim/simulation"
)

// WriteCSV writes the full results table to path, one row per timestep with a
// leading timestamp column.
func WriteCSV(results *simulation.Results, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := append([]string{"Timestamp"}, results.ColumnNames...)
	if err := writer.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i, row := range results.Rows {
		record[0] = results.Index[i].Format(time.RFC3339)
		for col, value := range row {
			record[col+1] = strconv.FormatFloat(value, 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
