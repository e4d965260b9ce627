package simulation

import (
	"fmt"
	"strings"
	"time"
)

// Results is the columnar results table of a run: one column per registered
// output, one row per timestep, with a synthetic regularly-spaced timestamp
// index derived from the simulation parameters.
type Results struct {
	SetupName   string
	Outputs     []*ComponentOutput
	ColumnNames []string
	Index       []time.Time
	Rows        [][]float64

	parameters *SimulationParameters
}

func newResults(setupName string, outputs []*ComponentOutput, parameters *SimulationParameters) *Results {
	columnNames := make([]string, len(outputs))
	for i, output := range outputs {
		columnNames[i] = output.PrettyName()
	}
	return &Results{
		SetupName:   setupName,
		Outputs:     outputs,
		ColumnNames: columnNames,
		Rows:        make([][]float64, 0, parameters.Timesteps),
		parameters:  parameters,
	}
}

// appendRow commits one timestep's values. The row is copied so the caller's
// buffer can be reused.
func (r *Results) appendRow(values []float64) {
	row := make([]float64, len(values))
	copy(row, values)
	r.Rows = append(r.Rows, row)
	r.Index = append(r.Index, r.parameters.TimestampAt(len(r.Rows)-1))
}

// Column returns the full time series of the output with the given pretty
// name.
func (r *Results) Column(columnName string) ([]float64, error) {
	for i, name := range r.ColumnNames {
		if name == columnName {
			series := make([]float64, len(r.Rows))
			for row := range r.Rows {
				series[row] = r.Rows[row][i]
			}
			return series, nil
		}
	}
	return nil, fmt.Errorf("no results column named %q", columnName)
}

// ColumnByIndex returns the time series of the i-th output column.
func (r *Results) ColumnByIndex(column int) []float64 {
	series := make([]float64, len(r.Rows))
	for row := range r.Rows {
		series[row] = r.Rows[row][column]
	}
	return series
}

// Monthly aggregates the results to one row per calendar month: temperature
// and percent columns are averaged, everything else is summed.
func (r *Results) Monthly() *Results {
	monthly := &Results{
		SetupName:   r.SetupName,
		Outputs:     r.Outputs,
		ColumnNames: r.ColumnNames,
		parameters:  r.parameters,
	}
	if len(r.Rows) == 0 {
		return monthly
	}

	average := make([]bool, len(r.ColumnNames))
	for i, name := range r.ColumnNames {
		average[i] = strings.Contains(name, "Temperature") || strings.Contains(name, "Percent")
	}

	monthStart := 0
	currentMonth := r.Index[0].Month()
	currentYear := r.Index[0].Year()
	flush := func(end int) {
		row := make([]float64, len(r.ColumnNames))
		for col := range r.ColumnNames {
			sum := 0.0
			for i := monthStart; i < end; i++ {
				sum += r.Rows[i][col]
			}
			if average[col] {
				row[col] = sum / float64(end-monthStart)
			} else {
				row[col] = sum
			}
		}
		monthly.Rows = append(monthly.Rows, row)
		monthly.Index = append(monthly.Index, time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, r.Index[0].Location()))
	}
	for i, timestamp := range r.Index {
		if timestamp.Month() != currentMonth || timestamp.Year() != currentYear {
			flush(i)
			monthStart = i
			currentMonth = timestamp.Month()
			currentYear = timestamp.Year()
		}
	}
	flush(len(r.Rows))
	return monthly
}
