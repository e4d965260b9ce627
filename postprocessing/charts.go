package postprocessing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/devskill-org/enersim/simulation"
)

// RenderCharts renders one line chart per output column into directory, named
// after the output. Timestamps are plotted as hours since the simulation
// start.
func RenderCharts(results *simulation.Results, directory string) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	for column, name := range results.ColumnNames {
		if err := renderChart(results, column, name, directory); err != nil {
			return fmt.Errorf("failed to render chart for %s: %w", name, err)
		}
	}
	return nil
}

func renderChart(results *simulation.Results, column int, name, directory string) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "Hours"
	p.Y.Label.Text = string(results.Outputs[column].Unit)

	series := results.ColumnByIndex(column)
	points := make(plotter.XYs, len(series))
	start := results.Index[0]
	for i, value := range series {
		points[i].X = results.Index[i].Sub(start).Hours()
		points[i].Y = value
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	p.Add(line)

	path := filepath.Join(directory, sanitizeFileName(name)+".png")
	return p.Save(12*vg.Inch, 4*vg.Inch, path)
}

// sanitizeFileName turns an output pretty name into a safe file name.
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
	)
	return replacer.Replace(name)
}
