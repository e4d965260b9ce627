// Command enersim runs a discrete-timestep energy-system simulation: a wired
// household component graph is advanced through simulated time, resolving
// circular control dependencies by fixed-point iteration at every timestep,
// and the results are exported afterwards.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devskill-org/enersim/monitor"
	"github.com/devskill-org/enersim/postprocessing"
	"github.com/devskill-org/enersim/setups"
	"github.com/devskill-org/enersim/simulation"
)

func main() {
	var (
		configFile   = flag.String("config", "config.yaml", "Configuration file path")
		help         = flag.Bool("help", false, "Show help message")
		writeCSV     = flag.Bool("csv", false, "Write results CSV (overrides config)")
		renderCharts = flag.Bool("charts", false, "Render result charts (overrides config)")
		monitorPort  = flag.Int("monitorPort", 0, "Monitor server port (overrides config, 0 = use config)")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	config, err := LoadConfig(*configFile)
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		os.Exit(1)
	}
	if *writeCSV {
		config.WriteCSV = true
	}
	if *renderCharts {
		config.RenderCharts = true
	}
	if *monitorPort > 0 {
		config.MonitorPort = *monitorPort
	}
	setupLogging(config.LogLevel)

	if err := run(config); err != nil {
		log.Fatal().Err(err).Msg("simulation run failed")
	}
}

func run(config *Config) error {
	start := time.Date(config.Year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, config.Days)
	parameters := simulation.NewSimulationParameters(start, end, config.SecondsPerTimestep)

	options := config.Household
	options.Predictive = config.Predictive
	sim, err := setups.BasicHousehold(parameters, options)
	if err != nil {
		return fmt.Errorf("failed to build system setup: %w", err)
	}

	monitorServer := monitor.NewServer(config.MonitorPort)
	monitorServer.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := monitorServer.Stop(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to stop monitor server")
		}
	}()
	if monitorServer != nil {
		sim.SetProgressSink(monitorServer)
	}

	results, err := sim.RunAllTimesteps()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(config.ResultDirectory, 0o755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}
	if config.WriteCSV {
		path := filepath.Join(config.ResultDirectory, config.RunName+".csv")
		if err := postprocessing.WriteCSV(results, path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("results written")
	}
	if config.RenderCharts {
		chartDir := filepath.Join(config.ResultDirectory, "charts")
		if err := postprocessing.RenderCharts(results, chartDir); err != nil {
			return err
		}
		log.Info().Str("dir", chartDir).Msg("charts rendered")
	}
	if config.PostgresConnString != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := postprocessing.StoreResults(ctx, config.PostgresConnString, config.RunName, results); err != nil {
			return err
		}
		log.Info().Str("run", config.RunName).Msg("results stored in database")
	}
	return nil
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func showHelp() {
	fmt.Println("enersim - discrete-timestep energy-system simulator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  enersim [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("The simulated household, the run horizon and the export options are")
	fmt.Println("configured in the config file (default config.yaml); every field can")
	fmt.Println("be overridden through SIM_* environment variables.")
}
