package main

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/devskill-org/enersim/setups"
)

// Config is the application configuration, read from a YAML/JSON file with
// environment variable overrides.
type Config struct {
	// Simulation horizon
	Year               int `json:"year" yaml:"year" env:"SIM_YEAR"`
	Days               int `json:"days" yaml:"days" env:"SIM_DAYS"`
	SecondsPerTimestep int `json:"seconds_per_timestep" yaml:"seconds_per_timestep" env:"SIM_SECONDS_PER_TIMESTEP"`

	// Output
	RunName         string `json:"run_name" yaml:"run_name" env:"SIM_RUN_NAME"`
	ResultDirectory string `json:"result_directory" yaml:"result_directory" env:"SIM_RESULT_DIRECTORY"`
	WriteCSV        bool   `json:"write_csv" yaml:"write_csv" env:"SIM_WRITE_CSV"`
	RenderCharts    bool   `json:"render_charts" yaml:"render_charts" env:"SIM_RENDER_CHARTS"`

	// Monitoring and persistence
	MonitorPort        int    `json:"monitor_port" yaml:"monitor_port" env:"SIM_MONITOR_PORT"`
	PostgresConnString string `json:"postgres_conn_string" yaml:"postgres_conn_string" env:"SIM_POSTGRES_CONN_STRING"`

	// System setup
	Predictive bool                    `json:"predictive" yaml:"predictive" env:"SIM_PREDICTIVE"`
	Household  setups.HouseholdOptions `json:"household" yaml:"household"`

	// Logging
	LogLevel string `json:"log_level" yaml:"log_level" env:"SIM_LOG_LEVEL"`
}

// DefaultConfig returns a configuration with default values: a one-week run
// at 15 minute resolution with CSV export enabled.
func DefaultConfig() *Config {
	return &Config{
		Year:               2021,
		Days:               7,
		SecondsPerTimestep: 900,
		RunName:            "basic_household",
		ResultDirectory:    "results",
		WriteCSV:           true,
		RenderCharts:       false,
		MonitorPort:        0,
		Predictive:         false,
		Household:          setups.DefaultHouseholdOptions(),
		LogLevel:           "info",
	}
}

// LoadConfig populates the defaults from the given file when it exists, then
// applies environment overrides.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(filename); err == nil {
		if err := cleanenv.ReadConfig(filename, config); err != nil {
			return nil, err
		}
		return config, nil
	}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}
