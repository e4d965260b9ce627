package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if config.Year != 2021 || config.Days != 7 || config.SecondsPerTimestep != 900 {
		t.Errorf("unexpected default horizon: %+v", config)
	}
	if !config.WriteCSV {
		t.Error("CSV export should default to on")
	}
	if config.Household.Battery.CapacityWh != 10e3 {
		t.Errorf("battery capacity default = %v, want 10000", config.Household.Battery.CapacityWh)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("year: 2022\ndays: 1\nrun_name: short_run\nmonitor_port: 8080\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.Year != 2022 || config.Days != 1 {
		t.Errorf("file values not applied: %+v", config)
	}
	if config.RunName != "short_run" {
		t.Errorf("run name = %q, want short_run", config.RunName)
	}
	if config.MonitorPort != 8080 {
		t.Errorf("monitor port = %d, want 8080", config.MonitorPort)
	}
	// untouched fields keep their defaults
	if config.SecondsPerTimestep != 900 {
		t.Errorf("seconds per timestep = %d, want the 900 default", config.SecondsPerTimestep)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SIM_DAYS", "3")
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if config.Days != 3 {
		t.Errorf("days = %d, want the 3 from SIM_DAYS", config.Days)
	}
}
