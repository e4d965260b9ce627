package components

import (
	"testing"
)

func TestWeatherIrradianceFollowsTheSun(t *testing.T) {
	parameters := testParameters(3600)
	weather := NewWeather(DefaultWeatherConfig(), parameters)
	sim := buildSim(t, parameters, weather)

	// midnight on January 1st
	values, _, err := sim.ProcessOneTimestep(0)
	if err != nil {
		t.Fatal(err)
	}
	if irradiance := outputValue(t, sim, values, "Weather # GlobalIrradiance"); irradiance != 0 {
		t.Errorf("irradiance at midnight = %v, want 0", irradiance)
	}

	// noon
	values, _, err = sim.ProcessOneTimestep(12)
	if err != nil {
		t.Fatal(err)
	}
	if irradiance := outputValue(t, sim, values, "Weather # GlobalIrradiance"); irradiance <= 0 {
		t.Errorf("irradiance at noon = %v, want > 0", irradiance)
	}
}

func TestWeatherSignalsStayPlausible(t *testing.T) {
	parameters := testParameters(3600)
	weather := NewWeather(DefaultWeatherConfig(), parameters)
	sim := buildSim(t, parameters, weather)

	for step := 0; step < parameters.Timesteps; step++ {
		values, _, err := sim.ProcessOneTimestep(step)
		if err != nil {
			t.Fatal(err)
		}
		temperature := outputValue(t, sim, values, "Weather # AmbientTemperature")
		if temperature < -30 || temperature > 45 {
			t.Errorf("step %d: ambient temperature %v °C out of plausible range", step, temperature)
		}
		irradiance := outputValue(t, sim, values, "Weather # GlobalIrradiance")
		if irradiance < 0 || irradiance > 1000 {
			t.Errorf("step %d: irradiance %v W/m² out of range", step, irradiance)
		}
		wind := outputValue(t, sim, values, "Weather # WindSpeed")
		if wind < 0 {
			t.Errorf("step %d: negative wind speed %v", step, wind)
		}
	}
}

func TestWeatherIsDeterministic(t *testing.T) {
	run := func() []float64 {
		parameters := testParameters(3600)
		weather := NewWeather(DefaultWeatherConfig(), parameters)
		sim := buildSim(t, parameters, weather)
		var series []float64
		for step := 0; step < parameters.Timesteps; step++ {
			values, _, err := sim.ProcessOneTimestep(step)
			if err != nil {
				t.Fatal(err)
			}
			series = append(series, values.Values...)
		}
		return series
	}
	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("value %d differs between identical runs: %v vs %v", i, first[i], second[i])
		}
	}
}
