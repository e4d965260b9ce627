package components

import (
	"testing"

	"github.com/devskill-org/enersim/simulation"
)

// Default config: 55 °C setpoint with a 5 K half band, so on below 50 °C and
// off above 60 °C.
func TestThermostatHysteresis(t *testing.T) {
	parameters := testParameters(900)
	reference := newConstSource("Reference", simulation.LoadTypeTemperature, simulation.UnitCelsius, 45, parameters)
	thermostat := NewThermostat(DefaultThermostatConfig(), parameters)
	if err := thermostat.ConnectInput(ThermostatReferenceTemperature, "Reference", "Value"); err != nil {
		t.Fatal(err)
	}
	sim := buildSim(t, parameters, reference, thermostat)

	steps := []struct {
		temperature float64
		wantSignal  float64
	}{
		{45, 1}, // below the band: on
		{58, 1}, // inside the band: hold
		{62, 0}, // above the band: off
		{55, 0}, // back inside the band: hold
		{49, 1}, // below again: on
	}
	for step, tt := range steps {
		reference.value = tt.temperature
		values, _, err := sim.ProcessOneTimestep(step)
		if err != nil {
			t.Fatal(err)
		}
		signal := outputValue(t, sim, values, "Thermostat # ControlSignal")
		if signal != tt.wantSignal {
			t.Errorf("step %d at %v °C: signal = %v, want %v", step, tt.temperature, signal, tt.wantSignal)
		}
	}
}

func TestThermostatFreezesUnderForcedConvergence(t *testing.T) {
	parameters := testParameters(900)
	thermostat := NewThermostat(DefaultThermostatConfig(), parameters)
	thermostat.state.Signal = 1
	for i, output := range thermostat.Outputs() {
		output.GlobalIndex = i
	}
	values := simulation.NewSingleTimeStepValues(len(thermostat.Outputs()))

	// a forced pass must replay the last decision without re-evaluating
	if err := thermostat.Simulate(0, values, true); err != nil {
		t.Fatal(err)
	}
	if values.Values[0] != 1 {
		t.Errorf("forced pass changed the decision to %v", values.Values[0])
	}
}
