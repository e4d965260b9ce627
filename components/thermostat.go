package components

import (
	"github.com/devskill-org/enersim/simulation"
)

// Thermostat field names.
const (
	ThermostatReferenceTemperature = "ReferenceTemperature"
	ThermostatControlSignal        = "ControlSignal"
)

// ThermostatConfig parameterizes the hysteresis controller.
type ThermostatConfig struct {
	Name           string  `json:"name" yaml:"name"`
	SetTemperature float64 `json:"set_temperature" yaml:"set_temperature"` // °C
	Offset         float64 `json:"offset" yaml:"offset"`                   // °C half band width
}

// DefaultThermostatConfig returns a 55 °C buffer tank setpoint with a 5 K
// band.
func DefaultThermostatConfig() ThermostatConfig {
	return ThermostatConfig{Name: "Thermostat", SetTemperature: 55, Offset: 5}
}

type thermostatState struct {
	Signal float64
}

func (s thermostatState) clone() thermostatState { return s }

// Thermostat is a two-point hysteresis controller: switch on below
// setpoint-offset, off above setpoint+offset, hold the previous decision
// inside the band. It typically closes a feedback cycle in the graph, so its
// force-convergence behavior matters: once the solver gives up on genuine
// convergence the thermostat freezes its last decision instead of flipping.
type Thermostat struct {
	simulation.BaseComponent
	config        ThermostatConfig
	state         thermostatState
	previousState thermostatState

	referenceInput *simulation.ComponentInput
	signalOutput   *simulation.ComponentOutput
}

// NewThermostat builds the controller and registers its slots.
func NewThermostat(config ThermostatConfig, parameters *simulation.SimulationParameters) *Thermostat {
	t := &Thermostat{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
	}
	t.referenceInput = t.AddInput(ThermostatReferenceTemperature, simulation.LoadTypeTemperature, simulation.UnitCelsius, true)
	t.signalOutput = t.AddOutput(ThermostatControlSignal, simulation.LoadTypeOnOff, simulation.UnitBinary)
	return t
}

// SaveState snapshots the current switch decision.
func (t *Thermostat) SaveState() { t.previousState = t.state.clone() }

// RestoreState returns to the snapshot taken at the start of the timestep.
func (t *Thermostat) RestoreState() { t.state = t.previousState.clone() }

// Simulate applies the hysteresis. Under forced convergence the decision is
// frozen at its last value.
func (t *Thermostat) Simulate(_ int, values *simulation.SingleTimeStepValues, forceConvergence bool) error {
	if !forceConvergence {
		reference := values.GetInputValue(t.referenceInput)
		switch {
		case reference < t.config.SetTemperature-t.config.Offset:
			t.state.Signal = 1
		case reference > t.config.SetTemperature+t.config.Offset:
			t.state.Signal = 0
		}
		// inside the band: keep the previous decision
	}
	values.SetOutputValue(t.signalOutput, t.state.Signal)
	return nil
}

// DoubleCheck has nothing to verify for the controller.
func (t *Thermostat) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }
