package components

import (
	"fmt"

	"github.com/devskill-org/enersim/simulation"
)

// GasHeater field names.
const (
	GasHeaterControlSignal         = "ControlSignal"
	GasHeaterThermalPowerDelivered = "ThermalPowerDelivered"
	GasHeaterGasDemand             = "GasDemand"
)

// GasHeaterConfig parameterizes the gas boiler.
type GasHeaterConfig struct {
	Name             string  `json:"name" yaml:"name"`
	MaximalPowerWatt float64 `json:"maximal_power_watt" yaml:"maximal_power_watt"`
	Efficiency       float64 `json:"efficiency" yaml:"efficiency"` // 0-1 thermal efficiency
}

// DefaultGasHeaterConfig returns a 12 kW condensing boiler.
func DefaultGasHeaterConfig() GasHeaterConfig {
	return GasHeaterConfig{Name: "GasHeater", MaximalPowerWatt: 12e3, Efficiency: 0.93}
}

// GasHeater converts a 0..1 control signal into thermal power and the
// corresponding gas demand. It has no internal state; modulation is
// instantaneous at the timestep resolution of this simulator.
type GasHeater struct {
	simulation.BaseComponent
	config GasHeaterConfig

	controlSignalInput *simulation.ComponentInput
	thermalPowerOutput *simulation.ComponentOutput
	gasDemandOutput    *simulation.ComponentOutput
}

// NewGasHeater builds the boiler and registers its slots.
func NewGasHeater(config GasHeaterConfig, parameters *simulation.SimulationParameters) *GasHeater {
	g := &GasHeater{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
	}
	g.controlSignalInput = g.AddInput(GasHeaterControlSignal, simulation.LoadTypeOnOff, simulation.UnitBinary, true)
	g.thermalPowerOutput = g.AddOutput(GasHeaterThermalPowerDelivered, simulation.LoadTypeHeating, simulation.UnitWatt)
	g.gasDemandOutput = g.AddOutput(GasHeaterGasDemand, simulation.LoadTypeGas, simulation.UnitWatt)
	return g
}

// SaveState is a no-op: the boiler has no mutable state.
func (g *GasHeater) SaveState() {}

// RestoreState is a no-op: the boiler has no mutable state.
func (g *GasHeater) RestoreState() {}

// Simulate converts the control signal into heat and gas demand. A control
// signal outside [0, 1] is a non-recoverable configuration problem and aborts
// the run.
func (g *GasHeater) Simulate(_ int, values *simulation.SingleTimeStepValues, _ bool) error {
	signal := values.GetInputValue(g.controlSignalInput)
	if signal < 0 || signal > 1 {
		return fmt.Errorf("invalid control signal %f, must be within [0, 1]", signal)
	}
	gasPower := signal * g.config.MaximalPowerWatt
	values.SetOutputValue(g.thermalPowerOutput, gasPower*g.config.Efficiency)
	values.SetOutputValue(g.gasDemandOutput, gasPower)
	return nil
}

// DoubleCheck has nothing to verify for the boiler.
func (g *GasHeater) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }
