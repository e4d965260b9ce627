package components

import (
	"github.com/devskill-org/enersim/simulation"
)

// PVSystem field names.
const (
	PVSystemIrradianceInput   = "IrradianceInput"
	PVSystemElectricityOutput = "ElectricityOutput"
)

// PVSystemConfig parameterizes the photovoltaic model.
type PVSystemConfig struct {
	Name          string  `json:"name" yaml:"name"`
	PeakPowerWatt float64 `json:"peak_power_watt" yaml:"peak_power_watt"`
	SystemLosses  float64 `json:"system_losses" yaml:"system_losses"` // 0-1, inverter and wiring losses
}

// DefaultPVSystemConfig returns a 10 kWp rooftop system.
func DefaultPVSystemConfig() PVSystemConfig {
	return PVSystemConfig{
		Name:          "PVSystem",
		PeakPowerWatt: 10e3,
		SystemLosses:  0.12,
	}
}

// PVSystem converts global irradiance into AC power: peak power scaled by
// irradiance relative to standard test conditions (1000 W/m²), derated by the
// system losses.
type PVSystem struct {
	simulation.BaseComponent
	config PVSystemConfig

	irradianceInput   *simulation.ComponentInput
	electricityOutput *simulation.ComponentOutput
}

// NewPVSystem builds the PV component, registers its slots and declares the
// default connection to a Weather component.
func NewPVSystem(config PVSystemConfig, parameters *simulation.SimulationParameters) *PVSystem {
	pv := &PVSystem{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
	}
	pv.irradianceInput = pv.AddInput(PVSystemIrradianceInput, simulation.LoadTypeIrradiance, simulation.UnitWattPerSquareM, true)
	pv.electricityOutput = pv.AddOutput(PVSystemElectricityOutput, simulation.LoadTypeElectricity, simulation.UnitWatt)
	pv.AddDefaultConnections([]simulation.Connection{
		{TargetInputName: PVSystemIrradianceInput, SourceClassName: "Weather", SourceOutputName: WeatherGlobalIrradiance},
	})
	return pv
}

// SaveState is a no-op: the PV model has no mutable state.
func (pv *PVSystem) SaveState() {}

// RestoreState is a no-op: the PV model has no mutable state.
func (pv *PVSystem) RestoreState() {}

// Simulate converts the irradiance input into electrical output power.
func (pv *PVSystem) Simulate(_ int, values *simulation.SingleTimeStepValues, _ bool) error {
	irradiance := values.GetInputValue(pv.irradianceInput)
	power := pv.config.PeakPowerWatt * irradiance / 1000.0 * (1 - pv.config.SystemLosses)
	if power < 0 {
		power = 0
	}
	values.SetOutputValue(pv.electricityOutput, power)
	return nil
}

// DoubleCheck has nothing to verify for the PV model.
func (pv *PVSystem) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }
