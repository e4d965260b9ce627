package components

import (
	"fmt"

	"github.com/devskill-org/enersim/simulation"
)

// Building field names.
const (
	BuildingThermalPowerDelivered = "ThermalPowerDelivered"
	BuildingAmbientTemperature    = "AmbientTemperature"
	BuildingHeatGainByResidents   = "HeatGainByResidents"
	BuildingIndoorTemperature     = "IndoorTemperature"
	BuildingHeatLoss              = "HeatLoss"
)

// BuildingConfig parameterizes the one-node RC thermal model.
type BuildingConfig struct {
	Name               string  `json:"name" yaml:"name"`
	HeatCapacityJPerK  float64 `json:"heat_capacity_j_per_k" yaml:"heat_capacity_j_per_k"`
	ThermalConductance float64 `json:"thermal_conductance_w_per_k" yaml:"thermal_conductance_w_per_k"` // UA value
	InitialTemperature float64 `json:"initial_temperature" yaml:"initial_temperature"`                 // °C
}

// DefaultBuildingConfig returns a moderately insulated single family house.
func DefaultBuildingConfig() BuildingConfig {
	return BuildingConfig{
		Name:               "Building",
		HeatCapacityJPerK:  35e6,
		ThermalConductance: 180,
		InitialTemperature: 21,
	}
}

type buildingState struct {
	IndoorTemperatureC float64
}

func (s buildingState) clone() buildingState { return s }

// Building is a one-node RC thermal model: a single lumped heat capacity
// exchanging heat with the ambient through one conductance, heated by the
// delivered thermal power and the residents.
type Building struct {
	simulation.BaseComponent
	config        BuildingConfig
	state         buildingState
	previousState buildingState

	thermalPowerInput *simulation.ComponentInput
	ambientInput      *simulation.ComponentInput
	residentHeatInput *simulation.ComponentInput
	indoorOutput      *simulation.ComponentOutput
	heatLossOutput    *simulation.ComponentOutput
}

// NewBuilding builds the thermal model and registers its slots.
func NewBuilding(config BuildingConfig, parameters *simulation.SimulationParameters) *Building {
	b := &Building{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
		state:         buildingState{IndoorTemperatureC: config.InitialTemperature},
	}
	b.thermalPowerInput = b.AddInput(BuildingThermalPowerDelivered, simulation.LoadTypeHeating, simulation.UnitWatt, true)
	b.ambientInput = b.AddInput(BuildingAmbientTemperature, simulation.LoadTypeTemperature, simulation.UnitCelsius, true)
	b.residentHeatInput = b.AddInput(BuildingHeatGainByResidents, simulation.LoadTypeHeating, simulation.UnitWatt, false)
	b.indoorOutput = b.AddOutput(BuildingIndoorTemperature, simulation.LoadTypeTemperature, simulation.UnitCelsius)
	b.heatLossOutput = b.AddOutput(BuildingHeatLoss, simulation.LoadTypeHeating, simulation.UnitWatt)
	b.AddDefaultConnections([]simulation.Connection{
		{TargetInputName: BuildingAmbientTemperature, SourceClassName: "Weather", SourceOutputName: WeatherAmbientTemperature},
	})
	return b
}

// SaveState snapshots the indoor temperature.
func (b *Building) SaveState() { b.previousState = b.state.clone() }

// RestoreState returns to the snapshot taken at the start of the timestep.
func (b *Building) RestoreState() { b.state = b.previousState.clone() }

// Simulate integrates the indoor temperature over one timestep with a single
// explicit Euler step.
func (b *Building) Simulate(_ int, values *simulation.SingleTimeStepValues, _ bool) error {
	heatingPower := values.GetInputValue(b.thermalPowerInput)
	ambient := values.GetInputValue(b.ambientInput)
	residentHeat := values.GetInputValue(b.residentHeatInput)

	loss := b.config.ThermalConductance * (b.state.IndoorTemperatureC - ambient)
	dt := b.SimulationParameters().TimestepSeconds()
	b.state.IndoorTemperatureC += dt * (heatingPower + residentHeat - loss) / b.config.HeatCapacityJPerK

	values.SetOutputValue(b.indoorOutput, b.state.IndoorTemperatureC)
	values.SetOutputValue(b.heatLossOutput, loss)
	return nil
}

// DoubleCheck verifies the indoor temperature stayed physically plausible.
// Leaving the range means a mis-wired heat source or a broken timestep, which
// must abort the run instead of producing silently wrong results.
func (b *Building) DoubleCheck(timestep int, values *simulation.SingleTimeStepValues) error {
	indoor := values.Values[b.indoorOutput.GlobalIndex]
	if indoor < -40 || indoor > 100 {
		return fmt.Errorf("indoor temperature %.2f °C out of physical range at timestep %d", indoor, timestep)
	}
	return nil
}
