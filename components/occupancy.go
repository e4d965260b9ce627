package components

import (
	"github.com/devskill-org/enersim/simulation"
)

// Occupancy field names.
const (
	OccupancyElectricityConsumption = "ElectricityConsumption"
	OccupancyHeatingByResidents     = "HeatingByResidents"
)

// OccupancyConfig parameterizes the resident load profile.
type OccupancyConfig struct {
	Name      string `json:"name" yaml:"name"`
	Residents int    `json:"residents" yaml:"residents"`
}

// DefaultOccupancyConfig returns a two-person household.
func DefaultOccupancyConfig() OccupancyConfig {
	return OccupancyConfig{Name: "Occupancy", Residents: 2}
}

// Baseline per-resident electricity demand in Watt for each hour of the day.
// Morning and evening peaks, nighttime base load.
var hourlyElectricityPerResident = [24]float64{
	60, 55, 55, 55, 60, 90, 160, 220, 180, 130, 120, 140,
	160, 140, 130, 140, 190, 260, 320, 300, 260, 200, 120, 80,
}

// Sensible heat emitted per resident in Watt, higher while at home.
var hourlyHeatPerResident = [24]float64{
	80, 80, 80, 80, 80, 80, 90, 60, 30, 30, 30, 30,
	30, 30, 30, 40, 70, 90, 90, 90, 90, 90, 85, 80,
}

// Occupancy provides the household electricity consumption and the sensible
// heat gain from residents as fixed daily profiles.
type Occupancy struct {
	simulation.BaseComponent
	config OccupancyConfig

	electricityOutput *simulation.ComponentOutput
	heatOutput        *simulation.ComponentOutput
}

// NewOccupancy builds the occupancy component and registers its outputs.
func NewOccupancy(config OccupancyConfig, parameters *simulation.SimulationParameters) *Occupancy {
	o := &Occupancy{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
	}
	o.electricityOutput = o.AddOutput(OccupancyElectricityConsumption, simulation.LoadTypeElectricity, simulation.UnitWatt)
	o.heatOutput = o.AddOutput(OccupancyHeatingByResidents, simulation.LoadTypeHeating, simulation.UnitWatt)
	return o
}

// SaveState is a no-op: the profile has no mutable state.
func (o *Occupancy) SaveState() {}

// RestoreState is a no-op: the profile has no mutable state.
func (o *Occupancy) RestoreState() {}

// Simulate writes the profile values for the timestep's hour of day.
func (o *Occupancy) Simulate(timestep int, values *simulation.SingleTimeStepValues, _ bool) error {
	hour := o.SimulationParameters().TimestampAt(timestep).Hour()
	residents := float64(o.config.Residents)
	values.SetOutputValue(o.electricityOutput, hourlyElectricityPerResident[hour]*residents)
	values.SetOutputValue(o.heatOutput, hourlyHeatPerResident[hour]*residents)
	return nil
}

// DoubleCheck has nothing to verify for the occupancy profile.
func (o *Occupancy) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }
