// Package setups contains ready-made system setups: functions that construct
// and wire a complete component graph into a simulator.
package setups

import (
	"fmt"

	"github.com/devskill-org/enersim/components"
	"github.com/devskill-org/enersim/simulation"
)

// HouseholdOptions selects the component parameters of the reference
// household setup. The zero value is not usable; start from
// DefaultHouseholdOptions.
type HouseholdOptions struct {
	Weather     components.WeatherConfig
	PVSystem    components.PVSystemConfig
	Occupancy   components.OccupancyConfig
	Building    components.BuildingConfig
	GasHeater   components.GasHeaterConfig
	HeatStorage components.HeatStorageConfig
	Thermostat  components.ThermostatConfig
	Battery     components.BatteryConfig

	// Predictive switches the battery from the reactive EMS surplus target
	// to the plan-ahead dispatcher.
	Predictive bool
	Forecast   []components.HourlyForecast
}

// DefaultHouseholdOptions returns the reference parameter set.
func DefaultHouseholdOptions() HouseholdOptions {
	return HouseholdOptions{
		Weather:     components.DefaultWeatherConfig(),
		PVSystem:    components.DefaultPVSystemConfig(),
		Occupancy:   components.DefaultOccupancyConfig(),
		Building:    components.DefaultBuildingConfig(),
		GasHeater:   components.DefaultGasHeaterConfig(),
		HeatStorage: components.DefaultHeatStorageConfig(),
		Thermostat:  components.DefaultThermostatConfig(),
		Battery:     components.DefaultBatteryConfig(),
	}
}

// BasicHousehold builds the reference household: a PV system and battery on
// the electrical side and a gas heater charging a buffer tank that heats the
// building on the thermal side. Both sides contain control cycles
// (thermostat → heater → tank → thermostat, EMS → battery → EMS) that the
// engine resolves by fixed-point iteration.
//
// Components are added in a fixed order; that order is part of the setup
// because it decides which outputs a component reads from the current pass
// versus the previous one.
func BasicHousehold(parameters *simulation.SimulationParameters, options HouseholdOptions) (*simulation.Simulator, error) {
	sim := simulation.NewSimulator("basic_household")
	sim.SetSimulationParameters(parameters)

	weather := components.NewWeather(options.Weather, parameters)
	occupancy := components.NewOccupancy(options.Occupancy, parameters)
	pv := components.NewPVSystem(options.PVSystem, parameters)
	ems := components.NewEMSController(components.DefaultEMSControllerConfig(), parameters)
	battery := components.NewBattery(options.Battery, parameters)
	gasHeater := components.NewGasHeater(options.GasHeater, parameters)
	heatStorage := components.NewHeatStorage(options.HeatStorage, parameters)
	thermostat := components.NewThermostat(options.Thermostat, parameters)
	building := components.NewBuilding(options.Building, parameters)

	// Electrical side.
	if err := pv.ConnectOnlyPredefinedConnections(weather); err != nil {
		return nil, err
	}
	if err := ems.ConnectInput(components.EMSPvPower, pv.ComponentName(), components.PVSystemElectricityOutput); err != nil {
		return nil, err
	}
	if err := ems.ConnectInput(components.EMSConsumption, occupancy.ComponentName(), components.OccupancyElectricityConsumption); err != nil {
		return nil, err
	}
	if err := ems.ConnectInput(components.EMSBatteryAcPower, battery.ComponentName(), components.BatteryAcPower); err != nil {
		return nil, err
	}

	var dispatch *components.PredictiveDispatch
	if options.Predictive {
		config := predictiveConfig(options)
		var err error
		dispatch, err = components.NewPredictiveDispatch(config, parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to build predictive dispatch: %w", err)
		}
		if err := battery.ConnectInput(components.BatteryTargetPower, dispatch.ComponentName(), components.PredictiveDispatchPower); err != nil {
			return nil, err
		}
	} else {
		if err := battery.ConnectInput(components.BatteryTargetPower, ems.ComponentName(), components.EMSBatteryTargetPower); err != nil {
			return nil, err
		}
	}

	// Thermal side.
	if err := gasHeater.ConnectInput(components.GasHeaterControlSignal, thermostat.ComponentName(), components.ThermostatControlSignal); err != nil {
		return nil, err
	}
	if err := heatStorage.ConnectInput(components.HeatStorageChargingPower, gasHeater.ComponentName(), components.GasHeaterThermalPowerDelivered); err != nil {
		return nil, err
	}
	if err := heatStorage.ConnectInput(components.HeatStorageReferenceTemperature, building.ComponentName(), components.BuildingIndoorTemperature); err != nil {
		return nil, err
	}
	if err := thermostat.ConnectInput(components.ThermostatReferenceTemperature, heatStorage.ComponentName(), components.HeatStorageWaterTemperature); err != nil {
		return nil, err
	}
	if err := building.ConnectOnlyPredefinedConnections(weather); err != nil {
		return nil, err
	}
	if err := building.ConnectInput(components.BuildingThermalPowerDelivered, heatStorage.ComponentName(), components.HeatStorageDeliveredPower); err != nil {
		return nil, err
	}
	if err := building.ConnectInput(components.BuildingHeatGainByResidents, occupancy.ComponentName(), components.OccupancyHeatingByResidents); err != nil {
		return nil, err
	}

	// Registration order is the iteration order of the solver.
	componentList := []simulation.Component{weather, occupancy, pv, ems}
	if dispatch != nil {
		componentList = append(componentList, dispatch)
	}
	componentList = append(componentList, battery, gasHeater, heatStorage, thermostat, building)
	for _, component := range componentList {
		if err := sim.AddComponent(component); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

// predictiveConfig maps the household options onto the dispatcher config,
// with a flat fallback forecast when none is provided.
func predictiveConfig(options HouseholdOptions) components.PredictiveDispatchConfig {
	forecast := options.Forecast
	if len(forecast) == 0 {
		forecast = make([]components.HourlyForecast, 24)
		for i := range forecast {
			forecast[i] = components.HourlyForecast{
				ImportPrice:    0.30,
				ExportPrice:    0.08,
				LoadForecastW:  400,
				SolarForecastW: 0,
			}
		}
	}
	return components.PredictiveDispatchConfig{
		Name:               "PredictiveDispatch",
		Forecast:           forecast,
		CapacityWh:         options.Battery.CapacityWh,
		MaxChargeWatt:      options.Battery.MaxChargeWatt,
		MaxDischargeWatt:   options.Battery.MaxDischargeWatt,
		MinStateOfCharge:   options.Battery.MinStateOfCharge,
		MaxStateOfCharge:   options.Battery.MaxStateOfCharge,
		ChargeEfficiency:   options.Battery.ChargeEfficiency,
		DegradationCostKWh: 0.01,
		MaxGridImportWatt:  20e3,
		MaxGridExportWatt:  20e3,
		InitialSOC:         options.Battery.InitialSOC,
	}
}
