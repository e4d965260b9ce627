// Package simulation contains the core simulation engine: the component
// abstraction, the output value buffer, the wiring phase and the per-timestep
// fixed-point solver.
package simulation

// LoadType classifies what kind of physical flow an output carries. Named
// constants so that connections are checked against the same strings
// everywhere and no typos happen.
type LoadType string

const (
	LoadTypeAny LoadType = "Any"

	LoadTypeElectricity LoadType = "Electricity"
	LoadTypeIrradiance  LoadType = "Irradiance"
	LoadTypeSpeed       LoadType = "Speed"
	LoadTypeHeating     LoadType = "Heating"
	LoadTypeCooling     LoadType = "Cooling"

	LoadTypeVolume      LoadType = "Volume"
	LoadTypeTemperature LoadType = "Temperature"
	LoadTypeTime        LoadType = "Time"

	// Substances
	LoadTypeGas       LoadType = "Gas"
	LoadTypeHydrogen  LoadType = "Hydrogen"
	LoadTypeOxygen    LoadType = "Oxygen"
	LoadTypeWater     LoadType = "Water"
	LoadTypeWarmWater LoadType = "WarmWater"

	LoadTypeOil             LoadType = "Oil"
	LoadTypeDistrictHeating LoadType = "DistrictHeating"

	LoadTypePrice LoadType = "Price"

	// Controllers. OnOff encoding: 0 means off and 1 means on.
	LoadTypeOnOff      LoadType = "OnOff"
	LoadTypeActivation LoadType = "Activation"
)

// Unit is the physical unit of an output value. Members are written
// extensively ("Watt" instead of "W") and follow SI where possible; no
// multipliers except Kilowatt/Kilogram where the plain form is avoided.
type Unit string

const (
	// Unphysical
	UnitAny     Unit = "-"
	UnitPercent Unit = "%"

	// Power
	UnitWatt            Unit = "W"
	UnitKilowatt        Unit = "kW"
	UnitKWhPerTimestep  Unit = "kWh per timestep"
	UnitWattPerSquareM  Unit = "W per square meter"
	UnitWhPerSquareM    Unit = "Wh per square meter"

	// Speed
	UnitMeterPerSecond Unit = "m/s"

	// Energy
	UnitWattHour Unit = "Wh"
	UnitKWh      Unit = "kWh"

	// Volume
	UnitLiter            Unit = "L"
	UnitLiterPerTimestep Unit = "Liter per timestep"

	// Mass
	UnitKilogram    Unit = "kg"
	UnitKgPerSecond Unit = "kg/s"

	// Temperature
	UnitCelsius Unit = "°C"
	UnitKelvin  Unit = "K"

	UnitDegrees Unit = "Degrees"

	// Time
	UnitSeconds   Unit = "s"
	UnitTimesteps Unit = "timesteps"

	// Cost
	UnitCentsPerKWh Unit = "Cents per kWh"

	// Binary for controllers
	UnitBinary Unit = "binary"
)
