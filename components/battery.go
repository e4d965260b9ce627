package components

import (
	"fmt"

	"github.com/devskill-org/enersim/simulation"
)

// Battery field names.
const (
	BatteryTargetPower   = "TargetPower"
	BatteryAcPower       = "AcBatteryPower"
	BatteryStateOfCharge = "StateOfCharge"
)

// BatteryConfig parameterizes the electrical storage model.
type BatteryConfig struct {
	Name             string  `json:"name" yaml:"name"`
	CapacityWh       float64 `json:"capacity_wh" yaml:"capacity_wh"`
	MaxChargeWatt    float64 `json:"max_charge_watt" yaml:"max_charge_watt"`
	MaxDischargeWatt float64 `json:"max_discharge_watt" yaml:"max_discharge_watt"`
	MinStateOfCharge float64 `json:"min_state_of_charge" yaml:"min_state_of_charge"` // 0-1
	MaxStateOfCharge float64 `json:"max_state_of_charge" yaml:"max_state_of_charge"` // 0-1
	ChargeEfficiency float64 `json:"charge_efficiency" yaml:"charge_efficiency"`     // 0-1, applied on charging
	InitialSOC       float64 `json:"initial_soc" yaml:"initial_soc"`                 // 0-1
}

// DefaultBatteryConfig returns a 10 kWh home battery.
func DefaultBatteryConfig() BatteryConfig {
	return BatteryConfig{
		Name:             "Battery",
		CapacityWh:       10e3,
		MaxChargeWatt:    5e3,
		MaxDischargeWatt: 5e3,
		MinStateOfCharge: 0.1,
		MaxStateOfCharge: 0.95,
		ChargeEfficiency: 0.92,
		InitialSOC:       0.5,
	}
}

type batteryState struct {
	StoredEnergyWh float64
}

func (s batteryState) clone() batteryState { return s }

// Battery stores electricity with a charging efficiency and SOC limits. The
// target power input is a request (positive = charge, negative = discharge);
// the AC power output reports what the battery actually did after clamping
// against power and SOC limits.
type Battery struct {
	simulation.BaseComponent
	config        BatteryConfig
	state         batteryState
	previousState batteryState

	targetPowerInput *simulation.ComponentInput
	acPowerOutput    *simulation.ComponentOutput
	socOutput        *simulation.ComponentOutput
}

// NewBattery builds the storage model and registers its slots.
func NewBattery(config BatteryConfig, parameters *simulation.SimulationParameters) *Battery {
	b := &Battery{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
		state:         batteryState{StoredEnergyWh: config.InitialSOC * config.CapacityWh},
	}
	b.targetPowerInput = b.AddInput(BatteryTargetPower, simulation.LoadTypeElectricity, simulation.UnitWatt, true)
	b.acPowerOutput = b.AddOutput(BatteryAcPower, simulation.LoadTypeElectricity, simulation.UnitWatt)
	b.socOutput = b.AddOutput(BatteryStateOfCharge, simulation.LoadTypeAny, simulation.UnitPercent)
	return b
}

// SaveState snapshots the stored energy.
func (b *Battery) SaveState() { b.previousState = b.state.clone() }

// RestoreState returns to the snapshot taken at the start of the timestep.
func (b *Battery) RestoreState() { b.state = b.previousState.clone() }

// Simulate clamps the requested power against the power and SOC limits and
// integrates the stored energy over one timestep.
func (b *Battery) Simulate(_ int, values *simulation.SingleTimeStepValues, _ bool) error {
	target := values.GetInputValue(b.targetPowerInput)
	dtHours := b.SimulationParameters().TimestepSeconds() / 3600.0

	power := target
	if power > 0 {
		// charging
		if power > b.config.MaxChargeWatt {
			power = b.config.MaxChargeWatt
		}
		headroomWh := b.config.MaxStateOfCharge*b.config.CapacityWh - b.state.StoredEnergyWh
		maxByCapacity := headroomWh / (b.config.ChargeEfficiency * dtHours)
		if power > maxByCapacity {
			power = maxByCapacity
		}
		if power < 0 {
			power = 0
		}
		b.state.StoredEnergyWh += power * b.config.ChargeEfficiency * dtHours
	} else if power < 0 {
		// discharging
		if power < -b.config.MaxDischargeWatt {
			power = -b.config.MaxDischargeWatt
		}
		availableWh := b.state.StoredEnergyWh - b.config.MinStateOfCharge*b.config.CapacityWh
		maxByCapacity := availableWh / dtHours
		if -power > maxByCapacity {
			power = -maxByCapacity
		}
		if power > 0 {
			power = 0
		}
		b.state.StoredEnergyWh += power * dtHours
	}

	values.SetOutputValue(b.acPowerOutput, power)
	values.SetOutputValue(b.socOutput, b.state.StoredEnergyWh/b.config.CapacityWh*100)
	return nil
}

// DoubleCheck verifies the state of charge stayed within the configured
// limits. Violating them means the clamping logic or the wiring is broken.
func (b *Battery) DoubleCheck(timestep int, values *simulation.SingleTimeStepValues) error {
	soc := values.Values[b.socOutput.GlobalIndex] / 100
	if soc < b.config.MinStateOfCharge-1e-9 || soc > b.config.MaxStateOfCharge+1e-9 {
		return fmt.Errorf("state of charge %.4f outside [%.2f, %.2f] at timestep %d",
			soc, b.config.MinStateOfCharge, b.config.MaxStateOfCharge, timestep)
	}
	return nil
}
