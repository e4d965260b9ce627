package components

import (
	"github.com/devskill-org/enersim/simulation"
)

// EMSController field names.
const (
	EMSPvPower            = "PvPower"
	EMSConsumption        = "Consumption"
	EMSBatteryAcPower     = "BatteryAcPower"
	EMSBatteryTargetPower = "BatteryTargetPower"
	EMSGridPower          = "GridPower"
)

// EMSControllerConfig parameterizes the electricity balance controller.
type EMSControllerConfig struct {
	Name string `json:"name" yaml:"name"`
}

// DefaultEMSControllerConfig returns the default name.
func DefaultEMSControllerConfig() EMSControllerConfig {
	return EMSControllerConfig{Name: "EMSController"}
}

// EMSController is a simple self-consumption energy management strategy: the
// PV surplus over the household consumption becomes the battery charging
// target (a deficit becomes a discharge target), and whatever the battery
// actually absorbs or delivers determines the residual grid power.
//
// The battery AC power input closes a feedback cycle: the controller reads
// the battery's reaction from the previous iteration pass, which is exactly
// the circular dependency the fixed-point solver resolves.
type EMSController struct {
	simulation.BaseComponent

	pvPowerInput        *simulation.ComponentInput
	consumptionInput    *simulation.ComponentInput
	batteryAcPowerInput *simulation.ComponentInput
	batteryTargetOutput *simulation.ComponentOutput
	gridPowerOutput     *simulation.ComponentOutput
}

// NewEMSController builds the controller and registers its slots.
func NewEMSController(config EMSControllerConfig, parameters *simulation.SimulationParameters) *EMSController {
	e := &EMSController{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
	}
	e.pvPowerInput = e.AddInput(EMSPvPower, simulation.LoadTypeElectricity, simulation.UnitWatt, true)
	e.consumptionInput = e.AddInput(EMSConsumption, simulation.LoadTypeElectricity, simulation.UnitWatt, true)
	e.batteryAcPowerInput = e.AddInput(EMSBatteryAcPower, simulation.LoadTypeElectricity, simulation.UnitWatt, false)
	e.batteryTargetOutput = e.AddOutput(EMSBatteryTargetPower, simulation.LoadTypeElectricity, simulation.UnitWatt)
	e.gridPowerOutput = e.AddOutput(EMSGridPower, simulation.LoadTypeElectricity, simulation.UnitWatt)
	return e
}

// SaveState is a no-op: the controller has no mutable state.
func (e *EMSController) SaveState() {}

// RestoreState is a no-op: the controller has no mutable state.
func (e *EMSController) RestoreState() {}

// Simulate computes the power balance.
// Balance: PV + grid import + battery discharge = consumption + battery charge.
func (e *EMSController) Simulate(_ int, values *simulation.SingleTimeStepValues, _ bool) error {
	pv := values.GetInputValue(e.pvPowerInput)
	consumption := values.GetInputValue(e.consumptionInput)
	batteryAc := values.GetInputValue(e.batteryAcPowerInput)

	surplus := pv - consumption
	values.SetOutputValue(e.batteryTargetOutput, surplus)
	// positive = import, negative = export
	values.SetOutputValue(e.gridPowerOutput, consumption+batteryAc-pv)
	return nil
}

// DoubleCheck has nothing to verify for the controller; the battery checks
// its own SOC bounds.
func (e *EMSController) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }
