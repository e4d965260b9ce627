package components

import (
	"github.com/devskill-org/enersim/simulation"
)

// HeatStorage field names.
const (
	HeatStorageChargingPower        = "ChargingPower"
	HeatStorageReferenceTemperature = "ReferenceTemperature"
	HeatStorageWaterTemperature     = "WaterTemperature"
	HeatStorageDeliveredPower       = "DeliveredPower"
)

// Specific heat capacity of water per liter, J/(L·K).
const waterHeatCapacityJPerLiterK = 4186.0

// HeatStorageConfig parameterizes the stratified buffer tank.
type HeatStorageConfig struct {
	Name               string  `json:"name" yaml:"name"`
	VolumeLiter        float64 `json:"volume_liter" yaml:"volume_liter"`
	Layers             int     `json:"layers" yaml:"layers"`
	InitialTemperature float64 `json:"initial_temperature" yaml:"initial_temperature"` // °C
	CouplingWPerK      float64 `json:"coupling_w_per_k" yaml:"coupling_w_per_k"`       // heat delivery to the reference zone
	LossWPerK          float64 `json:"loss_w_per_k" yaml:"loss_w_per_k"`               // standing losses to the surroundings
	MixingWPerK        float64 `json:"mixing_w_per_k" yaml:"mixing_w_per_k"`           // conduction between adjacent layers
}

// DefaultHeatStorageConfig returns a 500 liter buffer with three layers.
func DefaultHeatStorageConfig() HeatStorageConfig {
	return HeatStorageConfig{
		Name:               "HeatStorage",
		VolumeLiter:        500,
		Layers:             3,
		InitialTemperature: 50,
		CouplingWPerK:      120,
		LossWPerK:          2.5,
		MixingWPerK:        30,
	}
}

// heatStorageState holds the per-layer water temperatures. The slice makes
// the deep-copy contract non-trivial: clone must copy the backing array, not
// the slice header.
type heatStorageState struct {
	LayerTemperaturesC []float64
}

func (s heatStorageState) clone() heatStorageState {
	layers := make([]float64, len(s.LayerTemperaturesC))
	copy(layers, s.LayerTemperaturesC)
	return heatStorageState{LayerTemperaturesC: layers}
}

// HeatStorage is a stratified hot water buffer tank. Charging power heats the
// bottom layer, heat is delivered to the reference zone from the top layer,
// adjacent layers exchange heat by conduction and every layer loses heat to
// the surroundings at an assumed 15 °C.
type HeatStorage struct {
	simulation.BaseComponent
	config        HeatStorageConfig
	state         heatStorageState
	previousState heatStorageState

	chargingPowerInput *simulation.ComponentInput
	referenceTempInput *simulation.ComponentInput
	waterTempOutput    *simulation.ComponentOutput
	deliveredOutput    *simulation.ComponentOutput
}

const storageSurroundingTemperatureC = 15.0

// NewHeatStorage builds the tank and registers its slots.
func NewHeatStorage(config HeatStorageConfig, parameters *simulation.SimulationParameters) *HeatStorage {
	layers := make([]float64, config.Layers)
	for i := range layers {
		layers[i] = config.InitialTemperature
	}
	h := &HeatStorage{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
		state:         heatStorageState{LayerTemperaturesC: layers},
	}
	h.chargingPowerInput = h.AddInput(HeatStorageChargingPower, simulation.LoadTypeHeating, simulation.UnitWatt, true)
	h.referenceTempInput = h.AddInput(HeatStorageReferenceTemperature, simulation.LoadTypeTemperature, simulation.UnitCelsius, true)
	h.waterTempOutput = h.AddOutput(HeatStorageWaterTemperature, simulation.LoadTypeWarmWater, simulation.UnitCelsius)
	h.deliveredOutput = h.AddOutput(HeatStorageDeliveredPower, simulation.LoadTypeHeating, simulation.UnitWatt)
	return h
}

// SaveState snapshots all layer temperatures.
func (h *HeatStorage) SaveState() { h.previousState = h.state.clone() }

// RestoreState returns to the snapshot taken at the start of the timestep.
func (h *HeatStorage) RestoreState() { h.state = h.previousState.clone() }

// Simulate advances the layer temperatures by one explicit Euler step and
// reports the mean water temperature and the power delivered to the zone.
func (h *HeatStorage) Simulate(_ int, values *simulation.SingleTimeStepValues, _ bool) error {
	chargingPower := values.GetInputValue(h.chargingPowerInput)
	referenceTemp := values.GetInputValue(h.referenceTempInput)

	layers := h.state.LayerTemperaturesC
	top := len(layers) - 1
	layerCapacity := h.config.VolumeLiter * waterHeatCapacityJPerLiterK / float64(len(layers))
	dt := h.SimulationParameters().TimestepSeconds()

	// Heat delivered to the zone from the top layer, only when the tank is
	// warmer than the zone.
	delivered := h.config.CouplingWPerK * (layers[top] - referenceTemp)
	if delivered < 0 {
		delivered = 0
	}

	power := make([]float64, len(layers))
	power[0] += chargingPower
	power[top] -= delivered
	for i := range layers {
		power[i] -= h.config.LossWPerK / float64(len(layers)) * (layers[i] - storageSurroundingTemperatureC)
		if i < top {
			exchange := h.config.MixingWPerK * (layers[i] - layers[i+1])
			power[i] -= exchange
			power[i+1] += exchange
		}
	}
	for i := range layers {
		layers[i] += dt * power[i] / layerCapacity
	}

	values.SetOutputValue(h.waterTempOutput, h.meanTemperature())
	values.SetOutputValue(h.deliveredOutput, delivered)
	return nil
}

// DoubleCheck has nothing beyond the building's range check to verify.
func (h *HeatStorage) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }

func (h *HeatStorage) meanTemperature() float64 {
	sum := 0.0
	for _, temperature := range h.state.LayerTemperaturesC {
		sum += temperature
	}
	return sum / float64(len(h.state.LayerTemperaturesC))
}
