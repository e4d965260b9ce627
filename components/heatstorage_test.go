package components

import (
	"math"
	"testing"

	"github.com/devskill-org/enersim/simulation"
)

func buildStorageSim(t *testing.T, chargingPower, referenceTemp float64) (*simulation.Simulator, *HeatStorage) {
	t.Helper()
	parameters := testParameters(900)
	charging := newConstSource("Charging", simulation.LoadTypeHeating, simulation.UnitWatt, chargingPower, parameters)
	reference := newConstSource("Reference", simulation.LoadTypeTemperature, simulation.UnitCelsius, referenceTemp, parameters)
	storage := NewHeatStorage(DefaultHeatStorageConfig(), parameters)
	if err := storage.ConnectInput(HeatStorageChargingPower, "Charging", "Value"); err != nil {
		t.Fatal(err)
	}
	if err := storage.ConnectInput(HeatStorageReferenceTemperature, "Reference", "Value"); err != nil {
		t.Fatal(err)
	}
	return buildSim(t, parameters, charging, reference, storage), storage
}

func TestHeatStorageDeliversFromTheTopLayer(t *testing.T) {
	// all layers at 50 °C, zone at 21 °C: 120 W/K * 29 K
	sim, _ := buildStorageSim(t, 0, 21)
	values, _, err := sim.ProcessOneTimestep(0)
	if err != nil {
		t.Fatal(err)
	}
	delivered := outputValue(t, sim, values, "HeatStorage # DeliveredPower")
	if math.Abs(delivered-3480) > 1e-9 {
		t.Errorf("delivered power = %v, want 3480", delivered)
	}
}

func TestHeatStorageNeverDeliversBackwards(t *testing.T) {
	// zone hotter than the tank: no reverse heat flow
	sim, _ := buildStorageSim(t, 0, 80)
	values, _, err := sim.ProcessOneTimestep(0)
	if err != nil {
		t.Fatal(err)
	}
	if delivered := outputValue(t, sim, values, "HeatStorage # DeliveredPower"); delivered != 0 {
		t.Errorf("delivered power = %v, want 0 when the zone is hotter", delivered)
	}
}

func TestHeatStorageChargingHeatsTheWater(t *testing.T) {
	sim, _ := buildStorageSim(t, 10e3, 21)
	previous := 50.0
	for step := 0; step < 4; step++ {
		values, _, err := sim.ProcessOneTimestep(step)
		if err != nil {
			t.Fatal(err)
		}
		mean := outputValue(t, sim, values, "HeatStorage # WaterTemperature")
		if mean <= previous {
			t.Fatalf("step %d: mean temperature %v did not rise from %v under 10 kW charging", step, mean, previous)
		}
		previous = mean
	}
}

func TestHeatStorageCoolsThroughStandingLosses(t *testing.T) {
	// no charging, zone at tank temperature: only the standing losses act
	sim, _ := buildStorageSim(t, 0, 50)
	values, _, err := sim.ProcessOneTimestep(0)
	if err != nil {
		t.Fatal(err)
	}
	mean := outputValue(t, sim, values, "HeatStorage # WaterTemperature")
	if mean >= 50 {
		t.Errorf("mean temperature %v did not drop below 50 through standing losses", mean)
	}
}

func TestHeatStorageStateCloneIsDeep(t *testing.T) {
	original := heatStorageState{LayerTemperaturesC: []float64{40, 50, 60}}
	clone := original.clone()
	clone.LayerTemperaturesC[0] = 0
	if original.LayerTemperaturesC[0] != 40 {
		t.Error("clone shares the layer slice with the original")
	}
}
