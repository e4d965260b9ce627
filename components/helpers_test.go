package components

import (
	"testing"
	"time"

	"github.com/devskill-org/enersim/simulation"
)

func testParameters(secondsPerTimestep int) *simulation.SimulationParameters {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	return simulation.NewSimulationParameters(start, start.AddDate(0, 0, 1), secondsPerTimestep)
}

// constSource feeds a constant value into the component under test. The value
// can be changed between timesteps to drive controller state transitions.
type constSource struct {
	simulation.BaseComponent
	output *simulation.ComponentOutput
	value  float64
}

func newConstSource(name string, loadType simulation.LoadType, unit simulation.Unit, value float64, parameters *simulation.SimulationParameters) *constSource {
	s := &constSource{
		BaseComponent: simulation.NewBaseComponent(name, parameters),
		value:         value,
	}
	s.output = s.AddOutput("Value", loadType, unit)
	return s
}

func (s *constSource) SaveState()    {}
func (s *constSource) RestoreState() {}
func (s *constSource) Simulate(_ int, values *simulation.SingleTimeStepValues, _ bool) error {
	values.SetOutputValue(s.output, s.value)
	return nil
}
func (s *constSource) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }

// buildSim wires the given components into a ready-to-run simulator.
func buildSim(t *testing.T, parameters *simulation.SimulationParameters, componentList ...simulation.Component) *simulation.Simulator {
	t.Helper()
	sim := simulation.NewSimulator("component_test")
	sim.SetSimulationParameters(parameters)
	for _, component := range componentList {
		if err := sim.AddComponent(component); err != nil {
			t.Fatal(err)
		}
	}
	if err := sim.ConnectAllComponents(); err != nil {
		t.Fatal(err)
	}
	return sim
}

// outputValue reads an output slot from the buffer by its full name.
func outputValue(t *testing.T, sim *simulation.Simulator, values *simulation.SingleTimeStepValues, fullName string) float64 {
	t.Helper()
	for _, output := range sim.AllOutputs() {
		if output.FullName == fullName {
			return values.Values[output.GlobalIndex]
		}
	}
	t.Fatalf("no output named %q", fullName)
	return 0
}
