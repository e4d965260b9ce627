package simulation

import (
	"fmt"
	"math"
	"strings"
)

// ConvergenceTolerance is the absolute per-slot tolerance used to decide
// whether two iteration passes produced the same values. It is applied
// uniformly across all units: a Watt slot and a binary control slot use the
// same epsilon. Components implicitly depend on this looseness (binary
// signals converge because a 0/1 flip exceeds it while float noise does not),
// so it is deliberately not scaled per unit.
const ConvergenceTolerance = 1e-4

// SingleTimeStepValues is the flat vector of output values for one timestep,
// indexed by each output's global index. It is the only shared state between
// components during the fixed-point iteration.
type SingleTimeStepValues struct {
	Values []float64
}

// NewSingleTimeStepValues creates a zeroed value buffer for the given number
// of output slots.
func NewSingleTimeStepValues(numberOfValues int) *SingleTimeStepValues {
	return &SingleTimeStepValues{Values: make([]float64, numberOfValues)}
}

// Clone makes an independent copy of the buffer.
func (s *SingleTimeStepValues) Clone() *SingleTimeStepValues {
	clone := NewSingleTimeStepValues(len(s.Values))
	copy(clone.Values, s.Values)
	return clone
}

// CopyValuesFrom overwrites this buffer with the values of another one.
func (s *SingleTimeStepValues) CopyValuesFrom(other *SingleTimeStepValues) {
	copy(s.Values, other.Values)
}

// GetInputValue reads the value feeding the given input. Unbound inputs read
// as 0.
func (s *SingleTimeStepValues) GetInputValue(input *ComponentInput) float64 {
	if input.SourceOutput == nil {
		return 0
	}
	return s.Values[input.SourceOutput.GlobalIndex]
}

// SetOutputValue writes a single output value into the buffer.
func (s *SingleTimeStepValues) SetOutputValue(output *ComponentOutput, value float64) {
	s.Values[output.GlobalIndex] = value
}

// IsCloseEnoughTo reports whether every slot is within the convergence
// tolerance of the previous iteration's buffer.
func (s *SingleTimeStepValues) IsCloseEnoughTo(previous *SingleTimeStepValues) bool {
	for i, value := range s.Values {
		if math.Abs(previous.Values[i]-value) > ConvergenceTolerance {
			return false
		}
	}
	return true
}

// SlotDifference describes one output slot that changed between the final two
// iterations of a failed timestep.
type SlotDifference struct {
	Name     string
	Previous float64
	Current  float64
}

func (d SlotDifference) String() string {
	return fmt.Sprintf("%s previously: %4.2f currently: %4.2f", d.Name, d.Previous, d.Current)
}

// Differences lists the slots differing from the previous buffer by more than
// the tolerance, for the convergence failure error message.
func (s *SingleTimeStepValues) Differences(previous *SingleTimeStepValues, outputs []*ComponentOutput) []SlotDifference {
	var differences []SlotDifference
	for i, value := range s.Values {
		if math.Abs(previous.Values[i]-value) > ConvergenceTolerance {
			differences = append(differences, SlotDifference{
				Name:     outputs[i].PrettyName(),
				Previous: previous.Values[i],
				Current:  value,
			})
		}
	}
	return differences
}

// ConvergenceError is returned when a timestep hits the hard iteration
// ceiling without stabilizing. It carries the offending slots, which is the
// primary debugging signal for a mis-wired feedback loop.
type ConvergenceError struct {
	Timestep    int
	Iterations  int
	Differences []SlotDifference
}

func (e *ConvergenceError) Error() string {
	parts := make([]string, len(e.Differences))
	for i, difference := range e.Differences {
		parts[i] = difference.String()
	}
	return fmt.Sprintf("more than %d tries in time step %d\n%s", e.Iterations, e.Timestep, strings.Join(parts, " | "))
}
