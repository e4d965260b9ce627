package simulation

import (
	"strings"
	"testing"
)

func TestIsCloseEnoughTo(t *testing.T) {
	tests := []struct {
		name     string
		current  []float64
		previous []float64
		want     bool
	}{
		{
			name:     "identical values converge",
			current:  []float64{1.0, 2.0, 3.0},
			previous: []float64{1.0, 2.0, 3.0},
			want:     true,
		},
		{
			name:     "difference below tolerance converges",
			current:  []float64{1.00005, 2.0},
			previous: []float64{1.0, 2.0},
			want:     true,
		},
		{
			name:     "difference above tolerance does not converge",
			current:  []float64{1.001, 2.0},
			previous: []float64{1.0, 2.0},
			want:     false,
		},
		{
			name:     "binary flip does not converge",
			current:  []float64{1.0},
			previous: []float64{0.0},
			want:     false,
		},
		{
			name:     "all zeros converge against zero buffer",
			current:  []float64{0, 0, 0},
			previous: []float64{0, 0, 0},
			want:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := &SingleTimeStepValues{Values: tt.current}
			previous := &SingleTimeStepValues{Values: tt.previous}
			if got := current.IsCloseEnoughTo(previous); got != tt.want {
				t.Errorf("IsCloseEnoughTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDifferencesListsOnlyChangedSlots(t *testing.T) {
	outputs := []*ComponentOutput{
		{ComponentName: "A", DisplayName: "Power", LoadType: LoadTypeElectricity, Unit: UnitWatt},
		{ComponentName: "B", DisplayName: "Temp", LoadType: LoadTypeTemperature, Unit: UnitCelsius},
	}
	current := &SingleTimeStepValues{Values: []float64{100, 21}}
	previous := &SingleTimeStepValues{Values: []float64{50, 21}}

	differences := current.Differences(previous, outputs)
	if len(differences) != 1 {
		t.Fatalf("expected 1 difference, got %d", len(differences))
	}
	if !strings.Contains(differences[0].Name, "A - Power") {
		t.Errorf("unexpected slot name %q", differences[0].Name)
	}
	if differences[0].Previous != 50 || differences[0].Current != 100 {
		t.Errorf("unexpected values in difference: %+v", differences[0])
	}
}

func TestGetInputValueUnboundReadsZero(t *testing.T) {
	values := NewSingleTimeStepValues(3)
	values.Values[0] = 42
	input := &ComponentInput{FieldName: "X"}
	if got := values.GetInputValue(input); got != 0 {
		t.Errorf("unbound input read %v, want 0", got)
	}
	input.SourceOutput = &ComponentOutput{GlobalIndex: 0}
	if got := values.GetInputValue(input); got != 42 {
		t.Errorf("bound input read %v, want 42", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := NewSingleTimeStepValues(2)
	original.Values[0] = 1
	clone := original.Clone()
	clone.Values[0] = 99
	if original.Values[0] != 1 {
		t.Errorf("mutating the clone changed the original: %v", original.Values)
	}
}

func TestCopyValuesFrom(t *testing.T) {
	target := NewSingleTimeStepValues(2)
	source := &SingleTimeStepValues{Values: []float64{7, 8}}
	target.CopyValuesFrom(source)
	if target.Values[0] != 7 || target.Values[1] != 8 {
		t.Errorf("copy failed: %v", target.Values)
	}
	// the copy must not alias the source slice
	source.Values[0] = 0
	if target.Values[0] != 7 {
		t.Errorf("copy aliases the source")
	}
}
