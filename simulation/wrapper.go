package simulation

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// componentWrapper pairs a component with the wiring bookkeeping the
// simulator needs: output registration into the global list and input binding
// against it.
type componentWrapper struct {
	component Component
}

// registerOutputs appends all of the component's outputs to the global output
// list, assigning each its global index. Registering the same full name twice
// is a fatal configuration error.
func (w *componentWrapper) registerOutputs(allOutputs *[]*ComponentOutput) error {
	log.Debug().Str("component", w.component.ComponentName()).Msg("registering component outputs")
	for _, output := range w.component.Outputs() {
		for _, existing := range *allOutputs {
			if existing.FullName == output.FullName {
				return fmt.Errorf("trying to register the same key twice: %s", output.FullName)
			}
		}
		output.GlobalIndex = len(*allOutputs)
		*allOutputs = append(*allOutputs, output)
	}
	return nil
}

// connectInputs binds every declared input of the component to its source
// output. Unit rule: an exact match connects silently; if exactly one side is
// the wildcard Any unit the mismatch is downgraded to a warning; any other
// mismatch is fatal. A mandatory input left unbound after the scan is fatal.
//
// When several outputs match the same source name the first registered one
// wins. Duplicate full names are rejected at registration, so this can only
// matter for names that never collide in practice; the first-registered
// winner keeps wiring deterministic but is not a semantic guarantee.
func (w *componentWrapper) connectInputs(allOutputs []*ComponentOutput) error {
	for _, input := range w.component.InputDefinitions() {
		for _, output := range allOutputs {
			if output.ComponentName != input.SourceComponent || output.FieldName != input.SourceField {
				continue
			}
			if input.Unit != output.Unit {
				anyOnOneSide := (input.Unit == UnitAny) != (output.Unit == UnitAny)
				if !anyOnOneSide {
					return fmt.Errorf(
						"the input %s (cp: %s, unit: %s) and output %s (cp: %s, unit: %s) do not have the same unit",
						input.FieldName, input.ComponentName, input.Unit,
						output.FieldName, output.ComponentName, output.Unit)
				}
				log.Warn().
					Str("input", input.FullName).
					Str("output", output.FullName).
					Msgf("units %s and %s might not be compatible", input.Unit, output.Unit)
			}
			input.SourceOutput = output
			log.Debug().Str("input", input.FullName).Str("output", output.FullName).Msg("connected")
			break
		}
		if input.Mandatory && input.SourceOutput == nil {
			return fmt.Errorf(
				"the input %s (cp: %s, unit: %s) is not connected to any output",
				input.FieldName, input.ComponentName, input.Unit)
		}
	}
	return nil
}
