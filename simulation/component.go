package simulation

import (
	"fmt"
	"strings"
)

// Component is a named, stateful node in the simulation graph. Implementations
// register their inputs and outputs at construction time through an embedded
// BaseComponent and get called by the solver once per iteration.
//
// The state contract: SaveState deep-copies the current internal state,
// RestoreState deep-copies it back. RestoreState is called at the start of
// every iteration within a timestep and must always reproduce the exact state
// captured by the last SaveState, so nested mutable state needs an explicit
// clone, not a struct assignment of pointer fields.
type Component interface {
	ComponentName() string
	InputDefinitions() []*ComponentInput
	Outputs() []*ComponentOutput

	// SaveState is called exactly once per timestep, before any iteration.
	SaveState()
	// RestoreState is called at the start of every iteration, including the
	// first. It must be idempotent and side-effect-free beyond the copy.
	RestoreState()
	// Simulate performs the actual calculation for one iteration. When
	// forceConvergence is true the component must stop changing its outputs
	// and lock in its last known value.
	Simulate(timestep int, values *SingleTimeStepValues, forceConvergence bool) error
	// DoubleCheck runs after the iterations finished for a timestep. It is a
	// read-only invariant check over the final values and returns a
	// descriptive error when an invariant is violated.
	DoubleCheck(timestep int, values *SingleTimeStepValues) error
}

// ComponentOutput is a named production slot. GlobalIndex is the position in
// the shared value buffer; it is assigned when the component is registered
// with the simulator and stays -1 before that.
type ComponentOutput struct {
	FullName      string
	ComponentName string
	FieldName     string
	DisplayName   string
	LoadType      LoadType
	Unit          Unit
	GlobalIndex   int
	// SankeyFlowDirection is only used by reporting: true for flows into the
	// system, false for flows out, nil when not applicable.
	SankeyFlowDirection *bool
}

// PrettyName builds the human-readable column name used in results and logs.
func (o *ComponentOutput) PrettyName() string {
	return o.ComponentName + " - " + o.DisplayName + " [" + string(o.LoadType) + " - " + string(o.Unit) + "]"
}

// ComponentInput is a named consumption slot. SourceOutput stays nil until the
// wiring phase binds it; reading an unbound input yields 0.
type ComponentInput struct {
	FullName        string
	ComponentName   string
	FieldName       string
	LoadType        LoadType
	Unit            Unit
	Mandatory       bool
	SourceComponent string
	SourceField     string
	SourceOutput    *ComponentOutput
}

// Connection describes one default connection between a source component
// class and a target input. SourceInstance is filled in when the connection
// list is resolved against a concrete source component.
type Connection struct {
	TargetInputName  string
	SourceClassName  string
	SourceOutputName string
	SourceInstance   string
}

const fullNameSeparator = " # "

// BaseComponent carries the slot bookkeeping shared by all components.
// Concrete models embed it and call AddInput/AddOutput in their constructor.
type BaseComponent struct {
	name               string
	inputs             []*ComponentInput
	outputs            []*ComponentOutput
	parameters         *SimulationParameters
	defaultConnections map[string][]Connection
}

// NewBaseComponent initializes the bookkeeping for a component with the given
// unique name. The simulation parameters must not be nil: components need them
// for unit conversions over a timestep.
func NewBaseComponent(name string, parameters *SimulationParameters) BaseComponent {
	if parameters == nil {
		panic("simulation parameters were nil for component " + name)
	}
	return BaseComponent{
		name:               name,
		parameters:         parameters,
		defaultConnections: map[string][]Connection{},
	}
}

// ComponentName returns the unique name of the component instance.
func (c *BaseComponent) ComponentName() string { return c.name }

// SimulationParameters returns the run parameters the component was built for.
func (c *BaseComponent) SimulationParameters() *SimulationParameters { return c.parameters }

// AddInput registers a new input slot. Registering the same field name twice
// is a programming error in the component constructor and panics immediately.
func (c *BaseComponent) AddInput(fieldName string, loadType LoadType, unit Unit, mandatory bool) *ComponentInput {
	for _, in := range c.inputs {
		if in.FieldName == fieldName {
			panic("input " + fieldName + " already exists on component " + c.name)
		}
	}
	input := &ComponentInput{
		FullName:      c.name + fullNameSeparator + fieldName,
		ComponentName: c.name,
		FieldName:     fieldName,
		LoadType:      loadType,
		Unit:          unit,
		Mandatory:     mandatory,
	}
	c.inputs = append(c.inputs, input)
	return input
}

// AddOutput registers a new output slot with a locally unique field name. The
// global index is assigned later when the component is added to a simulator.
func (c *BaseComponent) AddOutput(fieldName string, loadType LoadType, unit Unit) *ComponentOutput {
	for _, out := range c.outputs {
		if out.FieldName == fieldName {
			panic("output " + fieldName + " already exists on component " + c.name)
		}
	}
	output := &ComponentOutput{
		FullName:      c.name + fullNameSeparator + fieldName,
		ComponentName: c.name,
		FieldName:     fieldName,
		DisplayName:   fieldName,
		LoadType:      loadType,
		Unit:          unit,
		GlobalIndex:   -1,
	}
	c.outputs = append(c.outputs, output)
	return output
}

// InputDefinitions returns the registered input slots in registration order.
func (c *BaseComponent) InputDefinitions() []*ComponentInput { return c.inputs }

// Outputs returns the registered output slots in registration order.
func (c *BaseComponent) Outputs() []*ComponentOutput { return c.outputs }

// ConnectInput declares that the named input should be fed from the given
// source component output. The actual binding happens during the wiring phase.
func (c *BaseComponent) ConnectInput(inputFieldName, sourceComponent, sourceField string) error {
	if len(c.inputs) == 0 {
		return fmt.Errorf("the component %s has no inputs", c.name)
	}
	var inputToSet *ComponentInput
	for _, in := range c.inputs {
		if in.FieldName == inputFieldName {
			inputToSet = in
			break
		}
	}
	if inputToSet == nil {
		return fmt.Errorf("the component %s has no input with the name %s", c.name, inputFieldName)
	}
	if inputToSet.SourceComponent != "" {
		return fmt.Errorf("the input %s of the component %s was already set", inputFieldName, c.name)
	}
	inputToSet.SourceComponent = sourceComponent
	inputToSet.SourceField = sourceField
	return nil
}

// AddDefaultConnections registers a default connection list. All entries must
// name the same source class.
func (c *BaseComponent) AddDefaultConnections(connections []Connection) {
	if len(connections) == 0 {
		panic("empty default connection list for component " + c.name)
	}
	sourceClass := connections[0].SourceClassName
	for _, connection := range connections {
		if connection.SourceClassName != sourceClass {
			panic("trying to add connections to different components in one go")
		}
	}
	c.defaultConnections[sourceClass] = connections
}

// defaultConnectionsFor resolves the default connection list for a concrete
// source component, filling in its instance name.
func (c *BaseComponent) defaultConnectionsFor(source Component) ([]Connection, error) {
	sourceClass := classNameOf(source)
	connections, ok := c.defaultConnections[sourceClass]
	if !ok {
		return nil, fmt.Errorf("no default connections for %s in the connections of %s", sourceClass, c.name)
	}
	resolved := make([]Connection, len(connections))
	for i, connection := range connections {
		connection.SourceInstance = source.ComponentName()
		resolved[i] = connection
	}
	return resolved, nil
}

// ConnectWithConnectionsList connects all inputs named in the list.
func (c *BaseComponent) ConnectWithConnectionsList(connections []Connection) error {
	for _, connection := range connections {
		if err := c.ConnectInput(connection.TargetInputName, connection.SourceInstance, connection.SourceOutputName); err != nil {
			return err
		}
	}
	return nil
}

// ConnectOnlyPredefinedConnections binds the default connections for each of
// the given source components in one call.
func (c *BaseComponent) ConnectOnlyPredefinedConnections(sources ...Component) error {
	for _, source := range sources {
		connections, err := c.defaultConnectionsFor(source)
		if err != nil {
			return err
		}
		if err := c.ConnectWithConnectionsList(connections); err != nil {
			return err
		}
	}
	return nil
}

// classNameOf derives the connection class name of a component from its Go
// type, so default connections can be declared per component type.
func classNameOf(component Component) string {
	name := fmt.Sprintf("%T", component)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
