package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Iteration thresholds of the fixed-point solver. Past the soft limit all
// components are asked to force convergence; past the hard limit the run
// aborts with a ConvergenceError.
const (
	softIterationLimit = 10
	hardIterationLimit = 100
)

// ProgressSnapshot is published after each committed timestep and at the end
// of the run. Publishing happens outside the solver loop.
type ProgressSnapshot struct {
	Step              int     `json:"step"`
	TotalSteps        int     `json:"total_steps"`
	PercentComplete   float64 `json:"percent_complete"`
	StepsPerSecond    float64 `json:"steps_per_second"`
	AverageIterations float64 `json:"average_iterations"`
	Finished          bool    `json:"finished"`
}

// ProgressSink receives run progress. Implementations must not block:
// Publish is called from the simulation loop between timesteps.
type ProgressSink interface {
	Publish(snapshot ProgressSnapshot)
}

// Simulator drives the whole run: it owns the registered components, the
// global output list, the wiring phase and the per-timestep fixed-point
// solver.
//
// Components are visited strictly in registration order in every pass. This
// order is part of the observable contract: later components read outputs
// already written by earlier components within the same pass, and last-pass
// values for everything else.
type Simulator struct {
	setupName         string
	parameters        *SimulationParameters
	wrappedComponents []*componentWrapper
	allOutputs        []*ComponentOutput
	progressSink      ProgressSink
}

// NewSimulator creates a simulator for the named system setup. Simulation
// parameters must be set before components can be added.
func NewSimulator(setupName string) *Simulator {
	return &Simulator{setupName: setupName}
}

// SetSimulationParameters sets the run parameters.
func (s *Simulator) SetSimulationParameters(parameters *SimulationParameters) {
	s.parameters = parameters
}

// SimulationParameters returns the configured run parameters, nil before
// SetSimulationParameters.
func (s *Simulator) SimulationParameters() *SimulationParameters {
	return s.parameters
}

// SetProgressSink attaches a progress consumer, e.g. the websocket monitor.
func (s *Simulator) SetProgressSink(sink ProgressSink) {
	s.progressSink = sink
}

// AllOutputs returns the global output list in registration order.
func (s *Simulator) AllOutputs() []*ComponentOutput {
	return s.allOutputs
}

// AddComponent registers a component for the run and registers its outputs in
// the global list.
func (s *Simulator) AddComponent(component Component) error {
	if s.parameters == nil {
		return errors.New("simulation parameters were not initialized")
	}
	wrapper := &componentWrapper{component: component}
	if err := wrapper.registerOutputs(&s.allOutputs); err != nil {
		return err
	}
	s.wrappedComponents = append(s.wrappedComponents, wrapper)
	return nil
}

// ConnectAllComponents binds the inputs of every component to the
// corresponding outputs. Any unit mismatch or unbound mandatory input aborts
// setup here, before the first timestep runs.
func (s *Simulator) ConnectAllComponents() error {
	for _, wrapped := range s.wrappedComponents {
		if err := wrapped.connectInputs(s.allOutputs); err != nil {
			return err
		}
	}
	return nil
}

// ProcessOneTimestep executes one simulation timestep: save all states, then
// restore-and-simulate all components repeatedly until the output buffer
// stops changing, then run the read-only double check pass. Returns the
// converged buffer and the number of iterations used.
//
// Components can be connected in a circle. The circular dependency is solved
// by fixed-point iteration: every iteration restarts each component from the
// state saved at the beginning of the timestep, so repeated passes converge
// on a self-consistent set of outputs instead of accumulating state.
func (s *Simulator) ProcessOneTimestep(timestep int) (*SingleTimeStepValues, int, error) {
	for _, wrapped := range s.wrappedComponents {
		wrapped.component.SaveState()
	}

	if len(s.allOutputs) == 0 {
		return nil, 0, errors.New("not a single output column was defined")
	}

	values := NewSingleTimeStepValues(len(s.allOutputs))
	previousValues := NewSingleTimeStepValues(len(s.allOutputs))
	iterativeTries := 0
	forceConvergence := false

	for {
		for _, wrapped := range s.wrappedComponents {
			wrapped.component.RestoreState()
			if err := wrapped.component.Simulate(timestep, values, forceConvergence); err != nil {
				return nil, 0, fmt.Errorf("component %s failed in timestep %d: %w",
					wrapped.component.ComponentName(), timestep, err)
			}
		}

		converged := values.IsCloseEnoughTo(previousValues)
		if !converged && iterativeTries > hardIterationLimit {
			return nil, 0, &ConvergenceError{
				Timestep:    timestep,
				Iterations:  iterativeTries,
				Differences: values.Differences(previousValues, s.allOutputs),
			}
		}
		if iterativeTries > softIterationLimit {
			forceConvergence = true
		}
		previousValues.CopyValuesFrom(values)
		iterativeTries++
		if converged {
			break
		}
	}

	for _, wrapped := range s.wrappedComponents {
		if err := wrapped.component.DoubleCheck(timestep, values); err != nil {
			return nil, 0, fmt.Errorf("double check failed for %s in timestep %d: %w",
				wrapped.component.ComponentName(), timestep, err)
		}
	}
	return values, iterativeTries, nil
}

// RunAllTimesteps performs the full run and returns the results table. Every
// fatal condition (configuration error, component invariant violation,
// convergence failure) propagates out of here and terminates the run; nothing
// is caught and recovered.
func (s *Simulator) RunAllTimesteps() (*Results, error) {
	if s.parameters == nil {
		return nil, errors.New("simulation parameters were not initialized")
	}
	if len(s.wrappedComponents) == 0 {
		return nil, errors.New("not a single component was defined, quitting")
	}

	if err := s.ConnectAllComponents(); err != nil {
		return nil, err
	}
	log.Info().
		Int("components", len(s.wrappedComponents)).
		Int("outputs", len(s.allOutputs)).
		Msg("finished connecting all components")
	log.Info().Int("timesteps", s.parameters.Timesteps).Str("setup", s.setupName).Msg("starting simulation")

	results := newResults(s.setupName, s.allOutputs, s.parameters)
	startTime := time.Now()
	lastMessage := startTime
	totalIterationTries := 0

	for step := 0; step < s.parameters.Timesteps; step++ {
		values, iterationTries, err := s.ProcessOneTimestep(step)
		if err != nil {
			return nil, err
		}
		totalIterationTries += iterationTries
		results.appendRow(values.Values)

		if time.Since(lastMessage) > 5*time.Second {
			s.showProgress(startTime, step, totalIterationTries)
			lastMessage = time.Now()
		}
		s.publishProgress(startTime, step, totalIterationTries, false)
	}

	elapsed := time.Since(startTime)
	log.Info().
		Dur("elapsed", elapsed).
		Float64("avg_iterations", averageIterations(totalIterationTries, s.parameters.Timesteps)).
		Msg("simulation finished")
	s.publishProgress(startTime, s.parameters.Timesteps, totalIterationTries, true)
	return results, nil
}

// showProgress logs the progress message with a time estimate.
func (s *Simulator) showProgress(startTime time.Time, step, totalIterationTries int) {
	elapsed := time.Since(startTime)
	stepsPerSecond := float64(step) / elapsed.Seconds()
	timeLeft := time.Duration(0)
	if stepsPerSecond > 0 {
		timeLeft = time.Duration(float64(s.parameters.Timesteps-step)/stepsPerSecond) * time.Second
	}
	log.Info().Msgf("Simulating... %.1f%% | Elapsed Time: %s | Speed: %.0f step/s | Time Left: %s | Avg. iterations %.1f",
		float64(step)/float64(s.parameters.Timesteps)*100,
		elapsed.Round(time.Second),
		stepsPerSecond,
		timeLeft.Round(time.Second),
		averageIterations(totalIterationTries, step))
}

func (s *Simulator) publishProgress(startTime time.Time, step, totalIterationTries int, finished bool) {
	if s.progressSink == nil {
		return
	}
	elapsed := time.Since(startTime).Seconds()
	stepsPerSecond := 0.0
	if elapsed > 0 {
		stepsPerSecond = float64(step) / elapsed
	}
	s.progressSink.Publish(ProgressSnapshot{
		Step:              step,
		TotalSteps:        s.parameters.Timesteps,
		PercentComplete:   float64(step) / float64(s.parameters.Timesteps) * 100,
		StepsPerSecond:    stepsPerSecond,
		AverageIterations: averageIterations(totalIterationTries, step),
		Finished:          finished,
	})
}

func averageIterations(totalIterationTries, steps int) float64 {
	if steps == 0 {
		return 1
	}
	return float64(totalIterationTries) / float64(steps)
}
