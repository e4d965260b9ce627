package simulation

import (
	"fmt"
	"time"
)

// SimulationParameters defines how the simulation proceeds: time resolution,
// time span and the derived timestep count. Components read it for unit
// conversions (e.g. Watt to Joule over one timestep); the engine reads it for
// the run horizon.
type SimulationParameters struct {
	StartDate          time.Time
	EndDate            time.Time
	SecondsPerTimestep int
	Duration           time.Duration
	Timesteps          int
	Year               int
}

// NewSimulationParameters derives the timestep count from the date range and
// resolution.
func NewSimulationParameters(startDate, endDate time.Time, secondsPerTimestep int) *SimulationParameters {
	duration := endDate.Sub(startDate)
	return &SimulationParameters{
		StartDate:          startDate,
		EndDate:            endDate,
		SecondsPerTimestep: secondsPerTimestep,
		Duration:           duration,
		Timesteps:          int(duration.Seconds()) / secondsPerTimestep,
		Year:               startDate.Year(),
	}
}

// FullYear generates a parameter set for a full year, primarily for testing.
func FullYear(year, secondsPerTimestep int) *SimulationParameters {
	return NewSimulationParameters(
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC),
		secondsPerTimestep,
	)
}

// JanuaryOnly generates a parameter set for a single January.
func JanuaryOnly(year, secondsPerTimestep int) *SimulationParameters {
	return NewSimulationParameters(
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, 1, 31, 0, 0, 0, 0, time.UTC),
		secondsPerTimestep,
	)
}

// OneWeekOnly generates a parameter set for a single week.
func OneWeekOnly(year, secondsPerTimestep int) *SimulationParameters {
	return NewSimulationParameters(
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, 1, 8, 0, 0, 0, 0, time.UTC),
		secondsPerTimestep,
	)
}

// OneDayOnly generates a parameter set for a single day.
func OneDayOnly(year, secondsPerTimestep int) *SimulationParameters {
	return NewSimulationParameters(
		time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, 1, 2, 0, 0, 0, 0, time.UTC),
		secondsPerTimestep,
	)
}

// TimestepSeconds returns the timestep length as a float for physics math.
func (p *SimulationParameters) TimestepSeconds() float64 {
	return float64(p.SecondsPerTimestep)
}

// TimestampAt returns the synthetic timestamp of the given timestep index.
func (p *SimulationParameters) TimestampAt(timestep int) time.Time {
	return p.StartDate.Add(time.Duration(timestep) * time.Duration(p.SecondsPerTimestep) * time.Second)
}

// UniqueKey builds a key identifying this parameter set, used to tag cached
// and persisted results.
func (p *SimulationParameters) UniqueKey() string {
	return fmt.Sprintf("%s###%s###%d###%d###%d",
		p.StartDate.Format(time.RFC3339), p.EndDate.Format(time.RFC3339),
		p.SecondsPerTimestep, p.Year, p.Timesteps)
}
