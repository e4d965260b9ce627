package components

import (
	"fmt"
	"math"

	"github.com/devskill-org/enersim/simulation"
)

// PredictiveDispatch field names.
const (
	PredictiveDispatchPower = "DispatchPower"
)

// HourlyForecast is one hour of the price/load/solar forecast the dispatcher
// plans against.
type HourlyForecast struct {
	ImportPrice    float64 // EUR/kWh
	ExportPrice    float64 // EUR/kWh
	LoadForecastW  float64
	SolarForecastW float64
}

// PredictiveDispatchConfig parameterizes the plan-ahead battery dispatcher.
type PredictiveDispatchConfig struct {
	Name     string
	Forecast []HourlyForecast // one entry per hour; repeats cyclically over the run

	CapacityWh         float64
	MaxChargeWatt      float64
	MaxDischargeWatt   float64
	MinStateOfCharge   float64 // 0-1
	MaxStateOfCharge   float64 // 0-1
	ChargeEfficiency   float64 // 0-1
	DegradationCostKWh float64 // EUR per kWh cycled
	MaxGridImportWatt  float64
	MaxGridExportWatt  float64
	InitialSOC         float64 // 0-1
}

// PredictiveDispatch plans a battery power schedule for the whole horizon at
// setup time with dynamic programming over a discretized state of charge, and
// plays the schedule back during the run. The optimization trades import cost
// against export revenue and battery degradation.
type PredictiveDispatch struct {
	simulation.BaseComponent
	config PredictiveDispatchConfig
	// planned battery power per forecast hour, positive = charge
	plan []float64

	dispatchOutput *simulation.ComponentOutput
}

// NewPredictiveDispatch builds the dispatcher and computes the plan. An empty
// forecast is a configuration error.
func NewPredictiveDispatch(config PredictiveDispatchConfig, parameters *simulation.SimulationParameters) (*PredictiveDispatch, error) {
	if len(config.Forecast) == 0 {
		return nil, fmt.Errorf("predictive dispatch %s has an empty forecast", config.Name)
	}
	p := &PredictiveDispatch{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
	}
	p.dispatchOutput = p.AddOutput(PredictiveDispatchPower, simulation.LoadTypeElectricity, simulation.UnitWatt)
	p.plan = p.optimize()
	return p, nil
}

// SaveState is a no-op: the plan is fixed before the run.
func (p *PredictiveDispatch) SaveState() {}

// RestoreState is a no-op: the plan is fixed before the run.
func (p *PredictiveDispatch) RestoreState() {}

// Simulate plays back the planned dispatch power for the timestep's hour.
func (p *PredictiveDispatch) Simulate(timestep int, values *simulation.SingleTimeStepValues, _ bool) error {
	hour := timestep * p.SimulationParameters().SecondsPerTimestep / 3600
	values.SetOutputValue(p.dispatchOutput, p.plan[hour%len(p.plan)])
	return nil
}

// DoubleCheck has nothing to verify at runtime; plan feasibility is enforced
// during optimization.
func (p *PredictiveDispatch) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }

// decision is one candidate battery/grid action for a single hour.
type decision struct {
	charge    float64 // W
	discharge float64 // W
	gridIn    float64 // W import
	gridOut   float64 // W export
}

// optimize finds the profit-optimal schedule with dynamic programming.
// State: discretized SOC level, stage: forecast hour.
func (p *PredictiveDispatch) optimize() []float64 {
	const socSteps = 200
	cfg := p.config
	socStep := (cfg.MaxStateOfCharge - cfg.MinStateOfCharge) / socSteps

	type dpState struct {
		profit  float64
		action  float64 // signed battery power, positive = charge
		prevSOC int
	}
	horizon := len(cfg.Forecast)
	dp := make([][]dpState, horizon+1)
	for i := range dp {
		dp[i] = make([]dpState, socSteps+1)
		for j := range dp[i] {
			dp[i][j].profit = math.Inf(-1)
		}
	}
	dp[0][p.socToIndex(cfg.InitialSOC, socStep)].profit = 0

	// Forward pass: build the table.
	for t, slot := range cfg.Forecast {
		for socIdx := 0; socIdx <= socSteps; socIdx++ {
			if math.IsInf(dp[t][socIdx].profit, -1) {
				continue
			}
			currentSOC := p.indexToSOC(socIdx, socStep)
			for _, dec := range p.feasibleDecisions(currentSOC, slot) {
				newSOC := p.nextSOC(currentSOC, dec.charge, dec.discharge)
				newIdx := p.socToIndex(newSOC, socStep)
				if newIdx < 0 || newIdx > socSteps {
					continue
				}
				total := dp[t][socIdx].profit + p.profit(dec, slot)
				if total > dp[t+1][newIdx].profit {
					dp[t+1][newIdx] = dpState{
						profit:  total,
						action:  dec.charge - dec.discharge,
						prevSOC: socIdx,
					}
				}
			}
		}
	}

	// Backward pass: pick the best final SOC and trace the path.
	bestIdx, bestProfit := 0, math.Inf(-1)
	for socIdx := 0; socIdx <= socSteps; socIdx++ {
		if dp[horizon][socIdx].profit > bestProfit {
			bestProfit = dp[horizon][socIdx].profit
			bestIdx = socIdx
		}
	}
	plan := make([]float64, horizon)
	currentIdx := bestIdx
	for t := horizon - 1; t >= 0; t-- {
		plan[t] = dp[t+1][currentIdx].action
		currentIdx = dp[t+1][currentIdx].prevSOC
	}
	return plan
}

// feasibleDecisions enumerates idle plus five charge and five discharge
// levels, each completed with the grid power that balances the hour.
func (p *PredictiveDispatch) feasibleDecisions(currentSOC float64, slot HourlyForecast) []decision {
	cfg := p.config
	type action struct{ charge, discharge float64 }
	actions := []action{{0, 0}}
	for i := 1; i <= 5; i++ {
		charge := float64(i) * cfg.MaxChargeWatt / 5
		if currentSOC+charge*cfg.ChargeEfficiency/cfg.CapacityWh <= cfg.MaxStateOfCharge {
			actions = append(actions, action{charge, 0})
		}
		discharge := float64(i) * cfg.MaxDischargeWatt / 5
		if currentSOC-discharge/cfg.CapacityWh >= cfg.MinStateOfCharge {
			actions = append(actions, action{0, discharge})
		}
	}

	var decisions []decision
	for _, a := range actions {
		dec := decision{charge: a.charge, discharge: a.discharge}
		// Balance: solar + grid import + discharge = load + grid export + charge
		balance := slot.SolarForecastW + a.discharge - slot.LoadForecastW - a.charge
		if balance > 0 {
			if balance > cfg.MaxGridExportWatt {
				continue
			}
			dec.gridOut = balance
		} else {
			if -balance > cfg.MaxGridImportWatt {
				continue
			}
			dec.gridIn = -balance
		}
		decisions = append(decisions, dec)
	}
	return decisions
}

// profit computes export revenue minus import cost minus degradation for one
// hour. Powers are in Watt, prices per kWh, so divide by 1000.
func (p *PredictiveDispatch) profit(dec decision, slot HourlyForecast) float64 {
	revenue := dec.gridOut / 1000 * slot.ExportPrice
	cost := dec.gridIn / 1000 * slot.ImportPrice
	degradation := (dec.charge + dec.discharge) / 1000 * p.config.DegradationCostKWh
	return revenue - cost - degradation
}

func (p *PredictiveDispatch) nextSOC(currentSOC, charge, discharge float64) float64 {
	socChange := (charge*p.config.ChargeEfficiency - discharge) / p.config.CapacityWh
	next := currentSOC + socChange
	return math.Max(p.config.MinStateOfCharge, math.Min(p.config.MaxStateOfCharge, next))
}

func (p *PredictiveDispatch) socToIndex(soc, socStep float64) int {
	return int(math.Round((soc - p.config.MinStateOfCharge) / socStep))
}

func (p *PredictiveDispatch) indexToSOC(index int, socStep float64) float64 {
	return p.config.MinStateOfCharge + float64(index)*socStep
}
