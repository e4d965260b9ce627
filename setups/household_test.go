package setups

import (
	"math"
	"strings"
	"testing"

	"github.com/devskill-org/enersim/simulation"
)

func runHousehold(t *testing.T, options HouseholdOptions) *simulation.Results {
	t.Helper()
	parameters := simulation.OneDayOnly(2021, 900)
	sim, err := BasicHousehold(parameters, options)
	if err != nil {
		t.Fatal(err)
	}
	results, err := sim.RunAllTimesteps()
	if err != nil {
		t.Fatal(err)
	}
	return results
}

func columnContaining(t *testing.T, results *simulation.Results, substring string) []float64 {
	t.Helper()
	for i, name := range results.ColumnNames {
		if strings.Contains(name, substring) {
			return results.ColumnByIndex(i)
		}
	}
	t.Fatalf("no column containing %q in %v", substring, results.ColumnNames)
	return nil
}

func TestBasicHouseholdRunsOneDay(t *testing.T) {
	results := runHousehold(t, DefaultHouseholdOptions())

	if len(results.Rows) != 96 {
		t.Fatalf("got %d rows for one day at 15 minutes, want 96", len(results.Rows))
	}
	if len(results.Index) != 96 {
		t.Fatalf("got %d index entries, want 96", len(results.Index))
	}

	for step, indoor := range columnContaining(t, results, "IndoorTemperature") {
		if indoor < 5 || indoor > 35 {
			t.Errorf("step %d: indoor temperature %v °C out of range", step, indoor)
		}
	}
	for step, soc := range columnContaining(t, results, "StateOfCharge") {
		if soc < 10-1e-6 || soc > 95+1e-6 {
			t.Errorf("step %d: battery SOC %v%% out of configured bounds", step, soc)
		}
	}
	for step, gas := range columnContaining(t, results, "GasDemand") {
		if gas < 0 {
			t.Errorf("step %d: negative gas demand %v", step, gas)
		}
	}
}

func TestBasicHouseholdIsDeterministic(t *testing.T) {
	first := runHousehold(t, DefaultHouseholdOptions())
	second := runHousehold(t, DefaultHouseholdOptions())
	for row := range first.Rows {
		for col := range first.Rows[row] {
			if first.Rows[row][col] != second.Rows[row][col] {
				t.Fatalf("row %d col %d differs between identical runs: %v vs %v",
					row, col, first.Rows[row][col], second.Rows[row][col])
			}
		}
	}
}

func TestBasicHouseholdPredictive(t *testing.T) {
	options := DefaultHouseholdOptions()
	options.Predictive = true
	results := runHousehold(t, options)

	if len(results.Rows) != 96 {
		t.Fatalf("got %d rows, want 96", len(results.Rows))
	}
	// the dispatcher replaces the EMS target as the battery driver
	columnContaining(t, results, "DispatchPower")
	for step, soc := range columnContaining(t, results, "StateOfCharge") {
		if soc < 10-1e-6 || soc > 95+1e-6 {
			t.Errorf("step %d: battery SOC %v%% out of configured bounds", step, soc)
		}
	}
}

// Grid power is defined as consumption + battery - PV; after convergence the
// committed values have to balance within the solver tolerance.
func TestBasicHouseholdEnergyBalanceIsClosed(t *testing.T) {
	results := runHousehold(t, DefaultHouseholdOptions())

	pv := columnContaining(t, results, "ElectricityOutput")
	consumption := columnContaining(t, results, "ElectricityConsumption")
	batteryAc := columnContaining(t, results, "AcBatteryPower")
	grid := columnContaining(t, results, "GridPower")

	for step := range pv {
		balance := pv[step] + grid[step] - consumption[step] - batteryAc[step]
		if math.Abs(balance) > 10*simulation.ConvergenceTolerance {
			t.Errorf("step %d: electrical balance off by %v W", step, balance)
		}
	}
}
