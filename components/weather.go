// Package components contains the physical and control models that plug into
// the simulation engine. Each component is a small, self-contained model with
// explicit state cloning; the catalogue here is a representative subset, not
// a complete building library.
package components

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/devskill-org/enersim/simulation"
)

// Weather output field names.
const (
	WeatherAmbientTemperature = "AmbientTemperature"
	WeatherGlobalIrradiance   = "GlobalIrradiance"
	WeatherWindSpeed          = "WindSpeed"
)

// WeatherConfig parameterizes the synthetic weather model.
type WeatherConfig struct {
	Name               string  `json:"name" yaml:"name"`
	Latitude           float64 `json:"latitude" yaml:"latitude"`
	Longitude          float64 `json:"longitude" yaml:"longitude"`
	MeanTemperature    float64 `json:"mean_temperature" yaml:"mean_temperature"`         // °C annual mean
	SeasonalAmplitude  float64 `json:"seasonal_amplitude" yaml:"seasonal_amplitude"`     // °C summer/winter swing
	DailyAmplitude     float64 `json:"daily_amplitude" yaml:"daily_amplitude"`           // °C day/night swing
	ClearSkyIrradiance float64 `json:"clear_sky_irradiance" yaml:"clear_sky_irradiance"` // W/m² at zenith
	CloudAttenuation   float64 `json:"cloud_attenuation" yaml:"cloud_attenuation"`       // 0-1, max irradiance loss from clouds
	MeanWindSpeed      float64 `json:"mean_wind_speed" yaml:"mean_wind_speed"`           // m/s
}

// DefaultWeatherConfig returns a central-European parameter set.
func DefaultWeatherConfig() WeatherConfig {
	return WeatherConfig{
		Name:               "Weather",
		Latitude:           50.78,
		Longitude:          6.08,
		MeanTemperature:    9.5,
		SeasonalAmplitude:  9.0,
		DailyAmplitude:     4.0,
		ClearSkyIrradiance: 1000.0,
		CloudAttenuation:   0.6,
		MeanWindSpeed:      3.5,
	}
}

// Weather is a synthetic weather source: ambient temperature, global
// horizontal irradiance from the solar position and a wind speed series. It
// is deterministic in the timestep, so runs are reproducible.
type Weather struct {
	simulation.BaseComponent
	config WeatherConfig

	ambientTemperatureOutput *simulation.ComponentOutput
	irradianceOutput         *simulation.ComponentOutput
	windSpeedOutput          *simulation.ComponentOutput
}

// NewWeather builds the weather component and registers its outputs.
func NewWeather(config WeatherConfig, parameters *simulation.SimulationParameters) *Weather {
	w := &Weather{
		BaseComponent: simulation.NewBaseComponent(config.Name, parameters),
		config:        config,
	}
	w.ambientTemperatureOutput = w.AddOutput(WeatherAmbientTemperature, simulation.LoadTypeTemperature, simulation.UnitCelsius)
	w.irradianceOutput = w.AddOutput(WeatherGlobalIrradiance, simulation.LoadTypeIrradiance, simulation.UnitWattPerSquareM)
	w.windSpeedOutput = w.AddOutput(WeatherWindSpeed, simulation.LoadTypeSpeed, simulation.UnitMeterPerSecond)
	return w
}

// SaveState is a no-op: the weather source has no mutable state.
func (w *Weather) SaveState() {}

// RestoreState is a no-op: the weather source has no mutable state.
func (w *Weather) RestoreState() {}

// Simulate writes the weather signals for the timestep.
func (w *Weather) Simulate(timestep int, values *simulation.SingleTimeStepValues, _ bool) error {
	timestamp := w.SimulationParameters().TimestampAt(timestep)
	values.SetOutputValue(w.ambientTemperatureOutput, w.ambientTemperature(timestamp))
	values.SetOutputValue(w.irradianceOutput, w.irradiance(timestamp))
	values.SetOutputValue(w.windSpeedOutput, w.windSpeed(timestamp))
	return nil
}

// DoubleCheck has nothing to verify for the weather source.
func (w *Weather) DoubleCheck(int, *simulation.SingleTimeStepValues) error { return nil }

// ambientTemperature combines a seasonal and a daily sine, coldest mid
// January around 05:00, warmest mid July around 14:00.
func (w *Weather) ambientTemperature(timestamp time.Time) float64 {
	dayOfYear := float64(timestamp.YearDay())
	hour := float64(timestamp.Hour()) + float64(timestamp.Minute())/60
	seasonal := -w.config.SeasonalAmplitude * math.Cos(2*math.Pi*(dayOfYear-15)/365)
	daily := -w.config.DailyAmplitude * math.Cos(2*math.Pi*(hour-2)/24)
	return w.config.MeanTemperature + seasonal + daily
}

// irradiance estimates global horizontal irradiance from the solar altitude,
// zero outside sunrise/sunset, attenuated by a deterministic cloud factor.
func (w *Weather) irradiance(timestamp time.Time) float64 {
	sunTimes := suncalc.GetTimes(timestamp, w.config.Latitude, w.config.Longitude)
	sunrise := sunTimes["sunrise"].Value
	sunset := sunTimes["sunset"].Value
	if timestamp.Before(sunrise) || timestamp.After(sunset) {
		return 0
	}

	position := suncalc.GetPosition(timestamp, w.config.Latitude, w.config.Longitude)
	// Altitude ranges from 0 at the horizon to π/2 at the zenith; the sine is
	// the horizontal projection factor.
	solarAngleFactor := math.Sin(position.Altitude)
	if solarAngleFactor <= 0 {
		return 0
	}
	return w.config.ClearSkyIrradiance * solarAngleFactor * w.cloudFactor(timestamp)
}

// cloudFactor is a deterministic pseudo-cloud pattern in
// [1-CloudAttenuation, 1], slowly varying over hours and days.
func (w *Weather) cloudFactor(timestamp time.Time) float64 {
	hours := float64(timestamp.YearDay()*24 + timestamp.Hour())
	cloudFraction := 0.5 + 0.5*math.Sin(hours/7.3)*math.Sin(hours/29.1)
	return 1 - w.config.CloudAttenuation*cloudFraction
}

func (w *Weather) windSpeed(timestamp time.Time) float64 {
	hours := float64(timestamp.YearDay()*24 + timestamp.Hour())
	speed := w.config.MeanWindSpeed * (1 + 0.4*math.Sin(hours/11.7))
	if speed < 0 {
		return 0
	}
	return speed
}
