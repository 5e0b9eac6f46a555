// Package expansion sizes sealed-system expansion vessels by the BS 7074
// method.
package expansion

import (
	"errors"
	"fmt"
	"sort"

	"Plantroom/internal/refdata"
)

const (
	// SafetyFactor applied to the vessel volume.
	SafetyFactor = 1.1
	// DefaultLitresPerKW estimates system volume from plant output.
	DefaultLitresPerKW = 12.0
	// TemperatureLimit above which vessel ratings need checking, °C.
	TemperatureLimit = 80.0

	excludeAir      = 0.35
	gaugeToAbsolute = 1.0
)

var (
	ErrZeroDivisor  = errors.New("division by zero")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	WarnTemperature = "Maximum system is greater than 80°C, check expansion vessel temperature limits and specify intermediate vessel as necessary."
	WarnColdFill    = "Cold fill pressure is greater then the maximum system pressure, so your values will be negative."
)

// ColdFillPressure in bar abs for a static head in metres.
func ColdFillPressure(staticHead float64) float64 {
	return excludeAir + staticHead*0.1 + gaugeToAbsolute
}

// MaxSystemPressure in bar abs from the lowest working pressure and the
// safety valve margin, both bar g.
func MaxSystemPressure(lowestWP, svMargin float64) float64 {
	return lowestWP - svMargin + gaugeToAbsolute
}

func AcceptanceFactor(cfp, maxPressure float64) float64 {
	return (maxPressure - cfp) / maxPressure
}

// ExpansionFactor looks t up in table, which must hold at least two points
// in increasing temperature order. Between breakpoints the factor is
// interpolated linearly; outside the table the end segment is extended.
func ExpansionFactor(table []refdata.ExpansionPoint, t float64) float64 {
	temps := make([]float64, len(table))
	for i, p := range table {
		temps[i] = p.Temperature
	}
	idx := sort.SearchFloat64s(temps, t)
	if idx < len(temps) && temps[idx] == t {
		return table[idx].Factor
	}
	switch {
	case idx == 0:
		idx = 1
	case idx == len(temps):
		idx = len(temps) - 1
	}
	lo, hi := table[idx-1], table[idx]
	return lo.Factor + (hi.Factor-lo.Factor)/(hi.Temperature-lo.Temperature)*(t-lo.Temperature)
}

// VesselSize in litres, safety factor included.
func VesselSize(systemVolume, expansionFactor, acceptance float64) float64 {
	return systemVolume * (expansionFactor / acceptance) * SafetyFactor
}

type Input struct {
	LowestWorkingPressure float64 `json:"lowest_working_pressure_barg"`
	SafetyValveMargin     float64 `json:"safety_valve_margin_barg"`
	MaxTemperatureC       float64 `json:"max_temperature_c"`
	StaticHeadM           float64 `json:"static_head_m"`

	// SystemVolumeL is used as given unless SystemKW is set, in which case
	// the volume is SystemKW × LitresPerKW.
	SystemVolumeL float64 `json:"system_volume_l"`
	SystemKW      float64 `json:"system_kw"`
	LitresPerKW   float64 `json:"litres_per_kw"`

	// Acceptance overrides the calculated acceptance factor, as with a fill
	// and spill unit. Zero means calculate.
	Acceptance float64 `json:"acceptance"`
}

type Result struct {
	SystemVolumeL     float64  `json:"system_volume_l"`
	ColdFillPressure  float64  `json:"cold_fill_pressure_bar"`
	MaxSystemPressure float64  `json:"max_system_pressure_bar"`
	Acceptance        float64  `json:"acceptance"`
	ExpansionFactor   float64  `json:"expansion_factor"`
	VesselL           float64  `json:"vessel_l"`
	Warnings          []string `json:"warnings,omitempty"`
}

func Calculate(table []refdata.ExpansionPoint, in Input) (Result, error) {
	if len(table) < 2 {
		return Result{}, fmt.Errorf("%w: expansion table needs at least two points", ErrInvalidInput)
	}
	if in.Acceptance < 0 || in.Acceptance > 1 {
		return Result{}, fmt.Errorf("%w: acceptance %v outside (0, 1]", ErrInvalidInput, in.Acceptance)
	}

	res := Result{SystemVolumeL: in.SystemVolumeL}
	if in.SystemKW > 0 {
		lpkw := in.LitresPerKW
		if lpkw <= 0 {
			lpkw = DefaultLitresPerKW
		}
		res.SystemVolumeL = in.SystemKW * lpkw
	}

	res.ColdFillPressure = ColdFillPressure(in.StaticHeadM)
	res.MaxSystemPressure = MaxSystemPressure(in.LowestWorkingPressure, in.SafetyValveMargin)
	res.Acceptance = in.Acceptance
	if res.Acceptance == 0 {
		if res.MaxSystemPressure == 0 {
			return Result{}, fmt.Errorf("acceptance factor: max system pressure: %w", ErrZeroDivisor)
		}
		res.Acceptance = AcceptanceFactor(res.ColdFillPressure, res.MaxSystemPressure)
		if res.Acceptance == 0 {
			return Result{}, fmt.Errorf("vessel size: acceptance: %w", ErrZeroDivisor)
		}
	}

	res.ExpansionFactor = ExpansionFactor(table, in.MaxTemperatureC)
	res.VesselL = VesselSize(res.SystemVolumeL, res.ExpansionFactor, res.Acceptance)

	if in.MaxTemperatureC > TemperatureLimit {
		res.Warnings = append(res.Warnings, WarnTemperature)
	}
	if res.ColdFillPressure > res.MaxSystemPressure {
		res.Warnings = append(res.Warnings, WarnColdFill)
	}
	return res, nil
}

// Row is one line of a vessel results table.
type Row struct {
	MaxTemperatureC   float64 `json:"max_temperature_c"`
	StaticHeadM       float64 `json:"static_head_m"`
	SafetyValveMargin float64 `json:"safety_valve_margin_barg"`
	VesselL           float64 `json:"vessel_l"`
	Acceptance        float64 `json:"acceptance"`
}

// Results is a caller-owned table of vessel calculations.
type Results []Row

// Append returns r with the calculation for in appended.
func (r Results) Append(in Input, res Result) Results {
	return append(r, Row{
		MaxTemperatureC:   in.MaxTemperatureC,
		StaticHeadM:       in.StaticHeadM,
		SafetyValveMargin: in.SafetyValveMargin,
		VesselL:           res.VesselL,
		Acceptance:        res.Acceptance,
	})
}
