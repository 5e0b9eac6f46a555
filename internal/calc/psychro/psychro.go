// Package psychro computes moist air humidity ratios with the ASHRAE
// Handbook Fundamentals 2017 SI formulation.
package psychro

import (
	"errors"
	"fmt"
	"math"

	"Plantroom/internal/fluids"
)

const (
	// TriplePoint of water, °C. Saturation is over ice at or below it.
	TriplePoint = 0.01
	// FreezingPoint, °C.
	FreezingPoint = 0.0

	minHumRatio = 1e-7
	// ratio of molecular masses of water vapour and dry air
	molarRatio = 0.621945
)

var ErrInvalidInput = errors.New("invalid input")

// SatVapPres returns the saturation vapour pressure in Pa at t °C, valid
// from -100 to 200 °C.
func SatVapPres(t float64) float64 {
	k := t + 273.15
	var ln float64
	if t <= TriplePoint {
		ln = -5.6745359e3/k + 6.3925247 - 9.677843e-3*k + 6.2215701e-7*k*k +
			2.0747825e-9*math.Pow(k, 3) - 9.484024e-13*math.Pow(k, 4) + 4.1635019*math.Log(k)
	} else {
		ln = -5.8002206e3/k + 1.3914993 - 4.8640239e-2*k + 4.1764768e-5*k*k -
			1.4452093e-8*math.Pow(k, 3) + 6.5459673*math.Log(k)
	}
	return math.Exp(ln)
}

// humRatioFromVapPres needs the total pressure to exceed the vapour
// pressure; at or below it the water would boil.
func humRatioFromVapPres(pw, p float64) (float64, error) {
	if p <= pw {
		return 0, fmt.Errorf("%w: pressure %.0f Pa does not exceed vapour pressure %.0f Pa", ErrInvalidInput, p, pw)
	}
	return math.Max(molarRatio*pw/(p-pw), minHumRatio), nil
}

// SatHumRatio is the humidity ratio of saturated air, kg/kg.
func SatHumRatio(t, p float64) (float64, error) {
	return humRatioFromVapPres(SatVapPres(t), p)
}

// HumRatioFromRelHum returns kg water per kg dry air for a dry bulb in °C,
// relative humidity in [0, 1] and pressure in Pa.
func HumRatioFromRelHum(tDry, rh, p float64) (float64, error) {
	if rh < 0 || rh > 1 {
		return 0, fmt.Errorf("%w: relative humidity %v outside [0, 1]", ErrInvalidInput, rh)
	}
	return humRatioFromVapPres(rh*SatVapPres(tDry), p)
}

// HumRatioFromTWetBulb returns kg water per kg dry air for dry and wet bulb
// temperatures in °C and pressure in Pa.
func HumRatioFromTWetBulb(tDry, tWet, p float64) (float64, error) {
	if tWet > tDry {
		return 0, fmt.Errorf("%w: wet-bulb temperature cannot be higher than dry-bulb temperature", ErrInvalidInput)
	}
	ws, err := SatHumRatio(tWet, p)
	if err != nil {
		return 0, err
	}
	var w float64
	if tWet >= FreezingPoint {
		w = ((2501-2.326*tWet)*ws - 1.006*(tDry-tWet)) / (2501 + 1.86*tDry - 4.186*tWet)
	} else {
		w = ((2830-0.24*tWet)*ws - 1.006*(tDry-tWet)) / (2830 + 1.86*tDry - 2.1*tWet)
	}
	return math.Max(w, minHumRatio), nil
}

type Input struct {
	Label      string  `json:"label"`
	DryBulbC   float64 `json:"dry_bulb_c"`
	WetBulbC   float64 `json:"wet_bulb_c"`
	PressurePa float64 `json:"pressure_pa"`
}

// Point is a state on the chart.
type Point struct {
	Label      string  `json:"label"`
	DryBulbC   float64 `json:"dry_bulb_c"`
	WetBulbC   float64 `json:"wet_bulb_c"`
	HumRatio   float64 `json:"hum_ratio"`
	PressurePa float64 `json:"pressure_pa"`
}

// Points is a caller-owned list of chart points.
type Points []Point

func (ps Points) Add(in Input) (Points, error) {
	p := in.PressurePa
	if p <= 0 {
		p = fluids.AtmosphericPressure
	}
	w, err := HumRatioFromTWetBulb(in.DryBulbC, in.WetBulbC, p)
	if err != nil {
		return ps, err
	}
	label := in.Label
	if label == "" {
		label = fmt.Sprintf("Point %d", len(ps)+1)
	}
	return append(ps, Point{Label: label, DryBulbC: in.DryBulbC, WetBulbC: in.WetBulbC, HumRatio: w, PressurePa: p}), nil
}
