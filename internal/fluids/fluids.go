// Package fluids supplies thermophysical properties to the calculators.
//
// The calculators never depend on a concrete source: they take a Provider
// and consume the returned numbers as plain parameters.
package fluids

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"Plantroom/internal/refdata"

	"gonum.org/v1/gonum/interp"
)

const (
	Water = "water"
	Air   = "air"

	// AtmosphericPressure in Pa.
	AtmosphericPressure = 101325.0
)

var ErrUnknownFluid = errors.New("unknown fluid")

type Properties struct {
	Density      float64 `json:"density_kg_m3"`
	Viscosity    float64 `json:"viscosity_pa_s"`
	SpecificHeat float64 `json:"specific_heat_kj_kgk"`
}

// Provider returns properties of fluid at temperature (°C) and pressure (Pa).
type Provider interface {
	Properties(fluid string, temperature, pressure float64) (Properties, error)
}

// GlycolID names the ethylene glycol/water mixture for a mass fraction in
// [0, 1], e.g. 0.3 -> "meg-30". A zero fraction is plain water.
func GlycolID(fraction float64) string {
	pct := int(math.Round(fraction * 100))
	if pct <= 0 {
		return Water
	}
	return fmt.Sprintf("%s%d", glycolPrefix, pct)
}

const glycolPrefix = "meg-"

// glycolPct parses the mass percentage out of a GlycolID.
func glycolPct(fluid string) (int, bool) {
	if fluid == Water {
		return 0, true
	}
	if !strings.HasPrefix(fluid, glycolPrefix) {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimPrefix(fluid, glycolPrefix))
	if err != nil || pct <= 0 || pct > 100 {
		return 0, false
	}
	return pct, true
}

type curve struct {
	density, viscosity, cp interp.PiecewiseLinear
}

func (c *curve) at(temperature float64) Properties {
	return Properties{
		Density:      c.density.Predict(temperature),
		Viscosity:    c.viscosity.Predict(temperature),
		SpecificHeat: c.cp.Predict(temperature),
	}
}

// Table interpolates tabulated properties linearly in temperature and holds
// the end values outside the tabulated range. Gas densities are scaled with
// pressure; liquids are treated as incompressible.
//
// Glycol mixtures between two tabulated concentrations are interpolated
// linearly in concentration, with water as the 0 % table. Concentrations
// above the strongest tabulated mixture are unknown.
type Table struct {
	curves map[string]*curve
	names  []string
	glycol []int // tabulated percentages, ascending
}

var _ Provider = (*Table)(nil)

func NewTable(data map[string][]refdata.FluidPoint) (*Table, error) {
	t := &Table{curves: make(map[string]*curve, len(data))}
	for name, pts := range data {
		ts := make([]float64, len(pts))
		rho := make([]float64, len(pts))
		mu := make([]float64, len(pts))
		cp := make([]float64, len(pts))
		for i, p := range pts {
			ts[i], rho[i], mu[i], cp[i] = p.T, p.Density, p.Viscosity, p.Cp
		}
		c := &curve{}
		if err := c.density.Fit(ts, rho); err != nil {
			return nil, fmt.Errorf("fluid %q density: %w", name, err)
		}
		if err := c.viscosity.Fit(ts, mu); err != nil {
			return nil, fmt.Errorf("fluid %q viscosity: %w", name, err)
		}
		if err := c.cp.Fit(ts, cp); err != nil {
			return nil, fmt.Errorf("fluid %q specific heat: %w", name, err)
		}
		t.curves[name] = c
		t.names = append(t.names, name)
		if pct, ok := glycolPct(name); ok {
			t.glycol = append(t.glycol, pct)
		}
	}
	sort.Strings(t.names)
	sort.Ints(t.glycol)
	return t, nil
}

func (t *Table) Properties(fluid string, temperature, pressure float64) (Properties, error) {
	var p Properties
	if c, ok := t.curves[fluid]; ok {
		p = c.at(temperature)
	} else {
		var err error
		if p, err = t.blend(fluid, temperature); err != nil {
			return Properties{}, err
		}
	}
	if fluid == Air && pressure > 0 && !math.IsInf(pressure, 0) {
		p.Density *= pressure / AtmosphericPressure
	}
	return p, nil
}

func (t *Table) blend(fluid string, temperature float64) (Properties, error) {
	pct, ok := glycolPct(fluid)
	i := sort.SearchInts(t.glycol, pct)
	if !ok || i == 0 || i == len(t.glycol) {
		return Properties{}, fmt.Errorf("%w: %q", ErrUnknownFluid, fluid)
	}
	lo, hi := t.glycol[i-1], t.glycol[i]
	a := t.curves[t.glycolName(lo)].at(temperature)
	b := t.curves[t.glycolName(hi)].at(temperature)
	w := float64(pct-lo) / float64(hi-lo)
	return Properties{
		Density:      a.Density + w*(b.Density-a.Density),
		Viscosity:    a.Viscosity + w*(b.Viscosity-a.Viscosity),
		SpecificHeat: a.SpecificHeat + w*(b.SpecificHeat-a.SpecificHeat),
	}, nil
}

func (t *Table) glycolName(pct int) string {
	if pct == 0 {
		return Water
	}
	return fmt.Sprintf("%s%d", glycolPrefix, pct)
}

// Fluids lists the fluids the table knows, sorted.
func (t *Table) Fluids() []string {
	return append([]string(nil), t.names...)
}
