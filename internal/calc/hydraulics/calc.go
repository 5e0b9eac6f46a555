// Package hydraulics sizes water and glycol pipework per CIBSE Guide C:
// Reynolds number, Darcy friction factor and Darcy–Weisbach pressure drop.
package hydraulics

import (
	"errors"
	"fmt"
	"math"

	"Plantroom/internal/fluids"
	"Plantroom/internal/refdata"
)

// LaminarLimit is the Reynolds number at or below which 64/Re applies.
const LaminarLimit = 2000.0

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownMaterial = errors.New("unknown pipe material")
	ErrUnknownSize     = errors.New("unknown nominal diameter")
)

func ReynoldsNumber(velocity, diameter, density, viscosity float64) float64 {
	return density * velocity * diameter / viscosity
}

// DarcyFrictionFactor solves Colebrook–White for the Darcy friction factor.
// roughness and diameter must share a unit. The laminar regime is not
// handled here; see FrictionFactor.
func DarcyFrictionFactor(reynolds, roughness, diameter float64) float64 {
	rr := roughness / diameter
	// Swamee–Jain start, then fixed-point on x = 1/sqrt(f).
	x := -2 * math.Log10(rr/3.7+5.74/math.Pow(reynolds, 0.9))
	for i := 0; i < 100; i++ {
		next := -2 * math.Log10(rr/3.7+2.51*x/reynolds)
		if math.Abs(next-x) < 1e-12 {
			x = next
			break
		}
		x = next
	}
	return 1 / (x * x)
}

// FrictionFactor picks 64/Re for laminar flow and Colebrook–White otherwise.
func FrictionFactor(reynolds, roughness, diameter float64) (f float64, laminar bool) {
	if reynolds <= LaminarLimit {
		return 64 / reynolds, true
	}
	return DarcyFrictionFactor(reynolds, roughness, diameter), false
}

// PressureDropPerMeter is Darcy–Weisbach in Pa/m with diameter in m.
func PressureDropPerMeter(frictionFactor, density, velocity, diameter float64) float64 {
	return frictionFactor * density * velocity * velocity / (2 * diameter)
}

type Input struct {
	Material           string  `json:"material"`
	NominalDiameterMM  float64 `json:"nominal_diameter_mm"`
	InternalDiameterMM float64 `json:"internal_diameter_mm"` // overrides the schedule bore when > 0
	FlowRateLPS        float64 `json:"flow_rate_l_s"`
	TemperatureC       float64 `json:"temperature_c"`
	GlycolFraction     float64 `json:"glycol_fraction"`
	PressurePa         float64 `json:"pressure_pa"`
}

type Result struct {
	InternalDiameterMM float64  `json:"internal_diameter_mm"`
	RoughnessMM        float64  `json:"roughness_mm"`
	VelocityMS         float64  `json:"velocity_m_s"`
	Reynolds           float64  `json:"reynolds"`
	FrictionFactor     float64  `json:"friction_factor"`
	Laminar            bool     `json:"laminar"`
	PressureDropPaM    float64  `json:"pressure_drop_pa_m"`
	VelocityPressurePa float64  `json:"velocity_pressure_pa"`
	Fluid              string   `json:"fluid"`
	DensityKgM3        float64  `json:"density_kg_m3"`
	ViscosityPaS       float64  `json:"viscosity_pa_s"`
	Entry              Entry    `json:"entry"`
	Warnings           []string `json:"warnings,omitempty"`
}

// Sizer resolves pipe data from a reference set and fluid properties from
// a provider.
type Sizer struct {
	Ref    *refdata.Set
	Fluids fluids.Provider
}

func (s *Sizer) Calculate(in Input) (Result, error) {
	if in.FlowRateLPS <= 0 {
		return Result{}, fmt.Errorf("%w: flow rate must be positive", ErrInvalidInput)
	}
	if in.GlycolFraction < 0 || in.GlycolFraction > 1 {
		return Result{}, fmt.Errorf("%w: glycol fraction must be within 0..1", ErrInvalidInput)
	}
	if in.PressurePa <= 0 {
		in.PressurePa = fluids.AtmosphericPressure
	}

	mat, ok := s.Ref.Material(in.Material)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, in.Material)
	}
	bore := in.InternalDiameterMM
	if bore <= 0 {
		bore, ok = mat.InternalDiameter(in.NominalDiameterMM)
		if !ok {
			return Result{}, fmt.Errorf("%w: %v mm %s", ErrUnknownSize, in.NominalDiameterMM, in.Material)
		}
	}

	fluid := fluids.GlycolID(in.GlycolFraction)
	props, err := s.Fluids.Properties(fluid, in.TemperatureC, in.PressurePa)
	if err != nil {
		return Result{}, err
	}

	d := bore / 1000
	area := math.Pi * (d / 2) * (d / 2)
	v := in.FlowRateLPS / 1000 / area
	re := ReynoldsNumber(v, d, props.Density, props.Viscosity)
	f, laminar := FrictionFactor(re, mat.RoughnessMM, bore)
	dp := PressureDropPerMeter(f, props.Density, v, d)

	res := Result{
		InternalDiameterMM: bore,
		RoughnessMM:        mat.RoughnessMM,
		VelocityMS:         v,
		Reynolds:           re,
		FrictionFactor:     f,
		Laminar:            laminar,
		PressureDropPaM:    dp,
		VelocityPressurePa: 0.5 * props.Density * v * v,
		Fluid:              fluid,
		DensityKgM3:        props.Density,
		ViscosityPaS:       props.Viscosity,
		Entry: Entry{
			Material:           mat.Material,
			NominalDiameterMM:  in.NominalDiameterMM,
			InternalDiameterMM: bore,
			VelocityMS:         math.Round(v*1000) / 1000,
			PressureDropPaM:    math.Round(dp*10) / 10,
		},
	}
	if laminar {
		res.Warnings = append(res.Warnings, "Reynolds number is less than 2000")
	}
	return res, nil
}
