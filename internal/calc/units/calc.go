package units

import (
	"errors"
	"fmt"
	"math"

	"Plantroom/internal/refdata"
)

var ErrUnknownUnit = errors.New("unknown unit")

const (
	KindAirflow = "airflow"
	KindEnergy  = "energy"
)

type Input struct {
	Kind  string  `json:"kind"` // airflow or energy
	Value float64 `json:"value"`
	From  string  `json:"from"`
	To    string  `json:"to"`
}

type Result struct {
	Value     float64 `json:"value"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
}

// Converter converts between the units of one reference set. The airflow
// table is a literal pairwise matrix, so chained conversions are only
// transitive to within the rounding of its entries.
type Converter struct {
	airflow refdata.Airflow
	energy  []refdata.EnergyUnit
	joules  map[string]float64
}

func NewConverter(set *refdata.Set) *Converter {
	c := &Converter{
		airflow: set.Airflow,
		energy:  set.Energy,
		joules:  make(map[string]float64, len(set.Energy)),
	}
	for _, e := range set.Energy {
		c.joules[e.Unit] = e.Joules
	}
	return c
}

// AirflowRate returns value * factor[from][to], unrounded.
func (c *Converter) AirflowRate(value float64, from, to string) (float64, error) {
	row, ok := c.airflow.Factors[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	factor, ok := row[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	return value * factor, nil
}

// HeatingConversionFactors returns the multipliers to joules. The map is a
// copy.
func (c *Converter) HeatingConversionFactors() map[string]float64 {
	out := make(map[string]float64, len(c.joules))
	for k, v := range c.joules {
		out[k] = v
	}
	return out
}

// Heating converts amount via joules and rounds to 3 decimal places.
func (c *Converter) Heating(from, to string, amount float64) (float64, error) {
	f, ok := c.joules[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	t, ok := c.joules[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	return round(amount*f/t, 3), nil
}

func (c *Converter) AirflowUnits() []string {
	return append([]string(nil), c.airflow.Units...)
}

func (c *Converter) HeatingUnits() []string {
	out := make([]string, 0, len(c.energy))
	for _, e := range c.energy {
		out = append(out, e.Unit)
	}
	return out
}

func (c *Converter) Calculate(in Input) (Result, error) {
	var (
		v   float64
		err error
	)
	switch in.Kind {
	case KindAirflow, "":
		v, err = c.AirflowRate(in.Value, in.From, in.To)
	case KindEnergy:
		v, err = c.Heating(in.From, in.To, in.Value)
	default:
		return Result{}, fmt.Errorf("unknown conversion kind %q", in.Kind)
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Value: in.Value, From: in.From, To: in.To, Converted: v}, nil
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
