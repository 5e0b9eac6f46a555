// Package refdata holds the static reference datasets used by the
// calculators: the water expansion table, unit conversion tables, appliance
// discharge units, stack capacities, pipe schedules and fluid properties.
//
// A Set is immutable once loaded and may be shared between goroutines.
package refdata

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml
var embedded []byte

// FileName is the file looked up inside an override directory.
const FileName = "reference.yaml"

type ExpansionPoint struct {
	Temperature float64 `yaml:"temperature" json:"temperature"`
	Factor      float64 `yaml:"factor" json:"factor"`
}

type Airflow struct {
	Units   []string                      `yaml:"units" json:"units"`
	Factors map[string]map[string]float64 `yaml:"factors" json:"factors"`
}

type EnergyUnit struct {
	Unit   string  `yaml:"unit" json:"unit"`
	Joules float64 `yaml:"joules" json:"joules"`
}

type Appliance struct {
	Label string  `yaml:"label" json:"label"`
	DU    float64 `yaml:"du" json:"du"`
	WC    bool    `yaml:"wc" json:"wc"`
}

type Frequency struct {
	Label string  `yaml:"label" json:"label"`
	K     float64 `yaml:"k" json:"k"`
}

// StackOption is one row of a stack capacity table. Tables are ordered
// smallest bore first.
type StackOption struct {
	Option     string  `yaml:"option" json:"option"`
	Capacity   float64 `yaml:"capacity" json:"capacity"`
	SkipWithWC bool    `yaml:"skip_with_wc" json:"skip_with_wc"`
}

type PipeSize struct {
	Nominal  float64 `yaml:"nominal" json:"nominal_mm"`
	Internal float64 `yaml:"internal" json:"internal_mm"`
}

type PipeMaterial struct {
	Material    string     `yaml:"material" json:"material"`
	RoughnessMM float64    `yaml:"roughness_mm" json:"roughness_mm"`
	Sizes       []PipeSize `yaml:"sizes" json:"sizes"`
}

// FluidPoint is a property row at temperature T (°C) and atmospheric
// pressure. Viscosity is dynamic (Pa·s), Cp in kJ/kgK.
type FluidPoint struct {
	T         float64 `yaml:"t" json:"t"`
	Density   float64 `yaml:"density" json:"density"`
	Viscosity float64 `yaml:"viscosity" json:"viscosity"`
	Cp        float64 `yaml:"cp" json:"cp"`
}

type Set struct {
	Expansion  []ExpansionPoint         `yaml:"expansion" json:"expansion"`
	Airflow    Airflow                  `yaml:"airflow" json:"airflow"`
	Energy     []EnergyUnit             `yaml:"energy" json:"energy"`
	Appliances []Appliance              `yaml:"appliances" json:"appliances"`
	Frequency  []Frequency              `yaml:"frequency" json:"frequency"`
	Stacks     map[string][]StackOption `yaml:"stacks" json:"stacks"`
	Pipes      []PipeMaterial           `yaml:"pipes" json:"pipes"`
	Fluids     map[string][]FluidPoint  `yaml:"fluids" json:"fluids"`
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the embedded reference set, parsed on first use.
func Default() *Set {
	defaultOnce.Do(func() {
		s, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("refdata: embedded dataset: %v", err))
		}
		defaultSet = s
	})
	return defaultSet
}

// Load reads reference.yaml from dir. An empty dir returns Default.
func Load(dir string) (*Set, error) {
	if dir == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Set) validate() error {
	if len(s.Expansion) < 2 {
		return fmt.Errorf("expansion table needs at least two points")
	}
	for i := 1; i < len(s.Expansion); i++ {
		if s.Expansion[i].Temperature <= s.Expansion[i-1].Temperature {
			return fmt.Errorf("expansion table: temperature %v not increasing", s.Expansion[i].Temperature)
		}
	}
	for _, from := range s.Airflow.Units {
		row, ok := s.Airflow.Factors[from]
		if !ok {
			return fmt.Errorf("airflow table: missing row %q", from)
		}
		for _, to := range s.Airflow.Units {
			if _, ok := row[to]; !ok {
				return fmt.Errorf("airflow table: missing factor %q -> %q", from, to)
			}
		}
	}
	for _, e := range s.Energy {
		if e.Joules <= 0 {
			return fmt.Errorf("energy unit %q: factor must be positive", e.Unit)
		}
	}
	for method, opts := range s.Stacks {
		if len(opts) == 0 {
			return fmt.Errorf("stack table %q is empty", method)
		}
	}
	for name, pts := range s.Fluids {
		if len(pts) < 2 {
			return fmt.Errorf("fluid %q needs at least two points", name)
		}
		for i := 1; i < len(pts); i++ {
			if pts[i].T <= pts[i-1].T {
				return fmt.Errorf("fluid %q: temperature %v not increasing", name, pts[i].T)
			}
		}
	}
	return nil
}

func (s *Set) Appliance(label string) (Appliance, bool) {
	for _, a := range s.Appliances {
		if a.Label == label {
			return a, true
		}
	}
	return Appliance{}, false
}

func (s *Set) Material(name string) (PipeMaterial, bool) {
	for _, m := range s.Pipes {
		if m.Material == name {
			return m, true
		}
	}
	return PipeMaterial{}, false
}

// InternalDiameter looks up the bore for a nominal size of this material.
func (m PipeMaterial) InternalDiameter(nominal float64) (float64, bool) {
	for _, sz := range m.Sizes {
		if sz.Nominal == nominal {
			return sz.Internal, true
		}
	}
	return 0, false
}
