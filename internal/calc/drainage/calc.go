// Package drainage holds the public health tools: BS EN 12056 discharge
// unit totals and stack selection, pipe gradients and pipe volumes.
package drainage

import (
	"errors"
	"fmt"
	"math"

	"Plantroom/internal/refdata"

	"gonum.org/v1/gonum/floats"
)

const (
	MethodPrimary   = "Primary"
	MethodSecondary = "Secondary"
)

// NoSuitableStack is the selection label when every stack is too small.
const NoSuitableStack = "there is no suitable stack option as the flow rate exceeds maximum limits, consider multiple stacks."

var (
	ErrUnknownAppliance = errors.New("unknown appliance")
	ErrUnknownMethod    = errors.New("unknown venting method")
	ErrZeroDivisor      = errors.New("division by zero")
	ErrInvalidInput     = errors.New("invalid input")
)

type DUTotal struct {
	Total     float64 `json:"total_du"`
	WCPresent bool    `json:"wc_present"`
}

// TotalDU sums DU × quantity over the appliance table plus any additional
// DU. Every key of quantities must name an appliance and quantities must not
// be negative. A WC is present when any WC appliance has a positive quantity.
func TotalDU(appliances []refdata.Appliance, quantities map[string]int, additional float64) (DUTotal, error) {
	if additional < 0 {
		return DUTotal{}, fmt.Errorf("%w: additional DU must not be negative", ErrInvalidInput)
	}
	byLabel := make(map[string]refdata.Appliance, len(appliances))
	for _, a := range appliances {
		byLabel[a.Label] = a
	}
	for label, q := range quantities {
		if _, ok := byLabel[label]; !ok {
			return DUTotal{}, fmt.Errorf("%w: %q", ErrUnknownAppliance, label)
		}
		if q < 0 {
			return DUTotal{}, fmt.Errorf("%w: quantity of %q must not be negative", ErrInvalidInput, label)
		}
	}

	var out DUTotal
	parts := make([]float64, 0, len(appliances)+1)
	for _, a := range appliances {
		q := quantities[a.Label]
		parts = append(parts, a.DU*float64(q))
		if a.WC && q > 0 {
			out.WCPresent = true
		}
	}
	out.Total = floats.Sum(append(parts, additional))
	return out, nil
}

// WastewaterFlowrate is √DU·K plus any continuous or pumped discharge, l/s.
func WastewaterFlowrate(totalDU, k, continuous float64) float64 {
	return math.Sqrt(totalDU)*k + continuous
}

// Selection is the outcome of a stack search. Found is false when no stack
// carries the flow; Label then holds NoSuitableStack.
type Selection struct {
	Label string `json:"label"`
	Found bool   `json:"found"`
}

// SelectStackOption returns the first stack of the method's table, smallest
// first, whose capacity covers flow. Options marked skip-with-WC are passed
// over when a WC discharges to the stack.
func SelectStackOption(stacks map[string][]refdata.StackOption, flow float64, wcPresent bool, method string) (Selection, error) {
	table, ok := stacks[method]
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	for _, opt := range table {
		if wcPresent && opt.SkipWithWC {
			continue
		}
		if flow <= opt.Capacity {
			return Selection{Label: "primary " + opt.Option, Found: true}, nil
		}
	}
	return Selection{Label: NoSuitableStack}, nil
}

type StackInput struct {
	Appliances   map[string]int `json:"appliances"`
	AdditionalDU float64        `json:"additional_du"`
	// Frequency names a frequency-of-use row; K overrides it when set.
	Frequency     string  `json:"frequency"`
	K             float64 `json:"k"`
	PumpedLPS     float64 `json:"pumped_l_s"`
	ContinuousLPS float64 `json:"continuous_l_s"`
	Method        string  `json:"method"`
}

type StackResult struct {
	DUTotal
	K         float64   `json:"k"`
	FlowLPS   float64   `json:"flow_l_s"`
	Selection Selection `json:"selection"`
}

// SizeStack runs the stack sizing tool end to end.
func SizeStack(ref *refdata.Set, in StackInput) (StackResult, error) {
	switch {
	case in.K < 0:
		return StackResult{}, fmt.Errorf("%w: K must not be negative", ErrInvalidInput)
	case in.PumpedLPS < 0:
		return StackResult{}, fmt.Errorf("%w: pumped flow must not be negative", ErrInvalidInput)
	case in.ContinuousLPS < 0:
		return StackResult{}, fmt.Errorf("%w: continuous flow must not be negative", ErrInvalidInput)
	}
	du, err := TotalDU(ref.Appliances, in.Appliances, in.AdditionalDU)
	if err != nil {
		return StackResult{}, err
	}
	k := in.K
	if k == 0 {
		f, ok := frequency(ref.Frequency, in.Frequency)
		if !ok {
			return StackResult{}, fmt.Errorf("%w: frequency of use %q", ErrInvalidInput, in.Frequency)
		}
		k = f
	}
	method := in.Method
	if method == "" {
		method = MethodPrimary
	}
	flow := WastewaterFlowrate(du.Total, k, in.PumpedLPS+in.ContinuousLPS)
	sel, err := SelectStackOption(ref.Stacks, flow, du.WCPresent, method)
	if err != nil {
		return StackResult{}, err
	}
	return StackResult{DUTotal: du, K: k, FlowLPS: flow, Selection: sel}, nil
}

func frequency(table []refdata.Frequency, label string) (float64, bool) {
	for _, f := range table {
		if f.Label == label {
			return f.K, true
		}
	}
	return 0, false
}

// Slope describes a pipe fall over a run.
type Slope struct {
	OneIn   float64 `json:"one_in"`
	Degrees float64 `json:"degrees"`
	Percent float64 `json:"percent"`
}

func Gradient(fallMM, runMM float64) (Slope, error) {
	if runMM <= 0 {
		return Slope{}, fmt.Errorf("%w: run length must be positive", ErrInvalidInput)
	}
	if fallMM == 0 {
		return Slope{}, fmt.Errorf("gradient: fall: %w", ErrZeroDivisor)
	}
	return Slope{
		OneIn:   runMM / fallMM,
		Degrees: math.Atan(fallMM/runMM) * 180 / math.Pi,
		Percent: fallMM / runMM * 100,
	}, nil
}
