// Package heating covers calorifier reheat and primary circuit sizing and
// the heat transfer relation Q = m·Cp·ΔT.
package heating

import (
	"errors"
	"fmt"

	"Plantroom/internal/fluids"
)

// WaterCp is the specific heat capacity of water used by the calorifier
// formulas, kJ/kgK.
const WaterCp = 4.18

// PasteurisationTemp is the minimum primary flow temperature, °C.
const PasteurisationTemp = 60.0

var ErrZeroDivisor = errors.New("division by zero")

const (
	WarnNegative       = "Your result is negative... take a look at input temperatures."
	WarnPasteurisation = "Flow temperature is lower than 60°C, another source of heat is required to perform pasturisation on the calorifier."
)

// ReheatTime returns minutes to raise volumeL litres from tInitial to
// tFinal with a coil of coilKW. A zero coil gives ±Inf or NaN.
func ReheatTime(tInitial, tFinal, volumeL, coilKW float64) float64 {
	return volumeL * (tFinal - tInitial) * WaterCp / (60 * coilKW)
}

// CoilSize returns the coil rating in kW that reheats in timeMin minutes.
func CoilSize(tInitial, tFinal, volumeL, timeMin float64) float64 {
	return volumeL * (tFinal - tInitial) * WaterCp / (60 * timeMin)
}

// PrimaryFlowrate returns the primary mass flow in kg/s.
func PrimaryFlowrate(tFlow, tReturn, coilKW float64) float64 {
	return coilKW / (WaterCp * (tFlow - tReturn))
}

func ReheatTimeChecked(tInitial, tFinal, volumeL, coilKW float64) (float64, error) {
	if coilKW == 0 {
		return 0, fmt.Errorf("reheat time: coil size: %w", ErrZeroDivisor)
	}
	return ReheatTime(tInitial, tFinal, volumeL, coilKW), nil
}

func CoilSizeChecked(tInitial, tFinal, volumeL, timeMin float64) (float64, error) {
	if timeMin == 0 {
		return 0, fmt.Errorf("coil size: reheat time: %w", ErrZeroDivisor)
	}
	return CoilSize(tInitial, tFinal, volumeL, timeMin), nil
}

func PrimaryFlowrateChecked(tFlow, tReturn, coilKW float64) (float64, error) {
	if tFlow == tReturn {
		return 0, fmt.Errorf("primary flow rate: flow equals return temperature: %w", ErrZeroDivisor)
	}
	return PrimaryFlowrate(tFlow, tReturn, coilKW), nil
}

// HeatTransfer returns kW for a flow in l/s, Cp in kJ/kgK, ΔT in K and
// density in kg/m³.
func HeatTransfer(flowRate, cp, deltaT, density float64) float64 {
	m := flowRate * density
	return m * cp * deltaT / 1000
}

func DeltaT(heatTransfer, flowRate, cp, density float64) float64 {
	m := flowRate * density
	return heatTransfer * 1000 / (m * cp)
}

func FlowRate(deltaT, heatTransfer, cp, density float64) float64 {
	m := heatTransfer / (cp * deltaT / 1000)
	return m / density
}

// Advisories for calorifier inputs. They never block a calculation.
func TemperatureWarnings(tInitial, tFinal float64) []string {
	if tFinal <= tInitial {
		return []string{WarnNegative}
	}
	return nil
}

func PrimaryWarnings(tFlow, tReturn float64) []string {
	var out []string
	if tFlow < PasteurisationTemp {
		out = append(out, WarnPasteurisation)
	}
	return append(out, TemperatureWarnings(tReturn, tFlow)...)
}

const (
	ModeReheatTime = "reheat_time"
	ModeCoilSize   = "coil_size"
)

type Input struct {
	Mode           string  `json:"mode"` // reheat_time or coil_size
	InitialTempC   float64 `json:"initial_temp_c"`
	FinalTempC     float64 `json:"final_temp_c"`
	VesselVolumeL  float64 `json:"vessel_volume_l"`
	CoilKW         float64 `json:"coil_kw"`
	ReheatTimeMin  float64 `json:"reheat_time_min"`
	IncludePrimary bool    `json:"include_primary"`
	PrimaryFlowC   float64 `json:"primary_flow_c"`
	PrimaryReturnC float64 `json:"primary_return_c"`
}

type Result struct {
	Mode           string   `json:"mode"`
	ReheatTimeMin  float64  `json:"reheat_time_min"`
	CoilKW         float64  `json:"coil_kw"`
	PrimaryFlowKgS float64  `json:"primary_flow_kg_s"`
	Warnings       []string `json:"warnings,omitempty"`
	Notes          string   `json:"notes"`
}

// Calculate runs the calorifier tool: either reheat time from a coil or the
// coil for a reheat time, optionally followed by the primary circuit.
func Calculate(in Input) (Result, error) {
	res := Result{Mode: in.Mode, Notes: "Vessel and primary circuit contain water only. No safety margin applied."}
	var err error
	switch in.Mode {
	case ModeReheatTime, "":
		res.Mode = ModeReheatTime
		res.CoilKW = in.CoilKW
		res.ReheatTimeMin, err = ReheatTimeChecked(in.InitialTempC, in.FinalTempC, in.VesselVolumeL, in.CoilKW)
	case ModeCoilSize:
		res.ReheatTimeMin = in.ReheatTimeMin
		res.CoilKW, err = CoilSizeChecked(in.InitialTempC, in.FinalTempC, in.VesselVolumeL, in.ReheatTimeMin)
	default:
		return Result{}, fmt.Errorf("unknown mode %q", in.Mode)
	}
	if err != nil {
		return Result{}, err
	}
	res.Warnings = TemperatureWarnings(in.InitialTempC, in.FinalTempC)

	if in.IncludePrimary {
		res.PrimaryFlowKgS, err = PrimaryFlowrateChecked(in.PrimaryFlowC, in.PrimaryReturnC, res.CoilKW)
		if err != nil {
			return Result{}, err
		}
		res.Warnings = append(res.Warnings, PrimaryWarnings(in.PrimaryFlowC, in.PrimaryReturnC)...)
	}
	return res, nil
}

const (
	SolveHeatTransfer = "heat_transfer"
	SolveDeltaT       = "delta_t"
	SolveFlowRate     = "flow_rate"
)

type TransferInput struct {
	Solve        string  `json:"solve"` // heat_transfer, delta_t or flow_rate
	Medium       string  `json:"medium"`
	TemperatureC float64 `json:"temperature_c"`
	PressurePa   float64 `json:"pressure_pa"`
	FlowRateLPS  float64 `json:"flow_rate_l_s"`
	DeltaTK      float64 `json:"delta_t_k"`
	HeatKW       float64 `json:"heat_kw"`
}

type TransferResult struct {
	Solve        string  `json:"solve"`
	FlowRateLPS  float64 `json:"flow_rate_l_s"`
	DeltaTK      float64 `json:"delta_t_k"`
	HeatKW       float64 `json:"heat_kw"`
	SpecificHeat float64 `json:"specific_heat_kj_kgk"`
	DensityKgM3  float64 `json:"density_kg_m3"`
}

// Transfer solves the heat transfer triangle for one unknown with medium
// properties from p. Flow is in l/s and density in kg/m³; the /1000 in the
// relations converts litres.
func Transfer(p fluids.Provider, in TransferInput) (TransferResult, error) {
	if in.Medium == "" {
		in.Medium = fluids.Water
	}
	if in.PressurePa <= 0 {
		in.PressurePa = fluids.AtmosphericPressure
	}
	props, err := p.Properties(in.Medium, in.TemperatureC, in.PressurePa)
	if err != nil {
		return TransferResult{}, err
	}
	rho, cp := props.Density, props.SpecificHeat
	res := TransferResult{
		FlowRateLPS:  in.FlowRateLPS,
		DeltaTK:      in.DeltaTK,
		HeatKW:       in.HeatKW,
		SpecificHeat: cp,
		DensityKgM3:  rho,
	}
	switch in.Solve {
	case SolveHeatTransfer, "":
		res.Solve = SolveHeatTransfer
		res.HeatKW = HeatTransfer(in.FlowRateLPS, cp, in.DeltaTK, rho)
	case SolveDeltaT:
		res.Solve = SolveDeltaT
		if in.FlowRateLPS == 0 {
			return TransferResult{}, fmt.Errorf("delta T: flow rate: %w", ErrZeroDivisor)
		}
		res.DeltaTK = DeltaT(in.HeatKW, in.FlowRateLPS, cp, rho)
	case SolveFlowRate:
		res.Solve = SolveFlowRate
		if in.DeltaTK == 0 {
			return TransferResult{}, fmt.Errorf("flow rate: delta T: %w", ErrZeroDivisor)
		}
		res.FlowRateLPS = FlowRate(in.DeltaTK, in.HeatKW, cp, rho)
	default:
		return TransferResult{}, fmt.Errorf("unknown quantity %q", in.Solve)
	}
	return res, nil
}
