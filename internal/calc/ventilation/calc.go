// Package ventilation covers room air change rates, CIBSE duct sizing and
// louvre face velocity.
package ventilation

import (
	"errors"
	"fmt"
	"math"

	"Plantroom/internal/fluids"
)

const (
	// DuctFrictionFactor is the fixed Darcy factor used for ductwork.
	DuctFrictionFactor = 0.02
	// AspectRatioLimit at or above which a rectangular duct is flagged.
	AspectRatioLimit = 4.0
)

const WarnAspectRatio = "Aspect ratio is greater than 4 to 1 in one axis, this is typically not ok."

var (
	ErrZeroDivisor  = errors.New("division by zero")
	ErrInvalidInput = errors.New("invalid input")
)

func RoomVolume(floorArea, ceilingHeight float64) float64 {
	return floorArea * ceilingHeight
}

// ACH returns air changes per hour for a flow in m³/s.
func ACH(roomVolume, flow float64) float64 {
	return flow * 3600 / roomVolume
}

// VolumeFlowRate in m³/s for a room volume and air change rate.
func VolumeFlowRate(roomVolume, ach float64) float64 {
	return roomVolume * ach / 3600
}

// OccupationFlowRate in m³/s for people at lps l/s each.
func OccupationFlowRate(people, lps float64) float64 {
	return people * lps / 1000
}

// RectDuctArea returns the area in m² and the diameter in mm of the circle
// of equal area.
func RectDuctArea(heightMM, widthMM float64) (area, eqDiameterMM float64) {
	area = heightMM / 1000 * (widthMM / 1000)
	return area, math.Sqrt(area/math.Pi) * 2000
}

func RoundDuctArea(diameterMM float64) float64 {
	r := diameterMM / 2000
	return math.Pi * r * r
}

func DuctVelocity(area, flow float64) float64 {
	return flow / area
}

// MinDiameter is the smallest whole-millimetre round duct carrying flow at
// no more than maxVelocity.
func MinDiameter(flow, maxVelocity float64) int {
	area := flow / maxVelocity
	return int(math.Ceil(math.Sqrt(4*area/math.Pi) * 1000))
}

// MinRectSize returns width and height in mm. With fixedMM > 0 the width is
// fixed and the height solved exactly; otherwise the duct is square and
// rounded up to the millimetre.
func MinRectSize(flow, maxVelocity, fixedMM float64) (widthMM, heightMM float64) {
	area := flow / maxVelocity
	if fixedMM > 0 {
		return fixedMM, area / (fixedMM / 1000) * 1000
	}
	side := math.Ceil(math.Sqrt(area) * 1000)
	return side, side
}

// PressureLoss in Pa/m with DuctFrictionFactor.
func PressureLoss(diameterMM, density, velocity float64) float64 {
	d := diameterMM / 1000
	return DuctFrictionFactor * density * velocity * velocity / (2 * d)
}

// AspectRatio is the long side over the short side.
func AspectRatio(widthMM, heightMM float64) float64 {
	r := widthMM / heightMM
	if r < 1 {
		r = 1 / r
	}
	return r
}

func LouvreFaceVelocity(flow, freeArea float64) float64 {
	return flow / freeArea
}

const (
	ModeACH       = "ach"
	ModeFlow      = "flow"
	ModeOccupancy = "occupancy"
)

type RoomInput struct {
	Reference string `json:"reference"`
	Mode      string `json:"mode"` // ach, flow or occupancy
	// Room size: VolumeM3, or FloorAreaM2 and HeightM, or LengthM, WidthM
	// and HeightM.
	VolumeM3    float64 `json:"volume_m3"`
	FloorAreaM2 float64 `json:"floor_area_m2"`
	LengthM     float64 `json:"length_m"`
	WidthM      float64 `json:"width_m"`
	HeightM     float64 `json:"height_m"`

	FlowM3S    float64 `json:"flow_m3_s"`
	ACH        float64 `json:"ach"`
	People     float64 `json:"people"`
	LPerPerson float64 `json:"l_s_per_person"`
}

type RoomResult struct {
	Reference   string  `json:"reference"`
	FloorAreaM2 float64 `json:"floor_area_m2,omitempty"`
	HeightM     float64 `json:"height_m,omitempty"`
	VolumeM3    float64 `json:"volume_m3"`
	ACH         float64 `json:"ach"`
	FlowM3S     float64 `json:"flow_m3_s"`
	// Occupancy mode only.
	OccupationFlowM3S float64 `json:"occupation_flow_m3_s,omitempty"`
	Governing         string  `json:"governing,omitempty"`
}

func (in RoomInput) room() (area, height, volume float64) {
	switch {
	case in.VolumeM3 > 0:
		return 0, 0, in.VolumeM3
	case in.FloorAreaM2 > 0:
		return in.FloorAreaM2, in.HeightM, RoomVolume(in.FloorAreaM2, in.HeightM)
	default:
		a := in.LengthM * in.WidthM
		return a, in.HeightM, RoomVolume(a, in.HeightM)
	}
}

// AirChanges runs the air change tool. In occupancy mode the larger of the
// occupation and air change flows governs.
func AirChanges(in RoomInput) (RoomResult, error) {
	area, height, volume := in.room()
	if volume <= 0 {
		return RoomResult{}, fmt.Errorf("%w: room volume must be positive", ErrInvalidInput)
	}
	res := RoomResult{Reference: in.Reference, FloorAreaM2: area, HeightM: height, VolumeM3: volume}
	switch in.Mode {
	case ModeACH, "":
		res.FlowM3S = in.FlowM3S
		res.ACH = ACH(volume, in.FlowM3S)
	case ModeFlow:
		res.ACH = in.ACH
		res.FlowM3S = VolumeFlowRate(volume, in.ACH)
	case ModeOccupancy:
		res.ACH = in.ACH
		res.FlowM3S = VolumeFlowRate(volume, in.ACH)
		res.OccupationFlowM3S = OccupationFlowRate(in.People, in.LPerPerson)
		res.Governing = "air changes"
		if res.OccupationFlowM3S > res.FlowM3S {
			res.Governing = "occupation"
		}
	default:
		return RoomResult{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, in.Mode)
	}
	return res, nil
}

// Results is a caller-owned table of room calculations.
type Results []RoomResult

func (r Results) Append(res RoomResult) Results {
	return append(r, res)
}

const (
	ShapeRect  = "rect"
	ShapeRound = "round"
)

type DuctInput struct {
	Shape        string  `json:"shape"` // rect or round
	FlowM3S      float64 `json:"flow_m3_s"`
	TemperatureC float64 `json:"temperature_c"`
	PressurePa   float64 `json:"pressure_pa"`

	// Rectangular ducts are checked at HeightMM × WidthMM unless Minimum is
	// set, in which case the smallest duct for MaxVelocity is found with
	// FixedMM as the width when given.
	HeightMM float64 `json:"height_mm"`
	WidthMM  float64 `json:"width_mm"`
	Minimum  bool    `json:"minimum"`
	FixedMM  float64 `json:"fixed_mm"`

	DiameterMM  float64 `json:"diameter_mm"`
	MaxVelocity float64 `json:"max_velocity_m_s"`
}

type DuctResult struct {
	Shape           string   `json:"shape"`
	WidthMM         float64  `json:"width_mm,omitempty"`
	HeightMM        float64  `json:"height_mm,omitempty"`
	DiameterMM      float64  `json:"diameter_mm"`
	AreaM2          float64  `json:"area_m2"`
	VelocityMS      float64  `json:"velocity_m_s"`
	PressureLossPaM float64  `json:"pressure_loss_pa_m"`
	AspectRatio     float64  `json:"aspect_ratio,omitempty"`
	MinDiameterMM   int      `json:"min_diameter_mm,omitempty"`
	DensityKgM3     float64  `json:"density_kg_m3"`
	Warnings        []string `json:"warnings,omitempty"`
}

// DuctSizer sizes ductwork with air density from Fluids.
type DuctSizer struct {
	Fluids fluids.Provider
}

func (s *DuctSizer) Calculate(in DuctInput) (DuctResult, error) {
	if in.FlowM3S <= 0 {
		return DuctResult{}, fmt.Errorf("%w: flow must be positive", ErrInvalidInput)
	}
	p := in.PressurePa
	if p <= 0 {
		p = fluids.AtmosphericPressure
	}
	air, err := s.Fluids.Properties(fluids.Air, in.TemperatureC, p)
	if err != nil {
		return DuctResult{}, err
	}
	res := DuctResult{Shape: in.Shape, DensityKgM3: air.Density}

	switch in.Shape {
	case ShapeRect, "":
		res.Shape = ShapeRect
		w, h := in.WidthMM, in.HeightMM
		if in.Minimum {
			if in.MaxVelocity <= 0 {
				return DuctResult{}, fmt.Errorf("%w: max velocity must be positive", ErrInvalidInput)
			}
			w, h = MinRectSize(in.FlowM3S, in.MaxVelocity, in.FixedMM)
		}
		if w <= 0 || h <= 0 {
			return DuctResult{}, fmt.Errorf("%w: duct dimensions must be positive", ErrInvalidInput)
		}
		res.WidthMM, res.HeightMM = w, h
		res.AreaM2, res.DiameterMM = RectDuctArea(h, w)
		res.AspectRatio = AspectRatio(w, h)
		if res.AspectRatio >= AspectRatioLimit {
			res.Warnings = append(res.Warnings, WarnAspectRatio)
		}
	case ShapeRound:
		if in.DiameterMM <= 0 {
			return DuctResult{}, fmt.Errorf("%w: diameter must be positive", ErrInvalidInput)
		}
		res.DiameterMM = in.DiameterMM
		res.AreaM2 = RoundDuctArea(in.DiameterMM)
		if in.MaxVelocity > 0 {
			res.MinDiameterMM = MinDiameter(in.FlowM3S, in.MaxVelocity)
		}
	default:
		return DuctResult{}, fmt.Errorf("%w: unknown duct shape %q", ErrInvalidInput, in.Shape)
	}

	res.VelocityMS = DuctVelocity(res.AreaM2, in.FlowM3S)
	res.PressureLossPaM = PressureLoss(res.DiameterMM, air.Density, res.VelocityMS)
	return res, nil
}

type LouvreInput struct {
	WidthMM     float64 `json:"width_mm"`
	HeightMM    float64 `json:"height_mm"`
	FlowM3S     float64 `json:"flow_m3_s"`
	FreeAreaPct float64 `json:"free_area_pct"`
}

type LouvreResult struct {
	TotalAreaM2    float64 `json:"total_area_m2"`
	FreeAreaM2     float64 `json:"free_area_m2"`
	FaceVelocityMS float64 `json:"face_velocity_m_s"`
}

func Louvre(in LouvreInput) (LouvreResult, error) {
	total := in.WidthMM * in.HeightMM / (1000 * 1000)
	free := in.FreeAreaPct / 100 * total
	if total <= 0 || free <= 0 {
		return LouvreResult{}, fmt.Errorf("louvre: width, height and free area must be greater than zero: %w", ErrZeroDivisor)
	}
	return LouvreResult{
		TotalAreaM2:    total,
		FreeAreaM2:     free,
		FaceVelocityMS: LouvreFaceVelocity(in.FlowM3S, free),
	}, nil
}
