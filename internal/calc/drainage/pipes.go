package drainage

import (
	"fmt"
	"io"
	"math"

	"Plantroom/internal/refdata"
	"Plantroom/internal/sheet"

	"gonum.org/v1/gonum/floats"
)

const pipeSheet = "Pipe Data"

var (
	pipeText = []string{"Material"}
	pipeNum  = []string{"Nominal diameter (mm)", "Internal diameter (mm)", "Length (m)", "Pipe volume (m³)"}
)

// PipeVolume in m³ for a bore in mm and a length in m.
func PipeVolume(internalDiameterMM, lengthM float64) float64 {
	r := internalDiameterMM / 2000
	return math.Pi * r * r * lengthM
}

type Pipe struct {
	Material           string  `json:"material"`
	NominalDiameterMM  float64 `json:"nominal_diameter_mm"`
	InternalDiameterMM float64 `json:"internal_diameter_mm"`
	LengthM            float64 `json:"length_m"`
	VolumeM3           float64 `json:"volume_m3"`
}

type PipeInput struct {
	Material          string  `json:"material"`
	NominalDiameterMM float64 `json:"nominal_diameter_mm"`
	// InternalDiameterMM is used when the material schedule has no entry
	// for the nominal size.
	InternalDiameterMM float64 `json:"internal_diameter_mm"`
	LengthM            float64 `json:"length_m"`
}

// NewPipe resolves the bore from the reference pipe tables and works out
// the contained volume.
func NewPipe(ref *refdata.Set, in PipeInput) (Pipe, error) {
	if in.LengthM <= 0 {
		return Pipe{}, fmt.Errorf("%w: length must be positive", ErrInvalidInput)
	}
	bore := 0.0
	if m, ok := ref.Material(in.Material); ok {
		bore, _ = m.InternalDiameter(in.NominalDiameterMM)
	}
	if bore == 0 {
		bore = in.InternalDiameterMM
	}
	if bore <= 0 {
		return Pipe{}, fmt.Errorf("%w: no internal diameter for %s %vmm", ErrInvalidInput, in.Material, in.NominalDiameterMM)
	}
	return Pipe{
		Material:           in.Material,
		NominalDiameterMM:  in.NominalDiameterMM,
		InternalDiameterMM: bore,
		LengthM:            in.LengthM,
		VolumeM3:           PipeVolume(bore, in.LengthM),
	}, nil
}

// PipeRun is a caller-owned list of pipes.
type PipeRun []Pipe

func (r PipeRun) Add(p Pipe) PipeRun {
	return append(r, p)
}

func (r PipeRun) Totals() (lengthM, volumeM3 float64) {
	l := make([]float64, len(r))
	v := make([]float64, len(r))
	for i, p := range r {
		l[i], v[i] = p.LengthM, p.VolumeM3
	}
	return floats.Sum(l), floats.Sum(v)
}

// ReadPipeRun loads a run exported by WritePipeRun or prepared by hand.
// The totals row has no material and is dropped with other incomplete rows.
func ReadPipeRun(r io.Reader) (PipeRun, error) {
	rows, err := sheet.Read(r, pipeText, pipeNum)
	if err != nil {
		return nil, err
	}
	run := make(PipeRun, 0, len(rows))
	for _, row := range rows {
		run = append(run, Pipe{
			Material:           row.Text[0],
			NominalDiameterMM:  row.Num[0],
			InternalDiameterMM: row.Num[1],
			LengthM:            row.Num[2],
			VolumeM3:           row.Num[3],
		})
	}
	return run, nil
}

// WritePipeRun writes the run and a totals row. Volumes are stored in full
// and displayed to 2 decimal places.
func WritePipeRun(w io.Writer, run PipeRun) error {
	rows := make([][]interface{}, 0, len(run)+1)
	for _, p := range run {
		rows = append(rows, []interface{}{p.Material, p.NominalDiameterMM, p.InternalDiameterMM, p.LengthM, p.VolumeM3})
	}
	length, volume := run.Totals()
	rows = append(rows, []interface{}{"", "", "", length, volume})
	return sheet.Write(w, pipeSheet, append(append([]string(nil), pipeText...), pipeNum...), rows,
		sheet.NumFmt{Header: pipeNum[3], Code: "0.00"})
}
