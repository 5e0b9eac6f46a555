package hydraulics

import (
	"io"

	"Plantroom/internal/sheet"
)

const scheduleSheet = "Pipe Data"

// Entry is one row of a pipe schedule. Schedules are owned by the caller
// and passed in and out of requests whole.
type Entry struct {
	Material           string  `json:"material"`
	NominalDiameterMM  float64 `json:"nominal_diameter_mm"`
	InternalDiameterMM float64 `json:"internal_diameter_mm"`
	VelocityMS         float64 `json:"velocity_m_s"`
	PressureDropPaM    float64 `json:"pressure_drop_pa_m"`
}

var (
	scheduleText = []string{"Material"}
	scheduleNum  = []string{"Nominal diameter (mm)", "Internal diameter (mm)", "Velocity (m/s)", "Pressure drop (Pa/m)"}
)

func ReadSchedule(r io.Reader) ([]Entry, error) {
	rows, err := sheet.Read(r, scheduleText, scheduleNum)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{
			Material:           row.Text[0],
			NominalDiameterMM:  row.Num[0],
			InternalDiameterMM: row.Num[1],
			VelocityMS:         row.Num[2],
			PressureDropPaM:    row.Num[3],
		})
	}
	return entries, nil
}

func WriteSchedule(w io.Writer, entries []Entry) error {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []interface{}{e.Material, e.NominalDiameterMM, e.InternalDiameterMM, e.VelocityMS, e.PressureDropPaM})
	}
	return sheet.Write(w, scheduleSheet, append(append([]string(nil), scheduleText...), scheduleNum...), rows)
}
