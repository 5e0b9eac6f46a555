// Package report renders calculation result sheets as PDF.
package report

import (
	"fmt"
	"io"
	"time"

	"Plantroom/internal/calc/heating"

	"github.com/phpdave11/gofpdf"
)

// Calorifier is everything printed on a calorifier result sheet.
type Calorifier struct {
	Input     heating.Input
	Result    heating.Result
	Notes     string
	Engineer  string
	Generated time.Time
}

type variable struct {
	label string
	value float64
}

func (c Calorifier) variables() []variable {
	vars := []variable{
		{"Initial Temperature (°C)", c.Input.InitialTempC},
		{"Final Temperature (°C)", c.Input.FinalTempC},
		{"Coil Size (kW)", c.Result.CoilKW},
		{"Vessel Volume (litres)", c.Input.VesselVolumeL},
		{"Reheat Time (min)", c.Result.ReheatTimeMin},
	}
	if c.Input.IncludePrimary {
		vars = append(vars,
			variable{"Primary Flow Temperature (°C)", c.Input.PrimaryFlowC},
			variable{"Primary Return Temperature (°C)", c.Input.PrimaryReturnC},
			variable{"Primary Flow Rate (kg/s)", c.Result.PrimaryFlowKgS},
		)
	}
	return vars
}

// working lists the substituted formulas for the chosen mode.
func (c Calorifier) working() []string {
	in, res := c.Input, c.Result
	dt := in.FinalTempC - in.InitialTempC
	var lines []string
	if res.Mode == heating.ModeCoilSize {
		lines = []string{
			"Coil size = V x 4.18 x (T final - T initial) / (60 x time)",
			fmt.Sprintf("Coil size = %g x 4.18 x (%g - %g) / (60 x %g)", in.VesselVolumeL, in.FinalTempC, in.InitialTempC, res.ReheatTimeMin),
			fmt.Sprintf("Coil size = %.0f / %g = %.4g kW", in.VesselVolumeL*heating.WaterCp*dt, 60*res.ReheatTimeMin, res.CoilKW),
		}
	} else {
		lines = []string{
			"time = V x 4.18 x (T final - T initial) / (60 x coil)",
			fmt.Sprintf("time = %g x 4.18 x (%g - %g) / (60 x %g)", in.VesselVolumeL, in.FinalTempC, in.InitialTempC, res.CoilKW),
			fmt.Sprintf("time = %.0f / %g = %.4g min", in.VesselVolumeL*heating.WaterCp*dt, 60*res.CoilKW, res.ReheatTimeMin),
		}
	}
	if in.IncludePrimary {
		lines = append(lines, "",
			"primary flow = coil / (4.18 x (T flow - T return))",
			fmt.Sprintf("primary flow = %.4g / (4.18 x (%g - %g)) = %.4g kg/s", res.CoilKW, in.PrimaryFlowC, in.PrimaryReturnC, res.PrimaryFlowKgS),
		)
	}
	return lines
}

// WriteCalorifier renders the result sheet: variables and engineer's notes,
// the working, then assumptions and warnings.
func WriteCalorifier(w io.Writer, c Calorifier) error {
	if c.Generated.IsZero() {
		c.Generated = time.Now()
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 15)
		pdf.Cell(80, 10, "")
		pdf.CellFormat(30, 10, "Calorifier Calculation Sheet", "", 1, "C", false, 0, "")
		pdf.Ln(2)
		pdf.Line(10, 30, 200, 30)
		pdf.Ln(15)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		footer := fmt.Sprintf("Page %d/{nb} | Generated by: %s | Date and Time: %s",
			pdf.PageNo(), c.Engineer, c.Generated.Format("2006-01-02 15:04:05"))
		pdf.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
	})

	heading := func(s string) {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(190, 10, s, "", 1, "L", false, 0, "")
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "", 12)
	}

	pdf.AddPage()
	heading("1. Variables")
	for _, v := range c.variables() {
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("> %s: %.4g", v.label, v.value)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
	heading("2. Engineers Notes")
	notes := c.Notes
	if notes == "" {
		notes = "N/A"
	}
	pdf.MultiCell(0, 10, tr(notes), "", "L", false)

	pdf.AddPage()
	heading("3. Calculations")
	pdf.SetFont("Courier", "", 11)
	for _, l := range c.working() {
		pdf.CellFormat(0, 8, l, "", 1, "L", false, 0, "")
	}

	pdf.AddPage()
	heading("4. Assumptions")
	pdf.MultiCell(0, 8, "- The vessel contains only water\n- No safety margin is applied to the coil or reheat time", "", "L", false)
	if len(c.Result.Warnings) > 0 {
		pdf.Ln(5)
		heading("5. Warnings")
		for _, warn := range c.Result.Warnings {
			pdf.MultiCell(0, 8, tr("- "+warn), "", "L", false)
		}
	}

	return pdf.Output(w)
}
