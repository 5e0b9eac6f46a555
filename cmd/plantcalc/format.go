package main

import (
	"fmt"
	"io"

	"Plantroom/internal/calc/drainage"
	"Plantroom/internal/calc/expansion"
	"Plantroom/internal/calc/heating"
	"Plantroom/internal/calc/hydraulics"
	"Plantroom/internal/calc/ventilation"
)

func printWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\nWARNINGS (%d):\n", len(warnings))
	for _, msg := range warnings {
		fmt.Fprintf(w, "  * %s\n", msg)
	}
}

func printCalorifier(w io.Writer, r heating.Result, primary bool) {
	if r.Mode == heating.ModeReheatTime {
		fmt.Fprintf(w, "Reheat time: %.1f min\n", r.ReheatTimeMin)
	} else {
		fmt.Fprintf(w, "Coil size: %.1f kW\n", r.CoilKW)
	}
	if primary {
		fmt.Fprintf(w, "Primary flow rate: %.4g kg/s\n", r.PrimaryFlowKgS)
	}
	printWarnings(w, r.Warnings)
}

func printExpansion(w io.Writer, r expansion.Result) {
	fmt.Fprintf(w, "System volume:       %.0f l\n", r.SystemVolumeL)
	fmt.Fprintf(w, "Cold fill pressure:  %.2f bar abs\n", r.ColdFillPressure)
	fmt.Fprintf(w, "Max system pressure: %.2f bar abs\n", r.MaxSystemPressure)
	fmt.Fprintf(w, "Acceptance factor:   %.3f\n", r.Acceptance)
	fmt.Fprintf(w, "Expansion factor:    %.5f\n", r.ExpansionFactor)
	fmt.Fprintf(w, "Vessel size:         %.2f l\n", r.VesselL)
	printWarnings(w, r.Warnings)
}

func printStack(w io.Writer, r drainage.StackResult) {
	fmt.Fprintf(w, "Total DU: %.2f (WC present: %t)\n", r.Total, r.WCPresent)
	fmt.Fprintf(w, "Wastewater flow: %.3f l/s (K = %g)\n", r.FlowLPS, r.K)
	if r.Selection.Found {
		fmt.Fprintf(w, "Stack: %s\n", r.Selection.Label)
	} else {
		fmt.Fprintln(w, r.Selection.Label)
	}
}

func printDuct(w io.Writer, r ventilation.DuctResult) {
	if r.Shape == ventilation.ShapeRect {
		fmt.Fprintf(w, "Duct: %.0f x %.0f mm (equivalent %.0f mm, aspect %.2f)\n", r.WidthMM, r.HeightMM, r.DiameterMM, r.AspectRatio)
	} else {
		fmt.Fprintf(w, "Duct: %.0f mm round\n", r.DiameterMM)
	}
	fmt.Fprintf(w, "Velocity: %.2f m/s\n", r.VelocityMS)
	fmt.Fprintf(w, "Pressure loss: %.3f Pa/m\n", r.PressureLossPaM)
	if r.MinDiameterMM > 0 {
		fmt.Fprintf(w, "Minimum diameter: %d mm\n", r.MinDiameterMM)
	}
	printWarnings(w, r.Warnings)
}

func printPipe(w io.Writer, r hydraulics.Result) {
	fmt.Fprintf(w, "Bore: %.1f mm (%s)\n", r.InternalDiameterMM, r.Fluid)
	fmt.Fprintf(w, "Velocity: %.2f m/s\n", r.VelocityMS)
	fmt.Fprintf(w, "Reynolds: %.0f", r.Reynolds)
	if r.Laminar {
		fmt.Fprint(w, " (laminar)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Pressure drop: %.1f Pa/m\n", r.PressureDropPaM)
	printWarnings(w, r.Warnings)
}
