package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Plantroom/internal/auth"
	"Plantroom/internal/calc/drainage"
	"Plantroom/internal/calc/expansion"
	"Plantroom/internal/calc/heating"
	"Plantroom/internal/calc/hydraulics"
	"Plantroom/internal/calc/psychro"
	"Plantroom/internal/calc/units"
	"Plantroom/internal/calc/ventilation"
	"Plantroom/internal/fluids"
	"Plantroom/internal/refdata"

	"github.com/spf13/cobra"
)

type calorifierArgs struct {
	initial, final, volume float64
	coilKW, minutes        float64
	flow, ret              float64
}

func (a *calorifierArgs) flags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&a.initial, "initial", 10, "initial water temperature (°C)")
	f.Float64Var(&a.final, "final", 60, "final water temperature (°C)")
	f.Float64VarP(&a.volume, "volume", "v", 0, "calorifier volume (l)")
	f.Float64Var(&a.flow, "primary-flow", 0, "primary flow temperature (°C); with --primary-return adds the primary flow rate")
	f.Float64Var(&a.ret, "primary-return", 0, "primary return temperature (°C)")
}

type evArgs struct {
	workingPressure, margin, maxTemp, head float64
	volume, kw, litresPerKW, acceptance    float64
}

type stackArgs struct {
	appliances   []string
	additionalDU float64
	frequency    string
	k            float64
	continuous   float64
	method       string
}

type ductArgs struct {
	shape                   string
	flow, temperature       float64
	width, height, diameter float64
	maxVelocity, fixed      float64
}

type pipeArgs struct {
	material                string
	nominal, internal, flow float64
	temperature, glycol     float64
}

func loadRefdata(opts *options) (*refdata.Set, error) {
	ref, err := refdata.Load(opts.refdataDir)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}
	return ref, nil
}

func runCalorifier(w io.Writer, opts *options, a calorifierArgs, reheat bool) error {
	in := heating.Input{
		InitialTempC:   a.initial,
		FinalTempC:     a.final,
		VesselVolumeL:  a.volume,
		CoilKW:         a.coilKW,
		ReheatTimeMin:  a.minutes,
		IncludePrimary: a.flow != 0 || a.ret != 0,
		PrimaryFlowC:   a.flow,
		PrimaryReturnC: a.ret,
	}
	in.Mode = heating.ModeCoilSize
	if reheat {
		in.Mode = heating.ModeReheatTime
	}
	res, err := heating.Calculate(in)
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, res)
	}
	printCalorifier(w, res, in.IncludePrimary)
	return nil
}

func runExpansion(w io.Writer, opts *options, a evArgs) error {
	ref, err := loadRefdata(opts)
	if err != nil {
		return err
	}
	res, err := expansion.Calculate(ref.Expansion, expansion.Input{
		LowestWorkingPressure: a.workingPressure,
		SafetyValveMargin:     a.margin,
		MaxTemperatureC:       a.maxTemp,
		StaticHeadM:           a.head,
		SystemVolumeL:         a.volume,
		SystemKW:              a.kw,
		LitresPerKW:           a.litresPerKW,
		Acceptance:            a.acceptance,
	})
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, res)
	}
	printExpansion(w, res)
	return nil
}

// parseAppliances reads "label=count" pairs. Labels may themselves contain
// commas, so the count is taken after the last '='.
func parseAppliances(pairs []string) (map[string]int, error) {
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		i := strings.LastIndex(p, "=")
		if i <= 0 {
			return nil, fmt.Errorf("appliance %q: want label=count", p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(p[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("appliance %q: %w", p, err)
		}
		out[strings.TrimSpace(p[:i])] += n
	}
	return out, nil
}

func runStack(w io.Writer, opts *options, a stackArgs) error {
	ref, err := loadRefdata(opts)
	if err != nil {
		return err
	}
	apps, err := parseAppliances(a.appliances)
	if err != nil {
		return err
	}
	res, err := drainage.SizeStack(ref, drainage.StackInput{
		Appliances:    apps,
		AdditionalDU:  a.additionalDU,
		Frequency:     a.frequency,
		K:             a.k,
		ContinuousLPS: a.continuous,
		Method:        a.method,
	})
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, res)
	}
	printStack(w, res)
	return nil
}

func runDuct(w io.Writer, opts *options, a ductArgs) error {
	ref, err := loadRefdata(opts)
	if err != nil {
		return err
	}
	table, err := fluids.NewTable(ref.Fluids)
	if err != nil {
		return err
	}
	sizer := &ventilation.DuctSizer{Fluids: table}
	res, err := sizer.Calculate(ventilation.DuctInput{
		Shape:        a.shape,
		FlowM3S:      a.flow,
		TemperatureC: a.temperature,
		HeightMM:     a.height,
		WidthMM:      a.width,
		Minimum:      a.maxVelocity > 0 && a.width == 0 && a.height == 0,
		FixedMM:      a.fixed,
		DiameterMM:   a.diameter,
		MaxVelocity:  a.maxVelocity,
	})
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, res)
	}
	printDuct(w, res)
	return nil
}

func runConvert(w io.Writer, opts *options, kind string, args []string) error {
	ref, err := loadRefdata(opts)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("value %q: %w", args[0], err)
	}
	res, err := units.NewConverter(ref).Calculate(units.Input{Kind: kind, Value: v, From: args[1], To: args[2]})
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, res)
	}
	fmt.Fprintf(w, "%g %s = %g %s\n", res.Value, res.From, res.Converted, res.To)
	return nil
}

func runPipe(w io.Writer, opts *options, a pipeArgs) error {
	ref, err := loadRefdata(opts)
	if err != nil {
		return err
	}
	table, err := fluids.NewTable(ref.Fluids)
	if err != nil {
		return err
	}
	sizer := &hydraulics.Sizer{Ref: ref, Fluids: table}
	res, err := sizer.Calculate(hydraulics.Input{
		Material:           a.material,
		NominalDiameterMM:  a.nominal,
		InternalDiameterMM: a.internal,
		FlowRateLPS:        a.flow,
		TemperatureC:       a.temperature,
		GlycolFraction:     a.glycol,
	})
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, res)
	}
	printPipe(w, res)
	return nil
}

func runPsychro(w io.Writer, opts *options, dry, wet, pressure float64) error {
	pts, err := psychro.Points{}.Add(psychro.Input{DryBulbC: dry, WetBulbC: wet, PressurePa: pressure})
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(w, pts[0])
	}
	p := pts[0]
	fmt.Fprintf(w, "Dry bulb %.1f °C, wet bulb %.1f °C at %.0f Pa\n", p.DryBulbC, p.WetBulbC, p.PressurePa)
	fmt.Fprintf(w, "Humidity ratio: %.5f kg/kg\n", p.HumRatio)
	return nil
}

func runHash(w io.Writer, login, password string) error {
	if strings.Contains(login, ":") {
		return fmt.Errorf("login %q must not contain ':'", login)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s:%s\n", login, hash)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
