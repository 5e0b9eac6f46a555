package main

import (
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	refdataDir string
	json       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "plantcalc",
		Short:        "Building services plant calculations from the command line",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.refdataDir, "refdata", "", "directory holding an override reference.yaml")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print results as JSON")

	rootCmd.AddCommand(reheatCmd(opts))
	rootCmd.AddCommand(coilCmd(opts))
	rootCmd.AddCommand(evCmd(opts))
	rootCmd.AddCommand(stackCmd(opts))
	rootCmd.AddCommand(ductCmd(opts))
	rootCmd.AddCommand(convertCmd(opts))
	rootCmd.AddCommand(pipeCmd(opts))
	rootCmd.AddCommand(psychroCmd(opts))
	rootCmd.AddCommand(hashCmd())
	return rootCmd
}

func reheatCmd(opts *options) *cobra.Command {
	var in calorifierArgs
	cmd := &cobra.Command{
		Use:   "reheat",
		Short: "Calorifier reheat time for a given coil",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalorifier(cmd.OutOrStdout(), opts, in, true)
		},
	}
	in.flags(cmd)
	cmd.Flags().Float64Var(&in.coilKW, "coil-kw", 0, "coil rating (kW)")
	return cmd
}

func coilCmd(opts *options) *cobra.Command {
	var in calorifierArgs
	cmd := &cobra.Command{
		Use:   "coil",
		Short: "Calorifier coil size for a given reheat time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalorifier(cmd.OutOrStdout(), opts, in, false)
		},
	}
	in.flags(cmd)
	cmd.Flags().Float64Var(&in.minutes, "minutes", 0, "reheat time (min)")
	return cmd
}

func evCmd(opts *options) *cobra.Command {
	var in evArgs
	cmd := &cobra.Command{
		Use:   "ev",
		Short: "Sealed system expansion vessel size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExpansion(cmd.OutOrStdout(), opts, in)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.workingPressure, "working-pressure", 3, "lowest working pressure in the system (barg)")
	f.Float64Var(&in.margin, "margin", 0.5, "safety valve margin (bar)")
	f.Float64Var(&in.maxTemp, "max-temp", 80, "maximum system temperature (°C)")
	f.Float64VarP(&in.head, "head", "H", 0, "static head above the vessel (m)")
	f.Float64Var(&in.volume, "volume", 0, "system volume (l)")
	f.Float64Var(&in.kw, "kw", 0, "system output (kW); estimates the volume when set")
	f.Float64Var(&in.litresPerKW, "litres-per-kw", 0, "system volume per kW for --kw")
	f.Float64Var(&in.acceptance, "acceptance", 0, "fixed acceptance factor (0 to calculate)")
	return cmd
}

func stackCmd(opts *options) *cobra.Command {
	var in stackArgs
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Wastewater flow and drainage stack selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStack(cmd.OutOrStdout(), opts, in)
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&in.appliances, "appliance", "a", nil, `appliance and quantity as "label=count", repeatable`)
	f.Float64Var(&in.additionalDU, "du", 0, "additional discharge units")
	f.StringVar(&in.frequency, "frequency", "Intermittent use, e.g. house, flat, offices", "frequency of use")
	f.Float64Var(&in.k, "k", 0, "frequency factor, overrides --frequency")
	f.Float64Var(&in.continuous, "continuous", 0, "continuous flow (l/s)")
	f.StringVar(&in.method, "method", "Primary", "ventilation method, Primary or Secondary")
	return cmd
}

func ductCmd(opts *options) *cobra.Command {
	var in ductArgs
	cmd := &cobra.Command{
		Use:   "duct",
		Short: "Duct velocity and pressure loss, or minimum duct size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDuct(cmd.OutOrStdout(), opts, in)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.shape, "shape", "rect", "rect or round")
	f.Float64VarP(&in.flow, "flow", "q", 0, "air flow (m³/s)")
	f.Float64Var(&in.temperature, "temp", 20, "air temperature (°C)")
	f.Float64Var(&in.width, "width", 0, "rectangular width (mm)")
	f.Float64Var(&in.height, "height", 0, "rectangular height (mm)")
	f.Float64Var(&in.diameter, "diameter", 0, "round diameter (mm)")
	f.Float64Var(&in.maxVelocity, "max-velocity", 0, "maximum velocity (m/s); sizes the smallest duct")
	f.Float64Var(&in.fixed, "fixed", 0, "fixed rectangular width when sizing (mm)")
	return cmd
}

func convertCmd(opts *options) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "convert VALUE FROM TO",
		Short: "Convert airflow or energy units",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.OutOrStdout(), opts, kind, args)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "airflow", "airflow or energy")
	return cmd
}

func pipeCmd(opts *options) *cobra.Command {
	var in pipeArgs
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Pipe velocity and pressure drop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipe(cmd.OutOrStdout(), opts, in)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in.material, "material", "m", "", "pipe material")
	f.Float64VarP(&in.nominal, "nominal", "d", 0, "nominal diameter (mm)")
	f.Float64Var(&in.internal, "internal", 0, "internal diameter (mm), overrides the schedule bore")
	f.Float64VarP(&in.flow, "flow", "q", 0, "flow rate (l/s)")
	f.Float64Var(&in.temperature, "temp", 70, "fluid temperature (°C)")
	f.Float64Var(&in.glycol, "glycol", 0, "glycol mass fraction")
	return cmd
}

func psychroCmd(opts *options) *cobra.Command {
	var dry, wet, pressure float64
	cmd := &cobra.Command{
		Use:   "psychro",
		Short: "Humidity ratio from dry and wet bulb temperatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPsychro(cmd.OutOrStdout(), opts, dry, wet, pressure)
		},
	}
	cmd.Flags().Float64Var(&dry, "dry", 0, "dry bulb temperature (°C)")
	cmd.Flags().Float64Var(&wet, "wet", 0, "wet bulb temperature (°C)")
	cmd.Flags().Float64Var(&pressure, "pressure", 0, "atmospheric pressure (Pa), standard if unset")
	return cmd
}

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash LOGIN PASSWORD",
		Short: "Print an ENGINEERS entry for the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}
