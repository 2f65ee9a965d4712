// Package main provides the CLI entrypoint for cartlab.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cartlab/internal/config"
	"cartlab/internal/export"
	"cartlab/internal/labui"
	"cartlab/internal/model"
	"cartlab/internal/physics"
	"cartlab/internal/session"
	"cartlab/internal/signal"
	"cartlab/internal/stats"
)

const (
	defaultScenario  = "cart"
	defaultPreset    = "standard"
	defaultMassKg    = 0.100
	defaultNoise     = true
	defaultSeed      = 1
	defaultDuration  = 4.5
	defaultRate      = 60.0
	defaultNudgeStep = 0.02
	defaultFineStep  = 0.01
)

var (
	labScenario string
	labPreset   string
	labMass     float64
	labNoise    bool
	labSeed     int64
	labDuration float64
	labRate     float64

	trialCSVPath string
	trialPNGPath string
	trialNoPlot  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cartlab",
		Short:         "TUI cart/pulley lab simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runLabCmd,
	}
	addLabFlags(rootCmd)

	trialCmd := &cobra.Command{
		Use:   "trial",
		Short: "Synthesize one trial without the TUI",
		Args:  cobra.NoArgs,
		RunE:  runTrialCmd,
	}
	addLabFlags(trialCmd)
	trialCmd.Flags().StringVar(&trialCSVPath, "csv", "", "write the raw series to a CSV file")
	trialCmd.Flags().StringVar(&trialPNGPath, "png", "", "write a PNG plot of the trial")
	trialCmd.Flags().BoolVar(&trialNoPlot, "no-plot", false, "skip the terminal plot")

	rootCmd.AddCommand(trialCmd)
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPresetsCmd())
	return rootCmd
}

func addLabFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&labScenario, "scenario", defaultScenario, "scenario (cart or cart-pad)")
	cmd.Flags().StringVar(&labPreset, "preset", defaultPreset, "preset id within the scenario")
	cmd.Flags().Float64Var(&labMass, "mass", defaultMassKg, "hanging mass in kg")
	cmd.Flags().BoolVar(&labNoise, "noise", defaultNoise, "add sensor noise to the synthesized series")
	cmd.Flags().Int64Var(&labSeed, "seed", defaultSeed, "noise seed (32-bit)")
	cmd.Flags().Float64Var(&labDuration, "duration", defaultDuration, "trial duration in seconds")
	cmd.Flags().Float64Var(&labRate, "rate", defaultRate, "sample rate in Hz")
}

func loadLabConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "scenario", &labScenario, fileCfg.Lab.Scenario)
	applyStringConfig(cmd, "preset", &labPreset, fileCfg.Lab.Preset)
	applyFloatConfig(cmd, "mass", &labMass, fileCfg.Lab.HangingMassKg)
	applyBoolConfig(cmd, "noise", &labNoise, fileCfg.Lab.Noise)
	applyIntConfig(cmd, "seed", &labSeed, fileCfg.Lab.Seed)
	applyFloatConfig(cmd, "duration", &labDuration, fileCfg.Lab.DurationS)
	applyFloatConfig(cmd, "rate", &labRate, fileCfg.Lab.SampleRateHz)

	nudge := defaultNudgeStep
	if fileCfg.Lab.NudgeStepS != nil {
		nudge = *fileCfg.Lab.NudgeStepS
	}
	fine := defaultFineStep
	if fileCfg.Lab.FineStepS != nil {
		fine = *fileCfg.Lab.FineStepS
	}

	cfg := model.Config{
		Scenario:      labScenario,
		Preset:        labPreset,
		HangingMassKg: labMass,
		Noise:         labNoise,
		Seed:          uint32(labSeed),
		DurationS:     labDuration,
		SampleRateHz:  labRate,
		NudgeStepS:    nudge,
		FineStepS:     fine,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if _, err := physics.LookupPreset(cfg.Scenario, cfg.Preset); err != nil {
		return err
	}
	if cfg.HangingMassKg <= 0 {
		return fmt.Errorf("--mass must be > 0")
	}
	if cfg.DurationS < 2.5 {
		return fmt.Errorf("--duration must be at least 2.5")
	}
	if cfg.SampleRateHz <= 0 {
		return fmt.Errorf("--rate must be > 0")
	}
	if cfg.NudgeStepS <= 0 || cfg.FineStepS <= 0 {
		return fmt.Errorf("nudge-step and fine-step must be > 0")
	}
	return nil
}

func runLabCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadLabConfig(cmd)
	if err != nil {
		return err
	}
	store := session.NewStore()
	m := labui.NewModel(cfg, store)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func runTrialCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadLabConfig(cmd)
	if err != nil {
		return err
	}
	result, err := physics.Compute(cfg.Scenario, cfg.Preset, cfg.HangingMassKg)
	if err != nil {
		return err
	}
	signals := signal.Generate(result, signal.Options{
		Noise:        cfg.Noise,
		Seed:         cfg.Seed,
		DurationS:    cfg.DurationS,
		SampleRateHz: cfg.SampleRateHz,
	})

	out := cmd.OutOrStdout()
	if result.Moved {
		fmt.Fprintf(out, "moved: a=%.3f m/s², tension=%.3f N, travel=%.2f s\n",
			result.AccelerationMps2, result.TensionN, *result.TravelTimeS)
		fmt.Fprintf(out, "motion window: %.2f s – %.2f s\n",
			signals.MotionWindow.StartS, signals.MotionWindow.EndS)
	} else {
		fmt.Fprintf(out, "held by friction: pulling force %.3f N below the static threshold\n",
			result.PullingForceN)
	}

	if !trialNoPlot {
		useColor := stats.ShouldUseColor(os.Stdout)
		force := stats.Graph{Title: "Force", Unit: "N", Times: signals.TimesS, Values: signals.ForceN, Motion: signals.MotionWindow}
		vel := stats.Graph{Title: "Velocity", Unit: "m/s", Times: signals.TimesS, Values: signals.VelocityMps, Motion: signals.MotionWindow}
		fmt.Fprintln(out, force.Render(0, 0, useColor))
		fmt.Fprintln(out, vel.Render(0, 0, useColor))
	}

	if trialCSVPath != "" {
		if err := writeSeriesCSV(trialCSVPath, signals); err != nil {
			return err
		}
		logErrf("wrote %s\n", trialCSVPath)
	}
	if trialPNGPath != "" {
		if err := export.WriteTrialPNG(trialPNGPath, signals); err != nil {
			return err
		}
		logErrf("wrote %s\n", trialPNGPath)
	}
	return nil
}

func writeSeriesCSV(path string, signals model.TrialSignals) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close; write errors already surfaced.
			_ = cerr
		}
	}()
	return export.WriteSeriesCSV(f, signals)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List scenarios and presets",
		Args:  cobra.NoArgs,
		RunE:  runPresetsCmd,
	}
}

func runPresetsCmd(cmd *cobra.Command, _ []string) error {
	headers := []string{"Scenario", "Preset", "Label", "Cart Mass (g)", "μs", "μk"}
	var rows [][]string
	for _, scenario := range physics.Scenarios() {
		presets, err := physics.Presets(scenario)
		if err != nil {
			return err
		}
		for _, p := range presets {
			mus, muk := "-", "-"
			if p.UsesPad {
				mus = fmt.Sprintf("%.2f", p.StaticMu)
				muk = fmt.Sprintf("%.2f", p.KineticMu)
			}
			rows = append(rows, []string{
				scenario, p.ID, p.Label,
				fmt.Sprintf("%.0f", p.CartMassKg*1000), mus, muk,
			})
		}
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true}
	for _, line := range stats.FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cartlab configuration
# Uncomment a value to enable it. CLI flags override config values.

[lab]
# scenario = %q       # "cart" or "cart-pad"
# preset = %q     # Preset id within the scenario
# hanging-mass = %.3f    # Hanging mass in kg
# noise = %t            # Add sensor noise
# seed = %d               # Noise seed (32-bit)
# duration = %.1f        # Trial duration in seconds
# sample-rate = %.0f      # Sample rate in Hz
# nudge-step = %.2f      # Arrow-key window step in seconds
# fine-step = %.2f       # Fine (alt) window step in seconds
`,
		defaultScenario,
		defaultPreset,
		defaultMassKg,
		defaultNoise,
		defaultSeed,
		defaultDuration,
		defaultRate,
		defaultNudgeStep,
		defaultFineStep,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
