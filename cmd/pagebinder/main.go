// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pagebinder CLI. It binds each
// folder of page images under input/ into one PDF under output/.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pagebinder/internal/pipeline"
	"github.com/pdiddy/pagebinder/internal/policy"
	"github.com/pdiddy/pagebinder/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// errReported marks run errors already printed by runRoot, so main does
// not print them a second time.
var errReported = errors.New("run failed")

const defaultJPEGQuality = 95

// rootCmd runs the batch itself; the tool is single-purpose, so the
// pipeline lives on the root command rather than a subcommand.
var rootCmd = &cobra.Command{
	Use:   "pagebinder",
	Short: "Bind folders of page images into per-folder PDFs",
	Long: `pagebinder converts every subfolder of the input directory into one PDF
in the output directory. Images are ordered naturally (p2 before p10),
optionally normalized to a common resolution, and staged through a
temporary directory that is removed when the run ends.

Without --mode, the resolution policy is chosen through an interactive
prompt. With --mode, the run never touches stdin.`,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pagebinder.yaml or ~/.config/pagebinder/config.yaml)")

	rootCmd.Flags().String("base-dir", ".", "base directory containing input/ and output/")
	rootCmd.Flags().Bool("portable", false, "anchor the base directory at the executable instead of the working directory")
	rootCmd.Flags().String("mode", "", "resolution policy: nth, max, fixed, width, height, or original (skips the prompt)")
	rootCmd.Flags().Int("nth", 3, "reference image index for --mode nth")
	rootCmd.Flags().String("size", "", "target resolution for --mode fixed, e.g. 800x600")
	rootCmd.Flags().Int("width", 800, "target width for --mode width")
	rootCmd.Flags().Int("height", 600, "target height for --mode height")
	rootCmd.Flags().Int("jpeg-quality", 0, "staged JPEG quality (default 95)")
	rootCmd.Flags().Bool("report", false, "write a YAML run report next to the PDFs")
	rootCmd.Flags().Bool("pause", false, "wait for Enter before exiting")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pagebinder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pagebinder"))
		}
	}

	viper.SetEnvPrefix("PAGEBINDER")
	viper.AutomaticEnv()
	viper.SetDefault("jpeg_quality", defaultJPEGQuality)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	src, err := policySource(cmd)
	if err != nil {
		return err
	}

	result, runErr := pipeline.Run(cfg, src, os.Stdout)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
	}
	fmt.Println("\nDone.")

	pause, _ := cmd.Flags().GetBool("pause")
	portable, _ := cmd.Flags().GetBool("portable")
	if (pause || portable || runErr != nil) && isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Print("Press Enter to exit...")
		bufio.NewReader(os.Stdin).ReadString('\n')
	}

	if runErr != nil {
		return errReported
	}
	if result.HasFailures() {
		return fmt.Errorf("%d folder(s) failed", result.Failed)
	}
	return nil
}

// buildConfig resolves the base directory and assembles the run settings.
func buildConfig(cmd *cobra.Command) (types.RunConfig, error) {
	baseDir, _ := cmd.Flags().GetString("base-dir")
	if portable, _ := cmd.Flags().GetBool("portable"); portable {
		exe, err := os.Executable()
		if err != nil {
			return types.RunConfig{}, fmt.Errorf("resolving executable path: %w", err)
		}
		baseDir = filepath.Dir(exe)
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return types.RunConfig{}, fmt.Errorf("resolving base directory: %w", err)
	}

	quality, _ := cmd.Flags().GetInt("jpeg-quality")
	if quality == 0 {
		quality = viper.GetInt("jpeg_quality")
	}

	cfg := types.RunConfig{
		BaseDir:     baseDir,
		InputDir:    filepath.Join(baseDir, "input"),
		OutputDir:   filepath.Join(baseDir, "output"),
		JPEGQuality: quality,
	}
	if report, _ := cmd.Flags().GetBool("report"); report {
		cfg.ReportPath = filepath.Join(cfg.OutputDir, "run-report.yaml")
	}
	return cfg, nil
}

// policySource picks the flag-driven source when --mode is set, otherwise
// the interactive prompt.
func policySource(cmd *cobra.Command) (policy.Source, error) {
	mode, _ := cmd.Flags().GetString("mode")
	if mode == "" {
		return policy.NewInteractive(os.Stdin, os.Stdout), nil
	}

	switch types.PolicyMode(mode) {
	case types.ModeNthImage:
		nth, _ := cmd.Flags().GetInt("nth")
		return policy.Static{P: types.ResolutionPolicy{Mode: types.ModeNthImage, Nth: nth}}, nil
	case types.ModeMaxResolution:
		return policy.Static{P: types.ResolutionPolicy{Mode: types.ModeMaxResolution}}, nil
	case types.ModeFixedResolution:
		size, _ := cmd.Flags().GetString("size")
		w, h, ok := policy.ParseSize(size)
		if !ok {
			return nil, fmt.Errorf("--mode fixed requires --size <width>x<height>, got %q", size)
		}
		return policy.Static{P: types.ResolutionPolicy{Mode: types.ModeFixedResolution, Width: w, Height: h}}, nil
	case types.ModeFixedWidth:
		w, _ := cmd.Flags().GetInt("width")
		if w <= 0 {
			return nil, fmt.Errorf("--width must be positive, got %d", w)
		}
		return policy.Static{P: types.ResolutionPolicy{Mode: types.ModeFixedWidth, Width: w}}, nil
	case types.ModeFixedHeight:
		h, _ := cmd.Flags().GetInt("height")
		if h <= 0 {
			return nil, fmt.Errorf("--height must be positive, got %d", h)
		}
		return policy.Static{P: types.ResolutionPolicy{Mode: types.ModeFixedHeight, Height: h}}, nil
	case types.ModeOriginalSize:
		return policy.Static{P: types.ResolutionPolicy{Mode: types.ModeOriginalSize}}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (expected nth, max, fixed, width, height, or original)", mode)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
