package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-dft/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved analysis configuration",
	Long: `Resolve the analysis configuration from the profile, the config file,
SONIDO_DFT_* environment variables and flags, validate it and print it.
With -o yaml the output can be saved as a config file.`,
	Example: `  sonido-dft config --profile tuner
  sonido-dft config -n 2048 -o yaml > configs/sonido-dft.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the analysis profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(profilesCmd)
	addAnalysisFlags(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig()
	if err != nil {
		return err
	}

	// yaml output is the config file format itself
	if strings.EqualFold(viper.GetString("output_format"), "yaml") {
		return config.WriteYAML(os.Stdout, cfg)
	}

	sc, err := cfg.SamplingContext()
	if err != nil {
		return err
	}

	title := "Analysis configuration (" + viper.GetString("profile") + ")"
	if used := viper.ConfigFileUsed(); used != "" {
		title += " from " + used
	}

	return emit(&Table{
		Title:   title,
		Columns: []string{"key", "value"},
		Rows:    configRows(cfg, sc.FrequencyGap()),
		Value:   cfg,
	})
}

func configRows(cfg *config.AnalysisConfig, gap float32) [][]string {
	rows := [][]string{
		{"sample_rate", strconv.Itoa(cfg.SampleRate) + " Hz"},
		{"window_length", strconv.Itoa(cfg.WindowLength)},
		{"hop_length", strconv.Itoa(cfg.Hop())},
		{"bin_spacing", formatFloat(float64(gap), 3) + " Hz"},
		{"window", cfg.Window},
		{"analyzer", cfg.Analyzer},
	}
	if cfg.Analyzer == config.AnalyzerGoertzel {
		rows = append(rows,
			[]string{"bins", fmt.Sprint(cfg.Bins)},
			[]string{"frequencies", fmt.Sprint(cfg.Frequencies)},
		)
	} else {
		rows = append(rows, []string{"backend", cfg.Backend})
	}
	rows = append(rows,
		[]string{"workers", strconv.Itoa(cfg.Workers)},
		[]string{"smoothing", strconv.Itoa(cfg.Smoothing)},
	)
	return rows
}

type profileRow struct {
	Name     string                 `json:"name" yaml:"name"`
	Settings *config.AnalysisConfig `json:"settings" yaml:"settings"`
}

func runProfiles(cmd *cobra.Command, args []string) error {
	var rows []profileRow
	table := &Table{
		Title:   "Analysis profiles",
		Columns: []string{"name", "analyzer", "window", "window_length", "hop_length", "backend"},
	}
	for _, p := range config.Profiles() {
		cfg := config.ForProfile(p)
		rows = append(rows, profileRow{Name: string(p), Settings: cfg})
		table.Rows = append(table.Rows, []string{
			string(p),
			cfg.Analyzer,
			cfg.Window,
			strconv.Itoa(cfg.WindowLength),
			strconv.Itoa(cfg.Hop()),
			cfg.Backend,
		})
	}
	table.Value = rows
	return emit(table)
}
