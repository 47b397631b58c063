package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-dft/config"
	"github.com/RyanBlaney/sonido-dft/logging"
)

const envPrefix = "SONIDO_DFT"

var (
	configFile   string
	logLevel     string
	outputFormat string
	profileName  string
	noColor      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sonido-dft",
	Short: "Spectral analysis of audio with STFT and Goertzel analyzers",
	Long: `Inspect the frequency content of audio files and synthesized tones.

Every command shares one analysis configuration: sample rate, window length,
window function, analyzer (stft or goertzel) and FFT backend. Values come from
flags, SONIDO_DFT_* environment variables, a config file and a named profile,
in that order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
// and cancels the command context on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/sonido-dft/sonido-dft.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", string(config.ProfileDefault),
		"analysis preset (default, tuner, fast, precise)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sonido-dft"))
		}
		viper.AddConfigPath("./configs")
		viper.SetConfigName("sonido-dft")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		logging.Debug("Using config file", logging.Fields{"path": viper.ConfigFileUsed()})
	}
}

// initializeConfig binds the flags of the running command and sets up logging.
func initializeConfig(cmd *cobra.Command) error {
	if err := bindFlags(cmd, viper.GetViper()); err != nil {
		return err
	}

	logging.SetGlobalLogger(logging.NewWriterLogger(os.Stderr, os.Stderr))

	level, err := logging.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	if noColor {
		disableColors()
	}
	return nil
}

// bindFlags binds each cobra flag to the viper key of the same name with
// dashes replaced by underscores.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")

		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key)); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("output_format", "table")
	viper.SetDefault("profile", string(config.ProfileDefault))

	config.SetDefaults(viper.GetViper())
}

// GetConfig returns the current viper instance
func GetConfig() *viper.Viper {
	return viper.GetViper()
}
