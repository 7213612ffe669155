// Package main provides the annoview command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "annoview",
		Short:   "Inspect and serve genome-annotation statistics",
		Long:    "annoview computes descriptive statistics and a GO-slim summary over a genome annotation directory, caching results so repeated inspection is fast.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Example: `  # Compute statistics and serve them on localhost
  annoview serve -i /data/run1 -f /data/run1/genome.fna

  # Print the statistics records to stdout
  annoview stats -i /data/run1 -f /data/run1/genome.fna`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringP("input-dir", "i", "", "Directory containing the annotation results")
	cmd.PersistentFlags().StringP("fasta-file", "f", "", "FASTA file the annotation was computed from")
	cmd.PersistentFlags().String("slim-map", "", "JSON slim vocabulary resource (default: ~/.annoview/slim.map.json)")
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires flags, environment, and the config file into viper.
func initConfig(cmd *cobra.Command) error {
	// A local .env is optional
	_ = godotenv.Load()

	viper.SetConfigName(".annoview")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("ANNOVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	return bindFlags(cmd, map[string]string{
		"input_dir":  "input-dir",
		"fasta_file": "fasta-file",
		"slim_map":   "slim-map",
		"log_level":  "log-level",
	})
}

// bindFlags binds a command's flags to viper keys.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for key, flag := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}

// newLogger builds the process logger at the configured level.
func newLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(viper.GetString("log_level")); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.StacktraceKey = ""

	return config.Build()
}

// slimMapPath resolves the slim map resource location.
func slimMapPath() string {
	if p := viper.GetString("slim_map"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".annoview", "slim.map.json")
}

// requireInputs validates the flags every pipeline run needs.
func requireInputs() (inputDir, fastaPath string, err error) {
	inputDir = viper.GetString("input_dir")
	if inputDir == "" {
		return "", "", fmt.Errorf("--input-dir is required")
	}
	fastaPath = viper.GetString("fasta_file")
	if fastaPath == "" {
		return "", "", fmt.Errorf("--fasta-file is required")
	}

	if inputDir, err = filepath.Abs(inputDir); err != nil {
		return "", "", fmt.Errorf("resolve input dir: %w", err)
	}
	if fastaPath, err = filepath.Abs(fastaPath); err != nil {
		return "", "", fmt.Errorf("resolve fasta file: %w", err)
	}
	return inputDir, fastaPath, nil
}
