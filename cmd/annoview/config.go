package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// settableKeys are the configuration keys the pipeline and server read,
// with a short description shown on unknown-key errors.
var settableKeys = map[string]string{
	"input_dir":        "annotation result directory",
	"fasta_file":       "FASTA file the annotation was computed from",
	"slim_map":         "JSON slim vocabulary resource",
	"log_level":        "debug, info, warn, error",
	"port":             "HTTP server port",
	"host":             "HTTP server bind interface",
	"ui_dir":           "static UI directory served at /",
	"skip_root_terms":  "exclude GO namespace roots from slim counts",
	"rna_count_policy": "last, sum",
	"term_store":       "record raw term counts in DuckDB",
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage annoview configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.annoview.yaml.",
		Example: `  annoview config                          # show all config
  annoview config set skip_root_terms true  # filter GO root terms
  annoview config get rna_count_policy      # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.annoview.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	parsed, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, parsed)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".annoview.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

// parseConfigValue validates the key and coerces the value to the type the
// consuming command expects.
func parseConfigValue(key, value string) (any, error) {
	if _, ok := settableKeys[key]; !ok {
		return nil, fmt.Errorf("unknown config key %q, valid keys: %s", key, keyList())
	}

	switch key {
	case "skip_root_terms", "term_store":
		switch value {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("%s expects a boolean, got %q", key, value)
	case "port":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 65535 {
			return nil, fmt.Errorf("port expects 1-65535, got %q", value)
		}
		return n, nil
	case "rna_count_policy":
		if !strings.EqualFold(value, "last") && !strings.EqualFold(value, "sum") {
			return nil, fmt.Errorf("rna_count_policy expects last or sum, got %q", value)
		}
		return value, nil
	}
	return value, nil
}

func keyList() string {
	keys := make([]string, 0, len(settableKeys))
	for key := range settableKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
