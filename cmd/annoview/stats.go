package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annolab/annoview/internal/pipeline"
	"github.com/annolab/annoview/internal/stats"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Materialize artifacts and print them to stdout",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"skip_root_terms":  "skip-root-terms",
				"rna_count_policy": "rna-count-policy",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}

	cmd.Flags().Bool("skip-root-terms", false, "Exclude the GO namespace root terms from slim counts")
	cmd.Flags().String("rna-count-policy", "last", "rRNA/tRNA counting policy: last, sum")

	return cmd
}

func runStats() error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	inputDir, fastaPath, err := requireInputs()
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.Config{
		InputDir:      inputDir,
		FastaPath:     fastaPath,
		SlimMapPath:   slimMapPath(),
		RNAPolicy:     stats.ParseRNACountPolicy(viper.GetString("rna_count_policy")),
		SkipRootTerms: viper.GetBool("skip_root_terms"),
	})
	p.SetLogger(logger)

	artifacts, err := p.Run()
	if err != nil {
		return fmt.Errorf("materialize artifacts: %w", err)
	}

	report := map[string]any{
		"assembly_stats":   artifacts.AssemblyStats,
		"gene_model_stats": artifacts.GeneModelStats,
		"slim_counts":      artifacts.SlimCounts,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
