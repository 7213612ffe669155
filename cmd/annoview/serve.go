package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/annolab/annoview/internal/pipeline"
	"github.com/annolab/annoview/internal/server"
	"github.com/annolab/annoview/internal/stats"
	"github.com/annolab/annoview/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Materialize artifacts and serve them over HTTP",
		Long: `Materialize the statistics and slim-count artifacts for the input
directory (first run on a directory can take a few minutes), then serve
them on a local HTTP API. Later runs reuse the persisted artifacts.`,
		Args: cobra.NoArgs,
		// Bind here, not at construction: only the executing command may
		// own these viper keys
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"port":             "port",
				"host":             "host",
				"ui_dir":           "ui-dir",
				"skip_root_terms":  "skip-root-terms",
				"rna_count_policy": "rna-count-policy",
				"term_store":       "term-store",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.Flags().IntP("port", "p", 8081, "Port for the local HTTP server")
	cmd.Flags().String("host", "127.0.0.1", "Host interface to bind")
	cmd.Flags().String("ui-dir", "", "Directory of static UI files to serve at /")
	cmd.Flags().Bool("skip-root-terms", false, "Exclude the GO namespace root terms from slim counts")
	cmd.Flags().String("rna-count-policy", "last", "rRNA/tRNA counting policy: last, sum")
	cmd.Flags().Bool("term-store", false, "Record raw term counts in a queryable DuckDB store")

	return cmd
}

func runServe() error {
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
		InputDir:        inputDir,
		FastaPath:       fastaPath,
		SlimMapPath:     slimMapPath(),
		RNAPolicy:       stats.ParseRNACountPolicy(viper.GetString("rna_count_policy")),
		SkipRootTerms:   viper.GetBool("skip_root_terms"),
		EnableTermStore: viper.GetBool("term_store"),
	})
	p.SetLogger(logger)

	logger.Info("checking for stored statistics within the input directory, or creating them",
		zap.String("input_dir", inputDir))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("materialize artifacts: %w", err)
	}

	var terms *store.Store
	if viper.GetBool("term_store") {
		terms, err = store.Open(p.TermStorePath())
		if err != nil {
			return fmt.Errorf("open term store: %w", err)
		}
		defer terms.Close()
	}

	addr := fmt.Sprintf("%s:%d", viper.GetString("host"), viper.GetInt("port"))
	logger.Info("open your browser to the following URL",
		zap.String("url", fmt.Sprintf("http://%s/", addr)))

	srv := server.New(inputDir, viper.GetString("ui_dir"), terms, logger)
	return srv.ListenAndServe(addr)
}
