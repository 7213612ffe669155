// Package pipeline orchestrates the compute-if-absent materialization of
// every artifact derived from an annotation input directory.
package pipeline

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/annolab/annoview/internal/artifact"
	"github.com/annolab/annoview/internal/errs"
	"github.com/annolab/annoview/internal/genemodel"
	"github.com/annolab/annoview/internal/goslim"
	"github.com/annolab/annoview/internal/stats"
	"github.com/annolab/annoview/internal/store"
)

// Well-known file names inside the input directory.
const (
	GFFFileName            = "attributor.annotation.gff3"
	AssemblyStatsFileName  = "fasta_stats.json"
	GeneModelStatsFileName = "gff_stats.json"
	SlimCountsFileName     = "obo_slim_counts.json"
	SnapshotBaseName       = "gff.stored"
	TermStoreFileName      = "go_terms.duckdb"
)

// Config holds the pipeline inputs.
type Config struct {
	// InputDir is the annotation result directory. All artifacts are
	// persisted under it.
	InputDir string

	// FastaPath is the FASTA file the annotation was computed from.
	FastaPath string

	// SlimMapPath is the JSON slim vocabulary resource.
	SlimMapPath string

	// RNAPolicy selects how rRNA/tRNA counts combine across genes.
	RNAPolicy stats.RNACountPolicy

	// SkipRootTerms enables filtering of the GO namespace roots before
	// slim bucket assignment.
	SkipRootTerms bool

	// EnableTermStore records raw term counts into a DuckDB store inside
	// the input directory.
	EnableTermStore bool
}

// Artifacts is everything a pipeline run produces.
type Artifacts struct {
	AssemblyStats  stats.AssemblyStats
	GeneModelStats stats.GeneModelStats
	SlimCounts     goslim.SlimCounts
	TermCounts     map[string]int
}

// Pipeline materializes artifacts for one input directory.
type Pipeline struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a pipeline for the given configuration.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// GFFPath returns the annotation file path inside the input directory.
func (p *Pipeline) GFFPath() string {
	return filepath.Join(p.cfg.InputDir, GFFFileName)
}

// Run materializes all artifacts, computing only the ones with no persisted
// copy. A failed statistics computation over an empty input is persisted as
// a success=0 record instead of aborting, so the remaining artifacts are
// still produced.
func (p *Pipeline) Run() (*Artifacts, error) {
	out := &Artifacts{}

	assemblyStats, err := p.materializeAssemblyStats()
	if err != nil {
		return nil, err
	}
	out.AssemblyStats = assemblyStats

	assemblies, _, err := p.loadGeneModels()
	if err != nil {
		return nil, err
	}

	geneModelStats, err := p.materializeGeneModelStats(assemblies)
	if err != nil {
		return nil, err
	}
	out.GeneModelStats = geneModelStats

	out.TermCounts = goslim.CollectTerms(assemblies)

	slimCounts, err := p.materializeSlimCounts(out.TermCounts)
	if err != nil {
		return nil, err
	}
	out.SlimCounts = slimCounts

	if p.cfg.EnableTermStore {
		if err := p.recordTermCounts(out.TermCounts); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// materializeAssemblyStats computes sequence statistics if absent.
func (p *Pipeline) materializeAssemblyStats() (stats.AssemblyStats, error) {
	path := filepath.Join(p.cfg.InputDir, AssemblyStatsFileName)

	return artifact.Materialize(path, func() (stats.AssemblyStats, error) {
		p.logger.Info("computing assembly statistics", zap.String("fasta", p.cfg.FastaPath))

		seqs, err := genemodel.LoadSequences(p.cfg.FastaPath)
		if err != nil {
			return stats.FailedAssemblyStats(), err
		}

		result, err := stats.CalcAssemblyStats(seqs)
		if errs.IsEmptyInput(err) {
			p.logger.Warn("no sequences in FASTA input; persisting non-success record")
			return stats.FailedAssemblyStats(), nil
		}
		return result, err
	})
}

// loadGeneModels returns the parsed hierarchy, from the gob snapshot when
// present, otherwise by parsing the GFF3 and writing the snapshot.
func (p *Pipeline) loadGeneModels() (map[string]*genemodel.Assembly, genemodel.FeatureIndex, error) {
	snapshot := artifact.NewSnapshot(filepath.Join(p.cfg.InputDir, SnapshotBaseName))

	if snapshot.Exists() {
		p.logger.Info("loading stored gene models")
		return snapshot.Load()
	}

	p.logger.Info("parsing gene models", zap.String("gff", p.GFFPath()))
	assemblies, features, err := genemodel.LoadGeneModels(p.GFFPath())
	if err != nil {
		return nil, nil, err
	}

	if err := snapshot.Write(assemblies, features); err != nil {
		return nil, nil, err
	}

	return assemblies, features, nil
}

// materializeGeneModelStats aggregates gene-model statistics if absent.
func (p *Pipeline) materializeGeneModelStats(assemblies map[string]*genemodel.Assembly) (stats.GeneModelStats, error) {
	path := filepath.Join(p.cfg.InputDir, GeneModelStatsFileName)

	return artifact.Materialize(path, func() (stats.GeneModelStats, error) {
		p.logger.Info("aggregating gene-model statistics")

		agg := stats.NewAggregator()
		agg.SetRNACountPolicy(p.cfg.RNAPolicy)
		agg.SetLogger(p.logger)

		result, err := agg.Aggregate(assemblies)
		if errs.IsEmptyInput(err) {
			p.logger.Warn("no genes in annotation; persisting non-success record")
			return stats.FailedGeneModelStats(), nil
		}
		return result, err
	})
}

// materializeSlimCounts maps collected terms onto the slim vocabulary if
// absent.
func (p *Pipeline) materializeSlimCounts(terms map[string]int) (goslim.SlimCounts, error) {
	path := filepath.Join(p.cfg.InputDir, SlimCountsFileName)

	return artifact.Materialize(path, func() (goslim.SlimCounts, error) {
		p.logger.Info("mapping terms to slim vocabulary", zap.String("slim_map", p.cfg.SlimMapPath))

		slim, err := goslim.LoadSlimMap(p.cfg.SlimMapPath)
		if err != nil {
			return nil, err
		}

		mapper := goslim.NewMapper(slim)
		mapper.SetSkipRoots(p.cfg.SkipRootTerms)
		mapper.SetLogger(p.logger)

		return mapper.Map(terms), nil
	})
}

// recordTermCounts upserts the raw counts into the queryable store.
func (p *Pipeline) recordTermCounts(terms map[string]int) error {
	path := p.TermStorePath()

	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	p.logger.Info("recording raw term counts", zap.String("store", path), zap.Int("terms", len(terms)))
	return s.PutTermCounts(terms)
}

// TermStorePath returns the DuckDB store location inside the input
// directory.
func (p *Pipeline) TermStorePath() string {
	return filepath.Join(p.cfg.InputDir, TermStoreFileName)
}
