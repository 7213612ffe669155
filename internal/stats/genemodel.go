package stats

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/annolab/annoview/internal/errs"
	"github.com/annolab/annoview/internal/genemodel"
)

// RNACountPolicy selects how per-gene rRNA/tRNA sub-feature counts are
// combined across genes.
type RNACountPolicy int

const (
	// LastGeneWins reports the counts of the most recently visited gene
	// only. This reproduces the historical output of the tool.
	LastGeneWins RNACountPolicy = iota

	// SumAcrossGenes accumulates the counts over all genes.
	SumAcrossGenes
)

// ParseRNACountPolicy maps a config string to a policy. Unknown values fall
// back to LastGeneWins.
func ParseRNACountPolicy(s string) RNACountPolicy {
	if strings.EqualFold(s, "sum") || strings.EqualFold(s, "sumAcrossGenes") {
		return SumAcrossGenes
	}
	return LastGeneWins
}

// GeneModelStats is the gene-model-level statistics record.
type GeneModelStats struct {
	Success                 int    `json:"success"`
	GeneCount               int    `json:"gene_count"`
	GeneMeanLength          string `json:"gene_mean_length"`
	RRNACount               int    `json:"rRNA_count"`
	TRNACount               int    `json:"tRNA_count"`
	HypotheticalCount       int    `json:"hypothetical_count"`
	SpecificAnnotationCount int    `json:"specific_annotation_count"`
	GoTermsAssigned         int    `json:"go_terms_assigned"`
	ECNumbersAssigned       int    `json:"ec_numbers_assigned"`
	DbxrefsAssigned         int    `json:"dbxrefs_assigned"`
	GeneSymbolsAssigned     int    `json:"gene_symbols_assigned"`
	MeanGoTermsPerGene      string `json:"mean_go_terms_per_gene"`
}

// FailedGeneModelStats returns the non-success record callers persist when
// the computation surfaced an error.
func FailedGeneModelStats() GeneModelStats {
	return GeneModelStats{Success: 0}
}

// Aggregator walks the gene-model hierarchy and derives counts and means.
type Aggregator struct {
	policy RNACountPolicy
	logger *zap.Logger
}

// NewAggregator creates an aggregator with the default LastGeneWins policy.
func NewAggregator() *Aggregator {
	return &Aggregator{
		policy: LastGeneWins,
		logger: zap.NewNop(),
	}
}

// SetRNACountPolicy configures how rRNA/tRNA counts combine across genes.
func (a *Aggregator) SetRNACountPolicy(p RNACountPolicy) {
	a.policy = p
}

// SetLogger sets the logger for traversal diagnostics.
func (a *Aggregator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Aggregate traverses assembly -> gene -> mRNA -> polypeptide and computes
// the gene-model statistics record. The hierarchy is read-only input; the
// aggregator retains nothing from it. A hierarchy without genes yields an
// EmptyInputError because the mean lengths are undefined.
//
// Assemblies are visited in sorted id order so the record, including the
// gene LastGeneWins settles on, is stable across runs.
func (a *Aggregator) Aggregate(assemblies map[string]*genemodel.Assembly) (GeneModelStats, error) {
	result := GeneModelStats{}
	var geneLengthSum int64

	ids := make([]string, 0, len(assemblies))
	for id := range assemblies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, gene := range assemblies[id].Genes {
			result.GeneCount++
			geneLengthSum += gene.Length()

			switch a.policy {
			case SumAcrossGenes:
				result.RRNACount += len(gene.RRNAs)
				result.TRNACount += len(gene.TRNAs)
			default:
				result.RRNACount = len(gene.RRNAs)
				result.TRNACount = len(gene.TRNAs)
			}

			// Annotation lives on the polypeptides under each mRNA
			for _, mRNA := range gene.MRNAs {
				for _, polypeptide := range mRNA.Polypeptides {
					annot := polypeptide.Annotation
					if annot == nil {
						continue
					}

					if strings.Contains(annot.ProductName, "hypothetical") {
						result.HypotheticalCount++
					} else {
						result.SpecificAnnotationCount++
					}

					result.GoTermsAssigned += len(annot.GoAnnotations)
					result.ECNumbersAssigned += len(annot.ECNumbers)
					result.DbxrefsAssigned += len(annot.Dbxrefs)

					if annot.GeneSymbol != "" {
						result.GeneSymbolsAssigned++
					}
				}
			}
		}
	}

	if result.GeneCount == 0 {
		return FailedGeneModelStats(), &errs.EmptyInputError{What: "genes"}
	}

	result.GeneMeanLength = fmt.Sprintf("%.1f", float64(geneLengthSum)/float64(result.GeneCount))
	result.MeanGoTermsPerGene = fmt.Sprintf("%.1f", float64(result.GoTermsAssigned)/float64(result.GeneCount))
	result.Success = 1

	a.logger.Debug("aggregated gene-model statistics",
		zap.Int("gene_count", result.GeneCount),
		zap.Int("go_terms_assigned", result.GoTermsAssigned),
	)

	return result, nil
}
