package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/annoview/internal/errs"
	"github.com/annolab/annoview/internal/genemodel"
)

// annotatedGene builds a single-mRNA gene with one annotated polypeptide.
func annotatedGene(id string, length int64, annot *genemodel.Annotation) *genemodel.Gene {
	return &genemodel.Gene{
		ID:        id,
		Locations: []genemodel.Location{{Fmin: 0, Fmax: length}},
		MRNAs: []*genemodel.MRNA{{
			ID: id + ".m1",
			Polypeptides: []*genemodel.Polypeptide{{
				ID:         id + ".p1",
				Annotation: annot,
			}},
		}},
	}
}

func TestAggregate(t *testing.T) {
	assemblies := map[string]*genemodel.Assembly{
		"ctg1": {ID: "ctg1", Genes: []*genemodel.Gene{
			annotatedGene("gene1", 100, &genemodel.Annotation{
				ProductName: "hypothetical protein",
			}),
			annotatedGene("gene2", 200, &genemodel.Annotation{
				ProductName:   "kinase",
				GeneSymbol:    "pknA",
				GoAnnotations: []genemodel.GoAnnotation{{GoID: "0016301"}, {GoID: "0005524"}},
				ECNumbers:     []string{"2.7.11.1"},
				Dbxrefs:       []string{"InterPro:IPR000719"},
			}),
		}},
	}

	result, err := NewAggregator().Aggregate(assemblies)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 2, result.GeneCount)
	assert.Equal(t, "150.0", result.GeneMeanLength)
	assert.Equal(t, 1, result.HypotheticalCount)
	assert.Equal(t, 1, result.SpecificAnnotationCount)
	assert.Equal(t, 2, result.GoTermsAssigned)
	assert.Equal(t, 1, result.ECNumbersAssigned)
	assert.Equal(t, 1, result.DbxrefsAssigned)
	assert.Equal(t, 1, result.GeneSymbolsAssigned)
	assert.Equal(t, "1.0", result.MeanGoTermsPerGene)
}

func TestAggregate_SkipsUnannotatedPolypeptides(t *testing.T) {
	assemblies := map[string]*genemodel.Assembly{
		"ctg1": {ID: "ctg1", Genes: []*genemodel.Gene{
			annotatedGene("gene1", 10, nil),
			annotatedGene("gene2", 10, &genemodel.Annotation{ProductName: "kinase"}),
			annotatedGene("gene3", 10, &genemodel.Annotation{ProductName: "hypothetical protein"}),
		}},
	}

	result, err := NewAggregator().Aggregate(assemblies)
	require.NoError(t, err)

	// Classified polypeptides equal the annotated ones
	assert.Equal(t, 2, result.HypotheticalCount+result.SpecificAnnotationCount)
	assert.Equal(t, 0, result.GeneSymbolsAssigned)
}

func TestAggregate_RNACountPolicies(t *testing.T) {
	rna := func(id string) *genemodel.RNAFeature { return &genemodel.RNAFeature{ID: id} }

	assemblies := map[string]*genemodel.Assembly{
		"ctg1": {ID: "ctg1", Genes: []*genemodel.Gene{
			{
				ID:        "gene1",
				Locations: []genemodel.Location{{Fmin: 0, Fmax: 10}},
				RRNAs:     []*genemodel.RNAFeature{rna("r1"), rna("r2")},
				TRNAs:     []*genemodel.RNAFeature{rna("t1")},
			},
			{
				ID:        "gene2",
				Locations: []genemodel.Location{{Fmin: 0, Fmax: 10}},
				RRNAs:     []*genemodel.RNAFeature{rna("r3")},
			},
		}},
	}

	tests := []struct {
		name      string
		policy    RNACountPolicy
		wantRRNAs int
		wantTRNAs int
	}{
		{"last gene wins", LastGeneWins, 1, 0},
		{"sum across genes", SumAcrossGenes, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.SetRNACountPolicy(tt.policy)

			result, err := agg.Aggregate(assemblies)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRRNAs, result.RRNACount)
			assert.Equal(t, tt.wantTRNAs, result.TRNACount)
		})
	}
}

func TestAggregate_LastGeneWinsIsStableAcrossAssemblies(t *testing.T) {
	rna := func(n int) []*genemodel.RNAFeature {
		features := make([]*genemodel.RNAFeature, n)
		for i := range features {
			features[i] = &genemodel.RNAFeature{}
		}
		return features
	}
	gene := func(id string, rRNAs int) *genemodel.Gene {
		return &genemodel.Gene{
			ID:        id,
			Locations: []genemodel.Location{{Fmin: 0, Fmax: 10}},
			RRNAs:     rna(rRNAs),
		}
	}

	// Map iteration order varies between runs, so the winning gene must
	// come from the highest-sorted assembly id every time
	assemblies := map[string]*genemodel.Assembly{
		"ctg2": {ID: "ctg2", Genes: []*genemodel.Gene{gene("gene2", 5)}},
		"ctg1": {ID: "ctg1", Genes: []*genemodel.Gene{gene("gene1", 1)}},
	}

	for i := 0; i < 50; i++ {
		result, err := NewAggregator().Aggregate(assemblies)
		require.NoError(t, err)
		assert.Equal(t, 5, result.RRNACount)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	result, err := NewAggregator().Aggregate(map[string]*genemodel.Assembly{
		"ctg1": {ID: "ctg1"},
	})
	require.Error(t, err)
	assert.True(t, errs.IsEmptyInput(err))
	assert.Equal(t, 0, result.Success)
}

func TestParseRNACountPolicy(t *testing.T) {
	assert.Equal(t, SumAcrossGenes, ParseRNACountPolicy("sum"))
	assert.Equal(t, SumAcrossGenes, ParseRNACountPolicy("sumAcrossGenes"))
	assert.Equal(t, LastGeneWins, ParseRNACountPolicy("last"))
	assert.Equal(t, LastGeneWins, ParseRNACountPolicy(""))
}
