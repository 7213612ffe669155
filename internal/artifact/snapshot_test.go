package artifact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/annoview/internal/errs"
	"github.com/annolab/annoview/internal/genemodel"
)

func sampleModels() (map[string]*genemodel.Assembly, genemodel.FeatureIndex) {
	assemblies := map[string]*genemodel.Assembly{
		"ctg1": {ID: "ctg1", Genes: []*genemodel.Gene{{
			ID:        "gene1",
			Locations: []genemodel.Location{{Fmin: 0, Fmax: 100}},
			MRNAs: []*genemodel.MRNA{{
				ID: "mRNA1",
				Polypeptides: []*genemodel.Polypeptide{{
					ID: "poly1",
					Annotation: &genemodel.Annotation{
						ProductName:   "kinase",
						GoAnnotations: []genemodel.GoAnnotation{{GoID: "0016301"}},
					},
				}},
			}},
		}}},
	}
	features := genemodel.FeatureIndex{
		"gene1": {ID: "gene1", Type: "gene", Assembly: "ctg1", Location: genemodel.Location{Fmax: 100}},
	}
	return assemblies, features
}

func TestSnapshot_RoundTrip(t *testing.T) {
	snapshot := NewSnapshot(filepath.Join(t.TempDir(), "gff.stored"))
	assert.False(t, snapshot.Exists())

	assemblies, features := sampleModels()
	require.NoError(t, snapshot.Write(assemblies, features))
	assert.True(t, snapshot.Exists())

	gotAssemblies, gotFeatures, err := snapshot.Load()
	require.NoError(t, err)
	assert.Equal(t, assemblies, gotAssemblies)
	assert.Equal(t, features, gotFeatures)
}

func TestSnapshot_Clear(t *testing.T) {
	snapshot := NewSnapshot(filepath.Join(t.TempDir(), "gff.stored"))

	assemblies, features := sampleModels()
	require.NoError(t, snapshot.Write(assemblies, features))

	snapshot.Clear()
	assert.False(t, snapshot.Exists())
}

func TestSnapshot_LoadMissing(t *testing.T) {
	snapshot := NewSnapshot(filepath.Join(t.TempDir(), "gff.stored"))

	_, _, err := snapshot.Load()
	require.Error(t, err)
	assert.True(t, errs.IsCacheIO(err))
}
