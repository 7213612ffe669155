package genemodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/annoview/internal/errs"
)

const sampleGFF = `##gff-version 3
ctg1	attributor	gene	1	100	.	+	.	ID=gene1
ctg1	attributor	mRNA	1	100	.	+	.	ID=mRNA1;Parent=gene1
ctg1	attributor	polypeptide	1	100	.	+	.	ID=poly1;Parent=mRNA1;product_name=kinase%2C putative;gene_symbol=pknA;Ontology_term=GO:0016301,GO:0005524;Dbxref=EC:2.7.11.1,InterPro:IPR000719
ctg1	attributor	gene	201	500	.	-	.	ID=gene2
ctg1	attributor	mRNA	201	500	.	-	.	ID=mRNA2;Parent=gene2
ctg1	attributor	polypeptide	201	500	.	-	.	ID=poly2;Parent=mRNA2
ctg2	attributor	gene	1	300	.	+	.	ID=gene3
ctg2	attributor	rRNA	1	300	.	+	.	ID=rrna1;Parent=gene3
ctg2	attributor	tRNA	50	120	.	+	.	ID=trna1;Parent=gene3
`

func TestParseGFF3_Hierarchy(t *testing.T) {
	loader := &GFFLoader{}
	assemblies, features, err := loader.parseGFF3(strings.NewReader(sampleGFF))
	require.NoError(t, err)

	require.Len(t, assemblies, 2)

	ctg1 := assemblies["ctg1"]
	require.NotNil(t, ctg1)
	require.Len(t, ctg1.Genes, 2)

	gene1 := ctg1.Genes[0]
	assert.Equal(t, "gene1", gene1.ID)
	// 1-based inclusive converted to 0-based interbase
	require.Len(t, gene1.Locations, 1)
	assert.Equal(t, int64(0), gene1.Locations[0].Fmin)
	assert.Equal(t, int64(100), gene1.Locations[0].Fmax)
	assert.Equal(t, int64(100), gene1.Length())

	require.Len(t, gene1.MRNAs, 1)
	require.Len(t, gene1.MRNAs[0].Polypeptides, 1)

	annot := gene1.MRNAs[0].Polypeptides[0].Annotation
	require.NotNil(t, annot)
	assert.Equal(t, "kinase, putative", annot.ProductName)
	assert.Equal(t, "pknA", annot.GeneSymbol)
	assert.Equal(t, []GoAnnotation{{GoID: "0016301"}, {GoID: "0005524"}}, annot.GoAnnotations)
	assert.Equal(t, []string{"2.7.11.1"}, annot.ECNumbers)
	assert.Equal(t, []string{"InterPro:IPR000719"}, annot.Dbxrefs)

	// No annotation attributes means an unannotated polypeptide
	gene2 := ctg1.Genes[1]
	require.Len(t, gene2.MRNAs, 1)
	require.Len(t, gene2.MRNAs[0].Polypeptides, 1)
	assert.Nil(t, gene2.MRNAs[0].Polypeptides[0].Annotation)

	gene3 := assemblies["ctg2"].Genes[0]
	assert.Len(t, gene3.RRNAs, 1)
	assert.Len(t, gene3.TRNAs, 1)
	assert.Empty(t, gene3.MRNAs)

	// Flat index keeps every row with an ID
	require.Contains(t, features, "gene1")
	assert.Equal(t, "gene", features["gene1"].Type)
	assert.Equal(t, "", features["gene1"].Parent)
	require.Contains(t, features, "poly1")
	assert.Equal(t, "mRNA1", features["poly1"].Parent)
	assert.Equal(t, "ctg1", features["poly1"].Assembly)
}

func TestParseGFF3_ChildBeforeParent(t *testing.T) {
	content := "ctg1\tx\tmRNA\t1\t50\t.\t+\t.\tID=m1;Parent=g1\n" +
		"ctg1\tx\tgene\t1\t50\t.\t+\t.\tID=g1\n"

	loader := &GFFLoader{}
	assemblies, _, err := loader.parseGFF3(strings.NewReader(content))
	require.NoError(t, err)

	require.Len(t, assemblies["ctg1"].Genes, 1)
	assert.Len(t, assemblies["ctg1"].Genes[0].MRNAs, 1)
}

func TestParseGFF3_StopsAtFASTADirective(t *testing.T) {
	content := "ctg1\tx\tgene\t1\t50\t.\t+\t.\tID=g1\n" +
		"##FASTA\n" +
		">ctg1\nACGT\n"

	loader := &GFFLoader{}
	assemblies, _, err := loader.parseGFF3(strings.NewReader(content))
	require.NoError(t, err)
	assert.Len(t, assemblies, 1)
}

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:  "basic attributes",
			input: "ID=gene1;Parent=ctg1",
			expected: map[string]string{
				"ID":     "gene1",
				"Parent": "ctg1",
			},
		},
		{
			name:  "percent-encoded value",
			input: "product_name=ATPase%2C AAA family",
			expected: map[string]string{
				"product_name": "ATPase, AAA family",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseAttributes(tt.input)
			for key, want := range tt.expected {
				assert.Equal(t, want, result[key], "parseAttributes()[%q]", key)
			}
		})
	}
}

func TestLoadGeneModels_MissingFile(t *testing.T) {
	_, _, err := LoadGeneModels("/nonexistent/annotation.gff3")
	require.Error(t, err)
	assert.True(t, errs.IsMissingResource(err))
}
