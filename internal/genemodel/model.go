// Package genemodel provides the gene-model hierarchy and the loaders that
// build it from FASTA and GFF3 inputs.
package genemodel

// Location is a genomic interval on a molecule. Fmax is always >= Fmin.
type Location struct {
	Fmin int64
	Fmax int64
}

// Length returns the span of the location.
func (l Location) Length() int64 {
	return l.Fmax - l.Fmin
}

// GoAnnotation carries a raw GO identifier suffix (the part after "GO:").
type GoAnnotation struct {
	GoID string
}

// Annotation is the functional annotation attached to a polypeptide.
// GeneSymbol is empty when no symbol was assigned.
type Annotation struct {
	ProductName   string
	GeneSymbol    string
	GoAnnotations []GoAnnotation
	ECNumbers     []string
	Dbxrefs       []string
}

// Polypeptide is the protein product of an mRNA. Annotation is nil for
// functionally unannotated polypeptides.
type Polypeptide struct {
	ID         string
	Locations  []Location
	Annotation *Annotation
}

// MRNA is a transcript owned by exactly one gene.
type MRNA struct {
	ID           string
	Locations    []Location
	Polypeptides []*Polypeptide
}

// RNAFeature is a non-coding RNA sub-feature of a gene (rRNA, tRNA).
type RNAFeature struct {
	ID        string
	Locations []Location
}

// Gene is a gene model: one or more locations plus owned sub-features.
type Gene struct {
	ID        string
	Locations []Location
	MRNAs     []*MRNA
	RRNAs     []*RNAFeature
	TRNAs     []*RNAFeature
}

// Length returns the span of the gene's first location. It is only
// well-defined when the gene has at least one location.
func (g *Gene) Length() int64 {
	if len(g.Locations) == 0 {
		return 0
	}
	return g.Locations[0].Length()
}

// Assembly is a named scaffold owning zero or more genes.
type Assembly struct {
	ID    string
	Genes []*Gene
}

// Feature is a flat row of the auxiliary feature index: every GFF3 row
// keyed by its ID, independent of the assembled hierarchy.
type Feature struct {
	ID       string
	Type     string
	Parent   string
	Assembly string
	Location Location
}

// FeatureIndex maps feature IDs to their flat records.
type FeatureIndex map[string]*Feature
