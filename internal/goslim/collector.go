// Package goslim tallies raw GO identifier occurrences over the gene-model
// hierarchy and re-projects them onto a namespaced slim vocabulary.
package goslim

import (
	"sort"

	"github.com/annolab/annoview/internal/genemodel"
)

// CollectTerms walks assembly -> gene -> mRNA -> polypeptide in sorted
// assembly id order and counts how often each raw GO identifier suffix
// occurs. Unannotated polypeptides are skipped. No ordering guarantee on
// the returned map's keys.
func CollectTerms(assemblies map[string]*genemodel.Assembly) map[string]int {
	terms := make(map[string]int)

	ids := make([]string, 0, len(assemblies))
	for id := range assemblies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, gene := range assemblies[id].Genes {
			for _, mRNA := range gene.MRNAs {
				for _, polypeptide := range mRNA.Polypeptides {
					annot := polypeptide.Annotation
					if annot == nil {
						continue
					}
					for _, goAnnot := range annot.GoAnnotations {
						terms[goAnnot.GoID]++
					}
				}
			}
		}
	}

	return terms
}
