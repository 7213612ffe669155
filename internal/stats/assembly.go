// Package stats computes descriptive statistics over the input sequence set
// and the gene-model hierarchy.
package stats

import (
	"fmt"
	"strings"

	"github.com/annolab/annoview/internal/errs"
)

// AssemblyStats is the sequence-level statistics record.
type AssemblyStats struct {
	Success        int    `json:"success"`
	AssemblyCount  int    `json:"assembly_count"`
	SumLength      int64  `json:"sum_length"`
	LongestLength  int64  `json:"longest_length"`
	ShortestLength int64  `json:"shortest_length"`
	GCPercent      string `json:"gc_percent"`
}

// FailedAssemblyStats returns the non-success record callers persist when
// the computation surfaced an error.
func FailedAssemblyStats() AssemblyStats {
	return AssemblyStats{Success: 0}
}

// CalcAssemblyStats computes sequence-level metrics from a sequence set.
// An empty set yields an EmptyInputError: length extremes and the GC
// fraction are undefined without sequences.
func CalcAssemblyStats(seqs map[string]string) (AssemblyStats, error) {
	if len(seqs) == 0 {
		return FailedAssemblyStats(), &errs.EmptyInputError{What: "sequences"}
	}

	result := AssemblyStats{AssemblyCount: len(seqs)}

	var gcCount int64
	first := true
	for _, seq := range seqs {
		length := int64(len(seq))
		result.SumLength += length
		gcCount += countGC(seq)

		if first || length < result.ShortestLength {
			result.ShortestLength = length
		}
		if first || length > result.LongestLength {
			result.LongestLength = length
		}
		first = false
	}

	result.GCPercent = fmt.Sprintf("%.1f%%", float64(gcCount)/float64(result.SumLength)*100)
	result.Success = 1

	return result, nil
}

// countGC counts G and C characters case-insensitively.
func countGC(seq string) int64 {
	upper := strings.ToUpper(seq)
	return int64(strings.Count(upper, "G") + strings.Count(upper, "C"))
}
