package goslim

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/annolab/annoview/internal/errs"
)

// UnknownBucket is the reserved slim-term label for identifiers whose slim
// mapping carries the "no finer mapping" marker.
const UnknownBucket = "unknown"

// rootTerms are the top-level terms of the three GO namespaces
// (biological_process, molecular_function, cellular_component). Mapping
// them to a slim category says nothing useful about an annotation, so they
// can be filtered out before bucket assignment. Off by default to keep
// outputs reproducible with earlier runs.
var rootTerms = map[string]bool{
	"GO:0008150": true,
	"GO:0003674": true,
	"GO:0005575": true,
}

// SlimMap maps a namespace label to a mapping from fully-qualified GO id to
// a slim-term label. A nil value is the explicit "no finer mapping" marker.
type SlimMap map[string]map[string]*string

// LoadSlimMap reads a JSON slim-map resource from disk. The resource is
// loaded once per process and passed into the mapper explicitly.
func LoadSlimMap(path string) (SlimMap, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.MissingResourceError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("open slim map: %w", err)
	}
	defer f.Close()

	var m SlimMap
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode slim map: %w", err)
	}

	return m, nil
}

// SlimCounts maps a namespace to slim-term occurrence counts. Every
// namespace always contains the UnknownBucket entry, even at zero.
type SlimCounts map[string]map[string]int

// Mapper re-projects raw identifier occurrence counts onto the slim
// vocabulary.
type Mapper struct {
	slim      SlimMap
	skipRoots bool
	logger    *zap.Logger
}

// NewMapper creates a mapper over an immutable slim map.
func NewMapper(slim SlimMap) *Mapper {
	return &Mapper{
		slim:   slim,
		logger: zap.NewNop(),
	}
}

// SetSkipRoots enables filtering of the three namespace root terms before
// bucket assignment.
func (m *Mapper) SetSkipRoots(skip bool) {
	m.skipRoots = skip
}

// SetLogger sets the logger for mapping diagnostics.
func (m *Mapper) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Map attributes each raw identifier's occurrences to the first namespace
// whose mapping contains the fully-qualified id ("GO:" + suffix).
// Namespaces are scanned in sorted order so the output is deterministic. A
// nil slim term adds to the namespace's unknown bucket. Identifiers absent
// from every namespace are dropped from all counts; the drop is an
// intentional property of the summary, not an error.
func (m *Mapper) Map(terms map[string]int) SlimCounts {
	counts := make(SlimCounts, len(m.slim))

	namespaces := make([]string, 0, len(m.slim))
	for ns := range m.slim {
		namespaces = append(namespaces, ns)
		counts[ns] = map[string]int{UnknownBucket: 0}
	}
	sort.Strings(namespaces)

	dropped := 0
	for suffix, occurrences := range terms {
		goID := "GO:" + suffix

		if m.skipRoots && rootTerms[goID] {
			continue
		}

		matched := false
		for _, ns := range namespaces {
			slimTerm, ok := m.slim[ns][goID]
			if !ok {
				continue
			}

			if slimTerm == nil {
				counts[ns][UnknownBucket] += occurrences
			} else {
				counts[ns][*slimTerm] += occurrences
			}

			matched = true
			break
		}

		if !matched {
			dropped += occurrences
		}
	}

	if dropped > 0 {
		m.logger.Debug("identifiers absent from the slim map were dropped",
			zap.Int("occurrences", dropped),
		)
	}

	return counts
}
