package genemodel

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/annolab/annoview/internal/errs"
)

// GFFLoader loads gene models from a GFF3 annotation file.
type GFFLoader struct {
	path string
}

// NewGFFLoader creates a new GFF3 loader.
func NewGFFLoader(path string) *GFFLoader {
	return &GFFLoader{path: path}
}

// LoadGeneModels parses a GFF3 file into the assembly hierarchy plus a flat
// feature index. The index is auxiliary; the statistics core only walks the
// hierarchy.
func LoadGeneModels(path string) (map[string]*Assembly, FeatureIndex, error) {
	return NewGFFLoader(path).Load()
}

// Load parses the loader's GFF3 file.
func (l *GFFLoader) Load() (map[string]*Assembly, FeatureIndex, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &errs.MissingResourceError{Path: l.path, Err: err}
		}
		return nil, nil, fmt.Errorf("open GFF3 file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parseGFF3(reader)
}

// gffRow represents a parsed GFF3 line.
type gffRow struct {
	assembly    string
	featureType string
	location    Location
	attributes  map[string]string
}

// parseGFF3 parses GFF3 content and assembles the gene-model hierarchy.
// Rows are collected first and linked by Parent afterwards, so child rows
// may precede their parents.
func (l *GFFLoader) parseGFF3(reader io.Reader) (map[string]*Assembly, FeatureIndex, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long attribute columns
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var rows []gffRow
	for scanner.Scan() {
		line := scanner.Text()

		// The ##FASTA directive ends the feature table
		if line == "##FASTA" {
			break
		}

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		row, err := l.parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan GFF3: %w", err)
	}

	assemblies := make(map[string]*Assembly)
	genes := make(map[string]*Gene)
	mRNAs := make(map[string]*MRNA)
	features := make(FeatureIndex)

	assemblyFor := func(id string) *Assembly {
		a, ok := assemblies[id]
		if !ok {
			a = &Assembly{ID: id}
			assemblies[id] = a
		}
		return a
	}

	// First pass: genes
	for _, row := range rows {
		if row.featureType != "gene" {
			continue
		}
		id := row.attributes["ID"]
		if id == "" {
			continue
		}
		g := &Gene{ID: id, Locations: []Location{row.location}}
		genes[id] = g
		assemblyFor(row.assembly).Genes = append(assemblyFor(row.assembly).Genes, g)
	}

	// Second pass: transcript-level sub-features owned by genes
	for _, row := range rows {
		parent := genes[row.attributes["Parent"]]
		if parent == nil {
			continue
		}
		id := row.attributes["ID"]

		switch row.featureType {
		case "mRNA":
			m := &MRNA{ID: id, Locations: []Location{row.location}}
			mRNAs[id] = m
			parent.MRNAs = append(parent.MRNAs, m)
		case "rRNA":
			parent.RRNAs = append(parent.RRNAs, &RNAFeature{ID: id, Locations: []Location{row.location}})
		case "tRNA":
			parent.TRNAs = append(parent.TRNAs, &RNAFeature{ID: id, Locations: []Location{row.location}})
		}
	}

	// Third pass: polypeptides and their functional annotation
	for _, row := range rows {
		if row.featureType != "polypeptide" {
			continue
		}
		parent := mRNAs[row.attributes["Parent"]]
		if parent == nil {
			continue
		}
		p := &Polypeptide{
			ID:         row.attributes["ID"],
			Locations:  []Location{row.location},
			Annotation: parseAnnotation(row.attributes),
		}
		parent.Polypeptides = append(parent.Polypeptides, p)
	}

	// Flat index of every row with an ID
	for _, row := range rows {
		id := row.attributes["ID"]
		if id == "" {
			continue
		}
		features[id] = &Feature{
			ID:       id,
			Type:     row.featureType,
			Parent:   row.attributes["Parent"],
			Assembly: row.assembly,
			Location: row.location,
		}
	}

	return assemblies, features, nil
}

// parseLine parses a single GFF3 line. Coordinates are converted from
// 1-based inclusive to 0-based interbase (fmin = start-1, fmax = end).
func (l *GFFLoader) parseLine(line string) (gffRow, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return gffRow{}, fmt.Errorf("invalid GFF3 line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return gffRow{}, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return gffRow{}, fmt.Errorf("parse end: %w", err)
	}

	return gffRow{
		assembly:    fields[0],
		featureType: fields[2],
		location:    Location{Fmin: start - 1, Fmax: end},
		attributes:  parseAttributes(fields[8]),
	}, nil
}

// parseAttributes parses the GFF3 attribute column.
// Format: key=value;key=value with percent-encoded values.
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}

		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}

		attrs[key] = value
	}

	return attrs
}

// parseAnnotation builds a functional annotation from polypeptide
// attributes. Returns nil when the row carries no annotation content, which
// marks the polypeptide as functionally unannotated.
func parseAnnotation(attrs map[string]string) *Annotation {
	product := attrs["product_name"]
	if product == "" {
		product = attrs["product"]
	}

	annot := &Annotation{
		ProductName: product,
		GeneSymbol:  attrs["gene_symbol"],
	}

	for _, term := range splitList(attrs["Ontology_term"]) {
		if suffix, ok := strings.CutPrefix(term, "GO:"); ok {
			annot.GoAnnotations = append(annot.GoAnnotations, GoAnnotation{GoID: suffix})
		}
	}

	for _, xref := range splitList(attrs["Dbxref"]) {
		if ec, ok := strings.CutPrefix(xref, "EC:"); ok {
			annot.ECNumbers = append(annot.ECNumbers, ec)
		} else {
			annot.Dbxrefs = append(annot.Dbxrefs, xref)
		}
	}

	if annot.ProductName == "" && annot.GeneSymbol == "" &&
		len(annot.GoAnnotations) == 0 && len(annot.ECNumbers) == 0 && len(annot.Dbxrefs) == 0 {
		return nil
	}

	return annot
}

// splitList splits a comma-separated GFF3 multi-value attribute.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
