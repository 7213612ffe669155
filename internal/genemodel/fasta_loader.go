package genemodel

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/annolab/annoview/internal/errs"
)

// FASTALoader loads the input sequence set from a FASTA file.
type FASTALoader struct {
	path string
}

// NewFASTALoader creates a new FASTA loader.
func NewFASTALoader(path string) *FASTALoader {
	return &FASTALoader{path: path}
}

// LoadSequences parses a FASTA file into a sequence set (id -> sequence).
func LoadSequences(path string) (map[string]string, error) {
	return NewFASTALoader(path).Load()
}

// Load parses the loader's FASTA file.
func (l *FASTALoader) Load() (map[string]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.MissingResourceError{Path: l.path, Err: err}
		}
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return parseFASTA(reader)
}

// parseFASTA parses FASTA content. The sequence id is the first
// whitespace-delimited token of the header line.
func parseFASTA(reader io.Reader) (map[string]string, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long sequence lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	sequences := make(map[string]string)

	var currentID string
	var currentSeq strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ">") {
			// Save previous sequence
			if currentID != "" {
				sequences[currentID] = currentSeq.String()
			}

			currentID = parseHeader(line)
			currentSeq.Reset()
		} else {
			currentSeq.WriteString(strings.TrimSpace(line))
		}
	}

	// Save last sequence
	if currentID != "" {
		sequences[currentID] = currentSeq.String()
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}

	return sequences, nil
}

// parseHeader extracts the sequence id from a FASTA header line.
func parseHeader(header string) string {
	header = strings.TrimPrefix(header, ">")

	if idx := strings.IndexAny(header, " \t"); idx != -1 {
		return header[:idx]
	}
	return header
}
