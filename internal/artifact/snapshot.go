package artifact

import (
	"encoding/gob"
	"os"

	"github.com/annolab/annoview/internal/errs"
	"github.com/annolab/annoview/internal/genemodel"
)

// Snapshot manages gob-serialized copies of the parsed gene models on disk.
// Files live next to the annotation inside the input directory:
//
//	<dir>/gff.stored.assemblies.gob
//	<dir>/gff.stored.features.gob
//
// A snapshot, once written, is never invalidated; re-parsing only happens
// when the files are absent.
type Snapshot struct {
	base string // path prefix (e.g. /data/run1/gff.stored)
}

// NewSnapshot creates a snapshot store with the given path prefix.
func NewSnapshot(base string) *Snapshot {
	return &Snapshot{base: base}
}

func (s *Snapshot) assembliesPath() string {
	return s.base + ".assemblies.gob"
}

func (s *Snapshot) featuresPath() string {
	return s.base + ".features.gob"
}

// Exists reports whether both snapshot files are present.
func (s *Snapshot) Exists() bool {
	if _, err := os.Stat(s.assembliesPath()); err != nil {
		return false
	}
	_, err := os.Stat(s.featuresPath())
	return err == nil
}

// Load reads the stored gene models from disk.
func (s *Snapshot) Load() (map[string]*genemodel.Assembly, genemodel.FeatureIndex, error) {
	var assemblies map[string]*genemodel.Assembly
	if err := s.loadGob(s.assembliesPath(), &assemblies); err != nil {
		return nil, nil, err
	}

	var features genemodel.FeatureIndex
	if err := s.loadGob(s.featuresPath(), &features); err != nil {
		return nil, nil, err
	}

	return assemblies, features, nil
}

// Write serializes the gene models to disk.
func (s *Snapshot) Write(assemblies map[string]*genemodel.Assembly, features genemodel.FeatureIndex) error {
	if err := s.writeGob(s.assembliesPath(), assemblies); err != nil {
		return err
	}
	return s.writeGob(s.featuresPath(), features)
}

// Clear removes the snapshot files.
func (s *Snapshot) Clear() {
	os.Remove(s.assembliesPath())
	os.Remove(s.featuresPath())
}

func (s *Snapshot) loadGob(path string, value any) error {
	f, err := os.Open(path)
	if err != nil {
		return &errs.CacheIOError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(value); err != nil {
		return &errs.CacheIOError{Op: "decode", Path: path, Err: err}
	}
	return nil
}

func (s *Snapshot) writeGob(path string, value any) error {
	f, err := os.Create(path)
	if err != nil {
		return &errs.CacheIOError{Op: "store", Path: path, Err: err}
	}

	if err := gob.NewEncoder(f).Encode(value); err != nil {
		f.Close()
		os.Remove(path)
		return &errs.CacheIOError{Op: "encode", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &errs.CacheIOError{Op: "store", Path: path, Err: err}
	}
	return nil
}
