package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// TermCount is one row of the go_term_counts table: a fully-qualified GO id
// and how often it occurred in the annotation.
type TermCount struct {
	GoID        string `json:"go_id"`
	Occurrences int64  `json:"occurrences"`
}

// PutTermCounts replaces the stored counts for the given raw identifier
// suffixes. Identifiers are fully qualified with the "GO:" prefix before
// writing.
func (s *Store) PutTermCounts(terms map[string]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin term write: %w", err)
	}
	defer tx.Rollback()

	for suffix, occurrences := range terms {
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO go_term_counts (go_id, occurrences) VALUES (?, ?)`,
			"GO:"+suffix, int64(occurrences),
		)
		if err != nil {
			return fmt.Errorf("write term count: %w", err)
		}
	}

	return tx.Commit()
}

// TopTerms returns the n most frequent terms, most frequent first. Ties
// break on go_id so the order is stable.
func (s *Store) TopTerms(n int) ([]TermCount, error) {
	rows, err := s.db.Query(
		`SELECT go_id, occurrences FROM go_term_counts
		 ORDER BY occurrences DESC, go_id ASC
		 LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top terms: %w", err)
	}
	defer rows.Close()

	var terms []TermCount
	for rows.Next() {
		var tc TermCount
		if err := rows.Scan(&tc.GoID, &tc.Occurrences); err != nil {
			return nil, fmt.Errorf("scan term count: %w", err)
		}
		terms = append(terms, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate term counts: %w", err)
	}
	return terms, nil
}

// TermCountFor returns the stored occurrence count for a fully-qualified GO
// id, and whether the id is present.
func (s *Store) TermCountFor(goID string) (int64, bool, error) {
	var occurrences int64
	err := s.db.QueryRow(
		`SELECT occurrences FROM go_term_counts WHERE go_id = ?`, goID,
	).Scan(&occurrences)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("query term count: %w", err)
	}
	return occurrences, true, nil
}
