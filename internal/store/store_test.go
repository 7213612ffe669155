package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestPutAndQueryTermCounts(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.PutTermCounts(map[string]int{
		"0016301": 12,
		"0005524": 7,
		"0008150": 12,
	}))

	terms, err := s.TopTerms(2)
	require.NoError(t, err)
	require.Len(t, terms, 2)

	// Ties break on go_id for stable ordering
	assert.Equal(t, TermCount{GoID: "GO:0008150", Occurrences: 12}, terms[0])
	assert.Equal(t, TermCount{GoID: "GO:0016301", Occurrences: 12}, terms[1])

	count, ok, err := s.TermCountFor("GO:0005524")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(7), count)

	_, ok, err = s.TermCountFor("GO:9999999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutTermCounts_ReplacesExisting(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.PutTermCounts(map[string]int{"0016301": 3}))
	require.NoError(t, s.PutTermCounts(map[string]int{"0016301": 8}))

	count, ok, err := s.TermCountFor("GO:0016301")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(8), count)
}

func TestTopTerms_Empty(t *testing.T) {
	s := openInMemory(t)

	terms, err := s.TopTerms(10)
	require.NoError(t, err)
	assert.Empty(t, terms)
}
