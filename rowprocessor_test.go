package fileproc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRowProcessorValid(t *testing.T) {
	p := NewDefaultRowProcessor()
	lines := []string{"u1,Alice,alice@example.com,Acme,1 Main St"}
	rows, err := p.ProcessRows(nil, lines, 2, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Valid)
	require.Equal(t, "u1", rows[0].RowID)
	require.Equal(t, int64(2), rows[0].LineNumber)
}

func TestDefaultRowProcessorValidationFailure(t *testing.T) {
	p := NewDefaultRowProcessor()
	lines := []string{"u1,Alice,not-an-email,Acme,1 Main St"}
	rows, err := p.ProcessRows(nil, lines, 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.False(t, rows[0].Valid)
	require.Equal(t, ValidationError, rows[0].FailureType)
	require.NotEmpty(t, rows[0].Errors)
}

func TestDefaultRowProcessorParseFailure(t *testing.T) {
	p := NewDefaultRowProcessor()
	lines := []string{"only,three,fields"}
	rows, err := p.ProcessRows(nil, lines, 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.False(t, rows[0].Valid)
	require.Equal(t, ParseError, rows[0].FailureType)
}

func TestDefaultRowProcessorDedup(t *testing.T) {
	p := NewDefaultRowProcessor()
	lines := []string{
		"u1,Alice,alice@example.com,Acme,1 Main St",
		"u1,Alice,alice@example.com,Acme,1 Main St",
	}
	seen := map[string]bool{}
	dedupCheck := func(rowID string) (bool, error) {
		if seen[rowID] {
			return true, nil
		}
		seen[rowID] = true
		return false, nil
	}
	rows, err := p.ProcessRows(nil, lines, 1, dedupCheck)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, rows[0].Valid)
	require.False(t, rows[0].Duplicate)
	require.False(t, rows[1].Valid)
	require.True(t, rows[1].Duplicate)
}

func TestDefaultRowProcessorDedupError(t *testing.T) {
	p := NewDefaultRowProcessor()
	lines := []string{"u1,Alice,alice@example.com,Acme,1 Main St"}
	dedupCheck := func(rowID string) (bool, error) {
		return false, require.AnError
	}
	rows, err := p.ProcessRows(nil, lines, 1, dedupCheck)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.False(t, rows[0].Valid)
	require.Equal(t, ProcessingError, rows[0].FailureType)
}
