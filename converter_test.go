package fileproc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFailedRecordConvertersRoundTrip(t *testing.T) {
	converters, err := NewFailedRecordConverters("a cold archive passphrase")
	require.NoError(t, err)
	require.Len(t, converters, 2)

	raw := []byte("u2,Bob,bob@example.com,Acme,2 Main St")
	stored, err := converters.toStorage(raw)
	require.NoError(t, err)
	require.NotEqual(t, raw, stored)

	back, err := converters.fromStorage(stored)
	require.NoError(t, err)
	require.Equal(t, raw, back)
}

func TestConvertersEqual(t *testing.T) {
	a, err := NewFailedRecordConverters("same passphrase")
	require.NoError(t, err)
	b, err := NewFailedRecordConverters("same passphrase")
	require.NoError(t, err)
	c, err := NewFailedRecordConverters("different passphrase")
	require.NoError(t, err)

	require.True(t, a.equal(b))
	require.False(t, a.equal(c))
}
