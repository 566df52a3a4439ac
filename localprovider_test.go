package fileproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalFileProviderReadRange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	data := []byte("id,name,email,co,a\nu2,Bob,bob@example.com,Acme,2 Main St\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "data.csv"), data, 0o644))

	p := LocalFileProvider{Root: dir}

	size, err := p.Size(t.Context(), "sub", "data.csv")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), size)

	got, err := p.ReadRange(t.Context(), "sub", "data.csv", 0, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("id,na"), got)

	require.Contains(t, p.String(), dir)
}

func TestLocalFileProviderReadRangeMissingFile(t *testing.T) {
	p := LocalFileProvider{Root: t.TempDir()}
	_, err := p.ReadRange(t.Context(), "sub", "missing.csv", 0, 1)
	require.Error(t, err)
}

func TestSampleRangeClampsToFileSize(t *testing.T) {
	dir := t.TempDir()
	data := []byte("0123456789")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), data, 0o644))
	p := LocalFileProvider{Root: dir}

	got, err := SampleRange(t.Context(), p, "", "data.csv", 5, 1000)
	require.NoError(t, err)
	require.Equal(t, []byte("56789"), got)

	got, err = SampleRange(t.Context(), p, "", "data.csv", 20, 30)
	require.NoError(t, err)
	require.Nil(t, got)
}
