package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteFile_ExactFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	ds := &Dataset{
		Header: []string{"h1", "h2"},
		Rows: [][]string{
			{"a", "b"},
			{"no encontrado", "7"},
		},
	}

	require.NoError(t, NewWriter(';').WriteFile(path, ds))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "h1;h2\na;b\nno encontrado;7\n", string(content))
}

func TestWriter_WriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	ds := &Dataset{
		Header: []string{"c1", "c2", "c3"},
		Rows: [][]string{
			{"1", "x;y", "z"},
			{"2", "", "w"},
		},
	}

	require.NoError(t, NewWriter(';').WriteFile(path, ds))

	got, err := NewReader(';').ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Header, got.Header)
	assert.Equal(t, ds.Rows, got.Rows)
}

func TestWriter_WriteFile_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procesados", "nested", "out.csv")
	ds := &Dataset{Header: []string{"h"}, Rows: [][]string{{"v"}}}

	require.NoError(t, NewWriter(';').WriteFile(path, ds))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriter_WriteFile_WriteTwiceIdentical(t *testing.T) {
	dir := t.TempDir()
	ds := &Dataset{Header: []string{"h1", "h2"}, Rows: [][]string{{"a", "b"}}}
	w := NewWriter(';')

	p1 := filepath.Join(dir, "one.csv")
	p2 := filepath.Join(dir, "two.csv")
	require.NoError(t, w.WriteFile(p1, ds))
	require.NoError(t, w.WriteFile(p2, ds))

	c1, err := os.ReadFile(p1)
	require.NoError(t, err)
	c2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}
