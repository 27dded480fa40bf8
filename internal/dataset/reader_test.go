package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"calyrec/internal/domain"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_ReadFile_CSV(t *testing.T) {
	path := writeTemp(t, "LIQUIDACIONES_20250807.csv", "c1;c2;c3\na;b;c\nd;e\n")

	ds, err := NewReader(';').ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2", "c3"}, ds.Header)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, []string{"a", "b", "c"}, ds.Rows[0])
	// Ragged rows are preserved, not padded or rejected.
	assert.Equal(t, []string{"d", "e"}, ds.Rows[1])
	assert.False(t, ds.Empty())
}

func TestReader_ReadFile_StripsByteOrderMark(t *testing.T) {
	path := writeTemp(t, "in.csv", "\xEF\xBB\xBFc1;c2\n007;x\n")

	ds, err := NewReader(';').ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, ds.Header)
	assert.Equal(t, []string{"007", "x"}, ds.Rows[0])
}

func TestReader_ReadFile_QuotedSeparator(t *testing.T) {
	path := writeTemp(t, "in.csv", "h1;h2;h3\na;\"x;y\";c\n")

	ds, err := NewReader(';').ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "x;y", "c"}, ds.Rows[0])
}

func TestReader_ReadFile_HeaderOnly(t *testing.T) {
	path := writeTemp(t, "in.csv", "c1;c2\n")

	ds, err := NewReader(';').ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, ds.Header)
	assert.True(t, ds.Empty())
}

func TestReader_ReadFile_EmptyFile(t *testing.T) {
	path := writeTemp(t, "in.csv", "")

	ds, err := NewReader(';').ReadFile(path)
	require.NoError(t, err)
	assert.Nil(t, ds.Header)
	assert.True(t, ds.Empty())
}

func TestReader_ReadFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fwd_div_Calypso_20250807.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ref", "contract"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"045", "FWD-1"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"99", "FWD-2"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewReader(';').ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ref", "contract"}, ds.Header)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, []string{"045", "FWD-1"}, ds.Rows[0])
	assert.Equal(t, []string{"99", "FWD-2"}, ds.Rows[1])
}

func TestReader_ReadFile_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "notes.txt", "whatever")

	_, err := NewReader(';').ReadFile(path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestReader_ReadFile_Missing(t *testing.T) {
	_, err := NewReader(';').ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
