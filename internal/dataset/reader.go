package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"calyrec/internal/domain"
)

// UTF-8 BOM some upstream exports prepend; stripped on read.
var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Dataset is one parsed input file: the verbatim header row plus the data
// rows, exactly as they appeared. Rows may be ragged; callers bound-check.
type Dataset struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the dataset has no data rows after the header.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Rows) == 0
}

// Reader loads primary and reference datasets from disk.
type Reader struct {
	comma rune
}

// NewReader creates a Reader for files using the given field separator. The
// separator applies to .csv inputs only; .xlsx sheets carry explicit cells.
func NewReader(comma rune) *Reader {
	return &Reader{comma: comma}
}

// ReadFile parses path according to its extension. The first row becomes the
// header and is never treated as data.
func (r *Reader) ReadFile(path string) (*Dataset, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch domain.FormatByExtension[ext] {
	case domain.FormatCSV:
		return r.readCSV(path)
	case domain.FormatXLSX:
		return r.readXLSX(path)
	default:
		return nil, fmt.Errorf("dataset.ReadFile: %w: %q", domain.ErrUnsupportedFile, ext)
	}
}

func (r *Reader) readCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset.readCSV: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if prefix, err := br.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = br.Discard(len(byteOrderMark))
	}

	cr := csv.NewReader(br)
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset.readCSV: %w", err)
	}
	return split(records), nil
}

func (r *Reader) readXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset.readXLSX: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Dataset{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("dataset.readXLSX: %w", err)
	}
	return split(rows), nil
}

func split(records [][]string) *Dataset {
	if len(records) == 0 {
		return &Dataset{}
	}
	return &Dataset{Header: records[0], Rows: records[1:]}
}
