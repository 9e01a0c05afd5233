package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads the first sheet of an .xlsx workbook and applies the
// same header mapping and row normalization as Parse.
func ParseWorkbook(r io.Reader) ([]models.Lead, error) {
	rows, err := openSheetRows(r)
	if err != nil {
		return nil, err
	}

	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !blankRow(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) < 2 {
		return nil, ErrEmptyOrHeaderMissing
	}
	return buildLeads(kept[0], kept[1:])
}

// ParseFile dispatches an uploaded file on its extension: .xlsx workbooks,
// .tsv tab-separated text, anything else comma-separated text.
func ParseFile(name string, r io.Reader) ([]models.Lead, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ParseWorkbook(r)
	case ".tsv":
		text, err := readText(r)
		if err != nil {
			return nil, err
		}
		return Parse(text, Tab)
	default:
		text, err := readText(r)
		if err != nil {
			return nil, err
		}
		return Parse(text, Comma)
	}
}

func readText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return strings.TrimPrefix(string(raw), "\ufeff"), nil
}

func openSheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyOrHeaderMissing
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return rows, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
