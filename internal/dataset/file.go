package dataset

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FileSource reads a local CSV or TSV file.
type FileSource struct {
	Path       string
	HeaderRows int
}

func (s *FileSource) Name() string { return s.Path }

func (s *FileSource) Rows(_ context.Context) ([]Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ParseRows(f, s.HeaderRows)
}

// XLSXSource reads rows from one sheet of an Excel workbook. Columns are
// part, English, Japanese and the optional chunk spec, in that order.
type XLSXSource struct {
	Path       string
	Sheet      string
	HeaderRows int
}

func (s *XLSXSource) Name() string { return s.Path + "#" + s.Sheet }

func (s *XLSXSource) Rows(_ context.Context) ([]Row, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var rows []Row
	seen := 0
	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		seen++
		if seen <= s.HeaderRows {
			continue
		}
		if row, ok := rowFromFields(rec); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
