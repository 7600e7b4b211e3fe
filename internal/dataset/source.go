// Package dataset loads sentence rows from a spreadsheet feed, delimited
// text file or Excel workbook and builds the segmented study program.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abhisek/chunkz/internal/config"
)

var (
	ErrNoSource = errors.New("no dataset source configured")
	ErrEmpty    = errors.New("dataset contains no usable rows")
)

// Source yields raw dataset rows.
type Source interface {
	Rows(ctx context.Context) ([]Row, error)
	Name() string
}

// Open picks a Source for the configured location: http(s) URLs are fetched,
// .xlsx files are read with excelize, anything else is parsed as delimited
// text. A bare sheet ID resolves to the Google Sheets CSV export.
func Open(cfg config.DatasetConfig) (Source, error) {
	loc := strings.TrimSpace(cfg.Source)
	if loc == "" && cfg.SheetID != "" {
		loc = SheetCSVURL(cfg.SheetID, cfg.SheetName)
	}
	if loc == "" {
		return nil, ErrNoSource
	}

	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return NewHTTPSource(loc,
			WithTimeout(cfg.Timeout),
			WithHeaderRows(cfg.HeaderRows),
			WithCacheBust(cfg.CacheBust),
		), nil
	}

	switch strings.ToLower(filepath.Ext(loc)) {
	case ".xlsx", ".xlsm":
		return &XLSXSource{Path: loc, Sheet: cfg.SheetName, HeaderRows: cfg.HeaderRows}, nil
	default:
		return &FileSource{Path: loc, HeaderRows: cfg.HeaderRows}, nil
	}
}

// Load reads rows from src and builds the program. On failure it still
// returns an empty program so callers can proceed without parts.
func Load(ctx context.Context, src Source, opts BuildOptions) (*Program, error) {
	empty := &Program{ID: opts.ProgramID, Label: opts.Label}
	if src == nil {
		return empty, ErrNoSource
	}

	rows, err := src.Rows(ctx)
	if err != nil {
		return empty, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	if len(rows) == 0 {
		return empty, fmt.Errorf("load %s: %w", src.Name(), ErrEmpty)
	}
	return Build(opts, rows), nil
}
