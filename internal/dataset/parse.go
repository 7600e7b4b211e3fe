package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseRows reads delimited dataset text. Each line is split on tabs when it
// contains one and on commas otherwise; quoted fields may contain commas.
// Blank lines are ignored, the first headerRows non-blank lines are skipped,
// and rows missing a part, English or Japanese column are dropped.
func ParseRows(r io.Reader, headerRows int) ([]Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []Row
	seen := 0
	for sc.Scan() {
		line := strings.TrimRight(strings.TrimPrefix(sc.Text(), "\ufeff"), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		seen++
		if seen <= headerRows {
			continue
		}

		row, ok := rowFromFields(splitLine(line))
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return rows, nil
}

// splitLine splits a single record, falling back to a plain split when the
// csv reader rejects the line.
func splitLine(line string) []string {
	sep := ','
	if strings.ContainsRune(line, '\t') {
		sep = '\t'
	}

	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = sep
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = sep == ','
	fields, err := cr.Read()
	if err != nil {
		return strings.Split(line, string(sep))
	}
	return fields
}

// rowFromFields maps positional columns onto a Row. ok is false when a
// required column is missing or blank.
func rowFromFields(fields []string) (Row, bool) {
	col := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	row := Row{
		Part:     col(0),
		English:  col(1),
		Japanese: col(2),
		Chunks:   col(3),
	}
	if row.Part == "" || row.English == "" || row.Japanese == "" {
		return Row{}, false
	}
	return row, true
}
