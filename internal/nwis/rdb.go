package nwis

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Row is one RDB data row keyed by column name.
type Row map[string]string

// ParseRDB reads tab-delimited RDB content: comment lines prefixed with '#',
// a header row of column names, a column-definition row of width tokens like
// "5s" or "16n", then data rows. Repeated header lines (multi-block
// responses) are skipped. Fields are trimmed; missing trailing fields become
// empty strings.
func ParseRDB(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	var rows []Row
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if header == nil {
			header = fields
			continue
		}
		if isDefinitionRow(fields) || sameFields(fields, header) {
			continue
		}
		if len(fields) > len(header) {
			return nil, fmt.Errorf("rdb row has %d fields, header has %d", len(fields), len(header))
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = strings.TrimSpace(fields[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rdb: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("rdb content has no header row")
	}
	return rows, nil
}

// isDefinitionRow reports whether every field looks like an RDB column
// definition token: digits followed by a type letter, e.g. "5s", "16n".
func isDefinitionRow(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) < 2 {
			return false
		}
		last := f[len(f)-1]
		if last != 's' && last != 'n' && last != 'd' {
			return false
		}
		for _, ch := range f[:len(f)-1] {
			if ch < '0' || ch > '9' {
				return false
			}
		}
	}
	return true
}

func sameFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
