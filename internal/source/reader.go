// Package source reads the seed CSV files into ordered record tables.
//
// Every value is kept as a trimmed string; numeric, boolean, clock and date
// coercion happens in the validators and transformers through the parse
// helpers in convert.go.
package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxFileSize is the maximum accepted CSV file size (100MB).
var MaxFileSize int64 = 100 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SourceReadError reports a CSV file that is missing, unreadable or not CSV.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// Record is one data row keyed by lowercase column name.
type Record struct {
	Line   int // 1-based line of the row in the file
	values map[string]string
}

// NewRecord builds a record from column/value pairs. Values are trimmed.
func NewRecord(line int, values map[string]string) Record {
	r := Record{Line: line, values: make(map[string]string, len(values))}
	for k, v := range values {
		r.values[normalizeHeader(k)] = strings.TrimSpace(v)
	}
	return r
}

// Get returns the trimmed value of column, or "" when the column is absent.
func (r Record) Get(column string) string {
	return r.values[column]
}

// Table is the parsed content of one CSV file.
type Table struct {
	File    string // base file name, used in error reports
	Header  []string
	Records []Record
}

// Len returns the number of data records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Read parses the CSV file at path.
func Read(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &SourceReadError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	if info.Size() > MaxFileSize {
		return nil, &SourceReadError{Path: path, Err: fmt.Errorf("file too large: %d bytes exceeds %dMB limit", info.Size(), MaxFileSize/(1024*1024))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}

	t, err := Parse(filepath.Base(path), bytes.NewReader(data))
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}
	return t, nil
}

// Parse reads CSV content from r. name is recorded as the table's file name.
func Parse(name string, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	t := &Table{File: name}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if isEmptyRow(row) {
			continue
		}
		line, _ := cr.FieldPos(0)

		if t.Header == nil {
			t.Header = make([]string, len(row))
			for i, h := range row {
				t.Header[i] = normalizeHeader(h)
			}
			continue
		}

		values := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if col == "" {
				continue
			}
			if i < len(row) {
				values[col] = strings.TrimSpace(row[i])
			} else {
				values[col] = ""
			}
		}
		t.Records = append(t.Records, Record{Line: line, values: values})
	}

	if t.Header == nil {
		return nil, fmt.Errorf("empty file: no header row")
	}
	return t, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
