// Package validate checks a seed source set before anything is written.
//
// Every validator returns an ordered list of ValidationError values and never
// fails on bad data: problems are reported, not thrown, so that one run shows
// the complete defect list.
package validate

import (
	"fmt"
	"strings"
)

// Kind distinguishes single-source rule violations from broken references.
type Kind string

const (
	KindRule      Kind = "rule"
	KindReference Kind = "reference"
)

// ValidationError is one problem found in a seed file.
type ValidationError struct {
	File    string
	Row     int    // source line, 0 when the error concerns the whole file
	Field   string // empty when the error spans several fields
	Message string
	Kind    Kind
}

// Error renders the error as "file:row [field] message".
func (e ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.File)
	if e.Row > 0 {
		fmt.Fprintf(&b, ":%d", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " [%s]", e.Field)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)
	return b.String()
}

// IsReference reports whether the error is a referential-integrity error.
func (e ValidationError) IsReference() bool {
	return e.Kind == KindReference
}

// collector accumulates errors for one file in encounter order.
type collector struct {
	file string
	kind Kind
	errs []ValidationError
}

func newCollector(file string, kind Kind) *collector {
	return &collector{file: file, kind: kind}
}

func (c *collector) add(row int, field, format string, args ...any) {
	c.errs = append(c.errs, ValidationError{
		File:    c.file,
		Row:     row,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Kind:    c.kind,
	})
}

// FormatError renders e for terminal output.
func FormatError(e ValidationError) string {
	return e.Error()
}
