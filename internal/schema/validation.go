package schema

// validation.go provides column-level checks shared by every seed file.
//
// Validation happens at two levels:
//  1. Header validation: Ensures required columns are present
//  2. Row validation: Checks each cell against its FieldSpec (type, format, enum values)
//
// Cross-field and cross-file rules (uniqueness, ranges, references) live in
// the validate package and run on top of these results.

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/visitseed/internal/source"
)

// CellError represents a single validation error for a field.
type CellError struct {
	Field   string // Field/column name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e CellError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// RowValidator validates records against a file's field specifications.
type RowValidator struct {
	specs   []FieldSpec
	present map[string]bool
}

// NewRowValidator creates a validator for spec. Columns missing from header
// are skipped; ValidateHeaders reports them once per file.
func NewRowValidator(spec FileSpec, header []string) *RowValidator {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	return &RowValidator{specs: spec.Fields, present: present}
}

// ValidateRow validates a single record and returns all cell errors in
// column order.
func (v *RowValidator) ValidateRow(rec source.Record) []CellError {
	var errs []CellError

	for _, spec := range v.specs {
		if !v.present[spec.Name] {
			continue
		}

		raw := rec.Get(spec.Name)

		if raw == "" {
			if spec.Required && !spec.AllowEmpty {
				errs = append(errs, CellError{
					Field:   spec.Name,
					Message: "required field is empty",
				})
			}
			continue
		}

		if err := ValidateCell(raw, spec); err != nil {
			errs = append(errs, CellError{
				Field:   spec.Name,
				Value:   raw,
				Message: err.Error(),
			})
		}
	}

	return errs
}

// ValidateCell validates a single non-empty cell value against a field specification.
func ValidateCell(value string, spec FieldSpec) error {
	if value == "" {
		return nil
	}

	var err error
	switch spec.Type {
	case FieldEnum:
		if len(spec.EnumValues) > 0 && !Contains(spec.EnumValues, value) {
			return fmt.Errorf("invalid enum %q: must be one of %s", value, strings.Join(spec.EnumValues, ", "))
		}
	case FieldDate:
		_, err = source.ParseDate(value)
	case FieldClock:
		_, err = source.ParseClock(value)
	case FieldInt:
		_, err = source.ParseInt(value)
	case FieldPositiveInt:
		_, err = source.ParsePositiveInt(value)
	case FieldFloat:
		_, err = source.ParseFloat(value)
	case FieldBool:
		_, err = source.ParseBool(value)
	}
	return err
}

// ValidateHeaders returns the required columns of spec missing from header,
// in spec order.
func ValidateHeaders(header []string, spec FileSpec) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, f := range spec.Fields {
		if f.Required && !present[f.Name] {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
