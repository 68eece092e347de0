// Package schema describes the columns of every seed CSV file and the
// domain enumerations the validators check cell values against.
package schema

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldClock
	FieldInt
	FieldPositiveInt
	FieldFloat
	FieldBool
)

// FieldSpec defines validation rules for a single CSV column.
type FieldSpec struct {
	Name       string    // Column header name (lowercase)
	Type       FieldType // Expected data type
	Required   bool      // Column must exist in CSV header
	AllowEmpty bool      // If true, empty values are allowed even when Required
	EnumValues []string  // Valid values for FieldEnum type
}

// FileSpec pairs a seed file name with its column specs.
type FileSpec struct {
	File   string
	Fields []FieldSpec
}
