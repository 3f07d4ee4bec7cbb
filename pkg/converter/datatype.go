// Package converter converts between the string form the tokenization service
// stores and the primitive Go types callers work with.
package converter

import (
	apperrors "github.com/allisson/tokenizer/internal/errors"
)

// DataType is the discriminator the remote service attaches to every value.
type DataType string

const (
	String  DataType = "string"
	Integer DataType = "integer"
	Long    DataType = "long"
	Float   DataType = "float"
	Double  DataType = "double"
	Boolean DataType = "boolean"
)

var (
	// ErrUnknownDataType indicates a data type the registry has no converter for.
	ErrUnknownDataType = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown data type")

	// ErrInvalidValue indicates a string that cannot be represented in the requested type.
	ErrInvalidValue = apperrors.Wrap(apperrors.ErrInvalidInput, "value not representable")

	// ErrUnsupportedType indicates a Go type without a converter.
	ErrUnsupportedType = apperrors.Wrap(apperrors.ErrUnsupported, "unsupported type")
)

// Validate checks if the data type is one of the supported primitives.
func (d DataType) Validate() error {
	switch d {
	case String, Integer, Long, Float, Double, Boolean:
		return nil
	default:
		return ErrUnknownDataType
	}
}

// String returns the string representation of the data type.
func (d DataType) String() string {
	return string(d)
}

// All returns every supported data type.
func All() []DataType {
	return []DataType{String, Integer, Long, Float, Double, Boolean}
}
