package converter

import (
	"strconv"
	"strings"

	apperrors "github.com/allisson/tokenizer/internal/errors"
)

// Primitive enumerates the Go types with a registered converter.
type Primitive interface {
	string | int | int32 | int64 | float32 | float64 | bool
}

// Converter converts a single primitive type to and from its wire string.
type Converter[T Primitive] struct {
	dataType DataType
	format   func(T) string
	parse    func(string) (T, error)
}

// DataType returns the data type tag used for T on the wire.
func (c Converter[T]) DataType() DataType {
	return c.dataType
}

// ToString formats v in the canonical form accepted by FromString.
func (c Converter[T]) ToString(v T) string {
	return c.format(v)
}

// FromString parses s into T. Input that T cannot represent returns ErrInvalidValue.
func (c Converter[T]) FromString(s string) (T, error) {
	return c.parse(s)
}

var (
	stringConverter = Converter[string]{
		dataType: String,
		format:   func(v string) string { return v },
		parse:    func(s string) (string, error) { return s, nil },
	}
	intConverter = Converter[int]{
		dataType: Long,
		format:   strconv.Itoa,
		parse: func(s string) (int, error) {
			v, err := strconv.ParseInt(s, 10, strconv.IntSize)
			if err != nil {
				return 0, invalid(Long)
			}
			return int(v), nil
		},
	}
	int32Converter = Converter[int32]{
		dataType: Integer,
		format:   func(v int32) string { return strconv.FormatInt(int64(v), 10) },
		parse: func(s string) (int32, error) {
			v, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return 0, invalid(Integer)
			}
			return int32(v), nil
		},
	}
	int64Converter = Converter[int64]{
		dataType: Long,
		format:   func(v int64) string { return strconv.FormatInt(v, 10) },
		parse: func(s string) (int64, error) {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return 0, invalid(Long)
			}
			return v, nil
		},
	}
	float32Converter = Converter[float32]{
		dataType: Float,
		format:   func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) },
		parse: func(s string) (float32, error) {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return 0, invalid(Float)
			}
			return float32(v), nil
		},
	}
	float64Converter = Converter[float64]{
		dataType: Double,
		format:   func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
		parse: func(s string) (float64, error) {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, invalid(Double)
			}
			return v, nil
		},
	}
	boolConverter = Converter[bool]{
		dataType: Boolean,
		format:   strconv.FormatBool,
		parse: func(s string) (bool, error) {
			switch {
			case strings.EqualFold(s, "true"):
				return true, nil
			case strings.EqualFold(s, "false"):
				return false, nil
			default:
				return false, invalid(Boolean)
			}
		},
	}
)

// For returns the converter registered for T.
func For[T Primitive]() Converter[T] {
	var zero T
	var c any
	switch any(zero).(type) {
	case string:
		c = stringConverter
	case int:
		c = intConverter
	case int32:
		c = int32Converter
	case int64:
		c = int64Converter
	case float32:
		c = float32Converter
	case float64:
		c = float64Converter
	case bool:
		c = boolConverter
	}
	return c.(Converter[T])
}

// Parse converts s into the canonical Go type for dataType:
// string, int32, int64, float32, float64 or bool.
func Parse(dataType DataType, s string) (any, error) {
	switch dataType {
	case String:
		return s, nil
	case Integer:
		return int32Converter.FromString(s)
	case Long:
		return int64Converter.FromString(s)
	case Float:
		return float32Converter.FromString(s)
	case Double:
		return float64Converter.FromString(s)
	case Boolean:
		return boolConverter.FromString(s)
	default:
		return nil, apperrors.Wrapf(ErrUnknownDataType, "%q", dataType)
	}
}

// Format converts v into its wire string and data type.
func Format(v any) (string, DataType, error) {
	switch t := v.(type) {
	case string:
		return t, String, nil
	case int:
		return intConverter.ToString(t), Long, nil
	case int32:
		return int32Converter.ToString(t), Integer, nil
	case int64:
		return int64Converter.ToString(t), Long, nil
	case float32:
		return float32Converter.ToString(t), Float, nil
	case float64:
		return float64Converter.ToString(t), Double, nil
	case bool:
		return boolConverter.ToString(t), Boolean, nil
	default:
		return "", "", apperrors.Wrapf(ErrUnsupportedType, "%T", v)
	}
}

func invalid(dataType DataType) error {
	return apperrors.Wrapf(ErrInvalidValue, "not a valid %s", dataType)
}
