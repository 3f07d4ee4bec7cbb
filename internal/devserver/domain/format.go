package domain

// FormatType selects how new tokens are generated.
type FormatType string

const (
	FormatUUID           FormatType = "uuid"
	FormatNumeric        FormatType = "numeric"
	FormatLuhnPreserving FormatType = "luhn-preserving"
	FormatAlphanumeric   FormatType = "alphanumeric"
)

// Validate checks that f is a known format.
func (f FormatType) Validate() error {
	switch f {
	case FormatUUID, FormatNumeric, FormatLuhnPreserving, FormatAlphanumeric:
		return nil
	default:
		return ErrInvalidFormatType
	}
}
