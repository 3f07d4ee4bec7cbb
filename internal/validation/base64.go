package validation

import (
	"encoding/base64"
	"fmt"

	validation "github.com/jellydator/validation"
)

// Base64 validates that a string is standard base64. Empty strings are left to Required.
var Base64 = Base64Length(0)

// Base64Length validates standard base64 that decodes to exactly size bytes.
// A size of zero accepts any length.
func Base64Length(size int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_base64_type", "must be a string")
		}
		if s == "" {
			return nil
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return validation.NewError("validation_base64", "must be valid base64-encoded data")
		}
		if size > 0 && len(decoded) != size {
			return validation.NewError(
				"validation_base64_length",
				fmt.Sprintf("must decode to %d bytes", size),
			)
		}
		return nil
	})
}
