package domain

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/tokenizer/internal/errors"
	customValidation "github.com/allisson/tokenizer/internal/validation"
	"github.com/allisson/tokenizer/pkg/converter"
)

// TokenizeInput is the input of a single tokenize operation.
type TokenizeInput struct {
	Value     string
	DataType  converter.DataType
	Encrypted bool
}

// Validate checks the data type and that the value parses as that type.
func (i *TokenizeInput) Validate() error {
	return customValidation.WrapValidationError(validation.ValidateStruct(i,
		validation.Field(&i.Value, validation.Required, validation.By(representableAs(i.DataType))),
		validation.Field(&i.DataType, validation.Required, validation.By(validateDataType)),
	))
}

// DetokenizeInput is the input of a single detokenize operation.
type DetokenizeInput struct {
	Token     string
	Encrypted bool
}

// Validate checks the token.
func (i *DetokenizeInput) Validate() error {
	return customValidation.WrapValidationError(validation.ValidateStruct(i,
		validation.Field(&i.Token, validation.Required, customValidation.NotBlank),
	))
}

// BatchTokenizeInput is the input of a batch tokenize operation.
type BatchTokenizeInput struct {
	Values    []TypedValue
	Encrypted bool
}

// Validate checks the batch size and every value.
func (i *BatchTokenizeInput) Validate() error {
	if err := checkBatchSize(len(i.Values), MaxTokenizeBatchSize); err != nil {
		return err
	}
	return customValidation.WrapValidationError(validation.ValidateStruct(i,
		validation.Field(&i.Values, validation.Each(validation.By(validateTypedValue))),
	))
}

// BatchDetokenizeInput is the input of a batch detokenize operation.
type BatchDetokenizeInput struct {
	Tokens    []string
	Encrypted bool
}

// Validate checks the batch size and every token.
func (i *BatchDetokenizeInput) Validate() error {
	if err := checkBatchSize(len(i.Tokens), MaxDetokenizeBatchSize); err != nil {
		return err
	}
	return customValidation.WrapValidationError(validation.ValidateStruct(i,
		validation.Field(&i.Tokens, customValidation.EachNotBlank),
	))
}

func checkBatchSize(n, limit int) error {
	switch {
	case n == 0:
		return ErrEmptyBatch
	case n > limit:
		return errors.Wrapf(ErrBatchTooLarge, "%d items, limit is %d", n, limit)
	default:
		return nil
	}
}

func validateDataType(value any) error {
	dt, _ := value.(converter.DataType)
	return dt.Validate()
}

func validateTypedValue(value any) error {
	tv, _ := value.(TypedValue)
	return validation.ValidateStruct(&tv,
		validation.Field(&tv.Value, validation.Required, validation.By(representableAs(tv.DataType))),
		validation.Field(&tv.DataType, validation.Required, validation.By(validateDataType)),
	)
}

// representableAs rejects a value its data type cannot hold. An unknown data
// type is left to validateDataType.
func representableAs(dt converter.DataType) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s == "" || dt.Validate() != nil {
			return nil
		}
		_, err := converter.Parse(dt, s)
		return err
	}
}
