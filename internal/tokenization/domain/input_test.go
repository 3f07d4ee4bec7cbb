package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/tokenizer/internal/errors"
	"github.com/allisson/tokenizer/pkg/converter"
)

func TestTokenizeInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   TokenizeInput
		wantErr bool
	}{
		{"valid string", TokenizeInput{Value: "4111", DataType: converter.String}, false},
		{"valid boolean", TokenizeInput{Value: "true", DataType: converter.Boolean}, false},
		{"empty value", TokenizeInput{Value: "", DataType: converter.String}, true},
		{"missing data type", TokenizeInput{Value: "a"}, true},
		{"unknown data type", TokenizeInput{Value: "a", DataType: "decimal"}, true},
		{"non-numeric integer", TokenizeInput{Value: "abc", DataType: converter.Integer}, true},
		{"integer overflow", TokenizeInput{Value: "2147483648", DataType: converter.Integer}, true},
		{"valid long", TokenizeInput{Value: "2147483648", DataType: converter.Long}, false},
		{"unknown boolean", TokenizeInput{Value: "yes", DataType: converter.Boolean}, true},
		{"valid double", TokenizeInput{Value: "3.14", DataType: converter.Double}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDetokenizeInput_Validate(t *testing.T) {
	assert.NoError(t, (&DetokenizeInput{Token: "tok"}).Validate())
	assert.ErrorIs(t, (&DetokenizeInput{Token: ""}).Validate(), errors.ErrInvalidInput)
	assert.ErrorIs(t, (&DetokenizeInput{Token: "  "}).Validate(), errors.ErrInvalidInput)
}

func TestBatchTokenizeInput_Validate(t *testing.T) {
	values := func(n int) []TypedValue {
		out := make([]TypedValue, n)
		for i := range out {
			out[i] = TypedValue{Value: "v", DataType: converter.String}
		}
		return out
	}

	t.Run("Success_AtLimit", func(t *testing.T) {
		assert.NoError(t, (&BatchTokenizeInput{Values: values(MaxTokenizeBatchSize)}).Validate())
	})

	t.Run("Error_Empty", func(t *testing.T) {
		assert.ErrorIs(t, (&BatchTokenizeInput{}).Validate(), ErrEmptyBatch)
	})

	t.Run("Error_OverLimit", func(t *testing.T) {
		err := (&BatchTokenizeInput{Values: values(MaxTokenizeBatchSize + 1)}).Validate()
		assert.ErrorIs(t, err, ErrBatchTooLarge)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		assert.True(t, strings.Contains(err.Error(), "1001 items"))
	})

	t.Run("Error_InvalidItem", func(t *testing.T) {
		in := &BatchTokenizeInput{Values: []TypedValue{
			{Value: "ok", DataType: converter.String},
			{Value: "", DataType: converter.String},
		}}
		assert.ErrorIs(t, in.Validate(), errors.ErrInvalidInput)
	})

	t.Run("Error_ItemNotRepresentable", func(t *testing.T) {
		in := &BatchTokenizeInput{Values: []TypedValue{
			{Value: "1", DataType: converter.Long},
			{Value: "1.5", DataType: converter.Long},
		}}
		err := in.Validate()
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "not a valid long")
	})
}

func TestBatchDetokenizeInput_Validate(t *testing.T) {
	tokens := make([]string, MaxDetokenizeBatchSize+1)
	for i := range tokens {
		tokens[i] = "t"
	}

	assert.NoError(t, (&BatchDetokenizeInput{Tokens: tokens[:MaxDetokenizeBatchSize]}).Validate())
	assert.ErrorIs(t, (&BatchDetokenizeInput{Tokens: tokens}).Validate(), ErrBatchTooLarge)
	assert.ErrorIs(t, (&BatchDetokenizeInput{}).Validate(), ErrEmptyBatch)
	assert.ErrorIs(t, (&BatchDetokenizeInput{Tokens: []string{"t", " "}}).Validate(), errors.ErrInvalidInput)
}
