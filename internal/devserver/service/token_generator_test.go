package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
)

func TestNewTokenGenerator(t *testing.T) {
	tests := []struct {
		name       string
		formatType devDomain.FormatType
		length     int
		wantLen    int
	}{
		{name: "Success_UUID", formatType: devDomain.FormatUUID, length: 0, wantLen: 36},
		{name: "Success_Numeric", formatType: devDomain.FormatNumeric, length: 12, wantLen: 12},
		{name: "Success_Alphanumeric", formatType: devDomain.FormatAlphanumeric, length: 24, wantLen: 24},
		{name: "Success_LuhnPreserving", formatType: devDomain.FormatLuhnPreserving, length: 16, wantLen: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewTokenGenerator(tt.formatType)
			require.NoError(t, err)

			token, err := gen.Generate(tt.length)
			require.NoError(t, err)
			assert.Len(t, token, tt.wantLen)
			assert.NoError(t, gen.Validate(token))
		})
	}

	t.Run("Error_InvalidFormatType", func(t *testing.T) {
		gen, err := NewTokenGenerator("hex")
		assert.Nil(t, gen)
		assert.ErrorIs(t, err, devDomain.ErrInvalidFormatType)
	})
}

func TestTokenGenerator_LengthBounds(t *testing.T) {
	tests := []struct {
		name       string
		formatType devDomain.FormatType
		length     int
	}{
		{"Error_NumericZero", devDomain.FormatNumeric, 0},
		{"Error_NumericTooLarge", devDomain.FormatNumeric, MaxTokenLength + 1},
		{"Error_LuhnOne", devDomain.FormatLuhnPreserving, 1},
		{"Error_AlphanumericTooLarge", devDomain.FormatAlphanumeric, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewTokenGenerator(tt.formatType)
			require.NoError(t, err)

			_, err = gen.Generate(tt.length)
			assert.Error(t, err)
		})
	}
}

func TestLuhnGenerator_Validate(t *testing.T) {
	gen := luhnGenerator{}

	assert.NoError(t, gen.Validate("4111111111111111"))
	assert.NoError(t, gen.Validate("79927398713"))
	assert.Error(t, gen.Validate("4111111111111112"))
	assert.Error(t, gen.Validate("41111a1111111111"))
	assert.Error(t, gen.Validate("4"))
}

func TestCharsetGenerator_Validate(t *testing.T) {
	numeric := charsetGenerator{charset: digitChars, minLength: 1}

	assert.NoError(t, numeric.Validate("0123"))
	assert.Error(t, numeric.Validate(""))
	assert.Error(t, numeric.Validate("12a"))

	alnum := charsetGenerator{charset: alphanumericChars, minLength: 1}
	assert.NoError(t, alnum.Validate("abcXYZ09"))
	assert.Error(t, alnum.Validate("abc-def"))
}
