// Package service provides the dev server's building blocks: token generators,
// at-rest value protection, client secret hashing and bearer token hashing.
package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
)

// MaxTokenLength bounds generated token length.
const MaxTokenLength = 255

const (
	digitChars        = "0123456789"
	alphanumericChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// TokenGenerator produces new tokens of a single format.
type TokenGenerator interface {
	Generate(length int) (string, error)
	Validate(token string) error
}

// NewTokenGenerator returns the generator for formatType.
func NewTokenGenerator(formatType devDomain.FormatType) (TokenGenerator, error) {
	switch formatType {
	case devDomain.FormatUUID:
		return uuidGenerator{}, nil
	case devDomain.FormatNumeric:
		return charsetGenerator{charset: digitChars, minLength: 1}, nil
	case devDomain.FormatAlphanumeric:
		return charsetGenerator{charset: alphanumericChars, minLength: 1}, nil
	case devDomain.FormatLuhnPreserving:
		return luhnGenerator{}, nil
	default:
		return nil, devDomain.ErrInvalidFormatType
	}
}

// uuidGenerator generates UUIDv7 tokens; length is ignored.
type uuidGenerator struct{}

func (uuidGenerator) Generate(int) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (uuidGenerator) Validate(token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return errors.New("invalid UUID format")
	}
	return nil
}

// charsetGenerator draws every character uniformly from charset.
type charsetGenerator struct {
	charset   string
	minLength int
}

func (g charsetGenerator) Generate(length int) (string, error) {
	if err := checkLength(length, g.minLength); err != nil {
		return "", err
	}
	return randomString(g.charset, length)
}

func (g charsetGenerator) Validate(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	for _, c := range token {
		if !containsRune(g.charset, c) {
			return fmt.Errorf("token contains invalid character %q", c)
		}
	}
	return nil
}

// luhnGenerator generates numeric tokens whose last digit is a Luhn check digit,
// so tokens of card numbers still pass card-format validation.
type luhnGenerator struct{}

func (luhnGenerator) Generate(length int) (string, error) {
	if err := checkLength(length, 2); err != nil {
		return "", err
	}
	body, err := randomString(digitChars, length-1)
	if err != nil {
		return "", err
	}
	return body + string(rune('0'+luhnCheckDigit(body))), nil
}

func (luhnGenerator) Validate(token string) error {
	if len(token) < 2 {
		return errors.New("token must be at least 2 digits")
	}
	for _, c := range token {
		if c < '0' || c > '9' {
			return errors.New("token must contain only numeric characters")
		}
	}
	if luhnCheckDigit(token[:len(token)-1]) != int(token[len(token)-1]-'0') {
		return errors.New("token failed Luhn validation")
	}
	return nil
}

// luhnCheckDigit computes the check digit to append to digits.
func luhnCheckDigit(digits string) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

func checkLength(length, minLength int) error {
	if length < minLength {
		return fmt.Errorf("length must be at least %d", minLength)
	}
	if length > MaxTokenLength {
		return fmt.Errorf("length must not exceed %d", MaxTokenLength)
	}
	return nil
}

func randomString(charset string, length int) (string, error) {
	limit := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
