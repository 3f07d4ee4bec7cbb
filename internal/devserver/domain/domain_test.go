package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/tokenizer/internal/errors"
)

func TestFormatType_Validate(t *testing.T) {
	for _, f := range []FormatType{FormatUUID, FormatNumeric, FormatLuhnPreserving, FormatAlphanumeric} {
		assert.NoError(t, f.Validate(), string(f))
	}

	err := FormatType("hex").Validate()
	assert.ErrorIs(t, err, ErrInvalidFormatType)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestAccessToken_IsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	token := &AccessToken{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, token.IsExpired(now))
	assert.True(t, token.IsExpired(now.Add(time.Minute)))
	assert.True(t, token.IsExpired(now.Add(time.Hour)))
}
