package service

import (
	"encoding/base64"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
)

func TestSessionCipher_Encrypt(t *testing.T) {
	t.Run("Success_EnvelopeFields", func(t *testing.T) {
		s := NewSessionCipher(true, cryptoDomain.AESGCM, NewAEADManager())

		env, err := s.Encrypt([]byte("hello"))
		require.NoError(t, err)

		key, err := base64.StdEncoding.DecodeString(env.SessionKey)
		require.NoError(t, err)
		assert.Len(t, key, cryptoDomain.KeySize)

		iv, err := base64.StdEncoding.DecodeString(env.IV)
		require.NoError(t, err)
		assert.Len(t, iv, 12)

		payload, err := base64.StdEncoding.DecodeString(env.EncryptedPayload)
		require.NoError(t, err)
		assert.Len(t, payload, len("hello")+16)
	})

	t.Run("Success_KeyStableIVFresh", func(t *testing.T) {
		s := NewSessionCipher(true, cryptoDomain.AESGCM, NewAEADManager())

		first, err := s.Encrypt([]byte("a"))
		require.NoError(t, err)
		second, err := s.Encrypt([]byte("a"))
		require.NoError(t, err)

		assert.Equal(t, first.SessionKey, second.SessionKey)
		assert.NotEqual(t, first.IV, second.IV)
	})

	t.Run("Success_ConcurrentFirstUseSharesKey", func(t *testing.T) {
		s := NewSessionCipher(true, cryptoDomain.ChaCha20, NewAEADManager())

		keys := make([]string, 20)
		var wg sync.WaitGroup
		for i := range keys {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				env, err := s.Encrypt([]byte("x"))
				if assert.NoError(t, err) {
					keys[i] = env.SessionKey
				}
			}(i)
		}
		wg.Wait()

		for _, k := range keys {
			assert.Equal(t, keys[0], k)
		}
	})

	t.Run("Error_Disabled", func(t *testing.T) {
		s := NewSessionCipher(false, cryptoDomain.AESGCM, NewAEADManager())

		_, err := s.Encrypt([]byte("a"))
		assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionDisabled)

		_, err = s.Decrypt("aGVsbG8=", "aXY=")
		assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionDisabled)
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		s := NewSessionCipher(true, cryptoDomain.Algorithm("des"), NewAEADManager())

		_, err := s.Encrypt([]byte("a"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestSessionCipher_Decrypt(t *testing.T) {
	manager := NewAEADManager()
	envelopes := NewEnvelopeService(manager)

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run("Success_ServerRoundTrip_"+string(alg), func(t *testing.T) {
			s := NewSessionCipher(true, alg, manager)

			env, err := s.Encrypt([]byte(`{"token":"tok"}`))
			require.NoError(t, err)

			request, key, err := envelopes.OpenRequest(alg, env)
			require.NoError(t, err)
			assert.Equal(t, `{"token":"tok"}`, string(request))

			itp, itv, err := envelopes.SealResponse(alg, key, []byte(`{"value":"v"}`))
			require.NoError(t, err)

			response, err := s.Decrypt(itp, itv)
			require.NoError(t, err)
			assert.Equal(t, `{"value":"v"}`, string(response))
		})
	}

	t.Run("Error_ForeignKey", func(t *testing.T) {
		s := NewSessionCipher(true, cryptoDomain.AESGCM, manager)
		other, err := cryptoDomain.GenerateKey()
		require.NoError(t, err)

		itp, itv, err := envelopes.SealResponse(cryptoDomain.AESGCM, other, []byte("x"))
		require.NoError(t, err)

		_, err = s.Decrypt(itp, itv)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error_MalformedBase64", func(t *testing.T) {
		s := NewSessionCipher(true, cryptoDomain.AESGCM, manager)

		_, err := s.Decrypt("not base64!", "AAAAAAAAAAAAAAAA")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidEnvelope)

		_, err = s.Decrypt("aGVsbG8=", "")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidEnvelope)
	})
}

func TestEnvelopeService_OpenRequest(t *testing.T) {
	envelopes := NewEnvelopeService(NewAEADManager())

	t.Run("Error_AlgorithmMismatch", func(t *testing.T) {
		s := NewSessionCipher(true, cryptoDomain.AESGCM, NewAEADManager())
		env, err := s.Encrypt([]byte("x"))
		require.NoError(t, err)

		_, _, err = envelopes.OpenRequest(cryptoDomain.ChaCha20, env)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error_InvalidEnvelope", func(t *testing.T) {
		_, _, err := envelopes.OpenRequest(cryptoDomain.AESGCM, &cryptoDomain.Envelope{})
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidEnvelope)
	})
}
