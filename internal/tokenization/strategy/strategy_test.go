package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authMocks "github.com/allisson/tokenizer/internal/auth/usecase/mocks"
	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
	cryptoService "github.com/allisson/tokenizer/internal/crypto/service"
	"github.com/allisson/tokenizer/internal/remote"
	"github.com/allisson/tokenizer/internal/remote/dto"
	"github.com/allisson/tokenizer/internal/retry"
)

// fakeServer echoes the tokenize request back as a token and counts request kinds.
type fakeServer struct {
	rejectEncrypted bool
	garbleResponse  bool
	encrypted       atomic.Int32
	plain           atomic.Int32
	envelopes       *cryptoService.EnvelopeService
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	if r.Header.Get(remote.HeaderEncrypted) != "true" {
		f.plain.Add(1)
		var req dto.TokenizeRequest
		_ = json.Unmarshal(body, &req)
		_ = json.NewEncoder(w).Encode(dto.TokenizeResponse{Token: "tok_" + req.Value, NewlyCreated: true})
		return
	}

	f.encrypted.Add(1)
	if f.rejectEncrypted {
		w.WriteHeader(remote.StatusDecryptionFailed)
		return
	}

	var envReq dto.EncryptedRequest
	_ = json.Unmarshal(body, &envReq)
	alg := cryptoDomain.Algorithm(r.Header.Get(remote.HeaderEncryptionAlgorithm))
	plaintext, key, err := f.envelopes.OpenRequest(alg, &cryptoDomain.Envelope{
		EncryptedPayload: envReq.EncryptedPayload,
		SessionKey:       envReq.SessionKey,
		IV:               envReq.IV,
	})
	if err != nil {
		w.WriteHeader(remote.StatusDecryptionFailed)
		return
	}

	var req dto.TokenizeRequest
	_ = json.Unmarshal(plaintext, &req)
	respBody, _ := json.Marshal(dto.TokenizeResponse{Token: "enc_" + req.Value, NewlyCreated: true})

	if f.garbleResponse {
		other, _ := cryptoDomain.GenerateKey()
		key = other
	}
	itp, itv, _ := f.envelopes.SealResponse(alg, key, respBody)
	_ = json.NewEncoder(w).Encode(dto.EncryptedResponse{ITP: itp, ITV: itv})
}

type fixture struct {
	server    *fakeServer
	plain     *PlainStrategy
	encrypted *EncryptedStrategy
	state     *EncryptionState
}

func newFixture(t *testing.T, server *fakeServer, cipher Cipher) *fixture {
	t.Helper()
	manager := cryptoService.NewAEADManager()
	server.envelopes = cryptoService.NewEnvelopeService(manager)
	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	creds := &authMocks.MockCredentialUseCase{}
	creds.On("GetAccessToken", mock.Anything).Return("tok", nil)

	executor := retry.NewExecutor(retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}, creds, logger)
	transport := remote.NewClient(httpServer.URL, httpServer.Client(), nil, logger)

	if cipher == nil {
		cipher = cryptoService.NewSessionCipher(true, cryptoDomain.AESGCM, manager)
	}
	state := NewEncryptionState()
	plain := NewPlainStrategy(transport, executor, logger)
	return &fixture{
		server:    server,
		plain:     plain,
		encrypted: NewEncryptedStrategy(plain, cipher, state, transport, executor, logger),
		state:     state,
	}
}

func decodeToken(t *testing.T, body []byte) string {
	t.Helper()
	var resp dto.TokenizeResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Token
}

// failingCipher fails the first n encryptions.
type failingCipher struct {
	*cryptoService.SessionCipher
	failures atomic.Int32
}

func (c *failingCipher) Encrypt(plaintext []byte) (*cryptoDomain.Envelope, error) {
	if c.failures.Add(-1) >= 0 {
		return nil, errors.New("entropy unavailable")
	}
	return c.SessionCipher.Encrypt(plaintext)
}

func TestPlainStrategy_Execute(t *testing.T) {
	f := newFixture(t, &fakeServer{}, nil)

	body, err := f.plain.Execute(context.Background(), remote.OpTokenize, dto.TokenizeRequest{Value: "a", DataType: "string"})

	require.NoError(t, err)
	assert.Equal(t, "tok_a", decodeToken(t, body))
	assert.Equal(t, int32(1), f.server.plain.Load())
	assert.Equal(t, int32(0), f.server.encrypted.Load())
}

func TestEncryptedStrategy_Execute(t *testing.T) {
	ctx := context.Background()
	request := dto.TokenizeRequest{Value: "a", DataType: "string"}

	t.Run("Success_Encrypted", func(t *testing.T) {
		f := newFixture(t, &fakeServer{}, nil)

		body, err := f.encrypted.Execute(ctx, remote.OpTokenize, request)

		require.NoError(t, err)
		assert.Equal(t, "enc_a", decodeToken(t, body))
		assert.Equal(t, int32(1), f.server.encrypted.Load())
		assert.Equal(t, int32(0), f.server.plain.Load())
	})

	t.Run("Success_ChaCha20", func(t *testing.T) {
		cipher := cryptoService.NewSessionCipher(true, cryptoDomain.ChaCha20, cryptoService.NewAEADManager())
		f := newFixture(t, &fakeServer{}, cipher)

		body, err := f.encrypted.Execute(ctx, remote.OpTokenize, request)

		require.NoError(t, err)
		assert.Equal(t, "enc_a", decodeToken(t, body))
	})

	t.Run("Success_419FallbackIsPermanent", func(t *testing.T) {
		f := newFixture(t, &fakeServer{rejectEncrypted: true}, nil)

		body, err := f.encrypted.Execute(ctx, remote.OpTokenize, request)
		require.NoError(t, err)
		assert.Equal(t, "tok_a", decodeToken(t, body))
		assert.True(t, f.state.Disabled())

		for i := 0; i < 5; i++ {
			_, err := f.encrypted.Execute(ctx, remote.OpTokenize, request)
			require.NoError(t, err)
		}

		assert.Equal(t, int32(1), f.server.encrypted.Load())
		assert.Equal(t, int32(6), f.server.plain.Load())
	})

	t.Run("Success_ConfigDisabledUsesPlain", func(t *testing.T) {
		cipher := cryptoService.NewSessionCipher(false, cryptoDomain.AESGCM, cryptoService.NewAEADManager())
		f := newFixture(t, &fakeServer{}, cipher)

		body, err := f.encrypted.Execute(ctx, remote.OpTokenize, request)

		require.NoError(t, err)
		assert.Equal(t, "tok_a", decodeToken(t, body))
		assert.Equal(t, int32(0), f.server.encrypted.Load())
		assert.False(t, f.state.Disabled())
	})

	t.Run("Success_EncryptionFailureFallsBackOnce", func(t *testing.T) {
		cipher := &failingCipher{
			SessionCipher: cryptoService.NewSessionCipher(true, cryptoDomain.AESGCM, cryptoService.NewAEADManager()),
		}
		cipher.failures.Store(1)
		f := newFixture(t, &fakeServer{}, cipher)

		body, err := f.encrypted.Execute(ctx, remote.OpTokenize, request)
		require.NoError(t, err)
		assert.Equal(t, "tok_a", decodeToken(t, body))

		body, err = f.encrypted.Execute(ctx, remote.OpTokenize, request)
		require.NoError(t, err)
		assert.Equal(t, "enc_a", decodeToken(t, body))
		assert.False(t, f.state.Disabled())
	})

	t.Run("Error_UndecryptableResponse", func(t *testing.T) {
		f := newFixture(t, &fakeServer{garbleResponse: true}, nil)

		_, err := f.encrypted.Execute(ctx, remote.OpTokenize, request)

		assert.ErrorIs(t, err, remote.ErrMalformedResponse)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Equal(t, int32(1), f.server.encrypted.Load())
		assert.Equal(t, int32(0), f.server.plain.Load())
		assert.False(t, f.state.Disabled())
	})
}

func TestEncryptionState(t *testing.T) {
	s := NewEncryptionState()
	assert.False(t, s.Disabled())
	assert.True(t, s.Disable())
	assert.False(t, s.Disable())
	assert.True(t, s.Disabled())
}
