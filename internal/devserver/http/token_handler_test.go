package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	usecaseMocks "github.com/allisson/tokenizer/internal/devserver/usecase/mocks"
	"github.com/allisson/tokenizer/internal/remote/dto"
)

func postTokenForm(handler *TokenHandler, form url.Values) *httptest.ResponseRecorder {
	router := gin.New()
	router.POST("/oauth/token", handler.IssueTokenHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func validGrant() url.Values {
	return url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"app"},
		"client_secret": {"s3cret"},
	}
}

func TestTokenHandler_IssueTokenHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		authUseCase := &usecaseMocks.MockAuthUseCase{}
		authUseCase.On("IssueToken", mock.Anything, &devDomain.IssueTokenInput{ClientID: "app", ClientSecret: "s3cret"}).
			Return(&devDomain.IssueTokenOutput{PlainToken: "tok", ExpiresIn: 3600}, nil).
			Once()

		w := postTokenForm(NewTokenHandler(authUseCase, newTestLogger()), validGrant())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		var response dto.TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "tok", response.AccessToken)
		assert.Equal(t, int64(3600), response.ExpiresIn)
		assert.Equal(t, "Bearer", response.TokenType)
		authUseCase.AssertExpectations(t)
	})

	t.Run("Error_UnsupportedGrantType", func(t *testing.T) {
		authUseCase := &usecaseMocks.MockAuthUseCase{}
		form := validGrant()
		form.Set("grant_type", "password")

		w := postTokenForm(NewTokenHandler(authUseCase, newTestLogger()), form)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unsupported_grant_type")
		authUseCase.AssertNotCalled(t, "IssueToken", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingSecret", func(t *testing.T) {
		authUseCase := &usecaseMocks.MockAuthUseCase{}
		form := validGrant()
		form.Del("client_secret")

		w := postTokenForm(NewTokenHandler(authUseCase, newTestLogger()), form)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_request")
	})

	t.Run("Error_InvalidClient", func(t *testing.T) {
		authUseCase := &usecaseMocks.MockAuthUseCase{}
		authUseCase.On("IssueToken", mock.Anything, mock.Anything).
			Return(nil, devDomain.ErrInvalidClientCredentials).
			Once()

		w := postTokenForm(NewTokenHandler(authUseCase, newTestLogger()), validGrant())

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid_client"}`, w.Body.String())
	})

	t.Run("Error_Internal", func(t *testing.T) {
		authUseCase := &usecaseMocks.MockAuthUseCase{}
		authUseCase.On("IssueToken", mock.Anything, mock.Anything).
			Return(nil, errors.New("store down")).
			Once()

		w := postTokenForm(NewTokenHandler(authUseCase, newTestLogger()), validGrant())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
