package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	usecaseMocks "github.com/allisson/tokenizer/internal/devserver/usecase/mocks"
)

func newAuthRouter(authUseCase *usecaseMocks.MockAuthUseCase) *gin.Engine {
	router := gin.New()
	router.Use(AuthenticationMiddleware(authUseCase, newTestLogger()))
	router.POST("/protected", func(c *gin.Context) {
		client, ok := GetClient(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"client_id": client.ID})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_ValidToken", func(t *testing.T) {
		authUseCase := &usecaseMocks.MockAuthUseCase{}
		authUseCase.On("Authenticate", mock.Anything, "good-token").
			Return(&devDomain.Client{ID: "app"}, nil).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", "bearer good-token")
		newAuthRouter(authUseCase).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"client_id":"app"}`, w.Body.String())
		authUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		authUseCase := &usecaseMocks.MockAuthUseCase{}
		authUseCase.On("Authenticate", mock.Anything, "expired").
			Return(nil, devDomain.ErrInvalidAccessToken).
			Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", "Bearer expired")
		newAuthRouter(authUseCase).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authUseCase.AssertExpectations(t)
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "Error_MissingHeader", header: ""},
		{name: "Error_WrongScheme", header: "Basic abc"},
		{name: "Error_EmptyToken", header: "Bearer   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authUseCase := &usecaseMocks.MockAuthUseCase{}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newAuthRouter(authUseCase).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			authUseCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
		})
	}
}
