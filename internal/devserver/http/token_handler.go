package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	devUseCase "github.com/allisson/tokenizer/internal/devserver/usecase"
	apperrors "github.com/allisson/tokenizer/internal/errors"
	"github.com/allisson/tokenizer/internal/httputil"
	"github.com/allisson/tokenizer/internal/remote/dto"
)

// oauthError is the RFC 6749 error body.
type oauthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// TokenHandler serves the OAuth client-credentials endpoint.
type TokenHandler struct {
	authUseCase devUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(authUseCase devUseCase.AuthUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// IssueTokenHandler issues a bearer token for a client-credentials grant.
// POST /oauth/token - form-encoded, no authentication.
// Returns 200 OK with the access token and its lifetime in seconds.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.TokenRequest

	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, oauthError{Error: "invalid_request", ErrorDescription: err.Error()})
		return
	}

	if req.GrantType != dto.GrantTypeClientCredentials {
		c.JSON(http.StatusBadRequest, oauthError{
			Error:            "unsupported_grant_type",
			ErrorDescription: devDomain.ErrUnsupportedGrantType.Error(),
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, oauthError{Error: "invalid_request", ErrorDescription: err.Error()})
		return
	}

	output, err := h.authUseCase.IssueToken(c.Request.Context(), &devDomain.IssueTokenInput{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnauthorized) {
			h.logger.Debug("token grant rejected", slog.String("client_id", req.ClientID))
			c.JSON(http.StatusUnauthorized, oauthError{Error: "invalid_client"})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: output.PlainToken,
		ExpiresIn:   output.ExpiresIn,
		TokenType:   "Bearer",
	})
}
