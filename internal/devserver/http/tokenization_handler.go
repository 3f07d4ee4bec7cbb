package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
	cryptoService "github.com/allisson/tokenizer/internal/crypto/service"
	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	devUseCase "github.com/allisson/tokenizer/internal/devserver/usecase"
	"github.com/allisson/tokenizer/internal/httputil"
	"github.com/allisson/tokenizer/internal/remote"
	"github.com/allisson/tokenizer/internal/remote/dto"
	customValidation "github.com/allisson/tokenizer/internal/validation"
)

// validatable is a request body that can check itself.
type validatable interface {
	Validate() error
}

// exchange carries what is needed to answer a request in the form it arrived in.
type exchange struct {
	encrypted bool
	algorithm cryptoDomain.Algorithm
	key       []byte
}

func (e *exchange) release() {
	if e != nil {
		cryptoDomain.Zero(e.key)
	}
}

// TokenizationHandler handles the tokenize and detokenize endpoints in both
// their plain and encrypted variants.
type TokenizationHandler struct {
	tokenizationUseCase devUseCase.TokenizationUseCase
	envelope            *cryptoService.EnvelopeService
	rejectEncryption    bool
	logger              *slog.Logger
}

// NewTokenizationHandler creates a new tokenization handler. With rejectEncryption
// set every encrypted request answers 419.
func NewTokenizationHandler(
	tokenizationUseCase devUseCase.TokenizationUseCase,
	envelope *cryptoService.EnvelopeService,
	rejectEncryption bool,
	logger *slog.Logger,
) *TokenizationHandler {
	return &TokenizationHandler{
		tokenizationUseCase: tokenizationUseCase,
		envelope:            envelope,
		rejectEncryption:    rejectEncryption,
		logger:              logger,
	}
}

// TokenizeHandler returns the token for a single value.
// POST /v1/tokenize - Requires a bearer token.
func (h *TokenizationHandler) TokenizeHandler(c *gin.Context) {
	var req dto.TokenizeRequest
	ex, ok := h.readRequest(c, &req)
	if !ok {
		return
	}
	defer ex.release()

	output, err := h.tokenizationUseCase.Tokenize(c.Request.Context(), devDomain.TypedValue{
		Value:    req.Value,
		DataType: req.DataType,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.writeResponse(c, ex, dto.TokenizeResponse{
		Token:        output.Token,
		Exists:       output.Exists,
		NewlyCreated: output.NewlyCreated,
		DataType:     output.DataType,
	})
}

// DetokenizeHandler resolves a single token. Unknown tokens answer 200 with exists=false.
// POST /v1/detokenize - Requires a bearer token.
func (h *TokenizationHandler) DetokenizeHandler(c *gin.Context) {
	var req dto.DetokenizeRequest
	ex, ok := h.readRequest(c, &req)
	if !ok {
		return
	}
	defer ex.release()

	output, err := h.tokenizationUseCase.Detokenize(c.Request.Context(), req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.DetokenizeResponse{Exists: output.Exists, DataType: output.DataType}
	if output.Exists {
		value := output.Value
		response.Value = &value
	}
	h.writeResponse(c, ex, response)
}

// BatchTokenizeHandler tokenizes up to 1000 values.
// POST /v1/tokenize/batch - Requires a bearer token.
func (h *TokenizationHandler) BatchTokenizeHandler(c *gin.Context) {
	var req dto.BatchTokenizeRequest
	ex, ok := h.readRequest(c, &req)
	if !ok {
		return
	}
	defer ex.release()

	inputs := make([]devDomain.TypedValue, len(req.Values))
	for i, v := range req.Values {
		inputs[i] = devDomain.TypedValue{Value: v.Value, DataType: v.DataType}
	}

	outputs, err := h.tokenizationUseCase.BatchTokenize(c.Request.Context(), inputs)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.writeResponse(c, ex, mapBatchTokenizeResponse(outputs))
}

// BatchDetokenizeHandler resolves up to 10000 tokens.
// POST /v1/detokenize/batch - Requires a bearer token.
func (h *TokenizationHandler) BatchDetokenizeHandler(c *gin.Context) {
	var req dto.BatchDetokenizeRequest
	ex, ok := h.readRequest(c, &req)
	if !ok {
		return
	}
	defer ex.release()

	outputs, err := h.tokenizationUseCase.BatchDetokenize(c.Request.Context(), req.Tokens)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.writeResponse(c, ex, mapBatchDetokenizeResponse(outputs))
}

// readRequest binds and validates the body into req, opening the envelope first
// when the request is flagged as encrypted. It writes the error response itself
// and returns false on failure.
func (h *TokenizationHandler) readRequest(c *gin.Context, req validatable) (*exchange, bool) {
	ex := &exchange{}

	if !strings.EqualFold(c.GetHeader(remote.HeaderEncrypted), "true") {
		if err := c.ShouldBindJSON(req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return nil, false
		}
	} else {
		plaintext, ok := h.openEnvelope(c, ex)
		if !ok {
			return nil, false
		}
		err := json.Unmarshal(plaintext, req)
		cryptoDomain.Zero(plaintext)
		if err != nil {
			ex.release()
			httputil.HandleBadRequestGin(c, err, h.logger)
			return nil, false
		}
	}

	if err := req.Validate(); err != nil {
		ex.release()
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}
	return ex, true
}

func (h *TokenizationHandler) openEnvelope(c *gin.Context, ex *exchange) ([]byte, bool) {
	if h.rejectEncryption {
		h.decryptionFailed(c, "encrypted requests are disabled")
		return nil, false
	}

	var env dto.EncryptedRequest
	if err := c.ShouldBindJSON(&env); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return nil, false
	}
	if err := env.Validate(); err != nil {
		h.decryptionFailed(c, "invalid envelope")
		return nil, false
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.GetHeader(remote.HeaderEncryptionAlgorithm))
	if err != nil {
		h.decryptionFailed(c, "unsupported algorithm")
		return nil, false
	}

	plaintext, key, err := h.envelope.OpenRequest(algorithm, &cryptoDomain.Envelope{
		EncryptedPayload: env.EncryptedPayload,
		SessionKey:       env.SessionKey,
		IV:               env.IV,
	})
	if err != nil {
		h.decryptionFailed(c, "envelope could not be opened")
		return nil, false
	}

	ex.encrypted = true
	ex.algorithm = algorithm
	ex.key = key
	return plaintext, true
}

func (h *TokenizationHandler) decryptionFailed(c *gin.Context, reason string) {
	httputil.HandleDecryptionFailedGin(c, reason, h.logger)
}

func (h *TokenizationHandler) writeResponse(c *gin.Context, ex *exchange, payload any) {
	if !ex.encrypted {
		c.JSON(http.StatusOK, payload)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(body)

	itp, itv, err := h.envelope.SealResponse(ex.algorithm, ex.key, body)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.EncryptedResponse{ITP: itp, ITV: itv})
}

func mapBatchTokenizeResponse(outputs []*devDomain.TokenizeOutput) dto.BatchTokenizeResponse {
	response := dto.BatchTokenizeResponse{
		Results: make([]dto.BatchTokenizeResult, 0, len(outputs)),
		Summary: dto.BatchTokenizeSummary{ProcessedCount: len(outputs)},
	}
	for _, o := range outputs {
		response.Results = append(response.Results, dto.BatchTokenizeResult{
			Value:        o.Value,
			Token:        o.Token,
			Exists:       o.Exists,
			NewlyCreated: o.NewlyCreated,
			DataType:     o.DataType,
		})
		if o.Exists {
			response.Summary.ExistingCount++
		}
		if o.NewlyCreated {
			response.Summary.NewlyCreatedCount++
		}
	}
	return response
}

func mapBatchDetokenizeResponse(outputs []*devDomain.DetokenizeOutput) dto.BatchDetokenizeResponse {
	response := dto.BatchDetokenizeResponse{
		Results: make([]dto.BatchDetokenizeResult, 0, len(outputs)),
		Summary: dto.BatchDetokenizeSummary{ProcessedCount: len(outputs)},
	}
	for _, o := range outputs {
		result := dto.BatchDetokenizeResult{Token: o.Token, Exists: o.Exists, DataType: o.DataType}
		if o.Exists {
			value := o.Value
			result.Value = &value
			response.Summary.FoundCount++
		} else {
			response.Summary.NotFoundCount++
		}
		response.Results = append(response.Results, result)
	}
	return response
}
