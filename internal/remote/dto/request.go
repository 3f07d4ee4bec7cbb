// Package dto defines the wire format of the remote tokenization and authentication APIs.
// The SDK encodes requests and decodes responses with these types; the dev server does the reverse.
package dto

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/tokenizer/internal/crypto/domain"
	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
	customValidation "github.com/allisson/tokenizer/internal/validation"
	"github.com/allisson/tokenizer/pkg/converter"
)

// TokenizeRequest contains the value to tokenize.
type TokenizeRequest struct {
	Value    string `json:"value"`
	DataType string `json:"dataType"`
}

// Validate checks if the tokenize request is valid.
func (r *TokenizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value, validation.Required),
		validation.Field(&r.DataType, validation.Required, validation.By(validateDataType)),
	)
}

// DetokenizeRequest contains the token to resolve.
type DetokenizeRequest struct {
	Token string `json:"token"`
}

// Validate checks if the detokenize request is valid.
func (r *DetokenizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required, customValidation.NotBlank),
	)
}

// BatchValue is a single entry of a batch tokenize request.
type BatchValue struct {
	Value    string `json:"value"`
	DataType string `json:"dataType"`
}

// Validate checks if the batch entry is valid.
func (v BatchValue) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Value, validation.Required),
		validation.Field(&v.DataType, validation.Required, validation.By(validateDataType)),
	)
}

// BatchTokenizeRequest contains the values to tokenize in one call.
type BatchTokenizeRequest struct {
	Values []BatchValue `json:"values"`
}

// Validate checks if the batch tokenize request is valid.
func (r *BatchTokenizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Values,
			validation.Required,
			validation.Length(1, tokenizationDomain.MaxTokenizeBatchSize),
		),
	)
}

// BatchDetokenizeRequest contains the tokens to resolve in one call.
type BatchDetokenizeRequest struct {
	Tokens []string `json:"tokens"`
}

// Validate checks if the batch detokenize request is valid.
func (r *BatchDetokenizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Tokens,
			validation.Required,
			validation.Length(1, tokenizationDomain.MaxDetokenizeBatchSize),
			customValidation.EachNotBlank,
		),
	)
}

// EncryptedRequest is the request body of the encrypted variant of every operation.
type EncryptedRequest struct {
	EncryptedPayload string `json:"encryptedPayload"`
	SessionKey       string `json:"sessionKey"`
	IV               string `json:"iv"`
}

// Validate checks if the envelope fields are present and base64-encoded, with a
// session key of KeySize bytes.
func (r *EncryptedRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EncryptedPayload, validation.Required, customValidation.Base64),
		validation.Field(&r.SessionKey, validation.Required, customValidation.Base64Length(cryptoDomain.KeySize)),
		validation.Field(&r.IV, validation.Required, customValidation.Base64),
	)
}

// TokenRequest is the client-credentials grant sent as a form to the auth API.
type TokenRequest struct {
	GrantType    string `form:"grant_type"`
	ClientID     string `form:"client_id"`
	ClientSecret string `form:"client_secret"`
}

// Validate checks if the token request is valid.
func (r *TokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GrantType, validation.Required, validation.In(GrantTypeClientCredentials)),
		validation.Field(&r.ClientID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.ClientSecret, validation.Required, customValidation.NotBlank),
	)
}

// GrantTypeClientCredentials is the only grant type the auth API supports.
const GrantTypeClientCredentials = "client_credentials"

func validateDataType(value any) error {
	s, _ := value.(string)
	return converter.DataType(s).Validate()
}
