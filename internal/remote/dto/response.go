package dto

// TokenizeResponse is the result of a single tokenize call.
type TokenizeResponse struct {
	Token        string `json:"token"`
	Exists       bool   `json:"exists"`
	NewlyCreated bool   `json:"newlyCreated"`
	DataType     string `json:"dataType"`
}

// DetokenizeResponse is the result of a single detokenize call.
// Value is null when the token is unknown.
type DetokenizeResponse struct {
	Value    *string `json:"value"`
	Exists   bool    `json:"exists"`
	DataType string  `json:"dataType,omitempty"`
}

// BatchTokenizeResult is a single entry of a batch tokenize response.
type BatchTokenizeResult struct {
	Value        string `json:"value"`
	Token        string `json:"token"`
	Exists       bool   `json:"exists"`
	NewlyCreated bool   `json:"newlyCreated"`
	DataType     string `json:"dataType"`
}

// BatchTokenizeSummary counts the outcomes of a batch tokenize call.
type BatchTokenizeSummary struct {
	ProcessedCount    int `json:"processedCount"`
	ExistingCount     int `json:"existingCount"`
	NewlyCreatedCount int `json:"newlyCreatedCount"`
}

// BatchTokenizeResponse is the result of a batch tokenize call.
type BatchTokenizeResponse struct {
	Results []BatchTokenizeResult `json:"results"`
	Summary BatchTokenizeSummary  `json:"summary"`
}

// BatchDetokenizeResult is a single entry of a batch detokenize response.
type BatchDetokenizeResult struct {
	Token    string  `json:"token"`
	Value    *string `json:"value"`
	Exists   bool    `json:"exists"`
	DataType string  `json:"dataType,omitempty"`
}

// BatchDetokenizeSummary counts the outcomes of a batch detokenize call.
type BatchDetokenizeSummary struct {
	ProcessedCount int `json:"processedCount"`
	FoundCount     int `json:"foundCount"`
	NotFoundCount  int `json:"notFoundCount"`
}

// BatchDetokenizeResponse is the result of a batch detokenize call.
type BatchDetokenizeResponse struct {
	Results []BatchDetokenizeResult `json:"results"`
	Summary BatchDetokenizeSummary  `json:"summary"`
}

// EncryptedResponse is the response body of the encrypted variant of every operation.
type EncryptedResponse struct {
	ITP string `json:"itp"`
	ITV string `json:"itv"`
}

// TokenResponse is the auth API response to a client-credentials grant.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope,omitempty"`
}
