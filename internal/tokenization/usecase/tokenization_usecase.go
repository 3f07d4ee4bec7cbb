package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/allisson/tokenizer/internal/remote"
	"github.com/allisson/tokenizer/internal/remote/dto"
	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
	"github.com/allisson/tokenizer/internal/tokenization/strategy"
	"github.com/allisson/tokenizer/pkg/converter"
)

// tokenizationUseCase implements TokenizationUseCase.
type tokenizationUseCase struct {
	cache     TokenCache
	plain     strategy.Strategy
	encrypted strategy.Strategy
	logger    *slog.Logger
}

// NewTokenizationUseCase creates the operation engine. Inputs with Encrypted set
// go through encrypted, the others through plain.
func NewTokenizationUseCase(
	cache TokenCache,
	plain strategy.Strategy,
	encrypted strategy.Strategy,
	logger *slog.Logger,
) TokenizationUseCase {
	return &tokenizationUseCase{
		cache:     cache,
		plain:     plain,
		encrypted: encrypted,
		logger:    logger,
	}
}

func (t *tokenizationUseCase) strategyFor(encrypted bool) strategy.Strategy {
	if encrypted {
		return t.encrypted
	}
	return t.plain
}

// fail logs err and wraps it as an OperationError.
func (t *tokenizationUseCase) fail(op string, err error) error {
	t.logger.Error("tokenization operation failed",
		slog.String("operation", op),
		slog.Any("error", err),
	)
	return tokenizationDomain.NewOperationError(op, err)
}

// recoverPanic converts a panic in op into an OperationError on errp.
func (t *tokenizationUseCase) recoverPanic(op string, errp *error) {
	if r := recover(); r != nil {
		*errp = t.fail(op, fmt.Errorf("%w: %v", tokenizationDomain.ErrPanic, r))
	}
}

// Tokenize returns the token for a single value.
func (t *tokenizationUseCase) Tokenize(
	ctx context.Context,
	input *tokenizationDomain.TokenizeInput,
) (result *tokenizationDomain.TokenizeResult, err error) {
	defer t.recoverPanic(tokenizationDomain.OpTokenize, &err)

	if err := input.Validate(); err != nil {
		return nil, t.fail(tokenizationDomain.OpTokenize, err)
	}

	p := t.tokenizePipeline(t.fetchTokenize(input.Encrypted))
	out, err := p.run(ctx, []tokenizationDomain.TypedValue{{Value: input.Value, DataType: input.DataType}})
	if err != nil {
		return nil, t.fail(tokenizationDomain.OpTokenize, err)
	}
	return &out.Results[0], nil
}

// Detokenize returns the value for a single token.
func (t *tokenizationUseCase) Detokenize(
	ctx context.Context,
	input *tokenizationDomain.DetokenizeInput,
) (result *tokenizationDomain.DetokenizeResult, err error) {
	defer t.recoverPanic(tokenizationDomain.OpDetokenize, &err)

	if err := input.Validate(); err != nil {
		return nil, t.fail(tokenizationDomain.OpDetokenize, err)
	}

	p := t.detokenizePipeline(t.fetchDetokenize(input.Encrypted))
	out, err := p.run(ctx, []string{input.Token})
	if err != nil {
		return nil, t.fail(tokenizationDomain.OpDetokenize, err)
	}
	return &out.Results[0], nil
}

// BatchTokenize tokenizes a batch of values.
func (t *tokenizationUseCase) BatchTokenize(
	ctx context.Context,
	input *tokenizationDomain.BatchTokenizeInput,
) (result *TokenizeBatchResult, err error) {
	defer t.recoverPanic(tokenizationDomain.OpBatchTokenize, &err)

	if err := input.Validate(); err != nil {
		return nil, t.fail(tokenizationDomain.OpBatchTokenize, err)
	}

	p := t.tokenizePipeline(t.fetchBatchTokenize(input.Encrypted))
	out, err := p.run(ctx, input.Values)
	if err != nil {
		return nil, t.fail(tokenizationDomain.OpBatchTokenize, err)
	}
	return out, nil
}

// BatchDetokenize detokenizes a batch of tokens.
func (t *tokenizationUseCase) BatchDetokenize(
	ctx context.Context,
	input *tokenizationDomain.BatchDetokenizeInput,
) (result *DetokenizeBatchResult, err error) {
	defer t.recoverPanic(tokenizationDomain.OpBatchDetokenize, &err)

	if err := input.Validate(); err != nil {
		return nil, t.fail(tokenizationDomain.OpBatchDetokenize, err)
	}

	p := t.detokenizePipeline(t.fetchBatchDetokenize(input.Encrypted))
	out, err := p.run(ctx, input.Tokens)
	if err != nil {
		return nil, t.fail(tokenizationDomain.OpBatchDetokenize, err)
	}
	return out, nil
}

// ClearCache drops every cached mapping.
func (t *tokenizationUseCase) ClearCache(ctx context.Context) error {
	t.cache.Clear()
	t.logger.Debug("token cache cleared")
	return nil
}

func (t *tokenizationUseCase) tokenizePipeline(
	fetch func(context.Context, []tokenizationDomain.TypedValue) (map[tokenizationDomain.TypedValue]tokenizationDomain.TokenizeResult, error),
) *batchPipeline[tokenizationDomain.TypedValue, tokenizationDomain.TokenizeResult, tokenizationDomain.TokenizeSummary] {
	return &batchPipeline[tokenizationDomain.TypedValue, tokenizationDomain.TokenizeResult, tokenizationDomain.TokenizeSummary]{
		lookup: func(key tokenizationDomain.TypedValue) (tokenizationDomain.TokenizeResult, bool) {
			token, dataType, ok := t.cache.GetToken(key.Value)
			if !ok || dataType != key.DataType {
				return tokenizationDomain.TokenizeResult{}, false
			}
			return tokenizationDomain.TokenizeResult{
				Value:     key.Value,
				Token:     token,
				Exists:    true,
				DataType:  dataType,
				FromCache: true,
			}, true
		},
		fetch:     fetch,
		summarize: tokenizationDomain.SummarizeTokenize,
		store: func(item tokenizationDomain.TokenizeResult) {
			if item.Resolved() {
				t.cache.PutToken(item.Value, item.Token, item.DataType)
			}
		},
	}
}

func (t *tokenizationUseCase) detokenizePipeline(
	fetch func(context.Context, []string) (map[string]tokenizationDomain.DetokenizeResult, error),
) *batchPipeline[string, tokenizationDomain.DetokenizeResult, tokenizationDomain.DetokenizeSummary] {
	return &batchPipeline[string, tokenizationDomain.DetokenizeResult, tokenizationDomain.DetokenizeSummary]{
		lookup: func(token string) (tokenizationDomain.DetokenizeResult, bool) {
			value, dataType, ok := t.cache.GetValue(token)
			if !ok {
				return tokenizationDomain.DetokenizeResult{}, false
			}
			return tokenizationDomain.DetokenizeResult{
				Token:     token,
				Value:     value,
				Found:     true,
				DataType:  dataType,
				FromCache: true,
			}, true
		},
		fetch:     fetch,
		summarize: tokenizationDomain.SummarizeDetokenize,
		store: func(item tokenizationDomain.DetokenizeResult) {
			if item.Found {
				t.cache.PutValue(item.Token, item.Value, item.DataType)
			}
		},
	}
}

func (t *tokenizationUseCase) fetchTokenize(
	encrypted bool,
) func(context.Context, []tokenizationDomain.TypedValue) (map[tokenizationDomain.TypedValue]tokenizationDomain.TokenizeResult, error) {
	return func(
		ctx context.Context,
		keys []tokenizationDomain.TypedValue,
	) (map[tokenizationDomain.TypedValue]tokenizationDomain.TokenizeResult, error) {
		key := keys[0]
		var resp dto.TokenizeResponse
		request := dto.TokenizeRequest{Value: key.Value, DataType: key.DataType.String()}
		if err := t.call(ctx, encrypted, remote.OpTokenize, request, &resp); err != nil {
			return nil, err
		}
		return map[tokenizationDomain.TypedValue]tokenizationDomain.TokenizeResult{
			key: {
				Value:        key.Value,
				Token:        resp.Token,
				Exists:       resp.Exists,
				NewlyCreated: resp.NewlyCreated,
				DataType:     dataTypeOr(resp.DataType, key.DataType),
			},
		}, nil
	}
}

func (t *tokenizationUseCase) fetchBatchTokenize(
	encrypted bool,
) func(context.Context, []tokenizationDomain.TypedValue) (map[tokenizationDomain.TypedValue]tokenizationDomain.TokenizeResult, error) {
	return func(
		ctx context.Context,
		keys []tokenizationDomain.TypedValue,
	) (map[tokenizationDomain.TypedValue]tokenizationDomain.TokenizeResult, error) {
		request := dto.BatchTokenizeRequest{Values: make([]dto.BatchValue, len(keys))}
		for i, key := range keys {
			request.Values[i] = dto.BatchValue{Value: key.Value, DataType: key.DataType.String()}
		}

		var resp dto.BatchTokenizeResponse
		if err := t.call(ctx, encrypted, remote.OpBatchTokenize, request, &resp); err != nil {
			return nil, err
		}

		exact := make(map[tokenizationDomain.TypedValue]dto.BatchTokenizeResult, len(resp.Results))
		byValue := make(map[string]dto.BatchTokenizeResult, len(resp.Results))
		for _, r := range resp.Results {
			exact[tokenizationDomain.TypedValue{Value: r.Value, DataType: converter.DataType(r.DataType)}] = r
			byValue[r.Value] = r
		}

		fetched := make(map[tokenizationDomain.TypedValue]tokenizationDomain.TokenizeResult, len(keys))
		for _, key := range keys {
			r, ok := exact[key]
			if !ok {
				if r, ok = byValue[key.Value]; !ok {
					continue
				}
			}
			fetched[key] = tokenizationDomain.TokenizeResult{
				Value:        key.Value,
				Token:        r.Token,
				Exists:       r.Exists,
				NewlyCreated: r.NewlyCreated,
				DataType:     dataTypeOr(r.DataType, key.DataType),
			}
		}
		return fetched, nil
	}
}

func (t *tokenizationUseCase) fetchDetokenize(
	encrypted bool,
) func(context.Context, []string) (map[string]tokenizationDomain.DetokenizeResult, error) {
	return func(ctx context.Context, tokens []string) (map[string]tokenizationDomain.DetokenizeResult, error) {
		token := tokens[0]
		var resp dto.DetokenizeResponse
		if err := t.call(ctx, encrypted, remote.OpDetokenize, dto.DetokenizeRequest{Token: token}, &resp); err != nil {
			return nil, err
		}
		return map[string]tokenizationDomain.DetokenizeResult{
			token: detokenizeResult(token, resp.Value, resp.Exists, resp.DataType),
		}, nil
	}
}

func (t *tokenizationUseCase) fetchBatchDetokenize(
	encrypted bool,
) func(context.Context, []string) (map[string]tokenizationDomain.DetokenizeResult, error) {
	return func(ctx context.Context, tokens []string) (map[string]tokenizationDomain.DetokenizeResult, error) {
		var resp dto.BatchDetokenizeResponse
		request := dto.BatchDetokenizeRequest{Tokens: tokens}
		if err := t.call(ctx, encrypted, remote.OpBatchDetokenize, request, &resp); err != nil {
			return nil, err
		}

		fetched := make(map[string]tokenizationDomain.DetokenizeResult, len(resp.Results))
		for _, r := range resp.Results {
			fetched[r.Token] = detokenizeResult(r.Token, r.Value, r.Exists, r.DataType)
		}
		return fetched, nil
	}
}

// call executes op through the selected strategy and decodes the plaintext response into out.
func (t *tokenizationUseCase) call(ctx context.Context, encrypted bool, op remote.Operation, request, out any) error {
	body, err := t.strategyFor(encrypted).Execute(ctx, op, request)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return remote.MalformedResponse(err)
	}
	return nil
}

func detokenizeResult(token string, value *string, exists bool, dataType string) tokenizationDomain.DetokenizeResult {
	result := tokenizationDomain.DetokenizeResult{
		Token:    token,
		DataType: dataTypeOr(dataType, converter.String),
	}
	if exists && value != nil {
		result.Value = *value
		result.Found = true
	}
	return result
}

func dataTypeOr(s string, fallback converter.DataType) converter.DataType {
	if s == "" {
		return fallback
	}
	return converter.DataType(s)
}
