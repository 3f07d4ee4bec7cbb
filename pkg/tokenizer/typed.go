package tokenizer

import (
	"context"
	"fmt"

	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
	"github.com/allisson/tokenizer/pkg/converter"
)

// TokenizeValue tokenizes a typed value and returns its token.
func TokenizeValue[T converter.Primitive](ctx context.Context, c *Client, value T, opts ...CallOption) (string, error) {
	conv := converter.For[T]()
	result, err := c.Tokenize(ctx, conv.ToString(value), conv.DataType(), opts...)
	if err != nil {
		return "", err
	}
	return result.Token, nil
}

// DetokenizeValue resolves token and converts the value to T. The boolean is
// false when the token is unknown.
func DetokenizeValue[T converter.Primitive](
	ctx context.Context,
	c *Client,
	token string,
	opts ...CallOption,
) (T, bool, error) {
	var zero T
	result, err := c.Detokenize(ctx, token, opts...)
	if err != nil {
		return zero, false, err
	}
	if !result.Found {
		return zero, false, nil
	}

	value, err := converter.For[T]().FromString(result.Value)
	if err != nil {
		return zero, false, tokenizationDomain.NewOperationError("detokenize", err)
	}
	return value, true, nil
}

// BatchTokenizeValues tokenizes typed values and returns the token of every
// value that resolved, keyed by value.
func BatchTokenizeValues[T converter.Primitive](
	ctx context.Context,
	c *Client,
	values []T,
	opts ...CallOption,
) (map[T]string, error) {
	conv := converter.For[T]()
	byWire := make(map[string]T, len(values))
	typed := make([]TypedValue, len(values))
	for i, v := range values {
		s := conv.ToString(v)
		byWire[s] = v
		typed[i] = TypedValue{Value: s, DataType: conv.DataType()}
	}

	result, err := c.BatchTokenize(ctx, typed, opts...)
	if err != nil {
		return nil, err
	}

	tokens := make(map[T]string, len(result.Results))
	for _, r := range result.Results {
		if !r.Resolved() {
			continue
		}
		v, ok := byWire[r.Value]
		if !ok {
			return nil, tokenizationDomain.NewOperationError(
				"batch_tokenize",
				fmt.Errorf("%w: unexpected value in response", tokenizationDomain.ErrMissingResult),
			)
		}
		tokens[v] = r.Token
	}
	return tokens, nil
}

// BatchDetokenizeValues resolves tokens and converts every found value to T,
// keyed by token. Unknown tokens are absent from the map.
func BatchDetokenizeValues[T converter.Primitive](
	ctx context.Context,
	c *Client,
	tokens []string,
	opts ...CallOption,
) (map[string]T, error) {
	result, err := c.BatchDetokenize(ctx, tokens, opts...)
	if err != nil {
		return nil, err
	}

	conv := converter.For[T]()
	values := make(map[string]T, len(result.Results))
	for i, r := range result.Results {
		if !r.Found {
			continue
		}
		v, err := conv.FromString(r.Value)
		if err != nil {
			return nil, tokenizationDomain.NewOperationError(
				"batch_detokenize",
				fmt.Errorf("results[%d]: %w", i, err),
			)
		}
		values[r.Token] = v
	}
	return values, nil
}
