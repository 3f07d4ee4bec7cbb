package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tokenizationDomain "github.com/allisson/tokenizer/internal/tokenization/domain"
	tokenizationUseCase "github.com/allisson/tokenizer/internal/tokenization/usecase"
	"github.com/allisson/tokenizer/pkg/converter"
)

// RunTokenize tokenizes a single value and writes the token.
// The value itself is never logged.
func RunTokenize(
	ctx context.Context,
	useCase tokenizationUseCase.TokenizationUseCase,
	logger *slog.Logger,
	writer io.Writer,
	value string,
	dataType string,
	encrypted bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result, err := useCase.Tokenize(ctx, &tokenizationDomain.TokenizeInput{
		Value:     value,
		DataType:  converter.DataType(dataType),
		Encrypted: encrypted,
	})
	if err != nil {
		return fmt.Errorf("failed to tokenize value: %w", err)
	}

	logger.Info("value tokenized",
		slog.String("data_type", dataType),
		slog.Bool("exists", result.Exists),
		slog.Bool("newly_created", result.NewlyCreated),
		slog.Bool("from_cache", result.FromCache),
	)

	if format == "json" {
		return writeJSON(writer, map[string]interface{}{
			"token":         result.Token,
			"data_type":     result.DataType,
			"exists":        result.Exists,
			"newly_created": result.NewlyCreated,
		})
	}

	_, err = fmt.Fprintf(writer, "Token: %s\nData type: %s\nExists: %t\nNewly created: %t\n",
		result.Token, result.DataType, result.Exists, result.NewlyCreated)
	return err
}

// RunDetokenize resolves a single token and writes its value.
func RunDetokenize(
	ctx context.Context,
	useCase tokenizationUseCase.TokenizationUseCase,
	logger *slog.Logger,
	writer io.Writer,
	token string,
	encrypted bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result, err := useCase.Detokenize(ctx, &tokenizationDomain.DetokenizeInput{
		Token:     token,
		Encrypted: encrypted,
	})
	if err != nil {
		return fmt.Errorf("failed to detokenize token: %w", err)
	}

	logger.Info("token detokenized",
		slog.Bool("found", result.Found),
		slog.Bool("from_cache", result.FromCache),
	)

	if format == "json" {
		output := map[string]interface{}{
			"token": result.Token,
			"found": result.Found,
			"value": nil,
		}
		if result.Found {
			output["value"] = result.Value
			output["data_type"] = result.DataType
		}
		return writeJSON(writer, output)
	}

	if !result.Found {
		_, err = fmt.Fprintf(writer, "Token %s not found\n", token)
		return err
	}
	_, err = fmt.Fprintf(writer, "Value: %s\nData type: %s\n", result.Value, result.DataType)
	return err
}

// RunBatchTokenize tokenizes every non-blank line read from io.Reader as a value of dataType.
func RunBatchTokenize(
	ctx context.Context,
	useCase tokenizationUseCase.TokenizationUseCase,
	logger *slog.Logger,
	io IOTuple,
	dataType string,
	encrypted bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	lines, err := readLines(io.Reader)
	if err != nil {
		return err
	}

	values := make([]tokenizationDomain.TypedValue, len(lines))
	for i, line := range lines {
		values[i] = tokenizationDomain.TypedValue{Value: line, DataType: converter.DataType(dataType)}
	}

	result, err := useCase.BatchTokenize(ctx, &tokenizationDomain.BatchTokenizeInput{
		Values:    values,
		Encrypted: encrypted,
	})
	if err != nil {
		return fmt.Errorf("failed to batch tokenize values: %w", err)
	}

	logger.Info("values tokenized",
		slog.Int("processed", result.Summary.Processed),
		slog.Int("existing", result.Summary.Existing),
		slog.Int("newly_created", result.Summary.NewlyCreated),
	)

	if format == "json" {
		results := make([]map[string]interface{}, 0, len(result.Results))
		for _, r := range result.Results {
			results = append(results, map[string]interface{}{
				"value":         r.Value,
				"token":         r.Token,
				"exists":        r.Exists,
				"newly_created": r.NewlyCreated,
			})
		}
		return writeJSON(io.Writer, map[string]interface{}{
			"results": results,
			"summary": map[string]int{
				"processed":     result.Summary.Processed,
				"existing":      result.Summary.Existing,
				"newly_created": result.Summary.NewlyCreated,
			},
		})
	}

	for _, r := range result.Results {
		if _, err := fmt.Fprintf(io.Writer, "%s\t%s\n", r.Value, r.Token); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(io.Writer, "Processed: %d, existing: %d, newly created: %d\n",
		result.Summary.Processed, result.Summary.Existing, result.Summary.NewlyCreated)
	return err
}

// RunBatchDetokenize resolves every non-blank line read from io.Reader as a token.
func RunBatchDetokenize(
	ctx context.Context,
	useCase tokenizationUseCase.TokenizationUseCase,
	logger *slog.Logger,
	io IOTuple,
	encrypted bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	tokens, err := readLines(io.Reader)
	if err != nil {
		return err
	}

	result, err := useCase.BatchDetokenize(ctx, &tokenizationDomain.BatchDetokenizeInput{
		Tokens:    tokens,
		Encrypted: encrypted,
	})
	if err != nil {
		return fmt.Errorf("failed to batch detokenize tokens: %w", err)
	}

	logger.Info("tokens detokenized",
		slog.Int("processed", result.Summary.Processed),
		slog.Int("found", result.Summary.Found),
		slog.Int("not_found", result.Summary.NotFound),
	)

	if format == "json" {
		results := make([]map[string]interface{}, 0, len(result.Results))
		for _, r := range result.Results {
			entry := map[string]interface{}{
				"token": r.Token,
				"found": r.Found,
				"value": nil,
			}
			if r.Found {
				entry["value"] = r.Value
				entry["data_type"] = r.DataType
			}
			results = append(results, entry)
		}
		return writeJSON(io.Writer, map[string]interface{}{
			"results": results,
			"summary": map[string]int{
				"processed": result.Summary.Processed,
				"found":     result.Summary.Found,
				"not_found": result.Summary.NotFound,
			},
		})
	}

	for _, r := range result.Results {
		value := "<not found>"
		if r.Found {
			value = r.Value
		}
		if _, err := fmt.Fprintf(io.Writer, "%s\t%s\n", r.Token, value); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(io.Writer, "Processed: %d, found: %d, not found: %d\n",
		result.Summary.Processed, result.Summary.Found, result.Summary.NotFound)
	return err
}
