package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/allisson/tokenizer/internal/database"
	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	apperrors "github.com/allisson/tokenizer/internal/errors"
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const pqUniqueViolation = "23505"

// PostgreSQLTokenRepository implements token persistence for PostgreSQL databases.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a new token mapping.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *devDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokenization_tokens (id, token, value_hash, data_type, ciphertext, nonce, created_at) 
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.Token,
		token.ValueHash,
		token.DataType,
		token.Ciphertext,
		token.Nonce,
		token.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return devDomain.ErrTokenConflict
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByToken retrieves a token mapping by its token string.
func (p *PostgreSQLTokenRepository) GetByToken(ctx context.Context, token string) (*devDomain.Token, error) {
	query := `SELECT id, token, value_hash, data_type, ciphertext, nonce, created_at 
			  FROM tokenization_tokens 
			  WHERE token = $1`

	out, err := p.scanOne(ctx, query, token)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get token by token string")
	}
	return out, nil
}

// GetByValueHash retrieves a token mapping by its keyed value hash.
func (p *PostgreSQLTokenRepository) GetByValueHash(ctx context.Context, valueHash string) (*devDomain.Token, error) {
	query := `SELECT id, token, value_hash, data_type, ciphertext, nonce, created_at 
			  FROM tokenization_tokens 
			  WHERE value_hash = $1`

	out, err := p.scanOne(ctx, query, valueHash)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get token by value hash")
	}
	return out, nil
}

// Count returns the number of stored mappings.
func (p *PostgreSQLTokenRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM tokenization_tokens`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count tokens")
	}
	return count, nil
}

func (p *PostgreSQLTokenRepository) scanOne(ctx context.Context, query string, arg any) (*devDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	var token devDomain.Token
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&token.ID,
		&token.Token,
		&token.ValueHash,
		&token.DataType,
		&token.Ciphertext,
		&token.Nonce,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, devDomain.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}
