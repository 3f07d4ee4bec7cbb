package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/tokenizer/internal/database"
	devDomain "github.com/allisson/tokenizer/internal/devserver/domain"
	apperrors "github.com/allisson/tokenizer/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate keys.
const mysqlDuplicateEntry = 1062

// MySQLTokenRepository implements token persistence for MySQL databases.
// IDs are stored as BINARY(16).
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a new token mapping.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *devDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokenization_tokens (id, token, value_hash, data_type, ciphertext, nonce, created_at) 
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.Token,
		token.ValueHash,
		token.DataType,
		token.Ciphertext,
		token.Nonce,
		token.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return devDomain.ErrTokenConflict
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByToken retrieves a token mapping by its token string.
func (m *MySQLTokenRepository) GetByToken(ctx context.Context, token string) (*devDomain.Token, error) {
	query := `SELECT id, token, value_hash, data_type, ciphertext, nonce, created_at 
			  FROM tokenization_tokens 
			  WHERE token = ?`

	out, err := m.scanOne(ctx, query, token)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get token by token string")
	}
	return out, nil
}

// GetByValueHash retrieves a token mapping by its keyed value hash.
func (m *MySQLTokenRepository) GetByValueHash(ctx context.Context, valueHash string) (*devDomain.Token, error) {
	query := `SELECT id, token, value_hash, data_type, ciphertext, nonce, created_at 
			  FROM tokenization_tokens 
			  WHERE value_hash = ?`

	out, err := m.scanOne(ctx, query, valueHash)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get token by value hash")
	}
	return out, nil
}

// Count returns the number of stored mappings.
func (m *MySQLTokenRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM tokenization_tokens`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count tokens")
	}
	return count, nil
}

func (m *MySQLTokenRepository) scanOne(ctx context.Context, query string, arg any) (*devDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	var token devDomain.Token
	var id []byte
	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&id,
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

	if err := token.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	return &token, nil
}
