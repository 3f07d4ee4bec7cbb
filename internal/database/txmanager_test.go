package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestNewTxManager(t *testing.T) {
	db, _ := newMockDB(t)

	txManager := NewTxManager(db)
	assert.NotNil(t, txManager)
	assert.IsType(t, &sqlTxManager{}, txManager)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := NewTxManager(db).WithTx(ctx, func(ctx context.Context) error {
			tx := ctx.Value(txKey{})
			assert.NotNil(t, tx)
			assert.IsType(t, &sql.Tx{}, tx)
			return nil
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_RollbackOnError", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := NewTxManager(db).WithTx(ctx, func(ctx context.Context) error {
			return assert.AnError
		})

		assert.Equal(t, assert.AnError, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_BeginFails", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("begin failed"))

		called := false
		err := NewTxManager(db).WithTx(ctx, func(ctx context.Context) error {
			called = true
			return nil
		})

		assert.EqualError(t, err, "begin failed")
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_CommitFails", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		err := NewTxManager(db).WithTx(ctx, func(ctx context.Context) error {
			return nil
		})

		assert.EqualError(t, err, "commit failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_RollbackFails", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))

		err := NewTxManager(db).WithTx(ctx, func(ctx context.Context) error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "rollback: rollback failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_NestedJoinsOuterTransaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		txManager := NewTxManager(db)
		err := txManager.WithTx(ctx, func(outer context.Context) error {
			return txManager.WithTx(outer, func(inner context.Context) error {
				assert.Same(t, GetTx(outer, db), GetTx(inner, db))
				return nil
			})
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_WithTransaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := NewTxManager(db).WithTx(ctx, func(ctx context.Context) error {
			querier := GetTx(ctx, db)
			assert.NotNil(t, querier)
			assert.IsType(t, &sql.Tx{}, querier)
			return nil
		})

		assert.NoError(t, err)
	})

	t.Run("Success_WithoutTransaction", func(t *testing.T) {
		db, _ := newMockDB(t)

		querier := GetTx(ctx, db)
		assert.NotNil(t, querier)
		assert.Equal(t, db, querier)
	})
}

func TestNoopTxManager(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")

	t.Run("Success_PassesContextThrough", func(t *testing.T) {
		err := NewNoopTxManager().WithTx(ctx, func(inner context.Context) error {
			assert.Equal(t, "value", inner.Value(ctxKey{}))
			assert.Nil(t, inner.Value(txKey{}))
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("Error_ReturnedUnchanged", func(t *testing.T) {
		err := NewNoopTxManager().WithTx(ctx, func(context.Context) error {
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)
	})
}
