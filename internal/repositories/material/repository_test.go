package material

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/bramble/pkg/database"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	wrapped := database.NewDatabaseInstance(sqlx.NewDb(db, "postgres"), log)
	return NewRepository(wrapped, log), mock
}

func TestDeleteCascadeRemovesChildrenAndParentInOneTransaction(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	for _, table := range childTables {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM "+table+" WHERE material_id = $1")).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 2))
	}
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM materials WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.DeleteCascade(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascadeMissingMaterialRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	// child deletes run first; a missing parent must undo them
	mock.ExpectBegin()
	for _, table := range childTables {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM "+table+" WHERE material_id = $1")).
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 3))
	}
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM materials WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	deleted, err := repo.DeleteCascade(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascadeChildDeleteFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM material_compositions WHERE material_id = $1")).
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	deleted, err := repo.DeleteCascade(context.Background(), 7)
	require.Error(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
