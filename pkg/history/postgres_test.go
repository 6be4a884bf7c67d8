package history

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/David-Botos/dq-validation/pkg/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestNewTableStore_CreatesTable(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "public"."dq_history"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewTableStore(context.Background(), db, "public.dq_history", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, `"public"."dq_history"`, store.table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewTableStore_Validation(t *testing.T) {
	db, _ := newMockDB(t)

	_, err := NewTableStore(context.Background(), nil, "dq_history", zap.NewNop())
	assert.Error(t, err)

	_, err = NewTableStore(context.Background(), db, " ", zap.NewNop())
	assert.Error(t, err)
}

func TestTableStore_Append(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewTableStore(context.Background(), db, "dq_history", zap.NewNop())
	require.NoError(t, err)

	runID := uuid.New()
	withError := record("staff_id_unique", 3, 3)
	withError.ErrorType = "duplicate"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "dq_history"`)).
		WithArgs(runID.String(), "staff", "staff_id", "2025-05-20 09:30:00", "COMPLÉTUDE", "staff_id_not_null",
			int64(8), int64(2), 80.0, nil, int64(10)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "dq_history"`)).
		WithArgs(runID.String(), "staff", "staff_id", "2025-05-20 09:30:00", "COMPLÉTUDE", "staff_id_unique",
			int64(3), int64(3), 50.0, "duplicate", int64(6)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err = store.Append(context.Background(), runID, model.MetricsTable{record("staff_id_not_null", 8, 2), withError})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableStore_AppendRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewTableStore(context.Background(), db, "dq_history", zap.NewNop())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = store.Append(context.Background(), uuid.New(), model.MetricsTable{record("a", 1, 0), record("b", 1, 0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableStore_AppendEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewTableStore(context.Background(), db, "dq_history", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Append(context.Background(), uuid.New(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
