// AngelaMos | 2026
// database_test.go

package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestInTx(t *testing.T) {
	t.Parallel()

	errWork := errors.New("work failed")

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		fn      func(*sqlx.Tx) error
		wantErr error
		errText string
	}{
		{
			name: "commits on success",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectCommit()
			},
			fn: func(*sqlx.Tx) error { return nil },
		},
		{
			name: "rolls back on error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectRollback()
			},
			fn:      func(*sqlx.Tx) error { return errWork },
			wantErr: errWork,
		},
		{
			name: "begin failure",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin().WillReturnError(errors.New("pool exhausted"))
			},
			fn:      func(*sqlx.Tx) error { return nil },
			errText: "begin transaction",
		},
		{
			name: "commit failure",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			fn:      func(*sqlx.Tx) error { return nil },
			errText: "commit transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock := newMockDB(t)
			tt.setup(mock)

			err := InTx(context.Background(), db, tt.fn)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.ErrorContains(t, err, tt.errText)
			default:
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInTx_RollsBackOnPanic(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	require.PanicsWithValue(t, "boom", func() {
		_ = InTx(context.Background(), db, func(*sqlx.Tx) error { panic("boom") })
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJitteredDuration(t *testing.T) {
	t.Parallel()

	require.Equal(t, time.Duration(0), jitteredDuration(0))

	base := 7 * time.Minute
	for range 50 {
		d := jitteredDuration(base)
		require.GreaterOrEqual(t, d, base)
		require.LessOrEqual(t, d, base+base/7)
	}
}
