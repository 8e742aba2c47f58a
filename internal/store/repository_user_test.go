package store

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

var selectUserSQL = regexp.QuoteMeta("SELECT user_id, email, is_active FROM users WHERE user_id = $1")

func TestFindUserByID(t *testing.T) {
	tests := []struct {
		name          string
		mockSetup     func(mock sqlmock.Sqlmock)
		want          models.User
		wantErr       error
		wantTransient bool
	}{
		{
			name: "found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectUserSQL).
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "is_active"}).AddRow(7, "ann@example.com", true))
			},
			want: models.User{UserID: 7, Email: "ann@example.com", IsActive: true},
		},
		{
			name: "missing",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectUserSQL).WithArgs(int64(7)).WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "is_active"}))
			},
			wantErr: ErrNoUserWasFound,
		},
		{
			name: "connection failure is transient",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectUserSQL).WithArgs(int64(7)).WillReturnError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure})
			},
			wantErr:       ErrExecutingQuery,
			wantTransient: true,
		},
		{
			name: "syntax error is permanent",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectUserSQL).WithArgs(int64(7)).WillReturnError(&pgconn.PgError{Code: pgerrcode.SyntaxError})
			},
			wantErr: ErrExecutingQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.mockSetup(mock)
			repo := NewUserRepository(db, logger.Nop())

			got, err := repo.FindUserByID(testContext(), 7)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantTransient, errors.Is(err, ErrTransient))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
