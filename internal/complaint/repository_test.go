// AngelaMos | 2026
// repository_test.go

package complaint

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

func newRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestListScopedToOwnerAndCity(t *testing.T) {
	repo, mock := newRepository(t)

	p, err := pagination.FromRequest(httptest.NewRequest("GET", "/complaints/user/10", nil), Sortable)
	require.NoError(t, err)

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).*WHERE cp.user_id = \$1 AND LOWER\(c.name\) LIKE \$2`).
		WithArgs(int64(10), "%campinas%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)WHERE cp.user_id = \$1 AND LOWER\(c.name\) LIKE \$2.*ORDER BY cp.id DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(int64(10), "%campinas%", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, total, err := repo.List(context.Background(), ListFilter{UserID: 10, CityName: "Campinas"}, p)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerOfMissingComplaint(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectQuery(`SELECT user_id FROM complaints WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.OwnerOf(context.Background(), 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteWithFollowupsIsReferenceInUse(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(`DELETE FROM complaints WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{
			Code:           "23503",
			ConstraintName: "followups_complaint_id_fkey",
			Detail:         `Key (id)=(3) is still referenced from table "followups".`,
		})

	err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, core.ErrReferenceInUse)
	require.NoError(t, mock.ExpectationsWereMet())
}
