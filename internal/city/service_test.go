// AngelaMos | 2026
// service_test.go

package city

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

type knownStates map[int64]bool

func (k knownStates) Exists(_ context.Context, id int64) (bool, error) {
	return k[id], nil
}

var admin = &access.Identity{ID: 1, Email: "root@example.com", Role: access.RoleAdmin}

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := cache.New(cache.NewMemoryStore(64, time.Minute), cache.Options{})
	return NewService(NewRepository(sqlx.NewDb(db, "sqlmock")), knownStates{1: true}, c), mock
}

var cityColumns = []string{"id", "name", "state_id", "state_name", "state_uf"}

func TestCreateCityInExistingState(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`INSERT INTO cities \(name, state_id\)`).
		WithArgs("Campinas", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`FROM cities c\s+JOIN states s ON s.id = c.state_id WHERE c.id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cityColumns).AddRow(5, "Campinas", 1, "São Paulo", "SP"))

	resp, err := svc.Create(context.Background(), admin, CityRequest{Name: " Campinas ", StateID: 1})
	require.NoError(t, err)
	assert.Equal(t, CityResponse{ID: 5, Name: "Campinas", StateID: 1, State: "São Paulo", UF: "SP"}, *resp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCityInMissingStateNamesTheParent(t *testing.T) {
	svc, mock := newService(t)

	_, err := svc.Create(context.Background(), admin, CityRequest{Name: "Campinas", StateID: 99})
	require.ErrorIs(t, err, core.ErrReferenceNotFound)

	appErr := core.ToAppError(err, resourceKind)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "state")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCityRequiresAdmin(t *testing.T) {
	svc, _ := newService(t)

	user := &access.Identity{ID: 2, Role: access.RoleUser}
	_, err := svc.Create(context.Background(), user, CityRequest{Name: "Campinas", StateID: 1})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestListCitiesByStateName(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM cities c\s+JOIN states s ON s.id = c.state_id\s+WHERE LOWER\(s.name\) LIKE \$1`).
		WithArgs("%são paulo%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`WHERE LOWER\(s.name\) LIKE \$1 ESCAPE '\\' ORDER BY c.name ASC, c.id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs("%são paulo%", 10, 0).
		WillReturnRows(sqlmock.NewRows(cityColumns).AddRow(5, "Campinas", 1, "São Paulo", "SP"))

	p, err := pagination.FromRequest(httptest.NewRequest(http.MethodGet, "/city?sort=name", nil), Sortable)
	require.NoError(t, err)

	page, err := svc.List(context.Background(), ListFilter{State: "São Paulo"}, p)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Campinas", page.Content[0].Name)
	assert.Equal(t, 1, page.TotalPages)

	again, err := svc.List(context.Background(), ListFilter{State: "São Paulo"}, p)
	require.NoError(t, err)
	assert.Equal(t, page, again)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNameContainingFilterSyntaxHasItsOwnCacheEntry(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).*WHERE LOWER\(c.name\) LIKE \$1`).
		WithArgs("%camp&s.name~paulo%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`WHERE LOWER\(c.name\) LIKE \$1 ESCAPE '\\' ORDER BY`).
		WithArgs("%camp&s.name~paulo%", 10, 0).
		WillReturnRows(sqlmock.NewRows(cityColumns))
	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).*WHERE LOWER\(c.name\) LIKE \$1 ESCAPE '\\' AND LOWER\(s.name\) LIKE \$2`).
		WithArgs("%camp%", "%paulo%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`AND LOWER\(s.name\) LIKE \$2 ESCAPE '\\' ORDER BY`).
		WithArgs("%camp%", "%paulo%", 10, 0).
		WillReturnRows(sqlmock.NewRows(cityColumns).AddRow(5, "Campinas", 1, "São Paulo", "SP"))

	p, err := pagination.FromRequest(httptest.NewRequest(http.MethodGet, "/city", nil), Sortable)
	require.NoError(t, err)

	odd, err := svc.List(context.Background(), ListFilter{Name: "camp&s.name~paulo"}, p)
	require.NoError(t, err)
	assert.Equal(t, 0, odd.TotalElements)

	pair, err := svc.List(context.Background(), ListFilter{Name: "camp", State: "paulo"}, p)
	require.NoError(t, err)
	assert.Equal(t, 1, pair.TotalElements)
	require.NoError(t, mock.ExpectationsWereMet())
}
