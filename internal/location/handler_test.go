// AngelaMos | 2026
// handler_test.go

package location

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/cache"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/middleware"
)

type knownNeighborhoods map[int64]bool

func (k knownNeighborhoods) Exists(_ context.Context, id int64) (bool, error) {
	return k[id], nil
}

func newRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := cache.New(cache.NewMemoryStore(64, time.Minute), cache.Options{})
	svc := NewService(NewRepository(sqlx.NewDb(db, "sqlmock")), knownNeighborhoods{2: true}, c)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithClaims(req.Context(), &middleware.AccessTokenClaims{
				UserID: 1,
				Role:   access.RoleAdmin,
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r, mock
}

func post(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/location", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateLocationValidatesZipAndCoordinates(t *testing.T) {
	router, _ := newRouter(t)

	rec := post(router, `{"street":"Rua A","number":"10","zipCode":"1310-100","latitude":95,"neighborhoodId":2}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Contains(t, body.Error.Details, "zipCode")
	assert.Contains(t, body.Error.Details, "latitude")
}

func TestCreateLocationReturnsDenormalizedNames(t *testing.T) {
	router, mock := newRouter(t)

	mock.ExpectQuery(`INSERT INTO locations`).
		WithArgs("Rua Barão de Jaguara", "1000", nil, "13015001", -22.9056, -47.0608, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(`WHERE l.id = \$1`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "street", "number", "complement", "zip_code", "latitude", "longitude",
			"neighborhood_id", "neighborhood_name", "city_name", "state_name",
		}).AddRow(11, "Rua Barão de Jaguara", "1000", nil, "13015001", -22.9056, -47.0608,
			2, "Centro", "Campinas", "São Paulo"))

	rec := post(router, `{"street":"Rua Barão de Jaguara","number":"1000","complement":"  ",`+
		`"zipCode":"13015001","latitude":-22.9056,"longitude":-47.0608,"neighborhoodId":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp LocationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Centro", resp.Neighborhood)
	assert.Equal(t, "Campinas", resp.City)
	assert.Equal(t, "São Paulo", resp.State)
	require.NotNil(t, resp.Latitude)
	assert.InDelta(t, -22.9056, *resp.Latitude, 1e-9)
	assert.Nil(t, resp.Complement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLocationInUnknownNeighborhood(t *testing.T) {
	router, _ := newRouter(t)

	rec := post(router, `{"street":"Rua A","number":"1","zipCode":"13015001","neighborhoodId":9}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "REFERENCE_NOT_FOUND", body.Error.Code)
	assert.Contains(t, body.Error.Message, "neighborhood")
}
