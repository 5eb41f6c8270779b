// AngelaMos | 2026
// manager_test.go

package migrate

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFS = fstest.MapFS{
	"0001_states.up.sql":   {Data: []byte("-- states\nCREATE TABLE states (uf CHAR(2) CHECK (uf ~ '^[A-Z;]{2}$'));\n")},
	"0001_states.down.sql": {Data: []byte("DROP TABLE states;")},
	"0002_cities.up.sql":   {Data: []byte("CREATE TABLE cities (id INT);\nCREATE INDEX idx ON cities (id);")},
	"0002_cities.down.sql": {Data: []byte("DROP TABLE cities;")},
}

func newManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewManager(sqlx.NewDb(db, "sqlmock"), WithFS(testFS)), mock
}

func TestSplitStatements(t *testing.T) {
	body := `-- leading comment
CREATE TABLE a (v TEXT DEFAULT 'x;y');

INSERT INTO a VALUES ('it''s');
  ;
`
	stmts := splitStatements(body)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (v TEXT DEFAULT 'x;y')", stmts[0])
	assert.Equal(t, "INSERT INTO a VALUES ('it''s')", stmts[1])
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	m := NewManager(nil)

	names, err := m.available()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		_, err := embedded.ReadFile("sql/" + name + downSuffix)
		assert.NoError(t, err, "missing down migration for %s", name)
	}
}

func TestUpAppliesOnlyPending(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "applied_at"}).
			AddRow("0001_states", time.Now()))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE cities (id INT)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx ON cities (id)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).
		WithArgs("0002_cities", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	done, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_cities"}, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpRollsBackFailedMigration(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "applied_at"}))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE states")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	done, err := m.Up(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, done)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDownWithNothingApplied(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name FROM schema_migrations ORDER BY name DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err := m.Down(context.Background())
	assert.ErrorIs(t, err, ErrNothingToRollback)
}

func TestDownRollsBackLatest(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name FROM schema_migrations ORDER BY name DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0002_cities"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE cities")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM schema_migrations WHERE name = \$1`).
		WithArgs("0002_cities").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	name, err := m.Down(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0002_cities", name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatus(t *testing.T) {
	m, mock := newManager(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT name, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "applied_at"}).AddRow("0001_states", at))

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.True(t, status[0].Applied)
	assert.Equal(t, at, *status[0].AppliedAt)
	assert.False(t, status[1].Applied)
	assert.Nil(t, status[1].AppliedAt)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	m, mock := newManager(t)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Admin", "admin@eco.br", sqlmock.AnyArg(), "ADMIN").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Admin", "admin@eco.br", sqlmock.AnyArg(), "ADMIN").
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := m.SeedAdmin(context.Background(), "Admin", " Admin@Eco.br ", "s3nha-forte")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.SeedAdmin(context.Background(), "Admin", "admin@eco.br", "s3nha-forte")
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}
