// AngelaMos | 2026
// manager.go

package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/ecodenuncia/internal/access"
	"github.com/carterperez-dev/ecodenuncia/internal/core"
)

const (
	defaultTable = "schema_migrations"
	upSuffix     = ".up.sql"
	downSuffix   = ".down.sql"
)

//go:embed sql/*.sql
var embedded embed.FS

var ErrNothingToRollback = errors.New("no migrations applied")

type Migration struct {
	Name      string     `json:"name"`
	Applied   bool       `json:"applied"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}

// Manager applies the schema migrations embedded in the binary and records
// them in a bookkeeping table.
type Manager struct {
	db     *sqlx.DB
	fsys   fs.FS
	dir    string
	table  string
	logger *slog.Logger
}

type Option func(*Manager)

// WithFS replaces the embedded migrations; files are read from the root of
// fsys.
func WithFS(fsys fs.FS) Option {
	return func(m *Manager) {
		m.fsys = fsys
		m.dir = "."
	}
}

func WithTable(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.table = name
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(db *sqlx.DB, opts ...Option) *Manager {
	m := &Manager{
		db:     db,
		fsys:   embedded,
		dir:    "sql",
		table:  defaultTable,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Up applies every pending migration in name order, each in its own
// transaction, and returns the names it applied.
func (m *Manager) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	names, err := m.available()
	if err != nil {
		return nil, err
	}

	var done []string
	for _, name := range names {
		if _, ok := applied[name]; ok {
			continue
		}

		body, err := fs.ReadFile(m.fsys, path.Join(m.dir, name+upSuffix))
		if err != nil {
			return done, fmt.Errorf("read migration %s: %w", name, err)
		}

		err = core.InTx(ctx, m.db, func(tx *sqlx.Tx) error {
			if err := execAll(ctx, tx, string(body)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				fmt.Sprintf(`INSERT INTO %s (name, applied_at) VALUES ($1, $2)`, m.table),
				name, time.Now().UTC())
			return err
		})
		if err != nil {
			return done, fmt.Errorf("apply migration %s: %w", name, err)
		}

		m.logger.InfoContext(ctx, "migration applied", "name", name)
		done = append(done, name)
	}

	return done, nil
}

// Down rolls back the most recently applied migration.
func (m *Manager) Down(ctx context.Context) (string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return "", err
	}

	var last string
	err := m.db.GetContext(ctx, &last,
		fmt.Sprintf(`SELECT name FROM %s ORDER BY name DESC LIMIT 1`, m.table))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNothingToRollback
		}
		return "", fmt.Errorf("find last migration: %w", err)
	}

	body, err := fs.ReadFile(m.fsys, path.Join(m.dir, last+downSuffix))
	if err != nil {
		return "", fmt.Errorf("missing down migration for %s: %w", last, err)
	}

	err = core.InTx(ctx, m.db, func(tx *sqlx.Tx) error {
		if err := execAll(ctx, tx, string(body)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, m.table), last)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("rollback migration %s: %w", last, err)
	}

	m.logger.InfoContext(ctx, "migration rolled back", "name", last)
	return last, nil
}

// Status lists every known migration with its applied time, if any.
func (m *Manager) Status(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	names, err := m.available()
	if err != nil {
		return nil, err
	}

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		mig := Migration{Name: name}
		if at, ok := applied[name]; ok {
			mig.Applied = true
			mig.AppliedAt = &at
		}
		out = append(out, mig)
	}

	return out, nil
}

// SeedAdmin creates an administrator account unless the email is already
// registered. It reports whether a row was inserted.
func (m *Manager) SeedAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, fmt.Errorf("seed admin: email and password are required: %w", core.ErrInvalidInput)
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	result, err := m.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING`,
		name, email, hash, access.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	return rows == 1, nil
}

func (m *Manager) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, m.table)

	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure %s: %w", m.table, err)
	}
	return nil
}

func (m *Manager) applied(ctx context.Context) (map[string]time.Time, error) {
	var rows []struct {
		Name      string    `db:"name"`
		AppliedAt time.Time `db:"applied_at"`
	}

	err := m.db.SelectContext(ctx, &rows,
		fmt.Sprintf(`SELECT name, applied_at FROM %s`, m.table))
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	out := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		out[row.Name] = row.AppliedAt
	}
	return out, nil
}

// available returns migration names (file names without the .up.sql
// suffix) in apply order.
func (m *Manager) available() ([]string, error) {
	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), upSuffix); ok {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

func execAll(ctx context.Context, tx *sqlx.Tx, body string) error {
	for _, stmt := range splitStatements(body) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// splitStatements splits on semicolons outside single-quoted literals and
// drops empty statements and line comments.
func splitStatements(body string) []string {
	var (
		stmts    []string
		current  strings.Builder
		inString bool
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(body, "\n") {
		if !inString && strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		for _, r := range line {
			switch {
			case r == '\'':
				inString = !inString
				current.WriteRune(r)
			case r == ';' && !inString:
				flush()
			default:
				current.WriteRune(r)
			}
		}
		current.WriteByte('\n')
	}
	flush()

	return stmts
}
