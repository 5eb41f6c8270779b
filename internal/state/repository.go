// AngelaMos | 2026
// repository.go

package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const table = "states"

var Sortable = pagination.Sortable{
	"id":   "s.id",
	"name": "s.name",
	"uf":   "s.uf",
}

type Repository interface {
	Create(ctx context.Context, s *State) error
	GetByID(ctx context.Context, id int64) (*State, error)
	Update(ctx context.Context, s *State) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, p pagination.Pageable) ([]State, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *State) error {
	query := `
		INSERT INTO states (name, uf)
		VALUES ($1, $2)
		RETURNING id`

	if err := r.db.GetContext(ctx, &s.ID, query, s.Name, s.UF); err != nil {
		return fmt.Errorf("create state: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*State, error) {
	query := `SELECT s.id, s.name, s.uf FROM states s WHERE s.id = $1`

	var s State
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get state: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *State) error {
	query := `UPDATE states SET name = $2, uf = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.UF)
	if err != nil {
		return fmt.Errorf("update state: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "update state")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM states WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete state: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "delete state")
}

func (r *repository) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) ([]State, int, error) {
	b := f.Builder()

	countQuery := "SELECT COUNT(*) FROM states s " + b.Where()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count states: %w", err)
	}

	limit, limitArgs := p.LimitOffset(b.Next())
	query := fmt.Sprintf(`
		SELECT s.id, s.name, s.uf
		FROM states s
		%s
		%s
		%s`,
		b.Where(), p.OrderBy("s.id"), limit)

	var states []State
	if err := r.db.SelectContext(ctx, &states, query, append(b.Args(), limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("list states: %w", err)
	}

	return states, total, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	return core.ExistsByID(ctx, r.db, table, id)
}
