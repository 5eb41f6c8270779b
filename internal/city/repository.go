// AngelaMos | 2026
// repository.go

package city

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const table = "cities"

const selectColumns = `
		SELECT c.id, c.name, c.state_id, s.name AS state_name, s.uf AS state_uf
		FROM cities c
		JOIN states s ON s.id = c.state_id`

var Sortable = pagination.Sortable{
	"id":    "c.id",
	"name":  "c.name",
	"state": "s.name",
}

type Repository interface {
	Create(ctx context.Context, c *City) error
	GetByID(ctx context.Context, id int64) (*City, error)
	Update(ctx context.Context, c *City) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, p pagination.Pageable) ([]City, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *City) error {
	query := `
		INSERT INTO cities (name, state_id)
		VALUES ($1, $2)
		RETURNING id`

	if err := r.db.GetContext(ctx, &c.ID, query, c.Name, c.StateID); err != nil {
		return fmt.Errorf("create city: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*City, error) {
	var c City
	err := r.db.GetContext(ctx, &c, selectColumns+` WHERE c.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get city: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}

	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *City) error {
	query := `UPDATE cities SET name = $2, state_id = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.StateID)
	if err != nil {
		return fmt.Errorf("update city: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "update city")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete city: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "delete city")
}

func (r *repository) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) ([]City, int, error) {
	b := f.Builder()

	countQuery := `
		SELECT COUNT(*)
		FROM cities c
		JOIN states s ON s.id = c.state_id
		` + b.Where()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count cities: %w", err)
	}

	limit, limitArgs := p.LimitOffset(b.Next())
	query := fmt.Sprintf("%s %s %s %s", selectColumns, b.Where(), p.OrderBy("c.id"), limit)

	var cities []City
	if err := r.db.SelectContext(ctx, &cities, query, append(b.Args(), limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("list cities: %w", err)
	}

	return cities, total, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	return core.ExistsByID(ctx, r.db, table, id)
}
