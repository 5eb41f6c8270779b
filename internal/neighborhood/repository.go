// AngelaMos | 2026
// repository.go

package neighborhood

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const table = "neighborhoods"

const fromJoined = `
		FROM neighborhoods n
		JOIN cities c ON c.id = n.city_id
		JOIN states s ON s.id = c.state_id`

const selectColumns = `
		SELECT n.id, n.name, n.city_id, c.name AS city_name, s.name AS state_name` + fromJoined

var Sortable = pagination.Sortable{
	"id":   "n.id",
	"name": "n.name",
	"city": "c.name",
}

type Repository interface {
	Create(ctx context.Context, n *Neighborhood) error
	GetByID(ctx context.Context, id int64) (*Neighborhood, error)
	Update(ctx context.Context, n *Neighborhood) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, p pagination.Pageable) ([]Neighborhood, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Neighborhood) error {
	query := `
		INSERT INTO neighborhoods (name, city_id)
		VALUES ($1, $2)
		RETURNING id`

	if err := r.db.GetContext(ctx, &n.ID, query, n.Name, n.CityID); err != nil {
		return fmt.Errorf("create neighborhood: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Neighborhood, error) {
	var n Neighborhood
	err := r.db.GetContext(ctx, &n, selectColumns+` WHERE n.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get neighborhood: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get neighborhood: %w", err)
	}

	return &n, nil
}

func (r *repository) Update(ctx context.Context, n *Neighborhood) error {
	query := `UPDATE neighborhoods SET name = $2, city_id = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, n.ID, n.Name, n.CityID)
	if err != nil {
		return fmt.Errorf("update neighborhood: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "update neighborhood")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM neighborhoods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete neighborhood: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "delete neighborhood")
}

func (r *repository) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) ([]Neighborhood, int, error) {
	b := f.Builder()

	var total int
	countQuery := "SELECT COUNT(*)" + fromJoined + " " + b.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count neighborhoods: %w", err)
	}

	limit, limitArgs := p.LimitOffset(b.Next())
	query := fmt.Sprintf("%s %s %s %s", selectColumns, b.Where(), p.OrderBy("n.id"), limit)

	var rows []Neighborhood
	if err := r.db.SelectContext(ctx, &rows, query, append(b.Args(), limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("list neighborhoods: %w", err)
	}

	return rows, total, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	return core.ExistsByID(ctx, r.db, table, id)
}
