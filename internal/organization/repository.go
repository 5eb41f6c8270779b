// AngelaMos | 2026
// repository.go

package organization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const table = "organizations"

var Sortable = pagination.Sortable{
	"id":            "o.id",
	"name":          "o.name",
	"operatingArea": "o.operating_area",
}

type Repository interface {
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id int64) (*Organization, error)
	Update(ctx context.Context, o *Organization) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, p pagination.Pageable) ([]Organization, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Organization) error {
	query := `
		INSERT INTO organizations (name, operating_area)
		VALUES ($1, $2)
		RETURNING id`

	if err := r.db.GetContext(ctx, &o.ID, query, o.Name, o.OperatingArea); err != nil {
		return fmt.Errorf("create organization: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Organization, error) {
	query := `
		SELECT o.id, o.name, o.operating_area
		FROM organizations o
		WHERE o.id = $1`

	var o Organization
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get organization: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}

	return &o, nil
}

func (r *repository) Update(ctx context.Context, o *Organization) error {
	query := `UPDATE organizations SET name = $2, operating_area = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, o.ID, o.Name, o.OperatingArea)
	if err != nil {
		return fmt.Errorf("update organization: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "update organization")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete organization: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "delete organization")
}

func (r *repository) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) ([]Organization, int, error) {
	b := f.Builder()

	var total int
	countQuery := "SELECT COUNT(*) FROM organizations o " + b.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}

	limit, limitArgs := p.LimitOffset(b.Next())
	query := fmt.Sprintf(`
		SELECT o.id, o.name, o.operating_area
		FROM organizations o
		%s
		%s
		%s`,
		b.Where(), p.OrderBy("o.id"), limit)

	var rows []Organization
	if err := r.db.SelectContext(ctx, &rows, query, append(b.Args(), limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}

	return rows, total, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	return core.ExistsByID(ctx, r.db, table, id)
}
