// AngelaMos | 2026
// repository.go

package followup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const fromJoined = `
		FROM followups f
		JOIN complaints cp ON cp.id = f.complaint_id`

const selectColumns = `
		SELECT f.id, f.complaint_id, f.status, f.description, f.updated_at,
		       cp.user_id AS complaint_owner_id` + fromJoined

var Sortable = pagination.Sortable{
	"id":        "f.id",
	"status":    "f.status",
	"updatedAt": "f.updated_at",
}

type Repository interface {
	Create(ctx context.Context, f *Followup) error
	GetByID(ctx context.Context, id int64) (*Followup, error)
	Update(ctx context.Context, f *Followup) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, p pagination.Pageable) ([]Followup, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Followup) error {
	query := `
		INSERT INTO followups (complaint_id, status, description, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.GetContext(ctx, &f.ID, query,
		f.ComplaintID,
		f.Status,
		f.Description,
		f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create followup: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Followup, error) {
	var f Followup
	err := r.db.GetContext(ctx, &f, selectColumns+` WHERE f.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get followup: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get followup: %w", err)
	}

	return &f, nil
}

func (r *repository) Update(ctx context.Context, f *Followup) error {
	query := `
		UPDATE followups
		SET complaint_id = $2, status = $3, description = $4, updated_at = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.ComplaintID,
		f.Status,
		f.Description,
		f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update followup: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "update followup")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM followups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete followup: %w", err)
	}

	return core.RequireAffected(result, "delete followup")
}

func (r *repository) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) ([]Followup, int, error) {
	b := f.Builder()

	var total int
	countQuery := "SELECT COUNT(*)" + fromJoined + " " + b.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count followups: %w", err)
	}

	limit, limitArgs := p.LimitOffset(b.Next())
	query := fmt.Sprintf("%s %s %s %s", selectColumns, b.Where(), p.OrderBy("f.id"), limit)

	var rows []Followup
	if err := r.db.SelectContext(ctx, &rows, query, append(b.Args(), limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("list followups: %w", err)
	}

	return rows, total, nil
}
