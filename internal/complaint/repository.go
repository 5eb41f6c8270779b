// AngelaMos | 2026
// repository.go

package complaint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const table = "complaints"

const fromJoined = `
		FROM complaints cp
		JOIN users u ON u.id = cp.user_id
		JOIN organizations o ON o.id = cp.organization_id
		JOIN locations l ON l.id = cp.location_id
		JOIN neighborhoods n ON n.id = l.neighborhood_id
		JOIN cities c ON c.id = n.city_id
		JOIN states s ON s.id = c.state_id`

const selectColumns = `
		SELECT cp.id, cp.user_id, cp.location_id, cp.organization_id, cp.description,
		       cp.occurred_at, cp.created_at, cp.updated_at,
		       u.name AS user_name, o.name AS organization_name,
		       l.street, l.number, n.name AS neighborhood_name,
		       c.name AS city_name, s.name AS state_name` + fromJoined

var Sortable = pagination.Sortable{
	"id":           "cp.id",
	"occurredAt":   "cp.occurred_at",
	"createdAt":    "cp.created_at",
	"organization": "o.name",
	"city":         "c.name",
}

type Repository interface {
	Create(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, id int64) (*Complaint, error)
	Update(ctx context.Context, c *Complaint) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, p pagination.Pageable) ([]Complaint, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	OwnerOf(ctx context.Context, id int64) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Complaint) error {
	query := `
		INSERT INTO complaints (user_id, location_id, organization_id, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.GetContext(ctx, &c.ID, query,
		c.UserID,
		c.LocationID,
		c.OrganizationID,
		c.Description,
		c.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("create complaint: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Complaint, error) {
	var c Complaint
	err := r.db.GetContext(ctx, &c, selectColumns+` WHERE cp.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get complaint: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get complaint: %w", err)
	}

	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *Complaint) error {
	query := `
		UPDATE complaints
		SET user_id = $2, location_id = $3, organization_id = $4,
		    description = $5, occurred_at = $6, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.LocationID,
		c.OrganizationID,
		c.Description,
		c.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("update complaint: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "update complaint")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete complaint: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "delete complaint")
}

func (r *repository) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) ([]Complaint, int, error) {
	b := f.Builder()

	var total int
	countQuery := "SELECT COUNT(*)" + fromJoined + " " + b.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}

	limit, limitArgs := p.LimitOffset(b.Next())
	query := fmt.Sprintf("%s %s %s %s", selectColumns, b.Where(), p.OrderBy("cp.id"), limit)

	var rows []Complaint
	if err := r.db.SelectContext(ctx, &rows, query, append(b.Args(), limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("list complaints: %w", err)
	}

	return rows, total, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	return core.ExistsByID(ctx, r.db, table, id)
}

func (r *repository) OwnerOf(ctx context.Context, id int64) (int64, error) {
	var owner int64
	err := r.db.GetContext(ctx, &owner, `SELECT user_id FROM complaints WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("complaint owner: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("complaint owner: %w", err)
	}

	return owner, nil
}
