// AngelaMos | 2026
// repository.go

package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/pagination"
)

const table = "locations"

const fromJoined = `
		FROM locations l
		JOIN neighborhoods n ON n.id = l.neighborhood_id
		JOIN cities c ON c.id = n.city_id
		JOIN states s ON s.id = c.state_id`

const selectColumns = `
		SELECT l.id, l.street, l.number, l.complement, l.zip_code,
		       l.latitude, l.longitude, l.neighborhood_id,
		       n.name AS neighborhood_name, c.name AS city_name, s.name AS state_name` + fromJoined

var Sortable = pagination.Sortable{
	"id":           "l.id",
	"street":       "l.street",
	"zipCode":      "l.zip_code",
	"neighborhood": "n.name",
}

type Repository interface {
	Create(ctx context.Context, l *Location) error
	GetByID(ctx context.Context, id int64) (*Location, error)
	Update(ctx context.Context, l *Location) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ListFilter, p pagination.Pageable) ([]Location, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Location) error {
	query := `
		INSERT INTO locations (street, number, complement, zip_code, latitude, longitude, neighborhood_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.GetContext(ctx, &l.ID, query,
		l.Street,
		l.Number,
		l.Complement,
		l.ZipCode,
		l.Latitude,
		l.Longitude,
		l.NeighborhoodID,
	)
	if err != nil {
		return fmt.Errorf("create location: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Location, error) {
	var l Location
	err := r.db.GetContext(ctx, &l, selectColumns+` WHERE l.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get location: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}

	return &l, nil
}

func (r *repository) Update(ctx context.Context, l *Location) error {
	query := `
		UPDATE locations
		SET street = $2, number = $3, complement = $4, zip_code = $5,
		    latitude = $6, longitude = $7, neighborhood_id = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.Street,
		l.Number,
		l.Complement,
		l.ZipCode,
		l.Latitude,
		l.Longitude,
		l.NeighborhoodID,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "update location")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", core.MapPgError(err))
	}

	return core.RequireAffected(result, "delete location")
}

func (r *repository) List(
	ctx context.Context,
	f ListFilter,
	p pagination.Pageable,
) ([]Location, int, error) {
	b := f.Builder()

	var total int
	countQuery := "SELECT COUNT(*)" + fromJoined + " " + b.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, b.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}

	limit, limitArgs := p.LimitOffset(b.Next())
	query := fmt.Sprintf("%s %s %s %s", selectColumns, b.Where(), p.OrderBy("l.id"), limit)

	var rows []Location
	if err := r.db.SelectContext(ctx, &rows, query, append(b.Args(), limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}

	return rows, total, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	return core.ExistsByID(ctx, r.db, table, id)
}
