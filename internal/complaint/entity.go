// AngelaMos | 2026
// entity.go

package complaint

import (
	"time"
)

type Complaint struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	LocationID     int64     `db:"location_id"`
	OrganizationID int64     `db:"organization_id"`
	Description    string    `db:"description"`
	OccurredAt     time.Time `db:"occurred_at"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`

	UserName         string `db:"user_name"`
	OrganizationName string `db:"organization_name"`
	Street           string `db:"street"`
	Number           string `db:"number"`
	NeighborhoodName string `db:"neighborhood_name"`
	CityName         string `db:"city_name"`
	StateName        string `db:"state_name"`
}
