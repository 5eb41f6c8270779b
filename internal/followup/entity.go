// AngelaMos | 2026
// entity.go

package followup

import (
	"time"
)

const (
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusClosed     = "CLOSED"
)

type Followup struct {
	ID          int64     `db:"id"`
	ComplaintID int64     `db:"complaint_id"`
	Status      string    `db:"status"`
	Description string    `db:"description"`
	UpdatedAt   time.Time `db:"updated_at"`

	// ComplaintOwnerID is the user who filed the parent complaint.
	ComplaintOwnerID int64 `db:"complaint_owner_id"`
}
