// AngelaMos | 2026
// dto.go

package complaint

import (
	"time"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/filter"
)

type ComplaintRequest struct {
	UserID         int64     `json:"userId"         validate:"required,gt=0"`
	LocationID     int64     `json:"locationId"     validate:"required,gt=0"`
	OrganizationID int64     `json:"organizationId" validate:"required,gt=0"`
	Description    string    `json:"description"    validate:"required,min=1,max=1000"`
	OccurredAt     time.Time `json:"occurredAt"     validate:"required"`
}

type ComplaintResponse struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"userId"`
	UserName         string    `json:"userName"`
	LocationID       int64     `json:"locationId"`
	Street           string    `json:"street"`
	Number           string    `json:"number"`
	Neighborhood     string    `json:"neighborhood"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	OrganizationID   int64     `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	Description      string    `json:"description"`
	OccurredAt       time.Time `json:"occurredAt"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ListFilter narrows complaint listings. UserID scopes the listing to one
// owner and is zero for the administrator-wide view.
type ListFilter struct {
	UserID           int64
	Description      string
	OrganizationName string
	CityName         string
}

func (f ListFilter) Builder() *filter.Builder {
	b := filter.New()
	if f.UserID != 0 {
		b.Equals("cp.user_id", f.UserID)
	}
	return b.
		Contains("cp.description", f.Description).
		Contains("o.name", f.OrganizationName).
		Contains("c.name", f.CityName)
}

func (req ComplaintRequest) toEntity() *Complaint {
	return &Complaint{
		UserID:         req.UserID,
		LocationID:     req.LocationID,
		OrganizationID: req.OrganizationID,
		Description:    core.SanitizeText(req.Description),
		OccurredAt:     req.OccurredAt.UTC(),
	}
}

func ToComplaintResponse(c *Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:               c.ID,
		UserID:           c.UserID,
		UserName:         c.UserName,
		LocationID:       c.LocationID,
		Street:           c.Street,
		Number:           c.Number,
		Neighborhood:     c.NeighborhoodName,
		City:             c.CityName,
		State:            c.StateName,
		OrganizationID:   c.OrganizationID,
		OrganizationName: c.OrganizationName,
		Description:      c.Description,
		OccurredAt:       c.OccurredAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
