// AngelaMos | 2026
// dto.go

package followup

import (
	"strings"
	"time"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
	"github.com/carterperez-dev/ecodenuncia/internal/filter"
)

type FollowupRequest struct {
	ComplaintID int64  `json:"complaintId" validate:"required,gt=0"`
	Status      string `json:"status"      validate:"required,oneof=OPEN IN_PROGRESS CLOSED"`
	Description string `json:"description" validate:"required,min=1,max=200"`
}

type FollowupResponse struct {
	ID          int64     `json:"id"`
	ComplaintID int64     `json:"complaintId"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListFilter struct {
	ComplaintID int64
	Status      string
}

func (f ListFilter) Builder() *filter.Builder {
	b := filter.New()
	if f.ComplaintID != 0 {
		b.Equals("f.complaint_id", f.ComplaintID)
	}
	b.Contains("f.status", strings.TrimSpace(f.Status))
	return b
}

func (req FollowupRequest) toEntity(now time.Time) *Followup {
	return &Followup{
		ComplaintID: req.ComplaintID,
		Status:      req.Status,
		Description: core.SanitizeText(req.Description),
		UpdatedAt:   now.UTC(),
	}
}

func ToFollowupResponse(f *Followup) FollowupResponse {
	return FollowupResponse{
		ID:          f.ID,
		ComplaintID: f.ComplaintID,
		Status:      f.Status,
		Description: f.Description,
		UpdatedAt:   f.UpdatedAt,
	}
}
