// AngelaMos | 2026
// dto.go

package organization

import (
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/filter"
)

type OrganizationRequest struct {
	Name          string `json:"name"          validate:"required,min=1,max=150"`
	OperatingArea string `json:"operatingArea" validate:"required,min=1,max=150"`
}

type OrganizationResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	OperatingArea string `json:"operatingArea"`
}

type ListFilter struct {
	Name          string
	OperatingArea string
}

func (f ListFilter) Builder() *filter.Builder {
	return filter.New().
		Contains("o.name", f.Name).
		Contains("o.operating_area", f.OperatingArea)
}

func (req OrganizationRequest) toEntity() *Organization {
	return &Organization{
		Name:          strings.TrimSpace(req.Name),
		OperatingArea: strings.TrimSpace(req.OperatingArea),
	}
}

func ToOrganizationResponse(o *Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:            o.ID,
		Name:          o.Name,
		OperatingArea: o.OperatingArea,
	}
}
