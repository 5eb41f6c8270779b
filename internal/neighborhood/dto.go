// AngelaMos | 2026
// dto.go

package neighborhood

import (
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/filter"
)

type NeighborhoodRequest struct {
	Name   string `json:"name"   validate:"required,min=1,max=100"`
	CityID int64  `json:"cityId" validate:"required,gt=0"`
}

type NeighborhoodResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	CityID int64  `json:"cityId"`
	City   string `json:"city"`
	State  string `json:"state"`
}

type ListFilter struct {
	Name string
	City string
}

func (f ListFilter) Builder() *filter.Builder {
	return filter.New().
		Contains("n.name", f.Name).
		Contains("c.name", f.City)
}

func (req NeighborhoodRequest) toEntity() *Neighborhood {
	return &Neighborhood{
		Name:   strings.TrimSpace(req.Name),
		CityID: req.CityID,
	}
}

func ToNeighborhoodResponse(n *Neighborhood) NeighborhoodResponse {
	return NeighborhoodResponse{
		ID:     n.ID,
		Name:   n.Name,
		CityID: n.CityID,
		City:   n.CityName,
		State:  n.StateName,
	}
}
