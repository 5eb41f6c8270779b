// AngelaMos | 2026
// dto.go

package city

import (
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/filter"
)

type CityRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=100"`
	StateID int64  `json:"stateId" validate:"required,gt=0"`
}

type CityResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	StateID int64  `json:"stateId"`
	State   string `json:"state"`
	UF      string `json:"uf"`
}

type ListFilter struct {
	Name  string
	State string
}

func (f ListFilter) Builder() *filter.Builder {
	return filter.New().
		Contains("c.name", f.Name).
		Contains("s.name", f.State)
}

func (req CityRequest) toEntity() *City {
	return &City{
		Name:    strings.TrimSpace(req.Name),
		StateID: req.StateID,
	}
}

func ToCityResponse(c *City) CityResponse {
	return CityResponse{
		ID:      c.ID,
		Name:    c.Name,
		StateID: c.StateID,
		State:   c.StateName,
		UF:      c.StateUF,
	}
}
