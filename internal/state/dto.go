// AngelaMos | 2026
// dto.go

package state

import (
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/filter"
)

type StateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	UF   string `json:"uf"   validate:"required,alpha,len=2"`
}

type StateResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	UF   string `json:"uf"`
}

type ListFilter struct {
	Name string
	UF   string
}

func (f ListFilter) Builder() *filter.Builder {
	return filter.New().
		Contains("s.name", f.Name).
		Contains("s.uf", f.UF)
}

func (req StateRequest) toEntity() *State {
	return &State{
		Name: strings.TrimSpace(req.Name),
		UF:   strings.ToUpper(req.UF),
	}
}

func ToStateResponse(s *State) StateResponse {
	return StateResponse{
		ID:   s.ID,
		Name: s.Name,
		UF:   s.UF,
	}
}
