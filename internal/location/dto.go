// AngelaMos | 2026
// dto.go

package location

import (
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/filter"
)

type LocationRequest struct {
	Street         string   `json:"street"         validate:"required,min=1,max=150"`
	Number         string   `json:"number"         validate:"required,max=10"`
	Complement     *string  `json:"complement"     validate:"omitempty,max=100"`
	ZipCode        string   `json:"zipCode"        validate:"required,numeric,len=8"`
	Latitude       *float64 `json:"latitude"       validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude"      validate:"omitempty,gte=-180,lte=180"`
	NeighborhoodID int64    `json:"neighborhoodId" validate:"required,gt=0"`
}

type LocationResponse struct {
	ID             int64    `json:"id"`
	Street         string   `json:"street"`
	Number         string   `json:"number"`
	Complement     *string  `json:"complement,omitempty"`
	ZipCode        string   `json:"zipCode"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	NeighborhoodID int64    `json:"neighborhoodId"`
	Neighborhood   string   `json:"neighborhood"`
	City           string   `json:"city"`
	State          string   `json:"state"`
}

type ListFilter struct {
	Street       string
	ZipCode      string
	Neighborhood string
}

func (f ListFilter) Builder() *filter.Builder {
	return filter.New().
		Contains("l.street", f.Street).
		Contains("l.zip_code", f.ZipCode).
		Contains("n.name", f.Neighborhood)
}

func (req LocationRequest) toEntity() *Location {
	var complement *string
	if req.Complement != nil {
		if c := strings.TrimSpace(*req.Complement); c != "" {
			complement = &c
		}
	}

	return &Location{
		Street:         strings.TrimSpace(req.Street),
		Number:         strings.TrimSpace(req.Number),
		Complement:     complement,
		ZipCode:        req.ZipCode,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		NeighborhoodID: req.NeighborhoodID,
	}
}

func ToLocationResponse(l *Location) LocationResponse {
	return LocationResponse{
		ID:             l.ID,
		Street:         l.Street,
		Number:         l.Number,
		Complement:     l.Complement,
		ZipCode:        l.ZipCode,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		NeighborhoodID: l.NeighborhoodID,
		Neighborhood:   l.NeighborhoodName,
		City:           l.CityName,
		State:          l.StateName,
	}
}
