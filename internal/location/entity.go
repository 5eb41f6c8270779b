// AngelaMos | 2026
// entity.go

package location

type Location struct {
	ID               int64    `db:"id"`
	Street           string   `db:"street"`
	Number           string   `db:"number"`
	Complement       *string  `db:"complement"`
	ZipCode          string   `db:"zip_code"`
	Latitude         *float64 `db:"latitude"`
	Longitude        *float64 `db:"longitude"`
	NeighborhoodID   int64    `db:"neighborhood_id"`
	NeighborhoodName string   `db:"neighborhood_name"`
	CityName         string   `db:"city_name"`
	StateName        string   `db:"state_name"`
}
