// AngelaMos | 2026
// entity.go

package neighborhood

type Neighborhood struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	CityID    int64  `db:"city_id"`
	CityName  string `db:"city_name"`
	StateName string `db:"state_name"`
}
