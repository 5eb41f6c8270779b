// AngelaMos | 2026
// entity.go

package organization

type Organization struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	OperatingArea string `db:"operating_area"`
}
