// AngelaMos | 2026
// entity.go

package city

type City struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	StateID   int64  `db:"state_id"`
	StateName string `db:"state_name"`
	StateUF   string `db:"state_uf"`
}
