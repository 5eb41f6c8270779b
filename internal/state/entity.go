// AngelaMos | 2026
// entity.go

package state

type State struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	UF   string `db:"uf"`
}
