// AngelaMos | 2026
// pageable.go

package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/carterperez-dev/ecodenuncia/internal/core"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

var (
	defaultSize = DefaultSize
	maxSize     = MaxSize
)

// Configure sets the process-wide size defaults. Called once at startup.
func Configure(defSize, capSize int) {
	if defSize > 0 {
		defaultSize = defSize
	}
	if capSize >= defaultSize {
		maxSize = capSize
	}
}

// Sortable maps public sort properties to SQL columns. "id" must be present
// since it is the default order.
type Sortable map[string]string

type Pageable struct {
	Page       int
	Size       int
	SortColumn string
	SortDesc   bool
	sortKey    string
}

// FromRequest reads page (zero based), size and sort=property[,asc|desc].
// Sizes above the cap are clamped; unknown sort properties are rejected.
func FromRequest(r *http.Request, sortable Sortable) (Pageable, error) {
	q := r.URL.Query()

	p := Pageable{
		Page:       0,
		Size:       defaultSize,
		SortColumn: sortable["id"],
		SortDesc:   true,
		sortKey:    "id,desc",
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return p, fmt.Errorf("page must be a non-negative integer: %w", core.ErrInvalidInput)
		}
		p.Page = page
	}

	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return p, fmt.Errorf("size must be a positive integer: %w", core.ErrInvalidInput)
		}
		p.Size = min(size, maxSize)
	}

	if p.Page > math.MaxInt/p.Size {
		return p, fmt.Errorf("page %d is out of range: %w", p.Page, core.ErrInvalidInput)
	}

	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		prop, dir, _ := strings.Cut(raw, ",")
		prop = strings.TrimSpace(prop)
		dir = strings.ToLower(strings.TrimSpace(dir))

		column, ok := sortable[prop]
		if !ok {
			return p, fmt.Errorf("cannot sort by %q: %w", prop, core.ErrInvalidInput)
		}

		switch dir {
		case "", "asc":
			p.SortDesc = false
			dir = "asc"
		case "desc":
			p.SortDesc = true
		default:
			return p, fmt.Errorf("sort direction must be asc or desc: %w", core.ErrInvalidInput)
		}

		p.SortColumn = column
		p.sortKey = prop + "," + dir
	}

	return p, nil
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// OrderBy renders the ORDER BY clause with id as a tie breaker so pages stay
// stable when the sort column has duplicates.
func (p Pageable) OrderBy(idColumn string) string {
	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}

	if p.SortColumn == "" || p.SortColumn == idColumn {
		return fmt.Sprintf("ORDER BY %s %s", idColumn, dir)
	}

	return fmt.Sprintf("ORDER BY %s %s, %s %s", p.SortColumn, dir, idColumn, dir)
}

// LimitOffset renders LIMIT/OFFSET placeholders starting at index next.
func (p Pageable) LimitOffset(next int) (string, []any) {
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", next, next+1), []any{p.Size, p.Offset()}
}

func (p Pageable) Key() string {
	key := p.sortKey
	if key == "" {
		key = "id,desc"
	}
	return fmt.Sprintf("p=%d&s=%d&o=%s", p.Page, p.Size, key)
}

type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	PageNumber    int `json:"pageNumber"`
	Size          int `json:"size"`
}

func NewPage[T any](content []T, p Pageable, total int) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if p.Size > 0 {
		totalPages = (total + p.Size - 1) / p.Size
	}

	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		PageNumber:    p.Page,
		Size:          p.Size,
	}
}

// Map converts page content while keeping the paging metadata.
func Map[T, R any](page Page[T], fn func(T) R) Page[R] {
	out := make([]R, 0, len(page.Content))
	for _, item := range page.Content {
		out = append(out, fn(item))
	}

	return Page[R]{
		Content:       out,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		PageNumber:    page.PageNumber,
		Size:          page.Size,
	}
}
