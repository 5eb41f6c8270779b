// AngelaMos | 2026
// namespaces.go

package cache

import (
	"context"
	"slices"
)

const (
	Users         = "users"
	States        = "states"
	Cities        = "cities"
	Neighborhoods = "neighborhoods"
	Locations     = "locations"
	Organizations = "organizations"
	Complaints    = "complaints"
	Followups     = "followups"
)

// dependents lists, per namespace, the namespaces whose listings embed its
// names through joins.
var dependents = map[string][]string{
	Users:         {Complaints},
	States:        {Cities, Neighborhoods, Locations, Complaints},
	Cities:        {Neighborhoods, Locations, Complaints},
	Neighborhoods: {Locations, Complaints},
	Locations:     {Complaints},
	Organizations: {Complaints},
	Complaints:    {Followups},
	Followups:     nil,
}

func Namespaces() []string {
	out := make([]string, 0, len(dependents))
	for ns := range dependents {
		out = append(out, ns)
	}
	slices.Sort(out)
	return out
}

func IsNamespace(ns string) bool {
	_, ok := dependents[ns]
	return ok
}

// Affected returns ns followed by every namespace that embeds it.
func Affected(ns string) []string {
	return append([]string{ns}, dependents[ns]...)
}

// InvalidateResource drops the listings of ns and of its dependents.
func (c *Cache) InvalidateResource(ctx context.Context, ns string) error {
	return c.Invalidate(ctx, Affected(ns)...)
}
