package gatewayproxy

import "sort"

// Route maps one path prefix to a downstream target (spec §4.5 "a declarative table maps each
// incoming path prefix to a downstream service target").
type Route struct {
	Prefix string
	Target string
	// Rewrite, if set, replaces Prefix with this value on the proxied request path.
	Rewrite string
	// Filter, if set, excludes requests for which it returns false from matching this route even
	// though the prefix matches (spec §4.5 "optionally ... a path filter predicate").
	Filter func(path string) bool
}

// RouteTable resolves an incoming path to a Route, most-specific-prefix-first (spec §4.5
// "constructs one proxy pipeline per prefix, ordered most-specific first").
type RouteTable struct {
	routes []Route
}

// NewRouteTable returns a RouteTable sorted most-specific-prefix-first.
func NewRouteTable(routes []Route) *RouteTable {
	sorted := make([]Route, len(routes))
	copy(sorted, routes)

	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})

	return &RouteTable{routes: sorted}
}

// Resolve returns the first (most specific) route whose prefix matches path and whose Filter (if
// any) accepts it.
func (t *RouteTable) Resolve(path string) (Route, bool) {
	for _, r := range t.routes {
		if !hasPrefix(path, r.Prefix) {
			continue
		}

		if r.Filter != nil && !r.Filter(path) {
			continue
		}

		return r, true
	}

	return Route{}, false
}

func hasPrefix(path, prefix string) bool {
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}

// RewritePath applies r.Rewrite to path, replacing the matched prefix. A route without a
// Rewrite forwards the original path unchanged.
func (r Route) RewritePath(path string) string {
	if r.Rewrite == "" {
		return path
	}

	return r.Rewrite + path[len(r.Prefix):]
}
