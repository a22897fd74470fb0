package gatewayproxy

import "testing"

func TestRouteTable_ResolvesMostSpecificPrefixFirst(t *testing.T) {
	table := NewRouteTable([]Route{
		{Prefix: "/api", Target: "http://general"},
		{Prefix: "/api/students", Target: "http://students"},
	})

	route, ok := table.Resolve("/api/students/42")
	if !ok {
		t.Fatalf("expected a match")
	}

	if route.Target != "http://students" {
		t.Fatalf("expected most specific route, got target %q", route.Target)
	}
}

func TestRouteTable_FallsBackToLessSpecificPrefix(t *testing.T) {
	table := NewRouteTable([]Route{
		{Prefix: "/api", Target: "http://general"},
		{Prefix: "/api/students", Target: "http://students"},
	})

	route, ok := table.Resolve("/api/trainers/7")
	if !ok {
		t.Fatalf("expected a match")
	}

	if route.Target != "http://general" {
		t.Fatalf("expected fallback route, got target %q", route.Target)
	}
}

func TestRouteTable_NoMatch(t *testing.T) {
	table := NewRouteTable([]Route{{Prefix: "/api", Target: "http://general"}})

	if _, ok := table.Resolve("/health"); ok {
		t.Fatalf("expected no match")
	}
}

func TestRouteTable_FilterExcludesOtherwiseMatchingRoute(t *testing.T) {
	table := NewRouteTable([]Route{
		{
			Prefix: "/api/students",
			Target: "http://internal-only",
			Filter: func(path string) bool { return false },
		},
		{Prefix: "/api", Target: "http://general"},
	})

	route, ok := table.Resolve("/api/students/42")
	if !ok {
		t.Fatalf("expected a match")
	}

	if route.Target != "http://general" {
		t.Fatalf("expected filtered route skipped in favor of fallback, got target %q", route.Target)
	}
}

func TestRoute_RewritePath(t *testing.T) {
	r := Route{Prefix: "/api/students", Rewrite: "/students"}

	got := r.RewritePath("/api/students/42")
	if got != "/students/42" {
		t.Fatalf("expected /students/42, got %q", got)
	}
}

func TestRoute_RewritePathEmptyLeavesPathUnchanged(t *testing.T) {
	r := Route{Prefix: "/api/students"}

	got := r.RewritePath("/api/students/42")
	if got != "/api/students/42" {
		t.Fatalf("expected unchanged path, got %q", got)
	}
}
