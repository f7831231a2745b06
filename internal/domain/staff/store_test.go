package staff

import (
	"strings"
	"testing"
)

func TestCatalogWhereComposesPredicates(t *testing.T) {
	liveIn := true
	where, args := catalogWhere(Filter{
		Query:         "ami",
		Role:          "housekeeper",
		Location:      "Lagos",
		Skill:         "cooking",
		MinAge:        21,
		MaxSalary:     60000,
		Accommodation: &liveIn,
	}, "client-1")

	if !strings.HasPrefix(where, "status = 'active'") {
		t.Fatalf("catalog must always restrict to active staff: %s", where)
	}
	for _, fragment := range []string{"ILIKE", "role =", "LOWER(location)", "ANY(skills)", "age >=", "salary <=", "accommodation =", "NOT EXISTS"} {
		if !strings.Contains(where, fragment) {
			t.Fatalf("missing %q in clause: %s", fragment, where)
		}
	}
	// query, role, location, skill, minAge, maxSalary, accommodation, clientID
	if len(args) != 8 {
		t.Fatalf("expected 8 bound args, got %d: %v", len(args), args)
	}
	if args[len(args)-1] != "client-1" {
		t.Fatalf("interview exclusion must bind the acting client last, got %v", args[len(args)-1])
	}
}

func TestCatalogWhereEmptyFilter(t *testing.T) {
	where, args := catalogWhere(Filter{}, "")
	if where != "status = 'active'" {
		t.Fatalf("empty filter should only gate on status, got %s", where)
	}
	if len(args) != 0 {
		t.Fatalf("empty filter binds no args, got %v", args)
	}
}
