// Package play groups a selected adapter's operations by category.
package play

import (
	"fmt"
	"sort"

	"adapterctl/internal/adapters"
)

// Category names known to Meshery adapters
var categoryNames = map[int]string{
	0: "Install",
	1: "Sample Application",
	2: "Configuration",
	3: "Validation",
	4: "Custom",
}

// CategoryName returns the display name of category.
func CategoryName(category int) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return fmt.Sprintf("Category %d", category)
}

// Group is the operations of one category.
type Group struct {
	Category int                  `json:"category"`
	Name     string               `json:"name"`
	Ops      []adapters.Operation `json:"ops"`
}

// Categories returns the distinct categories of ops in ascending order.
// Operations without a category count as 0.
func Categories(ops []adapters.Operation) []int {
	seen := make(map[int]bool)
	var out []int
	for _, op := range ops {
		c := op.CategoryOrZero()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}

// Groups returns one group per category, operations in declared order.
func Groups(ops []adapters.Operation) []Group {
	cats := Categories(ops)
	groups := make([]Group, 0, len(cats))
	for _, c := range cats {
		g := Group{Category: c, Name: CategoryName(c)}
		for _, op := range ops {
			if op.CategoryOrZero() == c {
				g.Ops = append(g.Ops, op)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// Summary describes the selected adapter for the play view header.
type Summary struct {
	Adapter adapters.Adapter `json:"adapter"`
	Count   int              `json:"count"`
	Groups  []Group          `json:"groups"`
}

// Summarize builds the play view for the adapter at port. Count is the number
// of adapters in list that share its name.
func Summarize(list []adapters.Adapter, port string) (Summary, bool) {
	a, ok := adapters.FindByPort(list, port)
	if !ok {
		return Summary{}, false
	}
	return Summary{
		Adapter: a,
		Count:   adapters.CountByName(list, a.Name),
		Groups:  Groups(a.Ops),
	}, true
}
