package play

import (
	"sort"
	"testing"

	"adapterctl/internal/adapters"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func cat(n int) *int { return &n }

func TestCategories(t *testing.T) {
	tests := []struct {
		name string
		ops  []adapters.Operation
		want []int
	}{
		{"empty", nil, nil},
		{"missing category counts as zero", []adapters.Operation{{Key: "a"}, {Key: "b", Category: cat(0)}}, []int{0}},
		{"sorted numerically", []adapters.Operation{
			{Key: "a", Category: cat(10)},
			{Key: "b", Category: cat(2)},
			{Key: "c", Category: cat(1)},
			{Key: "d", Category: cat(2)},
		}, []int{1, 2, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categories(tt.ops)
			if len(got) != len(tt.want) {
				t.Fatalf("Categories() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Categories() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestGroups(t *testing.T) {
	ops := []adapters.Operation{
		{Key: "custom", Value: "Custom YAML", Category: cat(4)},
		{Key: "istio_install", Value: "Istio"},
		{Key: "bookinfo", Value: "Book Info", Category: cat(1)},
		{Key: "mtls", Value: "mTLS", Category: cat(0)},
	}

	groups := Groups(ops)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Name != "Install" || len(groups[0].Ops) != 2 {
		t.Errorf("group 0 = %+v", groups[0])
	}
	if groups[0].Ops[0].Key != "istio_install" || groups[0].Ops[1].Key != "mtls" {
		t.Errorf("install group order = %+v", groups[0].Ops)
	}
	if groups[1].Name != "Sample Application" || groups[2].Name != "Custom" {
		t.Errorf("group names = %s, %s", groups[1].Name, groups[2].Name)
	}
}

func TestCategoryName(t *testing.T) {
	tests := map[int]string{
		0: "Install",
		1: "Sample Application",
		2: "Configuration",
		3: "Validation",
		4: "Custom",
		7: "Category 7",
	}
	for c, want := range tests {
		if got := CategoryName(c); got != want {
			t.Errorf("CategoryName(%d) = %q, want %q", c, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	list := []adapters.Adapter{
		{Name: "istio", Port: "10000", Ops: []adapters.Operation{{Key: "a"}}},
		{Name: "istio", Port: "10100"},
		{Name: "linkerd", Port: "10001"},
	}

	s, ok := Summarize(list, "10000")
	if !ok {
		t.Fatal("Summarize() did not find adapter")
	}
	if s.Count != 2 {
		t.Errorf("Count = %d, want 2", s.Count)
	}
	if len(s.Groups) != 1 || s.Groups[0].Name != "Install" {
		t.Errorf("Groups = %+v", s.Groups)
	}

	if _, ok := Summarize(list, "1"); ok {
		t.Error("Summarize() found an unknown port")
	}
}

func TestPropertyCategories(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	toOps := func(cats []int) []adapters.Operation {
		ops := make([]adapters.Operation, len(cats))
		for i, c := range cats {
			if c < 0 {
				continue
			}
			ops[i] = adapters.Operation{Key: "op", Category: cat(c)}
		}
		return ops
	}

	properties.Property("categories are sorted and distinct", prop.ForAll(
		func(cats []int) bool {
			got := Categories(toOps(cats))
			if !sort.IntsAreSorted(got) {
				return false
			}
			for i := 1; i < len(got); i++ {
				if got[i] == got[i-1] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-1, 12)),
	))

	properties.Property("groups partition the operations", prop.ForAll(
		func(cats []int) bool {
			ops := toOps(cats)
			total := 0
			for _, g := range Groups(ops) {
				for _, op := range g.Ops {
					if op.CategoryOrZero() != g.Category {
						return false
					}
				}
				total += len(g.Ops)
			}
			return total == len(ops)
		},
		gen.SliceOf(gen.IntRange(-1, 12)),
	))

	properties.TestingRun(t)
}
