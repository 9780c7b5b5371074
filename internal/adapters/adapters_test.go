package adapters

import (
	"errors"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestOperationCategoryOrZero(t *testing.T) {
	if got := (Operation{Key: "install"}).CategoryOrZero(); got != 0 {
		t.Errorf("CategoryOrZero() = %d, want 0", got)
	}
	if got := (Operation{Key: "bookinfo", Category: intPtr(1)}).CategoryOrZero(); got != 1 {
		t.Errorf("CategoryOrZero() = %d, want 1", got)
	}
}

func TestTooltip(t *testing.T) {
	tests := []struct {
		adapter Adapter
		want    string
	}{
		{Adapter{Name: "ISTIO service mesh", Version: "v0.6.0"}, "Meshery Adapter for Istio Service Mesh (v0.6.0)"},
		{Adapter{Name: "meshery-istio", Version: "v0.6.0"}, "Meshery Adapter for Istio (v0.6.0)"},
		{Adapter{Name: "Meshery-Linkerd", Version: "v2.1"}, "Meshery Adapter for Linkerd (v2.1)"},
	}
	for _, tt := range tests {
		if got := tt.adapter.Tooltip(); got != tt.want {
			t.Errorf("Tooltip(%q) = %q, want %q", tt.adapter.Name, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"meshery-istio":     "Istio",
		"istio":             "Istio",
		"meshery-app-mesh":  "App-mesh",
		"meshery-":          "Meshery-",
		"open service mesh": "Open Service Mesh",
	}
	for in, want := range tests {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindByPort(t *testing.T) {
	list := []Adapter{
		{Name: "Istio", Port: "10000"},
		{Name: "Linkerd", Port: "10001"},
	}

	a, ok := FindByPort(list, "10001")
	if !ok || a.Name != "Linkerd" {
		t.Errorf("FindByPort(10001) = %+v, %v", a, ok)
	}
	if _, ok := FindByPort(list, "9999"); ok {
		t.Error("FindByPort(9999) should miss")
	}
	if _, ok := FindByPort(nil, "10000"); ok {
		t.Error("FindByPort on nil list should miss")
	}
}

func TestCountByName(t *testing.T) {
	list := []Adapter{
		{Name: "Istio", Port: "10000"},
		{Name: "Istio", Port: "10100"},
		{Name: "Linkerd", Port: "10001"},
	}
	if got := CountByName(list, "Istio"); got != 2 {
		t.Errorf("CountByName(Istio) = %d, want 2", got)
	}
	if got := CountByName(list, "Kuma"); got != 0 {
		t.Errorf("CountByName(Kuma) = %d, want 0", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := []Adapter{{Name: "Istio", Ops: []Operation{{Key: "a", Category: intPtr(2)}}}}
	cp := Clone(orig)

	*cp[0].Ops[0].Category = 7
	cp[0].Name = "changed"

	if *orig[0].Ops[0].Category != 2 {
		t.Error("Clone shares operation categories with the original")
	}
	if orig[0].Name != "Istio" {
		t.Error("Clone shares adapter structs with the original")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestSplitTarget(t *testing.T) {
	tests := []struct {
		target   string
		wantHost string
		wantPort string
	}{
		{"localhost:10000", "localhost", "10000"},
		{"meshery-istio:10000", "meshery-istio", "10000"},
		{"[::1]:10000", "::1", "10000"},
		{"a:b:c", "", ""},
		{"10000", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			host, port := SplitTarget(tt.target)
			if host != tt.wantHost || port != tt.wantPort {
				t.Errorf("SplitTarget(%q) = %q, %q, want %q, %q", tt.target, host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestNormalizeLocation(t *testing.T) {
	tests := map[string]string{
		"localhost:10000":            "localhost:10000",
		" http://mesh.local:10002/ ": "mesh.local:10002",
		"meshery-istio":              "localhost:10000",
		"unknown":                    "unknown",
	}
	for in, want := range tests {
		if got := NormalizeLocation(in); got != want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCatalog(t *testing.T) {
	t.Run("Lookup known", func(t *testing.T) {
		k, err := Lookup("meshery-istio")
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if k.Port != "10000" || k.Location() != "localhost:10000" {
			t.Errorf("Lookup() = %+v", k)
		}
	})

	t.Run("Lookup unknown", func(t *testing.T) {
		_, err := Lookup("meshery-nope")
		if !errors.Is(err, ErrUnknownAdapter) {
			t.Errorf("Lookup() error = %v, want ErrUnknownAdapter", err)
		}
	})

	t.Run("Catalog keeps registration order", func(t *testing.T) {
		list := Catalog()
		if len(list) != 13 {
			t.Fatalf("Catalog() len = %d, want 13", len(list))
		}
		if list[0].Name != "meshery-istio" || list[len(list)-1].Name != "meshery-cilium" {
			t.Errorf("Catalog() order = %s ... %s", list[0].Name, list[len(list)-1].Name)
		}
	})
}

func TestResolvePort(t *testing.T) {
	tests := []struct {
		name    string
		adapter string
		target  string
		want    string
		wantErr bool
	}{
		{"target with host", "", "localhost:10007", "10007", false},
		{"bare port target", "", "10007", "10007", false},
		{"catalog default", "meshery-linkerd", "", "10001", false},
		{"unknown name", "meshery-nope", "", "", true},
		{"nothing given", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePort(tt.adapter, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolvePort() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolvePort() = %q, want %q", got, tt.want)
			}
		})
	}
}
