package adapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"adapterctl/internal/utils"
)

// ErrUnknownAdapter is returned when a catalog lookup misses.
var ErrUnknownAdapter = errors.New("unknown adapter")

// Known describes an adapter Meshery ships, with its default port.
type Known struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Port string `json:"port"`
}

// Location returns host:port.
func (k Known) Location() string {
	return k.Host + ":" + k.Port
}

// registry stores the known adapters by name
var registry = make(map[string]Known)

// order keeps registration order for listing
var order []string

// Register adds an adapter to the catalog, replacing any entry with the same name.
func Register(k Known) {
	if _, ok := registry[k.Name]; !ok {
		order = append(order, k.Name)
	}
	registry[k.Name] = k
}

// Lookup returns the known adapter with the given name.
func Lookup(name string) (Known, error) {
	k, ok := registry[name]
	if !ok {
		return Known{}, fmt.Errorf("%w: %s", ErrUnknownAdapter, name)
	}
	return k, nil
}

// Catalog lists the known adapters in registration order.
func Catalog() []Known {
	out := make([]Known, 0, len(order))
	for _, name := range order {
		out = append(out, registry[name])
	}
	return out
}

// Names returns the sorted catalog names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvePort returns target's port, falling back to the catalog default
// port for name when target does not carry one.
func ResolvePort(name, target string) (string, error) {
	if target != "" {
		if _, port := SplitTarget(target); port != "" {
			return port, nil
		}
		return target, nil
	}
	if name == "" {
		return "", errors.New("either the adapter name or target port must be provided")
	}
	k, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return k.Port, nil
}

// NormalizeLocation accepts host:port, a pasted adapter URL or a catalog
// name and returns host:port.
func NormalizeLocation(arg string) string {
	loc := strings.TrimSpace(arg)
	if !strings.Contains(loc, ":") {
		if k, err := Lookup(loc); err == nil {
			return k.Location()
		}
	}
	return utils.StripScheme(loc)
}

func init() {
	for _, k := range []Known{
		{Name: "meshery-istio", Host: "localhost", Port: "10000"},
		{Name: "meshery-linkerd", Host: "localhost", Port: "10001"},
		{Name: "meshery-consul", Host: "localhost", Port: "10002"},
		{Name: "meshery-octarine", Host: "localhost", Port: "10003"},
		{Name: "meshery-nsm", Host: "localhost", Port: "10004"},
		{Name: "meshery-app-mesh", Host: "localhost", Port: "10005"},
		{Name: "meshery-traefik-mesh", Host: "localhost", Port: "10006"},
		{Name: "meshery-kuma", Host: "localhost", Port: "10007"},
		{Name: "meshery-citrix", Host: "localhost", Port: "10008"},
		{Name: "meshery-osm", Host: "localhost", Port: "10009"},
		{Name: "meshery-nginx", Host: "localhost", Port: "10010"},
		{Name: "meshery-tanzu", Host: "localhost", Port: "10011"},
		{Name: "meshery-cilium", Host: "localhost", Port: "10012"},
	} {
		Register(k)
	}
}
