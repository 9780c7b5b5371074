// Package adapters holds the mesh adapter domain types shared by the
// client, the discovery fetcher, the state store and the views.
package adapters

import (
	"fmt"
	"net"
	"strings"
)

// Operation is one operation an adapter declares it supports.
// Category is nil when the adapter did not send one.
type Operation struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Category *int   `json:"category,omitempty"`
}

// CategoryOrZero returns the operation category, treating a missing one as 0.
func (o Operation) CategoryOrZero() int {
	if o.Category == nil {
		return 0
	}
	return *o.Category
}

// Adapter is a mesh adapter as the server reports it.
type Adapter struct {
	Name     string      `json:"name"`
	Version  string      `json:"version"`
	Location string      `json:"adapter_location"`
	Port     string      `json:"adapter_port"`
	UniqueID string      `json:"uniqueID"`
	Ops      []Operation `json:"ops,omitempty"`
}

// Tooltip renders the chip tooltip, e.g. "Meshery Adapter for Istio (v0.6.0)".
func (a Adapter) Tooltip() string {
	return fmt.Sprintf("Meshery Adapter for %s (%s)", DisplayName(a.Name), a.Version)
}

// Option is the UI projection of an adapter plus its probe result.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Pingable bool   `json:"pingable"`
}

// FindByPort returns the adapter whose adapter_port equals port.
func FindByPort(list []Adapter, port string) (Adapter, bool) {
	for _, a := range list {
		if a.Port == port {
			return a, true
		}
	}
	return Adapter{}, false
}

// CountByName counts the adapters in list sharing name.
func CountByName(list []Adapter, name string) int {
	n := 0
	for _, a := range list {
		if a.Name == name {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of list.
func Clone(list []Adapter) []Adapter {
	if list == nil {
		return nil
	}
	out := make([]Adapter, len(list))
	for i, a := range list {
		out[i] = a
		if a.Ops != nil {
			out[i].Ops = make([]Operation, len(a.Ops))
			for j, op := range a.Ops {
				out[i].Ops[j] = op
				if op.Category != nil {
					c := *op.Category
					out[i].Ops[j].Category = &c
				}
			}
		}
	}
	return out
}

// CloneOptions returns a copy of opts.
func CloneOptions(opts []Option) []Option {
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

// TitleCase lower-cases name and upper-cases the first letter of each
// space separated word.
func TitleCase(name string) string {
	words := strings.Split(strings.ToLower(name), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DisplayName is the title-cased adapter name without the "meshery-"
// image prefix, so "meshery-istio" shows as "Istio".
func DisplayName(name string) string {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "meshery-")
	if trimmed == "" {
		trimmed = name
	}
	return TitleCase(trimmed)
}

// SplitTarget splits a "host:port" target. Targets net.SplitHostPort
// rejects yield an empty host and port.
func SplitTarget(target string) (host, port string) {
	host, port, err := net.SplitHostPort(target)
	if err != nil {
		return "", ""
	}
	return host, port
}
