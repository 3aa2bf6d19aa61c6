// Package headers provides an ordered, duplicate-preserving header container.
//
// Names are stored exactly as received from the transport while lookups are
// case-insensitive, matching HTTP semantics.
package headers

import (
	"net/http"
	"strings"
)

// Header is a single name/value pair as seen on the wire
type Header struct {
	Name  string
	Value string
}

// Headers keeps headers in insertion order and allows repeated names
type Headers struct {
	entries []Header
}

// New creates an empty container with room for n entries
func New(n int) *Headers {
	return &Headers{entries: make([]Header, 0, n)}
}

// FromHTTP copies a net/http header map. The map carries no wire order, so
// names are emitted in canonical sorted order with per-name value order kept.
func FromHTTP(h http.Header) *Headers {
	out := New(len(h))
	for _, name := range sortedKeys(h) {
		for _, value := range h[name] {
			out.Add(name, value)
		}
	}
	return out
}

// Add appends a header, keeping any existing entries with the same name
func (h *Headers) Add(name, value string) {
	h.entries = append(h.entries, Header{Name: name, Value: value})
}

// Set replaces all entries named name with a single one at the position of
// the first match, or appends it when absent
func (h *Headers) Set(name, value string) {
	idx := -1
	kept := h.entries[:0]
	for _, e := range h.entries {
		if strings.EqualFold(e.Name, name) {
			if idx < 0 {
				idx = len(kept)
				kept = append(kept, Header{Name: e.Name, Value: value})
			}
			continue
		}
		kept = append(kept, e)
	}
	h.entries = kept
	if idx < 0 {
		h.Add(name, value)
	}
}

// Get returns the first value for name
func (h *Headers) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Lookup returns the first value for name and whether it was present
func (h *Headers) Lookup(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	for _, e := range h.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Value, true
		}
	}
	return "", false
}

// Values returns every value for name in wire order
func (h *Headers) Values(name string) []string {
	if h == nil {
		return nil
	}
	var values []string
	for _, e := range h.entries {
		if strings.EqualFold(e.Name, name) {
			values = append(values, e.Value)
		}
	}
	return values
}

// Has reports whether at least one entry named name exists
func (h *Headers) Has(name string) bool {
	_, ok := h.Lookup(name)
	return ok
}

// Del removes every entry named name
func (h *Headers) Del(name string) {
	kept := h.entries[:0]
	for _, e := range h.entries {
		if !strings.EqualFold(e.Name, name) {
			kept = append(kept, e)
		}
	}
	h.entries = kept
}

// Len returns the number of entries, duplicates included
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// All returns a copy of the entries in insertion order
func (h *Headers) All() []Header {
	if h == nil {
		return nil
	}
	out := make([]Header, len(h.entries))
	copy(out, h.entries)
	return out
}

// Names returns distinct names in order of first appearance
func (h *Headers) Names() []string {
	if h == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(h.entries))
	names := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		key := strings.ToLower(e.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, e.Name)
	}
	return names
}

// Each calls fn for every entry in order
func (h *Headers) Each(fn func(name, value string)) {
	if h == nil {
		return
	}
	for _, e := range h.entries {
		fn(e.Name, e.Value)
	}
}

// HTTP converts to a net/http header map
func (h *Headers) HTTP() http.Header {
	out := make(http.Header, h.Len())
	h.Each(func(name, value string) {
		out.Add(name, value)
	})
	return out
}

// Map returns the first value of each header, keyed by the stored name
func (h *Headers) Map() map[string]string {
	out := make(map[string]string, h.Len())
	for _, name := range h.Names() {
		out[name] = h.Get(name)
	}
	return out
}
