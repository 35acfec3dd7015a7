package models

import "sort"

// Customization is a priced or free modifier attached to a line.
// Accompaniment marks a required free choice as opposed to a priced add-on.
type Customization struct {
	ID            string
	Name          string
	Price         int64
	Quantity      int
	Accompaniment bool
}

// CanonicalCustomizations dedupes a customization list by id, keeping the
// first occurrence, and sorts it by id. Equality of customization sets is
// defined over the canonical form so that insertion order never matters.
func CanonicalCustomizations(list []Customization) []Customization {
	seen := make(map[string]struct{}, len(list))
	out := make([]Customization, 0, len(list))

	for _, c := range list {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// EqualCustomizations reports whether two customization lists describe the
// same effective configuration: after canonicalization every
// (id, name, price, quantity, accompaniment) tuple matches pairwise.
func EqualCustomizations(a, b []Customization) bool {
	ca, cb := CanonicalCustomizations(a), CanonicalCustomizations(b)
	if len(ca) != len(cb) {
		return false
	}

	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}

	return true
}
