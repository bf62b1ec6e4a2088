// Package category holds the catalog of transaction categories and their
// trigger keywords. The catalog is reference data: loaded once, read-only
// afterwards, shared by the rule-based parser and by validation of model output.
package category

import (
	"strings"

	"github.com/xiello/tracy/internal/domain"
)

// Fallback display names used when nothing in the catalog matches.
const (
	FallbackExpense = "Other"
	FallbackIncome  = "Other Income"
)

// Definition describes one category.
type Definition struct {
	ID       string
	Name     string
	Type     domain.TransactionType
	Group    string
	Keywords []string
}

// Catalog is an ordered, immutable set of category definitions.
// Order matters: keyword matching is first-match-in-declared-order.
type Catalog struct {
	defs   []Definition
	byName map[string]Definition // normalized name -> definition
}

// NewCatalog builds a catalog from definitions, preserving their order.
func NewCatalog(defs []Definition) *Catalog {
	c := &Catalog{
		defs:   make([]Definition, len(defs)),
		byName: make(map[string]Definition, len(defs)),
	}
	copy(c.defs, defs)
	for _, d := range defs {
		c.byName[normalize(d.Name)] = d
	}
	return c
}

// All returns every definition in catalog order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// ForType returns the definitions of the given type, in catalog order.
func (c *Catalog) ForType(t domain.TransactionType) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// Names returns the display names for the given type, in catalog order.
// Used to constrain model output to known categories.
func (c *Catalog) Names(t domain.TransactionType) []string {
	var out []string
	for _, d := range c.defs {
		if d.Type == t {
			out = append(out, d.Name)
		}
	}
	return out
}

// ByName looks up a definition by display name, case-insensitively.
func (c *Catalog) ByName(name string) (Definition, bool) {
	d, ok := c.byName[normalize(name)]
	return d, ok
}

// Fallback returns the type-specific "Other" category.
func (c *Catalog) Fallback(t domain.TransactionType) Definition {
	name := FallbackExpense
	if t == domain.TypeIncome {
		name = FallbackIncome
	}
	if d, ok := c.ByName(name); ok {
		return d
	}
	// Catalog without fallback rows is a configuration bug; synthesize one so
	// the parse invariant (category always resolvable) still holds.
	return Definition{Name: name, Type: t}
}

// Resolve maps an arbitrary category string to a definition of the given type.
// Lookup order: exact case-insensitive match, then containment either way,
// then the type-specific fallback. Model output goes through this so that no
// uncontrolled string reaches storage.
func (c *Catalog) Resolve(name string, t domain.TransactionType) Definition {
	norm := normalize(name)
	if norm != "" {
		if d, ok := c.byName[norm]; ok && d.Type == t {
			return d
		}
		for _, d := range c.defs {
			if d.Type != t {
				continue
			}
			dn := normalize(d.Name)
			if strings.Contains(dn, norm) || strings.Contains(norm, dn) {
				return d
			}
		}
	}
	return c.Fallback(t)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
