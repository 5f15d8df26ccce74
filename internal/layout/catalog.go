package layout

import "fmt"

// Catalog is an ordered collection of named layout sets.
type Catalog struct {
	order []string
	sets  map[string]*Set
}

// NewCatalog validates and registers sets in order. A later set with the
// same name replaces the earlier one but keeps its position.
func NewCatalog(sets ...Set) (*Catalog, error) {
	c := &Catalog{sets: make(map[string]*Set, len(sets))}
	for _, s := range sets {
		if err := c.Add(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add validates s and registers it.
func (c *Catalog) Add(s Set) error {
	if s.Name == "" {
		return fmt.Errorf("layout set has no name")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if _, exists := c.sets[s.Name]; !exists {
		c.order = append(c.order, s.Name)
	}
	set := s
	c.sets[s.Name] = &set
	return nil
}

// Get returns the set registered as name.
func (c *Catalog) Get(name string) (*Set, bool) {
	s, ok := c.sets[name]
	return s, ok
}

// Names returns set names in registration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of registered sets.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Resolve maps names to sets, skipping unknown names. It returns the
// unknown names separately so callers can report them.
func (c *Catalog) Resolve(names []string) ([]*Set, []string) {
	var out []*Set
	var missing []string
	for _, n := range names {
		if s, ok := c.sets[n]; ok {
			out = append(out, s)
			continue
		}
		missing = append(missing, n)
	}
	return out, missing
}
