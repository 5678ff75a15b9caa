// Package region manages collections of named loci: an insertion-ordered
// workspace produced by script evaluation, pre-construction diagnostics for
// polygon corner lists, and an r-tree spatial index for point queries over
// many regions.
package region

import (
	"fmt"

	"github.com/chazu/locus/pkg/locus"
)

// Workspace is an insertion-ordered registry of named regions, the product
// of evaluating a script. It is never mutated after evaluation; each
// evaluation produces a new workspace.
type Workspace struct {
	byName map[string]locus.Locus
	order  []string
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{byName: make(map[string]locus.Locus)}
}

// Add registers a region under the given name. Re-adding a name replaces the
// region but keeps its original position.
func (w *Workspace) Add(name string, l locus.Locus) error {
	if name == "" {
		return fmt.Errorf("region: region name must not be empty")
	}
	if l == nil {
		return fmt.Errorf("region: region %q must not be nil", name)
	}
	if _, ok := w.byName[name]; !ok {
		w.order = append(w.order, name)
	}
	w.byName[name] = l
	return nil
}

// Lookup returns the region with the given name, or nil.
func (w *Workspace) Lookup(name string) locus.Locus {
	return w.byName[name]
}

// MustLookup returns the region with the given name, or panics.
func (w *Workspace) MustLookup(name string) locus.Locus {
	l := w.Lookup(name)
	if l == nil {
		panic(fmt.Sprintf("region: no region named %q", name))
	}
	return l
}

// Names returns the region names in insertion order.
func (w *Workspace) Names() []string {
	return append([]string(nil), w.order...)
}

// Count returns the number of regions.
func (w *Workspace) Count() int {
	return len(w.byName)
}
