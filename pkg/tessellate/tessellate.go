// Package tessellate turns a workspace of regions into triangle meshes.
package tessellate

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/chazu/locus/pkg/kernel"
	"github.com/chazu/locus/pkg/region"
)

// Tessellate meshes every bounded region in the workspace with the given
// kernel, preserving workspace order. Unbounded regions are skipped with a
// warning rather than failing the batch; a kernel error on a bounded region
// aborts.
func Tessellate(ws *region.Workspace, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if ws == nil {
		return nil, fmt.Errorf("tessellate: nil workspace")
	}
	if k == nil {
		return nil, fmt.Errorf("tessellate: nil kernel")
	}

	meshes := make([]*kernel.Mesh, 0, ws.Count())
	for _, name := range ws.Names() {
		l := ws.Lookup(name)
		if !kernel.IsBounded(l) {
			log.Warnf("Skipping region %s: unbounded extent cannot be meshed", name)
			continue
		}
		m, err := k.Mesh(l, name)
		if err != nil {
			return nil, fmt.Errorf("tessellate: region %s: %w", name, err)
		}
		if m.IsEmpty() {
			log.Warnf("Region %s produced an empty mesh", name)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}
