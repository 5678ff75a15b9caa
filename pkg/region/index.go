package region

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/dhconnelly/rtreego"

	"github.com/chazu/locus/pkg/locus"
)

// Compile-time interface check.
var _ rtreego.Spatial = (*Entry)(nil)

// Index accelerates point queries over many regions with an r-tree over
// their bounding boxes. A box hit is only a candidate; ContainingPoint
// re-checks each candidate with the exact containment test.
type Index struct {
	tree *rtreego.Rtree
}

// Entry pairs a named locus with the rectangle registered in the tree.
type Entry struct {
	Name  string
	Locus locus.Locus
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *Entry) Bounds() rtreego.Rect {
	return e.rect
}

// clampExtent is substituted for infinite bounding-box extents so unbounded
// regions still participate in queries near the origin.
const clampExtent = 1e9

// minExtent keeps degenerate (flat) boxes legal for rtreego, which rejects
// zero-length rectangle sides.
const minExtent = 1e-6

// NewIndex builds an empty 3-D index.
func NewIndex() *Index {
	return &Index{tree: rtreego.NewTree(3, 2, 25)}
}

// Insert registers a locus under a name. Loci with partially infinite
// bounds are clamped to a large finite box.
func (ix *Index) Insert(name string, l locus.Locus) (*Entry, error) {
	if l == nil {
		return nil, fmt.Errorf("index: nil locus for %q", name)
	}
	rect, err := rectFor(l.Bounds())
	if err != nil {
		return nil, fmt.Errorf("index: %q: %w", name, err)
	}
	e := &Entry{Name: name, Locus: l, rect: rect}
	ix.tree.Insert(e)
	return e, nil
}

// Delete removes a previously inserted entry. It reports whether the entry
// was found.
func (ix *Index) Delete(e *Entry) bool {
	return ix.tree.Delete(e)
}

// Count returns the number of indexed entries.
func (ix *Index) Count() int {
	return ix.tree.Size()
}

// ContainingPoint returns every entry whose locus contains p, using the tree
// to prune and the exact test to confirm.
func (ix *Index) ContainingPoint(p math32.Vector3) []*Entry {
	probe, err := rtreego.NewRect(
		rtreego.Point{float64(p.X), float64(p.Y), float64(p.Z)},
		[]float64{minExtent, minExtent, minExtent})
	if err != nil {
		return nil
	}
	var hits []*Entry
	for _, s := range ix.tree.SearchIntersect(probe) {
		e := s.(*Entry)
		if e.Locus.Contains(p) {
			hits = append(hits, e)
		}
	}
	return hits
}

// NearestTo returns the entry whose bounding box is nearest to p, or nil if
// the index is empty. Nearness is box distance, not exact locus distance;
// callers needing the latter should rank the candidates themselves.
func (ix *Index) NearestTo(p math32.Vector3) *Entry {
	s := ix.tree.NearestNeighbor(rtreego.Point{float64(p.X), float64(p.Y), float64(p.Z)})
	if s == nil {
		return nil
	}
	return s.(*Entry)
}

func rectFor(b math32.Box3) (rtreego.Rect, error) {
	lo := clampVec(b.Min, -clampExtent)
	hi := clampVec(b.Max, clampExtent)
	point := rtreego.Point{float64(lo.X), float64(lo.Y), float64(lo.Z)}
	lengths := []float64{
		extent(lo.X, hi.X),
		extent(lo.Y, hi.Y),
		extent(lo.Z, hi.Z),
	}
	return rtreego.NewRect(point, lengths)
}

func clampVec(v math32.Vector3, limit float32) math32.Vector3 {
	return math32.Vec3(clampCoord(v.X, limit), clampCoord(v.Y, limit), clampCoord(v.Z, limit))
}

func clampCoord(x, limit float32) float32 {
	if math32.IsNaN(x) {
		return limit
	}
	if limit < 0 {
		return math32.Max(x, limit)
	}
	return math32.Min(x, limit)
}

func extent(lo, hi float32) float64 {
	d := float64(hi) - float64(lo)
	if d < minExtent {
		return minExtent
	}
	return d
}
