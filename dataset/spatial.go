package dataset

import (
	"iter"
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/thomhuang/zipgeo/geo"
)

const (
	// 2D for lon/lat
	treeDim         = 2
	treeMinChildren = 25
	treeMaxChildren = 50

	// points are stored as tiny squares, rtreego doesn't take zero sized rects
	pointTolerance = 1e-9
)

// postalCodeItem is what lives in the R-tree: the record's point and its
// position in the index.
type postalCodeItem struct {
	rect rtreego.Rect
	seq  int
}

func (p *postalCodeItem) Bounds() rtreego.Rect {
	return p.rect
}

func (ix *Index) buildTree() {
	items := make([]rtreego.Spatial, 0, len(ix.records))
	for i, r := range ix.records {
		c := r.Coordinates()
		if !c.Valid() {
			ix.loose = append(ix.loose, i)
			continue
		}
		point := rtreego.Point{c.Longitude, c.Latitude}
		// rect, but essentially storing points
		rect, err := rtreego.NewRect(point, []float64{pointTolerance, pointTolerance})
		if err != nil {
			ix.loose = append(ix.loose, i)
			continue
		}
		items = append(items, &postalCodeItem{rect: rect, seq: i})
	}
	// bulk load
	ix.tree = rtreego.NewTree(treeDim, treeMinChildren, treeMaxChildren, items...)
}

// Near yields, in stored order, every record that could be within km of
// center. It is a superset: callers still have to check the exact distance.
// When the circle can't be covered by one rectangle every record is yielded.
func (ix *Index) Near(center geo.Coordinates, km float64) iter.Seq[Record] {
	b, ok := geo.SearchBounds(center, km)
	if !ok {
		return ix.All()
	}

	searchRect, err := rtreego.NewRect(
		rtreego.Point{b.MinLon, b.MinLat},
		[]float64{b.MaxLon - b.MinLon, b.MaxLat - b.MinLat},
	)
	if err != nil {
		return ix.All()
	}

	hits := ix.tree.SearchIntersect(searchRect)
	seqs := make([]int, 0, len(hits)+len(ix.loose))
	for _, hit := range hits {
		// cast from `Spatial` to our item
		seqs = append(seqs, hit.(*postalCodeItem).seq)
	}
	seqs = append(seqs, ix.loose...)
	// tree order is arbitrary, callers expect dataset order
	slices.Sort(seqs)

	return func(yield func(Record) bool) {
		for _, i := range seqs {
			if !yield(ix.records[i]) {
				return
			}
		}
	}
}
