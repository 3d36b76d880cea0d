/*
Copyright © 2026 the Tessellate authors.
This file is part of Tessellate.

Tessellate is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Tessellate is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Tessellate.  If not, see <http://www.gnu.org/licenses/>.
*/

package kdtree

import (
	"encoding/binary"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// depthCap bounds the recursion regardless of the configured limits, so
// coincident points cannot subdivide forever. Lattice coordinates at this
// depth still fit comfortably in an int64.
const depthCap = 40

// A dichotomy recursively halves a hypercubic region along every axis until
// per-node point counts or edge-length bounds are satisfied. Node origins are
// kept on an integer lattice whose unit is the root edge divided by 2^depthCap,
// so geometrically coincident faces of different nodes have bit-identical
// coordinates and can be matched by exact key lookup.
type dichotomy struct {
	points *mat.Dense
	dims   int

	lower    []float64 // root region lower corner
	rootEdge float64   // root region edge length (hypercube)
	unit     float64   // lattice unit: rootEdge * 2^-depthCap

	minCount, maxCount int
	minEdge, baseEdge  float64
	maxLevel           int // subdivision depth limit; < 0 means unbounded

	leaves []dichotomyLeaf
	faces  map[string]*faceEntry
}

// dichotomyLeaf is a node that was not subdivided further and becomes a cell.
type dichotomyLeaf struct {
	origin []int64 // lattice coordinates
	depth  int
	points []int // indices into the point matrix
}

// faceEntry lists the leaves exposing one (D-1)-dimensional face, split by
// which side of the face plane the leaf lies on.
type faceEntry struct {
	above []int // leaves whose lower face this is
	below []int // leaves whose upper face this is
}

func newDichotomy(points *mat.Dense, minCount, maxCount int, minEdge, baseEdge float64, maxLevel int) *dichotomy {
	n, d := points.Dims()
	lower := make([]float64, d)
	upper := make([]float64, d)
	for j := 0; j < d; j++ {
		lower[j] = points.At(0, j)
		upper[j] = lower[j]
		for i := 1; i < n; i++ {
			v := points.At(i, j)
			if v < lower[j] {
				lower[j] = v
			}
			if v > upper[j] {
				upper[j] = v
			}
		}
	}
	edge := 0.0
	for j := 0; j < d; j++ {
		if upper[j]-lower[j] > edge {
			edge = upper[j] - lower[j]
		}
	}
	return &dichotomy{
		points:   points,
		dims:     d,
		lower:    lower,
		rootEdge: edge,
		unit:     math.Ldexp(edge, -depthCap),
		minCount: minCount,
		maxCount: maxCount,
		minEdge:  minEdge,
		baseEdge: baseEdge,
		maxLevel: maxLevel,
		faces:    make(map[string]*faceEntry),
	}
}

// referenceLength returns the edge length of a node at the given subdivision
// depth. Depth 0 is the root; each increment halves the edge.
func (d *dichotomy) referenceLength(depth int) float64 {
	return math.Ldexp(d.rootEdge, -depth)
}

// latticeSize returns a node's edge length in lattice units at the given
// depth.
func latticeSize(depth int) int64 {
	return int64(1) << uint(depthCap-depth)
}

// split runs the recursion over the whole point set.
func (d *dichotomy) split() {
	n, _ := d.points.Dims()
	subset := make([]int, n)
	for i := range subset {
		subset[i] = i
	}
	d.splitNode(make([]int64, d.dims), 0, subset)
}

// splitNode subdivides one node or finalizes it as a leaf.
//
// A node splits when its point count exceeds maxCount or its edge exceeds
// baseEdge, provided the depth limit allows it and the children would not be
// smaller than minEdge. A node that wanted to split but was stopped by those
// geometric limits is kept whatever its count; otherwise leaves falling short
// of minCount are discarded. Empty nodes never become cells.
func (d *dichotomy) splitNode(origin []int64, depth int, subset []int) {
	edge := d.referenceLength(depth)
	wantSplit := (d.maxCount > 0 && len(subset) > d.maxCount) ||
		(d.baseEdge > 0 && edge > d.baseEdge)
	canSplit := depth < depthCap &&
		(d.maxLevel < 0 || depth < d.maxLevel) &&
		(d.minEdge <= 0 || edge/2 >= d.minEdge)

	if wantSplit && canSplit {
		half := latticeSize(depth + 1)
		children := make([][]int, 1<<uint(d.dims))
		mid := make([]float64, d.dims)
		for j := 0; j < d.dims; j++ {
			mid[j] = d.lower[j] + float64(origin[j]+half)*d.unit
		}
		for _, i := range subset {
			b := 0
			for j := 0; j < d.dims; j++ {
				if d.points.At(i, j) >= mid[j] {
					b |= 1 << uint(j)
				}
			}
			children[b] = append(children[b], i)
		}
		childOrigin := make([]int64, d.dims)
		for b, child := range children {
			if len(child) == 0 {
				continue
			}
			for j := 0; j < d.dims; j++ {
				childOrigin[j] = origin[j]
				if b&(1<<uint(j)) != 0 {
					childOrigin[j] += half
				}
			}
			d.splitNode(append([]int64(nil), childOrigin...), depth+1, child)
		}
		return
	}

	if len(subset) == 0 {
		return
	}
	if d.minCount > 0 && len(subset) < d.minCount && !wantSplit {
		return
	}
	leaf := dichotomyLeaf{
		origin: append([]int64(nil), origin...),
		depth:  depth,
		points: subset,
	}
	cell := len(d.leaves)
	d.leaves = append(d.leaves, leaf)
	d.registerFaces(cell, leaf)
}

// registerFaces records both faces of the leaf along every axis under the
// leaf's own granularity.
func (d *dichotomy) registerFaces(cell int, leaf dichotomyLeaf) {
	size := latticeSize(leaf.depth)
	for k := 0; k < d.dims; k++ {
		lowKey := d.faceKey(k, leaf.origin[k], leaf.origin, size)
		e := d.faces[lowKey]
		if e == nil {
			e = &faceEntry{}
			d.faces[lowKey] = e
		}
		e.above = append(e.above, cell)

		highKey := d.faceKey(k, leaf.origin[k]+size, leaf.origin, size)
		e = d.faces[highKey]
		if e == nil {
			e = &faceEntry{}
			d.faces[highKey] = e
		}
		e.below = append(e.below, cell)
	}
}

// faceKey canonically identifies one face: the split axis, the face plane
// coordinate along that axis, the face origin in the remaining axes truncated
// to the given granularity, and the granularity itself.
func (d *dichotomy) faceKey(k int, plane int64, origin []int64, size int64) string {
	buf := make([]byte, 0, binary.MaxVarintLen64*(d.dims+2))
	buf = binary.AppendVarint(buf, int64(k))
	buf = binary.AppendVarint(buf, plane)
	buf = binary.AppendVarint(buf, size)
	for j, o := range origin {
		if j == k {
			continue
		}
		buf = binary.AppendVarint(buf, o&^(size-1))
	}
	return string(buf)
}

// latticeKey identifies an exact lattice position, for vertex deduplication.
func latticeKey(coords []int64) string {
	buf := make([]byte, 0, binary.MaxVarintLen64*len(coords))
	for _, c := range coords {
		buf = binary.AppendVarint(buf, c)
	}
	return string(buf)
}

// adjacency matches every leaf face against opposing faces at the same or any
// coarser granularity present in the tree, returning each adjacent pair once
// with the lower cell index first.
func (d *dichotomy) adjacency() [][2]int {
	sizeSet := make(map[int64]bool)
	for _, leaf := range d.leaves {
		sizeSet[latticeSize(leaf.depth)] = true
	}
	sizes := make([]int64, 0, len(sizeSet))
	for s := range sizeSet {
		sizes = append(sizes, s)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	seen := make(map[[2]int]bool)
	var edges [][2]int
	link := func(i, j int) {
		if j < i {
			i, j = j, i
		}
		p := [2]int{i, j}
		if !seen[p] {
			seen[p] = true
			edges = append(edges, p)
		}
	}
	for cell, leaf := range d.leaves {
		size := latticeSize(leaf.depth)
		for k := 0; k < d.dims; k++ {
			for _, s := range sizes {
				if s < size {
					continue
				}
				if e := d.faces[d.faceKey(k, leaf.origin[k], leaf.origin, s)]; e != nil {
					for _, other := range e.below {
						link(cell, other)
					}
				}
				if e := d.faces[d.faceKey(k, leaf.origin[k]+size, leaf.origin, s)]; e != nil {
					for _, other := range e.above {
						link(cell, other)
					}
				}
			}
		}
	}
	return edges
}

// originCoords converts a leaf origin from lattice units to scaled
// coordinates.
func (d *dichotomy) originCoords(leaf dichotomyLeaf) []float64 {
	out := make([]float64, d.dims)
	for j := 0; j < d.dims; j++ {
		out[j] = d.lower[j] + float64(leaf.origin[j])*d.unit
	}
	return out
}
