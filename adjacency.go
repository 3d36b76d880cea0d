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

package tessellate

import (
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PointAdjacency derives a point-level graph from the cell-level adjacency
// of a partitioned point set: two points are adjacent iff they belong to
// adjacent and distinct cells. Edge weights are the Euclidean distances
// between the two points' descriptors.
//
// cellFilter, when non-nil, restricts the graph to cells whose label it
// accepts; edgeFilter does the same for cell-adjacency edge labels. With
// symmetric false, only the (i→j), i<j direction of each cell pair is
// emitted.
//
// Only the dense-array partition encoding is supported; any other encoding
// fails with an UnsupportedEncodingError.
func PointAdjacency(cs *CellStats, symmetric bool, cellFilter, edgeFilter func(label int) bool) (*sparse.SparseArray, error) {
	index, err := cs.Partition()
	if err != nil {
		return nil, err
	}
	if index.Format() != FormatArray {
		return nil, &UnsupportedEncodingError{Op: "PointAdjacency", Format: index.Format()}
	}
	array := index.Array()

	tess := cs.Tessellation()
	adjacency, err := tess.CellAdjacency()
	if err != nil {
		return nil, err
	}
	edgeLabels := tess.AdjacencyLabels()
	cellLabels := tess.CellLabels()

	x, err := cs.Descriptors()
	if err != nil {
		return nil, err
	}
	n, d := x.Dims()

	// Points of each cell, from the array encoding.
	members := make(map[int][]int)
	for p, c := range array {
		if c != Unassigned {
			members[c] = append(members[c], p)
		}
	}

	keepCell := func(c int) bool {
		if cellFilter == nil {
			return true
		}
		label := 0
		if cellLabels != nil {
			label = cellLabels[c]
		}
		return cellFilter(label)
	}

	out := sparse.ZerosSparse(n, n)
	xi := make([]float64, d)
	xj := make([]float64, d)
	diff := make([]float64, d)
	ncols := adjacency.Shape[1]
	for k, v := range adjacency.Elements {
		if v == 0 {
			continue
		}
		i := k / ncols
		j := k % ncols
		// The upper triangular part defines each pair once.
		if j <= i {
			continue
		}
		if edgeFilter != nil {
			label := int(v)
			if edgeLabels != nil {
				label = edgeLabels[int(v)-1]
			}
			if !edgeFilter(label) {
				continue
			}
		}
		if !keepCell(i) || !keepCell(j) {
			continue
		}
		for _, pi := range members[i] {
			mat.Row(xi, pi, x)
			for _, pj := range members[j] {
				mat.Row(xj, pj, x)
				floats.SubTo(diff, xi, xj)
				w := floats.Norm(diff, 2)
				out.Set(w, pi, pj)
				if symmetric {
					out.Set(w, pj, pi)
				}
			}
		}
	}
	return out, nil
}

// SimplifiedAdjacency returns a copy of t's cell adjacency restricted to the
// positively labeled edges. When AdjacencyLabels is nil, entries with
// positive values are kept; otherwise an entry is kept when the label it
// points to is positive. Kept entries carry their original values, so every
// explicit element of the result is strictly positive and plain nonzero
// tests suffice on it.
func SimplifiedAdjacency(t Tessellation) (*sparse.SparseArray, error) {
	adj, err := t.CellAdjacency()
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, nil
	}
	labels := t.AdjacencyLabels()
	out := sparse.ZerosSparse(adj.Shape...)
	for k, v := range adj.Elements {
		if labels == nil {
			if v > 0 {
				out.Elements[k] = v
			}
			continue
		}
		l := int(v) - 1
		if 0 <= l && l < len(labels) && labels[l] > 0 {
			out.Elements[k] = v
		}
	}
	return out, nil
}
