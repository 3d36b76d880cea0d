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
	"sort"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Format identifies one of the partition encodings.
type Format int

const (
	// FormatAuto lets the producer pick whichever encoding is natural:
	// a dense array when every point maps to at most one cell, a pair
	// list otherwise.
	FormatAuto Format = iota
	// FormatArray encodes one cell index per point, with Unassigned for
	// points that map to no cell.
	FormatArray
	// FormatPair encodes parallel point-index and cell-index slices and
	// admits multiplicities.
	FormatPair
	// FormatMatrix encodes a sparse point×cell incidence matrix.
	FormatMatrix
	// FormatForceArray behaves like FormatArray but instructs meshes to
	// skip any minimum-count relaxation that would make the result
	// array-incompatible.
	FormatForceArray
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatArray:
		return "array"
	case FormatPair:
		return "pair"
	case FormatMatrix:
		return "matrix"
	case FormatForceArray:
		return "force-array"
	}
	return "unknown"
}

// Unassigned is the sentinel cell index marking a point that belongs to no
// cell in the array encoding. It is part of the encoding, not a magic
// number: conversions translate it to absence in the pair and matrix forms.
const Unassigned = -1

// Partition is the point-to-cell association for one point set against one
// tessellation, in any of the three encodings.
type Partition struct {
	format Format

	array []int

	pointIndex []int
	cellIndex  []int

	matrix *sparse.SparseArray

	numPoints, numCells int
}

// ArrayPartition builds a dense-array partition. cells holds one cell index
// per point, or Unassigned.
func ArrayPartition(cells []int, numCells int) Partition {
	return Partition{
		format:    FormatArray,
		array:     cells,
		numPoints: len(cells),
		numCells:  numCells,
	}
}

// PairPartition builds a pair-list partition from parallel point and cell
// index slices.
func PairPartition(pointIndex, cellIndex []int, numPoints, numCells int) Partition {
	return Partition{
		format:     FormatPair,
		pointIndex: pointIndex,
		cellIndex:  cellIndex,
		numPoints:  numPoints,
		numCells:   numCells,
	}
}

// MatrixPartition builds an incidence-matrix partition from a points×cells
// sparse matrix.
func MatrixPartition(m *sparse.SparseArray) Partition {
	return Partition{
		format:    FormatMatrix,
		matrix:    m,
		numPoints: m.Shape[0],
		numCells:  m.Shape[1],
	}
}

// Format returns the encoding the partition is currently held in.
func (p Partition) Format() Format { return p.format }

// Shape returns the number of points and cells the partition is defined
// over.
func (p Partition) Shape() (points, cells int) { return p.numPoints, p.numCells }

// Array returns the dense-array encoding, or nil when the partition is held
// in another encoding.
func (p Partition) Array() []int {
	if p.format != FormatArray {
		return nil
	}
	return p.array
}

// Pairs returns the pair-list encoding, or nils when the partition is held
// in another encoding.
func (p Partition) Pairs() (pointIndex, cellIndex []int) {
	if p.format != FormatPair {
		return nil, nil
	}
	return p.pointIndex, p.cellIndex
}

// Matrix returns the incidence-matrix encoding, or nil when the partition is
// held in another encoding.
func (p Partition) Matrix() *sparse.SparseArray {
	if p.format != FormatMatrix {
		return nil
	}
	return p.matrix
}

// Counts returns the number of point associations per cell. In the array
// encoding the sentinel contributes to no cell; in the pair and matrix
// encodings the counts are column sums of the incidence relation.
func (p Partition) Counts() []int {
	counts := make([]int, p.numCells)
	switch p.format {
	case FormatArray:
		for _, c := range p.array {
			if c != Unassigned {
				counts[c]++
			}
		}
	case FormatPair:
		for _, c := range p.cellIndex {
			counts[c]++
		}
	case FormatMatrix:
		for k, v := range p.matrix.Elements {
			if v != 0 {
				counts[k%p.numCells]++
			}
		}
	}
	return counts
}

// Assigned returns the total number of point-cell associations.
func (p Partition) Assigned() int {
	n := 0
	for _, c := range p.Counts() {
		n += c
	}
	return n
}

// SelectFunc breaks ties when a point associated with several cells must be
// collapsed to a single cell index. It receives the point index and its
// candidate cells and returns the retained cell, or Unassigned.
type SelectFunc func(point int, cells []int) int

// NearestCell returns the default tie-break policy: among the candidate
// cells, keep the one whose center is nearest to the point. points holds
// the (scaled) point descriptors and centers the matching cell centers.
func NearestCell(points, centers *mat.Dense) SelectFunc {
	_, d := points.Dims()
	x := make([]float64, d)
	y := make([]float64, d)
	diff := make([]float64, d)
	return func(point int, cells []int) int {
		mat.Row(x, point, points)
		winner := Unassigned
		best := 0.0
		for _, c := range cells {
			mat.Row(y, c, centers)
			floats.SubTo(diff, x, y)
			d2 := floats.Dot(diff, diff)
			if winner == Unassigned || d2 < best {
				winner = c
				best = d2
			}
		}
		return winner
	}
}

// FormatCellIndex converts a partition between encodings. Every conversion
// is lossless except collapsing a pair or matrix encoding to the array
// encoding, which needs sel to break multi-cell ties; with a nil sel the
// result silently stays in the pair encoding, observable through
// Partition.Format.
func FormatCellIndex(p Partition, format Format, sel SelectFunc) (Partition, error) {
	if format == FormatForceArray {
		format = FormatArray
	}
	if format == FormatAuto || format == p.format {
		return p, nil
	}
	switch format {
	case FormatPair:
		points, cells := p.associations()
		return PairPartition(points, cells, p.numPoints, p.numCells), nil
	case FormatMatrix:
		points, cells := p.associations()
		m := sparse.ZerosSparse(p.numPoints, p.numCells)
		for k := range points {
			m.Set(1, points[k], cells[k])
		}
		return MatrixPartition(m), nil
	case FormatArray:
		points, cells := p.associations()
		array := make([]int, p.numPoints)
		for i := range array {
			array[i] = Unassigned
		}
		multi := false
		for k, pt := range points {
			if array[pt] != Unassigned && array[pt] != cells[k] {
				multi = true
				break
			}
			array[pt] = cells[k]
		}
		if !multi {
			return ArrayPartition(array, p.numCells), nil
		}
		if sel == nil {
			return PairPartition(points, cells, p.numPoints, p.numCells), nil
		}
		candidates := make(map[int][]int, p.numPoints)
		for k, pt := range points {
			candidates[pt] = append(candidates[pt], cells[k])
		}
		for i := range array {
			array[i] = Unassigned
		}
		for pt, cs := range candidates {
			if len(cs) == 1 {
				array[pt] = cs[0]
			} else {
				array[pt] = sel(pt, cs)
			}
		}
		return ArrayPartition(array, p.numCells), nil
	}
	return Partition{}, &UnsupportedEncodingError{Op: "FormatCellIndex", Format: format}
}

// associations flattens any encoding into (point, cell) index pairs, sorted
// by point then cell. Sentinel entries of the array encoding are omitted.
func (p Partition) associations() (points, cells []int) {
	switch p.format {
	case FormatArray:
		for i, c := range p.array {
			if c != Unassigned {
				points = append(points, i)
				cells = append(cells, c)
			}
		}
		return points, cells
	case FormatPair:
		points = append(points, p.pointIndex...)
		cells = append(cells, p.cellIndex...)
	case FormatMatrix:
		for k, v := range p.matrix.Elements {
			if v != 0 {
				points = append(points, k/p.numCells)
				cells = append(cells, k%p.numCells)
			}
		}
	}
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if points[ia] != points[ib] {
			return points[ia] < points[ib]
		}
		return cells[ia] < cells[ib]
	})
	sp := make([]int, len(points))
	sc := make([]int, len(cells))
	for i, k := range order {
		sp[i] = points[k]
		sc[i] = cells[k]
	}
	return sp, sc
}
