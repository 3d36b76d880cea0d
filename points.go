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
	"gonum.org/v1/gonum/mat"
)

// Column names with a recognized meaning. Spatial columns enter geometric
// computations; the time and trajectory columns are carried for provenance
// only.
const (
	ColX          = "x"
	ColY          = "y"
	ColZ          = "z"
	ColTime       = "t"
	ColTrajectory = "n"
)

// PointSet is an ordered, immutable sequence of coordinate vectors.
// Columns may optionally be named; when they are, only the columns named
// "x", "y" and "z" are treated as spatial, and "t" (time) and "n"
// (trajectory identifier) are retained without entering any geometry.
// An unnamed PointSet is all-spatial.
type PointSet struct {
	data    *mat.Dense
	columns []string
	spatial []int
}

// NewPointSet wraps point data in a PointSet. When column names are given
// there must be one per data column, and "x" and "y" must be among them;
// otherwise a MeshError is returned.
func NewPointSet(data *mat.Dense, columns ...string) (*PointSet, error) {
	_, c := data.Dims()
	ps := &PointSet{data: data}
	if len(columns) == 0 {
		ps.spatial = make([]int, c)
		for i := range ps.spatial {
			ps.spatial[i] = i
		}
		return ps, nil
	}
	if len(columns) != c {
		return nil, &MeshError{Reason: "column names do not match the point data width"}
	}
	ps.columns = columns
	for i, name := range columns {
		switch name {
		case ColX, ColY, ColZ:
			ps.spatial = append(ps.spatial, i)
		}
	}
	if _, ok := ps.ColumnIndex(ColX); !ok {
		return nil, &MeshError{Reason: "missing 'x' in named point data"}
	}
	if _, ok := ps.ColumnIndex(ColY); !ok {
		return nil, &MeshError{Reason: "missing 'y' in named point data"}
	}
	return ps, nil
}

// Len returns the number of points.
func (ps *PointSet) Len() int {
	r, _ := ps.data.Dims()
	return r
}

// Dims returns the number of spatial dimensions.
func (ps *PointSet) Dims() int { return len(ps.spatial) }

// Columns returns the column names, or nil for an unnamed PointSet.
func (ps *PointSet) Columns() []string { return ps.columns }

// Data returns the full point data, including any non-spatial columns.
func (ps *PointSet) Data() *mat.Dense { return ps.data }

// ColumnIndex returns the position of the named column.
func (ps *PointSet) ColumnIndex(name string) (int, bool) {
	for i, n := range ps.columns {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Coords returns a copy of the spatial coordinates, one row per point.
func (ps *PointSet) Coords() *mat.Dense {
	n := ps.Len()
	d := ps.Dims()
	out := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j, c := range ps.spatial {
			out.Set(i, j, ps.data.At(i, c))
		}
	}
	return out
}

// BoundingBox returns the component-wise minimum and maximum over all
// columns of the point data.
func (ps *PointSet) BoundingBox() (lo, hi []float64) {
	n, c := ps.data.Dims()
	lo = make([]float64, c)
	hi = make([]float64, c)
	if n == 0 {
		return lo, hi
	}
	for j := 0; j < c; j++ {
		lo[j] = ps.data.At(0, j)
		hi[j] = lo[j]
		for i := 1; i < n; i++ {
			v := ps.data.At(i, j)
			if v < lo[j] {
				lo[j] = v
			}
			if v > hi[j] {
				hi[j] = v
			}
		}
	}
	return lo, hi
}

// Validate returns a MeshError unless the point set holds at least two
// distinct points, the minimum input for growing a tessellation.
func (ps *PointSet) Validate() error {
	if !ps.hasDistinctPoints() {
		return &MeshError{Reason: "tessellating requires at least 2 distinct points"}
	}
	return nil
}

// hasDistinctPoints reports whether at least two rows of the spatial
// coordinates differ.
func (ps *PointSet) hasDistinctPoints() bool {
	n := ps.Len()
	if n < 2 {
		return false
	}
	for i := 1; i < n; i++ {
		for _, c := range ps.spatial {
			if ps.data.At(i, c) != ps.data.At(0, c) {
				return true
			}
		}
	}
	return false
}
