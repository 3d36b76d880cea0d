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
	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

// CellStats conveniently stores a tessellation and the partition of a point
// set against it, together with the point set itself and the statistics
// frequently derived from a partition: per-cell point counts and the
// bounding box. The derived fields are computed lazily and invalidated
// together whenever the point set, the tessellation or the partition is
// replaced; no partially stale state is observable.
//
// CellStats holds non-owning references to its point set and tessellation
// and exclusively owns the partition and derived statistics.
type CellStats struct {
	points *PointSet
	tess   Tessellation
	opts   IndexOptions

	index     Partition
	haveIndex bool

	indexMemo Memo
	countMemo Memo
	bboxMemo  Memo

	counts []int
	lo, hi []float64
}

// Assign partitions points against the given tessellation and returns the
// resulting container. The partition itself is computed immediately; the
// derived statistics stay lazy.
func Assign(points *PointSet, tess Tessellation, opts IndexOptions) (*CellStats, error) {
	s := &CellStats{points: points, tess: tess, opts: opts}
	if _, err := s.Partition(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewCellStats wraps an already computed partition.
func NewCellStats(points *PointSet, tess Tessellation, index Partition) *CellStats {
	s := &CellStats{points: points, tess: tess}
	s.SetPartition(index)
	return s
}

// Points returns the point set.
func (s *CellStats) Points() *PointSet { return s.points }

// Tessellation returns the tessellation the partition was defined by.
func (s *CellStats) Tessellation() Tessellation { return s.tess }

// Partition returns the point-cell association, computing it through the
// tessellation if it has not been computed or was invalidated.
func (s *CellStats) Partition() (Partition, error) {
	err := s.indexMemo.Do(func() error {
		if s.haveIndex {
			return nil
		}
		index, err := s.tess.CellIndex(s.points, s.opts)
		if err != nil {
			return err
		}
		s.index = index
		s.haveIndex = true
		return nil
	})
	return s.index, err
}

// SetPoints replaces the point set and invalidates the partition and all
// derived fields.
func (s *CellStats) SetPoints(points *PointSet) {
	s.points = points
	s.haveIndex = false
	s.invalidate()
}

// SetTessellation replaces the tessellation and invalidates the partition
// and all derived fields.
func (s *CellStats) SetTessellation(tess Tessellation) {
	s.tess = tess
	s.haveIndex = false
	s.invalidate()
}

// SetPartition replaces the partition and invalidates the derived fields.
func (s *CellStats) SetPartition(index Partition) {
	s.index = index
	s.haveIndex = true
	s.invalidate()
}

// invalidate resets every derived field at once.
func (s *CellStats) invalidate() {
	s.indexMemo.Invalidate()
	s.countMemo.Invalidate()
	s.bboxMemo.Invalidate()
	s.counts = nil
	s.lo, s.hi = nil, nil
}

// LocationCount returns the number of points in each cell. The counts sum
// to the number of assigned point-cell associations; unassigned points
// contribute to none.
func (s *CellStats) LocationCount() ([]int, error) {
	err := s.countMemo.Do(func() error {
		index, err := s.Partition()
		if err != nil {
			return err
		}
		s.counts = index.Counts()
		return nil
	})
	return s.counts, err
}

// BoundingBox returns the component-wise minimum and maximum over all
// columns of the point data.
func (s *CellStats) BoundingBox() (lo, hi []float64) {
	// bboxMemo.Do cannot fail here; the signature stays error-free.
	s.bboxMemo.Do(func() error {
		s.lo, s.hi = s.points.BoundingBox()
		return nil
	})
	return s.lo, s.hi
}

// Bounds returns the spatial bounding box as a 2D geometry. It fails with a
// DimensionMismatchError for point sets that are not two-dimensional.
func (s *CellStats) Bounds() (*geom.Bounds, error) {
	if s.points.Dims() != 2 {
		return nil, &DimensionMismatchError{Want: 2, Got: s.points.Dims()}
	}
	coords := s.points.Coords()
	n, _ := coords.Dims()
	if n == 0 {
		return &geom.Bounds{}, nil
	}
	minX, minY := coords.At(0, 0), coords.At(0, 1)
	maxX, maxY := minX, minY
	for i := 1; i < n; i++ {
		x, y := coords.At(i, 0), coords.At(i, 1)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return &geom.Bounds{
		Min: geom.Point{X: minX, Y: minY},
		Max: geom.Point{X: maxX, Y: maxY},
	}, nil
}

// Descriptors proxies Tessellation.Descriptors for the stored point set.
func (s *CellStats) Descriptors() (*mat.Dense, error) {
	return s.tess.Descriptors(s.points)
}
