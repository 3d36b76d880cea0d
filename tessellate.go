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
	"gonum.org/v1/gonum/mat"
)

// IndexOptions parameterizes Tessellation.CellIndex.
type IndexOptions struct {
	// Format is the requested partition encoding. FormatAuto lets the
	// mesh pick; a requested FormatArray may be silently upgraded to
	// FormatPair when the assignment contains multiplicities and no
	// Select policy can collapse them.
	Format Format

	// Select breaks multi-cell ties when collapsing to the array
	// encoding. When nil and FormatArray is requested, meshes default to
	// the nearest-center policy.
	Select SelectFunc

	// MinNearest, when positive, switches every cell with fewer base
	// assignments to an overlapping k-nearest-neighbor representation
	// holding the MinNearest query points closest to its center.
	MinNearest int

	// MaxNearest, when positive, keeps only the MaxNearest nearest
	// points of any over-full cell and marks the excess unassigned.
	MaxNearest int

	// MinLocationCount, when positive, entirely excludes cells whose
	// base assignment count falls below it; their points become
	// unassigned.
	MinLocationCount int

	// Metric selects the point-to-center distance. The zero value is the
	// mesh variant's default.
	Metric Metric
}

// Tessellation is the contract every mesh variant provides: grow once from a
// point set, then assign arbitrary points to the grown cells.
//
// Tessellate consumes a full point set and computes the cell centers and,
// eagerly or lazily, the cell adjacency. Growing the same instance twice is
// rejected with a MeshError; build a fresh mesh instead. CellIndex assigns
// points (not necessarily those the mesh was grown from) to existing cells
// and fails with a DimensionMismatchError when their dimensionality
// disagrees with the mesh.
type Tessellation interface {
	Tessellate(points *PointSet) error
	CellIndex(points *PointSet, opts IndexOptions) (Partition, error)

	// CellCenters returns the cell centers in original (unscaled)
	// coordinates, one row per cell.
	CellCenters() *mat.Dense

	// CellAdjacency returns the square cell adjacency matrix. When
	// AdjacencyLabels is non-nil the explicit matrix entries are
	// 1-based indices into the label slice; otherwise any nonzero entry
	// asserts adjacency.
	CellAdjacency() (*sparse.SparseArray, error)

	// AdjacencyLabels returns per-edge integer labels, or nil.
	AdjacencyLabels() []int

	// CellLabels returns per-cell integer labels, or nil.
	CellLabels() []int

	// Dims returns the number of spatial dimensions the mesh was grown
	// on.
	Dims() int

	// Len returns the number of cells.
	Len() int

	// Descriptors restricts points to the (scaled) spatial dimensions
	// the mesh was grown on, dropping time and trajectory columns.
	Descriptors(points *PointSet) (*mat.Dense, error)
}

// BoundaryTessellation is a Tessellation that also carries an explicit
// polygonal boundary: vertex coordinates, the vertex adjacency graph whose
// edges are ridges, and the cell→vertex incidence.
type BoundaryTessellation interface {
	Tessellation

	Vertices() (*mat.Dense, error)
	VertexAdjacency() (*sparse.SparseArray, error)
	CellVertices() ([][]int, error)
}

// Memo guards a lazily derived computation. All derived fields of one owner
// share the owner's Memos so that invalidation happens in one place rather
// than ambient caching spread across accessors.
type Memo struct {
	done bool
}

// Do runs f once. Further calls are no-ops until Invalidate. A failed f is
// not memoized.
func (m *Memo) Do(f func() error) error {
	if m.done {
		return nil
	}
	if err := f(); err != nil {
		return err
	}
	m.done = true
	return nil
}

// Invalidate forces the next Do to recompute.
func (m *Memo) Invalidate() { m.done = false }
