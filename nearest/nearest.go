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

/*Package nearest implements the nearest-center (Delaunay-style) mesh: every
query point is assigned to the nearest of a fixed set of cell centers, with
optional count-bounded relaxation that lets under-full cells overlap their
neighbors.*/
package nearest

import (
	"sort"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/tessellate"
	"github.com/spatialmodel/tessellate/scale"
)

// Make sure the mesh fulfills the contract.
var _ tessellate.Tessellation = &Mesh{}

// Mesh assigns points to the nearest of its cell centers. Tessellate stores
// the input points directly as centers, one cell per point; higher-level
// callers typically install a reduced center set (for example from
// clustering) through SetCellCenters instead.
type Mesh struct {
	scaler scale.Scaler

	centers *mat.Dense // scaled
	dims    int
	columns []string

	adjacency       *sparse.SparseArray
	adjacencyLabels []int
	cellLabels      []int
}

// New returns an empty mesh using the identity scaler.
func New() *Mesh { return NewWithScaler(scale.Identity{}) }

// NewWithScaler returns an empty mesh normalizing coordinates through s.
func NewWithScaler(s scale.Scaler) *Mesh {
	return &Mesh{scaler: s}
}

// Scaler returns the mesh's coordinate scaler.
func (m *Mesh) Scaler() scale.Scaler { return m.scaler }

// Tessellate stores the point set's scaled spatial coordinates as cell
// centers. Growing an already grown mesh is rejected.
func (m *Mesh) Tessellate(points *tessellate.PointSet) error {
	if err := points.Validate(); err != nil {
		return err
	}
	return m.Grow(points, m.scaler.ScalePoints(points.Coords()))
}

// Grow installs scaled cell centers computed by a mesh variant, recording
// the spatial column roles of the point set the variant was grown from.
// A second Grow on the same instance fails with a MeshError.
func (m *Mesh) Grow(points *tessellate.PointSet, scaledCenters *mat.Dense) error {
	if m.centers != nil {
		return &tessellate.MeshError{Reason: "mesh already tessellated; grow a fresh instance instead"}
	}
	_, d := scaledCenters.Dims()
	m.centers = scaledCenters
	m.dims = d
	m.columns = points.Columns()
	return nil
}

// SetCellCenters replaces the cell centers with the given centers in
// original coordinates, discarding any prior assignment state.
func (m *Mesh) SetCellCenters(centers *mat.Dense) {
	scaled := m.scaler.ScalePoints(centers)
	_, d := scaled.Dims()
	m.centers = scaled
	m.dims = d
}

// CellCenters returns the cell centers in original coordinates.
func (m *Mesh) CellCenters() *mat.Dense {
	if m.centers == nil {
		return nil
	}
	return m.scaler.UnscalePoints(m.centers)
}

// ScaledCenters returns the cell centers in normalized space. The returned
// matrix is owned by the mesh and must not be mutated.
func (m *Mesh) ScaledCenters() *mat.Dense { return m.centers }

// Dims returns the number of spatial dimensions.
func (m *Mesh) Dims() int { return m.dims }

// Len returns the number of cells.
func (m *Mesh) Len() int {
	if m.centers == nil {
		return 0
	}
	n, _ := m.centers.Dims()
	return n
}

// SetCellAdjacency installs an externally computed cell adjacency matrix
// with optional per-edge labels. When labels are given, the explicit matrix
// entries must be 1-based indices into them.
func (m *Mesh) SetCellAdjacency(adjacency *sparse.SparseArray, labels []int) {
	m.adjacency = adjacency
	m.adjacencyLabels = labels
}

// CellAdjacency returns the cell adjacency matrix, which for a plain
// nearest-center mesh is nil unless supplied through SetCellAdjacency.
func (m *Mesh) CellAdjacency() (*sparse.SparseArray, error) {
	if m.centers == nil {
		return nil, &tessellate.NotTessellatedError{Op: "CellAdjacency"}
	}
	return m.adjacency, nil
}

// AdjacencyLabels returns per-edge labels, or nil.
func (m *Mesh) AdjacencyLabels() []int { return m.adjacencyLabels }

// SetCellLabels installs per-cell labels.
func (m *Mesh) SetCellLabels(labels []int) { m.cellLabels = labels }

// CellLabels returns per-cell labels, or nil.
func (m *Mesh) CellLabels() []int { return m.cellLabels }

// Descriptors restricts points to the scaled spatial coordinates the mesh
// was grown on.
func (m *Mesh) Descriptors(points *tessellate.PointSet) (*mat.Dense, error) {
	if m.centers == nil {
		return nil, &tessellate.NotTessellatedError{Op: "Descriptors"}
	}
	if points.Dims() != m.dims {
		return nil, &tessellate.DimensionMismatchError{Want: m.dims, Got: points.Dims()}
	}
	return m.scaler.ScalePoints(points.Coords()), nil
}

// CellIndex assigns points to cells. The base assignment is arg-min
// distance to the cell centers; opts.MaxNearest, opts.MinNearest and
// opts.MinLocationCount then prune or relax it as described in the option
// documentation. When relaxation gives a point several cells, the result is
// representable only as a pair or matrix encoding; a requested array format
// collapses multiplicities with opts.Select, defaulting to the
// nearest-center policy.
func (m *Mesh) CellIndex(points *tessellate.PointSet, opts tessellate.IndexOptions) (tessellate.Partition, error) {
	if m.centers == nil {
		return tessellate.Partition{}, &tessellate.NotTessellatedError{Op: "CellIndex"}
	}
	x, err := m.Descriptors(points)
	if err != nil {
		return tessellate.Partition{}, err
	}
	metric := opts.Metric
	if metric == tessellate.MetricDefault {
		metric = tessellate.Euclidean
	}
	D := tessellate.DistanceMatrix(x, m.centers, metric)
	n, _ := x.Dims()
	ncells := m.Len()

	format := opts.Format
	minNN, maxNN := opts.MinNearest, opts.MaxNearest
	if format == tessellate.FormatForceArray {
		minNN = 0
		format = tessellate.FormatArray
	}

	// Base assignment: nearest center per point.
	K := make([]int, n)
	for i := 0; i < n; i++ {
		K[i] = argmin(D.RawRowView(i))
	}

	var part tessellate.Partition
	if minNN > 0 || maxNN > 0 || opts.MinLocationCount > 0 {
		counts := histogram(K, ncells)

		if maxNN > 0 {
			m.trimLargeCells(D, K, counts, maxNN)
		}

		switch {
		case minNN > 0:
			part = m.relaxSmallCells(D, K, counts, minNN, opts.MinLocationCount, n, ncells)
		case opts.MinLocationCount > 0:
			for i, c := range K {
				if c != tessellate.Unassigned && counts[c] < opts.MinLocationCount {
					K[i] = tessellate.Unassigned
				}
			}
			part = tessellate.ArrayPartition(K, ncells)
		default:
			part = tessellate.ArrayPartition(K, ncells)
		}
	} else {
		part = tessellate.ArrayPartition(K, ncells)
	}

	sel := opts.Select
	if sel == nil && format == tessellate.FormatArray {
		sel = tessellate.NearestCell(x, m.centers)
	}
	return tessellate.FormatCellIndex(part, format, sel)
}

// trimLargeCells unassigns all but the maxNN nearest points of every
// over-full cell. counts keeps the base assignment counts; the relaxation
// step interprets them the same way the base assignment produced them.
func (m *Mesh) trimLargeCells(D *mat.Dense, K, counts []int, maxNN int) {
	for c, count := range counts {
		if count <= maxNN {
			continue
		}
		members := make([]int, 0, count)
		for p, kc := range K {
			if kc == c {
				members = append(members, p)
			}
		}
		sort.Slice(members, func(a, b int) bool {
			return D.At(members[a], c) < D.At(members[b], c)
		})
		for _, p := range members[maxNN:] {
			K[p] = tessellate.Unassigned
		}
	}
}

// relaxSmallCells switches every cell with fewer than minNN base
// assignments to an overlapping representation holding the minNN query
// points nearest to its center. Cells below minLocationCount are excluded
// from relaxation; the points exclusively assigned to any small cell are
// dropped from the exclusive part of the result.
func (m *Mesh) relaxSmallCells(D *mat.Dense, K, counts []int, minNN, minLocationCount, n, ncells int) tessellate.Partition {
	relaxed := make([]bool, ncells) // cells switched to the overlapping form
	small := make([]bool, ncells)   // cells losing their exclusive points
	any := false
	for c, count := range counts {
		if count >= minNN {
			continue
		}
		small[c] = true
		if minLocationCount > 0 && count < minLocationCount {
			continue
		}
		relaxed[c] = true
		any = true
	}
	if !any {
		return tessellate.ArrayPartition(K, ncells)
	}

	var pointIndex, cellIndex []int
	order := make([]int, n)
	for c := range relaxed {
		if !relaxed[c] {
			continue
		}
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return D.At(order[a], c) < D.At(order[b], c)
		})
		k := minNN
		if k > n {
			k = n
		}
		for _, p := range order[:k] {
			pointIndex = append(pointIndex, p)
			cellIndex = append(cellIndex, c)
		}
	}
	for p, c := range K {
		if c == tessellate.Unassigned || small[c] {
			continue
		}
		pointIndex = append(pointIndex, p)
		cellIndex = append(cellIndex, c)
	}
	return tessellate.PairPartition(pointIndex, cellIndex, n, ncells)
}

func argmin(row []float64) int {
	best := 0
	for i, v := range row {
		if v < row[best] {
			best = i
		}
	}
	return best
}

func histogram(K []int, ncells int) []int {
	counts := make([]int, ncells)
	for _, c := range K {
		if c != tessellate.Unassigned {
			counts[c]++
		}
	}
	return counts
}
