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

/*Package grid implements a fixed-resolution axis-aligned grid mesh. Cell
centers are the midpoints of an evenly spaced grid; adjacency, vertices and
cell-vertex incidence follow from index arithmetic alone. A general Voronoi
solve would give the same answers here, at a much higher cost and with
avoidable numerical fragility, which is why this specialization exists.*/
package grid

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/tessellate"
	"github.com/spatialmodel/tessellate/nearest"
)

// Make sure the mesh fulfills the boundary contract.
var _ tessellate.BoundaryTessellation = &Mesh{}

// Config parameterizes a regular grid. Bounds left nil default to the
// tessellated point set's bounding box. Either CountPerDim or
// AvgProbability must be set; with AvgProbability the grid is sized so a
// uniformly distributed point lands in any given cell with roughly that
// probability.
type Config struct {
	LowerBound     []float64
	UpperBound     []float64
	CountPerDim    []int
	AvgProbability float64
}

// Mesh is a regular k-dimensional grid. It operates in the original
// coordinate space; a scaler would only rescale an already regular
// structure.
type Mesh struct {
	nearest.Mesh

	cfg   Config
	count []int       // cells per dimension
	lines [][]float64 // grid vertex coordinates per dimension

	adjacency       *sparse.SparseArray
	adjacencyMemo   tessellate.Memo
	vertices        *mat.Dense
	verticesMemo    tessellate.Memo
	vertexAdjacency *sparse.SparseArray
	vertexAdjMemo   tessellate.Memo
	cellVertices    [][]int
	cellVertMemo    tessellate.Memo
}

// New returns an empty grid mesh.
func New(cfg Config) *Mesh {
	m := &Mesh{cfg: cfg}
	m.Mesh = *nearest.New()
	return m
}

// Tessellate computes the grid covering the point set (or the configured
// bounds) and installs the cell midpoints as centers. Growing an already
// grown mesh is rejected.
func (m *Mesh) Tessellate(points *tessellate.PointSet) error {
	if m.ScaledCenters() != nil {
		return &tessellate.MeshError{Reason: "mesh already tessellated; grow a fresh instance instead"}
	}
	if err := points.Validate(); err != nil {
		return err
	}
	coords := points.Coords()
	_, d := coords.Dims()

	lower := m.cfg.LowerBound
	upper := m.cfg.UpperBound
	if lower == nil || upper == nil {
		lo, hi := boundingBox(coords)
		if lower == nil {
			lower = lo
		}
		if upper == nil {
			upper = hi
		}
	}
	if len(lower) != d || len(upper) != d {
		return &tessellate.DimensionMismatchError{Want: d, Got: len(lower)}
	}

	count := m.cfg.CountPerDim
	if count == nil {
		if m.cfg.AvgProbability <= 0 {
			return &tessellate.MeshError{Reason: "grid needs either CountPerDim or a positive AvgProbability"}
		}
		volume := 1.0
		for j := 0; j < d; j++ {
			volume *= upper[j] - lower[j]
		}
		nCells := 1.0 / m.cfg.AvgProbability
		increment := math.Exp(math.Log(volume/nCells) / float64(d))
		count = make([]int, d)
		for j := 0; j < d; j++ {
			count[j] = int(math.Round((upper[j] - lower[j]) / increment))
			if count[j] < 1 {
				count[j] = 1
			}
		}
	} else if len(count) != d {
		return &tessellate.DimensionMismatchError{Want: d, Got: len(count)}
	}

	m.count = count
	m.lines = make([][]float64, d)
	for j := 0; j < d; j++ {
		m.lines[j] = linspace(lower[j], upper[j], count[j]+1)
	}

	// Cell centers are the grid cell midpoints, first dimension slowest.
	ncells := 1
	for _, c := range count {
		ncells *= c
	}
	centers := mat.NewDense(ncells, d, nil)
	mi := make([]int, d)
	for c := 0; c < ncells; c++ {
		m.multiIndex(c, m.count, mi)
		for j := 0; j < d; j++ {
			centers.Set(c, j, (m.lines[j][mi[j]]+m.lines[j][mi[j]+1])/2)
		}
	}
	return m.Grow(points, centers)
}

// CellAdjacency returns the rook adjacency: two cells are adjacent iff
// their grid indices differ by exactly one in exactly one dimension.
func (m *Mesh) CellAdjacency() (*sparse.SparseArray, error) {
	if m.ScaledCenters() == nil {
		return nil, &tessellate.NotTessellatedError{Op: "CellAdjacency"}
	}
	m.adjacencyMemo.Do(func() error {
		m.adjacency = rookAdjacency(m.count)
		return nil
	})
	return m.adjacency, nil
}

// Vertices returns the grid corner coordinates.
func (m *Mesh) Vertices() (*mat.Dense, error) {
	if m.ScaledCenters() == nil {
		return nil, &tessellate.NotTessellatedError{Op: "Vertices"}
	}
	m.verticesMemo.Do(func() error {
		d := len(m.lines)
		counts := make([]int, d)
		n := 1
		for j, line := range m.lines {
			counts[j] = len(line)
			n *= len(line)
		}
		m.vertices = mat.NewDense(n, d, nil)
		mi := make([]int, d)
		for v := 0; v < n; v++ {
			m.multiIndex(v, counts, mi)
			for j := 0; j < d; j++ {
				m.vertices.Set(v, j, m.lines[j][mi[j]])
			}
		}
		return nil
	})
	return m.vertices, nil
}

// VertexAdjacency connects grid corners differing by one step along one
// dimension.
func (m *Mesh) VertexAdjacency() (*sparse.SparseArray, error) {
	if m.ScaledCenters() == nil {
		return nil, &tessellate.NotTessellatedError{Op: "VertexAdjacency"}
	}
	m.vertexAdjMemo.Do(func() error {
		counts := make([]int, len(m.lines))
		for j, line := range m.lines {
			counts[j] = len(line)
		}
		m.vertexAdjacency = rookAdjacency(counts)
		return nil
	})
	return m.vertexAdjacency, nil
}

// CellVertices maps every cell to its 2^D corner vertex indices.
func (m *Mesh) CellVertices() ([][]int, error) {
	if m.ScaledCenters() == nil {
		return nil, &tessellate.NotTessellatedError{Op: "CellVertices"}
	}
	m.cellVertMemo.Do(func() error {
		d := len(m.count)
		vcounts := make([]int, d)
		for j, line := range m.lines {
			vcounts[j] = len(line)
		}
		ncells := m.Len()
		m.cellVertices = make([][]int, ncells)
		mi := make([]int, d)
		corner := make([]int, d)
		for c := 0; c < ncells; c++ {
			m.multiIndex(c, m.count, mi)
			vs := make([]int, 0, 1<<uint(d))
			for b := 0; b < 1<<uint(d); b++ {
				for j := 0; j < d; j++ {
					corner[j] = mi[j] + (b>>uint(j))&1
				}
				vs = append(vs, flatIndex(corner, vcounts))
			}
			m.cellVertices[c] = vs
		}
		return nil
	})
	return m.cellVertices, nil
}

// CellPolygons returns the grid cells as rectangles. 2D grids only.
func (m *Mesh) CellPolygons() ([]geom.Polygon, error) {
	if m.ScaledCenters() == nil {
		return nil, &tessellate.NotTessellatedError{Op: "CellPolygons"}
	}
	if len(m.count) != 2 {
		return nil, &tessellate.DimensionMismatchError{Want: 2, Got: len(m.count)}
	}
	polys := make([]geom.Polygon, m.Len())
	mi := make([]int, 2)
	for c := range polys {
		m.multiIndex(c, m.count, mi)
		x0, x1 := m.lines[0][mi[0]], m.lines[0][mi[0]+1]
		y0, y1 := m.lines[1][mi[1]], m.lines[1][mi[1]+1]
		polys[c] = geom.Polygon{{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		}}
	}
	return polys, nil
}

// CountPerDim returns the number of cells along each dimension.
func (m *Mesh) CountPerDim() []int { return m.count }

// multiIndex decodes a flat row-major index (first dimension slowest) into
// mi.
func (m *Mesh) multiIndex(flat int, counts []int, mi []int) {
	for j := len(counts) - 1; j >= 0; j-- {
		mi[j] = flat % counts[j]
		flat /= counts[j]
	}
}

func flatIndex(mi, counts []int) int {
	flat := 0
	for j := 0; j < len(counts); j++ {
		flat = flat*counts[j] + mi[j]
	}
	return flat
}

// rookAdjacency connects multi-indices differing by one in exactly one
// dimension.
func rookAdjacency(counts []int) *sparse.SparseArray {
	d := len(counts)
	n := 1
	for _, c := range counts {
		n *= c
	}
	adj := sparse.ZerosSparse(n, n)
	mi := make([]int, d)
	nb := make([]int, d)
	for c := 0; c < n; c++ {
		flat := c
		for j := d - 1; j >= 0; j-- {
			mi[j] = flat % counts[j]
			flat /= counts[j]
		}
		for j := 0; j < d; j++ {
			copy(nb, mi)
			if mi[j]+1 < counts[j] {
				nb[j] = mi[j] + 1
				adj.Set(1, c, flatIndex(nb, counts))
				adj.Set(1, flatIndex(nb, counts), c)
			}
		}
	}
	return adj
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func boundingBox(coords *mat.Dense) (lo, hi []float64) {
	n, d := coords.Dims()
	lo = make([]float64, d)
	hi = make([]float64, d)
	for j := 0; j < d; j++ {
		lo[j] = coords.At(0, j)
		hi[j] = lo[j]
		for i := 1; i < n; i++ {
			v := coords.At(i, j)
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
