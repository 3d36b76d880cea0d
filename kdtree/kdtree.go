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

/*Package kdtree implements an adaptive multi-resolution mesh based on
recursive spatial dichotomy (a quad tree in 2D, an oct tree in 3D). Cells are
hypercubes whose size adapts to the local point density; adjacency between
cells of different sizes is discovered through face-identity lookup during
construction rather than by a geometric solve.*/
package kdtree

import (
	"io"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/tessellate"
	"github.com/spatialmodel/tessellate/nearest"
	"github.com/spatialmodel/tessellate/scale"
)

// Make sure the mesh fulfills the boundary contract.
var _ tessellate.BoundaryTessellation = &Mesh{}

// Config parameterizes the adaptive mesh. Probabilities are per-point: a
// cell's target share of the tessellated point set. MinProbability and
// MaxProbability translate to per-cell count bounds at Tessellate time;
// MinDistance and AvgDistance bound the cell edge length in original
// coordinates. MaxLevel, when zero or positive, caps the subdivision depth
// (0 forbids any subdivision); leave it negative for no cap.
type Config struct {
	MinDistance    float64 `toml:"min_distance"`
	AvgDistance    float64 `toml:"avg_distance"`
	MinProbability float64 `toml:"min_probability"`
	MaxProbability float64 `toml:"max_probability"`
	MaxLevel       int     `toml:"max_level"`
}

// DefaultConfig returns a Config with no bounds set and an unbounded
// subdivision depth.
func DefaultConfig() Config {
	return Config{MaxLevel: -1}
}

// LoadConfig reads a Config in TOML format. Keys left out keep their
// DefaultConfig values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeReader(r, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Mesh is the adaptive recursive mesh.
type Mesh struct {
	nearest.Mesh

	cfg Config

	levels   []int // subdivision depth per cell; deeper means smaller
	rootEdge float64

	vertices        *mat.Dense // scaled coordinates
	vertexAdjacency *sparse.SparseArray
	cellVertices    [][]int
}

// New returns an empty adaptive mesh.
func New(cfg Config) *Mesh { return NewWithScaler(cfg, scale.Identity{}) }

// NewWithScaler returns an empty adaptive mesh using the given coordinate
// scaler.
func NewWithScaler(cfg Config, s scale.Scaler) *Mesh {
	m := &Mesh{cfg: cfg}
	m.Mesh = *nearest.NewWithScaler(s)
	return m
}

// Tessellate builds the dichotomy over the point set, installs the leaf
// centers as cells and derives adjacency, vertices and cell-vertex incidence
// from the leaf geometry. Growing an already grown mesh is rejected.
func (m *Mesh) Tessellate(points *tessellate.PointSet) error {
	if m.ScaledCenters() != nil {
		return &tessellate.MeshError{Reason: "mesh already tessellated; grow a fresh instance instead"}
	}
	if err := points.Validate(); err != nil {
		return err
	}
	n := points.Len()
	minCount := int(math.Round(m.cfg.MinProbability * float64(n)))
	maxProbability := m.cfg.MaxProbability
	if m.cfg.MinProbability > 0 && maxProbability == 0 {
		maxProbability = 10 * m.cfg.MinProbability
	}
	maxCount := int(math.Round(maxProbability * float64(n)))
	if maxCount <= 0 && m.cfg.AvgDistance <= 0 {
		return &tessellate.MeshError{Reason: "adaptive mesh needs a count bound (MaxProbability) or a size bound (AvgDistance)"}
	}

	scaler := m.Scaler()
	scaled := scaler.ScalePoints(points.Coords())
	minEdge := 0.0
	if m.cfg.MinDistance > 0 {
		minEdge = scaler.ScaleDistance(m.cfg.MinDistance)
	}
	baseEdge := 0.0
	if m.cfg.AvgDistance > 0 {
		baseEdge = scaler.ScaleDistance(m.cfg.AvgDistance)
	}

	dich := newDichotomy(scaled, minCount, maxCount, minEdge, baseEdge, m.cfg.MaxLevel)
	dich.split()
	if len(dich.leaves) == 0 {
		return &tessellate.MeshError{Reason: "adaptive mesh subdivision produced no cells; relax MinProbability or the size bounds"}
	}

	d := points.Dims()
	centers := mat.NewDense(len(dich.leaves), d, nil)
	m.levels = make([]int, len(dich.leaves))
	for c, leaf := range dich.leaves {
		origin := dich.originCoords(leaf)
		half := dich.referenceLength(leaf.depth + 1)
		for j := 0; j < d; j++ {
			centers.Set(c, j, origin[j]+half)
		}
		m.levels[c] = leaf.depth
	}
	if err := m.Grow(points, centers); err != nil {
		return err
	}
	m.rootEdge = dich.rootEdge

	edges := dich.adjacency()
	adj := sparse.ZerosSparse(len(dich.leaves), len(dich.leaves))
	for _, e := range edges {
		adj.Set(1, e[0], e[1])
		adj.Set(1, e[1], e[0])
	}
	m.SetCellAdjacency(adj, nil)
	m.SetCellLabels(m.levels)
	m.synthesizeVertices(dich)

	logrus.WithFields(logrus.Fields{
		"points": n,
		"cells":  len(dich.leaves),
		"edges":  len(edges),
	}).Debug("adaptive mesh built")
	return nil
}

// synthesizeVertices emits the 2^D corners of every leaf, merges corners with
// identical lattice coordinates, and connects corner pairs differing along
// exactly one axis. The result is structurally compatible with a Voronoi
// boundary mesh without a geometric solve.
func (m *Mesh) synthesizeVertices(dich *dichotomy) {
	d := dich.dims
	ncorners := 1 << uint(d)
	ids := make(map[string]int)
	var coords []float64
	m.cellVertices = make([][]int, len(dich.leaves))

	corner := make([]int64, d)
	for c, leaf := range dich.leaves {
		size := latticeSize(leaf.depth)
		vs := make([]int, ncorners)
		for b := 0; b < ncorners; b++ {
			for j := 0; j < d; j++ {
				corner[j] = leaf.origin[j]
				if b&(1<<uint(j)) != 0 {
					corner[j] += size
				}
			}
			key := latticeKey(corner)
			id, ok := ids[key]
			if !ok {
				id = len(ids)
				ids[key] = id
				for j := 0; j < d; j++ {
					coords = append(coords, dich.lower[j]+float64(corner[j])*dich.unit)
				}
			}
			vs[b] = id
		}
		m.cellVertices[c] = vs
	}

	m.vertices = mat.NewDense(len(ids), d, coords)
	m.vertexAdjacency = sparse.ZerosSparse(len(ids), len(ids))
	for _, vs := range m.cellVertices {
		for i := 0; i < ncorners; i++ {
			for j := i + 1; j < ncorners; j++ {
				if popcount(i^j) == 1 {
					m.vertexAdjacency.Set(1, vs[i], vs[j])
					m.vertexAdjacency.Set(1, vs[j], vs[i])
				}
			}
		}
	}
}

func popcount(x int) int {
	c := 0
	for ; x != 0; x &= x - 1 {
		c++
	}
	return c
}

// Levels returns the subdivision depth of every cell. Depth 0 is the root
// region; each increment halves the cell edge.
func (m *Mesh) Levels() []int { return m.levels }

// Vertices returns the synthesized corner vertices in original coordinates.
func (m *Mesh) Vertices() (*mat.Dense, error) {
	if m.vertices == nil {
		return nil, &tessellate.NotTessellatedError{Op: "Vertices"}
	}
	return m.Scaler().UnscalePoints(m.vertices), nil
}

// VertexAdjacency connects vertices joined by a leaf cell edge.
func (m *Mesh) VertexAdjacency() (*sparse.SparseArray, error) {
	if m.vertexAdjacency == nil {
		return nil, &tessellate.NotTessellatedError{Op: "VertexAdjacency"}
	}
	return m.vertexAdjacency, nil
}

// CellVertices maps every cell to its 2^D corner vertex indices.
func (m *Mesh) CellVertices() ([][]int, error) {
	if m.cellVertices == nil {
		return nil, &tessellate.NotTessellatedError{Op: "CellVertices"}
	}
	return m.cellVertices, nil
}

// CellIndex assigns query points to cells.
//
// With the default or Chebyshev metric it uses the fast query path: a point
// belongs to any cell whose center is within the cell's half edge under the
// Chebyshev distance. Count-bound options are meaningful only at Tessellate
// time for this mesh and are rejected. Any other metric delegates to the
// count-bounded nearest-center assignment over the adaptive cell centers.
func (m *Mesh) CellIndex(points *tessellate.PointSet, opts tessellate.IndexOptions) (tessellate.Partition, error) {
	if m.ScaledCenters() == nil {
		return tessellate.Partition{}, &tessellate.NotTessellatedError{Op: "CellIndex"}
	}
	if opts.Metric != tessellate.MetricDefault && opts.Metric != tessellate.Chebyshev {
		return m.Mesh.CellIndex(points, opts)
	}
	switch {
	case opts.MinNearest > 0:
		return tessellate.Partition{}, &tessellate.UnsupportedConstraintError{
			Option: "MinNearest", Reason: "not supported on the Chebyshev query path; set MinProbability at Tessellate time or use the Euclidean metric"}
	case opts.MaxNearest > 0:
		return tessellate.Partition{}, &tessellate.UnsupportedConstraintError{
			Option: "MaxNearest", Reason: "not supported on the Chebyshev query path; set MaxProbability at Tessellate time or use the Euclidean metric"}
	case opts.MinLocationCount > 0:
		return tessellate.Partition{}, &tessellate.UnsupportedConstraintError{
			Option: "MinLocationCount", Reason: "not supported on the Chebyshev query path; use the Euclidean metric"}
	}
	if points.Dims() != m.Dims() {
		return tessellate.Partition{}, &tessellate.DimensionMismatchError{Want: m.Dims(), Got: points.Dims()}
	}

	scaled := m.Scaler().ScalePoints(points.Coords())
	centers := m.ScaledCenters()
	D := tessellate.DistanceMatrix(scaled, centers, tessellate.Chebyshev)
	n, ncells := D.Dims()

	// Half edge per cell, depth+1 reference length.
	half := make([]float64, ncells)
	for c, level := range m.levels {
		half[c] = math.Ldexp(m.rootEdge, -(level + 1))
	}

	array := make([]int, n)
	var pointIndex, cellIndex []int
	unique := true
	for i := 0; i < n; i++ {
		array[i] = tessellate.Unassigned
		matches := 0
		for c := 0; c < ncells; c++ {
			if D.At(i, c) <= half[c] {
				if matches == 0 {
					array[i] = c
				}
				matches++
				pointIndex = append(pointIndex, i)
				cellIndex = append(cellIndex, c)
			}
		}
		if matches != 1 {
			unique = false
		}
	}
	var p tessellate.Partition
	if unique {
		p = tessellate.ArrayPartition(array, ncells)
	} else {
		p = tessellate.PairPartition(pointIndex, cellIndex, n, ncells)
	}
	if opts.Format == tessellate.FormatAuto {
		return p, nil
	}
	sel := opts.Select
	if sel == nil {
		sel = tessellate.NearestCell(scaled, centers)
	}
	return tessellate.FormatCellIndex(p, opts.Format, sel)
}
