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

/*Package voronoi derives an explicit polygonal boundary representation on
top of a nearest-center mesh: Voronoi vertices, the vertex adjacency graph
whose edges are ridges, and the cell→vertex incidence. The geometric solve
is lazy: it runs once, on first access, and is cached until the cell centers
are replaced.*/
package voronoi

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/tessellate"
	"github.com/spatialmodel/tessellate/nearest"
	"github.com/spatialmodel/tessellate/scale"
)

// Make sure the mesh fulfills the boundary contract.
var _ tessellate.BoundaryTessellation = &Mesh{}

// Mesh is a Voronoi-style boundary mesh wrapping a nearest-center mesh.
// Assignment behaves exactly as the embedded nearest.Mesh; the boundary
// geometry (vertices, ridges, incidence) is derived lazily from a single
// planar Voronoi solve over the cell centers.
type Mesh struct {
	nearest.Mesh

	memo     tessellate.Memo
	treeMemo tessellate.Memo

	vertices        *mat.Dense // scaled circumcenters, one per Delaunay triangle
	vertexAdjacency *sparse.SparseArray
	cellVertices    [][]int
	ridgePoints     [][2]int
	unbounded       []bool

	polys []geom.Polygon
	tree  *rtree.Rtree
}

// New returns an empty boundary mesh using the identity scaler.
func New() *Mesh { return NewWithScaler(scale.Identity{}) }

// NewWithScaler returns an empty boundary mesh normalizing coordinates
// through s.
func NewWithScaler(s scale.Scaler) *Mesh {
	m := &Mesh{}
	m.Mesh = *nearest.NewWithScaler(s)
	return m
}

// SetCellCenters replaces the cell centers and invalidates every derived
// boundary field.
func (m *Mesh) SetCellCenters(centers *mat.Dense) {
	m.Mesh.SetCellCenters(centers)
	m.invalidate()
}

func (m *Mesh) invalidate() {
	m.memo.Invalidate()
	m.treeMemo.Invalidate()
	m.vertices = nil
	m.vertexAdjacency = nil
	m.cellVertices = nil
	m.ridgePoints = nil
	m.unbounded = nil
	m.polys = nil
	m.tree = nil
}

// postprocess runs the Voronoi solve. It is idempotent and never triggered
// without cell centers.
func (m *Mesh) postprocess() error {
	return m.memo.Do(func() error {
		centers := m.ScaledCenters()
		if centers == nil {
			return &tessellate.NotTessellatedError{Op: "postprocess"}
		}
		if m.Dims() != 2 {
			return &tessellate.MeshError{Reason: "the boundary solve is planar; grow an adaptive or grid mesh for other dimensionalities"}
		}
		tris, err := triangulate(centers)
		if err != nil {
			return err
		}
		ncells := m.Len()
		ntris := len(tris)

		m.vertices = mat.NewDense(ntris, 2, nil)
		incident := make([][]int, ncells)
		for t, tri := range tris {
			x, y := circumcenter(centers, tri)
			m.vertices.Set(t, 0, x)
			m.vertices.Set(t, 1, y)
			for _, s := range tri {
				incident[s] = append(incident[s], t)
			}
		}

		// Decompose the triangulation into ridges: one per Delaunay edge,
		// carrying the 1-2 triangles that share it.
		ridgeTris := make(map[[2]int][]int)
		for t, tri := range tris {
			for k := 0; k < 3; k++ {
				i, j := tri[k], tri[(k+1)%3]
				if j < i {
					i, j = j, i
				}
				ridgeTris[[2]int{i, j}] = append(ridgeTris[[2]int{i, j}], t)
			}
		}
		m.ridgePoints = make([][2]int, 0, len(ridgeTris))
		for e := range ridgeTris {
			m.ridgePoints = append(m.ridgePoints, e)
		}
		sort.Slice(m.ridgePoints, func(a, b int) bool {
			if m.ridgePoints[a][0] != m.ridgePoints[b][0] {
				return m.ridgePoints[a][0] < m.ridgePoints[b][0]
			}
			return m.ridgePoints[a][1] < m.ridgePoints[b][1]
		})

		// Vertex adjacency from finite ridges; infinite ridges (one
		// triangle) are dropped. Cells touching an infinite ridge are
		// unbounded.
		m.vertexAdjacency = sparse.ZerosSparse(ntris, ntris)
		m.unbounded = make([]bool, ncells)
		for _, e := range m.ridgePoints {
			ts := ridgeTris[e]
			if len(ts) == 2 {
				m.vertexAdjacency.Set(1, ts[0], ts[1])
				m.vertexAdjacency.Set(1, ts[1], ts[0])
			} else {
				m.unbounded[e[0]] = true
				m.unbounded[e[1]] = true
			}
		}

		// Cell→vertex incidence, ordered by angle around the center so
		// consecutive vertices trace the cell boundary.
		m.cellVertices = incident
		for c := range m.cellVertices {
			cx, cy := centers.At(c, 0), centers.At(c, 1)
			vs := m.cellVertices[c]
			sort.Slice(vs, func(a, b int) bool {
				aa := math.Atan2(m.vertices.At(vs[a], 1)-cy, m.vertices.At(vs[a], 0)-cx)
				ab := math.Atan2(m.vertices.At(vs[b], 1)-cy, m.vertices.At(vs[b], 0)-cx)
				return aa < ab
			})
		}

		// Cell adjacency from ridge point pairs, unless supplied
		// externally.
		if adj, _ := m.Mesh.CellAdjacency(); adj == nil {
			adj = sparse.ZerosSparse(ncells, ncells)
			for _, e := range m.ridgePoints {
				adj.Set(1, e[0], e[1])
				adj.Set(1, e[1], e[0])
			}
			m.SetCellAdjacency(adj, nil)
		}

		logrus.WithFields(logrus.Fields{
			"cells":    ncells,
			"vertices": ntris,
			"ridges":   len(m.ridgePoints),
		}).Debug("voronoi: boundary solve complete")
		return nil
	})
}

// Vertices returns the Voronoi vertex coordinates in original coordinates.
func (m *Mesh) Vertices() (*mat.Dense, error) {
	if err := m.postprocess(); err != nil {
		return nil, err
	}
	return m.Scaler().UnscalePoints(m.vertices), nil
}

// VertexAdjacency returns the vertex adjacency graph; its edges are the
// finite Voronoi ridges.
func (m *Mesh) VertexAdjacency() (*sparse.SparseArray, error) {
	if err := m.postprocess(); err != nil {
		return nil, err
	}
	return m.vertexAdjacency, nil
}

// CellVertices maps every cell to its boundary vertex indices, ordered
// counter-clockwise. Unbounded cells list only their finite vertices.
func (m *Mesh) CellVertices() ([][]int, error) {
	if err := m.postprocess(); err != nil {
		return nil, err
	}
	return m.cellVertices, nil
}

// RidgePoints returns the site pairs separated by a ridge, one per Delaunay
// edge, in index order.
func (m *Mesh) RidgePoints() ([][2]int, error) {
	if err := m.postprocess(); err != nil {
		return nil, err
	}
	return m.ridgePoints, nil
}

// CellAdjacency returns the cell adjacency graph, running the boundary
// solve if no adjacency was supplied externally.
func (m *Mesh) CellAdjacency() (*sparse.SparseArray, error) {
	adj, err := m.Mesh.CellAdjacency()
	if err != nil {
		return nil, err
	}
	if adj != nil {
		return adj, nil
	}
	if err := m.postprocess(); err != nil {
		return nil, err
	}
	return m.Mesh.CellAdjacency()
}

// CellPolygons returns the finite cells as polygons in original
// coordinates. Unbounded cells get a nil entry.
func (m *Mesh) CellPolygons() ([]geom.Polygon, error) {
	if err := m.postprocess(); err != nil {
		return nil, err
	}
	if m.polys != nil {
		return m.polys, nil
	}
	vertices := m.Scaler().UnscalePoints(m.vertices)
	m.polys = make([]geom.Polygon, m.Len())
	for c, vs := range m.cellVertices {
		if m.unbounded[c] || len(vs) < 3 {
			continue
		}
		ring := make([]geom.Point, len(vs))
		for k, v := range vs {
			ring[k] = geom.Point{X: vertices.At(v, 0), Y: vertices.At(v, 1)}
		}
		m.polys[c] = geom.Polygon{ring}
	}
	return m.polys, nil
}

// cellShape indexes one finite cell polygon in the lookup tree.
type cellShape struct {
	geom.Polygon
	cell int
}

// Locate returns the index of the finite cell containing p, or Unassigned
// when p lies in no finite cell. Containment is resolved through an R-tree
// over the cell polygons.
func (m *Mesh) Locate(p geom.Point) (int, error) {
	polys, err := m.CellPolygons()
	if err != nil {
		return tessellate.Unassigned, err
	}
	err = m.treeMemo.Do(func() error {
		m.tree = rtree.NewTree(25, 50)
		for c, poly := range polys {
			if poly != nil {
				m.tree.Insert(cellShape{Polygon: poly, cell: c})
			}
		}
		return nil
	})
	if err != nil {
		return tessellate.Unassigned, err
	}
	for _, item := range m.tree.SearchIntersect(p.Bounds()) {
		shape := item.(cellShape)
		if p.Within(shape.Polygon) != geom.Outside {
			return shape.cell, nil
		}
	}
	return tessellate.Unassigned, nil
}
