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

package grid

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/tessellate"
)

func pointSet(t *testing.T, rows int, data []float64) *tessellate.PointSet {
	t.Helper()
	ps, err := tessellate.NewPointSet(mat.NewDense(rows, len(data)/rows, data))
	if err != nil {
		t.Fatal(err)
	}
	return ps
}

// unitSquare3x3 tessellates a 3×3 grid over the unit square.
func unitSquare3x3(t *testing.T) *Mesh {
	t.Helper()
	m := New(Config{
		LowerBound:  []float64{0, 0},
		UpperBound:  []float64{1, 1},
		CountPerDim: []int{3, 3},
	})
	err := m.Tessellate(pointSet(t, 2, []float64{0, 0, 1, 1}))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestGridCenters(t *testing.T) {
	m := unitSquare3x3(t)
	if m.Len() != 9 {
		t.Fatalf("cells: %d != 9", m.Len())
	}
	centers := m.CellCenters()
	// First dimension varies slowest.
	want := [][2]float64{
		{1. / 6, 1. / 6}, {1. / 6, 3. / 6}, {1. / 6, 5. / 6},
		{3. / 6, 1. / 6}, {3. / 6, 3. / 6}, {3. / 6, 5. / 6},
		{5. / 6, 1. / 6}, {5. / 6, 3. / 6}, {5. / 6, 5. / 6},
	}
	for c, w := range want {
		if math.Abs(centers.At(c, 0)-w[0]) > 1e-12 || math.Abs(centers.At(c, 1)-w[1]) > 1e-12 {
			t.Errorf("center %d: (%v,%v) != %v", c, centers.At(c, 0), centers.At(c, 1), w)
		}
	}
}

func TestRookAdjacency(t *testing.T) {
	m := unitSquare3x3(t)
	adj, err := m.CellAdjacency()
	if err != nil {
		t.Fatal(err)
	}
	// Degrees: 2 at corners, 3 on edges, 4 in the middle.
	wantDegree := []float64{2, 3, 2, 3, 4, 3, 2, 3, 2}
	for c, w := range wantDegree {
		degree := 0.0
		for o := 0; o < 9; o++ {
			degree += adj.Get(c, o)
		}
		if degree != w {
			t.Errorf("cell %d degree: %v != %v", c, degree, w)
		}
	}
	// Rook moves only: the middle cell is not adjacent to any corner.
	for _, corner := range []int{0, 2, 6, 8} {
		if adj.Get(4, corner) != 0 {
			t.Errorf("middle cell adjacent to corner %d", corner)
		}
	}
}

func TestGridVertices(t *testing.T) {
	m := unitSquare3x3(t)
	v, err := m.Vertices()
	if err != nil {
		t.Fatal(err)
	}
	if n, d := v.Dims(); n != 16 || d != 2 {
		t.Fatalf("vertex shape: %d×%d, want 16×2", n, d)
	}
	cv, err := m.CellVertices()
	if err != nil {
		t.Fatal(err)
	}
	// Cell 0 covers [0,1/3]² whose corners are the first two vertices of
	// the first two vertex rows.
	want := []int{0, 4, 1, 5}
	sort4 := func(s []int) []int {
		out := append([]int(nil), s...)
		for i := range out {
			for j := i + 1; j < len(out); j++ {
				if out[j] < out[i] {
					out[i], out[j] = out[j], out[i]
				}
			}
		}
		return out
	}
	if !reflect.DeepEqual(sort4(cv[0]), sort4(want)) {
		t.Errorf("cell 0 vertices: %v != %v", cv[0], want)
	}

	va, err := m.VertexAdjacency()
	if err != nil {
		t.Fatal(err)
	}
	// Vertex 0 is the grid corner (0,0): neighbors are vertices 1 and 4.
	if va.Get(0, 1) != 1 || va.Get(0, 4) != 1 || va.Get(0, 5) != 0 {
		t.Error("vertex adjacency at the grid corner is wrong")
	}
}

func TestGridCellIndex(t *testing.T) {
	m := unitSquare3x3(t)
	tests := []struct {
		x, y float64
		cell int
	}{
		{0.1, 0.1, 0},
		{0.5, 0.5, 4},
		{0.9, 0.1, 6},
		{0.1, 0.9, 2},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v,%v", test.x, test.y), func(t *testing.T) {
			p, err := m.CellIndex(pointSet(t, 1, []float64{test.x, test.y}), tessellate.IndexOptions{})
			if err != nil {
				t.Fatal(err)
			}
			if got := p.Array()[0]; got != test.cell {
				t.Errorf("cell: %d != %d", got, test.cell)
			}
		})
	}
}

func TestGridFromPoints(t *testing.T) {
	// Without explicit bounds the grid covers the point cloud, sized by
	// the average occupancy probability.
	points := pointSet(t, 4, []float64{
		0, 0,
		4, 0,
		0, 4,
		4, 4,
	})
	m := New(Config{AvgProbability: 0.25})
	if err := m.Tessellate(points); err != nil {
		t.Fatal(err)
	}
	// 1/0.25 = 4 target cells over a 4×4 region: a 2×2 grid.
	if !reflect.DeepEqual(m.CountPerDim(), []int{2, 2}) {
		t.Errorf("count per dim: %v != [2 2]", m.CountPerDim())
	}
}

func TestGridPolygons(t *testing.T) {
	m := unitSquare3x3(t)
	polys, err := m.CellPolygons()
	if err != nil {
		t.Fatal(err)
	}
	if len(polys) != 9 {
		t.Fatalf("polygons: %d != 9", len(polys))
	}
	area := polys[0].Area()
	if area < 1./9-1e-12 || area > 1./9+1e-12 {
		t.Errorf("cell area: %v != 1/9", area)
	}
}

func TestGridRejectedRegrow(t *testing.T) {
	m := New(Config{CountPerDim: []int{2, 2}})
	if err := m.Tessellate(pointSet(t, 2, []float64{0, 0, 4, 4})); err != nil {
		t.Fatal(err)
	}

	// A second Tessellate over a wider cloud must be rejected without
	// touching the grown geometry.
	err := m.Tessellate(pointSet(t, 2, []float64{0, 0, 100, 100}))
	var meshErr *tessellate.MeshError
	if !errors.As(err, &meshErr) {
		t.Fatalf("error: %v, want MeshError", err)
	}

	if want := []int{2, 2}; !reflect.DeepEqual(m.CountPerDim(), want) {
		t.Errorf("counts: %v != %v", m.CountPerDim(), want)
	}
	centers := m.CellCenters()
	if centers.At(0, 0) != 1 || centers.At(0, 1) != 1 {
		t.Errorf("center 0: (%v,%v) != (1,1)", centers.At(0, 0), centers.At(0, 1))
	}
	polys, err := m.CellPolygons()
	if err != nil {
		t.Fatal(err)
	}
	want := geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}}
	if !reflect.DeepEqual(polys[0], want) {
		t.Errorf("cell 0 polygon: %v != %v", polys[0], want)
	}
}

func TestGridNeedsSizing(t *testing.T) {
	m := New(Config{})
	err := m.Tessellate(pointSet(t, 2, []float64{0, 0, 1, 1}))
	if err == nil {
		t.Fatal("tessellation without sizing succeeded")
	}
}
