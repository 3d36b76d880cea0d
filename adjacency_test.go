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

package tessellate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/tessellate"
	"github.com/spatialmodel/tessellate/nearest"
)

// adjacentPairMesh builds a two-cell mesh whose cells are declared adjacent.
func adjacentPairMesh(t *testing.T) *nearest.Mesh {
	t.Helper()
	m := twoCellMesh(t)
	adj := sparse.ZerosSparse(2, 2)
	adj.Set(1, 0, 1)
	adj.Set(1, 1, 0)
	m.SetCellAdjacency(adj, nil)
	return m
}

func TestPointAdjacency(t *testing.T) {
	m := adjacentPairMesh(t)
	points, err := tessellate.NewPointSet(mat.NewDense(3, 2, []float64{
		0, 0,
		10, 0,
		10, 4,
	}))
	if err != nil {
		t.Fatal(err)
	}
	cs, err := tessellate.Assign(points, m, tessellate.IndexOptions{})
	if err != nil {
		t.Fatal(err)
	}

	g, err := tessellate.PointAdjacency(cs, false, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Point 0 is alone in cell 0; points 1 and 2 are in cell 1. Weights
	// are point-to-point distances, and only the i<j cell direction is
	// emitted.
	if got := g.Get(0, 1); got != 10 {
		t.Errorf("weight(0,1): %v != 10", got)
	}
	if got := g.Get(0, 2); math.Abs(got-math.Sqrt(116)) > 1e-12 {
		t.Errorf("weight(0,2): %v != sqrt(116)", got)
	}
	if got := g.Get(1, 0); got != 0 {
		t.Errorf("asymmetric graph has a reverse edge: %v", got)
	}
	// Same cell, never adjacent.
	if got := g.Get(1, 2); got != 0 {
		t.Errorf("intra-cell edge: %v", got)
	}

	g, err = tessellate.PointAdjacency(cs, true, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Get(1, 0); got != 10 {
		t.Errorf("symmetric weight(1,0): %v != 10", got)
	}
}

func TestPointAdjacencyEncoding(t *testing.T) {
	m := adjacentPairMesh(t)
	points, err := tessellate.NewPointSet(mat.NewDense(2, 2, []float64{
		0, 0,
		10, 0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	cs := tessellate.NewCellStats(points, m,
		tessellate.PairPartition([]int{0, 1}, []int{0, 1}, 2, 2))
	_, err = tessellate.PointAdjacency(cs, true, nil, nil)
	var encErr *tessellate.UnsupportedEncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("error: %v, want UnsupportedEncodingError", err)
	}
}

func TestPointAdjacencyEdgeFilter(t *testing.T) {
	m := adjacentPairMesh(t)
	points, err := tessellate.NewPointSet(mat.NewDense(2, 2, []float64{
		0, 0,
		10, 0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	cs, err := tessellate.Assign(points, m, tessellate.IndexOptions{})
	if err != nil {
		t.Fatal(err)
	}
	g, err := tessellate.PointAdjacency(cs, true, nil, func(label int) bool { return false })
	if err != nil {
		t.Fatal(err)
	}
	if g.Sum() != 0 {
		t.Errorf("edge filter left %v edge weight", g.Sum())
	}
}

func TestSimplifiedAdjacency(t *testing.T) {
	centers, err := tessellate.NewPointSet(mat.NewDense(3, 2, []float64{
		0, 0,
		10, 0,
		20, 0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	m := nearest.New()
	if err := m.Tessellate(centers); err != nil {
		t.Fatal(err)
	}
	// Entries are 1-based label indices: the 0↔1 edge carries the
	// positive label 1, the 1↔2 edge the non-positive label 0.
	adj := sparse.ZerosSparse(3, 3)
	adj.Set(1, 0, 1)
	adj.Set(1, 1, 0)
	adj.Set(2, 1, 2)
	adj.Set(2, 2, 1)
	m.SetCellAdjacency(adj, []int{1, 0})

	s, err := tessellate.SimplifiedAdjacency(m)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get(0, 1); got != 1 {
		t.Errorf("kept edge (0,1): %v != 1", got)
	}
	if got := s.Get(1, 2); got != 0 {
		t.Errorf("dropped edge (1,2): %v != 0", got)
	}
	if got := len(s.Elements); got != 2 {
		t.Errorf("explicit elements: %v != 2", got)
	}

	// Without labels, positive entries pass through unchanged.
	s, err = tessellate.SimplifiedAdjacency(adjacentPairMesh(t))
	if err != nil {
		t.Fatal(err)
	}
	if s.Get(0, 1) != 1 || s.Get(1, 0) != 1 || len(s.Elements) != 2 {
		t.Errorf("unlabeled adjacency not preserved: %v", s.Elements)
	}
}
