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

package nearest

import (
	"errors"
	"reflect"
	"testing"

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

// threeCenters grows a mesh with centers 0, 5 and 20 on the x axis.
func threeCenters(t *testing.T) *Mesh {
	t.Helper()
	m := New()
	err := m.Tessellate(pointSet(t, 3, []float64{
		0, 0,
		5, 0,
		20, 0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTessellate(t *testing.T) {
	m := threeCenters(t)
	if m.Len() != 3 || m.Dims() != 2 {
		t.Fatalf("mesh shape: %d cells, %d dims", m.Len(), m.Dims())
	}
	centers := m.CellCenters()
	if got := centers.At(2, 0); got != 20 {
		t.Errorf("center 2: %v != 20", got)
	}

	// A second Tessellate must be rejected.
	err := m.Tessellate(pointSet(t, 2, []float64{0, 0, 1, 1}))
	var meshErr *tessellate.MeshError
	if !errors.As(err, &meshErr) {
		t.Errorf("error: %v, want MeshError", err)
	}
}

func TestNotTessellated(t *testing.T) {
	m := New()
	_, err := m.CellIndex(pointSet(t, 2, []float64{0, 0, 1, 1}), tessellate.IndexOptions{})
	var notErr *tessellate.NotTessellatedError
	if !errors.As(err, &notErr) {
		t.Errorf("error: %v, want NotTessellatedError", err)
	}
}

func TestDimensionMismatch(t *testing.T) {
	m := threeCenters(t)
	_, err := m.CellIndex(pointSet(t, 2, []float64{0, 0, 0, 1, 1, 1}), tessellate.IndexOptions{})
	var dimErr *tessellate.DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Fatalf("error: %v, want DimensionMismatchError", err)
	}
	if dimErr.Want != 2 || dimErr.Got != 3 {
		t.Errorf("dimensions: want %d got %d", dimErr.Want, dimErr.Got)
	}
}

func TestCellIndex(t *testing.T) {
	m := threeCenters(t)
	points := pointSet(t, 4, []float64{
		1, 0,
		4, 1,
		13, 0,
		30, 0,
	})
	p, err := m.CellIndex(points, tessellate.IndexOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 2, 2}
	if !reflect.DeepEqual(p.Array(), want) {
		t.Errorf("assignment: %v != %v", p.Array(), want)
	}
}

func TestMaxNearest(t *testing.T) {
	m := threeCenters(t)
	// Four points nearest to center 0, by increasing distance.
	points := pointSet(t, 4, []float64{
		0, 0,
		1, 0,
		2, 0,
		30, 0,
	})
	p, err := m.CellIndex(points, tessellate.IndexOptions{MaxNearest: 2})
	if err != nil {
		t.Fatal(err)
	}
	// The two nearest stay; the third is cut loose.
	want := []int{0, 0, tessellate.Unassigned, 2}
	if !reflect.DeepEqual(p.Array(), want) {
		t.Errorf("assignment: %v != %v", p.Array(), want)
	}
}

func TestMinNearestRelaxation(t *testing.T) {
	m := threeCenters(t)
	// Nothing is near center 2, so it is relaxed to an overlapping cell
	// holding its MinNearest nearest query points.
	points := pointSet(t, 3, []float64{
		0, 0,
		5, 0,
		6, 0,
	})
	p, err := m.CellIndex(points, tessellate.IndexOptions{MinNearest: 2})
	if err != nil {
		t.Fatal(err)
	}
	if p.Format() != tessellate.FormatPair {
		t.Fatalf("format: %v != %v", p.Format(), tessellate.FormatPair)
	}
	counts := p.Counts()
	if counts[2] != 2 {
		t.Errorf("relaxed cell count: %d != 2", counts[2])
	}
	// Points 2 and 1 are the two nearest to center 2.
	pointIndex, cellIndex := p.Pairs()
	got := map[int]bool{}
	for k, c := range cellIndex {
		if c == 2 {
			got[pointIndex[k]] = true
		}
	}
	if !got[1] || !got[2] {
		t.Errorf("relaxed members: %v, want points 1 and 2", got)
	}
}

func TestForceArraySkipsRelaxation(t *testing.T) {
	m := threeCenters(t)
	points := pointSet(t, 3, []float64{
		0, 0,
		5, 0,
		6, 0,
	})
	p, err := m.CellIndex(points, tessellate.IndexOptions{
		MinNearest: 2, Format: tessellate.FormatForceArray,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Format() != tessellate.FormatArray {
		t.Fatalf("format: %v != %v", p.Format(), tessellate.FormatArray)
	}
	want := []int{0, 1, 1}
	if !reflect.DeepEqual(p.Array(), want) {
		t.Errorf("assignment: %v != %v", p.Array(), want)
	}
}

func TestMinLocationCount(t *testing.T) {
	m := threeCenters(t)
	points := pointSet(t, 3, []float64{
		0, 0,
		1, 0,
		5, 0,
	})
	// Cell 1 holds a single point and is dropped entirely.
	p, err := m.CellIndex(points, tessellate.IndexOptions{MinLocationCount: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 0, tessellate.Unassigned}
	if !reflect.DeepEqual(p.Array(), want) {
		t.Errorf("assignment: %v != %v", p.Array(), want)
	}
}
