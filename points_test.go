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
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNamedColumns(t *testing.T) {
	data := mat.NewDense(2, 4, []float64{
		1, 0.5, 3, 7,
		1, 1.5, 4, 8,
	})
	ps, err := NewPointSet(data, ColTrajectory, ColTime, ColX, ColY)
	if err != nil {
		t.Fatal(err)
	}
	if ps.Dims() != 2 {
		t.Fatalf("dims: %d != 2", ps.Dims())
	}
	// Only the x and y columns enter the geometry.
	coords := ps.Coords()
	if coords.At(0, 0) != 3 || coords.At(0, 1) != 7 || coords.At(1, 0) != 4 || coords.At(1, 1) != 8 {
		t.Errorf("coords: %v", coords.RawMatrix().Data)
	}
}

func TestNamedColumnsMissingAxis(t *testing.T) {
	data := mat.NewDense(1, 2, []float64{1, 2})
	_, err := NewPointSet(data, ColX, ColTime)
	var meshErr *MeshError
	if !errors.As(err, &meshErr) {
		t.Errorf("error: %v, want MeshError", err)
	}
}

func TestValidate(t *testing.T) {
	degenerate, err := NewPointSet(mat.NewDense(3, 2, []float64{
		2, 2,
		2, 2,
		2, 2,
	}))
	if err != nil {
		t.Fatal(err)
	}
	var meshErr *MeshError
	if err := degenerate.Validate(); !errors.As(err, &meshErr) {
		t.Errorf("error: %v, want MeshError", err)
	}

	ok, err := NewPointSet(mat.NewDense(2, 2, []float64{
		0, 0,
		1, 1,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}
