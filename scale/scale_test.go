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

package scale

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

func TestLinearRoundTrip(t *testing.T) {
	s := NewLinear([]float64{2, 4}, []float64{1, -1})
	points := mat.NewDense(2, 2, []float64{
		1, -1,
		5, 7,
	})

	scaled := s.ScalePoints(points)
	want := []float64{
		0, 0,
		2, 2,
	}
	if diff := cmp.Diff(want, scaled.RawMatrix().Data); diff != "" {
		t.Errorf("scaled points mismatch (-want +got):\n%s", diff)
	}

	back := s.UnscalePoints(scaled)
	if !mat.EqualApprox(back, points, 1e-12) {
		t.Errorf("round trip: %v != %v", back.RawMatrix().Data, points.RawMatrix().Data)
	}

	if got := s.ScaleDistance(3); got != 1.5 {
		t.Errorf("scaled distance: %v != 1.5", got)
	}
}

func TestIdentity(t *testing.T) {
	points := mat.NewDense(1, 2, []float64{3, 4})
	var s Scaler = Identity{}
	if s.ScalePoints(points) != points || s.UnscalePoints(points) != points {
		t.Error("identity scaler must return its input unchanged")
	}
	if s.ScaleDistance(2.5) != 2.5 {
		t.Error("identity scaler must not rescale distances")
	}
}
