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

/*Package scale maps raw point coordinates to a normalized coordinate space
and back. Tessellations operate in normalized space and call a Scaler at the
boundaries: on the way into Tessellate and whenever exposing cell centers or
vertices in original coordinates.*/
package scale

import (
	"gonum.org/v1/gonum/mat"
)

// Scaler normalizes spatial coordinates. Implementations must be pure: the
// input matrices are never mutated.
type Scaler interface {
	// ScalePoints maps coordinates (one row per point) into normalized
	// space.
	ScalePoints(points *mat.Dense) *mat.Dense

	// UnscalePoints maps normalized coordinates back to the original
	// space.
	UnscalePoints(points *mat.Dense) *mat.Dense

	// ScaleDistance maps a distance into normalized space.
	ScaleDistance(d float64) float64
}

// Identity is the no-op Scaler.
type Identity struct{}

func (Identity) ScalePoints(points *mat.Dense) *mat.Dense   { return points }
func (Identity) UnscalePoints(points *mat.Dense) *mat.Dense { return points }
func (Identity) ScaleDistance(d float64) float64            { return d }

// Linear normalizes each dimension j as (x - Offset[j]) / Factor[j].
// Distances scale by the first factor, so an anisotropic Linear scaler only
// preserves the distance contract when all factors are equal.
type Linear struct {
	Factor []float64
	Offset []float64
}

// NewLinear returns a Linear scaler. A nil offset means zero offsets.
func NewLinear(factor, offset []float64) *Linear {
	if offset == nil {
		offset = make([]float64, len(factor))
	}
	return &Linear{Factor: factor, Offset: offset}
}

func (l *Linear) ScalePoints(points *mat.Dense) *mat.Dense {
	n, d := points.Dims()
	out := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			out.Set(i, j, (points.At(i, j)-l.Offset[j])/l.Factor[j])
		}
	}
	return out
}

func (l *Linear) UnscalePoints(points *mat.Dense) *mat.Dense {
	n, d := points.Dims()
	out := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			out.Set(i, j, points.At(i, j)*l.Factor[j]+l.Offset[j])
		}
	}
	return out
}

func (l *Linear) ScaleDistance(d float64) float64 { return d / l.Factor[0] }
