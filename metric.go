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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Metric selects the distance used when matching points against cell
// centers. The zero value lets each mesh variant pick its own default
// (Euclidean for nearest-center meshes, Chebyshev for the adaptive mesh's
// fast query path).
type Metric int

const (
	MetricDefault Metric = iota
	Euclidean
	Chebyshev
	Cityblock
)

func (m Metric) String() string {
	switch m {
	case MetricDefault:
		return "default"
	case Euclidean:
		return "euclidean"
	case Chebyshev:
		return "chebyshev"
	case Cityblock:
		return "cityblock"
	}
	return "unknown"
}

// norm returns the L-norm order corresponding to the metric.
func (m Metric) norm() float64 {
	switch m {
	case Chebyshev:
		return math.Inf(1)
	case Cityblock:
		return 1
	}
	return 2
}

// DistanceMatrix computes the pairwise distances between the rows of x and
// the rows of y. The result has one row per row of x and one column per row
// of y.
func DistanceMatrix(x, y mat.Matrix, metric Metric) *mat.Dense {
	nx, d := x.Dims()
	ny, _ := y.Dims()
	L := metric.norm()
	out := mat.NewDense(nx, ny, nil)
	xi := make([]float64, d)
	yj := make([]float64, d)
	diff := make([]float64, d)
	for i := 0; i < nx; i++ {
		mat.Row(xi, i, x)
		for j := 0; j < ny; j++ {
			mat.Row(yj, j, y)
			floats.SubTo(diff, xi, yj)
			out.Set(i, j, floats.Norm(diff, L))
		}
	}
	return out
}
