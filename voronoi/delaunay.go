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

package voronoi

import (
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/spatialmodel/tessellate"
)

const liftEps = 1e-12

// triangulate computes the planar Delaunay triangulation of the given 2D
// sites by lifting them onto the paraboloid z = x²+y² and keeping the
// downward-facing triangles of the 3D convex hull. Triangles are returned
// with counter-clockwise orientation in the plane.
func triangulate(sites *mat.Dense) ([][3]int, error) {
	n, _ := sites.Dims()
	if n < 3 {
		return nil, &tessellate.MeshError{Reason: "the boundary solve requires at least 3 cell centers"}
	}
	lifted := make([]r3.Vector, n)
	for i := 0; i < n; i++ {
		x := sites.At(i, 0)
		y := sites.At(i, 1)
		lifted[i] = r3.Vector{X: x, Y: y, Z: x*x + y*y}
	}

	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(lifted, true, true, liftEps)
	if len(ch.Indices)%3 != 0 {
		return nil, &tessellate.MeshError{Reason: "inconsistent hull returned by the triangulation"}
	}

	var tris [][3]int
	for t := 0; t < len(ch.Indices); t += 3 {
		a, b, c := ch.Indices[t], ch.Indices[t+1], ch.Indices[t+2]
		norm := lifted[b].Sub(lifted[a]).Cross(lifted[c].Sub(lifted[a]))
		if norm.Z >= -liftEps {
			// Upward or vertical face: not part of the lower hull.
			continue
		}
		if signedArea(sites, a, b, c) < 0 {
			b, c = c, b
		}
		tris = append(tris, [3]int{a, b, c})
	}
	if len(tris) == 0 {
		return nil, &tessellate.MeshError{Reason: "degenerate cell centers (collinear?); no triangulation exists"}
	}
	return tris, nil
}

func signedArea(sites *mat.Dense, a, b, c int) float64 {
	ax, ay := sites.At(a, 0), sites.At(a, 1)
	bx, by := sites.At(b, 0), sites.At(b, 1)
	cx, cy := sites.At(c, 0), sites.At(c, 1)
	return (bx-ax)*(cy-ay) - (cx-ax)*(by-ay)
}

// circumcenter returns the center of the circle through the triangle's
// three sites.
func circumcenter(sites *mat.Dense, t [3]int) (x, y float64) {
	ax, ay := sites.At(t[0], 0), sites.At(t[0], 1)
	bx, by := sites.At(t[1], 0), sites.At(t[1], 1)
	cx, cy := sites.At(t[2], 0), sites.At(t[2], 1)
	a2 := ax*ax + ay*ay
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	x = (a2*(by-cy) + b2*(cy-ay) + c2*(ay-by)) / d
	y = (a2*(cx-bx) + b2*(ax-cx) + c2*(bx-ax)) / d
	return x, y
}
