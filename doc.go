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

/*
Package tessellate partitions clouds of spatial points into cells and
maintains the cell-to-cell adjacency graphs that downstream gradient and
diffusion estimators consume.

The package defines the data model shared by all mesh variants: point sets
with optional time and trajectory columns, the three interchangeable
point-to-cell association encodings (dense array, sparse pair list, and
point×cell incidence matrix), the Tessellation contract, the CellStats
partition container, and the derivation of point-level adjacency from
cell-level adjacency.

Concrete tessellations live in subpackages: nearest (nearest-center
assignment with count-bounded relaxation), voronoi (explicit polygonal
boundaries on top of a nearest-center mesh), grid (fixed-resolution
axis-aligned grids with closed-form adjacency), and kdtree (adaptive
recursive subdivision with face-identity neighbor discovery).

All geometry happens in the normalized coordinate space produced by a
scale.Scaler. A tessellation is read-only once grown and safe for
concurrent reads; growing or mutating it concurrently is not.
*/
package tessellate
