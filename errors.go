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

import "fmt"

// MeshError reports malformed or insufficient input to Tessellate, such as
// fewer than two distinct points or point data whose spatial columns cannot
// be identified.
type MeshError struct {
	Reason string
}

func (e *MeshError) Error() string {
	return fmt.Sprintf("tessellate: invalid mesh input: %s", e.Reason)
}

// NotTessellatedError reports that geometry was queried before the
// tessellation was grown.
type NotTessellatedError struct {
	Op string
}

func (e *NotTessellatedError) Error() string {
	return fmt.Sprintf("tessellate: %s: tessellation has not been grown yet", e.Op)
}

// DimensionMismatchError reports query points whose dimensionality disagrees
// with the mesh they are matched against.
type DimensionMismatchError struct {
	Want, Got int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("tessellate: dimension mismatch: mesh has %d spatial dimensions but points have %d", e.Want, e.Got)
}

// UnsupportedConstraintError reports an option combination a mesh variant
// cannot honor, naming the offending option.
type UnsupportedConstraintError struct {
	Option string
	Reason string
}

func (e *UnsupportedConstraintError) Error() string {
	return fmt.Sprintf("tessellate: unsupported constraint %s: %s", e.Option, e.Reason)
}

// UnsupportedEncodingError reports an operation that requires a specific
// partition encoding.
type UnsupportedEncodingError struct {
	Op     string
	Format Format
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("tessellate: %s does not support the %v partition encoding", e.Op, e.Format)
}
