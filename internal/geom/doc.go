// Package geom holds the small amount of double-precision linear algebra the
// scene model needs: 3D vectors, 4x4 transform matrices and axis-aligned
// bounding boxes.
//
// Matrices follow the row-vector convention used by interchange archives: a
// point is transformed as p' = p * M, translation lives in row 3, and a child's
// world matrix is local * parentWorld.
package geom
