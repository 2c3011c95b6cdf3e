package math3d

// Mat4 is an affine transform stored column-major:
//
//	| 0  4  8  12 |
//	| 1  5  9  13 |
//	| 2  6  10 14 |
//	| 3  7  11 15 |
//
// Columns 0-2 hold the basis axes and column 3 the translation. The bottom
// row is always (0, 0, 0, 1) for matrices built by this package.
type Mat4 [16]float64

// Basis builds the camera-to-world transform: a point p maps to
// p.X*right + p.Y*up + p.Z*forward + origin.
func Basis(right, up, forward, origin Vec3) Mat4 {
	return Mat4{
		right.X, right.Y, right.Z, 0,
		up.X, up.Y, up.Z, 0,
		forward.X, forward.Y, forward.Z, 0,
		origin.X, origin.Y, origin.Z, 1,
	}
}

// MulVec3 transforms v as a point, translation included.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.Column(0).Scale(v.X).
		Add(m.Column(1).Scale(v.Y)).
		Add(m.Column(2).Scale(v.Z)).
		Add(m.Column(3))
}

// Column returns the xyz part of column col.
func (m Mat4) Column(col int) Vec3 {
	return Vec3{m[col*4], m[col*4+1], m[col*4+2]}
}
