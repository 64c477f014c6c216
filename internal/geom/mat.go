package geom

import "math"

// Mat3 is a 3x3 matrix in row-major order: element (r, c) at index r*3+c.
// Vectors transform as columns: v' = M v.
type Mat3 [9]float64

// Mat4 is a 4x4 matrix in column-major order (translation at 12, 13, 14),
// matching the convention of GL-style consumers.
type Mat4 [16]float64

// ToMat3 converts the quaternion to a rotation matrix.
func (q Quat) ToMat3() Mat3 {
	x, y, z, w := float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// QuatFromMat3 converts a rotation matrix back to a unit quaternion using
// the largest-diagonal branch for numerical stability.
func QuatFromMat3(m Mat3) Quat {
	trace := m[0] + m[4] + m[8]
	var x, y, z, w float64
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2 // 4w
		w = s / 4
		x = (m[7] - m[5]) / s
		y = (m[2] - m[6]) / s
		z = (m[3] - m[1]) / s
	case m[0] > m[4] && m[0] > m[8]:
		s := math.Sqrt(1+m[0]-m[4]-m[8]) * 2 // 4x
		x = s / 4
		w = (m[7] - m[5]) / s
		y = (m[1] + m[3]) / s
		z = (m[2] + m[6]) / s
	case m[4] > m[8]:
		s := math.Sqrt(1+m[4]-m[0]-m[8]) * 2 // 4y
		y = s / 4
		w = (m[2] - m[6]) / s
		x = (m[1] + m[3]) / s
		z = (m[5] + m[7]) / s
	default:
		s := math.Sqrt(1+m[8]-m[0]-m[4]) * 2 // 4z
		z = s / 4
		w = (m[3] - m[1]) / s
		x = (m[2] + m[6]) / s
		y = (m[5] + m[7]) / s
	}
	return Quat{float32(x), float32(y), float32(z), float32(w)}.Normalized()
}

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// TransformPoint applies the matrix to a point (w=1).
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14],
	}
}
