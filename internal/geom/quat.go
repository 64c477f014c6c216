// Package geom provides the small fixed-size vector, quaternion and matrix
// types the navigation core needs. Storage is float32 for quaternions (the
// serialized form) with all arithmetic carried out in float64.
package geom

import "math"

// Vec3 is a 3-component float64 vector.
type Vec3 [3]float64

// Quat is a unit quaternion in (x, y, z, w) order, identity = (0,0,0,1).
type Quat [4]float32

// IdentityQuat returns the identity rotation.
func IdentityQuat() Quat {
	return Quat{0, 0, 0, 1}
}

// IsIdentity reports whether q is exactly the identity quaternion.
func (q Quat) IsIdentity() bool {
	return q == Quat{0, 0, 0, 1}
}

// IsFinite reports whether every component is finite.
func (q Quat) IsFinite() bool {
	for _, c := range q {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean length of q.
func (q Quat) Norm() float64 {
	x, y, z, w := float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])
	return math.Sqrt(x*x + y*y + z*z + w*w)
}

// Normalized returns q scaled to unit length.
// A zero or non-finite quaternion normalizes to the identity.
func (q Quat) Normalized() Quat {
	if !q.IsFinite() {
		return IdentityQuat()
	}
	n := q.Norm()
	if n == 0 {
		return IdentityQuat()
	}
	inv := 1 / n
	return Quat{
		float32(float64(q[0]) * inv),
		float32(float64(q[1]) * inv),
		float32(float64(q[2]) * inv),
		float32(float64(q[3]) * inv),
	}
}

// Mul returns the Hamilton product q*r: the rotation r followed by q when
// rotating column vectors.
func (q Quat) Mul(r Quat) Quat {
	qx, qy, qz, qw := float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])
	rx, ry, rz, rw := float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3])
	return Quat{
		float32(qw*rx + qx*rw + qy*rz - qz*ry),
		float32(qw*ry - qx*rz + qy*rw + qz*rx),
		float32(qw*rz + qx*ry - qy*rx + qz*rw),
		float32(qw*rw - qx*rx - qy*ry - qz*rz),
	}
}

// Inverse returns the conjugate, which inverts a unit quaternion.
func (q Quat) Inverse() Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// FromAxisAngle builds the rotation of angle radians about axis.
// The axis need not be normalized; a zero axis yields the identity.
func FromAxisAngle(axis Vec3, angle float64) Quat {
	n := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if n == 0 {
		return IdentityQuat()
	}
	s := math.Sin(angle/2) / n
	return Quat{
		float32(axis[0] * s),
		float32(axis[1] * s),
		float32(axis[2] * s),
		float32(math.Cos(angle / 2)),
	}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	qx, qy, qz, qw := float64(q[0]), float64(q[1]), float64(q[2]), float64(q[3])
	// t = 2 * cross(q.xyz, v)
	tx := 2 * (qy*v[2] - qz*v[1])
	ty := 2 * (qz*v[0] - qx*v[2])
	tz := 2 * (qx*v[1] - qy*v[0])
	// v' = v + w*t + cross(q.xyz, t)
	return Vec3{
		v[0] + qw*tx + qy*tz - qz*ty,
		v[1] + qw*ty + qz*tx - qx*tz,
		v[2] + qw*tz + qx*ty - qy*tx,
	}
}
