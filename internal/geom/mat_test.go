package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuat_ToMat3_Identity(t *testing.T) {
	m := IdentityQuat().ToMat3()
	assert.Equal(t, Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}, m)
}

func TestQuatFromMat3_RoundTrip(t *testing.T) {
	cases := []Quat{
		IdentityQuat(),
		FromAxisAngle(Vec3{0, 0, 1}, math.Pi/2),
		FromAxisAngle(Vec3{1, 0, 0}, math.Pi),     // trace <= 0, x branch
		FromAxisAngle(Vec3{0, 1, 0}, math.Pi),     // y branch
		FromAxisAngle(Vec3{0, 0, 1}, math.Pi),     // z branch
		FromAxisAngle(Vec3{1, 2, -1}, 2.8),
	}
	for _, q := range cases {
		assertQuatNear(t, q, QuatFromMat3(q.ToMat3()))
	}
}

func TestIdentity4(t *testing.T) {
	m := Identity4()
	v := Vec3{1, 2, 3}
	assert.Equal(t, v, m.TransformPoint(v))
}

func TestMat4_TransformPoint_Translation(t *testing.T) {
	m := Identity4()
	m[12], m[13], m[14] = 10, 20, 30
	assert.Equal(t, Vec3{11, 22, 33}, m.TransformPoint(Vec3{1, 2, 3}))
}
