package nav

import (
	"math"

	"github.com/voxelview/voxelview/internal/geom"
	"github.com/voxelview/voxelview/internal/watch"
)

// Orientation holds the camera rotation as a unit quaternion.
// The quaternion is re-normalized after every mutation.
type Orientation struct {
	q       geom.Quat
	changed watch.Signal
}

// NewOrientation creates an orientation at the identity rotation.
func NewOrientation() *Orientation {
	return &Orientation{q: geom.IdentityQuat()}
}

// Changed returns the orientation's change signal.
func (o *Orientation) Changed() *watch.Signal {
	return &o.changed
}

// Get returns the current quaternion.
func (o *Orientation) Get() geom.Quat {
	return o.q
}

// Set replaces the rotation, normalizing first. Non-finite or zero-length
// input is silently rejected.
func (o *Orientation) Set(q geom.Quat) bool {
	if !q.IsFinite() || q.Norm() == 0 {
		return false
	}
	o.q = q.Normalized()
	o.changed.Dispatch()
	return true
}

// Reset restores the identity rotation.
func (o *Orientation) Reset() {
	o.q = geom.IdentityQuat()
	o.changed.Dispatch()
}

// Snap quantizes the rotation to the nearest axis-aligned orientation and
// dispatches. Snapping an already axis-aligned orientation is stable: a
// second Snap leaves the value unchanged.
func (o *Orientation) Snap() {
	o.q = snapQuat(o.q)
	o.changed.Dispatch()
}

// snapQuat converts to a rotation matrix and greedily assigns each row its
// dominant not-yet-claimed column, replacing the row with the signed unit
// vector on that column. Rows are processed in order, so ties resolve to
// the earliest row. The resulting signed-permutation matrix converts back
// to a quaternion.
func snapQuat(q geom.Quat) geom.Quat {
	m := q.ToMat3()
	var snapped geom.Mat3
	var used [3]bool
	for row := 0; row < 3; row++ {
		best := -1
		bestAbs := -1.0
		for col := 0; col < 3; col++ {
			if used[col] {
				continue
			}
			if abs := math.Abs(m[row*3+col]); abs > bestAbs {
				bestAbs = abs
				best = col
			}
		}
		used[best] = true
		if m[row*3+best] < 0 {
			snapped[row*3+best] = -1
		} else {
			snapped[row*3+best] = 1
		}
	}
	return geom.QuatFromMat3(snapped)
}

// relativeOrientation keeps a derived orientation equal to peer*fixed,
// back-propagating direct mutations as peer := self*inverse(fixed).
type relativeOrientation struct {
	self         *Orientation
	peer         *Orientation
	fixed        geom.Quat
	updatingSelf bool
	updatingPeer bool
	selfSub      watch.Subscription
	peerSub      watch.Subscription
}

// NewRelativeOrientation returns an orientation whose value tracks
// peer.Get()*fixed under peer changes, and which back-propagates its own
// mutations to the peer. The returned release function detaches both
// subscriptions; the peer is borrowed, never owned.
func NewRelativeOrientation(peer *Orientation, fixed geom.Quat) (*Orientation, func()) {
	r := &relativeOrientation{
		self:  NewOrientation(),
		peer:  peer,
		fixed: fixed.Normalized(),
	}
	r.updatingSelf = true
	r.self.Set(peer.Get().Mul(r.fixed))
	r.updatingSelf = false

	r.peerSub = peer.Changed().Add(r.handlePeerChanged)
	r.selfSub = r.self.Changed().Add(r.handleSelfChanged)

	release := func() {
		r.peerSub.Remove()
		r.selfSub.Remove()
	}
	return r.self, release
}

func (r *relativeOrientation) handlePeerChanged() {
	if r.updatingPeer {
		return
	}
	r.updatingSelf = true
	defer func() { r.updatingSelf = false }()
	r.self.Set(r.peer.Get().Mul(r.fixed))
}

func (r *relativeOrientation) handleSelfChanged() {
	if r.updatingSelf {
		return
	}
	r.updatingPeer = true
	defer func() { r.updatingPeer = false }()
	r.peer.Set(r.self.Get().Mul(r.fixed.Inverse()))
}
