// Package link implements the generic view-linking protocol: a synthesized
// "self" entity bound to a borrowed "peer" entity of the same type, kept
// synchronized per a link mode through an explicit operation table.
//
// The operation table replaces any runtime type introspection: each
// concrete entity type supplies its own assign/difference/add/subtract/
// isValid functions and a factory for synthesizing the self value (see
// entities.go).
//
// Feedback-loop prevention: two boolean reentrancy guards (updatingSelf,
// updatingPeer) ensure a change caused by propagation never re-triggers the
// opposite direction. One external mutation therefore produces exactly one
// propagated dispatch on the other side.
package link

import (
	"fmt"

	"github.com/voxelview/voxelview/internal/watch"
)

// Mode is the link mode between self and peer.
type Mode int

const (
	// ModeLinked mirrors the peer bidirectionally with no stored offset.
	ModeLinked Mode = iota
	// ModeRelative tracks the peer with an offset frozen at the moment the
	// mode was entered.
	ModeRelative
	// ModeUnlinked suppresses propagation, except that an invalid self
	// bootstraps once by copying the peer.
	ModeUnlinked
)

// String returns the serialized form of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLinked:
		return "linked"
	case ModeRelative:
		return "relative"
	default:
		return "unlinked"
	}
}

// ParseMode parses the serialized form of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "linked", "":
		return ModeLinked, nil
	case "relative":
		return ModeRelative, nil
	case "unlinked":
		return ModeUnlinked, nil
	default:
		return ModeLinked, fmt.Errorf("link: unknown mode %q", s)
	}
}

// Entity is the contract linked wrappers require of the wrapped type:
// observable plus the uniform state round-trip.
type Entity interface {
	watch.Observable
	EncodeState() any
	RestoreState(v any) error
}

// Ops is the operation table for one entity type. Delta is the type of the
// frozen offset: a voxel vector for positions, a quaternion ratio for
// orientations, a scale ratio for zooms.
type Ops[T Entity, D any] struct {
	// Assign copies src's value into dst, dispatching dst's signal.
	Assign func(dst, src T)
	// IsValid reports whether the entity holds a usable value; an invalid
	// unlinked self bootstraps from the peer.
	IsValid func(T) bool
	// Difference returns the offset a-b (in the entity's own algebra).
	Difference func(a, b T) D
	// Add sets dst := src + delta.
	Add func(dst, src T, delta D)
	// Subtract sets dst := src - delta.
	Subtract func(dst, src T, delta D)
}

// Linked binds a synthesized self entity to a borrowed peer entity.
//
// Ownership: the wrapper owns Value (it synthesized it) and borrows Peer;
// Release detaches the subscriptions but never destroys the peer.
type Linked[T Entity, D any] struct {
	peer  T
	value T
	ops   Ops[T, D]
	mode  Mode

	delta    D
	hasDelta bool

	updatingSelf bool
	updatingPeer bool

	peerSub watch.Subscription
	selfSub watch.Subscription
}

// New creates a linked wrapper around peer. The factory synthesizes the
// self value; it must produce an entity bound to the same coordinate space
// as the peer where that matters. The initial mode's propagation runs once
// to give the self value a sane starting state.
func New[T Entity, D any](peer T, factory func() T, ops Ops[T, D], mode Mode) *Linked[T, D] {
	l := &Linked[T, D]{
		peer:  peer,
		value: factory(),
		ops:   ops,
		mode:  mode,
	}
	if mode == ModeRelative {
		// Delta must be defined before any add/subtract runs; entering
		// relative mode always captures eagerly, including here.
		l.delta = ops.Difference(l.value, peer)
		l.hasDelta = true
	}
	l.bootstrap()
	l.peerSub = peer.Changed().Add(l.handlePeerChanged)
	l.selfSub = l.value.Changed().Add(l.handleSelfChanged)
	return l
}

// bootstrap applies the peer-to-self propagation once, before the
// subscriptions exist, so a freshly created wrapper starts in sync.
func (l *Linked[T, D]) bootstrap() {
	l.updatingSelf = true
	defer func() { l.updatingSelf = false }()
	switch l.mode {
	case ModeLinked:
		l.ops.Assign(l.value, l.peer)
	case ModeRelative:
		l.ops.Add(l.value, l.peer, l.delta)
	case ModeUnlinked:
		if !l.ops.IsValid(l.value) {
			l.ops.Assign(l.value, l.peer)
		}
	}
}

// Value returns the wrapper-owned self entity.
func (l *Linked[T, D]) Value() T {
	return l.value
}

// Peer returns the borrowed peer entity.
func (l *Linked[T, D]) Peer() T {
	return l.peer
}

// Mode returns the current link mode.
func (l *Linked[T, D]) Mode() Mode {
	return l.mode
}

// Delta returns the frozen offset and whether one is currently held.
func (l *Linked[T, D]) Delta() (D, bool) {
	return l.delta, l.hasDelta
}

// SetMode switches the link mode and dispatches self's change signal
// exactly once, even when the mode value is unchanged (callers may force a
// redispatch to refresh listeners). The frozen delta is recomputed only on
// an actual transition into ModeRelative and discarded on any transition
// out of it.
func (l *Linked[T, D]) SetMode(m Mode) {
	if m == l.mode {
		l.value.Changed().Dispatch()
		return
	}
	l.mode = m
	switch m {
	case ModeLinked:
		l.hasDelta = false
		// Re-sync: self mirrors the peer again. The assign dispatches
		// self's signal, which is the one mode-switch dispatch.
		l.updatingSelf = true
		l.ops.Assign(l.value, l.peer)
		l.updatingSelf = false
	case ModeRelative:
		l.delta = l.ops.Difference(l.value, l.peer)
		l.hasDelta = true
		l.value.Changed().Dispatch()
	case ModeUnlinked:
		l.hasDelta = false
		l.value.Changed().Dispatch()
	}
}

// Release detaches both subscriptions. The peer is borrowed and stays
// alive; the owned value stops receiving propagation.
func (l *Linked[T, D]) Release() {
	l.peerSub.Remove()
	l.selfSub.Remove()
}

func (l *Linked[T, D]) handlePeerChanged() {
	if l.updatingPeer {
		return
	}
	l.updatingSelf = true
	defer func() { l.updatingSelf = false }()
	switch l.mode {
	case ModeLinked:
		l.ops.Assign(l.value, l.peer)
	case ModeRelative:
		if l.hasDelta {
			l.ops.Add(l.value, l.peer, l.delta)
		}
	case ModeUnlinked:
		if !l.ops.IsValid(l.value) {
			l.ops.Assign(l.value, l.peer)
		}
	}
}

func (l *Linked[T, D]) handleSelfChanged() {
	if l.updatingSelf {
		return
	}
	l.updatingPeer = true
	defer func() { l.updatingPeer = false }()
	switch l.mode {
	case ModeLinked:
		l.ops.Assign(l.peer, l.value)
	case ModeRelative:
		if l.hasDelta {
			l.ops.Subtract(l.peer, l.value, l.delta)
		}
	case ModeUnlinked:
		// Self-to-peer propagation is always suppressed while unlinked.
	}
}

// EncodeState serializes the wrapper: absent (nil) when linked, otherwise
// the mode and the self value's state.
func (l *Linked[T, D]) EncodeState() any {
	if l.mode == ModeLinked {
		return nil
	}
	out := map[string]any{"link": l.mode.String()}
	if v := l.value.EncodeState(); v != nil {
		out["value"] = v
	}
	return out
}

// RestoreState restores the wrapper. Absent input means linked; malformed
// mode strings recover to linked. Value restore errors (structural) are
// surfaced.
func (l *Linked[T, D]) RestoreState(v any) error {
	if v == nil {
		l.SetMode(ModeLinked)
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		l.SetMode(ModeLinked)
		return nil
	}
	modeStr, _ := m["link"].(string)
	mode, err := ParseMode(modeStr)
	if err != nil {
		mode = ModeLinked
	}
	if mode != ModeLinked {
		// Restore with propagation suppressed: the wrapper is still in its
		// previous mode, and restoring a detached value must not leak into
		// the peer.
		l.updatingSelf = true
		err := l.value.RestoreState(m["value"])
		l.updatingSelf = false
		if err != nil {
			return err
		}
	}
	l.SetMode(mode)
	return nil
}
