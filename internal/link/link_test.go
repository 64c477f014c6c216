package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelview/voxelview/internal/nav"
	"github.com/voxelview/voxelview/internal/testutil"
	"github.com/voxelview/voxelview/internal/watch"
)

func newLinkedPosition(t *testing.T, mode Mode) (*Linked[*nav.Position, []float64], *nav.Position, *nav.SpaceProvider) {
	t.Helper()
	provider := watch.NewValue(testutil.Space3D(t))
	peer := nav.NewPosition(provider)
	l := NewPosition(peer, provider, mode)
	t.Cleanup(func() {
		l.Release()
		peer.Release()
	})
	return l, peer, provider
}

func TestMode_StringRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeLinked, ModeRelative, ModeUnlinked} {
		parsed, err := ParseMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	parsed, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLinked, parsed)

	_, err = ParseMode("detached")
	assert.Error(t, err)
}

func TestLinked_MirrorsPeer(t *testing.T) {
	l, peer, _ := newLinkedPosition(t, ModeLinked)

	require.True(t, peer.SetCoordinates([]float32{1, 2, 3}))
	assert.Equal(t, []float32{1, 2, 3}, l.Value().Coordinates())

	// And the reverse direction.
	require.True(t, l.Value().SetCoordinates([]float32{4, 5, 6}))
	assert.Equal(t, []float32{4, 5, 6}, peer.Coordinates())
}

func TestLinked_NewBootstrapsFromPeer(t *testing.T) {
	provider := watch.NewValue(testutil.Space3D(t))
	peer := nav.NewPosition(provider)
	defer peer.Release()
	require.True(t, peer.SetCoordinates([]float32{7, 8, 9}))

	l := NewPosition(peer, provider, ModeLinked)
	defer l.Release()
	assert.Equal(t, []float32{7, 8, 9}, l.Value().Coordinates())
}

func TestLinked_RelativePreservesOffset(t *testing.T) {
	l, peer, _ := newLinkedPosition(t, ModeLinked)
	require.True(t, peer.SetCoordinates([]float32{10, 10, 10}))

	l.SetMode(ModeRelative)
	// Give the self value an offset of +5 on x.
	require.True(t, l.Value().SetCoordinates([]float32{15, 10, 10}))
	delta, ok := l.Delta()
	require.True(t, ok)
	// The frozen delta was captured at the mode switch, when both sides
	// were equal.
	assert.Equal(t, []float64{0, 0, 0}, delta)

	// Self mutations back-propagate through the frozen delta.
	assert.Equal(t, []float32{15, 10, 10}, peer.Coordinates())

	// Peer moves carry the self along, keeping peer+delta.
	require.True(t, peer.SetCoordinates([]float32{20, 10, 10}))
	assert.Equal(t, []float32{20, 10, 10}, l.Value().Coordinates())
}

func TestLinked_RelativeCapturesOffsetAtSwitch(t *testing.T) {
	l, peer, _ := newLinkedPosition(t, ModeUnlinked)
	require.True(t, peer.SetCoordinates([]float32{10, 10, 10}))
	require.True(t, l.Value().SetCoordinates([]float32{13, 10, 10}))

	l.SetMode(ModeRelative)
	delta, ok := l.Delta()
	require.True(t, ok)
	assert.Equal(t, []float64{3, 0, 0}, delta)

	require.True(t, peer.SetCoordinates([]float32{0, 0, 0}))
	assert.Equal(t, []float32{3, 0, 0}, l.Value().Coordinates())
}

func TestLinked_UnlinkedSuppressesPropagation(t *testing.T) {
	l, peer, _ := newLinkedPosition(t, ModeLinked)
	require.True(t, peer.SetCoordinates([]float32{1, 1, 1}))

	l.SetMode(ModeUnlinked)
	require.True(t, peer.SetCoordinates([]float32{9, 9, 9}))
	assert.Equal(t, []float32{1, 1, 1}, l.Value().Coordinates())

	require.True(t, l.Value().SetCoordinates([]float32{2, 2, 2}))
	assert.Equal(t, []float32{9, 9, 9}, peer.Coordinates())
}

func TestLinked_UnlinkedBootstrap(t *testing.T) {
	// An unlinked self with no usable value copies the peer once. A fresh
	// zoom is unset, so it bootstraps; positions self-initialize and never
	// hit this path.
	provider := watch.NewValue(testutil.Space3D(t))
	factors := nav.NewScaleFactors(provider)
	defer factors.Release()
	dims := nav.NewDisplayDimensions(provider, factors)
	defer dims.Release()
	peer := nav.NewZoom(dims, nav.CrossSectionZoom)
	defer peer.Release()
	require.True(t, peer.SetValue(8))

	l := NewZoom(peer, dims, nav.CrossSectionZoom, ModeUnlinked)
	defer l.Release()
	assert.True(t, l.Value().IsSet())
	assert.InEpsilon(t, 8.0, l.Value().Value(), 1e-12)

	// Once valid, further peer changes stay suppressed.
	require.True(t, peer.SetValue(3))
	assert.InEpsilon(t, 8.0, l.Value().Value(), 1e-12)
}

func TestLinked_SetMode_DispatchesExactlyOnce(t *testing.T) {
	l, peer, _ := newLinkedPosition(t, ModeLinked)
	require.True(t, peer.SetCoordinates([]float32{1, 2, 3}))

	transitions := []Mode{ModeRelative, ModeUnlinked, ModeLinked, ModeUnlinked, ModeRelative, ModeLinked}
	for _, mode := range transitions {
		rec := testutil.Observe(l.Value().Changed())
		l.SetMode(mode)
		assert.Equal(t, 1, rec.Count(), "switching to %s", mode)
		rec.Release()
	}
}

func TestLinked_SetMode_SameModeRedispatches(t *testing.T) {
	l, _, _ := newLinkedPosition(t, ModeRelative)
	before, _ := l.Delta()
	rec := testutil.Observe(l.Value().Changed())

	l.SetMode(ModeRelative)
	assert.Equal(t, 1, rec.Count())
	// No delta recompute on a same-mode call.
	after, ok := l.Delta()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestLinked_NoFeedbackAmplification(t *testing.T) {
	l, peer, _ := newLinkedPosition(t, ModeLinked)
	peerRec := testutil.Observe(peer.Changed())
	selfRec := testutil.Observe(l.Value().Changed())

	require.True(t, peer.SetCoordinates([]float32{1, 2, 3}))
	// One external mutation: one dispatch per side, no echo.
	assert.Equal(t, 1, peerRec.Count())
	assert.Equal(t, 1, selfRec.Count())
}

func TestLinked_EncodeState(t *testing.T) {
	l, peer, _ := newLinkedPosition(t, ModeLinked)
	require.True(t, peer.SetCoordinates([]float32{1, 2, 3}))

	assert.Nil(t, l.EncodeState())

	l.SetMode(ModeUnlinked)
	doc, ok := l.EncodeState().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "unlinked", doc["link"])
	assert.Equal(t, []any{1.0, 2.0, 3.0}, doc["value"])
}

func TestLinked_RestoreState(t *testing.T) {
	l, peer, _ := newLinkedPosition(t, ModeLinked)
	require.True(t, peer.SetCoordinates([]float32{1, 1, 1}))

	require.NoError(t, l.RestoreState(map[string]any{
		"link":  "unlinked",
		"value": []any{5.0, 6.0, 7.0},
	}))
	assert.Equal(t, ModeUnlinked, l.Mode())
	assert.Equal(t, []float32{5, 6, 7}, l.Value().Coordinates())
	// The peer is untouched by restoring an unlinked self.
	assert.Equal(t, []float32{1, 1, 1}, peer.Coordinates())

	// Absent input relinks.
	require.NoError(t, l.RestoreState(nil))
	assert.Equal(t, ModeLinked, l.Mode())
	assert.Equal(t, []float32{1, 1, 1}, l.Value().Coordinates())
}

func TestLinked_Release_Detaches(t *testing.T) {
	provider := watch.NewValue(testutil.Space3D(t))
	peer := nav.NewPosition(provider)
	defer peer.Release()
	l := NewPosition(peer, provider, ModeLinked)

	l.Release()
	require.True(t, peer.SetCoordinates([]float32{5, 5, 5}))
	assert.NotEqual(t, []float32{5, 5, 5}, l.Value().Coordinates())
}
