// Package coordspace models the coordinate spaces the navigation core
// reacts to: rank, per-dimension identity, name, physical scale, unit and
// bounds.
//
// A Space value is immutable once constructed. Structural change is
// expressed by replacing the whole Space on a watchable provider; entities
// detect the replacement by pointer comparison and remap their own state.
//
// Dimension identity (DimensionID) is the sole durable mechanism for
// re-matching dimensions across a replacement. Names and indices are not
// durable: a renamed dimension gets a fresh ID, a re-used name keeps its
// prior ID when the new space is derived with IDs carried over.
package coordspace
