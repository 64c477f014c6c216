// Package nav implements the navigation-state core of the viewer: position,
// orientation, per-dimension scale factors, display-dimension selection,
// zoom, and their Pose/State aggregates.
//
// ARCHITECTURE:
//
// Single-threaded reactive model:
// All mutation and change-signal dispatch happen on one logical goroutine.
// Entities observe a coordinate-space provider (a watch.Value holding a
// *coordspace.Space) and remap their own state when the space is replaced.
//
// Lazy remapping:
// Space replacement is detected by pointer comparison on every read or
// mutation, not eagerly in the space's change handler. The space change
// handler only forwards the change signal; the remap itself runs the next
// time the entity's value is needed. This avoids recomputing state for
// entities nobody is currently reading.
//
// Dimension identity:
// Remapping matches dimensions across space versions by DimensionID only.
// A matched dimension rescales its value by oldScale/newScale so physical
// position is preserved across unit changes; an unmatched dimension falls
// back to its type-specific default (bounds center for positions, 1 for
// scale factors).
//
// ERROR HANDLING:
// Malformed mutations (wrong rank, non-finite values) are silent no-ops:
// prior state stays intact and no change signal fires. Malformed persisted
// state restores to the type's default instead of failing the caller. The
// one structural error that does surface is selecting more than three
// display dimensions.
package nav
