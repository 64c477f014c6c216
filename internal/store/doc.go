// Package store persists named snapshots of serialized navigation state.
//
// SQLite with WAL mode backs the store. A snapshot is the JSON state
// document produced by nav.State.EncodeState plus the coordinate space it
// was captured against, so a snapshot can be restored into a viewer with a
// different space version and remapped by dimension identity.
package store
