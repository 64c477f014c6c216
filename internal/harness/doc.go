// Package harness executes YAML-defined navigation scenarios for
// conformance testing.
//
// A scenario compiles one or more CUE coordinate-space versions, builds a
// primary navigation state plus a linked secondary view over it, then
// applies a sequence of steps: setting positions and orientations,
// switching link modes, replacing the space version, translating and
// rotating the pose. After every step the serialized state of both sides
// is appended to a trace, which golden tests compare against fixtures
// under testdata/golden.
package harness
