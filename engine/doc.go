// SPDX-License-Identifier: EPL-2.0

// Package engine defines the boundary to a SID emulation engine.
//
// An Engine loads a parsed tune, renders it as 16-bit PCM and can advance
// its clock without producing output. Engines come from a Driver, which
// also builds the synthesis Backend the engine renders through. Drivers
// are looked up by name in a Registry.
//
// The headless subpackage provides a driver with no emulation core, for
// tests and for pipelines that only need timing.
package engine
