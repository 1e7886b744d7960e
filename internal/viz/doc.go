// Package viz renders automaton grids in the terminal.
//
// [Canvas] packs 2x4 cells into each Braille rune, [Model] is a Bubble Tea
// program that steps a [sim.Driver] live, and [Recorder] turns generations
// into an animated GIF.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset to the seed grid
//	C     - Clear the grid
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
