// Package viz is the full-screen terminal player built on Bubble Tea.
//
// The reflow supervisor runs on its own goroutine and presents into a
// [canvas.Screen] whose sink encodes each surface as half-block text and
// sends it to the program. Window size messages are converted to pixels and
// stored in a [viewport.Atomic] that the supervisor polls.
//
// # Key Bindings
//
//	Q / Esc - Quit
//	S       - Toggle the render-time graph
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//
// # Recording
//
// Presented frames can be recorded and saved as a GIF with the G key.
// Recordings are written to asciiplay.gif in the current directory.
package viz
