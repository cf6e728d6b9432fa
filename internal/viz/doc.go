// Package viz renders simulations in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas used for the side view
//   - [Frame]: one rendered side-view of a world
//   - [EnergyGraph], [Summary]: post-run report rendering
//   - [Model]: Bubble Tea model for the live watch view
//
// # Key Bindings (watch view)
//
//	Space - Pause/Resume stepping
//	Q     - Quit
package viz
