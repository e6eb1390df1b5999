// Package view provides the screen-relative actions.
//
//   - view.cursorTop (H), view.cursorMiddle (M), view.cursorBottom (L)
//     move every cursor to the top, middle or bottom line of the viewport.
//   - view.revealTop (zt), view.revealCenter (zz), view.revealBottom (zb)
//     scroll so the cursor line sits at that viewport position.
//
// The viewport belongs to the surface, so each action is a single
// surface command.
package view
