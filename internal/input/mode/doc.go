// Package mode tracks the active editing mode and applies the side effects
// of switching between modes.
//
// There are four modes: Normal, Insert, Visual and VisualLine. Exactly one
// is active per Controller. Only actions switch modes; the key matcher
// only reads the current mode to filter eligible bindings.
//
// Transition side effects:
//
//   - Entering Insert clears the pending key sequence and the desired
//     columns, and detaches the Normal-mode key interception subscription.
//   - Entering Normal re-attaches the subscription, moves the cursor back
//     one character when leaving Insert, and collapses any Visual selection
//     onto the character under the cursor.
//   - Entering Visual selects the character under each cursor; entering
//     VisualLine selects each cursor's whole line. Both leave cursors on
//     empty lines unchanged.
//
// Listeners registered with OnChange observe every transition, e.g. to
// update the cursor shape.
package mode
