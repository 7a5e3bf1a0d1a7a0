// Package widgets provides ready-made components for a Fibre tree.
//
// Widgets are plain structs; create them with a struct literal or, for
// those that own state, with their constructor, and hand them to
// Fibre.Append, Channel.AppendChild, or NodeHandle.AppendChild:
//
//	f.Append(&widgets.Panel{
//	    Color: graphics.RGB(30, 30, 40),
//	    Children: []widgets.Child{
//	        {Component: &widgets.Label{Text: "Hello"}, Style: layout.Style{Height: layout.Points(24)}},
//	        {Component: widgets.NewCounter("Clicks", 0, runner.RequestRedraw), Style: layout.Style{Height: layout.Points(24)}},
//	    },
//	}, layout.Style{Grow: 1, Padding: layout.All(8)})
//
// # Redraws
//
// Widgets that change without receiving a command (Counter, CursorLabel)
// keep their state in a state.Cell. Pass the host's redraw request
// function, such as engine.Runner.RequestRedraw, so a change schedules a
// frame. A nil redraw function is allowed in tests that pump frames
// themselves.
//
// # Timers
//
// Toast dismisses itself after a delay measured on a Clock. SystemClock is
// the default; tests pass a fake clock.
package widgets
