// Package testing provides a test harness for Fibre components.
//
// # Quick Start
//
// Create a tester, mount a component, and make assertions:
//
//	func TestMyComponent(t *testing.T) {
//	    tester := fibretest.NewTesterWithT(t)
//	    tester.Mount(&MyComponent{}, layout.Sized(100, 40))
//
//	    found := tester.Find(fibretest.ByType[*MyComponent]()).First()
//	    if found.Rect.Width() != 100 {
//	        t.Errorf("width = %v", found.Rect.Width())
//	    }
//
//	    tester.PressKey("enter")
//	    tester.Pump()
//	    if !slices.Contains(tester.LastFrame().Texts(), "done") {
//	        t.Error("expected 'done' text")
//	    }
//	}
//
// The tester drives the same command, layout, and render phases as a host
// but draws to a recording surface, so frames can be inspected op by op.
//
// # Snapshot Testing
//
// Capture and compare node tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/my_component.snapshot.json")
//
// Update snapshots with:
//
//	FIBRE_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Timers
//
// Components that schedule work take a clock. Pass the tester's fake clock
// and advance it explicitly:
//
//	tester.Clock().Advance(2 * time.Second)
//	tester.Pump()
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fibretest "github.com/go-drift/fibre/pkg/testing"
package testing
