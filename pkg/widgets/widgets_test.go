package widgets_test

import (
	"slices"
	"testing"
	"time"

	"github.com/go-drift/fibre/pkg/graphics"
	"github.com/go-drift/fibre/pkg/layout"
	fibretest "github.com/go-drift/fibre/pkg/testing"
	"github.com/go-drift/fibre/pkg/widgets"
)

func TestBox_FillAndBorder(t *testing.T) {
	tester := fibretest.NewTesterWithT(t)
	tester.Mount(&widgets.Box{
		Color:       graphics.ColorRed,
		BorderColor: graphics.ColorWhite,
		BorderWidth: 2,
	}, layout.Sized(100, 50))

	rects := fibretest.FindOps(fibretest.SerializeDisplayList(tester.LastFrame()), "drawRect")
	if len(rects) != 2 {
		t.Fatalf("expected fill and border rects, got %d", len(rects))
	}
	if rects[0].Params["style"] != "fill" || rects[0].Params["color"] != "0xFFFF0000" {
		t.Errorf("unexpected fill op: %v", rects[0].Params)
	}
	border := rects[1].Params
	if border["style"] != "stroke" || border["strokeWidth"] != 2.0 {
		t.Errorf("unexpected border op: %v", border)
	}
	want := map[string]any{"left": 1.0, "top": 1.0, "right": 99.0, "bottom": 49.0}
	for k, v := range want {
		if border["rect"].(map[string]any)[k] != v {
			t.Errorf("border rect %s = %v, want %v", k, border["rect"].(map[string]any)[k], v)
		}
	}
}

func TestBox_ZeroIsInvisible(t *testing.T) {
	tester := fibretest.NewTesterWithT(t)
	tester.Mount(&widgets.Box{}, layout.Sized(10, 10))

	if ops := fibretest.FindOps(fibretest.SerializeDisplayList(tester.LastFrame()), "drawRect"); len(ops) != 0 {
		t.Errorf("expected no drawRect ops, got %v", ops)
	}
}

func TestLabel_DrawsAtBaseline(t *testing.T) {
	tester := fibretest.NewTesterWithT(t)
	tester.Mount(&widgets.Box{}, layout.Sized(10, 30))
	tester.Mount(&widgets.Label{Text: "hello", Inset: 2}, layout.Sized(200, 20))

	texts := fibretest.FindOps(fibretest.SerializeDisplayList(tester.LastFrame()), "drawText")
	if len(texts) != 1 {
		t.Fatalf("expected 1 drawText, got %d", len(texts))
	}
	p := texts[0].Params
	if p["text"] != "hello" || p["x"] != 2.0 || p["y"] != 30.0+2+widgets.DefaultFontSize {
		t.Errorf("unexpected text op: %v", p)
	}
	if p["color"] != "0xFFFFFFFF" {
		t.Errorf("default color = %v, want white", p["color"])
	}
}

func TestPanel_MountsChildrenInSameFrame(t *testing.T) {
	tester := fibretest.NewTesterWithT(t)
	first := &widgets.Box{Color: graphics.ColorRed}
	second := &widgets.Box{Color: graphics.ColorBlue}
	panel := &widgets.Panel{
		Color: graphics.ColorBlack,
		Children: []widgets.Child{
			{Component: first, Style: layout.Style{Height: layout.Points(10)}},
			{Style: layout.Style{Height: layout.Points(5)}},
			{Component: second, Style: layout.Style{Height: layout.Points(10)}},
		},
	}
	style := layout.Sized(100, 100)
	style.Padding = layout.All(4)
	tester.Mount(panel, style)

	if got := tester.Fibre().Registry().Len(); got != 3 {
		t.Fatalf("registry length = %d, want 3", got)
	}
	if len(panel.Nodes()) != 3 {
		t.Fatalf("expected 3 child nodes, got %d", len(panel.Nodes()))
	}
	rect := tester.Find(fibretest.ByComponent(second)).First().Rect
	if rect != graphics.RectFromLTWH(4, 19, 92, 10) {
		t.Errorf("second box rect = %v", rect)
	}

	third := &widgets.Box{Color: graphics.ColorGreen}
	panel.Add(third, layout.Style{Height: layout.Points(10)})
	tester.Pump()
	if !tester.Find(fibretest.ByComponent(third)).Exists() {
		t.Error("expected Add to mount a child")
	}
}

func TestCounter_KeysChangeCountAndRequestRedraw(t *testing.T) {
	tester := fibretest.NewTesterWithT(t)
	redraws := 0
	counter := widgets.NewCounter("Clicks", 0, func() { redraws++ })
	tester.Mount(counter, layout.Sized(200, 20))

	for _, key := range []string{"+", "up", "up", "-", "x"} {
		tester.PressKey(key)
	}
	if got := counter.Count.Get(); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if redraws != 4 {
		t.Errorf("redraws = %d, want 4", redraws)
	}

	tester.Pump()
	if !slices.Contains(tester.LastFrame().Texts(), "Clicks: 2") {
		t.Errorf("texts = %v", tester.LastFrame().Texts())
	}

	tester.PressKey("0")
	tester.PressKey("0")
	if redraws != 5 {
		t.Errorf("resetting twice should redraw once, redraws = %d", redraws)
	}
}

func TestCursorLabel_FollowsPointer(t *testing.T) {
	tester := fibretest.NewTesterWithT(t)
	redraws := 0
	label := widgets.NewCursorLabel("Skia", graphics.TextStyle{Color: graphics.ColorWhite, FontSize: 50}, func() { redraws++ })
	tester.Mount(label, layout.Style{Grow: 1})

	if texts := tester.LastFrame().Texts(); len(texts) != 0 {
		t.Errorf("expected nothing before the first pointer event, got %v", texts)
	}

	tester.MovePointer(graphics.Offset{X: 120, Y: 80})
	tester.MovePointer(graphics.Offset{X: 120, Y: 80})
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1 for an unchanged position", redraws)
	}
	tester.Pump()

	texts := fibretest.FindOps(fibretest.SerializeDisplayList(tester.LastFrame()), "drawText")
	if len(texts) != 1 {
		t.Fatalf("expected 1 drawText, got %d", len(texts))
	}
	if p := texts[0].Params; p["x"] != 120.0 || p["y"] != 80.0 || p["fontSize"] != 50.0 {
		t.Errorf("unexpected text op: %v", p)
	}
}

func TestToast_RetiresItselfAfterDuration(t *testing.T) {
	tester := fibretest.NewTesterWithT(t)
	dismissed := 0
	toast := &widgets.Toast{
		Message:   "Saved",
		Duration:  2 * time.Second,
		Clock:     tester.Clock(),
		OnDismiss: func() { dismissed++ },
	}
	tester.Mount(toast, layout.Sized(120, 24))
	if !slices.Contains(tester.LastFrame().Texts(), "Saved") {
		t.Fatal("expected toast text in first frame")
	}

	tester.Clock().Advance(time.Second)
	tester.Pump()
	if !tester.Find(fibretest.ByComponent(toast)).Exists() {
		t.Fatal("toast retired too early")
	}

	tester.Clock().Advance(time.Second)
	tester.Pump()
	if tester.Find(fibretest.ByComponent(toast)).Exists() {
		t.Error("expected toast to be retired")
	}
	if dismissed != 1 {
		t.Errorf("dismissed = %d, want 1", dismissed)
	}
	if tester.Clock().Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", tester.Clock().Pending())
	}
}

func TestToast_EscapeDismissesAndStopsTimer(t *testing.T) {
	tester := fibretest.NewTesterWithT(t)
	toast := &widgets.Toast{Message: "Hi", Clock: tester.Clock()}
	tester.Mount(toast, layout.Sized(120, 24))
	if tester.Clock().Pending() != 1 {
		t.Fatalf("expected a pending timer, got %d", tester.Clock().Pending())
	}

	tester.PressKey("esc")
	tester.PressKey("esc")
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}

	if tester.Fibre().Registry().Len() != 0 {
		t.Error("expected toast to be retired")
	}
	if tester.Clock().Pending() != 0 {
		t.Error("expected unmount to stop the timer")
	}
	if stats := tester.Fibre().Stats(); stats.Applied != 1 || stats.Dropped != 0 {
		t.Errorf("a second esc must not queue a second retire: %+v", stats)
	}
}
