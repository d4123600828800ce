package widgets

import (
	"testing"

	"gioui.org/f32"
	"gioui.org/io/pointer"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/interact"
)

func TestTranslatePointer(t *testing.T) {
	pos := f32.Point{X: 12, Y: 34}
	tests := []struct {
		name   string
		ev     pointer.Event
		want   interact.Kind
		source interact.Source
		ok     bool
	}{
		{"mouse press", pointer.Event{Kind: pointer.Press, Source: pointer.Mouse, Buttons: pointer.ButtonPrimary, Position: pos}, interact.Down, interact.Mouse, true},
		{"secondary press", pointer.Event{Kind: pointer.Press, Source: pointer.Mouse, Buttons: pointer.ButtonSecondary, Position: pos}, 0, interact.Mouse, false},
		{"touch press", pointer.Event{Kind: pointer.Press, Source: pointer.Touch, Position: pos}, interact.Down, interact.Touch, true},
		{"drag", pointer.Event{Kind: pointer.Drag, Source: pointer.Mouse, Position: pos}, interact.Move, interact.Mouse, true},
		{"move", pointer.Event{Kind: pointer.Move, Source: pointer.Mouse, Position: pos}, interact.Move, interact.Mouse, true},
		{"release", pointer.Event{Kind: pointer.Release, Source: pointer.Touch, Position: pos}, interact.Up, interact.Touch, true},
		{"leave", pointer.Event{Kind: pointer.Leave, Source: pointer.Mouse, Position: pos}, interact.Leave, interact.Mouse, true},
		{"cancel", pointer.Event{Kind: pointer.Cancel, Source: pointer.Touch}, interact.Leave, interact.Touch, true},
		{"scroll", pointer.Event{Kind: pointer.Scroll, Source: pointer.Mouse}, 0, interact.Mouse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translatePointer(tt.ev)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.Kind != tt.want || got.Source != tt.source {
				t.Errorf("got %v from %v, want %v from %v", got.Kind, got.Source, tt.want, tt.source)
			}
			if got.X != float64(tt.ev.Position.X) || got.Y != float64(tt.ev.Position.Y) {
				t.Errorf("position = (%v,%v)", got.X, got.Y)
			}
		})
	}
}

func TestCardText(t *testing.T) {
	m := core.PropertyMarker{ID: "p1", Price: 245000, Bedrooms: 3, Bathrooms: 2, AreaSqft: 1200}

	c := NewCard(nil, "BDT", "en")
	if got := c.Price(m); got != "BDT 245,000" {
		t.Errorf("Price = %q", got)
	}
	if got := c.Details(m); got != "3 beds • 2 baths • 1,200 sqft" {
		t.Errorf("Details = %q", got)
	}

	bad := NewCard(nil, "USD", "not a locale!")
	if got := bad.Price(core.PropertyMarker{Price: 1500000}); got != "USD 1,500,000" {
		t.Errorf("fallback Price = %q", got)
	}
}
