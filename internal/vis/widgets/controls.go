package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/propmap/internal/vis/state"
)

// Controls is the zoom and "Show list" button column.
type Controls struct {
	state *state.State

	zoomInBtn   widget.Clickable
	zoomOutBtn  widget.Clickable
	showListBtn widget.Clickable
}

// NewControls creates the map controls.
func NewControls(st *state.State) *Controls {
	return &Controls{
		state: st,
	}
}

// Update applies button clicks. Call it before the map is laid out so the
// frame reflects them.
func (c *Controls) Update(gtx layout.Context) {
	for c.zoomInBtn.Clicked(gtx) {
		c.state.ZoomIn()
	}
	for c.zoomOutBtn.Clicked(gtx) {
		c.state.ZoomOut()
	}
	for c.showListBtn.Clicked(gtx) {
		c.state.RequestShowList()
	}
	drainPointer(gtx, c)
}

// Layout renders the controls. The whole column, gaps included, takes
// pointer input away from the map.
func (c *Controls) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		macro := op.Record(gtx.Ops)
		dims := c.layoutColumn(gtx, th)
		call := macro.Stop()

		// Buttons are replayed after the column area so they stay on top
		area := clip.Rect{Max: dims.Size}.Push(gtx.Ops)
		event.Op(gtx.Ops, c)
		area.Pop()
		call.Add(gtx.Ops)
		return dims
	})
}

func (c *Controls) layoutColumn(gtx layout.Context, th *material.Theme) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.End}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return c.button(gtx, th, &c.zoomInBtn, "+", 36)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return c.button(gtx, th, &c.zoomOutBtn, "−", 36)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return c.button(gtx, th, &c.showListBtn, "Show list", 96)
		}),
	)
}

func (c *Controls) button(gtx layout.Context, th *material.Theme, btn *widget.Clickable, text string, width unit.Dp) layout.Dimensions {
	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 240}
	if btn.Hovered() {
		bg = color.NRGBA{R: 232, G: 240, B: 254, A: 255}
	}

	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Background{}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				size := image.Point{X: gtx.Dp(width), Y: gtx.Dp(36)}
				rr := gtx.Dp(6)
				paint.FillShape(gtx.Ops, bg, clip.UniformRRect(image.Rectangle{Max: size}, rr).Op(gtx.Ops))
				return layout.Dimensions{Size: size}
			},
			func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min = image.Point{X: gtx.Dp(width), Y: gtx.Dp(36)}
				return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					label := material.Label(th, 16, text)
					label.Color = color.NRGBA{R: 60, G: 64, B: 67, A: 255}
					return label.Layout(gtx)
				})
			},
		)
	})
}

// drainPointer consumes presses that land on an overlay's own area.
func drainPointer(gtx layout.Context, tag event.Tag) {
	for {
		if _, ok := gtx.Event(pointer.Filter{Target: tag, Kinds: pointer.Press | pointer.Release}); !ok {
			return
		}
	}
}
