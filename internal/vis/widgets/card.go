package widgets

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/elektrokombinacija/propmap/internal/core"
	"github.com/elektrokombinacija/propmap/internal/vis/state"
)

// Card shows the details of the selected property.
type Card struct {
	state    *state.State
	currency string
	printer  *message.Printer

	closeBtn widget.Clickable
}

// NewCard creates a property card. An unparsable locale falls back to
// English digit grouping.
func NewCard(st *state.State, currency, locale string) *Card {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Card{
		state:    st,
		currency: currency,
		printer:  message.NewPrinter(tag),
	}
}

// Price formats the full price with digit grouping, e.g. "BDT 245,000".
func (c *Card) Price(m core.PropertyMarker) string {
	return c.printer.Sprintf("%s %d", c.currency, m.Price)
}

// Details formats the room and area line.
func (c *Card) Details(m core.PropertyMarker) string {
	return c.printer.Sprintf("%d beds • %d baths • %d sqft", m.Bedrooms, m.Bathrooms, m.AreaSqft)
}

// Update applies a click on the close button. Other presses on the card
// are consumed so they never reach the map below.
func (c *Card) Update(gtx layout.Context) {
	for c.closeBtn.Clicked(gtx) {
		c.state.ClearSelection()
	}
	drainPointer(gtx, c)
}

// Layout renders the card, or nothing when no property is selected.
func (c *Card) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	m, ok := c.state.Selected()
	if !ok {
		return layout.Dimensions{}
	}

	return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(360))
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return layout.Background{}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				rect := image.Rectangle{Max: gtx.Constraints.Min}
				defer clip.Rect(rect).Push(gtx.Ops).Pop()
				event.Op(gtx.Ops, c)
				paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, clip.UniformRRect(rect, gtx.Dp(8)).Op(gtx.Ops))
				return layout.Dimensions{Size: gtx.Constraints.Min}
			},
			func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return c.layoutBody(gtx, th, m)
				})
			},
		)
	})
}

func (c *Card) layoutBody(gtx layout.Context, th *material.Theme, m core.PropertyMarker) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					price := material.Label(th, 20, c.Price(m))
					price.Font.Weight = font.Bold
					return price.Layout(gtx)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return c.closeBtn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return layout.UniformInset(unit.Dp(4)).Layout(gtx, material.Label(th, 16, "✕").Layout)
					})
				}),
			)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			details := material.Label(th, 14, c.Details(m))
			details.Color = color.NRGBA{R: 95, G: 99, B: 104, A: 255}
			return details.Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(2)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if m.Address == "" {
				return layout.Dimensions{}
			}
			return material.Label(th, 14, m.Address).Layout(gtx)
		}),
	)
}
