package draw

import "image/color"

// OpKind identifies a recorded drawing primitive.
type OpKind int

const (
	OpFillRect OpKind = iota
	OpStrokeLine
	OpStrokeArc
	OpFillCircle
	OpText
)

func (k OpKind) String() string {
	return [...]string{"FillRect", "StrokeLine", "StrokeArc", "FillCircle", "Text"}[k]
}

// Op is one recorded primitive. Fields not used by a kind stay zero.
//
//	FillRect:   X1,Y1 = corner, X2,Y2 = size
//	StrokeLine: X1,Y1 -> X2,Y2, Width
//	StrokeArc:  X1,Y1 = center, R, Start, End, Width
//	FillCircle: X1,Y1 = center, R
//	Text:       X1,Y1 = center, Text, Style
type Op struct {
	Kind       OpKind
	X1, Y1     float64
	X2, Y2     float64
	R          float64
	Start, End float64
	Width      float64
	Color      color.NRGBA
	Text       string
	Style      TextStyle
}

// Recorder is a Surface that records primitives instead of drawing them.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) FillRect(x, y, w, h float64, col color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, X1: x, Y1: y, X2: w, Y2: h, Color: col})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2, width float64, col color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: col})
}

func (r *Recorder) StrokeArc(cx, cy, radius, start, end, width float64, col color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeArc, X1: cx, Y1: cy, R: radius, Start: start, End: end, Width: width, Color: col})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, col color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, X1: cx, Y1: cy, R: radius, Color: col})
}

func (r *Recorder) DrawText(x, y float64, txt string, style TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X1: x, Y1: y, Text: txt, Style: style, Color: style.Color})
}

// Kind returns the recorded ops of one kind, in order.
func (r *Recorder) Kind(k OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}

// Reset discards recorded ops.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
