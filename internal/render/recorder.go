package render

import (
	"image/color"

	"InkBinder/internal/geom"
)

// Op names a recorded command.
type Op string

const (
	OpSetColor   Op = "color"
	OpLineWidth  Op = "width"
	OpDrawRect   Op = "rect"
	OpFillRect   Op = "fill"
	OpDrawLine   Op = "line"
	OpDrawPath   Op = "path"
	OpTranslate  Op = "translate"
	OpBeginGroup Op = "begin"
	OpEndGroup   Op = "end"
)

// Command is one recorded drawing operation. Only the fields relevant to
// Op are set.
type Command struct {
	Op     Op
	Color  color.Color
	Width  float64
	Rect   geom.Rect
	Line   [4]float64
	Points []geom.Point
	Group  string
}

// Recorder captures commands for later inspection or Playback. With a nil
// Clip every bounded object is reported visible.
type Recorder struct {
	GroupStack
	Commands []Command
	Clip     *geom.Rect

	translateX, translateY float64
	saved                  [][2]float64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetColor(c color.Color) {
	r.add(Command{Op: OpSetColor, Color: c})
}

func (r *Recorder) SetLineWidth(w float64) {
	r.add(Command{Op: OpLineWidth, Width: w})
}

func (r *Recorder) DrawRect(rc geom.Rect) {
	r.add(Command{Op: OpDrawRect, Rect: rc})
}

func (r *Recorder) FillRect(rc geom.Rect) {
	r.add(Command{Op: OpFillRect, Rect: rc})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	r.add(Command{Op: OpDrawLine, Line: [4]float64{x1, y1, x2, y2}})
}

func (r *Recorder) DrawPath(p *geom.Path) {
	r.add(Command{Op: OpDrawPath, Points: p.Snapshot()})
}

func (r *Recorder) Translate(dx, dy float64) {
	r.translateX += dx
	r.translateY += dy
	r.add(Command{Op: OpTranslate, Line: [4]float64{dx, dy}})
}

func (r *Recorder) BeginGroup(id string) {
	r.Push(id)
	r.saved = append(r.saved, [2]float64{r.translateX, r.translateY})
	r.add(Command{Op: OpBeginGroup, Group: id})
}

func (r *Recorder) EndGroup(id string) {
	r.Pop(id)
	if n := len(r.saved); n > 0 {
		r.translateX, r.translateY = r.saved[n-1][0], r.saved[n-1][1]
		r.saved = r.saved[:n-1]
	}
	r.add(Command{Op: OpEndGroup, Group: id})
}

// IsInClipRegion tests b, shifted by the accumulated translation, against Clip.
func (r *Recorder) IsInClipRegion(b Bounded) bool {
	if r.Clip == nil {
		return true
	}
	return r.Clip.Intersects(b.Bounds().Translate(r.translateX, r.translateY))
}

// Count returns how many commands of kind op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset drops the recorded commands and translation.
func (r *Recorder) Reset() {
	r.Commands = nil
	r.translateX, r.translateY = 0, 0
	r.saved = nil
	r.GroupStack = GroupStack{}
}

// Playback replays the recorded commands into dst.
func (r *Recorder) Playback(dst Renderer) {
	for _, c := range r.Commands {
		switch c.Op {
		case OpSetColor:
			dst.SetColor(c.Color)
		case OpLineWidth:
			dst.SetLineWidth(c.Width)
		case OpDrawRect:
			dst.DrawRect(c.Rect)
		case OpFillRect:
			dst.FillRect(c.Rect)
		case OpDrawLine:
			dst.DrawLine(c.Line[0], c.Line[1], c.Line[2], c.Line[3])
		case OpDrawPath:
			dst.DrawPath(geom.NewPathFrom(c.Points...))
		case OpTranslate:
			dst.Translate(c.Line[0], c.Line[1])
		case OpBeginGroup:
			dst.BeginGroup(c.Group)
		case OpEndGroup:
			dst.EndGroup(c.Group)
		}
	}
}

func (r *Recorder) add(c Command) {
	r.Commands = append(r.Commands, c)
}
