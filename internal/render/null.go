package render

import (
	"image/color"

	"InkBinder/internal/geom"
)

// Null discards every command and reports everything as clipped. The
// canvas passes the document through it when only the editing overlay is
// wanted.
type Null struct{}

func (Null) SetColor(color.Color)        {}
func (Null) SetLineWidth(float64)        {}
func (Null) DrawRect(geom.Rect)          {}
func (Null) FillRect(geom.Rect)          {}
func (Null) DrawLine(_, _, _, _ float64) {}
func (Null) DrawPath(*geom.Path)         {}
func (Null) Translate(_, _ float64)      {}
func (Null) BeginGroup(string)           {}
func (Null) EndGroup(string)             {}
func (Null) IsInClipRegion(Bounded) bool { return false }

