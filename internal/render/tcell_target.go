// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/render/tcell_target.go
// Summary: Implements historycore.RenderTarget over a tcell.Screen, writing
// replayed paragraphs starting at a fixed screen region and wrapping lines.
// Usage: Constructed once per window pane; reset with SetOrigin before each
// RepeatParagraphs batch that should start at the top of its region.

package render

import (
	"github.com/gdamore/tcell/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/framegrace/fizmohist/internal/historycore"
)

// palette maps the store's 0..15 colour indices onto tcell's named ANSI
// palette, matching the historycore.ColourMax=15 contract.
var palette = [16]tcell.Color{
	tcell.ColorBlack, tcell.ColorMaroon, tcell.ColorGreen, tcell.ColorOlive,
	tcell.ColorNavy, tcell.ColorPurple, tcell.ColorTeal, tcell.ColorSilver,
	tcell.ColorGray, tcell.ColorRed, tcell.ColorLime, tcell.ColorYellow,
	tcell.ColorBlue, tcell.ColorFuchsia, tcell.ColorAqua, tcell.ColorWhite,
}

func styleColour(idx int, fallback tcell.Color) tcell.Color {
	switch {
	case idx == historycore.ColourUndefined:
		return fallback
	case idx == historycore.ColourDefault:
		return tcell.ColorDefault
	case idx >= 0 && idx <= historycore.ColourMax:
		return palette[idx]
	default:
		return fallback
	}
}

// TcellTarget renders a historycore.Cursor's replayed paragraphs into a
// rectangular region of a tcell.Screen, wrapping at the region's width and
// scrolling the region up when text runs past its bottom.
type TcellTarget struct {
	screen tcell.Screen

	x0, y0, w, h int
	col, row     int

	style tcell.Style
	fg, bg tcell.Color
}

// NewTcellTarget builds a target bound to the rectangle (x0,y0)-(x0+w,y0+h)
// of screen. The cursor starts at the region's top-left corner.
func NewTcellTarget(screen tcell.Screen, x0, y0, w, h int) *TcellTarget {
	t := &TcellTarget{
		screen: screen,
		x0:     x0, y0: y0, w: w, h: h,
		fg: tcell.ColorDefault, bg: tcell.ColorDefault,
	}
	return t
}

// SetOrigin repositions the write cursor to the top-left of the region,
// without touching the screen contents.
func (t *TcellTarget) SetOrigin() { t.col, t.row = 0, 0 }

func (t *TcellTarget) EmitText(text []historycore.Unit) {
	for _, r := range text {
		if r == '\n' {
			t.newline()
			continue
		}
		width := runewidth.RuneWidth(r)
		if width == 0 {
			width = 1
		}
		if t.col+width > t.w {
			t.newline()
		}
		t.putRune(r)
		for i := 1; i < width; i++ {
			t.putRune(' ')
		}
	}
}

func (t *TcellTarget) putRune(r rune) {
	if t.row < t.h {
		t.screen.SetContent(t.x0+t.col, t.y0+t.row, r, nil, t.style)
	}
	t.col++
}

func (t *TcellTarget) newline() {
	t.col = 0
	t.row++
	if t.row >= t.h {
		t.scrollUp()
		t.row = t.h - 1
	}
}

func (t *TcellTarget) scrollUp() {
	for y := 1; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			mainc, combc, style, _ := t.screen.GetContent(t.x0+x, t.y0+y)
			t.screen.SetContent(t.x0+x, t.y0+y-1, mainc, combc, style)
		}
	}
	for x := 0; x < t.w; x++ {
		t.screen.SetContent(t.x0+x, t.y0+t.h-1, ' ', nil, t.style)
	}
}

func (t *TcellTarget) SetFont(font int) {
	// tcell has no font concept; font selection is a no-op rendering target
	// for this terminal backend.
}

func (t *TcellTarget) SetTextStyle(style int) {
	s := t.style
	s = s.Bold(style&1 != 0)
	s = s.Underline(style&2 != 0)
	s = s.Reverse(style&4 != 0)
	t.style = s
}

func (t *TcellTarget) SetColour(fg, bg int) {
	t.fg = styleColour(fg, t.fg)
	t.bg = styleColour(bg, t.bg)
	t.style = t.style.Foreground(t.fg).Background(t.bg)
}
