// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package historycore

import "strings"

// fakeTarget records everything a Cursor replays into it, for assertions.
type fakeTarget struct {
	text        strings.Builder
	fonts       []int
	styles      []int
	colours     [][2]int
}

func (f *fakeTarget) EmitText(text []Unit) {
	for _, u := range text {
		f.text.WriteRune(u)
	}
}
func (f *fakeTarget) SetFont(font int)          { f.fonts = append(f.fonts, font) }
func (f *fakeTarget) SetTextStyle(style int)    { f.styles = append(f.styles, style) }
func (f *fakeTarget) SetColour(fg, bg int)      { f.colours = append(f.colours, [2]int{fg, bg}) }

// recoverFatal runs fn and reports the *FatalError it panicked with, or nil
// if fn returned normally.
func recoverFatal(fn func()) (err *FatalError) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*FatalError); ok {
				err = fe
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

func newTestStore() *Store {
	return NewStore(0, 64, 16, ColourDefault, ColourDefault, 0, 0)
}
