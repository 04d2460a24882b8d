// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/types.go
// Summary: Shared types for the output history store: metadata kinds, the
// render state tracked at back/front, the render target contract, and the
// paragraph-removal callback shape.
// Usage: Consumed by Store and Cursor across the package.

package historycore

// Unit is the wide code unit the history store is built from. Text and
// in-band metadata both live in a []Unit stream.
type Unit = rune

const (
	escapeUnit  Unit = 0
	newlineUnit Unit = '\n'

	// paramOffset shifts every metadata parameter so it can never collide
	// with escapeUnit (0) or newlineUnit ('\n') when stored in-band.
	paramOffset = 13
)

// MetaKind tags an in-band metadata record. Values are chosen to avoid 0
// (the escape unit) and '\n' (10); they never appear as the second unit of
// a text-colliding sequence since they are only ever read immediately after
// an escapeUnit.
type MetaKind int

const (
	MetaFont MetaKind = iota + 1
	MetaStyle
	MetaColour
	MetaParaAttr
)

func (k MetaKind) String() string {
	switch k {
	case MetaFont:
		return "font"
	case MetaStyle:
		return "style"
	case MetaColour:
		return "colour"
	case MetaParaAttr:
		return "para_attr"
	default:
		return "unknown"
	}
}

// recordWidth returns the number of Units a record of the given kind
// occupies in-band, including the escape and kind units. Font/Style are
//3 units (ESC, kind, param); Colour/ParaAttr are 4 (ESC, kind, param, param).
func recordWidth(kind MetaKind) int {
	switch kind {
	case MetaColour, MetaParaAttr:
		return 4
	default:
		return 3
	}
}

// Colour sentinel values, per spec: -2 means "undefined/inherit", -1 means
// "default", 0..15 are palette indices.
const (
	ColourUndefined = -2
	ColourDefault   = -1
	ColourMax       = 15
)

// RenderState is the font/style/colour attributes in effect at a point in
// the stream: either "at back" (summarising all drained metadata) or
// "at front" (what the next write will display under), or the state a
// cursor has reconstructed at a paragraph start.
type RenderState struct {
	Font  int
	Style int
	FG    int
	BG    int
}

// RenderTarget is the pluggable rendering sink a Cursor replays into.
// Implementations must not re-enter the owning Store's public API.
type RenderTarget interface {
	EmitText(text []Unit)
	SetFont(font int)
	SetTextStyle(style int)
	SetColour(fg, bg int)
}

// ParagraphRemovalFunc is invoked exactly once per PARA_ATTR record that
// falls out of the live region, with the record's two decoded parameters.
// It must not re-enter the owning Store's public API.
type ParagraphRemovalFunc func(a1, a2 int)

// CursorFlags configures Cursor construction and validation behaviour.
type CursorFlags uint8

const (
	// FlagFromBack positions a new cursor at the store's back (oldest live
	// byte) instead of the default front-1 (most recently written byte).
	FlagFromBack CursorFlags = 1 << iota

	// FlagNoValidation disables the cursor-invalidation check, for cursors
	// deliberately used concurrently with writes.
	FlagNoValidation
)

func (f CursorFlags) fromBack() bool      { return f&FlagFromBack != 0 }
func (f CursorFlags) noValidation() bool  { return f&FlagNoValidation != 0 }
