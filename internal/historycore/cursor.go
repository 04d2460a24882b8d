// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/cursor.go
// Summary: §4.6 Cursor — a read-side iterator over a Store's live region.
// Walks backward a paragraph at a time, reconstructs rendering state at a
// paragraph start, and replays paragraphs forward into a RenderTarget.
// Usage: historycore.NewCursor; RewindParagraph/RepeatParagraphs/Remember/
// Restore/AtFront/Destroy.

package historycore

// stagingSize bounds the chunk RepeatParagraphs batches before flushing to
// the render target.
const stagingSize = 1280

// cursorSnapshot holds everything Remember/Restore copy as a unit.
type cursorSnapshot struct {
	currentParagraphIndex                int
	nofWraparounds                       int
	foundEndOfBuffer                     bool
	firstIterationDone                   bool
	dontSkipNewline                      bool
	rewoundParagraphWasNewlineTerminated bool
	metadataAtIndexEvaluated             bool
	lastStateBlockIndex                  int
	lastParagraphAttributeIndex          int
	font, style, fg, bg                  int
}

// Cursor is a read-only walker snapshotted against the store's wrap/front
// at creation time. Any store mutation that changes wraps or front
// invalidates it (unless created with FlagNoValidation).
type Cursor struct {
	store *Store
	target RenderTarget
	flags  CursorFlags

	capturedWraps int
	capturedFront int

	cursorSnapshot // current mutable state, inline

	saved    cursorSnapshot
	hasSaved bool

	destroyed bool
}

// RewindOutcome is the result of RewindParagraph.
type RewindOutcome struct {
	CharCount       int
	PA1, PA2        int
	HasParaAttr     bool
	EndOfLiveRegion bool
}

// NewCursor constructs a cursor over store. If flags has FlagFromBack, the
// cursor starts at the store's back (oldest live byte) seeded from
// back_state; otherwise it starts at front-1 (the last written unit)
// seeded from front_state.
func NewCursor(store *Store, target RenderTarget, flags CursorFlags) *Cursor {
	c := &Cursor{
		store:         store,
		target:        target,
		flags:         flags,
		capturedWraps: store.wraps,
		capturedFront: store.front,
	}
	c.lastParagraphAttributeIndex = -1

	if flags.fromBack() {
		c.currentParagraphIndex = store.back
		c.font, c.style, c.fg, c.bg = store.backState.Font, store.backState.Style, store.backState.FG, store.backState.BG
		c.foundEndOfBuffer = true
	} else {
		if store.spaceUsed() == 0 {
			c.currentParagraphIndex = store.front
		} else {
			c.currentParagraphIndex = store.offsetBack(store.front, 1)
		}
		c.font, c.style, c.fg, c.bg = store.frontState.Font, store.frontState.Style, store.frontState.FG, store.frontState.BG
		c.firstIterationDone = false
	}
	return c
}

// Destroy releases the cursor. Idempotent; subsequent operations fail.
func (c *Cursor) Destroy() { c.destroyed = true }

func (c *Cursor) validate() {
	if c.destroyed {
		c.store.fatal("CURSOR_DESTROYED", "cursor used after Destroy")
	}
	if c.flags.noValidation() {
		return
	}
	if c.store.wraps != c.capturedWraps || c.store.front != c.capturedFront {
		c.store.fatal("CURSOR_INVALIDATED", "store mutated (wraps %d->%d, front %d->%d) since cursor creation",
			c.capturedWraps, c.store.wraps, c.capturedFront, c.store.front)
	}
}

// AtFront reports whether the cursor's paragraph pointer sits at front.
func (c *Cursor) AtFront() bool {
	c.validate()
	return c.currentParagraphIndex == c.store.front
}

// Remember copies the cursor's mutable state into its single saved slot.
func (c *Cursor) Remember() {
	c.validate()
	c.saved = c.cursorSnapshot
	c.hasSaved = true
}

// Restore copies the saved slot back into the cursor's mutable state.
func (c *Cursor) Restore() {
	c.validate()
	if !c.hasSaved {
		return
	}
	c.cursorSnapshot = c.saved
}

// RewindParagraph walks backward to the start of the paragraph preceding
// the cursor's current position.
func (c *Cursor) RewindParagraph() (RewindOutcome, error) {
	c.validate()

	if c.store.spaceUsed() == 0 {
		c.foundEndOfBuffer = true
		return RewindOutcome{EndOfLiveRegion: true}, nil
	}

	if !c.firstIterationDone {
		c.firstIterationDone = true
		if c.store.spaceUsed() > 0 && c.store.buf[c.currentParagraphIndex] == newlineUnit {
			c.rewoundParagraphWasNewlineTerminated = true
			return RewindOutcome{CharCount: 0}, nil
		}
		c.rewoundParagraphWasNewlineTerminated = false
	} else if c.rewoundParagraphWasNewlineTerminated {
		if c.currentParagraphIndex == c.store.back {
			c.foundEndOfBuffer = true
			return RewindOutcome{EndOfLiveRegion: true}, nil
		}
		// currentParagraphIndex sits at the start of the paragraph just
		// delivered; step back over its leading newline (already reported
		// as that paragraph's terminator) before resuming the scan.
		boundary := c.store.offsetBack(c.currentParagraphIndex, 1)
		if boundary == c.store.back {
			c.currentParagraphIndex = boundary
			c.foundEndOfBuffer = true
			return RewindOutcome{EndOfLiveRegion: true}, nil
		}
		c.currentParagraphIndex = c.store.offsetBack(boundary, 1)
	}

	charCount := 0
	pa1, pa2 := 0, 0
	hasPA := false

	for {
		if kind, start, p1, p2, ok := c.store.metaRecordEndingAt(c.currentParagraphIndex); ok {
			charCount -= recordWidth(kind)
			if kind == MetaParaAttr {
				pa1, pa2, hasPA = p1, p2, true
			}
			if start == c.store.back {
				c.currentParagraphIndex = c.store.back
				c.foundEndOfBuffer = true
				c.evaluateParagraphState()
				return RewindOutcome{CharCount: charCount, PA1: pa1, PA2: pa2, HasParaAttr: hasPA, EndOfLiveRegion: true}, nil
			}
			c.currentParagraphIndex = c.store.offsetBack(start, 1)
			continue
		}

		u := c.store.buf[c.currentParagraphIndex]
		if u == newlineUnit {
			c.currentParagraphIndex = c.store.advance(c.currentParagraphIndex, 1)
			c.rewoundParagraphWasNewlineTerminated = true
			c.evaluateParagraphState()
			return RewindOutcome{CharCount: charCount, PA1: pa1, PA2: pa2, HasParaAttr: hasPA}, nil
		}

		charCount++
		if c.currentParagraphIndex == c.store.back {
			c.rewoundParagraphWasNewlineTerminated = false
			c.foundEndOfBuffer = true
			c.evaluateParagraphState()
			return RewindOutcome{CharCount: charCount, PA1: pa1, PA2: pa2, HasParaAttr: hasPA, EndOfLiveRegion: true}, nil
		}
		c.currentParagraphIndex = c.store.offsetBack(c.currentParagraphIndex, 1)
	}
}

// evaluateParagraphState reconstructs (font, style, fg, bg) at
// current_paragraph_index per §4.6.1, caching on block index so repeated
// calls landing in the same block are free.
//
// Open question preserved verbatim from the source (see spec.md §9): the
// background fallback reads front_state.bg while the foreground fallback
// reads back_state.fg. This asymmetry is not "fixed" here.
func (c *Cursor) evaluateParagraphState() {
	blockIdx := c.currentParagraphIndex / c.store.blockSize
	if c.metadataAtIndexEvaluated && blockIdx == c.lastStateBlockIndex {
		return
	}

	var knownFont, knownStyle, knownColour bool
	var font, style, fg, bg int
	pos := c.currentParagraphIndex

	for {
		if kind, start, p1, p2, ok := c.store.metaRecordEndingAt(pos); ok {
			switch kind {
			case MetaFont:
				if !knownFont {
					font, knownFont = p1, true
				}
			case MetaStyle:
				if !knownStyle {
					style, knownStyle = p1, true
				}
			case MetaColour:
				if !knownColour {
					fg, bg, knownColour = p1, p2, true
				}
			}
			if knownFont && knownStyle && knownColour {
				break
			}
			if start == c.store.back {
				break
			}
			pos = c.store.offsetBack(start, 1)
			continue
		}
		if pos == c.store.back {
			break
		}
		pos = c.store.offsetBack(pos, 1)
	}

	if !knownFont {
		font = c.store.backState.Font
	}
	if !knownStyle {
		style = c.store.backState.Style
	}
	if !knownColour {
		fg = c.store.backState.FG
		bg = c.store.frontState.BG
	}

	c.font, c.style, c.fg, c.bg = font, style, fg, bg
	c.lastStateBlockIndex = blockIdx
	c.metadataAtIndexEvaluated = true
}

// RepeatParagraphs emits the next n paragraphs forward from
// current_paragraph_index to the render target, per §4.6.2. It returns the
// number of paragraphs not delivered (0 if all n were written).
func (c *Cursor) RepeatParagraphs(n int, includeMetadata, advance bool) (int, error) {
	c.validate()

	if c.target != nil {
		c.target.SetFont(c.font)
		c.target.SetTextStyle(c.style)
		c.target.SetColour(c.fg, c.bg)
	}

	staging := make([]Unit, 0, stagingSize)
	flush := func() {
		if len(staging) > 0 && c.target != nil {
			c.target.EmitText(staging)
		}
		staging = staging[:0]
	}

	pos := c.currentParagraphIndex
	remaining := n

	// left counts the live units from pos up to front. In a full store
	// front == back, so a cursor sitting at back has the whole live region
	// ahead of it rather than nothing.
	left := 0
	if c.store.n > 0 {
		left = (c.store.front - pos + c.store.n) % c.store.n
	}
	if left == 0 && pos == c.store.back && c.foundEndOfBuffer {
		left = c.store.spaceUsed()
	}

	for remaining > 0 && left > 0 {
		u := c.store.buf[pos]

		if u == escapeUnit {
			kind, p1, p2, width := c.store.readRecordAt(pos)
			if includeMetadata && c.target != nil {
				flush()
				switch kind {
				case MetaFont:
					c.target.SetFont(p1)
				case MetaStyle:
					c.target.SetTextStyle(p1)
				case MetaColour:
					c.target.SetColour(p1, p2)
				}
			}
			switch kind {
			case MetaFont:
				c.font = p1
			case MetaStyle:
				c.style = p1
			case MetaColour:
				c.fg, c.bg = p1, p2
			case MetaParaAttr:
				c.lastParagraphAttributeIndex = c.store.advance(pos, 2)
			}
			pos = c.store.advance(pos, width)
			left -= width
			continue
		}

		staging = append(staging, u)
		pos = c.store.advance(pos, 1)
		left--
		if u == newlineUnit {
			flush()
			remaining--
			continue
		}
		if len(staging) == stagingSize {
			flush()
		}
	}
	flush()

	if advance {
		c.currentParagraphIndex = pos
		if left <= 0 {
			c.foundEndOfBuffer = false
			c.firstIterationDone = false
			if c.store.spaceUsed() > 0 {
				last := c.store.offsetBack(pos, 1)
				c.rewoundParagraphWasNewlineTerminated = c.store.buf[last] == newlineUnit
			}
		}
	}

	return remaining, nil
}

// AlterLastParagraphAttributes overwrites the parameters of the most
// recently observed PARA_ATTR record (via RepeatParagraphs) in place.
func (c *Cursor) AlterLastParagraphAttributes(a1, a2 int) error {
	c.validate()
	if c.lastParagraphAttributeIndex < 0 {
		return &CapacityError{Op: "alter_last_paragraph_attributes", Msg: "no PARA_ATTR observed yet"}
	}
	return c.store.AlterParagraphAttributesAt(c.lastParagraphAttributeIndex, a1, a2)
}
