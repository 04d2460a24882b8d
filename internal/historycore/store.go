// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/store.go
// Summary: Ring buffer primitives for the per-window output history store.
// Usage: One Store per window; created once, written to via StoreChars/
// StoreText/StoreMetadata/RemoveChars, read via Cursor.
// Notes: Single-threaded cooperative model — no internal locking, per the
// owning interpreter's execution model.

package historycore

import "fmt"

// DefaultStateBlockSize is the default §4.3 block size B.
const DefaultStateBlockSize = 256

// minBackingSize is the smallest buffer size the store will ever allocate:
// large enough to hold the widest metadata record (4 units), per I3.
const minBackingSize = 4

// Store is a bounded, wrap-around buffer of rendered output interleaved
// with in-band presentation metadata, for a single window.
type Store struct {
	window int

	// buf has length n+1 when allocated; buf[n] is a guard cell always 0.
	buf []Unit
	n   int // current backing size N (0 before first growth)
	nMax int
	nInc int

	front int // next write position
	back  int // oldest stored position
	wraps int // count of front wraparounds
	used  int // live region occupancy; the authority spaceUsed reads, since
	          // front==back is ambiguous between "empty" and "full" on its own

	backState  RenderState
	frontState RenderState

	blockSize               int
	lastMetadataBlockIndex  int
	nextNewlineAfterBack    int // -1 means "unknown, needs rescan"

	paragraphRemoval ParagraphRemovalFunc
	onFatal          FatalHook

	destroyed bool
}

// NewStore creates a store for the given window. No backing array is
// allocated until the first write. fg/bg/font/style seed both back_state
// and front_state.
func NewStore(window, nMax, nInc, fg, bg, font, style int) *Store {
	if nMax < minBackingSize {
		nMax = minBackingSize
	}
	if nInc < 1 {
		nInc = minBackingSize
	}
	st := RenderState{Font: font, Style: style, FG: fg, BG: bg}
	return &Store{
		window:               window,
		nMax:                 nMax,
		nInc:                 nInc,
		backState:            st,
		frontState:           st,
		blockSize:            DefaultStateBlockSize,
		nextNewlineAfterBack: -1,
		lastMetadataBlockIndex: 0,
	}
}

// SetParagraphRemoval registers the per-store paragraph-removal callback.
func (s *Store) SetParagraphRemoval(fn ParagraphRemovalFunc) { s.paragraphRemoval = fn }

// SetFatalHook registers the translate-and-exit hook for invariant
// violations. A nil hook falls back to the default (log and terminate).
func (s *Store) SetFatalHook(fn FatalHook) { s.onFatal = fn }

// SetStateBlockSize overrides the §4.3 block size B. Intended for tests
// that want to exercise the policy without writing hundreds of units.
func (s *Store) SetStateBlockSize(b int) {
	if b > 0 {
		s.blockSize = b
	}
}

// Window returns the window number this store was created for.
func (s *Store) Window() int { return s.window }

// Destroy releases the backing buffer. Idempotent.
func (s *Store) Destroy() {
	s.buf = nil
	s.destroyed = true
}

// AllocatedSize returns the current backing size N (0 before first write).
func (s *Store) AllocatedSize() int { return s.n }

// StoreStats is a read-only snapshot of store occupancy, for embedders that
// want a status line without reaching into internals.
type StoreStats struct {
	AllocatedSize int
	SpaceUsed     int
	SpaceAvail    int
	Wraps         int
	Front, Back   int
}

// Stats returns a snapshot of current occupancy.
func (s *Store) Stats() StoreStats {
	return StoreStats{
		AllocatedSize: s.n,
		SpaceUsed:     s.spaceUsed(),
		SpaceAvail:    s.spaceAvailable(),
		Wraps:         s.wraps,
		Front:         s.front,
		Back:          s.back,
	}
}

// spaceUsed implements I7. Occupancy is tracked explicitly in s.used rather
// than derived from front/back/wraps: front == back is ambiguous between
// "empty" and "full" once RemoveChars can move front back to meet back
// without back ever catching up, so wraps alone can no longer disambiguate it.
func (s *Store) spaceUsed() int {
	return s.used
}

func (s *Store) spaceAvailable() int {
	if s.n == 0 {
		return 0
	}
	return s.n - s.spaceUsed()
}

// tryGrow reallocates the backing array to min(target, Nmax)+1 units (the
// +1 is a guard cell, always 0). On success the live region is copied into
// the front of the new array, linearising it, and front/back/wraps are
// rebased. No data is lost. It always returns true; when target <= current
// size nothing changes.
func (s *Store) tryGrow(target int) bool {
	if target > s.nMax {
		target = s.nMax
	}
	if target < minBackingSize {
		target = minBackingSize
	}
	if target <= s.n {
		return true
	}

	used := s.spaceUsed()
	newBuf := make([]Unit, target+1)
	if used > 0 {
		// Whether the live region is contiguous or wraps past the end of
		// the backing array is decided by comparing back and front
		// directly (not by wraps, which RemoveChars can leave stale).
		if s.back < s.front {
			copy(newBuf, s.buf[s.back:s.front])
		} else {
			k := copy(newBuf, s.buf[s.back:s.n])
			copy(newBuf[k:], s.buf[:s.front])
		}
	}

	s.buf = newBuf
	s.n = target
	s.back = 0
	s.front = used
	s.used = used
	s.wraps = 0
	s.buf[s.n] = escapeUnit // guard cell
	s.nextNewlineAfterBack = -1
	return true
}

// growToFit grows by Ninc increments (clamped to Nmax) until space
// available is at least needed, or growth is exhausted.
func (s *Store) growToFit(needed int) {
	for s.spaceAvailable() < needed && s.n < s.nMax {
		target := s.n + s.nInc
		if target > s.nMax {
			target = s.nMax
		}
		if !s.tryGrow(target) {
			break
		}
	}
}

// --- offset arithmetic ---
//
// offsetBack/advance are the "decrement"/"advance" primitives of §4.1,
// expressed as pure modulo arithmetic over the backing array. Callers are
// responsible for checking live-region membership where the spec requires
// a bounds failure (inLiveRegion, below) — keeping the arithmetic itself
// total avoids threading a local-wraps counter through every caller.

func (s *Store) offsetBack(pos, k int) int {
	if s.n == 0 {
		return pos
	}
	d := pos - k
	for d < 0 {
		d += s.n
	}
	return d % s.n
}

func (s *Store) advance(pos, k int) int {
	if s.n == 0 {
		return pos
	}
	return (pos + k) % s.n
}

// inLiveRegion reports whether pos lies in [back, front) with wraparound,
// i.e. is an occupied byte. front itself is excluded (it is the next write
// position, not yet written). Which of the two interval shapes applies is
// decided by comparing back and front directly, not by wraps: back == front
// is the one case that comparison can't resolve on its own (it means either
// empty or completely full), so that case is special-cased against used.
func (s *Store) inLiveRegion(pos int) bool {
	if s.used == 0 {
		return false
	}
	if s.back == s.front {
		return true
	}
	if s.back < s.front {
		return pos >= s.back && pos < s.front
	}
	return pos >= s.back || pos < s.front
}

func (s *Store) fatal(code, format string, args ...any) {
	err := &FatalError{Code: code, Message: fmt.Sprintf(format, args...)}
	if s.onFatal != nil {
		s.onFatal(err)
	}
	panic(err)
}
