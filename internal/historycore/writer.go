// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/writer.go
// Summary: §4.5 writer API — store_chars/store_text/remove_chars and
// alter_last_paragraph_attributes.
// Usage: The sole text-ingestion and rewind path for a Store.

package historycore

// StoreText is a convenience wrapper computing len and always evaluating
// the state-block policy.
func (s *Store) StoreText(text string) error {
	if text == "" {
		return &NoOpError{Op: "store_text"}
	}
	return s.storeChars([]Unit(text), true)
}

// StoreChars writes data and, if evaluateStateBlock, runs §4.3 afterwards.
// It is also used internally by StoreMetadata with evaluateStateBlock set
// to false, so metadata writes never themselves trigger forced anchors.
func (s *Store) StoreChars(data []Unit, evaluateStateBlock bool) error {
	return s.storeChars(data, evaluateStateBlock)
}

func (s *Store) storeChars(data []Unit, evaluateStateBlock bool) error {
	if s.destroyed {
		return &NoOpError{Op: "store_chars"}
	}
	if len(data) == 0 {
		return &NoOpError{Op: "store_chars"}
	}

	if len(data) >= s.nMax {
		s.storeOverflowing(data)
		if evaluateStateBlock {
			s.evaluateStateBlock()
		}
		return nil
	}

	// Grow toward Nmax if that avoids some wraparound draining, but don't
	// treat a still-insufficient spaceAvailable as fatal: once len(data) <
	// Nmax (checked above), phase B below always has room by draining one
	// old unit per new unit written, regardless of current occupancy.
	if s.spaceAvailable() < len(data) {
		s.growToFit(len(data))
	}

	remaining := data

	// Phase A: linear fill toward the end of the backing array. Only
	// applies while front has never reached the end of the backing array
	// and reset to 0 — once it has (wraps > 0), every further write must
	// drain a unit before it can write one.
	if s.wraps == 0 && len(remaining) > 0 {
		spaceToEnd := s.n - s.front
		chunk := len(remaining)
		if chunk > spaceToEnd {
			chunk = spaceToEnd
		}
		copy(s.buf[s.front:s.front+chunk], remaining[:chunk])
		s.front += chunk
		s.used += chunk
		remaining = remaining[chunk:]
	}

	// Phase B: wrap-writing. Each unit evicts exactly one old unit.
	for len(remaining) > 0 {
		if s.front == s.n {
			s.front = 0
			s.wraps++
		}
		s.drain(1)
		s.buf[s.front] = remaining[0]
		remaining = remaining[1:]
		s.front++
		s.back = s.front
		s.used++
	}

	if evaluateStateBlock {
		s.evaluateStateBlock()
	}
	return nil
}

// storeOverflowing handles the len(data) >= Nmax case: the whole live
// region is discarded, the store grows to its maximum if not already
// there, and the tail of data (length Nmax) becomes the entire buffer.
func (s *Store) storeOverflowing(data []Unit) {
	if s.used > 0 {
		s.drain(s.used)
	}
	if s.n < s.nMax {
		s.tryGrow(s.nMax)
	}
	tail := data
	if len(tail) > s.n {
		tail = tail[len(tail)-s.n:]
	}
	copied := copy(s.buf[:s.n], tail)
	s.back = 0
	s.front = s.n
	s.wraps++
	s.used = copied
	s.nextNewlineAfterBack = -1
	s.buf[s.n] = escapeUnit
}

// RemoveChars walks backward from front by n logical (non-metadata)
// characters, used to expunge preloaded input. Metadata records crossed
// while rewinding are skipped in their entirety and do not count toward n.
// Fails with CapacityError if the walk would cross back.
func (s *Store) RemoveChars(n int) error {
	if n <= 0 || s.destroyed {
		return &NoOpError{Op: "remove_chars"}
	}
	if s.spaceUsed() == 0 {
		return &CapacityError{Op: "remove_chars", Msg: "cannot rewind: buffer empty"}
	}

	cut := s.front
	unitsLeft := s.spaceUsed()
	remaining := n
	for remaining > 0 {
		if unitsLeft <= 0 {
			return &CapacityError{Op: "remove_chars", Msg: "cannot rewind past back"}
		}
		last := s.offsetBack(cut, 1)
		if kind, start, _, _, ok := s.metaRecordEndingAt(last); ok {
			width := recordWidth(kind)
			if width > unitsLeft {
				return &CapacityError{Op: "remove_chars", Msg: "cannot rewind past back"}
			}
			cut = start
			unitsLeft -= width
			continue
		}
		cut = last
		unitsLeft--
		remaining--
	}

	s.front = cut
	s.used = unitsLeft
	return nil
}

// AlterParagraphAttributesAt overwrites the two parameter units of a
// PARA_ATTR record in place, given the offset of its first parameter unit
// (as reported to a Cursor via lastParagraphAttributeIndex).
func (s *Store) AlterParagraphAttributesAt(paramIndex int, a1, a2 int) error {
	if s.destroyed {
		return &NoOpError{Op: "alter_last_paragraph_attributes"}
	}
	s.buf[paramIndex] = encodeParam(a1)
	s.buf[s.advance(paramIndex, 1)] = encodeParam(a2)
	return nil
}
