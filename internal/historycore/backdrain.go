// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/backdrain.go
// Summary: §4.4 back-drain processor — scans bytes about to be overwritten
// at back, folds their metadata into back_state, and fires the
// paragraph-removal callback for PARA_ATTR records that leave the live
// region.
// Usage: Called by the writer (writer.go) before each wraparound overwrite.

package historycore

// drain scans forward from back, consuming at least k units (more if a
// metadata record straddles the k-unit boundary — I3 guarantees the
// overshoot always fits within the live region being overwritten), folding
// FONT/STYLE/COLOUR into back_state and firing paragraphRemoval for
// PARA_ATTR records that have already been passed by a newline boundary.
func (s *Store) drain(k int) {
	// pastCachedNewline tracks whether we've moved beyond the earliest
	// newline at-or-after the original back. If the cache was already
	// unknown (-1), we conservatively treat ourselves as already past it,
	// per §4.4: "or no newline is cached".
	pastCachedNewline := s.nextNewlineAfterBack < 0

	consumed := 0
	for consumed < k {
		pos := s.back
		u := s.buf[pos]

		if u == escapeUnit {
			kind, p1, p2, width := s.readRecordAt(pos)
			switch kind {
			case MetaFont:
				s.backState.Font = p1
			case MetaStyle:
				s.backState.Style = p1
			case MetaColour:
				s.backState.FG, s.backState.BG = p1, p2
			case MetaParaAttr:
				if pastCachedNewline && s.paragraphRemoval != nil {
					s.paragraphRemoval(p1, p2)
				}
			}
			s.back = s.advance(s.back, width)
			consumed += width
			continue
		}

		if u == newlineUnit {
			if !pastCachedNewline && pos == s.nextNewlineAfterBack {
				pastCachedNewline = true
			}
			s.nextNewlineAfterBack = -1
		}
		s.back = s.advance(s.back, 1)
		consumed++
	}

	s.used -= consumed

	if s.nextNewlineAfterBack < 0 {
		s.rescanForNewline()
	}
}

// rescanForNewline peeks forward from the (new) back to find the earliest
// newline still in the live region, without consuming anything. PARA_ATTR
// records it passes over are decoded only to keep the scan synchronised
// with record boundaries — they are NOT re-reported to paragraphRemoval,
// since they have not left the live region (see DESIGN.md for why this
// departs from a literal reading of §4.4's last paragraph).
func (s *Store) rescanForNewline() {
	if s.spaceUsed() == 0 {
		return
	}
	pos := s.back
	for pos != s.front {
		u := s.buf[pos]
		if u == escapeUnit {
			_, _, _, width := s.readRecordAt(pos)
			pos = s.advance(pos, width)
			continue
		}
		if u == newlineUnit {
			s.nextNewlineAfterBack = pos
			return
		}
		pos = s.advance(pos, 1)
	}
	// No newline found anywhere in the live region; leave the cache
	// unknown so the next drain call retries.
}
