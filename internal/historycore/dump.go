// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/dump.go
// Summary: Diagnostic rendering of the live region, for test failures and
// interactive debugging. Not part of the writer/cursor contract.

package historycore

import (
	"fmt"
	"io"
)

// DebugDump writes the live region to w as escaped text, with metadata
// records rendered as bracketed tags, e.g. "Hello[style 1]\n".
func (s *Store) DebugDump(w io.Writer) {
	if s.spaceUsed() == 0 {
		fmt.Fprint(w, "<empty>")
		return
	}
	pos := s.back
	for left := s.spaceUsed(); left > 0; {
		u := s.buf[pos]
		if u == escapeUnit {
			kind, p1, p2, width := s.readRecordAt(pos)
			if width == 4 {
				fmt.Fprintf(w, "[%s %d %d]", kind, p1, p2)
			} else {
				fmt.Fprintf(w, "[%s %d]", kind, p1)
			}
			pos = s.advance(pos, width)
			left -= width
			continue
		}
		if u == newlineUnit {
			fmt.Fprint(w, "\\n\n")
		} else {
			fmt.Fprintf(w, "%c", u)
		}
		pos = s.advance(pos, 1)
		left--
	}
}
