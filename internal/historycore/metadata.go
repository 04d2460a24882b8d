// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/metadata.go
// Summary: The in-band metadata codec — encoding records into the unit
// stream and recognising them while scanning.
// Usage: StoreMetadata is the only public entry point; decode/classify
// helpers are shared by the back-drain processor and the cursor's backward
// walk.

package historycore

func encodeParam(v int) Unit { return Unit(v + paramOffset) }
func decodeParam(u Unit) int { return int(u) - paramOffset }

// encodeRecord builds the in-band byte sequence for a metadata record.
func encodeRecord(kind MetaKind, p1, p2 int) []Unit {
	switch kind {
	case MetaFont, MetaStyle:
		return []Unit{escapeUnit, Unit(kind), encodeParam(p1)}
	default:
		return []Unit{escapeUnit, Unit(kind), encodeParam(p1), encodeParam(p2)}
	}
}

// StoreMetadata appends a metadata record to the stream. Font/Style take a
// single parameter; Colour and ParaAttr take two. The call counts as a
// store_chars write with the state-block tick disabled, so metadata writes
// never themselves trigger §4.3's forced emission.
func (s *Store) StoreMetadata(kind MetaKind, p1 int, p2 int) error {
	if s.destroyed {
		return &NoOpError{Op: "store_metadata"}
	}

	switch kind {
	case MetaFont, MetaStyle:
		if kind == MetaStyle && (p1 < 0 || p1 > 15) {
			s.fatal("INVALID_PARAMETER", "style %d out of range [0,15]", p1)
		}
	case MetaColour:
		if p1 < ColourUndefined || p1 > ColourMax || p2 < ColourUndefined || p2 > ColourMax {
			s.fatal("INVALID_PARAMETER", "colour fg=%d bg=%d out of range [%d,%d]", p1, p2, ColourUndefined, ColourMax)
		}
	case MetaParaAttr:
		// Stored verbatim; no range restriction per spec.
	default:
		return &CapacityError{Op: "store_metadata", Msg: "unknown metadata kind"}
	}

	data := encodeRecord(kind, p1, p2)
	if err := s.storeChars(data, false); err != nil {
		return err
	}

	switch kind {
	case MetaFont:
		s.frontState.Font = p1
	case MetaStyle:
		s.frontState.Style = p1
	case MetaColour:
		s.frontState.FG, s.frontState.BG = p1, p2
	}
	return nil
}

// writeForcedRecord emits a record without touching front_state, used by
// §4.3's state-block policy to stamp back_state anchors.
func (s *Store) writeForcedRecord(kind MetaKind, p1, p2 int) error {
	return s.storeChars(encodeRecord(kind, p1, p2), false)
}

// readRecordAt decodes the metadata record beginning at pos (which must
// point at an escapeUnit). It does not validate that pos is in the live
// region; callers that walk backward pre-validate via metaRecordEndingAt.
func (s *Store) readRecordAt(pos int) (kind MetaKind, p1, p2 int, width int) {
	kind = MetaKind(s.buf[s.advance(pos, 1)])
	width = recordWidth(kind)
	p1 = decodeParam(s.buf[s.advance(pos, 2)])
	if width == 4 {
		p2 = decodeParam(s.buf[s.advance(pos, 3)])
	}
	return
}

// metaRecordEndingAt reports whether a well-formed metadata record's last
// unit sits at pos (inclusive), i.e. the record occupies
// [pos-width+1 .. pos]. It tries the 4-unit forms before the 3-unit forms
// since both encodings could coincidentally decode at the shorter width.
func (s *Store) metaRecordEndingAt(pos int) (kind MetaKind, start int, p1, p2 int, ok bool) {
	for _, w := range [2]int{4, 3} {
		cand := s.offsetBack(pos, w-1)
		if !s.inLiveRegion(cand) {
			continue
		}
		if s.buf[cand] != escapeUnit {
			continue
		}
		k := MetaKind(s.buf[s.advance(cand, 1)])
		if recordWidth(k) != w {
			continue
		}
		a1 := decodeParam(s.buf[s.advance(cand, 2)])
		a2 := 0
		if w == 4 {
			a2 = decodeParam(s.buf[s.advance(cand, 3)])
		}
		return k, cand, a1, a2, true
	}
	return 0, 0, 0, 0, false
}
