// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// End-to-end scenarios exercising the store/cursor contract together,
// rather than one primitive in isolation.

package historycore

import "testing"

// Wraparound eviction must fire paragraph_removal exactly once per
// PARA_ATTR record that actually leaves the live region, with that record's
// parameters.
func TestWraparoundFiresParagraphRemovalExactlyOnce(t *testing.T) {
	s := NewStore(0, 16, 16, ColourDefault, ColourDefault, 0, 0)
	var removed [][2]int
	s.SetParagraphRemoval(func(a1, a2 int) { removed = append(removed, [2]int{a1, a2}) })

	if err := s.StoreMetadata(MetaParaAttr, 11, 22); err != nil {
		t.Fatalf("store_metadata: %v", err)
	}
	if err := s.StoreText("first line here\n"); err != nil {
		t.Fatalf("store_text: %v", err)
	}
	if err := s.StoreText("second line pushes first out of the live region entirely\n"); err != nil {
		t.Fatalf("store_text: %v", err)
	}

	if len(removed) != 1 {
		t.Fatalf("expected exactly one paragraph_removal callback, got %d: %v", len(removed), removed)
	}
	if removed[0] != [2]int{11, 22} {
		t.Fatalf("unexpected removed paragraph attributes: %v", removed[0])
	}
}

// A cursor created with FlagFromBack on a store that has wrapped must still
// reconstruct a sensible starting render state from back_state, and must be
// able to replay forward all the way to front.
func TestForwardReplayFromBackAfterWraparound(t *testing.T) {
	s := NewStore(0, 16, 16, ColourDefault, ColourDefault, 0, 0)
	if err := s.StoreText("0123456789ABCDEF"); err != nil {
		t.Fatalf("store_text: %v", err)
	}
	if err := s.StoreText("GHIJ"); err != nil {
		t.Fatalf("store_text: %v", err)
	}

	target := &fakeTarget{}
	c := NewCursor(s, target, FlagFromBack)
	defer c.Destroy()

	remaining, err := c.RepeatParagraphs(1, true, true)
	if err != nil {
		t.Fatalf("repeat_paragraphs: %v", err)
	}
	// The live region contains no newline at all, so the one requested
	// paragraph is never terminated; RepeatParagraphs still drains every
	// live unit up to front before giving up.
	if remaining != 1 {
		t.Fatalf("expected the unterminated paragraph left undelivered, got %d remaining", remaining)
	}
	if !c.AtFront() {
		t.Fatalf("cursor should have reached front")
	}
	if got := target.text.String(); got != "456789ABCDEFGHIJ" {
		t.Fatalf("replayed text = %q, want %q (only the last 16 units survive a 16-unit store)", got, "456789ABCDEFGHIJ")
	}
}

// Altering a paragraph's attributes after it has already been emitted must
// change what paragraph_removal reports when that record is later evicted.
func TestAlterParagraphAttributesVisibleOnNextPass(t *testing.T) {
	s := newTestStore()
	if err := s.StoreText("line"); err != nil {
		t.Fatalf("store_text: %v", err)
	}
	if err := s.StoreMetadata(MetaParaAttr, 1, 1); err != nil {
		t.Fatalf("store_metadata: %v", err)
	}

	target := &fakeTarget{}
	c := NewCursor(s, target, FlagFromBack)
	if _, err := c.RepeatParagraphs(1, true, true); err != nil {
		t.Fatalf("repeat_paragraphs: %v", err)
	}
	if err := c.AlterLastParagraphAttributes(9, 8); err != nil {
		t.Fatalf("alter_last_paragraph_attributes: %v", err)
	}
	c.Destroy()

	var removed [][2]int
	s.SetParagraphRemoval(func(a1, a2 int) { removed = append(removed, [2]int{a1, a2}) })
	if err := s.StoreText(" and much more text to force this paragraph out of the live region for good"); err != nil {
		t.Fatalf("store_text: %v", err)
	}
	if len(removed) != 1 || removed[0] != [2]int{9, 8} {
		t.Fatalf("expected altered attributes (9,8) on eviction, got %v", removed)
	}
}

// A store's FatalHook fires before the panic unwinds, so
// embedders can log/translate the error even though the call never returns.
func TestFatalHookInvokedBeforePanic(t *testing.T) {
	s := newTestStore()
	invoked := false
	s.SetFatalHook(func(err *FatalError) { invoked = true })

	fatal := recoverFatal(func() {
		_ = s.StoreMetadata(MetaStyle, -1, 0)
	})
	if fatal == nil {
		t.Fatalf("expected panic")
	}
	if !invoked {
		t.Fatalf("expected fatal hook to be invoked before panic")
	}
}
