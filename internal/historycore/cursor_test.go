// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package historycore

import "testing"

func TestRewindParagraphWalksBackwardOverNewlines(t *testing.T) {
	s := newTestStore()
	if err := s.StoreText("one\ntwo\nthree"); err != nil {
		t.Fatalf("store_text: %v", err)
	}

	c := NewCursor(s, nil, 0)
	defer c.Destroy()

	outcome, err := c.RewindParagraph()
	if err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if outcome.CharCount != len("three") {
		t.Fatalf("first rewind char count = %d, want %d", outcome.CharCount, len("three"))
	}

	outcome, err = c.RewindParagraph()
	if err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if outcome.CharCount != len("two") {
		t.Fatalf("second rewind char count = %d, want %d", outcome.CharCount, len("two"))
	}

	outcome, err = c.RewindParagraph()
	if err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if !outcome.EndOfLiveRegion {
		t.Fatalf("expected end of live region at the first paragraph")
	}
	if outcome.CharCount != len("one") {
		t.Fatalf("third rewind char count = %d, want %d", outcome.CharCount, len("one"))
	}
}

func TestRewindParagraphOnEmptyStoreReportsEndOfLiveRegion(t *testing.T) {
	s := newTestStore()
	c := NewCursor(s, nil, 0)
	defer c.Destroy()

	outcome, err := c.RewindParagraph()
	if err != nil {
		t.Fatalf("rewind on empty store: %v", err)
	}
	if !outcome.EndOfLiveRegion {
		t.Fatalf("expected EndOfLiveRegion on empty store")
	}
}

func TestRepeatParagraphsReplaysTextAndMetadata(t *testing.T) {
	s := newTestStore()
	if err := s.StoreText("one\n"); err != nil {
		t.Fatalf("store_text: %v", err)
	}
	if err := s.StoreMetadata(MetaStyle, 2, 0); err != nil {
		t.Fatalf("store_metadata: %v", err)
	}
	if err := s.StoreText("two\n"); err != nil {
		t.Fatalf("store_text: %v", err)
	}

	target := &fakeTarget{}
	c := NewCursor(s, target, FlagFromBack)
	defer c.Destroy()

	remaining, err := c.RepeatParagraphs(2, true, true)
	if err != nil {
		t.Fatalf("repeat_paragraphs: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected all paragraphs delivered, %d remaining", remaining)
	}
	if got := target.text.String(); got != "one\ntwo\n" {
		t.Fatalf("replayed text = %q, want %q", got, "one\ntwo\n")
	}
	if len(target.styles) != 2 {
		t.Fatalf("expected initial + mid-stream style calls, got %d", len(target.styles))
	}
	if !c.AtFront() {
		t.Fatalf("cursor should be at front after replaying all paragraphs")
	}
}

func TestRememberRestoreRoundTrips(t *testing.T) {
	s := newTestStore()
	if err := s.StoreText("one\ntwo\nthree"); err != nil {
		t.Fatalf("store_text: %v", err)
	}

	c := NewCursor(s, nil, 0)
	defer c.Destroy()

	if _, err := c.RewindParagraph(); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	c.Remember()
	savedIndex := c.currentParagraphIndex

	if _, err := c.RewindParagraph(); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if c.currentParagraphIndex == savedIndex {
		t.Fatalf("expected cursor to have moved before restore")
	}

	c.Restore()
	if c.currentParagraphIndex != savedIndex {
		t.Fatalf("restore did not return to remembered position")
	}
}

func TestCursorInvalidatedByStoreMutation(t *testing.T) {
	s := newTestStore()
	if err := s.StoreText("hello"); err != nil {
		t.Fatalf("store_text: %v", err)
	}

	var captured *FatalError
	s.SetFatalHook(func(err *FatalError) { captured = err })

	c := NewCursor(s, nil, 0)
	defer c.Destroy()

	if err := s.StoreText("more"); err != nil {
		t.Fatalf("store_text: %v", err)
	}

	fatal := recoverFatal(func() {
		_, _ = c.RewindParagraph()
	})
	if fatal == nil {
		t.Fatalf("expected fatal panic on invalidated cursor use")
	}
	if captured == nil || captured.Code != "CURSOR_INVALIDATED" {
		t.Fatalf("expected CURSOR_INVALIDATED, got %+v", captured)
	}
}

func TestAlterLastParagraphAttributesRequiresObservedRecord(t *testing.T) {
	s := newTestStore()
	if err := s.StoreText("x"); err != nil {
		t.Fatalf("store_text: %v", err)
	}
	c := NewCursor(s, &fakeTarget{}, FlagFromBack)
	defer c.Destroy()

	if err := c.AlterLastParagraphAttributes(1, 2); err == nil {
		t.Fatalf("expected error altering attributes before any PARA_ATTR observed")
	}
}

func TestAlterLastParagraphAttributesAfterReplay(t *testing.T) {
	s := newTestStore()
	if err := s.StoreText("line"); err != nil {
		t.Fatalf("store_text: %v", err)
	}
	if err := s.StoreMetadata(MetaParaAttr, 1, 1); err != nil {
		t.Fatalf("store_metadata: %v", err)
	}

	target := &fakeTarget{}
	c := NewCursor(s, target, FlagFromBack)
	defer c.Destroy()

	if _, err := c.RepeatParagraphs(1, true, true); err != nil {
		t.Fatalf("repeat_paragraphs: %v", err)
	}
	if err := c.AlterLastParagraphAttributes(9, 9); err != nil {
		t.Fatalf("alter_last_paragraph_attributes: %v", err)
	}
}
