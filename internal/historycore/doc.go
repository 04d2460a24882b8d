// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/doc.go
// Summary: Package overview.

// Package historycore implements a per-window, bounded, wrap-around output
// history: a ring buffer of rendered character output interleaved with
// in-band presentation metadata (font, style, colour, paragraph
// attributes), and a Cursor that walks it backward a paragraph at a time
// and replays forward segments into a caller-supplied RenderTarget.
//
// The store is single-threaded and cooperative, with no internal locking:
// callers must not mutate a Store from one goroutine while a Cursor walks it
// from another. Writes invalidate existing cursors, except cursors created
// with FlagNoValidation, which may keep being used between writes.
package historycore
