// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/historycore/config.go
// Summary: StoreConfig bundles a Store's construction parameters into a
// JSON-serializable value, mirroring the teacher's config.Config/Default()
// shape for callers (such as the demo binary) that load settings from disk
// instead of wiring NewStore's positional arguments directly.
// Usage: historycore.Default() for a baseline, NewStoreFromConfig to build.

package historycore

// StoreConfig holds the tunables for constructing a Store.
type StoreConfig struct {
	MaxSize         int `json:"maxSize"`
	GrowthIncrement int `json:"growthIncrement"`
	StateBlockSize  int `json:"stateBlockSize"`
	Font            int `json:"font"`
	Style           int `json:"style"`
	FG              int `json:"fg"`
	BG              int `json:"bg"`
}

// Default returns the baseline store configuration: a 64Ki-unit store
// growing in 4Ki-unit increments, the default §4.3 state-block size, and
// undecorated default colours/font/style.
func Default() StoreConfig {
	return StoreConfig{
		MaxSize:         64 * 1024,
		GrowthIncrement: 4 * 1024,
		StateBlockSize:  DefaultStateBlockSize,
		Font:            0,
		Style:           0,
		FG:              ColourDefault,
		BG:              ColourDefault,
	}
}

// NewStoreFromConfig builds a Store for window from cfg.
func NewStoreFromConfig(window int, cfg StoreConfig) *Store {
	s := NewStore(window, cfg.MaxSize, cfg.GrowthIncrement, cfg.FG, cfg.BG, cfg.Font, cfg.Style)
	if cfg.StateBlockSize > 0 {
		s.SetStateBlockSize(cfg.StateBlockSize)
	}
	return s
}
