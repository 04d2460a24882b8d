// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/historydemo/config.go
// Summary: Demo configuration loading from ~/.config/fizmohist/historydemo.json

package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/framegrace/fizmohist/internal/historycore"
)

// demoConfig holds the demo binary's configuration.
type demoConfig struct {
	Shell string                  `json:"shell"`
	Store historycore.StoreConfig `json:"store"`
}

// defaultDemoConfig returns the default demo configuration.
func defaultDemoConfig() *demoConfig {
	return &demoConfig{
		Shell: defaultShell(),
		Store: historycore.Default(),
	}
}

// loadConfig loads configuration from ~/.config/fizmohist/historydemo.json.
// If the file doesn't exist, returns the default config. Command-line flags
// override config file values.
func loadConfig() (*demoConfig, error) {
	cfg := defaultDemoConfig()

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("historydemo: failed to get user config dir: %v", err)
		return cfg, nil
	}

	configPath := filepath.Join(configDir, "fizmohist", "historydemo.json")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("historydemo: no config file at %s, using defaults", configPath)
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	log.Printf("historydemo: loaded config from %s", configPath)
	return cfg, nil
}

func defaultShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		return s
	}
	return "/bin/sh"
}
