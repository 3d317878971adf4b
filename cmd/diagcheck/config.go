package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all diagcheck server configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	ListenAddr    string `json:"listen_addr"`
	DBPath        string `json:"db_path"`
	LogLevel      string `json:"log_level"`
	RulesPath     string `json:"rules_path"`
	History       bool   `json:"history"`
	RetentionDays int    `json:"retention_days"`
	PruneSchedule string `json:"prune_schedule"`
	MCP           bool   `json:"mcp"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:    ":4400",
		DBPath:        filepath.Join(diagcheckDir(), "diagcheck.db"),
		LogLevel:      "info",
		History:       true,
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
	}
}

func diagcheckDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".diagcheck"
	}
	return filepath.Join(home, ".diagcheck")
}

func settingsPath() string {
	return filepath.Join(diagcheckDir(), "settings.json")
}

func loadConfig() Config {
	cfg := defaultConfig()

	// Layer 2: settings.json (ignore if missing).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	// Layer 3: env vars override.
	if v := os.Getenv("DIAGCHECK_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("DIAGCHECK_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("DIAGCHECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DIAGCHECK_RULES_PATH"); v != "" {
		cfg.RulesPath = v
	}
	if v := os.Getenv("DIAGCHECK_HISTORY"); v != "" {
		cfg.History = v == "true" || v == "1"
	}
	if v := os.Getenv("DIAGCHECK_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RetentionDays = n
		}
	}
	if v := os.Getenv("DIAGCHECK_PRUNE_SCHEDULE"); v != "" {
		cfg.PruneSchedule = v
	}
	if v := os.Getenv("DIAGCHECK_MCP"); v != "" {
		cfg.MCP = v == "true" || v == "1"
	}

	return cfg
}
