package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DefaultEntryTypes is the built-in entry type list, editable via config.
var DefaultEntryTypes = []string{"Journal", "Task", "Idea", "Note", "Mood"}

// Config holds application configuration.
type Config struct {
	// EntryTypes is the list of allowed item types. Setting it in the
	// config file replaces the defaults wholesale (matching the settings
	// screen behavior: the user edits the full list).
	EntryTypes []string `json:"entry_types,omitempty"`

	// MoodResultLimit caps how many emoji suggestions the mood picker shows.
	MoodResultLimit int `json:"mood_result_limit,omitempty"`

	// Locale selects taxonomy display names ("en" or "nl").
	Locale string `json:"locale,omitempty"`

	// AllowedPaths is an allowlist of directories for import/export
	// operations. Paths outside ~/.lsq/exports require either being in this
	// list or AllowUnsafePaths=true. Paths should be absolute.
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool type prefixes ("item", "mood",
	// "emotion") to disable entirely.
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		EntryTypes:      append([]string(nil), DefaultEntryTypes...),
		MoodResultLimit: 8,
		Locale:          "en",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.lsq.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars and for EntryTypes (the user
// edits that list wholesale); AllowedPaths and the disabled lists are merged
// and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.EntryTypes = cleanStringSlice(overlay.EntryTypes)
	if len(result.EntryTypes) == 0 {
		result.EntryTypes = cleanStringSlice(base.EntryTypes)
	}

	result.MoodResultLimit = overlay.MoodResultLimit
	if result.MoodResultLimit == 0 {
		result.MoodResultLimit = base.MoodResultLimit
	}

	result.Locale = strings.TrimSpace(overlay.Locale)
	if result.Locale == "" {
		result.Locale = base.Locale
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// KnownEntryType reports whether entryType is in the configured list.
// Matching is exact: entry types are author-facing labels, not keys.
func (c *Config) KnownEntryType(entryType string) bool {
	for _, t := range c.EntryTypes {
		if t == entryType {
			return true
		}
	}
	return false
}

// cleanStringSlice trims entries and drops empties and duplicates.
func cleanStringSlice(values []string) []string {
	return mergeStringSlice(values, nil)
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
