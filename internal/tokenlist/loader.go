package tokenlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"solana-trade-scout/internal/domain"
)

// Filters are optional validation overrides carried in the combined list
// file. Nil fields mean "use the configured default".
type Filters struct {
	MinLiquidityUsd   *float64           `json:"minLiquidityUsd,omitempty"`
	MinLiquidityByDex map[string]float64 `json:"minLiquidityByDex,omitempty"`
	RequireMetadata   *bool              `json:"requireMetadata,omitempty"`
	RequireDecimals   *bool              `json:"requireDecimals,omitempty"`
}

// whitelistFile is the on-disk whitelist shape: {"tokens":[...]} or a bare array.
type whitelistFile struct {
	Tokens []domain.WhitelistEntry `json:"tokens"`
}

// blacklistFile is the on-disk blacklist shape: {"tokens":[...],"patterns":[...]}
// or a bare array of entries.
type blacklistFile struct {
	Tokens   []domain.BlacklistEntry   `json:"tokens"`
	Patterns []domain.BlacklistPattern `json:"patterns"`
}

// combinedFile is the single-file form carrying both lists and filters.
type combinedFile struct {
	Whitelist    whitelistFile `json:"whitelist"`
	Blacklist    blacklistFile `json:"blacklist"`
	TokenFilters *Filters      `json:"tokenFilters,omitempty"`
}

// loadWhitelistFile parses a whitelist file, accepting both supported shapes.
func loadWhitelistFile(data []byte) (*whitelistFile, error) {
	var wrapped whitelistFile
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return &wrapped, nil
	}

	var bare []domain.WhitelistEntry
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse whitelist: %w", err)
	}
	return &whitelistFile{Tokens: bare}, nil
}

// loadBlacklistFile parses a blacklist file, accepting both supported shapes.
func loadBlacklistFile(data []byte) (*blacklistFile, error) {
	var wrapped blacklistFile
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return &wrapped, nil
	}

	var bare []domain.BlacklistEntry
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse blacklist: %w", err)
	}
	return &blacklistFile{Tokens: bare}, nil
}

// loadCombinedFile parses the combined single-file form.
func loadCombinedFile(data []byte) (*combinedFile, error) {
	var combined combinedFile
	if err := json.Unmarshal(data, &combined); err != nil {
		return nil, fmt.Errorf("parse combined list: %w", err)
	}
	return &combined, nil
}

// readOrCreate reads a list file, creating it with the given skeleton
// when missing. Returns the file contents.
func readOrCreate(path string, skeleton []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, skeleton, 0o644); err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return skeleton, nil
}

var (
	emptyListSkeleton     = []byte("{\n  \"tokens\": []\n}\n")
	emptyCombinedSkeleton = []byte("{\n  \"whitelist\": { \"tokens\": [] },\n  \"blacklist\": { \"tokens\": [], \"patterns\": [] }\n}\n")
)
