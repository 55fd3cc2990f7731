// Package integration assembles the ballot runtime: it opens the database
// selected by a storage preset, restores the host block clock, and wires the
// ledger, the voting session, the recovery gate and the contract together.
//
// Presets bundle the storage settings into named profiles:
//
//	memory   in-process database, lost on exit; tests and fakenet
//	default  LevelDB with moderate caches
//	archive  LevelDB with large caches for long histories
package integration

import "fmt"

// Database backends.
const (
	MemoryBackend  = "memory"
	LevelDBBackend = "leveldb"
)

// PresetConfig captures the storage parameters that vary across profiles.
type PresetConfig struct {
	Name          string // profile identifier
	DBBackend     string // MemoryBackend or LevelDBBackend
	CacheMB       int    // LevelDB block cache and write buffer, in megabytes
	Handles       int    // LevelDB open file handles
	HeadCacheSize int    // accounts whose latest checkpoint stays in memory
}

func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:          "default",
		DBBackend:     LevelDBBackend,
		CacheMB:       256,
		Handles:       512,
		HeadCacheSize: 16 * 1024,
	}
}

// MemoryPreset keeps everything in process memory. Nothing survives a restart.
func MemoryPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "memory"
	cfg.DBBackend = MemoryBackend
	cfg.CacheMB = 0
	cfg.Handles = 0
	cfg.HeadCacheSize = 1024
	return cfg
}

// ArchivePreset favours deep historical queries over many accounts.
func ArchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "archive"
	cfg.CacheMB = 2048
	cfg.Handles = 2048
	cfg.HeadCacheSize = 256 * 1024
	return cfg
}

// GetPresetByName looks up a preset by its identifier.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "memory":
		return MemoryPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: memory, default, archive)", name)
	}
}

// ApplyPreset merges preset into target. Zero fields of preset leave target
// untouched.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.DBBackend != "" {
		target.DBBackend = preset.DBBackend
	}
	if preset.CacheMB > 0 {
		target.CacheMB = preset.CacheMB
	}
	if preset.Handles > 0 {
		target.Handles = preset.Handles
	}
	if preset.HeadCacheSize > 0 {
		target.HeadCacheSize = preset.HeadCacheSize
	}
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
