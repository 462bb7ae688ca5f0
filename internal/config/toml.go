// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Speech   SpeechConfig   `toml:"speech"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	List         *string `toml:"list"`
	Questions    *int    `toml:"questions"`
	UntilCorrect *bool   `toml:"until-correct"`
	Lang         *string `toml:"lang"`
	Seed         *int64  `toml:"seed"`
}

// SpeechConfig maps text-to-speech settings.
type SpeechConfig struct {
	Enabled     *bool    `toml:"enabled"`
	Command     *string  `toml:"command"`
	Voice       *string  `toml:"voice"`
	WordRate    *float64 `toml:"word-rate"`
	WordPitch   *float64 `toml:"word-pitch"`
	Phrase      *string  `toml:"phrase"`
	PhraseRate  *float64 `toml:"phrase-rate"`
	PhrasePitch *float64 `toml:"phrase-pitch"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	Path  *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
