// Package model defines shared data structures.
package model

// Config defines practice settings. The flag tag names the CLI flag or
// config key reported in validation errors.
type Config struct {
	List         string `flag:"list" validate:"required"`
	Questions    int    `flag:"questions" validate:"min=1,max=100"`
	UntilCorrect bool   `flag:"until-correct"`
	Lang         string `flag:"lang" validate:"required"`
	Seed         int64  `flag:"seed"`
	Speech       SpeechConfig
	LogLevel     string `flag:"log-level" validate:"omitempty,oneof=debug info warn error"`
	LogPath      string `flag:"log-path"`
}

// SpeechConfig defines text-to-speech settings.
type SpeechConfig struct {
	Enabled     bool    `flag:"speech"`
	Command     string  `flag:"speech-command"`
	Voice       string  `flag:"voice"`
	WordRate    float64 `flag:"word-rate" validate:"gt=0,lte=10"`
	WordPitch   float64 `flag:"word-pitch" validate:"gte=0,lte=2"`
	Phrase      string  `flag:"phrase" validate:"required"`
	PhraseRate  float64 `flag:"phrase-rate" validate:"gt=0,lte=10"`
	PhrasePitch float64 `flag:"phrase-pitch" validate:"gte=0,lte=2"`
}

// WordList is a named list of words or phrases to practice. Random lists
// are shuffled on every pass; the others are asked in list order.
type WordList struct {
	Name    string
	Entries []string
	Random  bool
	Builtin bool
}
