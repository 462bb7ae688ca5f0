// Package main provides the CLI entrypoint for dictee.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/verte-zerg/dictee/internal/config"
	"github.com/verte-zerg/dictee/internal/feedback"
	"github.com/verte-zerg/dictee/internal/logging"
	"github.com/verte-zerg/dictee/internal/model"
	"github.com/verte-zerg/dictee/internal/scheduler"
	"github.com/verte-zerg/dictee/internal/session"
	"github.com/verte-zerg/dictee/internal/speech"
	"github.com/verte-zerg/dictee/internal/stats"
	"github.com/verte-zerg/dictee/internal/store"
	"github.com/verte-zerg/dictee/internal/tui"
	"github.com/verte-zerg/dictee/internal/wordlist"
)

const (
	defaultLang      = "nl"
	defaultQuestions = 10
)

var (
	practiceList         string
	practiceQuestions    int
	practiceUntilCorrect bool
	practiceLang         string
	practiceSeed         int64
	speechEnabled        bool
	speechCommand        string
	speechVoice          string
	logLevel             string
)

var validate = newValidator()

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dictee",
		Short:         "Spelling dictation trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceList, "list", wordlist.DefaultList, "word list to practice")
	rootCmd.Flags().IntVar(&practiceQuestions, "questions", defaultQuestions, "questions per round (1-100)")
	rootCmd.Flags().BoolVar(&practiceUntilCorrect, "until-correct", false, "repeat until every word is spelled correctly")
	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language used for case folding and speech")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "shuffle seed (0 picks a random seed)")
	rootCmd.Flags().BoolVar(&speechEnabled, "speech", true, "pronounce words with a text-to-speech command")
	rootCmd.Flags().StringVar(&speechCommand, "speech-command", "", "text-to-speech command (default: first of espeak-ng, espeak, spd-say, say)")
	rootCmd.Flags().StringVar(&speechVoice, "voice", "", "text-to-speech voice")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newListsCmd())
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}

func loadConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "list", &practiceList, fileCfg.Practice.List)
	applyIntConfig(cmd, "questions", &practiceQuestions, fileCfg.Practice.Questions)
	applyBoolConfig(cmd, "until-correct", &practiceUntilCorrect, fileCfg.Practice.UntilCorrect)
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)
	applyBoolConfig(cmd, "speech", &speechEnabled, fileCfg.Speech.Enabled)
	applyStringConfig(cmd, "speech-command", &speechCommand, fileCfg.Speech.Command)
	applyStringConfig(cmd, "voice", &speechVoice, fileCfg.Speech.Voice)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	cfg := model.Config{
		List:         practiceList,
		Questions:    practiceQuestions,
		UntilCorrect: practiceUntilCorrect,
		Lang:         practiceLang,
		Seed:         practiceSeed,
		Speech: model.SpeechConfig{
			Enabled:     speechEnabled,
			Command:     speechCommand,
			Voice:       speechVoice,
			WordRate:    session.DefaultSpeech.Word.Rate,
			WordPitch:   session.DefaultSpeech.Word.Pitch,
			Phrase:      session.DefaultSpeech.Phrase,
			PhraseRate:  session.DefaultSpeech.PhraseVoice.Rate,
			PhrasePitch: session.DefaultSpeech.PhraseVoice.Pitch,
		},
		LogLevel: logLevel,
		LogPath:  config.DefaultLogPath(),
	}
	setFloat(&cfg.Speech.WordRate, fileCfg.Speech.WordRate)
	setFloat(&cfg.Speech.WordPitch, fileCfg.Speech.WordPitch)
	setString(&cfg.Speech.Phrase, fileCfg.Speech.Phrase)
	setFloat(&cfg.Speech.PhraseRate, fileCfg.Speech.PhraseRate)
	setFloat(&cfg.Speech.PhrasePitch, fileCfg.Speech.PhrasePitch)
	setString(&cfg.LogPath, fileCfg.Log.Path)

	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tag, err := language.Parse(cfg.Lang)
	if err != nil {
		return fmt.Errorf("invalid --lang value: %w", err)
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		if serr := logger.Sync(); serr != nil {
			// Best-effort flush of the log file.
			_ = serr
		}
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	provider := wordlist.NewProvider(st)
	list, err := provider.Get(ctx, cfg.List)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	lists, err := provider.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load word lists: %w", err)
	}

	var (
		speaker session.Speaker
		player  *speech.Player
		notice  string
	)
	if cfg.Speech.Enabled {
		player, err = speech.NewCommandPlayer(speech.Config{
			Command: cfg.Speech.Command,
			Voice:   cfg.Speech.Voice,
			Lang:    tag.String(),
		}, logger)
		if err != nil {
			logger.Warn("speech disabled", zap.Error(err))
			notice = "speech unavailable, words are shown instead"
		} else {
			speaker = player
			defer player.Close()
		}
	}

	sched := scheduler.New()
	if cfg.Seed != 0 {
		sched = scheduler.NewWithSource(rand.NewSource(cfg.Seed))
	}
	mode := session.ModeFixed
	if cfg.UntilCorrect {
		mode = session.ModeUntilCorrect
	}
	sess, err := session.New(session.Options{
		Words:             list.Entries,
		Ordered:           !list.Random,
		QuestionsPerRound: cfg.Questions,
		Mode:              mode,
		Analyzer:          feedback.New(tag),
		Scheduler:         sched,
		Speaker:           speaker,
		Speech: &session.SpeechSettings{
			Word:        session.Voice{Rate: cfg.Speech.WordRate, Pitch: cfg.Speech.WordPitch},
			Phrase:      cfg.Speech.Phrase,
			PhraseVoice: session.Voice{Rate: cfg.Speech.PhraseRate, Pitch: cfg.Speech.PhrasePitch},
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	logger.Info("session started",
		zap.String("session", sess.ID()),
		zap.String("list", list.Name),
		zap.Bool("speech", player != nil))

	ui := tui.NewModel(sess, lists, tui.Settings{
		List:         list.Name,
		Questions:    cfg.Questions,
		UntilCorrect: cfg.UntilCorrect,
		ShowWord:     player == nil,
	}, logger)
	ui.SetNotice(notice)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if player != nil {
		player.OnChange(func(speaking bool) {
			program.Send(tui.SpeakingMsg(speaking))
		})
	}
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	snap := sess.Snapshot()
	logger.Info("session ended",
		zap.String("session", snap.ID),
		zap.Int("questions", snap.TotalQuestions),
		zap.Int("correct", snap.TotalCorrect))
	return stats.RenderSummary(cmd.OutOrStdout(), snap)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# dictee configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# list = %q   # Word list (see: dictee lists)
# questions = %d                     # Questions per round (1-100)
# until-correct = false              # Repeat until every word is spelled correctly
# lang = %q                        # Language for case folding and speech
# seed = 0                           # Shuffle seed, 0 picks a random seed

[speech]
# enabled = true                     # Pronounce words
# command = ""                       # espeak-ng, espeak, spd-say or say
# voice = ""                         # Voice passed to the command
# word-rate = %.2f                   # Speed of words (1.0 is normal)
# word-pitch = %.2f                  # Pitch of words (1.0 is normal)
# phrase = %q            # Said when a round is complete
# phrase-rate = %.2f
# phrase-pitch = %.2f

[log]
# level = "info"                     # debug, info, warn or error
# path = %q
`,
		wordlist.DefaultList,
		defaultQuestions,
		defaultLang,
		session.DefaultSpeech.Word.Rate,
		session.DefaultSpeech.Word.Pitch,
		session.DefaultSpeech.Phrase,
		session.DefaultSpeech.PhraseVoice.Rate,
		session.DefaultSpeech.PhraseVoice.Pitch,
		config.DefaultLogPath(),
	)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("flag"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

func validateConfig(cfg model.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("--%s %s", fe.Field(), describeRule(fe))
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min", "gte":
		return "must be >= " + fe.Param()
	case "max", "lte":
		return "must be <= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "is invalid"
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
