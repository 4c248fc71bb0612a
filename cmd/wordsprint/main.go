// Package main provides the CLI entrypoint for wordsprint.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordsprint/internal/config"
	"github.com/verte-zerg/wordsprint/internal/logging"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/stats"
	"github.com/verte-zerg/wordsprint/internal/tui"
	"github.com/verte-zerg/wordsprint/internal/wordlist"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordsprint",
		Short:         "Timed typing speed test",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrialCmd,
	}
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func runTrialCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closer := openLogger(cfg)
	defer func() {
		if closer == nil {
			return
		}
		if cerr := closer.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()
	logger = logging.Component(logger, "trial")

	opts := wordlist.Options{}
	if cfg.ASCIIOnly {
		opts.Filter = wordlist.FilterASCII()
	}
	source, loadErr := wordlist.Load(cfg.WordListPath, opts)
	logger.Info().
		Str("wordlist", cfg.WordListPath).
		Int("words", source.Len()).
		Bool("fallback", source.Fallback()).
		Msg("word list loaded")

	m := tui.NewModel(source, cfg, logger)
	if loadErr != nil {
		m.Warn(wordListWarning(loadErr))
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	results := m.Results()
	if len(results) == 0 {
		return nil
	}
	if err := stats.RenderSummary(cmd.OutOrStdout(), results, stats.TerminalWidth(os.Stdout)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func loadConfig() (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Resolve(fileCfg)
	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// openLogger falls back to a stderr console logger when the log file cannot be opened.
func openLogger(cfg model.Config) (zerolog.Logger, io.Closer) {
	logger, closer, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err == nil {
		return logger, closer
	}
	console, cerr := logging.NewConsole(os.Stderr, cfg.LogLevel)
	if cerr != nil {
		return zerolog.Nop(), nil
	}
	console.Warn().Err(err).Str("path", cfg.LogPath).Msg("logging to stderr")
	return console, nil
}

func wordListWarning(err error) error {
	var loadErr *wordlist.LoadError
	if !errors.As(err, &loadErr) {
		return err
	}
	reason := "unreadable"
	switch {
	case errors.Is(loadErr.Err, os.ErrNotExist):
		reason = "not found"
	case errors.Is(loadErr.Err, wordlist.ErrEmpty):
		reason = "empty"
	}
	return fmt.Errorf("word list %s (%s); using %q. Set trial.wordlist in %s",
		reason, loadErr.Path, wordlist.DefaultWord, config.DefaultConfigPath())
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
	if err := ensureConfigFile(path); err != nil {
		return err
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

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
