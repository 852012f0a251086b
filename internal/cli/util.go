package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glyph-dev/glyph/internal/config"
	"github.com/glyph-dev/glyph/internal/crawler"
	"github.com/spf13/cobra"
)

// IgnoreFile holds extra ignore rules, one per line, next to the config.
const IgnoreFile = ".glyphignore"

// settings is the merged view of .glyph.yaml, .glyphignore and flags.
type settings struct {
	Root     string
	Suppress bool
	Ignore   []string
	Debounce time.Duration
}

func resolveRootArg(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	rootPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to access path %q: %w", rootPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", rootPath)
	}
	return rootPath, nil
}

func LoadIgnoreRules(rootPath string) ([]string, error) {
	ignorePath := filepath.Join(rootPath, IgnoreFile)
	f, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IgnoreFile, err)
	}

	return rules, nil
}

func loadSettings(cmd *cobra.Command, rootPath string) (*settings, error) {
	cfg, err := config.Load(rootPath)
	if err != nil {
		return nil, err
	}
	fileRules, err := LoadIgnoreRules(rootPath)
	if err != nil {
		return nil, err
	}

	s := &settings{
		Root:     rootPath,
		Suppress: cfg.SuppressDecisions,
		Ignore:   append(append([]string{}, cfg.Ignore...), fileRules...),
		Debounce: cfg.Debounce(),
	}

	if cmd.Flags().Changed("flat") {
		if s.Suppress, err = OptionalBoolFlag(cmd, "flat"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Lookup("debounce") != nil && cmd.Flags().Changed("debounce") {
		ms, err := OptionalIntFlag(cmd, "debounce", 0)
		if err != nil {
			return nil, err
		}
		if ms <= 0 {
			return nil, fmt.Errorf("--debounce must be positive, got %d", ms)
		}
		s.Debounce = time.Duration(ms) * time.Millisecond
	}
	if cfg.LogLevel != "" && !cmd.Flags().Changed("log-level") {
		if level, err := config.ParseLevel(cfg.LogLevel); err == nil {
			logLevel.Set(level)
		}
	}
	return s, nil
}

func (s *settings) request() crawler.Request {
	return crawler.Request{
		Root:              s.Root,
		SuppressDecisions: s.Suppress,
		Ignore:            s.Ignore,
	}
}

// logLevel is shared by the installed handler so config files can lower or
// raise it after flag parsing.
var logLevel = new(slog.LevelVar)

func setupLogging(cmd *cobra.Command, args []string) error {
	name, err := OptionalStringFlag(cmd, "log-level")
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if name != "" {
		if level, err = config.ParseLevel(name); err != nil {
			return err
		}
	}
	logLevel.Set(level)
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})))
	return nil
}
