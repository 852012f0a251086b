package cli

import (
	"fmt"
	"strings"

	"github.com/glyph-dev/glyph/internal/output"
	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return false, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func OptionalIntFlag(cmd *cobra.Command, name string, fallback int) (int, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return fallback, nil
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// ParseOutputFormat reads --format; --json wins when set.
func ParseOutputFormat(cmd *cobra.Command) (output.Format, error) {
	asJSON, err := OptionalBoolFlag(cmd, "json")
	if err != nil {
		return "", err
	}
	if asJSON {
		return output.FormatJSON, nil
	}
	value, err := OptionalStringFlag(cmd, "format")
	if err != nil {
		return "", err
	}
	return output.ParseFormat(value)
}
