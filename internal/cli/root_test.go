package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestCommandsRegistered(t *testing.T) {
	expected := []string{"parse", "col", "read", "records", "write", "append", "insert", "delete", "mcp"}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("command %q not registered on root", name)
		}
	}
}

func TestGetFormatFromCmd(t *testing.T) {
	t.Run("default json when flag missing", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		if got := GetFormatFromCmd(cmd); got != "json" {
			t.Errorf("expected json, got %q", got)
		}
	})

	t.Run("returns flag value", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("format", "csv", "")
		if got := GetFormatFromCmd(cmd); got != "csv" {
			t.Errorf("expected csv, got %q", got)
		}
	})
}
