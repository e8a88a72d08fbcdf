// ABOUTME: Tests for index command structure and flags
// ABOUTME: Verifies flag defaults and argument validation

package commands

import (
	"testing"
)

func TestNewIndexCmd(t *testing.T) {
	cmd := NewIndexCmd()

	if cmd.Use != "index <repo-dir>" {
		t.Errorf("Use = %q, want %q", cmd.Use, "index <repo-dir>")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestIndexCmd_Flags(t *testing.T) {
	cmd := NewIndexCmd()

	tests := []struct {
		flagName string
		defValue string
	}{
		{"repo", ""},
		{"replace", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestIndexCmd_RequiresDir(t *testing.T) {
	cmd := NewIndexCmd()

	if cmd.Args == nil {
		t.Fatal("Args validator should be set")
	}

	if err := cmd.Args(cmd, []string{}); err == nil {
		t.Error("Args() should reject zero arguments")
	}
	if err := cmd.Args(cmd, []string{"./src"}); err != nil {
		t.Errorf("Args() should accept one argument, got %v", err)
	}
}
