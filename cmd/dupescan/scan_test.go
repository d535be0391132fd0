package main

import (
	"testing"

	"github.com/spf13/viper"
)

func TestResolveRoots(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	t.Run("explicit args", func(t *testing.T) {
		roots, err := resolveRoots([]string{"/a", "/b"})
		if err != nil {
			t.Fatalf("resolveRoots error = %v", err)
		}
		if len(roots) != 2 || roots[0] != "/a" || roots[1] != "/b" {
			t.Errorf("roots = %v, want [/a /b]", roots)
		}
	})

	t.Run("tilde expansion", func(t *testing.T) {
		roots, err := resolveRoots([]string{"~/data"})
		if err != nil {
			t.Fatalf("resolveRoots error = %v", err)
		}
		if roots[0] != "/home/tester/data" {
			t.Errorf("roots[0] = %q, want /home/tester/data", roots[0])
		}
	})

	t.Run("falls back to configured default", func(t *testing.T) {
		viper.Set("default_path", "/configured")
		defer viper.Set("default_path", "")

		roots, err := resolveRoots(nil)
		if err != nil {
			t.Fatalf("resolveRoots error = %v", err)
		}
		if len(roots) != 1 || roots[0] != "/configured" {
			t.Errorf("roots = %v, want [/configured]", roots)
		}
	})
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "shorter than max", input: "abc", maxLen: 10, want: "abc"},
		{name: "exactly max", input: "abcdefghij", maxLen: 10, want: "abcdefghij"},
		{name: "truncated", input: "abcdefghijk", maxLen: 10, want: "abcdefg..."},
		{name: "tiny max", input: "abcdef", maxLen: 3, want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
