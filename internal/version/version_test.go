package version

import (
	"strings"
	"testing"
)

func TestBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{name: "epoch date", date: "2024-01-01", expected: 0},
		{name: "next day after epoch", date: "2024-01-02", expected: 1},
		{name: "leap year", date: "2025-01-01", expected: 366},
		{name: "two years later", date: "2026-01-01", expected: 731},
		{name: "invalid format", date: "01.01.2024", wantError: true},
		{name: "empty date", date: "", wantError: true},
		{name: "before epoch", date: "2023-12-31", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildID(tt.date)

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (id=%d)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("buildID(%q) = %d, want %d", tt.date, got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	old := BuildDate
	defer func() { BuildDate = old }()

	BuildDate = ""
	if s := String(); !strings.HasPrefix(s, Module+" build unknown") {
		t.Errorf("Unexpected string without date: %q", s)
	}

	BuildDate = "2024-01-11"
	if s := String(); !strings.HasPrefix(s, Module+" build 10 (2024-01-11)") {
		t.Errorf("Unexpected string: %q", s)
	}
}
