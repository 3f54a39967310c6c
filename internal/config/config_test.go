package config

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback time.Duration
		want     time.Duration
	}{
		{"valid seconds", "30s", time.Minute, 30 * time.Second},
		{"valid hours", "168h", time.Minute, 168 * time.Hour},
		{"garbage keeps own fallback", "thirty", 30 * time.Second, 30 * time.Second},
		{"empty keeps own fallback", "", 15 * time.Minute, 15 * time.Minute},
		{"bare number rejected", "30", 30 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDuration(tt.input, tt.fallback); got != tt.want {
				t.Errorf("parseDuration(%q, %v) = %v, want %v", tt.input, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestParseIntAndFloat(t *testing.T) {
	if got := parseInt("8", 20); got != 8 {
		t.Errorf("parseInt(8) = %d, want 8", got)
	}
	if got := parseInt("eight", 20); got != 20 {
		t.Errorf("parseInt(eight) = %d, want fallback 20", got)
	}
	if got := parseFloat("250.5", 0); got != 250.5 {
		t.Errorf("parseFloat(250.5) = %v, want 250.5", got)
	}
	if got := parseFloat("", 250); got != 250 {
		t.Errorf("parseFloat(empty) = %v, want fallback 250", got)
	}
}
