package main

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/username/teaching-board/internal/sharelink"
)

func TestTokenFromArg(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"eyJhIjoxfQ==", "eyJhIjoxfQ=="},
		{"  eyJhIjoxfQ==\n", "eyJhIjoxfQ=="},
		{"https://board.example.org/#eyJhIjoxfQ==", "eyJhIjoxfQ=="},
		{"http://localhost:8080/?c=eyJhIjoxfQ%3D%3D", "eyJhIjoxfQ=="},
		{"", ""},
		{`{"color":"#ffaaaa"}`, `{"color":"#ffaaaa"}`},
		{"%7B%22color%22%3A%22%23ffaaaa%22%7D", "%7B%22color%22%3A%22%23ffaaaa%22%7D"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := tokenFromArg(tt.input); got != tt.want {
				t.Errorf("tokenFromArg(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenFromArg_PlainJSONWithColour(t *testing.T) {
	appCfg := sharelink.Default(time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local))
	appCfg.Course[0].Color = "#ffaaaa"
	data, err := json.Marshal(appCfg)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	raw := string(data)

	for _, input := range []string{raw, url.PathEscape(raw)} {
		cfg, err := sharelink.Decode(tokenFromArg(input))
		if err != nil {
			t.Fatalf("Decode(tokenFromArg(%.40q...)) error: %v", input, err)
		}
		if got := cfg.Course[0].Color; got != "#ffaaaa" {
			t.Errorf("Decode() course colour = %q, want #ffaaaa", got)
		}
	}
}

func TestParseNow(t *testing.T) {
	got, err := parseNow("2025-09-09T20:00")
	if err != nil {
		t.Fatalf("parseNow() error: %v", err)
	}
	if got.Hour() != 20 || got.Day() != 9 {
		t.Errorf("parseNow() = %v", got)
	}

	if _, err := parseNow("2025-09-09 20:00"); err == nil {
		t.Error("parseNow() with a space = nil error")
	}
}
