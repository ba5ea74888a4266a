package palette

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestHash32(t *testing.T) {
	tests := []struct {
		input string
		want  uint32
	}{
		{input: "", want: 2166136261},
		{input: "a", want: 3826002220},
		{input: "数学|六(1)班", want: 2377486665},
	}

	for _, tt := range tests {
		if got := Hash32(tt.input); got != tt.want {
			t.Errorf("Hash32(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestHashPastel_KnownValues(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{parts: []string{"A", "B"}, want: "hsl(119, 32%, 88%)"},
		{parts: []string{"数学", "六(1)班"}, want: "hsl(354, 40%, 90%)"},
		{parts: []string{"数学", "六(2)班"}, want: "hsl(2, 32%, 90%)"},
		{parts: []string{"校本课程(数)", "六(1)班"}, want: "hsl(356, 32%, 90%)"},
		{parts: []string{"A"}, want: "hsl(358, 28%, 90%)"},
		{parts: []string{"x"}, want: "hsl(360, 28%, 92%)"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.parts), func(t *testing.T) {
			if got := HashPastel(tt.parts...).String(); got != tt.want {
				t.Errorf("HashPastel(%q) = %s, want %s", tt.parts, got, tt.want)
			}
		})
	}
}

func TestHashPastel_Deterministic(t *testing.T) {
	first := HashPastel("A", "B").String()
	second := HashPastel("A", "B").String()
	if first != second {
		t.Errorf("HashPastel(A, B) = %s then %s, want identical", first, second)
	}

	if HashPastel("A", "B") == HashPastel("B", "A") {
		t.Errorf("HashPastel is expected to be order sensitive")
	}
}

func TestHashPastel_Distinct(t *testing.T) {
	seen := make(map[string]struct{})
	bands := make(map[int]struct{})
	sats := make(map[float64]struct{})
	lights := make(map[float64]struct{})
	for i := 0; i < 50; i++ {
		c := HashPastel(fmt.Sprintf("course-%d", i))
		seen[c.String()] = struct{}{}
		// hues sit within hueJitter/2 of a band centre
		bands[int(math.Floor((c.H+hueJitter/2)/(360/hueBuckets)))%hueBuckets] = struct{}{}
		sats[c.S] = struct{}{}
		lights[c.L] = struct{}{}
	}
	if len(seen) < 45 {
		t.Errorf("HashPastel produced %d distinct colours for 50 keys, want >= 45", len(seen))
	}
	if len(bands) != hueBuckets {
		t.Errorf("HashPastel hues cover %d bands, want %d", len(bands), hueBuckets)
	}
	if len(sats) != len(saturationLevels) {
		t.Errorf("HashPastel used %d saturation levels, want %d", len(sats), len(saturationLevels))
	}
	if len(lights) != len(lightnessLevels) {
		t.Errorf("HashPastel used %d lightness levels, want %d", len(lights), len(lightnessLevels))
	}
}

func TestHashPastel_Ranges(t *testing.T) {
	for i := 0; i < 200; i++ {
		c := HashPastel(fmt.Sprint(i))
		if c.H < 0 || c.H >= 360 {
			t.Fatalf("hue %v out of [0, 360)", c.H)
		}
		if c.S < 28 || c.S > 40 {
			t.Fatalf("saturation %v out of level set", c.S)
		}
		if c.L < 88 || c.L > 92 {
			t.Fatalf("lightness %v out of level set", c.L)
		}
	}
}

func TestAssignByFrequency(t *testing.T) {
	// slot order: 1-0-0, 1-0-1, 1-0-2, 2-0-2, 2-1-0, 2-1-2, 2-1-3, 3-0-2, 3-0-3, 4-0-0, 4-0-3, 4-1-0
	keys := []string{
		"数学六(2)班", "数学六(1)班", "数学六(2)班",
		"数学六(2)班", "数学六(1)班", "数学六(2)班", "校本课程(数)六(1)班",
		"数学六(2)班", "数学六(1)班",
		"数学六(1)班", "数学六(1)班", "校本课程(数)六(2)班",
	}

	got := AssignByFrequency(keys, DefaultPalette)

	want := map[string]string{
		"校本课程(数)六(1)班": "hsl(  0 65% 86%)",
		"校本课程(数)六(2)班": "hsl( 30 65% 86%)",
		"数学六(2)班":       "hsl( 60 60% 86%)",
		"数学六(1)班":       "hsl( 90 55% 86%)",
	}

	if len(got) != len(want) {
		t.Fatalf("AssignByFrequency() returned %d keys, want %d", len(got), len(want))
	}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("AssignByFrequency()[%q] = %q, want %q", k, got[k], w)
		}
	}
}

func TestAssignByFrequency_Wraps(t *testing.T) {
	colors := []string{"red", "green"}
	got := AssignByFrequency([]string{"a", "b", "c"}, colors)

	if got["a"] != "red" || got["b"] != "green" || got["c"] != "red" {
		t.Errorf("AssignByFrequency() = %v, want palette to wrap", got)
	}

	if empty := AssignByFrequency([]string{"a"}, nil); len(empty) != 0 {
		t.Errorf("AssignByFrequency() with empty palette = %v, want empty", empty)
	}
}

func TestParseCSS(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "#4472C4", want: "#4472C4"},
		{input: "#abc", want: "#AABBCC"},
		{input: "hsl(0, 100%, 50%)", want: "#FF0000"},
		{input: "hsl(120 100% 25%)", want: "#008000"},
		{input: "hsl(210 60% 86%)", want: "#C6DBF1"},
		{input: "hsl(  0 65% 86%)", want: "#F3C4C4"},
		{input: "hsla(0, 66%, 86%, 0.9)", want: "#F3C4C4"},
		{input: "rgb(1, 2, 3)", want: "#010203"},
		{input: "papayawhip", wantErr: true},
		{input: "#12", wantErr: true},
		{input: "hsl(1, 2%)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCSS(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("ParseCSS(%q) error = %v, want ErrInvalidColor", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCSS(%q) unexpected error: %v", tt.input, err)
			}
			if got.Hex() != tt.want {
				t.Errorf("ParseCSS(%q) = %s, want %s", tt.input, got.Hex(), tt.want)
			}
		})
	}
}
