package palette

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/username/teaching-board/pkg/random"
)

const (
	fnvOffset32 = 0x811c9dc5
	fnvPrime32  = 0x01000193

	hueBuckets = 3
	hueJitter  = 12.0

	// KeySeparator joins the parts of a hash colour key
	KeySeparator = "|"
)

var (
	saturationLevels = []int{28, 32, 36, 40}
	lightnessLevels  = []int{88, 90, 92}
)

// DefaultPalette is the fixed pastel palette cycled by AssignByFrequency
var DefaultPalette = []string{
	"hsl(  0 65% 86%)",
	"hsl( 30 65% 86%)",
	"hsl( 60 60% 86%)",
	"hsl( 90 55% 86%)",
	"hsl(120 55% 86%)",
	"hsl(150 55% 86%)",
	"hsl(180 55% 86%)",
	"hsl(210 60% 86%)",
	"hsl(240 60% 88%)",
	"hsl(270 60% 88%)",
	"hsl(300 60% 88%)",
	"hsl(330 65% 88%)",
}

// HSL is a colour in hue (degrees), saturation and lightness (percent)
type HSL struct {
	H float64
	S float64
	L float64
}

// String renders the colour as a CSS hsl() value with rounded components
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", roundHalfUp(c.H), roundHalfUp(c.S), roundHalfUp(c.L))
}

// RGB converts the colour to 8-bit RGB
func (c HSL) RGB() RGB {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	s := clamp01(c.S / 100)
	l := clamp01(c.L / 100)

	chroma := (1 - math.Abs(2*l-1)) * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - chroma/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return RGB{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
	}
}

// Hash32 is FNV-1a over the UTF-16 code units of s, so keys hash the same
// way they do in the browser viewer.
func Hash32(s string) uint32 {
	h := uint32(fnvOffset32)
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return h
}

// HashPastel derives a stable light colour from the ordered key parts.
// Hue falls into one of three equally spaced bands with a small jitter;
// saturation and lightness come from small discrete level sets so dark
// text stays readable on top.
func HashPastel(parts ...string) HSL {
	h := Hash32(strings.Join(parts, KeySeparator))
	rng := random.NewMulberry32(h)

	bucket := float64(h % hueBuckets)
	jitter := rng.Jitter(hueJitter)
	hue := math.Mod(bucket*(360/hueBuckets)+jitter+360, 360)

	return HSL{
		H: hue,
		S: float64(random.Pick(rng, saturationLevels)),
		L: float64(random.Pick(rng, lightnessLevels)),
	}
}

// FrequencyKey is the composite key colours are grouped by
func FrequencyKey(course, className string) string {
	return course + className
}

// AssignByFrequency maps every distinct key in keys to a palette colour.
// Keys are ordered by ascending occurrence count, ties keep the order of
// first appearance, and the palette wraps around when keys outnumber colours.
func AssignByFrequency(keys []string, colors []string) map[string]string {
	out := make(map[string]string)
	if len(colors) == 0 {
		return out
	}

	counts := make(map[string]int)
	var order []string
	for _, k := range keys {
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] < counts[order[j]]
	})

	for i, k := range order {
		out[k] = colors[i%len(colors)]
	}
	return out
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
