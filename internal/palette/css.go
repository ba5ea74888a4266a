package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned for colour strings ParseCSS does not understand
var ErrInvalidColor = errors.New("invalid color")

// RGB is an 8-bit colour
type RGB struct {
	R, G, B uint8
}

// Hex renders the colour as #RRGGBB
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseCSS parses the colour notations found in configurations:
// #rgb, #rrggbb, rgb()/rgba() and hsl()/hsla() in comma or space syntax.
// Alpha is accepted and ignored.
func ParseCSS(s string) (RGB, error) {
	v := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:], s)
	case strings.HasPrefix(v, "hsl"):
		args, err := functionArgs(v, s)
		if err != nil {
			return RGB{}, err
		}
		h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
		if err != nil {
			return RGB{}, fmt.Errorf("%w %q: hue", ErrInvalidColor, s)
		}
		sat, err := percent(args[1])
		if err != nil {
			return RGB{}, fmt.Errorf("%w %q: saturation", ErrInvalidColor, s)
		}
		light, err := percent(args[2])
		if err != nil {
			return RGB{}, fmt.Errorf("%w %q: lightness", ErrInvalidColor, s)
		}
		return HSL{H: h, S: sat, L: light}.RGB(), nil
	case strings.HasPrefix(v, "rgb"):
		args, err := functionArgs(v, s)
		if err != nil {
			return RGB{}, err
		}
		var out [3]uint8
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 || n > 255 {
				return RGB{}, fmt.Errorf("%w %q: channel %d", ErrInvalidColor, s, i)
			}
			out[i] = uint8(n)
		}
		return RGB{R: out[0], G: out[1], B: out[2]}, nil
	}

	return RGB{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
}

func functionArgs(v, orig string) ([]string, error) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return nil, fmt.Errorf("%w %q", ErrInvalidColor, orig)
	}
	inner := v[open+1 : len(v)-1]
	inner = strings.NewReplacer(",", " ", "/", " ").Replace(inner)
	args := strings.Fields(inner)
	if len(args) < 3 {
		return nil, fmt.Errorf("%w %q: expected 3 components", ErrInvalidColor, orig)
	}
	return args, nil
}

func percent(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}

func parseHex(h, orig string) (RGB, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("%w %q", ErrInvalidColor, orig)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w %q", ErrInvalidColor, orig)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}
