package timetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSlotKey is returned by ParseSlotKey for malformed keys
var ErrInvalidSlotKey = errors.New("invalid slot key")

// SlotKey identifies one schedule slot. All indexes are 0-based and
// Day 0 is Monday.
type SlotKey struct {
	Day     int
	Section int
	Period  int
}

// String returns the "d-s-p" text form
func (k SlotKey) String() string {
	return fmt.Sprintf("%d-%d-%d", k.Day, k.Section, k.Period)
}

// Less orders keys by day, then section, then period
func (k SlotKey) Less(o SlotKey) bool {
	if k.Day != o.Day {
		return k.Day < o.Day
	}
	if k.Section != o.Section {
		return k.Section < o.Section
	}
	return k.Period < o.Period
}

// ParseSlotKey parses "d-s-p"
func ParseSlotKey(s string) (SlotKey, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return SlotKey{}, fmt.Errorf("%w %q", ErrInvalidSlotKey, s)
	}

	var n [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return SlotKey{}, fmt.Errorf("%w %q", ErrInvalidSlotKey, s)
		}
		n[i] = v
	}
	if n[0] > 6 {
		return SlotKey{}, fmt.Errorf("%w %q: weekday out of range", ErrInvalidSlotKey, s)
	}

	return SlotKey{Day: n[0], Section: n[1], Period: n[2]}, nil
}

// MarshalText implements encoding.TextMarshaler so Cells serialise as a JSON object
func (k SlotKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *SlotKey) UnmarshalText(b []byte) error {
	parsed, err := ParseSlotKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
