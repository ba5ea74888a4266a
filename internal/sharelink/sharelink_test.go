package sharelink

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/teaching-board/internal/palette"
	"github.com/username/teaching-board/internal/timetable"
)

func sampleConfig() *AppConfig {
	return &AppConfig{
		Calendar: CalendarRange{Start: "2025-09-01", End: "2026-01-31"},
		Course: []Course{
			{Name: "数学", ClassName: "六(1)班", Room: "A101", Color: "hsl(210 60% 86%)", Sections: []string{"1-0-1", "3-0-3"}},
			{Name: "校本课程(数)", ClassName: "六(2)班", Sections: []string{"4-1-0"}, Span: 2},
		},
		CenterImage: "https://example.com/logo.png",
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cfg := sampleConfig()

	token, err := Encode(cfg)
	require.NoError(t, err)
	assert.NotContains(t, token, "数学")

	got, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	got, err = Decode("#" + token)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDecode_Fallbacks(t *testing.T) {
	rawJSON := `{"calendar":{"start":"2025-09-01","end":"2025-12-31"},"course":[{"name":"数学","className":"六(1)班","sections":["1-0-0"]}]}`
	std := base64.StdEncoding.EncodeToString([]byte(rawJSON))

	tests := []struct {
		name  string
		token string
	}{
		{name: "raw json", token: rawJSON},
		{name: "percent encoded json", token: url.PathEscape(rawJSON)},
		{name: "url alphabet", token: base64.RawURLEncoding.EncodeToString([]byte(rawJSON))},
		{name: "plus turned into space", token: strings.ReplaceAll(std, "+", " ")},
		{name: "percent encoded base64", token: url.QueryEscape(std)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode(tt.token)
			require.NoError(t, err)
			assert.Equal(t, "2025-12-31", cfg.Calendar.End)
			require.Len(t, cfg.Course, 1)
			assert.Equal(t, "六(1)班", cfg.Course[0].ClassName)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "hash only", token: "#"},
		{name: "garbage", token: "not a config"},
		{name: "truncated base64", token: base64.StdEncoding.EncodeToString([]byte(`{"calendar":{"start":"2025-09-01"`))},
		{name: "bad date", token: `{"calendar":{"start":"2025/09/01","end":"2025-12-31"}}`},
		{name: "missing end", token: `{"calendar":{"start":"2025-09-01"}}`},
		{name: "start after end", token: `{"calendar":{"start":"2026-01-01","end":"2025-12-31"}}`},
		{name: "span too large", token: `{"calendar":{"start":"2025-09-01","end":"2025-12-31"},"course":[{"name":"x","className":"","sections":[],"span":13}]}`},
		{name: "bad clock", token: `{"calendar":{"start":"2025-09-01","end":"2025-12-31"},"courseSections":[{"title":"上午","periods":[{"start":"8:0","end":"08:40"}]}]}`},
		{name: "overlapping periods", token: `{"calendar":{"start":"2025-09-01","end":"2025-12-31"},"courseSections":[{"title":"上午","periods":[{"start":"08:00","end":"08:40"},{"start":"08:30","end":"09:10"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken), "error %v should wrap ErrInvalidToken", err)
		})
	}
}

func TestDecode_KeepsMalformedSlotKeys(t *testing.T) {
	token := `{"calendar":{"start":"2025-09-01","end":"2025-12-31"},"course":[{"name":"数学","className":"六(1)班","sections":["1-0-0","9-0-0","abc"]}]}`

	cfg, err := Decode(token)
	require.NoError(t, err)

	cells, invalid := cfg.BuildCells()
	assert.Len(t, cells, 1)
	assert.Equal(t, []string{"9-0-0", "abc"}, invalid)
}

func TestLoad(t *testing.T) {
	now := time.Date(2025, 9, 9, 10, 0, 0, 0, time.Local)

	token, err := Encode(sampleConfig())
	require.NoError(t, err)

	res := Load(token, now)
	assert.False(t, res.Defaulted)
	assert.Empty(t, res.Warning)
	assert.NoError(t, res.Err)
	assert.Equal(t, "2025-09-01", res.Config.Calendar.Start)

	res = Load("%%%broken", now)
	assert.True(t, res.Defaulted)
	assert.Equal(t, DefaultWarning, res.Warning)
	assert.ErrorIs(t, res.Err, ErrInvalidToken)
	require.NotNil(t, res.Config)
	assert.Equal(t, "2025-09-09", res.Config.Calendar.Start)
	assert.Equal(t, "2026-09-09", res.Config.Calendar.End)
}

func TestLink(t *testing.T) {
	cfg := sampleConfig()

	link, err := Link("https://board.example.com/app/#stale", cfg)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://board.example.com/app/#"))

	fragment := link[strings.IndexByte(link, '#')+1:]
	got, err := Decode(fragment)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestBuildCells(t *testing.T) {
	cfg := &AppConfig{
		Calendar: CalendarRange{Start: "2025-09-01", End: "2025-12-31"},
		Course: []Course{
			{Name: "数学", ClassName: "六(1)班", Sections: []string{"1-0-0", "1-0-1"}},
			{Name: "语文", ClassName: "六(2)班", Color: "#ffeecc", Sections: []string{"1-0-1"}, Span: 2},
		},
	}

	cells, invalid := cfg.BuildCells()
	assert.Empty(t, invalid)
	require.Len(t, cells, 2)

	first := cells[timetable.SlotKey{Day: 1, Section: 0, Period: 0}]
	assert.Equal(t, "数学", first.Course)
	assert.Equal(t, "hsl(354, 40%, 90%)", first.Color)

	second := cells[timetable.SlotKey{Day: 1, Section: 0, Period: 1}]
	assert.Equal(t, "语文", second.Course, "later entry wins")
	assert.Equal(t, "#ffeecc", second.Color)
	assert.Equal(t, 2, second.Span)
}

func TestDefault(t *testing.T) {
	cfg := Default(time.Date(2025, 2, 14, 23, 59, 0, 0, time.Local))

	assert.Equal(t, "2025-02-14", cfg.Calendar.Start)
	assert.Equal(t, "2026-02-14", cfg.Calendar.End)
	require.NoError(t, Validate(cfg))

	colors := map[string]string{}
	for _, c := range cfg.Course {
		colors[palette.FrequencyKey(c.Name, c.ClassName)] = c.Color
	}
	assert.Equal(t, map[string]string{
		"校本课程(数)六(1)班": "hsl(  0 65% 86%)",
		"校本课程(数)六(2)班": "hsl( 30 65% 86%)",
		"数学六(2)班":       "hsl( 60 60% 86%)",
		"数学六(1)班":       "hsl( 90 55% 86%)",
	}, colors)

	cells, invalid := cfg.BuildCells()
	assert.Empty(t, invalid)
	assert.Len(t, cells, 12)
}

func TestApplyFrequencyColors_KeepsExplicitColors(t *testing.T) {
	cfg := &AppConfig{Course: []Course{
		{Name: "a", Color: "red", Sections: []string{"0-0-0"}},
		{Name: "b", Sections: []string{"0-0-1", "0-0-2"}},
	}}
	cfg.ApplyFrequencyColors([]string{"c0", "c1"})

	assert.Equal(t, "red", cfg.Course[0].Color)
	assert.Equal(t, "c1", cfg.Course[1].Color)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "2025-09-01..2026-01-31, 2 courses, 3 slots", sampleConfig().Summary())
}
