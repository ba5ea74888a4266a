package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultWarning is shown when a link cannot be decoded
const DefaultWarning = "配置不正确，请检查链接是否完整，此次使用默认配置！"

var (
	// ErrInvalidToken wraps every decode failure
	ErrInvalidToken = errors.New("invalid config token")
	// ErrEmptyToken is returned for a missing token
	ErrEmptyToken = fmt.Errorf("%w: empty", ErrInvalidToken)
)

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// Encode serialises cfg as base64 of its UTF-8 JSON
func Encode(cfg *AppConfig) (string, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Link appends the encoded config to base as a URL fragment
func Link(base string, cfg *AppConfig) (string, error) {
	token, err := Encode(cfg)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + token, nil
}

// Decode parses a token. The token is percent-decoded first; the base64
// form is tried before falling back to reading the text as plain JSON.
func Decode(token string) (*AppConfig, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(token), "#")
	if raw == "" {
		return nil, ErrEmptyToken
	}

	text, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	jsonText := text
	if decoded, ok := decodeBase64(text); ok {
		jsonText = decoded
	}

	var cfg AppConfig
	if err := json.Unmarshal([]byte(jsonText), &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &cfg, nil
}

// decodeBase64 accepts any common base64 alphabet. Spaces are read as '+'
// because form posting and some chat clients turn '+' into a space.
func decodeBase64(s string) (string, bool) {
	s = strings.ReplaceAll(s, " ", "+")
	for _, enc := range base64Encodings {
		b, err := enc.DecodeString(s)
		if err != nil {
			continue
		}
		if !utf8.Valid(b) {
			return "", false
		}
		return string(b), true
	}
	return "", false
}

// Result is the outcome of Load
type Result struct {
	Config *AppConfig
	// Defaulted is set when the token was unusable and Config is Default
	Defaulted bool
	Warning   string
	Err       error
}

// Load decodes token and falls back to Default(now) with a warning when
// that fails. It never returns a nil Config.
func Load(token string, now time.Time) Result {
	cfg, err := Decode(token)
	if err == nil {
		return Result{Config: cfg}
	}
	return Result{
		Config:    Default(now),
		Defaulted: true,
		Warning:   DefaultWarning,
		Err:       err,
	}
}
