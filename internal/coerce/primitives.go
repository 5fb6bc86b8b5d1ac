package coerce

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/keshon/herald/internal/command"
	"github.com/keshon/herald/internal/permission"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/xhit/go-str2duration/v2"
)

var falsy = map[string]bool{
	"false":     true,
	"0":         true,
	"0n":        true,
	"undefined": true,
	"NaN":       true,
	"":          true,
	"no":        true,
	"off":       true,
}

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

func coerceString(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	if s, ok := first(tokens); ok {
		return s, nil
	}
	return nil, nil
}

func coerceMString(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	return strings.Join(tokens, " "), nil
}

func coerceChar(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	if s == "" {
		return "", nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r), nil
}

// ParseFloat reads the longest numeric prefix of s, ignoring leading
// whitespace. It returns NaN when there is none.
func ParseFloat(s string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN()
	}
	// out of range input yields ±Inf
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

// ParseInt reads the leading base-10 integer of s. The result is a float64
// so that NaN can signal a token with no digits.
func ParseInt(s string) float64 {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN()
	}
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

func coerceFloat(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, _ := first(tokens)
	return ParseFloat(s), nil
}

func coerceInt(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, _ := first(tokens)
	return ParseInt(s), nil
}

func coerceBoolean(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	return !falsy[s], nil
}

// Colors are the named colors accepted by the color argument.
var Colors = map[string]int{
	"DEFAULT":             0x000000,
	"WHITE":               0xffffff,
	"AQUA":                0x1abc9c,
	"GREEN":               0x57f287,
	"BLUE":                0x3498db,
	"YELLOW":              0xfee75c,
	"PURPLE":              0x9b59b6,
	"LUMINOUS_VIVID_PINK": 0xe91e63,
	"FUCHSIA":             0xeb459e,
	"GOLD":                0xf1c40f,
	"ORANGE":              0xe67e22,
	"RED":                 0xed4245,
	"GREY":                0x95a5a6,
	"NAVY":                0x34495e,
	"DARK_AQUA":           0x11806a,
	"DARK_GREEN":          0x1f8b4c,
	"DARK_BLUE":           0x206694,
	"DARK_PURPLE":         0x71368a,
	"DARK_VIVID_PINK":     0xad1457,
	"DARK_GOLD":           0xc27c0e,
	"DARK_ORANGE":         0xa84300,
	"DARK_RED":            0x992d22,
	"DARK_GREY":           0x979c9f,
	"DARKER_GREY":         0x7f8c8d,
	"LIGHT_GREY":          0xbcc0c0,
	"DARK_NAVY":           0x2c3e50,
	"BLURPLE":             0x5865f2,
	"GREYPLE":             0x99aab5,
	"DARK_BUT_NOT_BLACK":  0x2c2f33,
	"NOT_QUITE_BLACK":     0x23272a,
}

// ParseColor resolves a color name, "#rrggbb" or a bare hex number.
func ParseColor(s string) (int, error) {
	name := strings.ToUpper(s)
	if name == "RANDOM" {
		return rand.IntN(0xffffff + 1), nil
	}
	if v, ok := Colors[name]; ok {
		return v, nil
	}
	// "#rgb" is not CSS shorthand here: it falls through to plain hex.
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		if c, err := colorful.Hex(s); err == nil {
			r, g, b := c.RGB255()
			return int(r)<<16 | int(g)<<8 | int(b), nil
		}
	}
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrColorConvert, s)
	}
	if v < 0 || v > 0xffffff {
		return 0, fmt.Errorf("%w: %q", ErrColorRange, s)
	}
	return int(v), nil
}

func coerceColor(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	return ParseColor(s)
}

func coercePermission(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	name := strings.ToUpper(s)
	if !permission.IsFlag(name) {
		return nil, nil
	}
	return name, nil
}

// coerceTime yields the duration in milliseconds.
func coerceTime(_ context.Context, _ *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok {
		return nil, nil
	}
	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return nil, err
	}
	return d.Milliseconds(), nil
}

func coerceCommand(_ context.Context, c *Coercer, tokens []string, _ *command.Invocation) (any, error) {
	s, ok := first(tokens)
	if !ok || c.commands == nil {
		return nil, nil
	}
	if cmd := c.commands.Find(s); cmd != nil {
		return cmd, nil
	}
	return nil, nil
}
