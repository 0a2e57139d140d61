package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/charmbracelet/lipgloss"
)

var (
	hexColor     = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	indexedColor = regexp.MustCompile(`^color\(\s*(\d{1,3})\s*\)$`)
	rgbColor     = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
)

// ParseColor converts a document color into a lipgloss color. Accepted
// forms are "#rgb", "#rrggbb", a palette index "0" to "255", "color(n)",
// "rgb(r,g,b)", the named palette colors ("red", "orange1",
// "deep_sky_blue1", ...) and "default".
func ParseColor(s string) (lipgloss.TerminalColor, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "default" {
		return lipgloss.NoColor{}, nil
	}

	if idx, ok := namedColors[name]; ok {
		return lipgloss.Color(strconv.Itoa(idx)), nil
	}
	if hexColor.MatchString(name) {
		return lipgloss.Color(name), nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		return paletteColor(s, n)
	}
	if m := indexedColor.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		return paletteColor(s, n)
	}
	if m := rgbColor.FindStringSubmatch(name); m != nil {
		var rgb [3]int
		for i := range rgb {
			rgb[i], _ = strconv.Atoi(m[i+1])
			if rgb[i] > 255 {
				return nil, badColor(s)
			}
		}
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])), nil
	}
	return nil, badColor(s)
}

func paletteColor(raw string, n int) (lipgloss.TerminalColor, error) {
	if n < 0 || n > 255 {
		return nil, badColor(raw)
	}
	return lipgloss.Color(strconv.Itoa(n)), nil
}

func badColor(raw string) error {
	return errors.Newf(errors.ErrInvalidDocument, "unknown color %q", raw).
		WithDetail(errors.DetailStyle, raw)
}
