// ABOUTME: Theme compilation from configured widget colors.
// ABOUTME: Compiles each palette exactly once; repeated compilation returns the cached theme.

package surface

import (
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Theme holds the compiled styles a surface paints with. It is the
// terminal analog of the widget's injected stylesheet: built once from the
// configuration and never rebuilt for the same palette.
type Theme struct {
	Primary *color.Color // launcher, header, send affordance
	Bot     *color.Color // assistant bubbles
	User    *color.Color // user bubbles
	Dim     *color.Color // typing placeholder, hints

	// Original hex values, kept for surfaces that render real CSS.
	PrimaryCSS string
	TextCSS    string
}

var (
	themeMu    sync.Mutex
	themeCache = make(map[string]Theme)
)

// CompileTheme builds a Theme for the given primary/text colors. Compiling
// the same palette twice returns the identical cached theme, so mounting a
// surface repeatedly cannot produce duplicate style state.
func CompileTheme(primaryColor, textColor string) Theme {
	key := primaryColor + "|" + textColor

	themeMu.Lock()
	defer themeMu.Unlock()

	if th, ok := themeCache[key]; ok {
		return th
	}

	th := Theme{
		Primary:    color.New(ansiAttr(primaryColor), color.Bold),
		Bot:        color.New(color.FgGreen),
		User:       color.New(color.FgCyan),
		Dim:        color.New(color.Faint),
		PrimaryCSS: primaryColor,
		TextCSS:    textColor,
	}
	themeCache[key] = th
	return th
}

// ansiAttr maps a hex color to the closest basic ANSI foreground color.
// Terminals have no truecolor guarantee, so the mapping is by hue bucket;
// unknown values fall back to blue, the widget's stock primary.
func ansiAttr(hex string) color.Attribute {
	hex = strings.TrimPrefix(strings.ToLower(hex), "#")
	if len(hex) != 6 {
		return color.FgBlue
	}

	r, g, b := nibble(hex[0]), nibble(hex[2]), nibble(hex[4])
	switch {
	case r > g && r > b:
		return color.FgRed
	case g > r && g > b:
		return color.FgGreen
	case b > r && b > g:
		return color.FgBlue
	case r == g && r > b:
		return color.FgYellow
	case g == b && g > r:
		return color.FgCyan
	case r == b && r > g:
		return color.FgMagenta
	default:
		return color.FgWhite
	}
}

func nibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return 0
	}
}
