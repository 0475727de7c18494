package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

var (
	unicodeOnce sync.Once
	unicodeOK   bool
)

// UnicodeTerminal reports whether the terminal is likely to render
// unicode glyphs. Checks that stdout is a TTY and the locale advertises
// UTF-8. The result is cached for the lifetime of the process.
func UnicodeTerminal() bool {
	unicodeOnce.Do(func() {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			unicodeOK = false
			return
		}
		for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
			if v := os.Getenv(env); v != "" {
				unicodeOK = strings.Contains(strings.ToUpper(v), "UTF-8") ||
					strings.Contains(strings.ToUpper(v), "UTF8")
				return
			}
		}
		unicodeOK = false
	})
	return unicodeOK
}

// Icon returns a unicode glyph when the terminal supports it, otherwise
// the ASCII fallback.
func Icon(unicode, ascii string) string {
	if UnicodeTerminal() {
		return unicode
	}
	return ascii
}

// SanitizeString strips control characters that could corrupt terminal
// state when echoing externally-sourced strings (scanner names, finding
// descriptions). Tabs are preserved.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// Sanitizef formats and sanitizes in one step.
func Sanitizef(format string, args ...any) string {
	return SanitizeString(fmt.Sprintf(format, args...))
}
