package natsgath

import (
	"strings"
)

// trimStrToRect keeps at most maxHeight lines of at most maxWidth runes,
// marking every cut with "[...]".
func trimStrToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	cut := len(lines) > maxHeight
	if cut {
		lines = lines[:maxHeight]
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if r := []rune(line); len(r) > maxWidth {
			b.WriteString(string(r[:maxWidth]))
			b.WriteString("[...]")
		} else {
			b.WriteString(line)
		}
	}
	if cut {
		b.WriteString("\n[...]")
	}
	return b.String()
}
