package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const resetStyle = "\x1b[0m"

// PlaceOverlay draws fg on top of bg with fg's top-left corner at column x,
// row y. Both may contain ANSI styling. Rows of fg that fall below bg are
// dropped; bg lines shorter than x are padded with spaces.
func PlaceOverlay(x, y int, fg, bg string) string {
	x, y = max(0, x), max(0, y)
	bgLines := strings.Split(bg, "\n")
	for i, line := range strings.Split(fg, "\n") {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		under := bgLines[row]
		w := ansi.StringWidth(line)

		left := ansi.Truncate(under, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ""
		if ansi.StringWidth(under) > x+w {
			right = ansi.TruncateLeft(under, x+w, "")
		}
		bgLines[row] = left + resetStyle + line + resetStyle + right
	}
	return strings.Join(bgLines, "\n")
}

// CenterOverlay places fg in the middle of a width x height bg.
func CenterOverlay(fg, bg string, width, height int) string {
	x := (width - ansi.StringWidth(firstLine(fg))) / 2
	y := (height - strings.Count(fg, "\n") - 1) / 2
	return PlaceOverlay(x, y, fg, bg)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
