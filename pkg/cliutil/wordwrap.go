package cliutil

import (
	"strings"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// Wrap the string `s` to a maximum width `w` with leading indent `i`.  The first line is not
// indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

const (
	wrapSlop     = 5
	wrapMinWidth = 24
	wrapFallback = 16
)

// wrapLine splits off the first line of `s`, breaking at the last whitespace before `width`.
// If the whole of `s` fits within `width+slop`, it is returned as-is.
func wrapLine(width, slop int, s string) (line, rest string) {
	if width+slop > len(s) {
		return s, ""
	}
	sp := strings.LastIndexAny(s[:width], " \t\n")
	if sp <= 0 {
		return s, ""
	}
	if nl := strings.LastIndex(s[:width], "\n"); nl > 0 && nl < sp {
		return s[:nl], s[nl+1:]
	}
	return s[:sp], s[sp+1:]
}

func wrap(i, w int, s string) string {
	indent := func(str string) string {
		return strings.ReplaceAll(str, "\n", "\n"+strings.Repeat(" ", i))
	}
	if w == 0 {
		return indent(s)
	}

	var ret strings.Builder
	width := w - i
	if width < wrapMinWidth {
		// Too narrow next to the indent; start a new line with a smaller indent.
		i = wrapFallback
		width = w - i
		ret.WriteString("\n" + strings.Repeat(" ", i))
	}
	if width < wrapMinWidth {
		ret.WriteString(indent(s))
		return ret.String()
	}
	width -= wrapSlop

	line, s := wrapLine(width, wrapSlop, s)
	ret.WriteString(indent(line))
	for s != "" {
		line, s = wrapLine(width, wrapSlop, s)
		ret.WriteString("\n" + strings.Repeat(" ", i) + indent(line))
	}
	return ret.String()
}
