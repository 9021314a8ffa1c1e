package ui

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens value to limit display cells, adding an ellipsis.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit == 1 {
		return runewidth.Truncate(value, 1, "")
	}
	return runewidth.Truncate(value, limit, "…")
}

// truncateMiddle keeps both ends of value, which suits file paths.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 5 {
		return runewidth.Truncate(value, limit, "")
	}
	// Keep more of the end (file name) than the start.
	keep := limit - 1
	tail := keep * 2 / 3
	head := keep - tail
	runes := []rune(value)
	suffix := ""
	for i := len(runes) - 1; i >= 0; i-- {
		next := string(runes[i]) + suffix
		if runewidth.StringWidth(next) > tail {
			break
		}
		suffix = next
	}
	return runewidth.Truncate(value, head, "") + "…" + suffix
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.FillRight(s, width)
}

// titleCase upper-cases the first letter of each underscore or space
// separated word.
func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == '_' || r == ' ' })
	for i, part := range parts {
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a title into a URL slug: lowercase ASCII words joined by
// dashes.
func slugify(title string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
