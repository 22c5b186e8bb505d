package resolve

import (
	"strings"

	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/worddetect"
)

// BuildMask implements spec.md §4.6 exactly: a separator-ending prefix
// masks everything ("%"); a separator followed by a trailing name masks
// that last segment; a prefix with no separator masks itself. When
// searchInsideNames is set, the mask is additionally wrapped in "%" on
// both sides (an empty prefix becomes "%" alone either way).
func BuildMask(prefix string, d dialect.Dialect, searchInsideNames bool) string {
	var name string
	switch {
	case prefix == "":
		name = ""
	case strings.HasSuffix(prefix, string(d.StructSeparator())):
		name = ""
	case worddetect.ContainsSeparator(prefix, d):
		segments := worddetect.SplitIdentifier(prefix, d)
		name = worddetect.RemoveQuotes(segments[len(segments)-1], d)
	default:
		name = worddetect.RemoveQuotes(prefix, d)
	}

	if name == "" {
		return "%"
	}
	if searchInsideNames {
		return "%" + name + "%"
	}
	return name + "%"
}
