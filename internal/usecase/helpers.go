package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/semmidev/rowvault/internal/domain"
)

// Columns tried in order when naming a row's JSON file. The first
// non-empty value becomes the filename stem.
var nameColumns = [...]string{"title", "name", "slug", "login", "email", "uid"}

var (
	unsafeChars       = regexp.MustCompile(`[^\w\-.]`)
	repeatUnderscores = regexp.MustCompile(`_+`)
)

// safeFilename sanitizes a value for use as a filename: no path
// separators, no spaces, no repeated underscores.
func safeFilename(value string) string {
	value = strings.TrimSpace(value)
	value = unsafeChars.ReplaceAllString(value, "_")
	value = strings.Trim(repeatUnderscores.ReplaceAllString(value, "_"), "_")
	if value == "" {
		return "unnamed"
	}
	return value
}

// rowStem derives a human-readable, unique filename stem for a row. The
// global index is always prepended so two rows with identical titles
// never collide.
func rowStem(row domain.Row, index int64) string {
	for _, col := range nameColumns {
		val, ok := row.Value(col)
		if !ok || val == nil {
			continue
		}
		str := strings.TrimSpace(fmt.Sprint(val))
		if str != "" {
			return fmt.Sprintf("%d_%s", index, safeFilename(str))
		}
	}
	return fmt.Sprintf("row_%d", index)
}
