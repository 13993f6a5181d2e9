// Package slug derives deterministic, filename-safe repository paths from
// post titles and page filenames.
package slug

import (
	"strings"
	"time"
)

const (
	// PostsDir is the repository directory holding post files.
	PostsDir = "posts"
	// PostPrefix marks post filenames inside PostsDir.
	PostPrefix = "_posts_"
	// placeholder is used when a title slugs down to nothing.
	placeholder = "untitled"
)

// Slugify lower-cases the title and collapses every run of characters that
// are neither ASCII alphanumeric nor CJK ideographs into a single hyphen,
// stripping leading and trailing hyphens. A title with no usable characters
// yields a fixed placeholder so paths are never ambiguous.
func Slugify(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range lower {
		if !keepRune(r) {
			if b.Len() > 0 {
				pendingHyphen = true
			}
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	s := b.String()
	if s == "" {
		return placeholder
	}
	return s
}

// keepRune reports whether r survives slugification: ASCII lowercase
// alphanumerics and the CJK Unified Ideographs block.
func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= 0x4E00 && r <= 0x9FFF:
		return true
	}
	return false
}

// FormatDate renders a time as the YYYY-MM-DD form used in post filenames
// and front matter. UTC is the fixed convention.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PostPath derives the repository path for a post from its title and date.
// date is an ISO date ("2024-03-05"); a full timestamp is truncated to its
// date part. The same inputs always yield the same path.
func PostPath(title, date string) string {
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		date = date[:i]
	}
	return PostsDir + "/" + PostPrefix + date + "-" + Slugify(title) + ".md"
}

// PagePath normalizes a page filename into a root-level repository path,
// appending the .md extension when missing.
func PagePath(filename string) string {
	if strings.HasSuffix(filename, ".md") {
		return filename
	}
	return filename + ".md"
}

// IsPostFile reports whether name follows the post filename convention.
func IsPostFile(name string) bool {
	return strings.HasPrefix(name, PostPrefix) && strings.HasSuffix(name, ".md")
}
