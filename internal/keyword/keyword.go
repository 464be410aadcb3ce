// Package keyword normalizes and parses keyword phrases returned by LLM providers.
package keyword

import (
	"regexp"
	"strings"
)

const (
	// MaxLength is the longest keyword phrase accepted, in characters.
	MaxLength = 50
	// MaxWords is the most words a keyword phrase may contain.
	MaxWords = 4
)

var (
	dashRun     = regexp.MustCompile(`[-_]+`)
	nonAlnum    = regexp.MustCompile(`[^\p{L}\p{N} ]+`)
	spaceRun    = regexp.MustCompile(` {2,}`)
	whitespace  = regexp.MustCompile(`\s+`)
	leadingMark = regexp.MustCompile(`(?m)^\s*[\x{2022}\x{2023}\x{25E6}\x{2043}\-\x{2013}\x{2014}]+\s*`)
	newlines    = regexp.MustCompile(`\n+`)
)

// Canon reduces a keyword to its canonical comparison key. Hyphen, underscore,
// and space variants of the same phrase collapse to a single form, so
// "Machine-Learning" and "machine learning" compare equal.
func Canon(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("–", "-", "—", "-").Replace(s)
	s = dashRun.ReplaceAllString(s, " ")
	s = nonAlnum.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Parse converts raw provider output into at most maxN cleaned keyword
// phrases. Providers sometimes emit one keyword per line or bulleted lists
// despite being told to return a comma-separated list, so line breaks are
// folded into commas and leading bullet glyphs are stripped before splitting.
// Phrases over MaxLength characters or MaxWords words are dropped, duplicates
// are folded by canonical key keeping the first occurrence, and the
// provider-returned order is preserved. Empty input yields an empty slice.
func Parse(raw string, maxN int) []string {
	if raw == "" || maxN <= 0 {
		return nil
	}

	cleaned := leadingMark.ReplaceAllString(raw, "")
	cleaned = newlines.ReplaceAllString(cleaned, ",")

	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(cleaned, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, "\"'`")
		part = spaceRun.ReplaceAllString(part, " ")
		if part == "" {
			continue
		}
		if len(part) > MaxLength || len(whitespace.Split(part, -1)) > MaxWords {
			continue
		}

		key := Canon(part)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, part)
		if len(out) == maxN {
			break
		}
	}
	return out
}
