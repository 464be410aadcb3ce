// Package extract produces the bounded text excerpt that represents an
// attachment in a provider prompt.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sudhirvr/keyworder/internal/library"
)

// minUseful is the shortest excerpt worth sending to a provider; anything
// shorter falls through to the next extraction stage.
const minUseful = 60

const maxCreators = 3

var (
	whitespace = regexp.MustCompile(`\s+`)
	noise      = regexp.MustCompile(`[^\w\s.,;:!?()\-]`)
)

// Extractor builds excerpts from record metadata, stored full text, or a
// minimal attachment description, in that order.
type Extractor struct {
	store    library.Store
	capChars int
}

// New returns an Extractor that caps excerpts at capChars characters.
func New(store library.Store, capChars int) *Extractor {
	return &Extractor{store: store, capChars: capChars}
}

// Extract returns the excerpt for an attachment. The parent may be nil for
// standalone attachments. The first stage yielding more than minUseful
// characters wins; the minimal fallback is never empty. A missing or
// unreachable full-text store is treated as "no result", not an error.
func (e *Extractor) Extract(ctx context.Context, att *library.Attachment, parent *library.Record) string {
	if meta := e.cap(MetadataExcerpt(parent)); len(meta) > minUseful {
		return meta
	}

	if ft, err := e.store.FullText(ctx, att.ID); err == nil {
		if cleaned := e.cap(cleanFullText(ft)); len(cleaned) > minUseful {
			return cleaned
		}
	}

	return e.fallback(att, parent)
}

// MetadataExcerpt assembles a labeled-line summary of a record: title, up to
// three creators, venue or publisher with year, identifier, and a
// whitespace-normalized abstract. Returns "" for a nil record.
func MetadataExcerpt(parent *library.Record) string {
	if parent == nil {
		return ""
	}

	var b strings.Builder
	if parent.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", parent.Title)
	}

	var names []string
	for _, c := range parent.Creators {
		if name := c.Name(); name != "" {
			names = append(names, name)
		}
		if len(names) == maxCreators {
			break
		}
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(names, ", "))
	}

	venue := parent.Publication
	if venue == "" {
		venue = parent.Publisher
	}
	var source []string
	if venue != "" {
		source = append(source, venue)
	}
	if parent.Date != "" {
		source = append(source, parent.Date)
	}
	if len(source) > 0 {
		fmt.Fprintf(&b, "Source: %s\n", strings.Join(source, ", "))
	}

	if parent.DOI != "" {
		fmt.Fprintf(&b, "DOI: %s\n", parent.DOI)
	}
	if abs := whitespace.ReplaceAllString(strings.TrimSpace(parent.Abstract), " "); abs != "" {
		fmt.Fprintf(&b, "\nAbstract: %s\n", abs)
	}
	return b.String()
}

// cleanFullText strips control and symbol noise that PDF text extraction
// tends to leave behind and collapses all whitespace runs.
func cleanFullText(text string) string {
	text = whitespace.ReplaceAllString(text, " ")
	text = noise.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// fallback is the last-resort excerpt: attachment title, filename, and parent
// title, whichever exist. Never empty for a real attachment.
func (e *Extractor) fallback(att *library.Attachment, parent *library.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attachment: %s\n", att.Title)
	if att.Filename != "" {
		fmt.Fprintf(&b, "Filename: %s\n", att.Filename)
	}
	if parent != nil && parent.Title != "" {
		fmt.Fprintf(&b, "Parent Title: %s\n", parent.Title)
	}
	return e.cap(b.String())
}

// cap truncates an excerpt to the configured character limit, marking the
// truncation with a trailing ellipsis.
func (e *Extractor) cap(s string) string {
	if e.capChars > 0 && len(s) > e.capChars {
		return s[:e.capChars] + "..."
	}
	return s
}
