// Package library defines the bibliographic object model and the narrow
// storage port the enrichment pipeline depends on. The pipeline only reads
// record metadata and mutates tag sets; everything else about the library is
// the store's business.
package library

import (
	"context"
	"strings"
)

// PDFContentType is the attachment content type eligible for enrichment.
const PDFContentType = "application/pdf"

// Creator is a single author, editor, or other contributor on a record.
type Creator struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Name renders the creator as "First Last", dropping whichever part is empty.
func (c Creator) Name() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Record is a top-level bibliographic item (article, book, thesis, ...).
type Record struct {
	ID          int64
	Type        string
	Title       string
	Creators    []Creator
	Publication string
	Publisher   string
	Date        string
	DOI         string
	Abstract    string
}

// Attachment is a file-bearing item, optionally owned by a parent record.
// ParentID is zero for standalone attachments.
type Attachment struct {
	ID          int64
	ParentID    int64
	ContentType string
	Filename    string
	Title       string
}

// IsPDF reports whether the attachment is a PDF document, either by declared
// content type or by filename extension.
func (a *Attachment) IsPDF() bool {
	if a.ContentType == PDFContentType {
		return true
	}
	return strings.HasSuffix(strings.ToLower(a.Filename), ".pdf")
}

// Item is one user-selected library entry: exactly one of Record or
// Attachment is non-nil.
type Item struct {
	Record     *Record
	Attachment *Attachment
}

// Store is the persistence port for the library. Tag operations are keyed by
// item ID and apply to records and attachments alike.
type Store interface {
	// Items resolves the given item IDs to records or attachments. Unknown
	// IDs are skipped, not errors.
	Items(ctx context.Context, ids []int64) ([]Item, error)

	// AllRecordIDs lists the IDs of every top-level record in the library.
	AllRecordIDs(ctx context.Context) ([]int64, error)

	// Record loads a single top-level record, or nil if it does not exist.
	Record(ctx context.Context, id int64) (*Record, error)

	// Attachments lists the attachments owned by a record.
	Attachments(ctx context.Context, recordID int64) ([]*Attachment, error)

	// Tags returns the tag strings currently on an item.
	Tags(ctx context.Context, itemID int64) ([]string, error)

	// AddTags attaches the given tags to an item in one batched save.
	// Re-adding an existing tag is a no-op.
	AddTags(ctx context.Context, itemID int64, tags []string) error

	// FullText returns the extracted document text for an attachment, or an
	// empty string when none is stored.
	FullText(ctx context.Context, attachmentID int64) (string, error)
}

// AcceptedTypes lists the top-level record types eligible for enrichment.
// Selections of any other type are silently excluded from a batch.
var AcceptedTypes = map[string]bool{
	"journalArticle":  true,
	"book":            true,
	"bookSection":     true,
	"conferencePaper": true,
	"thesis":          true,
	"report":          true,
	"document":        true,
	"webpage":         true,
}
