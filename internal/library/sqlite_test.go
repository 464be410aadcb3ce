package library

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRecordRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	recID, err := store.InsertRecord(ctx, &Record{
		Type:        "journalArticle",
		Title:       "Radiomics in Glioma",
		Publication: "Journal of Neuro-Oncology",
		Date:        "2024",
		DOI:         "10.1000/xyz",
		Abstract:    "A study of radiomic features.",
		Creators: []Creator{
			{FirstName: "Ada", LastName: "Lovelace"},
			{FirstName: "Alan", LastName: "Turing"},
		},
	})
	if err != nil {
		t.Fatalf("InsertRecord: %v", err)
	}

	rec, err := store.Record(ctx, recID)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec == nil {
		t.Fatal("Record returned nil for existing id")
	}
	if rec.Title != "Radiomics in Glioma" || rec.Type != "journalArticle" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Creators) != 2 || rec.Creators[0].Name() != "Ada Lovelace" {
		t.Errorf("unexpected creators: %+v", rec.Creators)
	}

	missing, err := store.Record(ctx, recID+100)
	if err != nil {
		t.Fatalf("Record missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing record, got %+v", missing)
	}
}

func TestSQLiteItemsResolvesKinds(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	recID, err := store.InsertRecord(ctx, &Record{Type: "book", Title: "A Book"})
	if err != nil {
		t.Fatalf("InsertRecord: %v", err)
	}
	attID, err := store.InsertAttachment(ctx, &Attachment{
		ParentID:    recID,
		ContentType: PDFContentType,
		Filename:    "book.pdf",
		Title:       "Full Text PDF",
	})
	if err != nil {
		t.Fatalf("InsertAttachment: %v", err)
	}

	items, err := store.Items(ctx, []int64{recID, attID, 9999})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (unknown id skipped), got %d", len(items))
	}
	if items[0].Record == nil || items[0].Record.Title != "A Book" {
		t.Errorf("first item should be the record, got %+v", items[0])
	}
	if items[1].Attachment == nil || items[1].Attachment.ParentID != recID {
		t.Errorf("second item should be the attachment, got %+v", items[1])
	}

	atts, err := store.Attachments(ctx, recID)
	if err != nil {
		t.Fatalf("Attachments: %v", err)
	}
	if len(atts) != 1 || !atts[0].IsPDF() {
		t.Errorf("expected one PDF attachment, got %+v", atts)
	}
}

func TestSQLiteTags(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	recID, err := store.InsertRecord(ctx, &Record{Type: "journalArticle", Title: "T"})
	if err != nil {
		t.Fatalf("InsertRecord: %v", err)
	}

	if err := store.AddTags(ctx, recID, []string{"radiomics", "oncology"}); err != nil {
		t.Fatalf("AddTags: %v", err)
	}
	// Re-adding must be a no-op.
	if err := store.AddTags(ctx, recID, []string{"radiomics"}); err != nil {
		t.Fatalf("AddTags repeat: %v", err)
	}

	tags, err := store.Tags(ctx, recID)
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	want := []string{"oncology", "radiomics"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("Tags = %v, want %v", tags, want)
	}
}

func TestSQLiteFullText(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	attID, err := store.InsertAttachment(ctx, &Attachment{Filename: "x.pdf", ContentType: PDFContentType})
	if err != nil {
		t.Fatalf("InsertAttachment: %v", err)
	}

	text, err := store.FullText(ctx, attID)
	if err != nil {
		t.Fatalf("FullText empty: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty fulltext, got %q", text)
	}

	if err := store.SetFullText(ctx, attID, "extracted document text"); err != nil {
		t.Fatalf("SetFullText: %v", err)
	}
	text, err = store.FullText(ctx, attID)
	if err != nil {
		t.Fatalf("FullText: %v", err)
	}
	if text != "extracted document text" {
		t.Errorf("FullText = %q", text)
	}
}

func TestAttachmentIsPDF(t *testing.T) {
	tests := []struct {
		name string
		att  Attachment
		want bool
	}{
		{"content type", Attachment{ContentType: PDFContentType}, true},
		{"filename extension", Attachment{Filename: "Paper.PDF"}, true},
		{"neither", Attachment{ContentType: "text/html", Filename: "page.html"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.att.IsPDF(); got != tt.want {
				t.Errorf("IsPDF() = %v, want %v", got, tt.want)
			}
		})
	}
}
