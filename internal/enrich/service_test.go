package enrich

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sudhirvr/keyworder/internal/library"
	"github.com/sudhirvr/keyworder/internal/providers"
)

// fakeProvider returns canned responses or errors, one per call.
type fakeProvider struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeProvider) Complete(ctx context.Context, config providers.Config) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, config.Prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", nil
}

func testConfig() Config {
	return Config{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
		Pause:    1, // nanosecond; keep tests fast
	}
}

func seedRecordWithPDF(store *library.MemStore, title string) (*library.Record, *library.Attachment) {
	rec := &library.Record{
		Type:     "journalArticle",
		Title:    title,
		Abstract: "An abstract long enough to pass the minimum excerpt threshold for extraction.",
	}
	store.AddRecord(rec)
	att := &library.Attachment{
		ParentID:    rec.ID,
		ContentType: library.PDFContentType,
		Filename:    "paper.pdf",
		Title:       "Full Text PDF",
	}
	store.AddAttachment(att)
	return rec, att
}

func TestRunAppliesToBothScopes(t *testing.T) {
	store := library.NewMemStore()
	ctx := context.Background()
	rec, att := seedRecordWithPDF(store, "Scoped")
	if err := store.AddTags(ctx, att.ID, []string{"MRI"}); err != nil {
		t.Fatalf("seed tags: %v", err)
	}

	provider := &fakeProvider{responses: []string{"MRI, Oncology"}}
	cfg := testConfig()
	cfg.TagScope = ScopeBoth
	svc := NewService(store, provider, cfg)

	result, err := svc.Run(ctx, []int64{rec.ID})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Succeeded != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	// Attachment skips MRI, adds Oncology; parent adds both.
	if result.KeywordsAdded != 3 {
		t.Errorf("KeywordsAdded = %d, want 3", result.KeywordsAdded)
	}
	if result.Items[0].Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Items[0].Skipped)
	}

	parentTags, _ := store.Tags(ctx, rec.ID)
	if len(parentTags) != 2 {
		t.Errorf("parent tags = %v, want MRI + Oncology", parentTags)
	}
}

func TestRunPassesExistingTagGuard(t *testing.T) {
	store := library.NewMemStore()
	ctx := context.Background()
	rec, att := seedRecordWithPDF(store, "Guarded")
	if err := store.AddTags(ctx, att.ID, []string{"radiomics"}); err != nil {
		t.Fatalf("seed attachment tags: %v", err)
	}
	if err := store.AddTags(ctx, rec.ID, []string{"glioma"}); err != nil {
		t.Fatalf("seed parent tags: %v", err)
	}

	provider := &fakeProvider{responses: []string{"Oncology"}}
	svc := NewService(store, provider, testConfig())
	if _, err := svc.Run(ctx, []int64{rec.ID}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	p := provider.prompts[0]
	for _, tag := range []string{"radiomics", "glioma"} {
		if !strings.Contains(p, tag) {
			t.Errorf("prompt guard missing existing tag %q", tag)
		}
	}
}

func TestRunContinuesAfterProviderError(t *testing.T) {
	store := library.NewMemStore()
	ctx := context.Background()
	rec1, _ := seedRecordWithPDF(store, "First")
	rec2, _ := seedRecordWithPDF(store, "Second")

	provider := &fakeProvider{
		errs:      []error{&providers.HTTPError{StatusCode: http.StatusTooManyRequests, Message: "rate limited"}},
		responses: []string{"", "Oncology, Radiomics"},
	}
	svc := NewService(store, provider, testConfig())

	result, err := svc.Run(ctx, []int64{rec1.ID, rec2.ID})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed != 2 {
		t.Errorf("Processed = %d, want 2", result.Processed)
	}
	if result.Failed != 1 || result.Succeeded != 1 {
		t.Errorf("Failed/Succeeded = %d/%d, want 1/1", result.Failed, result.Succeeded)
	}
	if !strings.Contains(result.Items[0].Error, "429") {
		t.Errorf("first item error should carry the provider status: %q", result.Items[0].Error)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2 (batch must continue)", provider.calls)
	}
}

func TestRunEmptyCompletionFailsItem(t *testing.T) {
	store := library.NewMemStore()
	rec, _ := seedRecordWithPDF(store, "Empty")

	provider := &fakeProvider{responses: []string{""}}
	svc := NewService(store, provider, testConfig())

	result, err := svc.Run(context.Background(), []int64{rec.ID})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", result.Failed)
	}
	if result.Items[0].Error != ErrNoKeywords.Error() {
		t.Errorf("Error = %q, want %q", result.Items[0].Error, ErrNoKeywords.Error())
	}
}

func TestRunNoSelection(t *testing.T) {
	svc := NewService(library.NewMemStore(), &fakeProvider{}, testConfig())
	if _, err := svc.Run(context.Background(), nil); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
}

func TestRunNoPDFs(t *testing.T) {
	store := library.NewMemStore()
	rec := &library.Record{Type: "journalArticle", Title: "No attachments"}
	store.AddRecord(rec)

	provider := &fakeProvider{}
	svc := NewService(store, provider, testConfig())

	_, err := svc.Run(context.Background(), []int64{rec.ID})
	if !errors.Is(err, ErrNoPDFs) {
		t.Fatalf("expected ErrNoPDFs, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider must not be called when the selection has no PDFs")
	}
}

func TestRunMissingAPIKeyAbortsBeforeAnyWork(t *testing.T) {
	store := library.NewMemStore()
	rec, _ := seedRecordWithPDF(store, "Keyless")

	provider := &fakeProvider{}
	cfg := testConfig()
	cfg.APIKey = ""
	svc := NewService(store, provider, cfg)

	_, err := svc.Run(context.Background(), []int64{rec.ID})
	if !errors.Is(err, providers.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider must not be called without a credential")
	}
}

func TestRunSkipsUnsupportedSelections(t *testing.T) {
	store := library.NewMemStore()
	ctx := context.Background()

	note := &library.Record{Type: "note", Title: "A note"}
	store.AddRecord(note)
	htmlAtt := &library.Attachment{ContentType: "text/html", Filename: "page.html", Title: "Snapshot"}
	store.AddAttachment(htmlAtt)
	rec, _ := seedRecordWithPDF(store, "Real paper")

	provider := &fakeProvider{responses: []string{"Oncology"}}
	svc := NewService(store, provider, testConfig())

	result, err := svc.Run(ctx, []int64{note.ID, htmlAtt.ID, rec.ID})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1 (note and HTML attachment excluded silently)", result.Processed)
	}
}

func TestRunSelectedAttachmentDirectly(t *testing.T) {
	store := library.NewMemStore()
	ctx := context.Background()
	rec, att := seedRecordWithPDF(store, "Direct")

	provider := &fakeProvider{responses: []string{"Radiomics"}}
	svc := NewService(store, provider, testConfig())

	// Selecting the attachment itself must resolve its parent for tagging.
	result, err := svc.Run(ctx, []int64{att.ID})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.KeywordsAdded != 2 {
		t.Errorf("KeywordsAdded = %d, want 2 (attachment + parent)", result.KeywordsAdded)
	}
	parentTags, _ := store.Tags(ctx, rec.ID)
	if len(parentTags) != 1 {
		t.Errorf("parent tags = %v", parentTags)
	}
}

