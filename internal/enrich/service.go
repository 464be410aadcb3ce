// Package enrich drives the keyword enrichment pipeline over a user
// selection: resolve PDFs, extract excerpts, call the provider, parse
// keywords, and apply tags, one item at a time with a throttle pause.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sudhirvr/keyworder/internal/extract"
	"github.com/sudhirvr/keyworder/internal/keyword"
	"github.com/sudhirvr/keyworder/internal/library"
	"github.com/sudhirvr/keyworder/internal/prompt"
	"github.com/sudhirvr/keyworder/internal/providers"
	"github.com/sudhirvr/keyworder/internal/tags"
)

// Tag scopes choose which items receive the generated keywords.
const (
	ScopeAttachment = "attachment"
	ScopeParent     = "parent"
	ScopeBoth       = "both"
)

// Pre-batch failures. These abort before any network or mutation activity.
var (
	ErrNoSelection = errors.New("no items selected")
	ErrNoPDFs      = errors.New("no PDFs found in selection")
)

// ErrNoKeywords marks an item whose provider response parsed to zero
// keywords. Fatal to that item only.
var ErrNoKeywords = errors.New("no keywords returned")

// Config is the per-run pipeline configuration. The zero value of each field
// falls back to the documented default.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	MaxKeywords int
	Pause       time.Duration
	CapChars    int
	TagScope    string
}

const (
	defaultMaxKeywords = 10
	defaultPause       = 900 * time.Millisecond
	defaultCapChars    = 1700
)

func (c *Config) applyDefaults() {
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = defaultMaxKeywords
	}
	if c.Pause <= 0 {
		c.Pause = defaultPause
	}
	if c.CapChars <= 0 {
		c.CapChars = defaultCapChars
	}
	switch c.TagScope {
	case ScopeAttachment, ScopeParent, ScopeBoth:
	default:
		c.TagScope = ScopeBoth
	}
}

// ItemResult is the outcome of one work item.
type ItemResult struct {
	AttachmentID int64  `json:"attachment_id"`
	Title        string `json:"title"`
	Added        int    `json:"added"`
	Skipped      int    `json:"skipped"`
	Error        string `json:"error,omitempty"`
}

// Result is the accumulated outcome of a batch.
type Result struct {
	Provider      string       `json:"provider"`
	Model         string       `json:"model"`
	TagScope      string       `json:"tag_scope"`
	Processed     int          `json:"processed"`
	Succeeded     int          `json:"succeeded"`
	Failed        int          `json:"failed"`
	KeywordsAdded int          `json:"keywords_added"`
	Items         []ItemResult `json:"items"`
}

// Service sequences the enrichment pipeline. Items are processed strictly
// one at a time; the pause between items is a global rate limit against the
// provider.
type Service struct {
	store     library.Store
	provider  providers.Provider
	extractor *extract.Extractor
	cfg       Config
}

// NewService creates an enrichment service for one run.
func NewService(store library.Store, provider providers.Provider, cfg Config) *Service {
	cfg.applyDefaults()
	return &Service{
		store:     store,
		provider:  provider,
		extractor: extract.New(store, cfg.CapChars),
		cfg:       cfg,
	}
}

// workItem pairs a PDF attachment with its parent record, if any.
type workItem struct {
	attachment *library.Attachment
	parent     *library.Record
}

// Run enriches the selected items. Per-item failures are recorded and do not
// interrupt later items; only pre-batch configuration failures (empty
// selection, no PDFs, missing credential) abort the whole run.
func (s *Service) Run(ctx context.Context, selectedIDs []int64) (*Result, error) {
	if len(selectedIDs) == 0 {
		return nil, ErrNoSelection
	}
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", s.cfg.Provider, providers.ErrMissingAPIKey)
	}

	items, err := s.store.Items(ctx, selectedIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve selection: %w", err)
	}
	work, err := s.resolve(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(work) == 0 {
		return nil, ErrNoPDFs
	}

	result := &Result{
		Provider: s.cfg.Provider,
		Model:    s.cfg.Model,
		TagScope: s.cfg.TagScope,
		Items:    make([]ItemResult, 0, len(work)),
	}

	for i, w := range work {
		slog.Info("Processing item",
			"progress", fmt.Sprintf("%d/%d", i+1, len(work)),
			"attachment", w.attachment.Title)

		item := s.processItem(ctx, w)
		result.Processed++
		if item.Error != "" {
			result.Failed++
			slog.Error("Item failed", "attachment", w.attachment.Title, "err", item.Error)
		} else {
			result.Succeeded++
			result.KeywordsAdded += item.Added
			slog.Info("Item enriched", "attachment", w.attachment.Title,
				"added", item.Added, "skipped", item.Skipped)
		}
		result.Items = append(result.Items, item)

		// The pause is a rate limit against the provider; it runs after
		// every item, success or failure.
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(s.cfg.Pause):
		}
	}
	return result, nil
}

// resolve turns the selection into work items: selected PDF attachments are
// taken directly, accepted-type records contribute each PDF attachment they
// own, and everything else is silently excluded.
func (s *Service) resolve(ctx context.Context, items []library.Item) ([]workItem, error) {
	var work []workItem
	for _, item := range items {
		switch {
		case item.Attachment != nil:
			if !item.Attachment.IsPDF() {
				continue
			}
			var parent *library.Record
			if item.Attachment.ParentID != 0 {
				rec, err := s.store.Record(ctx, item.Attachment.ParentID)
				if err != nil {
					return nil, fmt.Errorf("resolve parent of attachment %d: %w", item.Attachment.ID, err)
				}
				parent = rec
			}
			work = append(work, workItem{attachment: item.Attachment, parent: parent})

		case item.Record != nil:
			if !library.AcceptedTypes[item.Record.Type] {
				continue
			}
			atts, err := s.store.Attachments(ctx, item.Record.ID)
			if err != nil {
				return nil, fmt.Errorf("resolve attachments of record %d: %w", item.Record.ID, err)
			}
			for _, att := range atts {
				if att.IsPDF() {
					work = append(work, workItem{attachment: att, parent: item.Record})
				}
			}
		}
	}
	return work, nil
}

func (s *Service) processItem(ctx context.Context, w workItem) ItemResult {
	item := ItemResult{AttachmentID: w.attachment.ID, Title: w.attachment.Title}

	excerpt := s.extractor.Extract(ctx, w.attachment, w.parent)
	targets := s.targets(w)

	existing, err := s.unionTags(ctx, targets)
	if err != nil {
		item.Error = err.Error()
		return item
	}

	p := prompt.Build(excerpt, s.cfg.MaxKeywords, existing)
	raw, err := s.provider.Complete(ctx, providers.Config{
		Model:  s.cfg.Model,
		APIKey: s.cfg.APIKey,
		Prompt: p,
	})
	if err != nil {
		item.Error = err.Error()
		return item
	}

	keywords := keyword.Parse(raw, s.cfg.MaxKeywords)
	if len(keywords) == 0 {
		item.Error = ErrNoKeywords.Error()
		return item
	}

	res, err := tags.ApplyMany(ctx, s.store, targets, keywords)
	item.Added = res.Added
	item.Skipped = res.Skipped
	if err != nil {
		item.Error = err.Error()
	}
	return item
}

// targets lists the item IDs that receive tags for this work item, honoring
// the configured scope.
func (s *Service) targets(w workItem) []int64 {
	var ids []int64
	if s.cfg.TagScope == ScopeAttachment || s.cfg.TagScope == ScopeBoth {
		ids = append(ids, w.attachment.ID)
	}
	if w.parent != nil && (s.cfg.TagScope == ScopeParent || s.cfg.TagScope == ScopeBoth) {
		ids = append(ids, w.parent.ID)
	}
	return ids
}

// unionTags collects the distinct existing tags across all targets, used as
// the prompt's do-not-repeat guard. Advisory only: the tag layer still
// filters duplicates on apply.
func (s *Service) unionTags(ctx context.Context, itemIDs []int64) ([]string, error) {
	seen := make(map[string]struct{})
	var union []string
	for _, id := range itemIDs {
		existing, err := s.store.Tags(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("read tags for item %d: %w", id, err)
		}
		for _, tag := range existing {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			union = append(union, tag)
		}
	}
	return union, nil
}
