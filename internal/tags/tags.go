// Package tags applies candidate keywords to library items, skipping
// keywords an item already carries under any canonically equivalent form.
package tags

import (
	"context"
	"fmt"

	"github.com/sudhirvr/keyworder/internal/keyword"
	"github.com/sudhirvr/keyworder/internal/library"
)

// Result counts the outcome of one or more tag applications.
type Result struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// ApplyOne attaches the keywords that are canonically new for the item and
// reports how many were added versus skipped. All surviving keywords are
// persisted in one batched save.
func ApplyOne(ctx context.Context, store library.Store, itemID int64, keywords []string) (Result, error) {
	existing, err := store.Tags(ctx, itemID)
	if err != nil {
		return Result{}, fmt.Errorf("read tags for item %d: %w", itemID, err)
	}

	have := make(map[string]struct{}, len(existing))
	for _, tag := range existing {
		have[keyword.Canon(tag)] = struct{}{}
	}

	var fresh []string
	for _, k := range keywords {
		if _, ok := have[keyword.Canon(k)]; ok {
			continue
		}
		fresh = append(fresh, k)
	}

	if err := store.AddTags(ctx, itemID, fresh); err != nil {
		return Result{}, fmt.Errorf("save tags for item %d: %w", itemID, err)
	}
	return Result{Added: len(fresh), Skipped: len(keywords) - len(fresh)}, nil
}

// ApplyMany applies the same candidate list independently to each target item
// and sums the counts. A keyword already on one target is skipped only there;
// tags added to earlier targets stay applied if a later save fails.
func ApplyMany(ctx context.Context, store library.Store, itemIDs []int64, keywords []string) (Result, error) {
	var total Result
	for _, id := range itemIDs {
		res, err := ApplyOne(ctx, store, id, keywords)
		if err != nil {
			return total, err
		}
		total.Added += res.Added
		total.Skipped += res.Skipped
	}
	return total, nil
}
