// Package report writes batch outcomes to a YAML file.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/sudhirvr/keyworder/internal/enrich"
	"gopkg.in/yaml.v3"
)

// Config captures the run settings recorded at the top of a report.
type Config struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	TagScope    string `yaml:"tagscope"`
	MaxKeywords int    `yaml:"maxkeywords"`
	Timestamp   string `yaml:"timestamp"`
}

// Item is one per-item outcome line in the report.
type Item struct {
	AttachmentID int64  `yaml:"attachmentid"`
	Title        string `yaml:"title"`
	Added        int    `yaml:"added"`
	Skipped      int    `yaml:"skipped"`
	Error        string `yaml:"error,omitempty"`
}

// Summary aggregates the batch counts.
type Summary struct {
	Processed     int `yaml:"processed"`
	Succeeded     int `yaml:"succeeded"`
	Failed        int `yaml:"failed"`
	KeywordsAdded int `yaml:"keywordsadded"`
}

// Report is the complete YAML document.
type Report struct {
	Config  Config  `yaml:"config"`
	Summary Summary `yaml:"summary"`
	Items   []Item  `yaml:"items"`
}

// Save writes the batch result as YAML to the given path.
func Save(path string, maxKeywords int, result *enrich.Result) error {
	rep := Report{
		Config: Config{
			Provider:    result.Provider,
			Model:       result.Model,
			TagScope:    result.TagScope,
			MaxKeywords: maxKeywords,
			Timestamp:   time.Now().Format("2006-01-02_15-04-05"),
		},
		Summary: Summary{
			Processed:     result.Processed,
			Succeeded:     result.Succeeded,
			Failed:        result.Failed,
			KeywordsAdded: result.KeywordsAdded,
		},
		Items: make([]Item, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		rep.Items = append(rep.Items, Item{
			AttachmentID: item.AttachmentID,
			Title:        item.Title,
			Added:        item.Added,
			Skipped:      item.Skipped,
			Error:        item.Error,
		})
	}

	data, err := yaml.Marshal(&rep)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
