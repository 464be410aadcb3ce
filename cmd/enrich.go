package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/sudhirvr/keyworder/internal/backends"
	"github.com/sudhirvr/keyworder/internal/enrich"
	"github.com/sudhirvr/keyworder/internal/library"
	"github.com/sudhirvr/keyworder/internal/report"
)

func newEnrichCmd() *cobra.Command {
	var (
		dbPath     string
		provider   string
		model      string
		keywords   int
		pauseMS    int
		capChars   int
		tagScope   string
		reportPath string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "enrich [item-id...]",
		Short: "Generate keywords for selected records and tag them",
		Long: `Enriches the selected library items with LLM-generated keyword tags.

Selected PDF attachments are processed directly; selected records contribute
each PDF attachment they own. Items are processed one at a time with a pause
between provider calls.`,
		Example: `  # Enrich two records with the default provider
  keyworder enrich --db library.db 12 47

  # Enrich the whole library with OpenAI, tagging parents only
  keyworder enrich --db library.db --all --provider openai --scope parent

  # Write a YAML report of the run
  keyworder enrich --db library.db 12 --report run.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := library.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open library: %w", err)
			}
			defer store.Close()

			var ids []int64
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q: %w", arg, err)
				}
				ids = append(ids, id)
			}
			if all {
				ids, err = store.AllRecordIDs(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list records: %w", err)
				}
			}

			client, providerName, err := backends.Select(provider)
			if err != nil {
				return err
			}
			if model == "" {
				model = backends.DefaultModel(providerName)
			}

			cfg := enrich.Config{
				Provider:    providerName,
				Model:       model,
				APIKey:      backends.APIKey(providerName),
				MaxKeywords: keywords,
				Pause:       time.Duration(pauseMS) * time.Millisecond,
				CapChars:    capChars,
				TagScope:    tagScope,
			}

			slog.Info("Starting enrichment run", "provider", providerName, "model", model, "items", len(ids))
			svc := enrich.NewService(store, client, cfg)
			result, err := svc.Run(cmd.Context(), ids)
			if err != nil {
				return err
			}

			printSummary(result)

			if reportPath != "" {
				if err := report.Save(reportPath, cfg.MaxKeywords, result); err != nil {
					return err
				}
				fmt.Printf("\nReport saved to: %s\n", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "library.db", "Path to the library database")
	cmd.Flags().StringVar(&provider, "provider", "", "Provider to use: openai or gemini (default $KEYWORDER_PROVIDER, then gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model id (defaults per provider)")
	cmd.Flags().IntVar(&keywords, "keywords", 10, "Number of keywords to request per item")
	cmd.Flags().IntVar(&pauseMS, "pause", 900, "Pause between items in milliseconds")
	cmd.Flags().IntVar(&capChars, "cap", 1700, "Excerpt character cap")
	cmd.Flags().StringVar(&tagScope, "scope", "both", "Where to write tags: attachment, parent, or both")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a YAML report of the run to this path")
	cmd.Flags().BoolVar(&all, "all", false, "Enrich every record in the library")

	return cmd
}

func printSummary(result *enrich.Result) {
	fmt.Println("\n========================================")
	fmt.Println("Enrichment Summary")
	fmt.Println("========================================")
	fmt.Printf("Provider:        %s (%s)\n", result.Provider, result.Model)
	fmt.Printf("Tag scope:       %s\n", result.TagScope)
	fmt.Printf("Processed:       %d\n", result.Processed)
	fmt.Printf("Succeeded:       %d\n", result.Succeeded)
	fmt.Printf("Failed:          %d\n", result.Failed)
	fmt.Printf("Keywords added:  %d\n", result.KeywordsAdded)
	fmt.Println("========================================")
}
