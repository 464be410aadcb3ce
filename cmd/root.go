package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyworder",
		Short: "LLM-powered keyword enrichment for bibliographic libraries",
		Long: `Keyworder enriches bibliographic records with machine-generated topical keywords.

It extracts a representative excerpt from each selected record or PDF attachment,
asks an LLM provider (OpenAI or Gemini) for keyword phrases, cleans and
deduplicates the result, and attaches the new keywords as tags.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newEnrichCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
