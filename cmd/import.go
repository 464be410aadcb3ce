package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sudhirvr/keyworder/internal/dataset"
	"github.com/sudhirvr/keyworder/internal/library"
)

func newImportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <dataset-file>",
		Short: "Import bibliographic records from a JSONL or Parquet export",
		Long: `Imports records into the library database from a dataset file.

Each row becomes a record; rows carrying a PDF filename also get an
attachment, and rows with extracted text populate the full-text store.`,
		Example: `  keyworder import --db library.db records.jsonl
  keyworder import --db library.db records.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := library.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open library: %w", err)
			}
			defer store.Close()

			n, err := dataset.Import(cmd.Context(), store, args[0])
			if err != nil {
				return fmt.Errorf("failed to import dataset: %w", err)
			}

			fmt.Printf("Imported %d records into %s\n", n, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "library.db", "Path to the library database")

	return cmd
}
