// Package dataset imports bibliographic records from JSONL or Parquet
// exports into a library store.
package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/sudhirvr/keyworder/internal/library"
)

// Record is one dataset row. Attachments and extracted full text are
// optional; rows without a PDF are still imported as bare records.
type Record struct {
	Type        string            `json:"type" parquet:"type"`
	Title       string            `json:"title" parquet:"title"`
	Creators    []library.Creator `json:"creators" parquet:"creators"`
	Publication string            `json:"publication" parquet:"publication"`
	Publisher   string            `json:"publisher" parquet:"publisher"`
	Date        string            `json:"date" parquet:"date"`
	DOI         string            `json:"doi" parquet:"doi"`
	Abstract    string            `json:"abstract" parquet:"abstract"`
	PDFFilename string            `json:"pdf_filename" parquet:"pdf_filename"`
	FullText    string            `json:"full_text" parquet:"full_text"`
	Tags        []string          `json:"tags" parquet:"tags,list"`
}

// Loader reads dataset files in JSONL or Parquet format.
type Loader struct {
	datasetPath string
}

// NewLoader creates a loader for the given dataset file.
func NewLoader(datasetPath string) *Loader {
	return &Loader{datasetPath: datasetPath}
}

// Load reads all records from the dataset file, detecting the format from
// the file extension.
func (l *Loader) Load() ([]Record, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))
	switch ext {
	case ".parquet":
		return l.loadParquet()
	case ".jsonl", ".json":
		return l.loadJSONL()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func (l *Loader) loadJSONL() ([]Record, error) {
	slog.Debug("Opening JSONL dataset", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)

	// Increase buffer size for rows carrying full document text
	const maxCapacity = 10 * 1024 * 1024 // 10MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL dataset", "total_records", len(records))
	return records, nil
}

func (l *Loader) loadParquet() ([]Record, error) {
	slog.Debug("Opening Parquet dataset", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var records []Record
	rows := make([]Record, 128) // Read in batches

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet dataset", "total_records", len(records))
	return records, nil
}

// Import loads the dataset into the store: one record per row plus a PDF
// attachment, stored full text, and tags when the row carries them. Returns
// the number of records imported.
func Import(ctx context.Context, store *library.SQLiteStore, datasetPath string) (int, error) {
	records, err := NewLoader(datasetPath).Load()
	if err != nil {
		return 0, err
	}

	for i, row := range records {
		recType := row.Type
		if recType == "" {
			recType = "journalArticle"
		}
		recID, err := store.InsertRecord(ctx, &library.Record{
			Type:        recType,
			Title:       row.Title,
			Creators:    row.Creators,
			Publication: row.Publication,
			Publisher:   row.Publisher,
			Date:        row.Date,
			DOI:         row.DOI,
			Abstract:    row.Abstract,
		})
		if err != nil {
			return i, fmt.Errorf("import row %d: %w", i+1, err)
		}

		if len(row.Tags) > 0 {
			if err := store.AddTags(ctx, recID, row.Tags); err != nil {
				return i, fmt.Errorf("import tags for row %d: %w", i+1, err)
			}
		}

		if row.PDFFilename == "" {
			continue
		}
		attID, err := store.InsertAttachment(ctx, &library.Attachment{
			ParentID:    recID,
			ContentType: library.PDFContentType,
			Filename:    row.PDFFilename,
			Title:       row.Title,
		})
		if err != nil {
			return i, fmt.Errorf("import attachment for row %d: %w", i+1, err)
		}
		if row.FullText != "" {
			if err := store.SetFullText(ctx, attID, row.FullText); err != nil {
				return i, fmt.Errorf("import fulltext for row %d: %w", i+1, err)
			}
		}
	}
	return len(records), nil
}
