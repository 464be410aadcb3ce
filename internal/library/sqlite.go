package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite. Records and attachments share a
// single items table so tags can be keyed by one item ID space; attachments
// are rows with type 'attachment' and a parent_id back-reference.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates a library database at the given path.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		type         TEXT NOT NULL,
		title        TEXT NOT NULL DEFAULT '',
		publication  TEXT NOT NULL DEFAULT '',
		publisher    TEXT NOT NULL DEFAULT '',
		date         TEXT NOT NULL DEFAULT '',
		doi          TEXT NOT NULL DEFAULT '',
		abstract     TEXT NOT NULL DEFAULT '',
		parent_id    INTEGER REFERENCES items(id),
		content_type TEXT NOT NULL DEFAULT '',
		filename     TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);
	CREATE INDEX IF NOT EXISTS idx_items_type ON items(type);

	CREATE TABLE IF NOT EXISTS item_creators (
		item_id    INTEGER NOT NULL REFERENCES items(id),
		position   INTEGER NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (item_id, position)
	);

	CREATE TABLE IF NOT EXISTS item_tags (
		item_id INTEGER NOT NULL REFERENCES items(id),
		tag     TEXT NOT NULL,
		PRIMARY KEY (item_id, tag)
	);

	CREATE TABLE IF NOT EXISTS fulltext (
		item_id INTEGER PRIMARY KEY REFERENCES items(id),
		content TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Items resolves item IDs to records or attachments, skipping unknown IDs.
func (s *SQLiteStore) Items(ctx context.Context, ids []int64) ([]Item, error) {
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		row := s.db.QueryRowContext(ctx,
			`SELECT id, type, title, publication, publisher, date, doi, abstract,
			        COALESCE(parent_id, 0), content_type, filename
			 FROM items WHERE id = ?`, id)

		var (
			rec Record
			att Attachment
		)
		err := row.Scan(&rec.ID, &rec.Type, &rec.Title, &rec.Publication, &rec.Publisher,
			&rec.Date, &rec.DOI, &rec.Abstract, &att.ParentID, &att.ContentType, &att.Filename)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load item %d: %w", id, err)
		}

		if rec.Type == "attachment" {
			att.ID = rec.ID
			att.Title = rec.Title
			items = append(items, Item{Attachment: &att})
			continue
		}

		creators, err := s.creators(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Creators = creators
		r := rec
		items = append(items, Item{Record: &r})
	}
	return items, nil
}

// AllRecordIDs lists every top-level record ID in the library.
func (s *SQLiteStore) AllRecordIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM items WHERE type != 'attachment' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan record id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Record loads a top-level record, or nil when the ID is missing or refers to
// an attachment.
func (s *SQLiteStore) Record(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, title, publication, publisher, date, doi, abstract
		 FROM items WHERE id = ? AND type != 'attachment'`, id)

	var rec Record
	err := row.Scan(&rec.ID, &rec.Type, &rec.Title, &rec.Publication, &rec.Publisher,
		&rec.Date, &rec.DOI, &rec.Abstract)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load record %d: %w", id, err)
	}

	creators, err := s.creators(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Creators = creators
	return &rec, nil
}

func (s *SQLiteStore) creators(ctx context.Context, itemID int64) ([]Creator, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT first_name, last_name FROM item_creators WHERE item_id = ? ORDER BY position`, itemID)
	if err != nil {
		return nil, fmt.Errorf("load creators for %d: %w", itemID, err)
	}
	defer rows.Close()

	var creators []Creator
	for rows.Next() {
		var c Creator
		if err := rows.Scan(&c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("scan creator: %w", err)
		}
		creators = append(creators, c)
	}
	return creators, rows.Err()
}

// Attachments lists the attachments owned by a record.
func (s *SQLiteStore) Attachments(ctx context.Context, recordID int64) ([]*Attachment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(parent_id, 0), content_type, filename, title
		 FROM items WHERE type = 'attachment' AND parent_id = ? ORDER BY id`, recordID)
	if err != nil {
		return nil, fmt.Errorf("load attachments for %d: %w", recordID, err)
	}
	defer rows.Close()

	var atts []*Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.ParentID, &a.ContentType, &a.Filename, &a.Title); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		atts = append(atts, &a)
	}
	return atts, rows.Err()
}

// Tags returns the tags currently on an item.
func (s *SQLiteStore) Tags(ctx context.Context, itemID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM item_tags WHERE item_id = ? ORDER BY tag`, itemID)
	if err != nil {
		return nil, fmt.Errorf("load tags for %d: %w", itemID, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// AddTags attaches tags to an item in a single transaction. Existing tags are
// left untouched.
func (s *SQLiteStore) AddTags(ctx context.Context, itemID int64, tags []string) error {
	if len(tags) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tag save: %w", err)
	}
	defer tx.Rollback()

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_tags (item_id, tag) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			itemID, tag); err != nil {
			return fmt.Errorf("save tag %q on %d: %w", tag, itemID, err)
		}
	}
	return tx.Commit()
}

// FullText returns the stored extracted text for an attachment, or "" when
// none exists.
func (s *SQLiteStore) FullText(ctx context.Context, attachmentID int64) (string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT content FROM fulltext WHERE item_id = ?`, attachmentID)

	var content string
	err := row.Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load fulltext for %d: %w", attachmentID, err)
	}
	return content, nil
}

// InsertRecord stores a new top-level record with its creators and returns
// its ID.
func (s *SQLiteStore) InsertRecord(ctx context.Context, rec *Record) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (type, title, publication, publisher, date, doi, abstract)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Type, rec.Title, rec.Publication, rec.Publisher, rec.Date, rec.DOI, rec.Abstract)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record id: %w", err)
	}

	for i, c := range rec.Creators {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO item_creators (item_id, position, first_name, last_name) VALUES (?, ?, ?, ?)`,
			id, i, c.FirstName, c.LastName); err != nil {
			return 0, fmt.Errorf("insert creator: %w", err)
		}
	}
	return id, nil
}

// InsertAttachment stores a new attachment and returns its ID. parentID zero
// means a standalone attachment.
func (s *SQLiteStore) InsertAttachment(ctx context.Context, att *Attachment) (int64, error) {
	var parent any
	if att.ParentID != 0 {
		parent = att.ParentID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (type, title, parent_id, content_type, filename) VALUES ('attachment', ?, ?, ?, ?)`,
		att.Title, parent, att.ContentType, att.Filename)
	if err != nil {
		return 0, fmt.Errorf("insert attachment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("attachment id: %w", err)
	}
	return id, nil
}

// SetFullText stores or replaces the extracted text for an attachment.
func (s *SQLiteStore) SetFullText(ctx context.Context, attachmentID int64, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fulltext (item_id, content) VALUES (?, ?)
		 ON CONFLICT (item_id) DO UPDATE SET content = excluded.content`,
		attachmentID, content)
	if err != nil {
		return fmt.Errorf("save fulltext for %d: %w", attachmentID, err)
	}
	return nil
}
