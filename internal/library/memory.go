package library

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Store used by tests and the demo server.
type MemStore struct {
	mu          sync.RWMutex
	nextID      int64
	records     map[int64]*Record
	attachments map[int64]*Attachment
	tags        map[int64][]string
	fulltext    map[int64]string
}

// NewMemStore returns an empty in-memory library.
func NewMemStore() *MemStore {
	return &MemStore{
		records:     make(map[int64]*Record),
		attachments: make(map[int64]*Attachment),
		tags:        make(map[int64][]string),
		fulltext:    make(map[int64]string),
	}
}

// AddRecord stores a record and returns its assigned ID.
func (m *MemStore) AddRecord(rec *Record) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	m.records[rec.ID] = rec
	return rec.ID
}

// AddAttachment stores an attachment and returns its assigned ID.
func (m *MemStore) AddAttachment(att *Attachment) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	att.ID = m.nextID
	m.attachments[att.ID] = att
	return att.ID
}

// SetFullText stores extracted text for an attachment.
func (m *MemStore) SetFullText(attachmentID int64, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fulltext[attachmentID] = content
}

func (m *MemStore) Items(ctx context.Context, ids []int64) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		if rec, ok := m.records[id]; ok {
			items = append(items, Item{Record: rec})
			continue
		}
		if att, ok := m.attachments[id]; ok {
			items = append(items, Item{Attachment: att})
		}
	}
	return items, nil
}

func (m *MemStore) AllRecordIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *MemStore) Record(ctx context.Context, id int64) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[id], nil
}

func (m *MemStore) Attachments(ctx context.Context, recordID int64) ([]*Attachment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var atts []*Attachment
	for _, att := range m.attachments {
		if att.ParentID == recordID {
			atts = append(atts, att)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].ID < atts[j].ID })
	return atts, nil
}

func (m *MemStore) Tags(ctx context.Context, itemID int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]string, len(m.tags[itemID]))
	copy(tags, m.tags[itemID])
	return tags, nil
}

func (m *MemStore) AddTags(ctx context.Context, itemID int64, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := make(map[string]bool, len(m.tags[itemID]))
	for _, t := range m.tags[itemID] {
		existing[t] = true
	}
	for _, t := range tags {
		if !existing[t] {
			m.tags[itemID] = append(m.tags[itemID], t)
			existing[t] = true
		}
	}
	return nil
}

func (m *MemStore) FullText(ctx context.Context, attachmentID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fulltext[attachmentID], nil
}
