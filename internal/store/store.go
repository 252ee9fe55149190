// Package store provides the in-memory article registry.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/btree"

	"github.com/hyperjump/oshiete/internal/models"
)

// viewItem orders articles by view count in the B-tree. The ID keeps items
// with equal view counts distinct.
type viewItem struct {
	ViewCount int
	ID        string
}

func viewItemLess(a, b viewItem) bool {
	if a.ViewCount != b.ViewCount {
		return a.ViewCount < b.ViewCount
	}
	return a.ID < b.ID
}

// Store is an in-memory article registry. Besides the primary map it keeps
// category, tag, and source posting sets for filtered lookups, and a B-tree
// ordered by view count for top-viewed and range scans.
type Store struct {
	mu         sync.RWMutex
	articles   map[string]*models.Article
	byCategory map[string]map[string]struct{}
	byTag      map[string]map[string]struct{}
	bySource   map[string]map[string]struct{}
	byViews    *btree.BTreeG[viewItem]
}

// New creates an empty store.
func New() *Store {
	return &Store{
		articles:   make(map[string]*models.Article),
		byCategory: make(map[string]map[string]struct{}),
		byTag:      make(map[string]map[string]struct{}),
		bySource:   make(map[string]map[string]struct{}),
		byViews:    btree.NewBTreeG[viewItem](viewItemLess),
	}
}

// Upsert inserts or replaces the article. The article must have an ID.
// UpdatedAt is set to now; CreatedAt is set on first insert only.
func (s *Store) Upsert(a *models.Article) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("article must have an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if old, ok := s.articles[a.ID]; ok {
		s.removePostings(old)
		if a.CreatedAt.IsZero() {
			a.CreatedAt = old.CreatedAt
		}
	} else if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	s.articles[a.ID] = a
	s.addPostings(a)
	return nil
}

// Get returns the article by ID.
func (s *Store) Get(id string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, fmt.Errorf("article not found: %s", id)
	}
	return a, nil
}

// Delete removes the article by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return fmt.Errorf("article not found: %s", id)
	}
	s.removePostings(a)
	delete(s.articles, id)
	return nil
}

// List returns articles ordered by ID, skipping offset and returning at most
// limit. A non-positive limit returns everything after offset.
func (s *Store) List(offset, limit int) []*models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.articles))
	for id := range s.articles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]*models.Article, len(ids))
	for i, id := range ids {
		out[i] = s.articles[id]
	}
	return out
}

// Count returns the number of articles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}

// All returns every article in unspecified order.
func (s *Store) All() []*models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		out = append(out, a)
	}
	return out
}

// FilterIDs returns the set of article IDs matching the category (when
// non-empty) and carrying every tag. Returns nil when no filter is given,
// meaning "no restriction".
func (s *Store) FilterIDs(category string, tags []string) map[string]struct{} {
	if category == "" && len(tags) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result map[string]struct{}
	if category != "" {
		result = copySet(s.byCategory[category])
	}
	for _, tag := range tags {
		tagSet := s.byTag[tag]
		if result == nil {
			result = copySet(tagSet)
			continue
		}
		for id := range result {
			if _, ok := tagSet[id]; !ok {
				delete(result, id)
			}
		}
	}
	if result == nil {
		result = make(map[string]struct{})
	}
	return result
}

// CategoryCounts returns the number of articles per category. Articles with
// no category are not counted.
func (s *Store) CategoryCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.byCategory))
	for cat, ids := range s.byCategory {
		out[cat] = len(ids)
	}
	return out
}

// TagCounts returns the number of articles per tag.
func (s *Store) TagCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.byTag))
	for tag, ids := range s.byTag {
		out[tag] = len(ids)
	}
	return out
}

// TopViewed returns up to n articles in descending view-count order. Ties
// break on ID so the order is stable.
func (s *Store) TopViewed(n int) []*models.Article {
	if n <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Article, 0, n)
	s.byViews.Descend(viewItem{ViewCount: int(^uint(0) >> 1)}, func(item viewItem) bool {
		if a, ok := s.articles[item.ID]; ok {
			out = append(out, a)
		}
		return len(out) < n
	})
	return out
}

// ViewedAtLeast returns how many articles have at least min views.
func (s *Store) ViewedAtLeast(min int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	s.byViews.Ascend(viewItem{ViewCount: min}, func(item viewItem) bool {
		count++
		return true
	})
	return count
}

// RemoveBySource removes every article loaded from source and returns their
// IDs, so callers can drop them from the vector and keyword indexes too.
func (s *Store) RemoveBySource(source string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.bySource[source]))
	for id := range s.bySource[source] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if a, ok := s.articles[id]; ok {
			s.removePostings(a)
			delete(s.articles, id)
		}
	}
	return ids
}

// IDsBySource returns the IDs of articles loaded from source.
func (s *Store) IDsBySource(source string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.bySource[source]))
	for id := range s.bySource[source] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close releases the store. It exists so the store can sit in the same
// shutdown path as the on-disk indexes.
func (s *Store) Close() error {
	return nil
}

// addPostings registers a in the secondary indexes. Caller holds the write lock.
func (s *Store) addPostings(a *models.Article) {
	if a.Category != "" {
		addToSet(s.byCategory, a.Category, a.ID)
	}
	for _, tag := range a.Tags {
		addToSet(s.byTag, tag, a.ID)
	}
	if a.Source != "" {
		addToSet(s.bySource, a.Source, a.ID)
	}
	s.byViews.Set(viewItem{ViewCount: a.ViewCount, ID: a.ID})
}

// removePostings drops a from the secondary indexes. Caller holds the write lock.
func (s *Store) removePostings(a *models.Article) {
	if a.Category != "" {
		removeFromSet(s.byCategory, a.Category, a.ID)
	}
	for _, tag := range a.Tags {
		removeFromSet(s.byTag, tag, a.ID)
	}
	if a.Source != "" {
		removeFromSet(s.bySource, a.Source, a.ID)
	}
	s.byViews.Delete(viewItem{ViewCount: a.ViewCount, ID: a.ID})
}

func addToSet(m map[string]map[string]struct{}, key, id string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}
	set[id] = struct{}{}
}

func removeFromSet(m map[string]map[string]struct{}, key, id string) {
	set, ok := m[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(m, key)
	}
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out
}
