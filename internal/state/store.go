package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/optimistic"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Articles            cms.Page[cms.Article]
	HasArticles         bool
	Stats               cms.Stats
	HasStats            bool
	Profile             cms.Profile
	HasProfile          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. It also owns the
// confirmed articles page, which the articles screen edits through
// ArticleSource.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a stats/profile poll. When err is non-nil the previous data
// is kept but the error is recorded for visibility. A nil stats or profile
// leaves that part unchanged.
func (s *Store) Update(stats *cms.Stats, profile *cms.Profile, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if stats != nil {
		s.snapshot.Stats = *stats
		s.snapshot.HasStats = true
	}
	if profile != nil {
		s.snapshot.Profile = *profile
		s.snapshot.HasProfile = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// SetArticlesPage stores a freshly fetched articles page.
func (s *Store) SetArticlesPage(page cms.Page[cms.Article]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page.Items = cloneArticles(page.Items)
	s.snapshot.Articles = page
	s.snapshot.HasArticles = true
}

// Articles returns a copy of the confirmed articles on the current page.
func (s *Store) Articles() []cms.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneArticles(s.snapshot.Articles.Items)
}

// SetArticles replaces the confirmed articles on the current page. Total is
// shifted by the change in length so creates and deletes show up in the page
// count before the next refetch.
func (s *Store) SetArticles(items []cms.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delta := len(items) - len(s.snapshot.Articles.Items)
	s.snapshot.Articles.Items = cloneArticles(items)
	s.snapshot.Articles.Total = max(s.snapshot.Articles.Total+delta, len(items))
	s.snapshot.HasArticles = true
}

// ArticleSource exposes the confirmed articles to optimistic.NewDelegatedStore.
func (s *Store) ArticleSource() optimistic.Source[cms.Article] {
	return optimistic.Source[cms.Article]{
		Value:    s.Articles,
		OnChange: s.SetArticles,
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Articles.Items = cloneArticles(s.snapshot.Articles.Items)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneArticles(items []cms.Article) []cms.Article {
	if len(items) == 0 {
		return nil
	}
	dup := make([]cms.Article, len(items))
	copy(dup, items)
	return dup
}
