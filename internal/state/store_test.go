package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/optimistic"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	s.SetArticlesPage(cms.Page[cms.Article]{Items: []cms.Article{{ID: 1}, {ID: 2}}, Total: 2, Page: 1, PageSize: 20})
	before := time.Now()
	s.Update(&cms.Stats{Articles: 2, Views: 10}, &cms.Profile{Name: "Ada"}, nil)

	snap := s.Snapshot()
	if !snap.HasStats || snap.Stats.Views != 10 {
		t.Fatalf("snapshot stats = %#v, want views=10 HasStats=true", snap.Stats)
	}
	if !snap.HasProfile || snap.Profile.Name != "Ada" {
		t.Fatalf("snapshot profile = %#v, want Ada", snap.Profile)
	}
	if len(snap.Articles.Items) != 2 || snap.Articles.Items[0].ID != 1 {
		t.Fatalf("snapshot articles = %#v, want 2 items", snap.Articles.Items)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Articles.Items[0].ID = 999
	snap2 := s.Snapshot()
	if snap2.Articles.Items[0].ID != 1 {
		t.Fatalf("Snapshot should clone articles; got id %d want 1", snap2.Articles.Items[0].ID)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(&cms.Stats{Views: 1}, nil, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, nil, origErr)

	snap := s.Snapshot()
	if snap.HasStats != prev.HasStats || snap.Stats.Views != prev.Stats.Views {
		t.Fatalf("stats changed on error: got %#v want %#v", snap.Stats, prev.Stats)
	}
	if snap.HasProfile {
		t.Fatalf("HasProfile = true, want false")
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("zero store = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	for i := 1; i <= 3; i++ {
		s.Update(nil, nil, errors.New("fail"))
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i)
		}
		if snap.IsOffline() != (i >= 2) {
			t.Fatalf("IsOffline() = %v after %d failures", snap.IsOffline(), i)
		}
	}

	// Success resets counter
	s.Update(&cms.Stats{}, nil, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after success")
	}
}

func TestStore_SetArticlesTracksTotal(t *testing.T) {
	var s Store
	s.SetArticlesPage(cms.Page[cms.Article]{Items: []cms.Article{{ID: 1}, {ID: 2}}, Total: 25, Page: 1, PageSize: 2})

	s.SetArticles([]cms.Article{{ID: 3}, {ID: 1}, {ID: 2}})
	if got := s.Snapshot().Articles.Total; got != 26 {
		t.Fatalf("Total = %d, want 26 after create", got)
	}

	s.SetArticles([]cms.Article{{ID: 3}})
	if got := s.Snapshot().Articles.Total; got != 24 {
		t.Fatalf("Total = %d, want 24 after two deletes", got)
	}
}

func TestStore_ArticleSourceBacksDelegatedStore(t *testing.T) {
	var s Store
	s.SetArticlesPage(cms.Page[cms.Article]{Items: []cms.Article{{ID: 1, Title: "a"}}, Total: 1})

	confirmed := optimistic.NewDelegatedStore(s.ArticleSource())
	dispatcher := optimistic.NewDispatcher(confirmed, optimistic.ByID[cms.Article, int64], nil)

	dispatcher.Update(cms.Article{ID: 1, Title: "b"})
	dispatcher.Update(cms.Article{ID: 2, Title: "c"})

	got := s.Articles()
	if len(got) != 2 || got[0].ID != 2 || got[1].Title != "b" {
		t.Fatalf("Articles = %#v, want [2 c] [1 b]", got)
	}
	if snap := s.Snapshot(); snap.Articles.Total != 2 {
		t.Fatalf("Total = %d, want 2", snap.Articles.Total)
	}

	// Writes made directly to the store are what the delegated store reads.
	s.SetArticlesPage(cms.Page[cms.Article]{Items: []cms.Article{{ID: 9}}})
	if view := confirmed.Get(); len(view) != 1 || view[0].ID != 9 {
		t.Fatalf("delegated Get = %#v, want [9]", view)
	}
}
