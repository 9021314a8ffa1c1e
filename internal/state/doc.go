// Package state provides thread-safe state shared between quill's poller,
// bootstrap code, and UI.
//
// # Overview
//
// The Store holds two kinds of data:
//
//   - Polled data: site statistics and the author profile, refreshed by the
//     app poller through Update.
//   - The confirmed articles page: fetched with SetArticlesPage and edited
//     by the articles screen.
//
// # Articles Ownership
//
// The articles screen does not keep its own copy of the confirmed rows.
// Instead the app builds a delegated optimistic store over ArticleSource:
//
//	confirmed := optimistic.NewDelegatedStore(store.ArticleSource())
//
// Reads go through Articles and confirmed writes land in SetArticles, so the
// header counters and the list always agree. SetArticles also shifts Total
// by the change in length so the pager reflects creates and deletes before
// the next refetch.
//
// # Update Semantics
//
//	// Success: replace what was fetched, clear the error
//	store.Update(&stats, &profile, nil)
//
//	// Failure: keep old data, record the error, count the failure
//	store.Update(nil, nil, err)
//
// Two or more consecutive failures mark the snapshot offline (IsOffline),
// which the header shows instead of stale counters.
//
// # Defensive Copying
//
// Snapshot, Articles, and the setters copy the article slice so neither
// side can mutate the other's view. The error is re-wrapped so callers
// cannot compare against the stored instance.
//
// The zero Store is ready to use.
package state
