// Package admin adapts the optimistic list model to the CMS admin screens.
//
// # Overview
//
// Each screen (articles, albums, photos) owns one Collection. A Collection
// wraps an optimistic.List keyed by entity id and reduced by Reduce, which
// understands three kinds of change:
//
//   - Create: the provisional entity (negative optimistic.TempID) is
//     prepended and flagged as loading.
//   - Edit: the entity with the same id is replaced in place and flagged as
//     loading.
//   - Delete: the row stays where it is and is flagged as deleting.
//
// # Slots
//
// Mutations are tracked per slot. SlotFor names them "<collection>:new" for
// creates and "<collection>:<id>" for edits and deletes, so an edit of one row
// never blocks a delete of another. Begin returns ErrBusy when the slot is
// already taken; the UI shows that as a status message instead of stacking a
// second request.
//
// # Lifecycle
//
//	slot, err := articles.Begin(admin.Mutation[cms.Article]{Kind: admin.Edit, Entity: edited})
//	// ... issue the request ...
//	articles.Resolve(slot, m, admin.Outcome[cms.Article]{Entity: saved, Err: err})
//
// Resolve maps the outcome onto a confirmed-state command:
//
//	create/edit ok  -> optimistic.Update{server entity}
//	delete ok       -> optimistic.Remove{entity}
//	any error       -> rollback, logged at warn
//
// Run does all three steps synchronously for callers that are not driven by
// an event loop.
//
// # Refetch
//
// Reset replaces the confirmed rows after a page load. It returns ErrBusy
// while any mutation is pending so a result is never folded into a page it
// was not issued against.
package admin
