// Package optimistic implements the confirmed/optimistic list model used by
// quill's admin screens.
//
// # Overview
//
// A screen shows a list of entities (articles, albums, photos). When the
// operator creates, edits, or deletes an entity the screen shows the expected
// result immediately, runs the real request in the background, and then either
// folds the server's answer into the list or drops the optimistic change.
//
// # Layers
//
//	Store       last confirmed array (Owned or Delegated)
//	Project     confirmed + pending mutation -> provisional view
//	Dispatcher  Update / Remove / BatchUpdate / Rollback, the only writer
//	UpdateArray / RemoveArray  key-based reconciliation
//	List        binds the above with per-slot pending mutations
//
// # Lifecycle
//
//	IDLE --Apply--> PENDING --Resolve(Update|Remove)--> IDLE
//	                PENDING --Discard (Rollback)------> IDLE
//
// A slot holds at most one pending mutation; applying another one to the same
// slot replaces it. Resolve clears the slot and writes the confirmed state in
// one critical section, so a view never contains an optimistic entry next to
// the entity that replaced it.
//
// # Keys
//
// UpdateArray and RemoveArray match entities through a KeyFunc, ByID by
// default. Distinct entities that share a key (including the zero key) are
// merged last-write-wins; the Dispatcher logs a warning for zero keys but does
// not reject them.
//
// # Usage
//
//	store := optimistic.NewOwnedStore(page.Items)
//	list := optimistic.NewList(store, optimistic.ByID[cms.Album, int64], reduce, logger)
//
//	err := list.Mutate(ctx, "album:new", mutation, func(ctx context.Context) (optimistic.Command[cms.Album], error) {
//		created, err := client.CreateAlbum(ctx, input)
//		if err != nil {
//			return nil, err
//		}
//		return optimistic.Update[cms.Album]{Entity: *created}, nil
//	})
//
// Nothing in this package returns an error or performs I/O; failures are
// reported by callers through Discard or Rollback.
package optimistic
