// Package app provides the orchestration layer for quill.
//
// # Overview
//
// This package is the composition root: it loads configuration, opens the
// log file, builds the CMS client and the optimistic collections, fills the
// first pages, starts the poller, and hands everything to the UI.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        TOML + QUILL_* env
//	       ├─────> logging.New()        slog text handler on the log file
//	       ├─────> prefs.Load()         theme, start view
//	       ├─────> cms.NewClient()      REST client
//	       ├─────> newScreens()         articles (delegated), albums, photos
//	       ├─────> bootstrap()          first articles + albums page
//	       ├─────> StartPoller()        stats + profile refresh
//	       └─────> ui.Run()             TUI (blocks)
//
// # Ownership
//
// The articles collection is built over a delegated store whose confirmed
// rows live in state.Store, next to the page metadata the header shows.
// Albums and photos own their rows; photos are reset whenever the UI opens
// a different album.
//
// # Polling Behavior
//
// The poller fetches stats and the profile every PollInterval (default 5
// seconds). After a failure the next wait doubles per consecutive failure,
// capped at 30 seconds, and drops back to the base interval after the next
// success. Poll errors are logged and recorded in the store; they never stop
// the loop.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - invalid config file or environment
//   - log file cannot be opened
//   - invalid API URL
//
// Recoverable errors:
//   - initial page load failure (shown in the header; r refetches)
//   - poll failures (backoff)
//   - mutation failures (rolled back by the collection, reported by the UI)
package app
