// Package ui implements the Bubble Tea admin console.
//
// Each list view (articles, albums, photos) renders an admin.Collection, so
// creates, edits and deletes show up immediately and roll back when the
// CMS rejects them. Requests run as tea.Cmds; their results come back as
// messages and are settled on the UI goroutine, which keeps rendering and
// state changes on one thread.
package ui
