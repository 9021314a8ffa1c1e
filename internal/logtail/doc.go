// Package logtail reads and parses quill's own log file for the Log view.
//
// # Reading Log Files
//
// Read returns the last maxLines of a file using a ring buffer, so memory is
// bounded by maxLines rather than file size. A non-positive maxLines reads
// the whole file. A missing file is not an error; it yields no lines.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Parsing
//
// quill logs through slog's text handler:
//
//	time=2026-01-02T15:04:05.000Z level=WARN msg="mutation failed; rolled back" collection=articles slot=articles:3
//
// Parse splits such a line into time, level, message and the remaining
// attributes, unquoting values the handler quoted. Anything else (panics,
// stack traces, foreign output) comes back with only Raw set so the UI can
// still show it verbatim.
//
// AtLeast implements the level filter of the Log view.
package logtail
