// Package logging builds the structured logger shared by quill's components.
//
// The TUI owns the terminal, so records go to a file (see config.LogFile)
// rather than stderr. The Log view tails the same file through logtail.
// Components take a *slog.Logger explicitly; there is no package-level logger.
package logging
