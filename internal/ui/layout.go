package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutPreviewWidth is the minimum width to show the article preview pane.
	LayoutPreviewWidth = 90
)

// List and log limits.
const (
	// DefaultPageSize is used when Options.PageSize is unset.
	DefaultPageSize = 20

	// LogTailLines is the number of log lines kept for the Log view.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// MutationTimeout bounds one create, edit or delete request.
	MutationTimeout = 10 * time.Second

	// LoadTimeout bounds list and stats fetches.
	LoadTimeout = 5 * time.Second

	// StatusTTL is how long an info message stays on the status line.
	StatusTTL = 6 * time.Second
)
