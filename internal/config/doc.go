// Package config loads quill's configuration.
//
// # Resolution Order
//
// Values are resolved in this order, later sources winning:
//
//  1. Built-in defaults
//  2. ~/.config/quill/config.toml, or the path passed to Load
//  3. QUILL_* environment variables
//  4. Command-line flags, applied by cmd/quill after Load returns
//
// A missing config file is not an error; Load returns defaults instead so
// quill works against a local CMS without any setup.
//
// # Default Values
//
//   - api_url: http://127.0.0.1:3000
//   - page_size: 20 (clamped to 100)
//   - poll_seconds: 5
//   - log_file: ~/.local/state/quill/quill.log
//   - log_level: info
//
// # TOML Format
//
//	api_url = "https://blog.example.com"
//	token = "..."
//	page_size = 20
//	poll_seconds = 5
//	log_file = "~/.local/state/quill/quill.log"
//	log_level = "debug"
//
// # Environment
//
// QUILL_API_URL, QUILL_TOKEN, QUILL_PAGE_SIZE, QUILL_LOG_FILE and
// QUILL_LOG_LEVEL override the matching file keys. Empty variables are
// ignored. A QUILL_PAGE_SIZE that is not an integer fails Load.
//
// # Path Expansion
//
// The config path and log_file accept "~" and relative paths; both are
// returned absolute.
package config
