package ui

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "hello", truncate("  hello  ", 10))
	require.Equal(t, "hell…", truncate("hello world", 5))
	require.Equal(t, "h", truncate("hello", 1))
	require.Equal(t, "", truncate("hello", 0))
	// Wide runes count as two cells.
	require.Equal(t, "日本…", truncate("日本語テキスト", 5))
}

func TestTruncateMiddle(t *testing.T) {
	require.Equal(t, "/short", truncateMiddle("/short", 20))
	got := truncateMiddle("/home/user/.local/state/quill/quill.log", 20)
	require.LessOrEqual(t, len([]rune(got)), 20)
	require.Contains(t, got, "…")
	require.True(t, len(got) > 0 && got[0] == '/')
	require.Contains(t, got, "quill.log")
}

func TestSlugifyAndTitleCase(t *testing.T) {
	require.Equal(t, "hello-world", slugify("Hello, World!"))
	require.Equal(t, "a-b-c", slugify("--a  b__c--"))
	require.Equal(t, "", slugify("!!!"))

	require.Equal(t, "Create Article", titleCase("create article"))
	require.Equal(t, "Needs Review", titleCase("needs_review"))
	require.Equal(t, "", titleCase("  "))
}

func TestPadRight(t *testing.T) {
	require.Equal(t, "ab  ", padRight("ab", 4))
	require.Equal(t, "abcdef", padRight("abcdef", 4))
}

func TestThemes(t *testing.T) {
	require.Equal(t, "Nightfox", GetTheme("missing").Name)
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		require.Equal(t, name, theme.Name)
		for _, status := range []string{"draft", "published", "saving", "deleting", "ready"} {
			require.NotEmpty(t, theme.StatusColors[status], "%s/%s", name, status)
		}
	}

	seen := map[string]bool{}
	name := ThemeNames()[0]
	for range ThemeNames() {
		seen[name] = true
		name = NextTheme(name)
	}
	require.Len(t, seen, len(ThemeNames()))
	require.Equal(t, ThemeNames()[0], name)
	require.Equal(t, ThemeNames()[0], NextTheme("unknown"))
}

func TestMarkdownCache(t *testing.T) {
	cache := &markdownCache{}
	out := xansi.Strip(cache.render("# Title\n\nSome *body* text.", 40, "dark"))
	require.Contains(t, out, "Title")
	require.Contains(t, out, "body")
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, xansi.StringWidth(line), 40)
	}
	require.Len(t, cache.renderers, 1)

	cache.render("again", 40, "dark")
	require.Len(t, cache.renderers, 1)

	cache.reset()
	require.Empty(t, cache.renderers)
	require.Equal(t, "", cache.render("\n\n", 40, "dark"))
}

func TestCopyToClipboard_FallsBackToOSC52(t *testing.T) {
	origSystem, origOSC := clipboardWriteAll, clipboardWriteOSC52
	t.Cleanup(func() { clipboardWriteAll, clipboardWriteOSC52 = origSystem, origOSC })

	var oscText string
	clipboardWriteAll = func(string) error { return errors.New("exit status 1") }
	clipboardWriteOSC52 = func(text string) error { oscText = text; return nil }

	method, err := copyToClipboard("hello")
	require.NoError(t, err)
	require.Equal(t, "OSC52", method)
	require.Equal(t, "hello", oscText)

	clipboardWriteOSC52 = func(string) error { return errors.New("no tty") }
	_, err = copyToClipboard("hello")
	require.ErrorContains(t, err, "OSC52 fallback failed: no tty")

	clipboardWriteAll = func(string) error { return nil }
	method, err = copyToClipboard("hello")
	require.NoError(t, err)
	require.Equal(t, "clipboard", method)
}

func TestWriteOSC52Sequence(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf bytes.Buffer
	require.NoError(t, writeOSC52Sequence(&buf, "quill"))
	require.Contains(t, buf.String(), "\x1b]52;c;"+base64.StdEncoding.EncodeToString([]byte("quill")))
}

func TestShouldAttemptOSC52(t *testing.T) {
	t.Setenv("TERM", "xterm")
	t.Setenv("QUILL_DISABLE_OSC52", "")
	require.True(t, shouldAttemptOSC52())

	t.Setenv("QUILL_DISABLE_OSC52", "yes")
	require.False(t, shouldAttemptOSC52())

	t.Setenv("QUILL_DISABLE_OSC52", "")
	t.Setenv("TERM", "dumb")
	require.False(t, shouldAttemptOSC52())
}

func TestFormatLogs_FiltersByLevel(t *testing.T) {
	m := New(Options{})
	m.logViewport.Width = 120
	m.logState.lines = []string{
		`time=2026-10-19T10:00:00.000Z level=INFO msg="quill starting" component=app`,
		`time=2026-10-19T10:00:01.000Z level=WARN msg="mutation failed; rolled back" collection=albums slot=albums:4`,
		`not a record`,
	}

	m.logState.minLevel = "warn"
	out := xansi.Strip(m.formatLogs())
	require.NotContains(t, out, "quill starting")
	require.Contains(t, out, "10:00:01")
	require.Contains(t, out, "mutation failed; rolled back")
	require.Contains(t, out, "slot=albums:4")
	require.Contains(t, out, "not a record")

	m.logState.minLevel = nextLogLevel("error")
	require.Equal(t, "debug", m.logState.minLevel)
	require.Contains(t, xansi.Strip(m.formatLogs()), "quill starting")
}

func TestClassifyConnectionError(t *testing.T) {
	require.Equal(t, "", classifyConnectionError(nil))
	require.Equal(t, "OFFLINE", classifyConnectionError(errors.New("dial tcp: connection refused")))
	require.Equal(t, "HOST NOT FOUND", classifyConnectionError(errors.New("lookup cms: no such host")))
	require.Equal(t, "TIMEOUT", classifyConnectionError(errors.New("context deadline exceeded")))
	require.Equal(t, "ERROR", classifyConnectionError(errors.New("boom")))
}
