package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
)

type markdownKey struct {
	width int
	style string
}

// markdownCache keeps one glamour renderer per width and base style.
// Renderers are expensive to build and the preview re-renders every frame.
type markdownCache struct {
	mu        sync.Mutex
	renderers map[markdownKey]*glamour.TermRenderer
}

// reset drops every cached renderer, e.g. after a theme change.
func (c *markdownCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderers = nil
}

// render renders input as markdown wrapped to width. On any renderer error
// the raw input is returned.
func (c *markdownCache) render(input string, width int, style string) string {
	input = strings.TrimRight(input, "\n")
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := c.renderer(width, style)
	if r == nil {
		return input
	}
	out, err := r.Render(input)
	if err != nil {
		return input
	}
	out = strings.TrimRight(out, "\n")
	out = xansi.Hardwrap(out, width, true)
	return strings.TrimRight(out, "\n")
}

func (c *markdownCache) renderer(width int, style string) *glamour.TermRenderer {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := markdownKey{width: width, style: style}
	if r, ok := c.renderers[k]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	if c.renderers == nil {
		c.renderers = make(map[markdownKey]*glamour.TermRenderer)
	}
	c.renderers[k] = r
	return r
}

func markdownStyleConfig(style string) glamouransi.StyleConfig {
	base := styles.DarkStyleConfig
	if style == "light" {
		base = styles.LightStyleConfig
	}
	// The preview box supplies its own padding.
	base.Document.StylePrimitive.BlockPrefix = ""
	base.Document.StylePrimitive.BlockSuffix = ""
	zero := uint(0)
	base.Document.Margin = &zero
	return base
}
