package ui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/admin"
	"github.com/five82/quill/internal/cms"
)

// editTarget identifies the row an editor or confirm dialog acts on. id is
// zero for creates.
type editTarget struct {
	view View
	kind admin.Kind
	id   int64
}

func (t editTarget) noun() string {
	switch t.view {
	case ViewArticles:
		return "article"
	case ViewAlbums:
		return "album"
	case ViewPhotos:
		return "photo"
	case ViewStats:
		return "profile"
	default:
		return "item"
	}
}

// editorSubmitMsg carries validated editor values keyed by field name.
type editorSubmitMsg struct {
	target editTarget
	values map[string]string
}

type fieldDef struct {
	name     string
	label    string
	required bool
}

var editorFields = map[View][]fieldDef{
	ViewArticles: {
		{name: "title", label: "Title", required: true},
		{name: "slug", label: "Slug"},
		{name: "summary", label: "Summary"},
		{name: "tags", label: "Tags"},
		{name: "content", label: "Content"},
	},
	ViewAlbums: {
		{name: "title", label: "Title", required: true},
		{name: "description", label: "Description"},
		{name: "cover", label: "Cover URL"},
	},
	ViewPhotos: {
		{name: "url", label: "URL", required: true},
		{name: "title", label: "Title"},
	},
	ViewStats: {
		{name: "name", label: "Name", required: true},
		{name: "website", label: "Website"},
		{name: "bio", label: "Bio"},
	},
}

type editorField struct {
	def  fieldDef
	input textinput.Model
}

// editorModal is the create and edit form for one row.
type editorModal struct {
	target editTarget
	fields []editorField
	focus  int
	err    string
}

// newEditor builds the form for target, prefilled from initial.
func newEditor(target editTarget, initial map[string]string) *editorModal {
	defs := editorFields[target.view]
	e := &editorModal{target: target, fields: make([]editorField, 0, len(defs))}
	for _, def := range defs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = strings.ToLower(def.label)
		in.CharLimit = 0
		in.SetValue(initial[def.name])
		e.fields = append(e.fields, editorField{def: def, input: in})
	}
	e.setFocus(0)
	return e
}

func (e *editorModal) setFocus(i int) {
	if len(e.fields) == 0 {
		return
	}
	i = (i + len(e.fields)) % len(e.fields)
	for idx := range e.fields {
		if idx == i {
			e.fields[idx].input.Focus()
		} else {
			e.fields[idx].input.Blur()
		}
	}
	e.focus = i
}

func (e *editorModal) values() map[string]string {
	out := make(map[string]string, len(e.fields))
	for _, f := range e.fields {
		out[f.def.name] = f.input.Value()
	}
	return out
}

func (e *editorModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Cancel):
		return e, nil, true
	case key.Matches(keyMsg, keys.Confirm):
		values, err := validateEditor(e.target.view, e.values())
		if err != nil {
			e.err = err.Error()
			return e, nil, false
		}
		target := e.target
		return e, func() tea.Msg { return editorSubmitMsg{target: target, values: values} }, true
	case key.Matches(keyMsg, keys.NextField):
		e.setFocus(e.focus + 1)
		return e, nil, false
	case key.Matches(keyMsg, keys.PrevField):
		e.setFocus(e.focus - 1)
		return e, nil, false
	}

	if len(e.fields) == 0 {
		return e, nil, false
	}
	var cmd tea.Cmd
	e.fields[e.focus].input, cmd = e.fields[e.focus].input.Update(keyMsg)
	e.err = ""
	return e, cmd, false
}

func (e *editorModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	boxWidth := min(max(width-10, 30), 72)
	inputWidth := boxWidth - 18

	var b strings.Builder
	verb := "New"
	if e.target.kind == admin.Edit {
		verb = "Edit"
	}
	b.WriteString(styles.Text.Bold(true).Render(verb + " " + e.target.noun()))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color(theme.Muted))
	focusLabel := labelStyle.Foreground(lipgloss.Color(theme.Accent)).Bold(true)
	for i, f := range e.fields {
		label := f.def.label
		if f.def.required {
			label += "*"
		}
		ls := labelStyle
		if i == e.focus {
			ls = focusLabel
		}
		in := f.input
		in.Width = inputWidth
		b.WriteString(ls.Render(label))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if e.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(e.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(" save   ") +
		styles.AccentText.Render("tab") + styles.MutedText.Render(" next   ") +
		styles.AccentText.Render("esc") + styles.MutedText.Render(" cancel"))

	return placeModal(theme, width, height, boxWidth, b.String())
}

// validateEditor trims values and checks them for view. It fills a missing
// article slug from the title.
func validateEditor(view View, values map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = strings.TrimSpace(v)
	}

	var problems []string
	for _, def := range editorFields[view] {
		if def.required && out[def.name] == "" {
			problems = append(problems, def.label+" is required")
		}
	}

	switch view {
	case ViewArticles:
		if out["slug"] == "" {
			out["slug"] = slugify(out["title"])
		} else if slugify(out["slug"]) != out["slug"] {
			problems = append(problems, "Slug may only contain a-z, 0-9 and dashes")
		}
	case ViewAlbums:
		if cover := out["cover"]; cover != "" && !isHTTPURL(cover) {
			problems = append(problems, "Cover URL must be an http(s) URL")
		}
	case ViewPhotos:
		if u := out["url"]; u != "" && !isHTTPURL(u) {
			problems = append(problems, "URL must be an http(s) URL")
		}
	case ViewStats:
		if site := out["website"]; site != "" && !isHTTPURL(site) {
			problems = append(problems, "Website must be an http(s) URL")
		}
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}
	return out, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Editor values to API inputs and back.

func articleValues(a cms.Article) map[string]string {
	return map[string]string{
		"title":   a.Title,
		"slug":    a.Slug,
		"summary": a.Summary,
		"tags":    strings.Join(a.Tags, ", "),
		"content": a.Content,
	}
}

func articleInput(values map[string]string) cms.ArticleInput {
	return cms.ArticleInput{
		Title:   cms.String(values["title"]),
		Slug:    cms.String(values["slug"]),
		Summary: cms.String(values["summary"]),
		Content: cms.String(values["content"]),
		Tags:    cms.Tags(cms.SplitTags(values["tags"])),
	}
}

func albumValues(a cms.Album) map[string]string {
	return map[string]string{
		"title":       a.Title,
		"description": a.Description,
		"cover":       a.Cover,
	}
}

func albumInput(values map[string]string) cms.AlbumInput {
	return cms.AlbumInput{
		Title:       cms.String(values["title"]),
		Description: cms.String(values["description"]),
		Cover:       cms.String(values["cover"]),
	}
}

func photoValues(p cms.Photo) map[string]string {
	return map[string]string{
		"title": p.Title,
		"url":   p.URL,
	}
}

func photoInput(values map[string]string) cms.PhotoInput {
	return cms.PhotoInput{
		Title: cms.String(values["title"]),
		URL:   cms.String(values["url"]),
	}
}

func profileValues(p cms.Profile) map[string]string {
	return map[string]string{
		"name":    p.Name,
		"website": p.Website,
		"bio":     p.Bio,
	}
}

func profileInput(values map[string]string) cms.ProfileInput {
	return cms.ProfileInput{
		Name:    cms.String(values["name"]),
		Website: cms.String(values["website"]),
		Bio:     cms.String(values["bio"]),
	}
}

func (t editTarget) String() string {
	if t.kind == admin.Create || t.view == ViewStats {
		return fmt.Sprintf("%s %s", t.kind, t.noun())
	}
	return fmt.Sprintf("%s %s %d", t.kind, t.noun(), t.id)
}
