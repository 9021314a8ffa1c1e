package cms

import (
	"strings"
	"time"
)

// Article mirrors the article payload of /api/articles.
type Article struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
	Views     int64    `json:"views"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`

	// Loading marks an optimistic row whose request is in flight.
	Loading bool `json:"-"`
	// Deleting marks a row whose delete request is in flight.
	Deleting bool `json:"-"`
}

// EntityID implements optimistic.Identified.
func (a Article) EntityID() int64 { return a.ID }

// AsPending returns a copy flagged as in flight.
func (a Article) AsPending() Article {
	a.Loading = true
	return a
}

// AsDeleting returns a copy flagged as being deleted.
func (a Article) AsDeleting() Article {
	a.Deleting = true
	return a
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (a Article) ParsedUpdatedAt() time.Time {
	return parseTime(a.UpdatedAt)
}

// Status returns the publication label used by list views.
func (a Article) Status() string {
	switch {
	case a.Deleting:
		return "deleting"
	case a.Loading:
		return "saving"
	case a.Published:
		return "published"
	default:
		return "draft"
	}
}

// Album mirrors /api/albums entries.
type Album struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
	PhotoCount  int    `json:"photoCount"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`

	Loading  bool `json:"-"`
	Deleting bool `json:"-"`
}

// EntityID implements optimistic.Identified.
func (a Album) EntityID() int64 { return a.ID }

// AsPending returns a copy flagged as in flight.
func (a Album) AsPending() Album {
	a.Loading = true
	return a
}

// AsDeleting returns a copy flagged as being deleted.
func (a Album) AsDeleting() Album {
	a.Deleting = true
	return a
}

// Photo mirrors /api/albums/{id}/photos entries.
type Photo struct {
	ID        int64  `json:"id"`
	AlbumID   int64  `json:"albumId"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`

	Loading  bool `json:"-"`
	Deleting bool `json:"-"`
}

// EntityID implements optimistic.Identified.
func (p Photo) EntityID() int64 { return p.ID }

// AsPending returns a copy flagged as in flight.
func (p Photo) AsPending() Photo {
	p.Loading = true
	return p
}

// AsDeleting returns a copy flagged as being deleted.
func (p Photo) AsDeleting() Photo {
	p.Deleting = true
	return p
}

// Stats mirrors /api/stats.
type Stats struct {
	Articles  int   `json:"articles"`
	Published int   `json:"published"`
	Albums    int   `json:"albums"`
	Photos    int   `json:"photos"`
	Views     int64 `json:"views"`
	Visitors  int64 `json:"visitors"`
}

// Profile mirrors /api/profile.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Bio     string `json:"bio"`
	Avatar  string `json:"avatar"`
	Website string `json:"website"`
}

// Page is one page of a paginated list response.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Pages returns the number of pages implied by Total and PageSize.
func (p Page[T]) Pages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// PageQuery selects a page of a list endpoint. Page is 1-based.
type PageQuery struct {
	Page     int
	PageSize int
}

// ArticleInput is the body of article create and update requests. Nil
// pointers are omitted so updates only patch the given fields. A non-nil
// Tags pointing at an empty list clears the article's tags.
type ArticleInput struct {
	Title     *string   `json:"title,omitempty"`
	Slug      *string   `json:"slug,omitempty"`
	Summary   *string   `json:"summary,omitempty"`
	Content   *string   `json:"content,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Published *bool     `json:"published,omitempty"`
}

// Apply returns a copy of article with the input's fields patched in.
func (in ArticleInput) Apply(article Article) Article {
	if in.Title != nil {
		article.Title = *in.Title
	}
	if in.Slug != nil {
		article.Slug = *in.Slug
	}
	if in.Summary != nil {
		article.Summary = *in.Summary
	}
	if in.Content != nil {
		article.Content = *in.Content
	}
	if in.Tags != nil {
		article.Tags = append([]string{}, (*in.Tags)...)
	}
	if in.Published != nil {
		article.Published = *in.Published
	}
	return article
}

// AlbumInput is the body of album create and update requests.
type AlbumInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Cover       *string `json:"cover,omitempty"`
}

// Apply returns a copy of album with the input's fields patched in.
func (in AlbumInput) Apply(album Album) Album {
	if in.Title != nil {
		album.Title = *in.Title
	}
	if in.Description != nil {
		album.Description = *in.Description
	}
	if in.Cover != nil {
		album.Cover = *in.Cover
	}
	return album
}

// PhotoInput is the body of photo create and update requests.
type PhotoInput struct {
	Title *string `json:"title,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// Apply returns a copy of photo with the input's fields patched in.
func (in PhotoInput) Apply(photo Photo) Photo {
	if in.Title != nil {
		photo.Title = *in.Title
	}
	if in.URL != nil {
		photo.URL = *in.URL
	}
	return photo
}

// ProfileInput is the body of profile update requests.
type ProfileInput struct {
	Name    *string `json:"name,omitempty"`
	Bio     *string `json:"bio,omitempty"`
	Website *string `json:"website,omitempty"`
}

// String returns a pointer to s, for building inputs.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building inputs.
func Bool(b bool) *bool { return &b }

// Tags returns a pointer to tags for building inputs. A nil list becomes an
// empty one so it still reaches the server as "tags": [].
func Tags(tags []string) *[]string {
	if tags == nil {
		tags = []string{}
	}
	return &tags
}

// SplitTags parses a comma separated tag list, dropping blanks.
func SplitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
