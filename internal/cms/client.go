package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Backend is the subset of the CMS API used by the admin screens.
// It is implemented by *Client and by fakes in tests.
type Backend interface {
	ListArticles(ctx context.Context, query PageQuery) (Page[Article], error)
	CreateArticle(ctx context.Context, input ArticleInput) (*Article, error)
	UpdateArticle(ctx context.Context, id int64, input ArticleInput) (*Article, error)
	DeleteArticle(ctx context.Context, id int64) error

	ListAlbums(ctx context.Context, query PageQuery) (Page[Album], error)
	CreateAlbum(ctx context.Context, input AlbumInput) (*Album, error)
	UpdateAlbum(ctx context.Context, id int64, input AlbumInput) (*Album, error)
	DeleteAlbum(ctx context.Context, id int64) error

	ListPhotos(ctx context.Context, albumID int64, query PageQuery) (Page[Photo], error)
	CreatePhoto(ctx context.Context, albumID int64, input PhotoInput) (*Photo, error)
	UpdatePhoto(ctx context.Context, id int64, input PhotoInput) (*Photo, error)
	DeletePhoto(ctx context.Context, id int64) error

	FetchStats(ctx context.Context) (*Stats, error)
	FetchProfile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, input ProfileInput) (*Profile, error)
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the blog CMS HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultAPIURL    = "http://127.0.0.1:3000"
	defaultUserAgent = "quill/0.1"
	requestTimeout   = 10 * time.Second

	// RequestIDHeader carries the per-request identifier.
	RequestIDHeader = "X-Request-ID"
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the API at apiURL. token may be empty for
// anonymous access.
func NewClient(apiURL, token string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListArticles retrieves one page of articles, newest first.
func (c *Client) ListArticles(ctx context.Context, query PageQuery) (Page[Article], error) {
	var page Page[Article]
	if err := c.do(ctx, http.MethodGet, pagePath("/api/articles", query), nil, &page); err != nil {
		return Page[Article]{}, err
	}
	return page, nil
}

// CreateArticle creates an article and returns the stored entity.
func (c *Client) CreateArticle(ctx context.Context, input ArticleInput) (*Article, error) {
	var article Article
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/api/articles"}, input, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle patches an article.
func (c *Client) UpdateArticle(ctx context.Context, id int64, input ArticleInput) (*Article, error) {
	if id <= 0 {
		return nil, fmt.Errorf("article id required")
	}
	var article Article
	if err := c.do(ctx, http.MethodPatch, entityPath("/api/articles", id), input, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle deletes an article.
func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("article id required")
	}
	return c.do(ctx, http.MethodDelete, entityPath("/api/articles", id), nil, nil)
}

// ListAlbums retrieves one page of albums.
func (c *Client) ListAlbums(ctx context.Context, query PageQuery) (Page[Album], error) {
	var page Page[Album]
	if err := c.do(ctx, http.MethodGet, pagePath("/api/albums", query), nil, &page); err != nil {
		return Page[Album]{}, err
	}
	return page, nil
}

// CreateAlbum creates an album.
func (c *Client) CreateAlbum(ctx context.Context, input AlbumInput) (*Album, error) {
	var album Album
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/api/albums"}, input, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// UpdateAlbum patches an album.
func (c *Client) UpdateAlbum(ctx context.Context, id int64, input AlbumInput) (*Album, error) {
	if id <= 0 {
		return nil, fmt.Errorf("album id required")
	}
	var album Album
	if err := c.do(ctx, http.MethodPatch, entityPath("/api/albums", id), input, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// DeleteAlbum deletes an album and its photos.
func (c *Client) DeleteAlbum(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("album id required")
	}
	return c.do(ctx, http.MethodDelete, entityPath("/api/albums", id), nil, nil)
}

// ListPhotos retrieves one page of the photos in an album.
func (c *Client) ListPhotos(ctx context.Context, albumID int64, query PageQuery) (Page[Photo], error) {
	if albumID <= 0 {
		return Page[Photo]{}, fmt.Errorf("album id required")
	}
	var page Page[Photo]
	path := "/api/albums/" + strconv.FormatInt(albumID, 10) + "/photos"
	if err := c.do(ctx, http.MethodGet, pagePath(path, query), nil, &page); err != nil {
		return Page[Photo]{}, err
	}
	return page, nil
}

// CreatePhoto adds a photo to an album.
func (c *Client) CreatePhoto(ctx context.Context, albumID int64, input PhotoInput) (*Photo, error) {
	if albumID <= 0 {
		return nil, fmt.Errorf("album id required")
	}
	var photo Photo
	path := "/api/albums/" + strconv.FormatInt(albumID, 10) + "/photos"
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: path}, input, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

// UpdatePhoto patches a photo.
func (c *Client) UpdatePhoto(ctx context.Context, id int64, input PhotoInput) (*Photo, error) {
	if id <= 0 {
		return nil, fmt.Errorf("photo id required")
	}
	var photo Photo
	if err := c.do(ctx, http.MethodPatch, entityPath("/api/photos", id), input, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

// DeletePhoto deletes a photo.
func (c *Client) DeletePhoto(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("photo id required")
	}
	return c.do(ctx, http.MethodDelete, entityPath("/api/photos", id), nil, nil)
}

// FetchStats retrieves site statistics.
func (c *Client) FetchStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/stats"}, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchProfile retrieves the author profile.
func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/profile"}, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches the author profile.
func (c *Client) UpdateProfile(ctx context.Context, input ProfileInput) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodPatch, &url.URL{Path: "/api/profile"}, input, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp, requestID)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, requestID string) error {
	// "message" is either a string or a list of validation messages.
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)

	msg := payloadMessage(payload.Message)
	if msg == "" {
		msg = strings.TrimSpace(payload.Error)
	}
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg, RequestID: requestID}
}

func payloadMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

func pagePath(path string, query PageQuery) *url.URL {
	values := url.Values{}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(query.PageSize))
	}
	return &url.URL{Path: path, RawQuery: values.Encode()}
}

func entityPath(collection string, id int64) *url.URL {
	return &url.URL{Path: collection + "/" + strconv.FormatInt(id, 10)}
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
