package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/quill/internal/admin"
	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/config"
	"github.com/five82/quill/internal/logging"
	"github.com/five82/quill/internal/optimistic"
	"github.com/five82/quill/internal/prefs"
	"github.com/five82/quill/internal/state"
	"github.com/five82/quill/internal/ui"
)

// Options configure the quill application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/quill/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	Version    string // reported in the User-Agent header
}

// Run boots the quill TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := cms.NewClient(cfg.APIURL, cfg.Token, cms.WithUserAgent(userAgent(opts.Version)))
	if err != nil {
		return fmt.Errorf("init cms client: %w", err)
	}

	store := &state.Store{}
	screens := newScreens(store, logger)
	logger.Info("quill starting",
		slog.String("api", client.BaseURL()),
		slog.Int("page_size", cfg.PageSize),
		slog.Duration("poll", cfg.PollInterval),
		slog.String("articles", screens.articles.Ownership().String()),
		slog.String("albums", screens.albums.Ownership().String()))

	// Populate the first pages before the UI starts; failures are shown in
	// the header and can be retried with a refetch.
	bootCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	if err := bootstrap(bootCtx, client, store, screens.albums, cfg.PageSize); err != nil {
		logger.Warn("initial load failed", slog.Any("error", err))
		store.Update(nil, nil, err)
	}
	cancel()

	StartPoller(ctx, store, client, cfg.PollInterval, logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		Backend:   client,
		Store:     store,
		Articles:  screens.articles,
		Albums:    screens.albums,
		Photos:    screens.photos,
		PageSize:  cfg.PageSize,
		ThemeName: userPrefs.Theme,
		StartView: userPrefs.View,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
		Logger:    logger,
	})
}

const bootstrapTimeout = 5 * time.Second

// userAgent returns the User-Agent for version, or "" to keep the client
// default.
func userAgent(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	return "quill/" + version
}

// screens holds the optimistic collections behind the admin views.
type screens struct {
	articles *admin.Collection[cms.Article]
	albums   *admin.Collection[cms.Album]
	photos   *admin.Collection[cms.Photo]
}

// newScreens wires the collections. Articles are delegated to the shared
// state store so the header counters read the same rows; albums and photos
// own their rows.
func newScreens(store *state.Store, logger *slog.Logger) screens {
	return screens{
		articles: admin.NewCollection("articles", optimistic.NewDelegatedStore(store.ArticleSource()), logger),
		albums:   admin.NewCollection("albums", optimistic.NewOwnedStore[cms.Album](nil), logger),
		photos:   admin.NewCollection("photos", optimistic.NewOwnedStore[cms.Photo](nil), logger),
	}
}

// pageLoader is the part of cms.Backend needed to fill the first pages.
type pageLoader interface {
	ListArticles(ctx context.Context, q cms.PageQuery) (cms.Page[cms.Article], error)
	ListAlbums(ctx context.Context, q cms.PageQuery) (cms.Page[cms.Album], error)
}

func bootstrap(ctx context.Context, backend pageLoader, store *state.Store, albums *admin.Collection[cms.Album], pageSize int) error {
	q := cms.PageQuery{Page: 1, PageSize: pageSize}

	articles, err := backend.ListArticles(ctx, q)
	if err != nil {
		return fmt.Errorf("load articles: %w", err)
	}
	store.SetArticlesPage(articles)

	page, err := backend.ListAlbums(ctx, q)
	if err != nil {
		return fmt.Errorf("load albums: %w", err)
	}
	return albums.Reset(page.Items)
}
