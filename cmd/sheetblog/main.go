package main

import (
	"context"
	"flag"
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/sheetblog/internal/app"
	"github.com/glabrego/sheetblog/internal/config"
	"github.com/glabrego/sheetblog/internal/editor"
	"github.com/glabrego/sheetblog/internal/feed"
	"github.com/glabrego/sheetblog/internal/logger"
	"github.com/glabrego/sheetblog/internal/postservice"
	"github.com/glabrego/sheetblog/internal/search"
	"github.com/glabrego/sheetblog/internal/storage"
	"github.com/glabrego/sheetblog/internal/tui"
)

func main() {
	openFragment := flag.String("open", "", `open a post by location fragment, e.g. "#post-3"`)
	editMode := flag.Bool("edit", false, "open the editor on the post last chosen for editing")
	writeMode := flag.Bool("write", false, "open the editor on a new post")
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("config error: %v", err)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logFile, err := logger.Open(cfg.LogPath)
	if err != nil {
		log.Fatalf("log init error: %v", err)
	}
	defer logFile.Close()
	lg := logger.New(cfg.LogLevel, logFile)

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify SHEETBLOG_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	matcher, err := search.New(cfg.SearchMode)
	if err != nil {
		log.Fatalf("search init error: %v", err)
	}
	if closer, ok := matcher.(io.Closer); ok {
		defer closer.Close()
	}

	client := postservice.NewClient(cfg.ServiceURL, cfg.ImageHost, nil, lg.With().Str("component", "postservice").Logger())
	ctrl := feed.NewController(client, feed.NewCache(repo, cfg.CacheTTL, lg), lg.With().Str("component", "feed").Logger())
	start := ctrl.Start(ctx)
	publisher := editor.NewPublisher(client, editor.PlaceholdersFor(cfg.Locale), cfg.MaxImageBytes, lg.With().Str("component", "publisher").Logger())
	service := app.NewService(ctrl, publisher, repo)

	mode := tui.StartList
	switch {
	case *writeMode:
		mode = tui.StartWrite
	case *editMode:
		mode = tui.StartEdit
	}

	lg.Info().
		Bool("from_cache", start.FromCache).
		Int("posts", len(ctrl.State().Posts)).
		Str("search_mode", cfg.SearchMode).
		Msg("starting")

	model := tui.NewModel(service, ctrl, tui.Options{
		Locale:        cfg.Locale,
		ImageHost:     cfg.ImageHost,
		MaxImageBytes: cfg.MaxImageBytes,
		SyncInterval:  cfg.SyncInterval,
		AssumeFocus:   cfg.AssumeFocus,
		Matcher:       matcher,
		NeedsFetch:    start.NeedsFetch,
		OpenFragment:  *openFragment,
		Start:         mode,
		Log:           lg.With().Str("component", "tui").Logger(),
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
