package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusfeed/campusfeed/internal/api"
	"github.com/campusfeed/campusfeed/internal/auth"
	"github.com/campusfeed/campusfeed/internal/config"
	"github.com/campusfeed/campusfeed/internal/domain"
	"github.com/campusfeed/campusfeed/internal/logging"
	"github.com/campusfeed/campusfeed/internal/service"
	"github.com/campusfeed/campusfeed/internal/storage"
	"github.com/campusfeed/campusfeed/internal/storage/inmemory"
	"github.com/campusfeed/campusfeed/internal/storage/sqldb"
	"github.com/campusfeed/campusfeed/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	storageType := flag.String("storage", "db", "storage backend (db or in-memory)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	store, err := openStore(*storageType, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open storage")
	}

	hub := ws.NewHub()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		_ = hub.Run(ctx)
	}()

	router := api.NewRouter(api.Deps{
		Messages:      service.NewMessageService(store, hub, service.ReadSweepActor),
		Notifications: service.NewNotificationService(store),
		Comments:      service.NewCommentService(store, hub),
		Users:         service.NewUserService(store),
		Hub:           hub,
		Authn:         auth.NewJWT(cfg.Auth.Secret),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Int("port", cfg.Server.Port).Str("storage", *storageType).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown incomplete")
		os.Exit(1)
	}
}

func openStore(storageType string, cfg *config.Config) (storage.Store, error) {
	switch storageType {
	case "in-memory":
		store := inmemory.New()
		seedDevData(store)
		return store, nil
	case "db":
		if cfg.Database.URL != "" {
			return sqldb.NewPostgres(cfg.Database.URL)
		}
		logging.Info().Str("path", cfg.Database.Sqlite).Msg("no database url configured, using sqlite")
		return sqldb.NewSQLite(cfg.Database.Sqlite)
	default:
		return nil, fmt.Errorf("unknown storage type %q", storageType)
	}
}

// seedDevData puts a little life into the in-memory backend so the API is
// explorable without a database.
func seedDevData(store *inmemory.Store) {
	ctx := context.Background()

	alice, err := store.CreateUser(ctx, &domain.User{Name: "Alice", Email: "alice@campus.test", Branch: "CSE", Year: 3})
	if err != nil {
		logging.Fatal().Err(err).Msg("seed: failed to create user")
	}
	bob, err := store.CreateUser(ctx, &domain.User{Name: "Bob", Email: "bob@campus.test", Branch: "ECE", Year: 2})
	if err != nil {
		logging.Fatal().Err(err).Msg("seed: failed to create user")
	}

	post, err := store.CreatePost(ctx, &domain.Post{UserID: alice.ID, Title: "Welcome week", Content: "Who is going?"})
	if err != nil {
		logging.Fatal().Err(err).Msg("seed: failed to create post")
	}
	root, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, UserID: bob.ID, Content: "I am!"})
	if err != nil {
		logging.Fatal().Err(err).Msg("seed: failed to create comment")
	}
	if _, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, ParentID: &root.ID, UserID: alice.ID, Content: "See you there"}); err != nil {
		logging.Fatal().Err(err).Msg("seed: failed to create reply")
	}

	if _, err := store.CreateMessage(ctx, &domain.Message{SenderID: bob.ID, RecipientID: alice.ID, Content: "hey, saved you a seat"}); err != nil {
		logging.Fatal().Err(err).Msg("seed: failed to create message")
	}

	logging.Info().Uint("alice", alice.ID).Uint("bob", bob.ID).Uint("post", post.ID).Msg("seeded dev data")
}
