// Command server runs the playlists HTTP API.
//
//	@title			YouTube Playlists API
//	@version		1.0
//	@description	Accounts, per-user playlists, audio uploads and video search.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/TamarElitzur/youtubePlaylists/internal/api"
	"github.com/TamarElitzur/youtubePlaylists/internal/api/handler"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/ports"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/service"
	"github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/config"
	"github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/db/file"
	mongostore "github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/db/mongo"
	redisstore "github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/db/redis"
	"github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/storage/local"
	miniostore "github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/storage/minio"
	"github.com/TamarElitzur/youtubePlaylists/internal/infrastructure/youtube"
	"github.com/TamarElitzur/youtubePlaylists/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "playlists-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.Auth.JWTSecret == "change-me" && !cfg.IsDevelopment() {
		log.Warn().Msg("JWT_SECRET is the default value; set it outside development")
	}
	if cfg.Auth.InsecurePlaintext {
		log.Warn().Msg("AUTH_INSECURE_PLAINTEXT is on; passwords are stored as cleartext")
	}

	backends, cleanup, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	blobs, blobCheck, err := openBlobStorage(ctx, cfg)
	if err != nil {
		return err
	}
	if blobCheck != nil {
		backends.checks = append(backends.checks, *blobCheck)
	}

	authService := service.NewAuthService(backends.accounts, service.AuthConfig{
		JWTSecret:         cfg.Auth.JWTSecret,
		TokenTTL:          cfg.Auth.TokenTTL,
		InsecurePlaintext: cfg.Auth.InsecurePlaintext,
	}, logger.Component("auth"))
	playlistService := service.NewPlaylistService(backends.playlists, logger.Component("playlists"))
	uploadService := service.NewUploadService(blobs, playlistService, cfg.Upload.MaxBytes, logger.Component("uploads"))
	searchProvider := youtube.NewClient(youtube.Config{
		APIKey:  cfg.YouTube.APIKey,
		BaseURL: cfg.YouTube.BaseURL,
		RPS:     cfg.YouTube.RPS,
	}, logger.Component("youtube"))
	if cfg.YouTube.APIKey == "" {
		log.Warn().Msg("YOUTUBE_API_KEY is not set; /api/search will answer 502")
	}

	e := api.NewRouter(api.Deps{
		Auth:           authService,
		Playlists:      playlistService,
		Uploads:        uploadService,
		Search:         searchProvider,
		JWTSecret:      cfg.Auth.JWTSecret,
		AuthRequired:   cfg.Auth.Required,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		StaticDir:      cfg.StaticDir,
		Readiness:      backends.checks,
		Logger:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.Storage.Driver).
			Str("blobs", cfg.Upload.Driver).
			Bool("auth_required", cfg.Auth.Required).
			Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("shutdown complete")
	return nil
}

type storeSet struct {
	accounts  ports.AccountRepository
	playlists ports.PlaylistRepository
	checks    []handler.DependencyCheck
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storeSet, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}
		return &storeSet{
			accounts:  mongostore.NewAccountRepository(db),
			playlists: mongostore.NewPlaylistRepository(db),
			checks:    []handler.DependencyCheck{{Name: "mongodb", Ping: mongostore.Ping(db)}},
		}, cleanup, nil

	case config.StorageRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close failed")
			}
		}
		return &storeSet{
			accounts:  redisstore.NewAccountRepository(client),
			playlists: redisstore.NewPlaylistRepository(client),
			checks:    []handler.DependencyCheck{{Name: "redis", Ping: redisstore.Ping(client)}},
		}, cleanup, nil

	default:
		accounts, err := file.NewAccountRepository(cfg.Storage.DataDir, logger.Component("file-store"))
		if err != nil {
			return nil, nil, err
		}
		playlists, err := file.NewPlaylistRepository(cfg.Storage.DataDir, logger.Component("file-store"))
		if err != nil {
			return nil, nil, err
		}
		return &storeSet{accounts: accounts, playlists: playlists}, func() {}, nil
	}
}

func openBlobStorage(ctx context.Context, cfg *config.Config) (ports.BlobStorage, *handler.DependencyCheck, error) {
	if cfg.Upload.Driver == config.BlobMinio {
		client, err := miniostore.Connect(ctx, miniostore.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, &handler.DependencyCheck{Name: "minio", Ping: client.Ping}, nil
	}

	storage, err := local.NewStorage(cfg.Upload.Dir)
	if err != nil {
		return nil, nil, err
	}
	return storage, nil, nil
}
