package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gpx-navigation-service/internal/adapters/cache"
	"gpx-navigation-service/internal/adapters/repositories"
	"gpx-navigation-service/internal/adapters/speech"
	"gpx-navigation-service/internal/adapters/tiles"
	"gpx-navigation-service/internal/api"
	"gpx-navigation-service/internal/api/handlers"
	"gpx-navigation-service/internal/config"
	"gpx-navigation-service/internal/platform/db"
	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/ports"
	"gpx-navigation-service/internal/services"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, tile caches) behind ports and starts the HTTP server.
func main() {
	obs.InitLogging()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, repo, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Import the bundled GPX catalog on startup for local runs.
	if err := seedRoutes(ctx, repo, cfg.RoutesDir); err != nil {
		log.Fatal(err)
	}

	tileCache, closeCache, err := openTileCache(ctx, cfg, conn)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	fetcher, err := tiles.NewHTTPFetcher(cfg.TileURL, cfg.UserAgent)
	if err != nil {
		log.Fatal(err)
	}

	phrases, err := services.NewPhrasebook(cfg.SpeechLang)
	if err != nil {
		log.Fatal(err)
	}

	loader := services.NewRouteLoader(repo)
	router := api.NewRouter(api.Deps{
		Loader:   loader,
		Sessions: services.NewSessionManager(loader, speech.LogAnnouncer{}, phrases),
		Tiles:    tiles.NewProxy(tileCache, fetcher),
		Health:   &handlers.HealthHandler{Ping: conn.PingContext},
	})

	// Write timeout covers cold tile fetches with upstream retries.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s db_driver=%s tile_cache=%s lang=%s", cfg.Port, cfg.DBDriver, cfg.TileCache, cfg.SpeechLang)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}

func openStore(cfg config.Config) (*sql.DB, ports.RouteRepository, error) {
	switch cfg.DBDriver {
	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, repositories.NewSQLRouteRepository(conn), nil

	default:
		conn, err := openSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return conn, repositories.NewSqliteRouteRepository(conn), nil
	}
}

func openSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("openDB: create %q: %w", dir, err)
		}
	}

	conn, err := db.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func seedRoutes(ctx context.Context, repo ports.RouteRepository, dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		log.Printf("Routes dir not found, skipping import dir=%s", dir)
		return nil
	}

	n, err := repositories.SeedFromDir(ctx, repo, dir)
	if err != nil {
		return fmt.Errorf("seed routes: %w", err)
	}
	log.Printf("Route catalog ready dir=%s routes=%d", dir, n)
	return nil
}

// openTileCache picks the configured tile store. The sqlite cache shares the
// route database when it is SQLite and otherwise opens DB_PATH on its own.
func openTileCache(ctx context.Context, cfg config.Config, conn *sql.DB) (ports.TileCache, func(), error) {
	noop := func() {}

	switch cfg.TileCache {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("tile cache: ping redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisTileCache(client, cfg.TileTTL), func() { _ = client.Close() }, nil

	case "sqlite":
		if cfg.DBDriver == "sqlite" {
			return cache.NewSqliteTileCache(conn, cfg.TileTTL), noop, nil
		}
		tileDB, err := openSQLite(cfg.DBPath)
		if err != nil {
			return nil, noop, fmt.Errorf("tile cache: %w", err)
		}
		return cache.NewSqliteTileCache(tileDB, cfg.TileTTL), func() { _ = tileDB.Close() }, nil

	default:
		return nil, noop, nil
	}
}
