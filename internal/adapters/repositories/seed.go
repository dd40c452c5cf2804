package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gpx-navigation-service/internal/adapters/gpx"
	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/ports"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const seedConcurrency = 4

// RouteName turns a file stem such as "trilha_do_lago" into "Trilha Do Lago".
func RouteName(stem string) string {
	name := strings.Join(strings.Fields(strings.ReplaceAll(stem, "_", " ")), " ")
	return cases.Title(language.BrazilianPortuguese).String(name)
}

// Import every *.gpx file in dir into the route catalog. Route ids are the file
// stems. Files are read and validated concurrently; any invalid file aborts the
// import before anything is written. Returns the number of routes saved.
func SeedFromDir(ctx context.Context, repo ports.RouteRepository, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.gpx"))
	if err != nil {
		return 0, fmt.Errorf("seed routes: glob %q: %w", dir, err)
	}
	sort.Strings(paths)

	routes := make([]*domain.StoredRoute, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("seed routes: read %q: %w", path, err)
			}

			parsed, err := gpx.Parse(data)
			if err != nil {
				return fmt.Errorf("seed routes: %q: %w", path, err)
			}

			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			routes[i] = &domain.StoredRoute{
				ID:         stem,
				Name:       RouteName(stem),
				GPX:        data,
				PointCount: len(parsed.RoutePoints()),
				CreatedAt:  time.Now().UTC(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, route := range routes {
		if err := repo.SaveRoute(ctx, route); err != nil {
			return 0, fmt.Errorf("seed routes: %w", err)
		}
		log.Printf("seeded route id=%s name=%q points=%d", route.ID, route.Name, route.PointCount)
	}

	return len(routes), nil
}
