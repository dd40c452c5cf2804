package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gpx-navigation-service/internal/adapters/repositories"
	"gpx-navigation-service/internal/adapters/speech"
	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/services"
)

// navsim walks a GPX track through a navigation session and prints every
// alert, so routes can be checked without a device.
func main() {
	obs.InitLogging()

	path := flag.String("gpx", "", "GPX file to replay (required)")
	step := flag.Float64("step", 10, "distance in meters between simulated samples; 0 replays track points only")
	every := flag.Int("every", 1, "use every Nth track point")
	offset := flag.Float64("offset", 0, "shift every sample this many meters north")
	speed := flag.Float64("speed", 1.4, "reported walking speed in m/s")
	mute := flag.Bool("mute", false, "start muted")
	lang := flag.String("lang", services.DefaultLanguage, "announcement language (pt-BR or en)")
	flag.Parse()

	if strings.TrimSpace(*path) == "" || *every < 1 || *step < 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*path, *step, *every, *offset, *speed, *mute, *lang); err != nil {
		log.Fatal(err)
	}
}

func run(path string, step float64, every int, offset, speed float64, mute bool, lang string) error {
	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("navsim: read %q: %w", path, err)
	}

	phrases, err := services.NewPhrasebook(lang)
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	repo := repositories.NewMemoryRouteRepository()
	loader := services.NewRouteLoader(repo)

	stored, err := loader.ImportRoute(ctx, repositories.RouteName(stem), data)
	if err != nil {
		return fmt.Errorf("navsim: %w", err)
	}

	model, _, err := loader.LoadRoute(ctx, stored.ID)
	if err != nil {
		return fmt.Errorf("navsim: %w", err)
	}

	session := services.NewSession("navsim", loader, speech.LogAnnouncer{}, phrases)
	session.SetMuted(mute)
	if _, err := session.Start(ctx, stored.ID); err != nil {
		return fmt.Errorf("navsim: %w", err)
	}

	samples := walk(model.Points(), every, step)
	start := time.Now().UTC()

	var alerts int
	for i, p := range samples {
		pos := domain.Position{
			GeoPoint:  shiftNorth(p, offset),
			Accuracy:  5,
			Speed:     &speed,
			Timestamp: start.Add(time.Duration(i) * time.Second),
		}

		u, err := session.UpdatePosition(ctx, pos)
		if err != nil {
			return fmt.Errorf("navsim: sample %d: %w", i, err)
		}

		for j, a := range u.Alerts {
			alerts++
			text := phrases.Alert(a)
			if j < len(u.Announcements) {
				text = u.Announcements[j]
			}
			fmt.Printf("%5d  %-17s waypoint=%-4d %s\n", i, a.Kind, a.WaypointIndex, text)
		}
	}

	p := session.Status()
	fmt.Printf("route=%q samples=%d alerts=%d reached=%d/%d complete=%v\n",
		stored.Name, len(samples), alerts, p.ActiveIndex, p.Total, p.Complete)
	return nil
}

// walk returns every Nth route point with straight-line samples spaced step
// meters apart between consecutive points.
func walk(points []domain.RoutePoint, every int, step float64) []domain.GeoPoint {
	var picked []domain.GeoPoint
	for i := 0; i < len(points); i += every {
		picked = append(picked, points[i].GeoPoint)
	}
	if last := points[len(points)-1].GeoPoint; picked[len(picked)-1] != last {
		picked = append(picked, last)
	}

	out := []domain.GeoPoint{picked[0]}
	for i := 1; i < len(picked); i++ {
		a, b := picked[i-1], picked[i]
		if step > 0 {
			n := int(math.Ceil(domain.Distance(a, b)/step - 1e-9))
			for k := 1; k < n; k++ {
				f := float64(k) / float64(n)
				out = append(out, domain.GeoPoint{
					Lat: a.Lat + (b.Lat-a.Lat)*f,
					Lon: a.Lon + (b.Lon-a.Lon)*f,
				})
			}
		}
		out = append(out, b)
	}
	return out
}

func shiftNorth(p domain.GeoPoint, meters float64) domain.GeoPoint {
	if meters == 0 {
		return p
	}
	const metersPerDegree = 6378137 * math.Pi / 180
	return domain.GeoPoint{Lat: p.Lat + meters/metersPerDegree, Lon: p.Lon}
}
