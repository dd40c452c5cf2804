package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"gpx-navigation-service/internal/adapters/gpx"
	"gpx-navigation-service/internal/adapters/repositories"
	"gpx-navigation-service/internal/adapters/speech"
	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/ports"

	"github.com/paulmach/orb"
)

var metersPerDegreeLat = orb.EarthRadius * math.Pi / 180

var origin = domain.GeoPoint{Lat: -22.2171, Lon: -48.7173}

func north(p domain.GeoPoint, meters float64) domain.GeoPoint {
	return domain.GeoPoint{Lat: p.Lat + meters/metersPerDegreeLat, Lon: p.Lon}
}

func at(p domain.GeoPoint) domain.Position {
	return domain.Position{GeoPoint: p, Accuracy: 5}
}

func gpxDoc(points ...domain.GeoPoint) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>`)
	for _, p := range points {
		fmt.Fprintf(&b, `<trkpt lat="%.8f" lon="%.8f"></trkpt>`, p.Lat, p.Lon)
	}
	b.WriteString(`</trkseg></trk></gpx>`)
	return b.String()
}

// Three waypoints 200 m apart heading north from origin.
func testRoute() []domain.GeoPoint {
	return []domain.GeoPoint{origin, north(origin, 200), north(origin, 400)}
}

type fixture struct {
	repo     *repositories.MemoryRouteRepository
	loader   *RouteLoader
	recorder *speech.Recorder
	manager  *SessionManager
}

func newFixture(t *testing.T, lang string) *fixture {
	t.Helper()

	repo := repositories.NewMemoryRouteRepository()
	err := repo.SaveRoute(context.Background(), &domain.StoredRoute{
		ID:         "lago",
		Name:       "Lago",
		GPX:        []byte(gpxDoc(testRoute()...)),
		PointCount: 3,
	})
	if err != nil {
		t.Fatalf("seed route: %v", err)
	}

	phrases, err := NewPhrasebook(lang)
	if err != nil {
		t.Fatalf("NewPhrasebook: %v", err)
	}

	loader := NewRouteLoader(repo)
	rec := &speech.Recorder{}
	return &fixture{
		repo:     repo,
		loader:   loader,
		recorder: rec,
		manager:  NewSessionManager(loader, rec, phrases),
	}
}

func TestPhrasebook(t *testing.T) {
	pt, err := NewPhrasebook("")
	if err != nil {
		t.Fatalf("NewPhrasebook: %v", err)
	}
	if pt.Lang() != "pt-BR" {
		t.Fatalf("expected default pt-BR, got %q", pt.Lang())
	}

	tests := []struct {
		alert domain.Alert
		want  string
	}{
		{domain.ApproachWarning(0, domain.ApproachRadius), "Ponto 1 a 100 metros"},
		{domain.ApproachWarning(4, domain.NearRadius), "Ponto 5 a 50 metros"},
		{domain.WaypointReached(2), "Ponto 3 alcançado"},
		{domain.RouteCompleted(), "Rota concluída"},
	}
	for _, tt := range tests {
		if got := pt.Alert(tt.alert); got != tt.want {
			t.Errorf("Alert(%+v) = %q, want %q", tt.alert, got, tt.want)
		}
	}

	en, err := NewPhrasebook("en")
	if err != nil {
		t.Fatalf("NewPhrasebook(en): %v", err)
	}
	if got := en.Alert(domain.WaypointReached(0)); got != "Point 1 reached" {
		t.Fatalf("unexpected english text %q", got)
	}

	if _, err := NewPhrasebook("fr"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestRouteLoaderLoadRoute(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	model, stored, err := f.loader.LoadRoute(ctx, "lago")
	if err != nil {
		t.Fatalf("LoadRoute: %v", err)
	}
	if model.Len() != 3 || stored.Name != "Lago" {
		t.Fatalf("unexpected route len=%d name=%q", model.Len(), stored.Name)
	}

	if _, _, err := f.loader.LoadRoute(ctx, "missing"); !errors.Is(err, ports.ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestRouteLoaderImportRoute(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	route, err := f.loader.ImportRoute(ctx, " Volta ", []byte(gpxDoc(testRoute()...)))
	if err != nil {
		t.Fatalf("ImportRoute: %v", err)
	}
	if route.ID == "" || route.Name != "Volta" || route.PointCount != 3 {
		t.Fatalf("unexpected imported route %+v", route)
	}
	if _, err := f.repo.GetRoute(ctx, route.ID); err != nil {
		t.Fatalf("imported route not stored: %v", err)
	}

	if _, err := f.loader.ImportRoute(ctx, "bad", []byte("<gpx>")); !errors.Is(err, gpx.ErrInvalidGPX) {
		t.Fatalf("expected ErrInvalidGPX, got %v", err)
	}

	list, _ := f.repo.ListRoutes(ctx)
	if len(list) != 2 {
		t.Fatalf("broken upload must not be stored, got %d routes", len(list))
	}
}

func TestSessionNavigatesRoute(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	s := f.manager.Create()

	if _, err := s.Start(ctx, "lago"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	want := []string{"Rota carregada com sucesso.", "Iniciando navegação"}
	if got := f.recorder.Texts(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected start announcements %v, got %v", want, got)
	}

	route := testRoute()

	u, err := s.UpdatePosition(ctx, at(route[0]))
	if err != nil {
		t.Fatalf("UpdatePosition: %v", err)
	}
	if len(u.Alerts) != 1 || u.Alerts[0].Kind != domain.AlertWaypointReached {
		t.Fatalf("expected waypoint reached, got %+v", u.Alerts)
	}
	if len(u.Announcements) != 1 || u.Announcements[0] != "Ponto 1 alcançado" {
		t.Fatalf("unexpected announcements %v", u.Announcements)
	}
	if u.Progress.ActiveIndex != 1 || u.Progress.Total != 3 {
		t.Fatalf("unexpected progress %+v", u.Progress)
	}
	if u.Progress.DistanceToActive == nil || math.Abs(*u.Progress.DistanceToActive-200) > 0.5 {
		t.Fatalf("expected ~200 m to next waypoint, got %v", u.Progress.DistanceToActive)
	}

	u, err = s.UpdatePosition(ctx, at(north(route[1], -80)))
	if err != nil {
		t.Fatalf("UpdatePosition: %v", err)
	}
	if len(u.Announcements) != 1 || u.Announcements[0] != "Ponto 2 a 100 metros" {
		t.Fatalf("unexpected announcements %v", u.Announcements)
	}
	if u.Progress.Heading == nil {
		t.Fatal("expected derived heading after two samples")
	}
	if h := *u.Progress.Heading; h > 1 && h < 359 {
		t.Fatalf("expected heading close to north, got %v", h)
	}

	s.SetMuted(true)
	spokenBefore := len(f.recorder.Texts())

	u, err = s.UpdatePosition(ctx, at(north(route[1], -40)))
	if err != nil {
		t.Fatalf("UpdatePosition: %v", err)
	}
	if len(u.Alerts) != 1 || u.Alerts[0].ThresholdMeters != domain.NearRadius {
		t.Fatalf("muted tracker must still alert, got %+v", u.Alerts)
	}
	if len(u.Announcements) != 0 || len(f.recorder.Texts()) != spokenBefore {
		t.Fatal("muted session must not announce")
	}

	s.SetMuted(false)
	for _, p := range route[1:] {
		if _, err := s.UpdatePosition(ctx, at(p)); err != nil {
			t.Fatalf("UpdatePosition: %v", err)
		}
	}

	p := s.Status()
	if !p.Complete || !p.Navigating || p.DistanceToActive != nil {
		t.Fatalf("expected completed, still navigating session, got %+v", p)
	}
	texts := f.recorder.Texts()
	if texts[len(texts)-1] != "Rota concluída" {
		t.Fatalf("expected completion announcement last, got %v", texts)
	}
}

func TestSessionFailedStartKeepsRoute(t *testing.T) {
	f := newFixture(t, "en")
	ctx := context.Background()
	s := f.manager.Create()

	if _, err := s.Start(ctx, "lago"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s.UpdatePosition(ctx, at(origin)); err != nil {
		t.Fatalf("UpdatePosition: %v", err)
	}

	p, err := s.Start(ctx, "missing")
	if !errors.Is(err, ports.ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
	if p.RouteID != "lago" || p.ActiveIndex != 1 || !p.Navigating {
		t.Fatalf("failed start must keep current route, got %+v", p)
	}
}

func TestSessionIdleAndStop(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	s := f.manager.Create()

	u, err := s.UpdatePosition(ctx, at(origin))
	if err != nil {
		t.Fatalf("UpdatePosition while idle: %v", err)
	}
	if len(u.Alerts) != 0 || u.Progress.Navigating || u.Progress.LastPosition == nil {
		t.Fatalf("idle sample should only be recorded, got %+v", u)
	}

	if _, err := s.Stop(); !errors.Is(err, ErrNotNavigating) {
		t.Fatalf("expected ErrNotNavigating, got %v", err)
	}

	s.SetMuted(true)
	if _, err := s.Start(ctx, "lago"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(f.recorder.Texts()) != 0 {
		t.Fatal("muted session must not announce start")
	}

	p, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if p.Navigating || p.RouteID != "" || p.Total != 0 || !p.Muted {
		t.Fatalf("unexpected progress after stop %+v", p)
	}
}

func TestSessionRejectsInvalidPosition(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	s := f.manager.Create()

	if _, err := s.Start(ctx, "lago"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	bad := at(origin)
	bad.Lat = 91
	u, err := s.UpdatePosition(ctx, bad)
	if !errors.Is(err, domain.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	if u.Progress.LastPosition != nil || u.Progress.ActiveIndex != 0 {
		t.Fatalf("invalid sample must not change state, got %+v", u.Progress)
	}
}

func TestSessionManager(t *testing.T) {
	f := newFixture(t, "")
	m := f.manager

	a := m.Create()
	b := m.Create()
	if a.ID == b.ID {
		t.Fatal("expected unique session ids")
	}

	got, err := m.Get(a.ID)
	if err != nil || got != a {
		t.Fatalf("Get: %v", err)
	}
	if ids := m.List(); len(ids) != 2 {
		t.Fatalf("expected 2 sessions, got %v", ids)
	}

	if err := m.Delete(a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(a.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Delete(a.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
}
