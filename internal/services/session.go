package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"gpx-navigation-service/internal/domain"
	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/ports"
)

// Progress is a snapshot of a session for display.
type Progress struct {
	RouteID     string
	RouteName   string
	ActiveIndex int
	Total       int
	// Meters to the active waypoint, rounded to 0.1; nil without a position
	// or once the route is complete.
	DistanceToActive *float64
	Heading          *float64
	Speed            *float64
	Muted            bool
	Navigating       bool
	Complete         bool
	LastPosition     *domain.Position
}

// Update is the outcome of one position sample.
type Update struct {
	Alerts []domain.Alert
	// Speech text for the alerts; empty while muted.
	Announcements []string
	Progress      Progress
}

// Session is one user's navigation context. All methods are serialized so
// the tracker sees one event at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	loader     *RouteLoader
	announcer  ports.Announcer
	phrases    Phrasebook
	tracker    *domain.ProximityTracker
	route      *domain.StoredRoute
	navigating bool
}

func NewSession(id string, loader *RouteLoader, announcer ports.Announcer, phrases Phrasebook) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		loader:    loader,
		announcer: announcer,
		phrases:   phrases,
		tracker:   domain.NewProximityTracker(nil),
	}
}

// Start loads a route and begins navigating it. If loading fails the
// session keeps whatever route it had.
func (s *Session) Start(ctx context.Context, routeID string) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	model, stored, err := s.loader.LoadRoute(ctx, routeID)
	if err != nil {
		return s.progressLocked(), fmt.Errorf("start session id=%s: %w", s.ID, err)
	}

	s.tracker.ResetRoute(model)
	s.route = stored
	s.navigating = true

	log.Printf("req_id=%s session started id=%s route_id=%s points=%d",
		obs.RequestID(ctx), s.ID, stored.ID, model.Len())

	s.announceLocked(ctx, []string{s.phrases.RouteLoaded(), s.phrases.NavigationStarted()})

	return s.progressLocked(), nil
}

// UpdatePosition records a position sample and, while navigating, runs it
// through the proximity tracker.
func (s *Session) UpdatePosition(ctx context.Context, pos domain.Position) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos.Timestamp.IsZero() {
		pos.Timestamp = time.Now().UTC()
	}

	alerts, err := s.tracker.OnPosition(pos)
	if err != nil {
		return Update{Progress: s.progressLocked()}, fmt.Errorf("update position session id=%s: %w", s.ID, err)
	}

	texts := make([]string, 0, len(alerts))
	for _, a := range alerts {
		log.Printf("req_id=%s alert session=%s kind=%s waypoint=%d threshold=%.0f",
			obs.RequestID(ctx), s.ID, a.Kind, a.WaypointIndex, a.ThresholdMeters)
		texts = append(texts, s.phrases.Alert(a))
	}

	spoken := s.announceLocked(ctx, texts)

	return Update{
		Alerts:        alerts,
		Announcements: spoken,
		Progress:      s.progressLocked(),
	}, nil
}

func (s *Session) SetMuted(muted bool) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.SetMuted(muted)
	return s.progressLocked()
}

// Stop ends navigation and drops the route. Mute is kept.
func (s *Session) Stop() (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.navigating {
		return s.progressLocked(), fmt.Errorf("stop session id=%s: %w", s.ID, ErrNotNavigating)
	}

	s.tracker.ResetRoute(nil)
	s.route = nil
	s.navigating = false
	return s.progressLocked(), nil
}

func (s *Session) Status() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.progressLocked()
}

func (s *Session) Lang() string { return s.phrases.Lang() }

// announceLocked delivers texts in order unless muted and returns what was
// delivered. Announcer failures are logged only.
func (s *Session) announceLocked(ctx context.Context, texts []string) []string {
	if s.tracker.Muted() || len(texts) == 0 {
		return []string{}
	}

	for _, text := range texts {
		if s.announcer == nil {
			continue
		}
		if err := s.announcer.Announce(ctx, s.phrases.Lang(), text); err != nil {
			log.Printf("req_id=%s announce failed session=%s err=%v", obs.RequestID(ctx), s.ID, err)
		}
	}
	return texts
}

func (s *Session) progressLocked() Progress {
	p := Progress{
		Muted:      s.tracker.Muted(),
		Navigating: s.navigating,
	}

	if s.route != nil {
		p.RouteID = s.route.ID
		p.RouteName = s.route.Name
	}

	last, haveLast := s.tracker.LastPosition()
	if haveLast {
		pos := last
		p.LastPosition = &pos
		p.Speed = last.Speed
	}

	if h, ok := s.tracker.Heading(); ok {
		p.Heading = &h
	}

	if model := s.tracker.Route(); model != nil {
		p.ActiveIndex = model.ActiveIndex()
		p.Total = model.Len()
		p.Complete = model.IsComplete()

		if wp, ok := model.ActiveWaypoint(); ok && haveLast {
			d := math.Round(domain.Distance(last.GeoPoint, wp.GeoPoint)*10) / 10
			p.DistanceToActive = &d
		}
	}

	return p
}
