package domain

// ProximityTracker is the navigation state machine: it turns position samples
// into staged alerts for the active waypoint of a RouteModel.
//
// It is not safe for concurrent use. Samples must be delivered one at a time
// and each call runs to completion before the next.
type ProximityTracker struct {
	route *RouteModel

	last, previous         Position
	haveLast, havePrevious bool

	muted bool
}

func NewProximityTracker(route *RouteModel) *ProximityTracker {
	return &ProximityTracker{route: route}
}

// OnPosition evaluates one position sample against the active waypoint.
//
// At most one approach or reached alert is returned per call, optionally
// followed by RouteCompleted when the last waypoint is reached. Only the
// active waypoint is considered: after an advance, the next waypoint is
// evaluated on the following sample even if it is already within range.
//
// A malformed sample returns an *InvalidPositionError and leaves all state,
// including the position history, unchanged.
func (t *ProximityTracker) OnPosition(pos Position) ([]Alert, error) {
	if err := pos.validate(); err != nil {
		return nil, err
	}
	defer t.record(pos)

	if t.route == nil || t.route.IsComplete() {
		return nil, nil
	}

	wp, _ := t.route.ActiveWaypoint()
	d := Distance(pos.GeoPoint, wp.GeoPoint)

	switch {
	case d < ReachedRadius:
		t.route.Advance()
		alerts := []Alert{WaypointReached(wp.Index)}
		if t.route.IsComplete() {
			alerts = append(alerts, RouteCompleted())
		}
		return alerts, nil

	case d < NearRadius && !wp.State.Has(Warned50):
		t.route.markActive(Warned50)
		return []Alert{ApproachWarning(wp.Index, NearRadius)}, nil

	case d < ApproachRadius && !wp.State.Has(Warned100):
		t.route.markActive(Warned100)
		return []Alert{ApproachWarning(wp.Index, ApproachRadius)}, nil
	}

	return nil, nil
}

func (t *ProximityTracker) record(pos Position) {
	if t.haveLast {
		t.previous = t.last
		t.havePrevious = true
	}
	t.last = pos
	t.haveLast = true
}

// ResetRoute installs a new route and clears the position history.
// The mute setting is kept.
func (t *ProximityTracker) ResetRoute(route *RouteModel) {
	t.route = route
	t.last, t.previous = Position{}, Position{}
	t.haveLast, t.havePrevious = false, false
}

func (t *ProximityTracker) Route() *RouteModel { return t.route }

// SetMuted toggles speech suppression. Cursor and flag updates are unaffected.
func (t *ProximityTracker) SetMuted(muted bool) { t.muted = muted }

func (t *ProximityTracker) Muted() bool { return t.muted }

func (t *ProximityTracker) LastPosition() (Position, bool) { return t.last, t.haveLast }

func (t *ProximityTracker) PreviousPosition() (Position, bool) { return t.previous, t.havePrevious }

// Heading returns the direction of travel for the most recent sample.
func (t *ProximityTracker) Heading() (float64, bool) {
	if !t.haveLast {
		return 0, false
	}
	if t.last.Heading != nil {
		return *t.last.Heading, true
	}
	if !t.havePrevious {
		return 0, false
	}
	return DeriveHeading(t.previous, t.last)
}
