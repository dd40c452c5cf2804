package domain

// AlertState records which one-shot alerts have fired for a route point.
// Flags are only ever set, never cleared, for the lifetime of a loaded route.
type AlertState uint8

const (
	Warned100 AlertState = 1 << iota
	Warned50
	Reached
)

func (s AlertState) Has(flag AlertState) bool { return s&flag != 0 }

// Represents a single point of a loaded route together with its alert progress.
// Index is the 0-based position in the route.
type RoutePoint struct {
	GeoPoint
	Index int
	State AlertState
}

// RouteModel owns the ordered route points and the active waypoint cursor.
//
// The cursor starts at 0 and only moves forward, one waypoint per Advance.
// A cursor equal to the number of points means the route is complete.
// A RouteModel belongs to a single navigation session and is replaced
// wholesale when a new route is loaded.
type RouteModel struct {
	points      []RoutePoint
	activeIndex int
}

// NewRouteModel builds a model with the cursor at 0 and all alert flags cleared.
func NewRouteModel(points []GeoPoint) (*RouteModel, error) {
	if len(points) == 0 {
		return nil, ErrEmptyRoute
	}

	rp := make([]RoutePoint, len(points))
	for i, p := range points {
		rp[i] = RoutePoint{GeoPoint: p, Index: i}
	}

	return &RouteModel{points: rp}, nil
}

// ActiveWaypoint returns the point at the cursor, or false when the route is complete.
func (m *RouteModel) ActiveWaypoint() (RoutePoint, bool) {
	if m.IsComplete() {
		return RoutePoint{}, false
	}
	return m.points[m.activeIndex], true
}

// Advance marks the active point reached and moves the cursor by exactly one.
// It is a no-op once the route is complete.
func (m *RouteModel) Advance() {
	if m.IsComplete() {
		return
	}
	m.points[m.activeIndex].State |= Reached
	m.activeIndex++
}

func (m *RouteModel) IsComplete() bool { return m.activeIndex == len(m.points) }

func (m *RouteModel) ActiveIndex() int { return m.activeIndex }

func (m *RouteModel) Len() int { return len(m.points) }

func (m *RouteModel) Point(i int) (RoutePoint, bool) {
	if i < 0 || i >= len(m.points) {
		return RoutePoint{}, false
	}
	return m.points[i], true
}

// Points returns a copy of the route points in order.
func (m *RouteModel) Points() []RoutePoint {
	out := make([]RoutePoint, len(m.points))
	copy(out, m.points)
	return out
}

// markActive sets flag on the active point and reports whether it was newly set.
func (m *RouteModel) markActive(flag AlertState) bool {
	if m.IsComplete() {
		return false
	}
	p := &m.points[m.activeIndex]
	if p.State.Has(flag) {
		return false
	}
	p.State |= flag
	return true
}
