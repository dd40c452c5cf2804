package domain

import "fmt"

// Proximity thresholds, in meters.
const (
	ReachedRadius  = 20.0
	NearRadius     = 50.0
	ApproachRadius = 100.0
)

type AlertKind int

const (
	AlertApproach AlertKind = iota + 1
	AlertWaypointReached
	AlertRouteCompleted
)

func (k AlertKind) String() string {
	switch k {
	case AlertApproach:
		return "approach_warning"
	case AlertWaypointReached:
		return "waypoint_reached"
	case AlertRouteCompleted:
		return "route_completed"
	default:
		return fmt.Sprintf("AlertKind(%d)", int(k))
	}
}

// Alert is a notification emitted by the tracker. It is not persisted.
// ThresholdMeters is only set for AlertApproach (100 or 50).
// WaypointIndex is meaningless for AlertRouteCompleted.
type Alert struct {
	Kind            AlertKind
	WaypointIndex   int
	ThresholdMeters float64
}

func ApproachWarning(index int, threshold float64) Alert {
	return Alert{Kind: AlertApproach, WaypointIndex: index, ThresholdMeters: threshold}
}

func WaypointReached(index int) Alert {
	return Alert{Kind: AlertWaypointReached, WaypointIndex: index}
}

func RouteCompleted() Alert {
	return Alert{Kind: AlertRouteCompleted}
}
