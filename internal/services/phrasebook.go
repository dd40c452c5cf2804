package services

import (
	"fmt"

	"gpx-navigation-service/internal/domain"
)

const DefaultLanguage = "pt-BR"

type phrases struct {
	approach          string
	reached           string
	completed         string
	routeLoaded       string
	navigationStarted string
}

var phrasebooks = map[string]phrases{
	"pt-BR": {
		approach:          "Ponto %d a %d metros",
		reached:           "Ponto %d alcançado",
		completed:         "Rota concluída",
		routeLoaded:       "Rota carregada com sucesso.",
		navigationStarted: "Iniciando navegação",
	},
	"en": {
		approach:          "Point %d in %d meters",
		reached:           "Point %d reached",
		completed:         "Route completed",
		routeLoaded:       "Route loaded successfully.",
		navigationStarted: "Starting navigation",
	},
}

// Phrasebook renders alerts as speech text. Waypoints are spoken 1-based.
type Phrasebook struct {
	lang string
	p    phrases
}

func NewPhrasebook(lang string) (Phrasebook, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	p, ok := phrasebooks[lang]
	if !ok {
		return Phrasebook{}, fmt.Errorf("phrasebook: %w: %q", ErrUnknownLanguage, lang)
	}
	return Phrasebook{lang: lang, p: p}, nil
}

func (b Phrasebook) Lang() string { return b.lang }

func (b Phrasebook) Alert(a domain.Alert) string {
	switch a.Kind {
	case domain.AlertApproach:
		return fmt.Sprintf(b.p.approach, a.WaypointIndex+1, int(a.ThresholdMeters))
	case domain.AlertWaypointReached:
		return fmt.Sprintf(b.p.reached, a.WaypointIndex+1)
	case domain.AlertRouteCompleted:
		return b.p.completed
	default:
		return ""
	}
}

func (b Phrasebook) RouteLoaded() string { return b.p.routeLoaded }

func (b Phrasebook) NavigationStarted() string { return b.p.navigationStarted }
