package ports

import "context"

// Announcer is the speech sink. It receives text already rendered in the
// session language; whether and how it is spoken is up to the adapter.
type Announcer interface {
	Announce(ctx context.Context, lang string, text string) error
}
