// Package speech holds Announcer adapters. Devices do the actual
// text-to-speech; the server logs, records or fans out announcements.
package speech

import (
	"context"
	"errors"
	"log"
	"sync"

	"gpx-navigation-service/internal/platform/obs"
	"gpx-navigation-service/internal/ports"
)

// LogAnnouncer writes every announcement to the process log.
type LogAnnouncer struct{}

func (LogAnnouncer) Announce(ctx context.Context, lang string, text string) error {
	log.Printf("req_id=%s announce lang=%s text=%q", obs.RequestID(ctx), lang, text)
	return nil
}

type Utterance struct {
	Lang string
	Text string
}

// Recorder keeps announcements in memory.
type Recorder struct {
	mu         sync.Mutex
	utterances []Utterance
}

func (r *Recorder) Announce(_ context.Context, lang string, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.utterances = append(r.utterances, Utterance{Lang: lang, Text: text})
	return nil
}

func (r *Recorder) Utterances() []Utterance {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Utterance, len(r.utterances))
	copy(out, r.utterances)
	return out
}

func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.utterances))
	for _, u := range r.utterances {
		out = append(out, u.Text)
	}
	return out
}

// Multi delivers each announcement to every announcer, joining their errors.
type Multi []ports.Announcer

func (m Multi) Announce(ctx context.Context, lang string, text string) error {
	var errs []error
	for _, a := range m {
		if err := a.Announce(ctx, lang, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
