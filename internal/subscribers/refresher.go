package subscribers

import (
	"context"
	"log"
	"sync"
	"time"

	"cmcount/internal/options"
)

// Notifier hears about every count a successful refresh stores.
type Notifier interface {
	CountUpdated(count int64, at time.Time)
}

// Refresher performs one upstream lookup and records it in the options table.
// The last-poll timestamp is written whatever happens, so a failing upstream
// is left alone for a full TTL before it is asked again.
type Refresher struct {
	settings Settings
	store    options.Store
	fetcher  StatsFetcher
	now      func() time.Time
	notifier Notifier

	mu   sync.RWMutex
	last *Outcome
}

// NewRefresher wires a refresher. notifier may be nil.
func NewRefresher(settings Settings, store options.Store, fetcher StatsFetcher, now func() time.Time, notifier Notifier) *Refresher {
	if now == nil {
		now = time.Now
	}
	return &Refresher{
		settings: settings,
		store:    store,
		fetcher:  fetcher,
		now:      now,
		notifier: notifier,
	}
}

// Refresh never returns an error. The Outcome is informational only.
//
// A refresh outlives the request that started it: the caller hanging up must
// not cost the last-poll write, or the next request would poll again at once.
func (r *Refresher) Refresh(ctx context.Context) Outcome {
	ctx = context.WithoutCancel(ctx)

	out := r.fetcher.FetchStats(ctx)
	at := r.now()
	out.At = at

	if out.Succeeded() {
		if err := options.SetInt(ctx, r.store, r.settings.CountOption, out.Count); err != nil {
			log.Printf("cmcount: store count: %v", err)
		}
	}
	if err := options.SetInt(ctx, r.store, r.settings.LastPollOption, at.Unix()); err != nil {
		log.Printf("cmcount: store last poll: %v", err)
	}

	r.mu.Lock()
	r.last = &out
	r.mu.Unlock()

	if r.settings.Debug {
		switch out.Kind {
		case OutcomeSuccess:
			log.Printf("cmcount: poll %s stored %d subscribers", out.AttemptID, out.Count)
		default:
			log.Printf("cmcount: poll %s failed (%s): %s; next attempt in %ds", out.AttemptID, out.Kind, out.Message, r.settings.TTLSeconds)
		}
	}

	if out.Succeeded() && r.notifier != nil {
		r.notifier.CountUpdated(out.Count, at)
	}
	return out
}

// LastOutcome returns the most recent refresh result seen by this process.
func (r *Refresher) LastOutcome() (Outcome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return Outcome{}, false
	}
	return *r.last, true
}
