package subscribers

import (
	"context"
	"log"
	"time"

	"cmcount/internal/options"
)

// RefreshRunner is what the gate calls when the cached count is due.
type RefreshRunner interface {
	Refresh(ctx context.Context) Outcome
}

// Gate decides, once per unit of host work, whether the cached count is
// stale. It takes no locks: two requests racing past an expired TTL may both
// refresh, and the last write wins.
type Gate struct {
	settings  Settings
	store     options.Store
	refresher RefreshRunner
	now       func() time.Time
}

func NewGate(settings Settings, store options.Store, refresher RefreshRunner, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{
		settings:  settings,
		store:     store,
		refresher: refresher,
		now:       now,
	}
}

// MaybeRefresh runs a refresh inline when the TTL has run out, or when the
// options have never been created. Elapsed time is not checked for clock
// skew: a last poll in the future just holds refreshes off until it passes.
// Cancelling ctx does not interrupt the check or a refresh it starts.
func (g *Gate) MaybeRefresh(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	last, err := options.GetInt(ctx, g.store, g.settings.LastPollOption, 0)
	if err != nil {
		log.Printf("cmcount: read last poll: %v", err)
		return
	}

	if last == 0 {
		g.initialize(ctx)
		g.refresher.Refresh(ctx)
		return
	}

	current := g.now().Unix()
	elapsed := current - last
	if elapsed > g.settings.TTLSeconds {
		if g.settings.Debug {
			log.Printf("cmcount: cache has expired (last poll at %d | current time: %d | %d). polling...", last, current, elapsed)
		}
		g.refresher.Refresh(ctx)
		return
	}

	if g.settings.Debug {
		log.Printf("cmcount: cache not expired, no new poll")
	}
}

// initialize creates both options the first time the gate runs.
func (g *Gate) initialize(ctx context.Context) {
	if err := options.AddInt(ctx, g.store, g.settings.LastPollOption, g.now().Unix()); err != nil {
		log.Printf("cmcount: create last poll option: %v", err)
	}
	if err := options.AddInt(ctx, g.store, g.settings.CountOption, 0); err != nil {
		log.Printf("cmcount: create count option: %v", err)
	}
}

// Count is the cached subscriber count, or def if it has never been stored
// or cannot be read.
func (g *Gate) Count(ctx context.Context, def int64) int64 {
	n, err := options.GetInt(ctx, g.store, g.settings.CountOption, def)
	if err != nil {
		log.Printf("cmcount: read count: %v", err)
		return def
	}
	return n
}

// Status is a point-in-time view of the cached state.
type Status struct {
	Count       int64    `json:"count"`
	LastPoll    int64    `json:"lastPoll"`
	TTLSeconds  int64    `json:"ttlSeconds"`
	NextPollDue int64    `json:"nextPollDue"`
	LastOutcome *Outcome `json:"lastOutcome,omitempty"`
	Initialized bool     `json:"initialized"`
}

// Status reads the stored options without triggering a refresh.
func (g *Gate) Status(ctx context.Context) (Status, error) {
	last, err := options.GetInt(ctx, g.store, g.settings.LastPollOption, 0)
	if err != nil {
		return Status{}, err
	}
	count, err := options.GetInt(ctx, g.store, g.settings.CountOption, 0)
	if err != nil {
		return Status{}, err
	}

	st := Status{
		Count:       count,
		LastPoll:    last,
		TTLSeconds:  g.settings.TTLSeconds,
		Initialized: last != 0,
	}
	if last != 0 {
		st.NextPollDue = last + g.settings.TTLSeconds + 1
	}
	if r, ok := g.refresher.(interface{ LastOutcome() (Outcome, bool) }); ok {
		if out, ok := r.LastOutcome(); ok {
			st.LastOutcome = &out
		}
	}
	return st, nil
}
