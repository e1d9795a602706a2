// Package staleness detects when the remote card set has diverged from the
// local card store by polling on a fixed interval.
//
// Detection is pull-based and never merges: a mismatch raises a sticky flag
// and only an explicit refresh (followed by Reset) lowers it.
package staleness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/logger"
	"github.com/brainboard/brainboard/shared/metrics"
)

const DefaultInterval = 5 * time.Second

var ErrPollInFlight = errors.New("poll already in flight")

// FetchFunc loads the authoritative card set for the active board.
type FetchFunc func(ctx context.Context) ([]domain.Card, error)

// LocalFunc returns the current local card set. It must be safe to call from
// the polling goroutine.
type LocalFunc func() []domain.Card

type entry struct {
	Id        domain.CardId `json:"id"`
	PositionX float64       `json:"position_x"`
	PositionY float64       `json:"position_y"`
	Text      *string       `json:"text"`
	UpdatedAt *time.Time    `json:"updated_at"`
}

// Signature projects cards to (id, position, text, updated_at), sorts them by
// id and serializes the result. Two card sets are equivalent iff their
// signatures are equal.
func Signature(cards []domain.Card) string {
	entries := make([]entry, len(cards))
	for i, c := range cards {
		entries[i] = entry{Id: c.Id, PositionX: c.PositionX, PositionY: c.PositionY, Text: c.Text, UpdatedAt: c.UpdatedAt}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Id < entries[j].Id })
	b, err := json.Marshal(entries)
	if err != nil {
		// Only non-finite positions fail to encode; they never reach the store.
		return fmt.Sprintf("%v", entries)
	}
	return string(b)
}

type Detector struct {
	fetch    FetchFunc
	local    LocalFunc
	interval time.Duration
	log      *slog.Logger

	polling atomic.Bool

	// mu orders Reset against the compare-and-set at the end of a poll.
	mu         sync.Mutex
	stale      bool
	generation uint64
}

func New(fetch FetchFunc, local LocalFunc, interval time.Duration) *Detector {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Detector{
		fetch:    fetch,
		local:    local,
		interval: interval,
		log:      logger.Component("staleness"),
	}
}

// Stale reports whether divergence has been seen since the last Reset.
func (d *Detector) Stale() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stale
}

// Reset clears the flag after a refresh. Polls started before the call are
// discarded when they return.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.stale = false
}

// Tick runs one poll and returns the resulting flag. A tick that finds a poll
// already running returns ErrPollInFlight without fetching.
func (d *Detector) Tick(ctx context.Context) (bool, error) {
	if !d.polling.CompareAndSwap(false, true) {
		metrics.PollsTotal.WithLabelValues(metrics.PollSkipped).Inc()
		return d.Stale(), ErrPollInFlight
	}
	defer d.polling.Store(false)

	d.mu.Lock()
	gen := d.generation
	d.mu.Unlock()

	remote, err := d.fetch(ctx)
	if err != nil {
		metrics.PollsTotal.WithLabelValues(metrics.PollFailed).Inc()
		return d.Stale(), fmt.Errorf("fetch remote cards: %w", err)
	}
	remoteSig := Signature(remote)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation != gen {
		metrics.PollsTotal.WithLabelValues(metrics.PollDropped).Inc()
		return d.stale, nil
	}
	if remoteSig == Signature(d.local()) {
		metrics.PollsTotal.WithLabelValues(metrics.PollInSync).Inc()
		return d.stale, nil
	}
	metrics.PollsTotal.WithLabelValues(metrics.PollStale).Inc()
	if !d.stale {
		d.stale = true
		metrics.StaleTransitions.Inc()
		d.log.Info("remote cards diverged from local state", "remote_cards", len(remote))
	}
	return true, nil
}

// Start polls every interval until ctx is cancelled. Each tick runs in its
// own goroutine so a slow fetch never delays the ticker; overlapping ticks
// are skipped. Failures are logged and retried on the next tick.
func (d *Detector) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Info("starting staleness polling", "interval", d.interval)
	for {
		select {
		case <-ticker.C:
			go func() {
				_, err := d.Tick(ctx)
				switch {
				case err == nil, errors.Is(err, ErrPollInFlight):
				case ctx.Err() != nil:
				default:
					d.log.Warn("staleness poll failed", "error", err)
				}
			}()
		case <-ctx.Done():
			d.log.Info("stopping staleness polling")
			return
		}
	}
}
