package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/reconcile"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/sequence"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
	"github.com/wadjakorntonsri/go-linkbio/pkg/retry"
)

// LinkSession owns the authoritative in-memory order of one profile's links.
//
// Mutations apply synchronously. Order writes go out on a single flush
// goroutine: each batch is computed from the latest state when it is dispatched
// and tagged with the version it was computed from. A result whose version is
// no longer current only updates the persisted baseline; its failures are
// ignored because a newer batch is already pending.
type LinkSession struct {
	store      ports.LinkStore
	reconciler *reconcile.Reconciler
	log        zerolog.Logger
	timeout    time.Duration

	mu      sync.Mutex
	seq     *sequence.Sequence
	version uint64
	dirty   bool
	repair  bool
	done    chan struct{} // non-nil while the flush goroutine runs
	lastErr error
	stale   int
}

// NewLinkSession loads the profile's links. If the stored order is not
// contiguous a settle batch is scheduled right away.
func NewLinkSession(ctx context.Context, profileID string, store ports.LinkStore, reconciler *reconcile.Reconciler, log zerolog.Logger, timeout time.Duration) (*LinkSession, error) {
	links, err := store.List(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	s := &LinkSession{
		store:      store,
		reconciler: reconciler,
		log:        log.With().Str("profile_id", profileID).Logger(),
		timeout:    timeout,
		seq:        sequence.New(profileID, links),
	}

	s.mu.Lock()
	if len(s.seq.ToPersistencePlan()) > 0 {
		s.log.Info().Msg("stored order is not contiguous, settling")
		s.scheduleLocked()
	}
	s.mu.Unlock()

	return s, nil
}

// Refresh copies the stored click counters onto the in-memory order.
// Click tracking writes them straight to the store.
func (s *LinkSession) Refresh(ctx context.Context) ([]domain.Link, error) {
	stored, err := s.store.List(ctx, s.seq.ProfileID())
	if err != nil {
		return nil, fmt.Errorf("load click counts: %w", err)
	}
	counts := make(map[string]int64, len(stored))
	for _, l := range stored {
		counts[l.ID] = l.ClickCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq.SetClickCounts(counts)
	return s.seq.Links(), nil
}

// Insert appends a link and creates it in the store. On failure the link is
// dropped from the sequence again.
func (s *LinkSession) Insert(ctx context.Context, link domain.Link) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted, err := s.seq.Insert(link)
	if err != nil {
		return nil, err
	}

	created := inserted
	if err := retry.Once(ctx, func(ctx context.Context) error { return s.store.Create(ctx, &created) }); err != nil {
		_, _ = s.seq.Remove(inserted.ID)
		return nil, fmt.Errorf("create link: %w", err)
	}

	s.seq.Replace(created)
	s.seq.MarkPersisted(sequence.Assignment{ID: created.ID, OrderIndex: created.OrderIndex})
	s.version++
	return &created, nil
}

// Remove deletes the link and schedules the compaction writes.
func (s *LinkSession) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.seq.Get(id); err != nil {
		return err
	}

	err := retry.Once(ctx, func(ctx context.Context) error { return s.store.Delete(ctx, id) })
	if err != nil && !domain.IsNotFound(err) {
		return fmt.Errorf("delete link: %w", err)
	}

	if _, err := s.seq.Remove(id); err != nil {
		return err
	}
	s.bumpLocked()
	return nil
}

// Move splices the link at from into to and schedules the order writes.
func (s *LinkSession) Move(from, to int) ([]domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.seq.Move(from, to); err != nil {
		return nil, err
	}
	if from != to {
		s.bumpLocked()
	}
	return s.seq.Links(), nil
}

// SetActive toggles visibility and stores the flag.
func (s *LinkSession) SetActive(ctx context.Context, id string, active bool) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.seq.Get(id)
	if err != nil {
		return nil, err
	}
	link, err := s.seq.SetActive(id, active)
	if err != nil {
		return nil, err
	}

	patch := ports.LinkPatch{IsActive: &active}
	if _, err := s.update(ctx, id, patch); err != nil {
		s.seq.Replace(before)
		return nil, err
	}
	return &link, nil
}

// Edit changes title, url or icon and stores them.
func (s *LinkSession) Edit(ctx context.Context, id string, edit domain.LinkEdit) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.seq.Get(id)
	if err != nil {
		return nil, err
	}
	link, err := s.seq.Edit(id, edit)
	if err != nil {
		return nil, err
	}

	patch := ports.LinkPatch{}
	if edit.Title != nil {
		patch.Title = &link.Title
	}
	if edit.URL != nil {
		patch.URL = &link.URL
	}
	if edit.Icon != nil {
		patch.Icon = &link.Icon
	}
	stored, err := s.update(ctx, id, patch)
	if err != nil {
		s.seq.Replace(before)
		return nil, err
	}

	stored.OrderIndex = link.OrderIndex
	stored.IsActive = link.IsActive
	s.seq.Replace(*stored)
	return stored, nil
}

func (s *LinkSession) update(ctx context.Context, id string, patch ports.LinkPatch) (*domain.Link, error) {
	var stored *domain.Link
	err := retry.Once(ctx, func(ctx context.Context) error {
		var err error
		stored, err = s.store.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}
	return stored, nil
}

// Sync pushes any outstanding order writes and waits until the flush goroutine
// is idle. It returns the settled links and the PersistenceError of the last
// failed batch, if it has not been reported yet.
func (s *LinkSession) Sync(ctx context.Context) ([]domain.Link, error) {
	s.mu.Lock()
	if len(s.seq.ToPersistencePlan()) > 0 {
		s.scheduleLocked()
	}
	done := s.done
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.lastErr
	s.lastErr = nil
	return s.seq.Links(), err
}

// Wait blocks until no order writes are in flight.
func (s *LinkSession) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flushing reports whether the flush goroutine is running.
func (s *LinkSession) Flushing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// StaleResults counts batch results that arrived after a newer mutation.
func (s *LinkSession) StaleResults() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

func (s *LinkSession) bumpLocked() {
	s.version++
	s.scheduleLocked()
}

func (s *LinkSession) scheduleLocked() {
	s.dirty = true
	if s.done != nil {
		return
	}
	s.done = make(chan struct{})
	go s.flushLoop(s.done)
}

func (s *LinkSession) flushLoop(done chan struct{}) {
	for {
		s.mu.Lock()
		if !s.dirty {
			s.done = nil
			s.mu.Unlock()
			close(done)
			return
		}
		s.dirty = false
		repair := s.repair
		s.repair = false
		batch := reconcile.Batch{Seq: s.version, Plan: s.seq.ToPersistencePlan()}
		s.mu.Unlock()

		if len(batch.Plan) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		res := s.reconciler.Apply(ctx, batch)
		cancel()

		s.settle(res, repair)
	}
}

func (s *LinkSession) settle(res reconcile.Result, repair bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq.MarkPersisted(res.Applied...)

	if res.Seq != s.version {
		s.stale++
		s.log.Debug().Uint64("batch", res.Seq).Uint64("current", s.version).Msg("ignoring stale batch result")
		if len(res.Failed) > 0 {
			// retried by the next batch, computed from the current order
			s.dirty = true
		}
		return
	}

	if len(res.Failed) == 0 {
		if !repair {
			s.lastErr = nil
		}
		return
	}

	perr := &domain.PersistenceError{Failed: res.Failed}
	s.lastErr = perr
	failed := perr.IDs()
	s.log.Warn().Err(perr).Strs("link_ids", failed).Msg("reverting links whose order write failed")

	s.seq.Revert(failed)
	s.version++
	if !repair && len(s.seq.ToPersistencePlan()) > 0 {
		s.repair = true
		s.dirty = true
	}
}
