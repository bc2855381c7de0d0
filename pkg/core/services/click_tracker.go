package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
	"github.com/wadjakorntonsri/go-linkbio/pkg/retry"
)

const trackTimeout = 5 * time.Second

// ClickTracker appends a click event and bumps the link counter.
// A counter is only incremented after its event is stored.
type ClickTracker struct {
	events ports.EventStore
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string
	wg     sync.WaitGroup
}

func NewClickTracker(events ports.EventStore, log zerolog.Logger) *ClickTracker {
	return &ClickTracker{
		events: events,
		log:    log.With().Str("component", "clicks").Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

var _ ports.ClickRecorder = (*ClickTracker)(nil)

// RecordClick stores one activation. The returned *domain.TrackingError is
// meant for logging; callers never surface it to the visitor.
func (t *ClickTracker) RecordClick(ctx context.Context, linkID string, meta domain.ClickMeta) error {
	event := &domain.ClickEvent{
		ID:        t.newID(),
		LinkID:    linkID,
		ClickedAt: t.now().UTC(),
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if tx, ok := t.events.(ports.TransactionalEventStore); ok {
		err := retry.Once(ctx, func(ctx context.Context) error { return tx.AppendAndIncrement(ctx, event) })
		if err != nil {
			return t.fail(linkID, "append", err)
		}
		return nil
	}

	if err := retry.Once(ctx, func(ctx context.Context) error { return t.events.AppendEvent(ctx, event) }); err != nil {
		return t.fail(linkID, "append", err)
	}
	// An increment may have landed even when it reports an error, so it is
	// never repeated. Appends carry the event id and stay safe to retry.
	if err := t.events.IncrementCounter(ctx, linkID); err != nil {
		return t.fail(linkID, "increment", err)
	}
	return nil
}

// Track records the click in the background so the caller is never delayed.
func (t *ClickTracker) Track(linkID string, meta domain.ClickMeta) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()
		_ = t.RecordClick(ctx, linkID, meta)
	}()
}

// Wait blocks until every background Track call has finished.
func (t *ClickTracker) Wait() {
	t.wg.Wait()
}

func (t *ClickTracker) fail(linkID, stage string, err error) error {
	terr := &domain.TrackingError{LinkID: linkID, Stage: stage, Err: err}
	t.log.Warn().Err(err).Str("link_id", linkID).Str("stage", stage).Msg("click not recorded")
	return terr
}
