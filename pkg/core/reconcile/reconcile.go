// Package reconcile writes persistence plans to the link store.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/sequence"
	"github.com/wadjakorntonsri/go-linkbio/pkg/retry"
)

const defaultConcurrency = 4

// OrderWriter stores a single link's order_index.
type OrderWriter interface {
	UpdateOrder(ctx context.Context, id string, orderIndex int) error
}

// Batch is a plan tagged with the sequence version it was computed from.
type Batch struct {
	Seq  uint64
	Plan sequence.Plan
}

// Result reports what happened to each assignment of a batch.
type Result struct {
	Seq     uint64
	Applied []sequence.Assignment
	Failed  map[string]error
}

// Err returns a *domain.PersistenceError when any write failed.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return &domain.PersistenceError{Failed: r.Failed}
}

// Reconciler issues the writes of a batch independently; the store gives no
// batch atomicity, so a failed write never undoes the others.
type Reconciler struct {
	writer      OrderWriter
	concurrency int
	log         zerolog.Logger
}

func New(writer OrderWriter, concurrency int, log zerolog.Logger) *Reconciler {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	return &Reconciler{
		writer:      writer,
		concurrency: concurrency,
		log:         log.With().Str("component", "reconciler").Logger(),
	}
}

// Apply writes every assignment of b, retrying transient failures once.
func (r *Reconciler) Apply(ctx context.Context, b Batch) Result {
	errs := make([]error, len(b.Plan))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, a := range b.Plan {
		g.Go(func() error {
			errs[i] = retry.Once(ctx, func(ctx context.Context) error {
				return r.writer.UpdateOrder(ctx, a.ID, a.OrderIndex)
			})
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Seq: b.Seq}
	for i, a := range b.Plan {
		if errs[i] != nil {
			if res.Failed == nil {
				res.Failed = make(map[string]error)
			}
			res.Failed[a.ID] = errs[i]
			continue
		}
		res.Applied = append(res.Applied, a)
	}

	evt := r.log.Debug()
	if len(res.Failed) > 0 {
		evt = r.log.Warn()
	}
	evt.Uint64("batch", b.Seq).
		Int("writes", len(b.Plan)).
		Int("failed", len(res.Failed)).
		Msg("order batch applied")

	return res
}
