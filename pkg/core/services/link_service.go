package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/reconcile"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

const defaultReconcileTimeout = 10 * time.Second

type LinkService struct {
	store      ports.LinkStore
	profiles   ports.ProfileStore
	reconciler *reconcile.Reconciler
	log        zerolog.Logger
	timeout    time.Duration
	newID      func() string
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*LinkSession
	draining []*LinkSession // dropped from sessions with order writes in flight
}

// NewLinkService keeps one LinkSession per profile, created on first use.
func NewLinkService(store ports.LinkStore, profiles ports.ProfileStore, reconciler *reconcile.Reconciler, log zerolog.Logger, timeout time.Duration) *LinkService {
	if timeout <= 0 {
		timeout = defaultReconcileTimeout
	}
	return &LinkService{
		store:      store,
		profiles:   profiles,
		reconciler: reconciler,
		log:        log.With().Str("component", "links").Logger(),
		timeout:    timeout,
		newID:      uuid.NewString,
		now:        time.Now,
		sessions:   make(map[string]*LinkSession),
	}
}

var _ ports.LinkService = (*LinkService)(nil)

func (s *LinkService) session(ctx context.Context, profileID string) (*LinkSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[profileID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	if _, err := s.profiles.GetProfile(ctx, profileID); err != nil {
		return nil, err
	}
	loaded, err := NewLinkSession(ctx, profileID, s.store, s.reconciler, s.log, s.timeout)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[profileID]; ok {
		// lost the race to a concurrent first load
		s.retireLocked(loaded)
		return sess, nil
	}
	s.sessions[profileID] = loaded
	return loaded, nil
}

// retireLocked keeps sess reachable for Shutdown while it still has order
// writes in flight.
func (s *LinkService) retireLocked(sess *LinkSession) {
	kept := s.draining[:0]
	for _, d := range s.draining {
		if d.Flushing() {
			kept = append(kept, d)
		}
	}
	s.draining = kept
	if sess.Flushing() {
		s.draining = append(s.draining, sess)
	}
}

// List returns the session's order with click counters fresh from the store.
func (s *LinkService) List(ctx context.Context, profileID string) ([]domain.Link, error) {
	sess, err := s.session(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return sess.Refresh(ctx)
}

func (s *LinkService) Create(ctx context.Context, profileID string, in ports.NewLink) (*domain.Link, error) {
	sess, err := s.session(ctx, profileID)
	if err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := s.now()
	return sess.Insert(ctx, domain.Link{
		ID:        s.newID(),
		Title:     in.Title,
		URL:       in.URL,
		Icon:      domain.Icon(in.Icon),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *LinkService) Edit(ctx context.Context, profileID, linkID string, edit domain.LinkEdit) (*domain.Link, error) {
	sess, err := s.session(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return sess.Edit(ctx, linkID, edit)
}

func (s *LinkService) SetActive(ctx context.Context, profileID, linkID string, active bool) (*domain.Link, error) {
	sess, err := s.session(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return sess.SetActive(ctx, linkID, active)
}

func (s *LinkService) Delete(ctx context.Context, profileID, linkID string) error {
	sess, err := s.session(ctx, profileID)
	if err != nil {
		return err
	}
	return sess.Remove(ctx, linkID)
}

func (s *LinkService) Move(ctx context.Context, profileID string, from, to int) ([]domain.Link, error) {
	sess, err := s.session(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return sess.Move(from, to)
}

func (s *LinkService) Sync(ctx context.Context, profileID string) ([]domain.Link, error) {
	sess, err := s.session(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return sess.Sync(ctx)
}

// Resolve looks a link up for the public redirect. Inactive links are reported missing.
func (s *LinkService) Resolve(ctx context.Context, linkID string) (*domain.Link, error) {
	link, err := s.store.Get(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if !link.IsActive {
		return nil, &domain.NotFoundError{Resource: "link", ID: linkID}
	}
	return link, nil
}

func (s *LinkService) Evict(profileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[profileID]; ok {
		delete(s.sessions, profileID)
		s.retireLocked(sess)
	}
}

// Shutdown waits for in-flight order writes of every session, evicted ones included.
func (s *LinkService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*LinkSession, 0, len(s.sessions)+len(s.draining))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sessions = append(sessions, s.draining...)
	s.mu.Unlock()

	for _, sess := range sessions {
		if err := sess.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
