package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory LinkStore, ProfileStore, TemplateStore and EventReader.
type memStore struct {
	mu        sync.Mutex
	links     map[string]domain.Link
	profiles  map[string]domain.Profile
	templates []domain.Template
	themes    []domain.Theme
	events    []domain.ClickEvent

	createErr  error
	updateErr  error
	orderFail  map[string]error
	orderCalls int

	// when gate is set every UpdateOrder call blocks on it after signalling started
	gate    chan struct{}
	started chan struct{}
}

func newMemStore() *memStore {
	return &memStore{
		links:     make(map[string]domain.Link),
		profiles:  make(map[string]domain.Profile),
		orderFail: make(map[string]error),
		templates: []domain.Template{
			{ID: "t1", Name: "minimal", DisplayName: "Minimal", LayoutType: "stack",
				DefaultColors: domain.Palette{Background: "#fff", Text: "#111", Primary: "#333", Secondary: "#666", Accent: "#09f"}},
		},
		themes: []domain.Theme{{ID: 1, Name: "Classic"}},
	}
}

func (m *memStore) addProfile(id, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[id] = domain.Profile{ID: id, Username: username, DisplayName: username, TemplateName: "minimal", ThemeID: 1}
}

func (m *memStore) orders(profileID string) map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for _, l := range m.links {
		if l.ProfileID == profileID {
			out[l.ID] = l.OrderIndex
		}
	}
	return out
}

func (m *memStore) List(_ context.Context, profileID string) ([]domain.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Link
	for _, l := range m.links {
		if l.ProfileID == profileID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *memStore) ListActive(ctx context.Context, profileID string) ([]domain.Link, error) {
	all, _ := m.List(ctx, profileID)
	return domain.ActiveOnly(all), nil
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "link", ID: id}
	}
	return &l, nil
}

func (m *memStore) Create(_ context.Context, link *domain.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.links[link.ID] = *link
	return nil
}

func (m *memStore) Update(_ context.Context, id string, patch ports.LinkPatch) (*domain.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	l, ok := m.links[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "link", ID: id}
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.URL != nil {
		l.URL = *patch.URL
	}
	if patch.Icon != nil {
		l.Icon = *patch.Icon
	}
	if patch.IsActive != nil {
		l.IsActive = *patch.IsActive
	}
	if patch.OrderIndex != nil {
		l.OrderIndex = *patch.OrderIndex
	}
	m.links[id] = l
	return &l, nil
}

func (m *memStore) UpdateOrder(_ context.Context, id string, orderIndex int) error {
	m.mu.Lock()
	gate, started := m.gate, m.started
	m.mu.Unlock()
	if gate != nil {
		select {
		case started <- struct{}{}:
		default:
		}
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderCalls++
	if err := m.orderFail[id]; err != nil {
		return err
	}
	l, ok := m.links[id]
	if !ok {
		return &domain.NotFoundError{Resource: "link", ID: id}
	}
	l.OrderIndex = orderIndex
	m.links[id] = l
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.links[id]; !ok {
		return &domain.NotFoundError{Resource: "link", ID: id}
	}
	delete(m.links, id)
	return nil
}

func (m *memStore) ListEvents(_ context.Context, linkIDs []string, since time.Time) ([]domain.ClickEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(linkIDs))
	for _, id := range linkIDs {
		want[id] = true
	}
	var out []domain.ClickEvent
	for _, e := range m.events {
		if want[e.LinkID] && !e.ClickedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CreateProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = *p
	return nil
}

func (m *memStore) GetProfile(_ context.Context, id string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "profile", ID: id}
	}
	return &p, nil
}

func (m *memStore) GetProfileByUsername(_ context.Context, username string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "profile", ID: username}
}

func (m *memStore) UpdateProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; !ok {
		return &domain.NotFoundError{Resource: "profile", ID: p.ID}
	}
	m.profiles[p.ID] = *p
	return nil
}

func (m *memStore) DeleteProfile(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[id]; !ok {
		return &domain.NotFoundError{Resource: "profile", ID: id}
	}
	delete(m.profiles, id)
	return nil
}

func (m *memStore) ListProfiles(_ context.Context, ownerEmail string) ([]domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Profile
	for _, p := range m.profiles {
		if ownerEmail == "" || p.OwnerEmail == ownerEmail {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ListTemplates(context.Context) ([]domain.Template, error) {
	return m.templates, nil
}

func (m *memStore) GetTemplateByName(_ context.Context, name string) (*domain.Template, error) {
	for _, t := range m.templates {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "template", ID: name}
}

func (m *memStore) ListThemes(context.Context) ([]domain.Theme, error) {
	return m.themes, nil
}

func (m *memStore) GetTheme(_ context.Context, id int64) (*domain.Theme, error) {
	for _, t := range m.themes {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "theme", ID: "theme"}
}

// eventLog is an EventStore without transactions.
type eventLog struct {
	mu        sync.Mutex
	events    []domain.ClickEvent
	counters  map[string]int64
	appendErr error
	incErr    error
	appends   int
	incCalls  int
}

func newEventLog() *eventLog {
	return &eventLog{counters: make(map[string]int64)}
}

func (e *eventLog) AppendEvent(_ context.Context, event *domain.ClickEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appends++
	if e.appendErr != nil {
		return e.appendErr
	}
	e.events = append(e.events, *event)
	return nil
}

func (e *eventLog) IncrementCounter(_ context.Context, linkID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.incCalls++
	if e.incErr != nil {
		return e.incErr
	}
	e.counters[linkID]++
	return nil
}
