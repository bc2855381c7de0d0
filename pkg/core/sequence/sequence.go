// Package sequence holds the in-memory ordered link collection of one profile.
//
// Every mutation leaves the links indexed 0..n-1 in display order. The sequence
// also remembers the last order_index known to be stored for each link, which is
// what ToPersistencePlan diffs against.
package sequence

import (
	"sort"
	"strings"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

// Assignment is one order_index write.
type Assignment struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}

// Plan is the set of order_index writes needed to make the store match memory.
type Plan []Assignment

// Sequence is not safe for concurrent use; callers serialize access.
type Sequence struct {
	profileID string
	links     []domain.Link
	persisted map[string]int
}

// New builds a sequence from stored links. Links are ordered by their stored
// order_index (ties by creation time, then id) and renumbered contiguously; the
// stored values are kept as the persisted baseline, so a store with gaps or
// duplicates yields a non-empty plan.
func New(profileID string, stored []domain.Link) *Sequence {
	links := make([]domain.Link, len(stored))
	copy(links, stored)
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].OrderIndex != links[j].OrderIndex {
			return links[i].OrderIndex < links[j].OrderIndex
		}
		if !links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].CreatedAt.Before(links[j].CreatedAt)
		}
		return links[i].ID < links[j].ID
	})

	s := &Sequence{
		profileID: profileID,
		links:     links,
		persisted: make(map[string]int, len(links)),
	}
	for _, l := range links {
		s.persisted[l.ID] = l.OrderIndex
	}
	s.reindex()
	return s
}

func (s *Sequence) ProfileID() string { return s.profileID }

func (s *Sequence) Len() int { return len(s.links) }

// Links returns a copy of the links in display order.
func (s *Sequence) Links() []domain.Link {
	out := make([]domain.Link, len(s.links))
	copy(out, s.links)
	return out
}

// Active returns the active links in display order.
func (s *Sequence) Active() []domain.Link {
	return domain.ActiveOnly(s.links)
}

// Get returns the link with the given id.
func (s *Sequence) Get(id string) (domain.Link, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Link{}, notFound(id)
	}
	return s.links[i], nil
}

// Insert appends link with order_index = Len(). The link is not considered
// persisted until MarkPersisted is called for it.
func (s *Sequence) Insert(link domain.Link) (domain.Link, error) {
	link.Title = strings.TrimSpace(link.Title)
	link.URL = strings.TrimSpace(link.URL)
	if link.ID == "" {
		return domain.Link{}, &domain.ValidationError{Field: "id", Message: "id is required"}
	}
	if err := link.Validate(); err != nil {
		return domain.Link{}, err
	}
	if s.indexOf(link.ID) >= 0 {
		return domain.Link{}, &domain.ValidationError{Field: "id", Message: "link " + link.ID + " already in sequence"}
	}
	link.ProfileID = s.profileID
	link.Icon = domain.ParseIcon(string(link.Icon))
	link.OrderIndex = len(s.links)
	s.links = append(s.links, link)
	return link, nil
}

// Remove deletes the link and shifts every later link down by one.
func (s *Sequence) Remove(id string) (domain.Link, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Link{}, notFound(id)
	}
	removed := s.links[i]
	s.links = append(s.links[:i], s.links[i+1:]...)
	delete(s.persisted, id)
	s.reindex()
	return removed, nil
}

// Move lifts the link at from and drops it at to, shifting the links in
// between by one position (splice, not swap).
func (s *Sequence) Move(from, to int) error {
	n := len(s.links)
	if from < 0 || from >= n {
		return &domain.ValidationError{Field: "from", Message: "index out of range"}
	}
	if to < 0 || to >= n {
		return &domain.ValidationError{Field: "to", Message: "index out of range"}
	}
	if from == to {
		return nil
	}
	moved := s.links[from]
	if from < to {
		copy(s.links[from:to], s.links[from+1:to+1])
	} else {
		copy(s.links[to+1:from+1], s.links[to:from])
	}
	s.links[to] = moved
	s.reindex()
	return nil
}

// MoveID moves the link with the given id to position to.
func (s *Sequence) MoveID(id string, to int) error {
	from := s.indexOf(id)
	if from < 0 {
		return notFound(id)
	}
	return s.Move(from, to)
}

// SetActive flips the visibility flag. Order is untouched so a reactivated
// link reappears in its old slot.
func (s *Sequence) SetActive(id string, active bool) (domain.Link, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Link{}, notFound(id)
	}
	s.links[i].IsActive = active
	return s.links[i], nil
}

// Edit applies e to the link after validating the result.
func (s *Sequence) Edit(id string, e domain.LinkEdit) (domain.Link, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Link{}, notFound(id)
	}
	edited := e.Apply(s.links[i])
	if err := edited.Validate(); err != nil {
		return domain.Link{}, err
	}
	s.links[i] = edited
	return edited, nil
}

// Replace swaps in a fresh copy of a link (e.g. as returned by the store),
// keeping its in-memory position.
func (s *Sequence) Replace(link domain.Link) {
	i := s.indexOf(link.ID)
	if i < 0 {
		return
	}
	link.OrderIndex = i
	s.links[i] = link
}

// SetClickCounts copies stored counters onto the in-memory links. Order and
// every other field are left alone.
func (s *Sequence) SetClickCounts(counts map[string]int64) {
	for i := range s.links {
		if c, ok := counts[s.links[i].ID]; ok {
			s.links[i].ClickCount = c
		}
	}
}

// ToPersistencePlan returns the assignments whose in-memory index differs from
// the last persisted one, in display order. Links never persisted are skipped:
// their creation write carries their index.
func (s *Sequence) ToPersistencePlan() Plan {
	var plan Plan
	for i, l := range s.links {
		stored, ok := s.persisted[l.ID]
		if !ok || stored == i {
			continue
		}
		plan = append(plan, Assignment{ID: l.ID, OrderIndex: i})
	}
	return plan
}

// MarkPersisted records assignments as stored. Ids no longer in the sequence are ignored.
func (s *Sequence) MarkPersisted(assignments ...Assignment) {
	for _, a := range assignments {
		if s.indexOf(a.ID) < 0 {
			continue
		}
		s.persisted[a.ID] = a.OrderIndex
	}
}

// Persisted returns the last stored order_index of id.
func (s *Sequence) Persisted(id string) (int, bool) {
	v, ok := s.persisted[id]
	return v, ok
}

// Revert moves each of ids back to its last persisted position, lowest
// position first. Other links keep their relative order.
func (s *Sequence) Revert(ids []string) {
	type target struct {
		id  string
		pos int
	}
	targets := make([]target, 0, len(ids))
	for _, id := range ids {
		pos, ok := s.persisted[id]
		if !ok || s.indexOf(id) < 0 {
			continue
		}
		targets = append(targets, target{id: id, pos: pos})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].pos < targets[j].pos })

	for _, t := range targets {
		pos := t.pos
		if pos >= len(s.links) {
			pos = len(s.links) - 1
		}
		_ = s.MoveID(t.id, pos)
	}
}

func (s *Sequence) indexOf(id string) int {
	for i := range s.links {
		if s.links[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Sequence) reindex() {
	for i := range s.links {
		s.links[i].OrderIndex = i
	}
}

func notFound(id string) error {
	return &domain.NotFoundError{Resource: "link", ID: id}
}
