package services

import (
	"sort"
	"sync"
	"time"

	"eventnexus/internal/domain"
)

// DefaultModalGrace is how long a closed modal stays listed before it is pruned.
const DefaultModalGrace = 500 * time.Millisecond

type modalEntry struct {
	modal domain.Modal
	prune *time.Timer
}

type modalRegistry struct {
	mu     sync.Mutex
	owners map[string]map[string]*modalEntry
	grace  time.Duration
	now    func() time.Time
}

// NewModalRegistry returns an in-memory ModalRegistry. Entries are scoped by owner
// (a user id) and never persisted.
func NewModalRegistry(grace time.Duration) domain.ModalRegistry {
	if grace <= 0 {
		grace = DefaultModalGrace
	}
	return &modalRegistry{
		owners: make(map[string]map[string]*modalEntry),
		grace:  grace,
		now:    time.Now,
	}
}

func (r *modalRegistry) Open(owner, id string, content any) domain.Modal {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.owners[owner]
	if !ok {
		entries = make(map[string]*modalEntry)
		r.owners[owner] = entries
	}
	if e, ok := entries[id]; ok && e.prune != nil {
		e.prune.Stop()
	}
	m := domain.Modal{ID: id, Open: true, Content: content, OpenedAt: r.now().UTC()}
	entries[id] = &modalEntry{modal: m}
	return m
}

func (r *modalRegistry) Close(owner, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.owners[owner][id]
	if !ok || !e.modal.Open {
		return
	}
	e.modal.Open = false
	e.prune = time.AfterFunc(r.grace, func() { r.prune(owner, id, e) })
}

// prune drops e unless the modal was re-opened in the meantime.
func (r *modalRegistry) prune(owner, id string, e *modalEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.owners[owner]
	if entries[id] != e || e.modal.Open {
		return
	}
	delete(entries, id)
	if len(entries) == 0 {
		delete(r.owners, owner)
	}
}

func (r *modalRegistry) IsOpen(owner, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.owners[owner][id]
	return ok && e.modal.Open
}

func (r *modalRegistry) Content(owner, id string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.owners[owner][id]
	if !ok {
		return nil, false
	}
	return e.modal.Content, true
}

func (r *modalRegistry) List(owner string) []domain.Modal {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Modal, 0, len(r.owners[owner]))
	for _, e := range r.owners[owner] {
		out = append(out, e.modal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
