package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"eventnexus/internal/domain"
	"eventnexus/internal/store"
)

// ProfileStore keeps every user that ever signed in or registered, under the "profiles" key.
// Profiles outlive sessions; they back id reuse on login and the attendee export.
type ProfileStore struct {
	profiles *store.Collection[domain.User]
}

// NewProfileStore returns a ProfileStore over adapter.
func NewProfileStore(adapter *store.Adapter) *ProfileStore {
	return &ProfileStore{profiles: store.NewCollection[domain.User](adapter, domain.KeyProfiles)}
}

var _ domain.ProfileDirectory = (*ProfileStore)(nil)

// ProfilesByID returns all profiles keyed by user id.
func (p *ProfileStore) ProfilesByID(ctx context.Context) (map[string]domain.User, error) {
	items, err := p.profiles.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make(map[string]domain.User, len(items))
	for _, u := range items {
		out[u.ID] = u
	}
	return out, nil
}

// FindByEmail returns the most recently saved profile with email.
func (p *ProfileStore) FindByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	items, err := p.profiles.Items(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("find profile: %w", err)
	}
	for i := len(items) - 1; i >= 0; i-- {
		if strings.EqualFold(items[i].Email, email) {
			return &items[i], true, nil
		}
	}
	return nil, false, nil
}

// Save inserts or replaces the profile with the same id. Replaced profiles move to the end.
func (p *ProfileStore) Save(ctx context.Context, user domain.User) error {
	_, err := p.profiles.Update(ctx, func(items []domain.User) ([]domain.User, error) {
		items = slices.DeleteFunc(items, func(u domain.User) bool { return u.ID == user.ID })
		return append(items, user), nil
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (p *ProfileStore) exists(ctx context.Context, id string) (bool, error) {
	items, err := p.profiles.Items(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(items, func(u domain.User) bool { return u.ID == id }), nil
}
