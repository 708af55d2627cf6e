package services

import (
	"context"
	"fmt"

	"moment-admin-backend/internal/models"

	"golang.org/x/sync/errgroup"
)

// BetaGroupStore reads beta groups and their members
type BetaGroupStore interface {
	List(ctx context.Context) ([]models.BetaGroup, error)
	ListMembers(ctx context.Context, groupID string) ([]models.BetaGroupMember, error)
	ListPending(ctx context.Context, groupID string) ([]models.BetaGroupPendingMember, error)
}

// BetaGroupService lists beta groups and who is in them. Pending members
// are promoted on signup by the app backend, never here.
type BetaGroupService struct {
	store   BetaGroupStore
	avatars AvatarResolver
}

// NewBetaGroupService creates a new beta group service
func NewBetaGroupService(store BetaGroupStore, avatars AvatarResolver) *BetaGroupService {
	return &BetaGroupService{store: store, avatars: avatars}
}

// ListGroups returns every beta group, newest first
func (s *BetaGroupService) ListGroups(ctx context.Context) ([]models.BetaGroup, error) {
	groups, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list beta groups: %w", err)
	}
	if groups == nil {
		groups = []models.BetaGroup{}
	}
	return groups, nil
}

// GetGroup returns the joined and pending members of a beta group
func (s *BetaGroupService) GetGroup(ctx context.Context, groupID string) (*models.BetaGroupDetail, error) {
	detail := &models.BetaGroupDetail{
		Members: []models.BetaGroupMember{},
		Pending: []models.BetaGroupPendingMember{},
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		members, err := s.store.ListMembers(gctx, groupID)
		if err != nil {
			return fmt.Errorf("failed to get members: %w", err)
		}
		if members != nil {
			detail.Members = members
		}
		return nil
	})
	g.Go(func() error {
		pending, err := s.store.ListPending(gctx, groupID)
		if err != nil {
			return fmt.Errorf("failed to get pending members: %w", err)
		}
		if pending != nil {
			detail.Pending = pending
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.avatars != nil {
		for _, m := range detail.Members {
			if m.Profile != nil {
				m.Profile.AvatarURL = s.avatars.Resolve(ctx, m.Profile.AvatarURL)
			}
		}
	}

	return detail, nil
}
