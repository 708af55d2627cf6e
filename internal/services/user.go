package services

import (
	"context"
	"fmt"

	"moment-admin-backend/internal/models"

	"golang.org/x/sync/errgroup"
)

// RecentPostsLimit caps the posts returned in a user detail view
const RecentPostsLimit = 50

// ProfileStore reads profiles
type ProfileStore interface {
	List(ctx context.Context) ([]models.Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Profile, error)
	ListWithCounts(ctx context.Context) ([]models.UserWithStats, error)
}

// PostStore reads posts
type PostStore interface {
	CountByUser(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Post, error)
}

// FriendStore reads friend requests
type FriendStore interface {
	CountAccepted(ctx context.Context, userID string) (int, error)
	ListAccepted(ctx context.Context, userID string) ([]models.FriendEdge, error)
}

// GroupStore reads groups and memberships
type GroupStore interface {
	CountByUser(ctx context.Context, userID string) (int, error)
	CountMembers(ctx context.Context, groupID string) (int, error)
	ListMemberships(ctx context.Context, userID string) ([]models.GroupMembership, error)
}

// AvatarResolver turns stored avatar references into viewable URLs
type AvatarResolver interface {
	Resolve(ctx context.Context, ref *string) *string
}

// UserService builds the user list and user detail views
type UserService struct {
	profiles      ProfileStore
	posts         PostStore
	friends       FriendStore
	groups        GroupStore
	avatars       AvatarResolver
	groupedCounts bool
}

// UserServiceOption configures a UserService
type UserServiceOption func(*UserService)

// WithAvatarResolver resolves avatar references in returned profiles
func WithAvatarResolver(r AvatarResolver) UserServiceOption {
	return func(s *UserService) { s.avatars = r }
}

// WithGroupedCounts computes list counts in one grouped query instead of
// three queries per profile
func WithGroupedCounts(enabled bool) UserServiceOption {
	return func(s *UserService) { s.groupedCounts = enabled }
}

// NewUserService creates a new user service
func NewUserService(profiles ProfileStore, posts PostStore, friends FriendStore, groups GroupStore, opts ...UserServiceOption) *UserService {
	s := &UserService{
		profiles: profiles,
		posts:    posts,
		friends:  friends,
		groups:   groups,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListUsers returns every profile, newest first, with its post, friend and
// group counts. Any failed query fails the whole list.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserWithStats, error) {
	var (
		users []models.UserWithStats
		err   error
	)
	if s.groupedCounts {
		users, err = s.profiles.ListWithCounts(ctx)
	} else {
		users, err = s.listUsersPerProfile(ctx)
	}
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].AvatarURL = s.resolveAvatar(ctx, users[i].AvatarURL)
	}
	return users, nil
}

func (s *UserService) listUsersPerProfile(ctx context.Context) ([]models.UserWithStats, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	users := make([]models.UserWithStats, len(profiles))
	g, ctx := errgroup.WithContext(ctx)

	for i, profile := range profiles {
		g.Go(func() error {
			counts, err := s.countsFor(ctx, profile.ID)
			if err != nil {
				return fmt.Errorf("failed to count stats for user %s: %w", profile.ID, err)
			}
			users[i] = models.UserWithStats{Profile: profile, UserCounts: counts}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return users, nil
}

// countsFor issues the three count queries of a profile concurrently
func (s *UserService) countsFor(ctx context.Context, userID string) (models.UserCounts, error) {
	var counts models.UserCounts
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.posts.CountByUser(ctx, userID)
		counts.PostCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.friends.CountAccepted(ctx, userID)
		counts.FriendCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.groups.CountByUser(ctx, userID)
		counts.GroupCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		return models.UserCounts{}, err
	}
	return counts, nil
}

// GetUserDetail returns the recent posts, friends and groups of a user.
// The three views are fetched concurrently; any failure fails the detail.
func (s *UserService) GetUserDetail(ctx context.Context, userID string) (*models.UserDetail, error) {
	detail := &models.UserDetail{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		posts, err := s.posts.ListByUser(ctx, userID, RecentPostsLimit)
		if err != nil {
			return fmt.Errorf("failed to get posts: %w", err)
		}
		detail.Posts = posts
		return nil
	})
	g.Go(func() error {
		friends, err := s.getFriends(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get friends: %w", err)
		}
		detail.Friends = friends
		return nil
	})
	g.Go(func() error {
		groups, err := s.getGroups(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get groups: %w", err)
		}
		detail.Groups = groups
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if detail.Posts == nil {
		detail.Posts = []models.Post{}
	}
	return detail, nil
}

func (s *UserService) getFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	edges, err := s.friends.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []models.Friend{}, nil
	}

	ids := make([]string, 0, len(edges))
	seen := make(map[string]bool, len(edges))
	for _, e := range edges {
		id := e.Other(userID)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	profiles, err := s.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	friends := resolveFriends(ids, edges, profiles)
	for i := range friends {
		friends[i].AvatarURL = s.resolveAvatar(ctx, friends[i].AvatarURL)
	}
	return friends, nil
}

// resolveFriends pairs each counterpart id, in order, with its profile and
// the first edge touching that profile. Ids without a profile are dropped.
func resolveFriends(ids []string, edges []models.FriendEdge, profiles []models.Profile) []models.Friend {
	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	friends := make([]models.Friend, 0, len(ids))
	for _, id := range ids {
		profile, ok := byID[id]
		if !ok {
			continue
		}

		friend := models.Friend{
			ID:        profile.ID,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			AvatarURL: profile.AvatarURL,
			Status:    models.FriendStatusAccepted,
		}
		for _, e := range edges {
			if e.Touches(profile.ID) {
				friend.CreatedAt = e.CreatedAt
				break
			}
		}
		friends = append(friends, friend)
	}
	return friends
}

func (s *UserService) getGroups(ctx context.Context, userID string) ([]models.Group, error) {
	memberships, err := s.groups.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	records := make([]*models.GroupRecord, 0, len(memberships))
	for _, m := range memberships {
		if m.Group != nil {
			records = append(records, m.Group)
		}
	}

	groups := make([]models.Group, len(records))
	g, ctx := errgroup.WithContext(ctx)

	for i, record := range records {
		g.Go(func() error {
			count, err := s.groups.CountMembers(ctx, record.ID)
			if err != nil {
				return fmt.Errorf("failed to count members of group %s: %w", record.ID, err)
			}
			groups[i] = models.Group{
				ID:          record.ID,
				Name:        record.Name,
				CreatedAt:   record.CreatedAt,
				MemberCount: count,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return groups, nil
}

func (s *UserService) resolveAvatar(ctx context.Context, ref *string) *string {
	if s.avatars == nil {
		return ref
	}
	return s.avatars.Resolve(ctx, ref)
}
