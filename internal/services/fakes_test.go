package services

import (
	"context"
	"sort"
	"sync"

	"moment-admin-backend/internal/models"
)

// fakeDB is an in-memory stand-in for the Data Store implementing every
// store interface the services use.
type fakeDB struct {
	mu sync.Mutex

	profiles    []models.Profile
	posts       []models.Post
	edges       []models.FriendEdge
	memberships map[string][]models.GroupMembership // by user id
	groupSizes  map[string]int                      // by group id

	weekly     []models.WeeklyMetric
	userWeekly []models.UserWeeklyMetric
	weeklyErr  error
	usersErr   error

	betaGroups []models.BetaGroup
	members    map[string][]models.BetaGroupMember
	pending    map[string][]models.BetaGroupPendingMember

	// failOn makes the named operation return err
	failOn map[string]error

	postLimits []int
	calls      map[string]int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		memberships: map[string][]models.GroupMembership{},
		groupSizes:  map[string]int{},
		members:     map[string][]models.BetaGroupMember{},
		pending:     map[string][]models.BetaGroupPendingMember{},
		failOn:      map[string]error{},
		calls:       map[string]int{},
	}
}

func (f *fakeDB) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.failOn[op]
}

func (f *fakeDB) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// ProfileStore

func (f *fakeDB) List(ctx context.Context) ([]models.Profile, error) {
	if err := f.record("profiles.List"); err != nil {
		return nil, err
	}
	out := append([]models.Profile(nil), f.profiles...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeDB) GetByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	if err := f.record("profiles.GetByIDs"); err != nil {
		return nil, err
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Profile
	// reverse order to show callers do not rely on result order
	for i := len(f.profiles) - 1; i >= 0; i-- {
		if want[f.profiles[i].ID] {
			out = append(out, f.profiles[i])
		}
	}
	return out, nil
}

func (f *fakeDB) ListWithCounts(ctx context.Context) ([]models.UserWithStats, error) {
	if err := f.record("profiles.ListWithCounts"); err != nil {
		return nil, err
	}
	profiles, _ := f.List(ctx)
	out := make([]models.UserWithStats, 0, len(profiles))
	for _, p := range profiles {
		posts, _ := f.countPosts(p.ID)
		friends, _ := f.countFriends(p.ID)
		groups := len(f.memberships[p.ID])
		out = append(out, models.UserWithStats{
			Profile:    p,
			UserCounts: models.UserCounts{PostCount: posts, FriendCount: friends, GroupCount: groups},
		})
	}
	return out, nil
}

// PostStore / GroupStore share CountByUser, so posts and groups are
// exposed through small adapters below.

type fakePosts struct{ *fakeDB }

func (f fakePosts) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := f.record("posts.CountByUser"); err != nil {
		return 0, err
	}
	return f.countPosts(userID)
}

func (f fakePosts) ListByUser(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	if err := f.record("posts.ListByUser"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.postLimits = append(f.postLimits, limit)
	f.mu.Unlock()

	var out []models.Post
	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDB) countPosts(userID string) (int, error) {
	n := 0
	for _, p := range f.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

// FriendStore

func (f *fakeDB) CountAccepted(ctx context.Context, userID string) (int, error) {
	if err := f.record("friends.CountAccepted"); err != nil {
		return 0, err
	}
	return f.countFriends(userID)
}

func (f *fakeDB) countFriends(userID string) (int, error) {
	n := 0
	for _, e := range f.edges {
		if e.Status == models.FriendStatusAccepted && e.Touches(userID) {
			n++
		}
	}
	return n, nil
}

func (f *fakeDB) ListAccepted(ctx context.Context, userID string) ([]models.FriendEdge, error) {
	if err := f.record("friends.ListAccepted"); err != nil {
		return nil, err
	}
	var out []models.FriendEdge
	for _, e := range f.edges {
		if e.Status == models.FriendStatusAccepted && e.Touches(userID) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeGroups struct{ *fakeDB }

func (f fakeGroups) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := f.record("groups.CountByUser"); err != nil {
		return 0, err
	}
	return len(f.memberships[userID]), nil
}

func (f fakeGroups) CountMembers(ctx context.Context, groupID string) (int, error) {
	if err := f.record("groups.CountMembers"); err != nil {
		return 0, err
	}
	return f.groupSizes[groupID], nil
}

func (f fakeGroups) ListMemberships(ctx context.Context, userID string) ([]models.GroupMembership, error) {
	if err := f.record("groups.ListMemberships"); err != nil {
		return nil, err
	}
	return f.memberships[userID], nil
}

// MetricsStore

func (f *fakeDB) Weekly(ctx context.Context) ([]models.WeeklyMetric, error) {
	if f.weeklyErr != nil {
		return nil, f.weeklyErr
	}
	return f.weekly, nil
}

func (f *fakeDB) UserWeekly(ctx context.Context) ([]models.UserWeeklyMetric, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.userWeekly, nil
}

// BetaGroupStore

type fakeBeta struct{ *fakeDB }

func (f fakeBeta) List(ctx context.Context) ([]models.BetaGroup, error) {
	if err := f.record("beta.List"); err != nil {
		return nil, err
	}
	return f.betaGroups, nil
}

func (f fakeBeta) ListMembers(ctx context.Context, groupID string) ([]models.BetaGroupMember, error) {
	if err := f.record("beta.ListMembers"); err != nil {
		return nil, err
	}
	return f.members[groupID], nil
}

func (f fakeBeta) ListPending(ctx context.Context, groupID string) ([]models.BetaGroupPendingMember, error) {
	if err := f.record("beta.ListPending"); err != nil {
		return nil, err
	}
	return f.pending[groupID], nil
}

func newTestUserService(db *fakeDB, opts ...UserServiceOption) *UserService {
	return NewUserService(db, fakePosts{db}, db, fakeGroups{db}, opts...)
}
