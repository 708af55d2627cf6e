package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a real Postgres when TEST_DATABASE_URL is set.
// Each test gets its own schema holding the dashboard tables.

const testSchema = `
CREATE TABLE profiles (
	id uuid PRIMARY KEY,
	first_name text,
	last_name text,
	avatar_url text,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE posts (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id uuid NOT NULL,
	caption text,
	duration_seconds integer NOT NULL DEFAULT 0,
	is_private boolean NOT NULL DEFAULT false,
	thread_id uuid,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE friend_requests (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	from_user_id uuid NOT NULL,
	to_user_id uuid NOT NULL,
	status text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE groups (
	id uuid PRIMARY KEY,
	name text,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE group_members (
	group_id uuid NOT NULL,
	user_id uuid NOT NULL
);
CREATE TABLE beta_groups (
	id uuid PRIMARY KEY,
	name text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE beta_group_members (
	group_id uuid NOT NULL,
	user_id uuid NOT NULL,
	joined_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE beta_group_pending_members (
	group_id uuid NOT NULL,
	phone text NOT NULL,
	name text,
	added_at timestamptz NOT NULL DEFAULT now()
);
`

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := "admin_test_" + uuid.NewString()[:8]

	admin, err := pgx.Connect(ctx, url)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		admin.Close(context.Background())
	})

	cfg, err := pgxpool.ParseConfig(url)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, testSchema)
	require.NoError(t, err)
	return pool
}

func exec(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) {
	t.Helper()
	_, err := pool.Exec(context.Background(), sql, args...)
	require.NoError(t, err)
}

func TestProfilesAndCounts(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	u1, u2, grp := uuid.NewString(), uuid.NewString(), uuid.NewString()
	exec(t, pool, `INSERT INTO profiles (id, first_name, created_at) VALUES ($1, 'Ada', $2), ($3, NULL, $4)`,
		u1, t0, u2, t0.Add(time.Hour))
	exec(t, pool, `INSERT INTO posts (user_id, created_at) VALUES ($1, $2), ($1, $3)`, u1, t0, t0.Add(time.Minute))
	exec(t, pool, `INSERT INTO friend_requests (from_user_id, to_user_id, status) VALUES ($1, $2, 'accepted'), ($2, $1, 'pending')`, u1, u2)
	exec(t, pool, `INSERT INTO groups (id, name) VALUES ($1, 'Climbers')`, grp)
	exec(t, pool, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, grp, u1)

	profiles := NewProfileRepository(pool)

	list, err := profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, u2, list[0].ID)
	assert.Equal(t, "", list[0].FirstName)

	byIDs, err := profiles.GetByIDs(ctx, []string{u1})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "Ada", byIDs[0].FirstName)

	withCounts, err := profiles.ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, withCounts, 2)
	assert.Equal(t, 2, withCounts[1].PostCount)
	assert.Equal(t, 1, withCounts[1].FriendCount)
	assert.Equal(t, 1, withCounts[1].GroupCount)
	assert.Equal(t, 1, withCounts[0].FriendCount)

	posts, err := NewPostRepository(pool).ListByUser(ctx, u1, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, t0.Add(time.Minute), posts[0].CreatedAt.UTC())

	edges, err := NewFriendRepository(pool).ListAccepted(ctx, u2)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, u1, edges[0].Other(u2))
}

func TestListMemberships_Orphaned(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	u1, grp, gone := uuid.NewString(), uuid.NewString(), uuid.NewString()
	exec(t, pool, `INSERT INTO groups (id, name) VALUES ($1, NULL)`, grp)
	exec(t, pool, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $3), ($2, $3)`, grp, gone, u1)

	memberships, err := NewGroupRepository(pool).ListMemberships(ctx, u1)
	require.NoError(t, err)
	require.Len(t, memberships, 2)

	orphans := 0
	for _, m := range memberships {
		if m.Group == nil {
			orphans++
			assert.Equal(t, gone, m.GroupID)
		}
	}
	assert.Equal(t, 1, orphans)
}

func TestBetaGroups(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	grp, u1, u2 := uuid.NewString(), uuid.NewString(), uuid.NewString()
	exec(t, pool, `INSERT INTO beta_groups (id, name) VALUES ($1, 'Wave 1')`, grp)
	exec(t, pool, `INSERT INTO profiles (id, first_name) VALUES ($1, 'Ada')`, u1)
	exec(t, pool, `INSERT INTO beta_group_members (group_id, user_id, joined_at) VALUES ($1, $2, $3), ($1, $4, $5)`,
		grp, u2, t0.Add(time.Hour), u1, t0)

	repo := NewBetaGroupRepository(pool)

	members, err := repo.ListMembers(ctx, grp)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, u1, members[0].UserID)
	require.NotNil(t, members[0].Profile)
	assert.Equal(t, "Ada", members[0].Profile.FirstName)
	assert.Nil(t, members[1].Profile)

	pending, err := repo.ListPending(ctx, grp)
	require.NoError(t, err)
	assert.NotNil(t, pending)
	assert.Empty(t, pending)
}

func TestMetrics_MissingFunction(t *testing.T) {
	pool := testPool(t)

	_, err := NewMetricsRepository(pool).Weekly(context.Background())
	assert.True(t, errors.Is(err, ErrFunctionMissing))
}

func TestMetrics_WeeklyKeepsRenderedColumns(t *testing.T) {
	pool := testPool(t)
	exec(t, pool, `
		CREATE FUNCTION get_weekly_metrics()
		RETURNS TABLE (week_start date, total_posts bigint, total_hours numeric, unique_users bigint, avg_minutes numeric)
		LANGUAGE sql AS $$
			SELECT DATE '2025-03-03', 12::bigint, 1.5::numeric, 4::bigint, 7.5::numeric
		$$`)

	weekly, err := NewMetricsRepository(pool).Weekly(context.Background())
	require.NoError(t, err)
	require.Len(t, weekly, 1)
	assert.Equal(t, "2025-03-03", weekly[0].WeekStart)
	assert.Equal(t, 12, weekly[0].TotalPosts)
	assert.InDelta(t, 1.5, weekly[0].TotalHours, 1e-9)
	assert.Equal(t, 4, weekly[0].UniqueUsers)
}
