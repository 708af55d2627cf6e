package repository

import (
	"context"
	"fmt"

	"moment-admin-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database reads for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// List retrieves every profile, newest first
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	query := `
		SELECT id, COALESCE(first_name, ''), last_name, created_at, avatar_url
		FROM profiles
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return collectProfiles(rows)
}

// GetByIDs retrieves the profiles whose id is in ids in a single query.
// Order is unspecified.
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	if len(ids) == 0 {
		return []models.Profile{}, nil
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid profile id %q: %w", id, err)
		}
		parsed = append(parsed, u)
	}

	query := `
		SELECT id, COALESCE(first_name, ''), last_name, created_at, avatar_url
		FROM profiles
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles by ids: %w", err)
	}
	return collectProfiles(rows)
}

// ListWithCounts retrieves every profile with its post, accepted friend
// and group counts computed in one grouped query
func (r *ProfileRepository) ListWithCounts(ctx context.Context) ([]models.UserWithStats, error) {
	query := `
		SELECT p.id, COALESCE(p.first_name, ''), p.last_name, p.created_at, p.avatar_url,
			(SELECT COUNT(*) FROM posts WHERE user_id = p.id),
			(SELECT COUNT(*) FROM friend_requests
				WHERE status = 'accepted' AND (from_user_id = p.id OR to_user_id = p.id)),
			(SELECT COUNT(*) FROM group_members WHERE user_id = p.id)
		FROM profiles p
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles with counts: %w", err)
	}
	defer rows.Close()

	users := []models.UserWithStats{}
	for rows.Next() {
		var u models.UserWithStats
		err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.CreatedAt, &u.AvatarURL,
			&u.PostCount, &u.FriendCount, &u.GroupCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile with counts: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles with counts: %w", err)
	}

	return users, nil
}

func collectProfiles(rows pgx.Rows) ([]models.Profile, error) {
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.CreatedAt, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}
