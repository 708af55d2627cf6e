package repository

import (
	"context"
	"fmt"

	"moment-admin-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendRepository handles database reads for friend requests
type FriendRepository struct {
	db *pgxpool.Pool
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{db: db}
}

// CountAccepted counts accepted requests where the user is either endpoint
func (r *FriendRepository) CountAccepted(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM friend_requests
		WHERE status = $1 AND (from_user_id = $2 OR to_user_id = $2)
	`
	var count int
	if err := r.db.QueryRow(ctx, query, models.FriendStatusAccepted, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count friends: %w", err)
	}
	return count, nil
}

// ListAccepted retrieves accepted requests touching the user, newest first
func (r *FriendRepository) ListAccepted(ctx context.Context, userID string) ([]models.FriendEdge, error) {
	query := `
		SELECT id, status, created_at, from_user_id, to_user_id
		FROM friend_requests
		WHERE status = $1 AND (from_user_id = $2 OR to_user_id = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, models.FriendStatusAccepted, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend requests: %w", err)
	}
	defer rows.Close()

	edges := []models.FriendEdge{}
	for rows.Next() {
		var e models.FriendEdge
		if err := rows.Scan(&e.ID, &e.Status, &e.CreatedAt, &e.FromUserID, &e.ToUserID); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		edges = append(edges, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friend requests: %w", err)
	}

	return edges, nil
}
