package repository

import (
	"context"
	"fmt"

	"moment-admin-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostRepository handles database reads for posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// CountByUser counts the posts of a user
func (r *PostRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM posts WHERE user_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// ListByUser retrieves the most recent posts of a user, newest first
func (r *PostRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Post, error) {
	query := `
		SELECT id, user_id, caption, created_at, duration_seconds, is_private, thread_id
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		err := rows.Scan(
			&post.ID, &post.UserID, &post.Caption, &post.CreatedAt,
			&post.DurationSeconds, &post.IsPrivate, &post.ThreadID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}
