package repository

import (
	"context"
	"errors"
	"fmt"

	"moment-admin-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// undefinedFunction is the SQLSTATE Postgres returns for a missing function
const undefinedFunction = "42883"

// ErrFunctionMissing is returned when a metrics function is not installed
var ErrFunctionMissing = errors.New("metrics function not installed")

// MetricsRepository reads the weekly aggregates computed by the database
type MetricsRepository struct {
	db *pgxpool.Pool
}

// NewMetricsRepository creates a new metrics repository
func NewMetricsRepository(db *pgxpool.Pool) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Weekly calls get_weekly_metrics(). Only the columns the dashboard
// renders are selected; extra columns the function returns are dropped.
func (r *MetricsRepository) Weekly(ctx context.Context) ([]models.WeeklyMetric, error) {
	query := `
		SELECT week_start::text, total_posts, total_hours::float8, unique_users
		FROM get_weekly_metrics()
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapFunctionErr("get_weekly_metrics", err)
	}
	defer rows.Close()

	metrics := []models.WeeklyMetric{}
	for rows.Next() {
		var m models.WeeklyMetric
		if err := rows.Scan(&m.WeekStart, &m.TotalPosts, &m.TotalHours, &m.UniqueUsers); err != nil {
			return nil, fmt.Errorf("failed to scan weekly metric: %w", err)
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapFunctionErr("get_weekly_metrics", err)
	}

	return metrics, nil
}

// UserWeekly calls get_user_weekly_metrics()
func (r *MetricsRepository) UserWeekly(ctx context.Context) ([]models.UserWeeklyMetric, error) {
	query := `
		SELECT user_id::text, COALESCE(user_name, ''), week_start::text, posts, hours::float8
		FROM get_user_weekly_metrics()
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapFunctionErr("get_user_weekly_metrics", err)
	}
	defer rows.Close()

	metrics := []models.UserWeeklyMetric{}
	for rows.Next() {
		var m models.UserWeeklyMetric
		if err := rows.Scan(&m.UserID, &m.UserName, &m.WeekStart, &m.Posts, &m.Hours); err != nil {
			return nil, fmt.Errorf("failed to scan user weekly metric: %w", err)
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapFunctionErr("get_user_weekly_metrics", err)
	}

	return metrics, nil
}

func wrapFunctionErr(name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedFunction {
		return fmt.Errorf("%s: %w", name, ErrFunctionMissing)
	}
	return fmt.Errorf("failed to call %s: %w", name, err)
}
