package services

import (
	"context"
	"errors"

	"moment-admin-backend/internal/models"
	"moment-admin-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MetricsStore reads the weekly aggregates
type MetricsStore interface {
	Weekly(ctx context.Context) ([]models.WeeklyMetric, error)
	UserWeekly(ctx context.Context) ([]models.UserWeeklyMetric, error)
}

// MetricsService returns the weekly engagement metrics
type MetricsService struct {
	store MetricsStore
}

// NewMetricsService creates a new metrics service
func NewMetricsService(store MetricsStore) *MetricsService {
	return &MetricsService{store: store}
}

// GetMetrics calls both aggregate functions concurrently. Functions that
// return no rows, or are not installed yet, yield empty arrays.
func (s *MetricsService) GetMetrics(ctx context.Context) (*models.Metrics, error) {
	metrics := &models.Metrics{
		Weekly: []models.WeeklyMetric{},
		Users:  []models.UserWeeklyMetric{},
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		weekly, err := s.store.Weekly(ctx)
		if err != nil {
			return noDataIfMissing(err)
		}
		if weekly != nil {
			metrics.Weekly = weekly
		}
		return nil
	})
	g.Go(func() error {
		users, err := s.store.UserWeekly(ctx)
		if err != nil {
			return noDataIfMissing(err)
		}
		if users != nil {
			metrics.Users = users
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return metrics, nil
}

func noDataIfMissing(err error) error {
	if errors.Is(err, repository.ErrFunctionMissing) {
		log.Warn().Err(err).Msg("Metrics function missing, returning no data")
		return nil
	}
	return err
}
