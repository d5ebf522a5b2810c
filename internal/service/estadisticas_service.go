package service

import (
	"context"
	"fmt"

	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"
	"findmyspace/internal/repository"

	"golang.org/x/sync/errgroup"
)

type EstadisticasService interface {
	ForUser(ctx context.Context, requesterID, userID int64) (*entities.Statistics, error)
}

type estadisticasService struct {
	repo repository.EstadisticasRepository
}

func NewEstadisticasService(repo repository.EstadisticasRepository) EstadisticasService {
	return &estadisticasService{repo: repo}
}

// ForUser aggregates an owner's dashboard numbers. Only the owner may read them.
func (s *estadisticasService) ForUser(ctx context.Context, requesterID, userID int64) (*entities.Statistics, error) {
	if requesterID != userID {
		return nil, fmt.Errorf("statistics of usuario %d: %w", userID, apperrors.ErrForbidden)
	}
	var (
		stats    *entities.Statistics
		vehicles int
		averages map[string]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.repo.SpaceTotals(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		vehicles, err = s.repo.VehicleCount(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		averages, err = s.repo.AveragePrices(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.Vehiculos = vehicles
	stats.PrecioPromedio = averages
	if stats.PrecioPromedio == nil {
		stats.PrecioPromedio = map[string]float64{}
	}
	return stats, nil
}
