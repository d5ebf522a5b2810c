package service

import (
	"context"
	"fmt"

	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"
	"findmyspace/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type EspacioService interface {
	Create(ctx context.Context, ownerID int64, req entities.SpaceRequest) (int64, error)
	Update(ctx context.Context, userID, id int64, req entities.SpaceRequest) error
	UpdateLayout(ctx context.Context, userID, id int64, upd entities.LayoutUpdate) error
	Delete(ctx context.Context, userID, id int64) error
	Get(ctx context.Context, id int64) (*entities.SpaceDetail, error)
	ListByUser(ctx context.Context, requesterID, ownerID int64) ([]entities.Space, error)
	Search(ctx context.Context, query string) ([]entities.Space, error)
	Schedules(ctx context.Context, id int64) ([]entities.Schedule, error)
	Rates(ctx context.Context, id int64) ([]entities.Rate, error)
}

type espacioService struct {
	repo   repository.EspacioRepository
	logger *zap.Logger
}

func NewEspacioService(repo repository.EspacioRepository, logger *zap.Logger) EspacioService {
	return &espacioService{repo: repo, logger: logger}
}

func (s *espacioService) Create(ctx context.Context, ownerID int64, req entities.SpaceRequest) (int64, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, ownerID, req)
	if err != nil {
		return 0, err
	}
	s.logger.Info("espacio created", zap.Int64("space_id", id), zap.Int64("usuario_id", ownerID), zap.Bool("with_layout", req.Mapa != nil))
	return id, nil
}

// Update replaces a space's attributes. Without a mapa the stored layout is kept.
func (s *espacioService) Update(ctx context.Context, userID, id int64, req entities.SpaceRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, req); err != nil {
		return err
	}
	s.logger.Info("espacio updated", zap.Int64("space_id", id), zap.Bool("with_layout", req.Mapa != nil))
	return nil
}

func (s *espacioService) UpdateLayout(ctx context.Context, userID, id int64, upd entities.LayoutUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.UpdateLayout(ctx, id, upd); err != nil {
		return err
	}
	s.logger.Info("mapa saved", zap.Int64("space_id", id), zap.Int("slots", upd.Mapa.SlotCount()))
	return nil
}

func (s *espacioService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("espacio deleted", zap.Int64("space_id", id))
	return nil
}

// Get loads a space with its schedule, payment options and rates.
func (s *espacioService) Get(ctx context.Context, id int64) (*entities.SpaceDetail, error) {
	var detail entities.SpaceDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		space, err := s.repo.GetByID(gctx, id)
		if err != nil {
			return err
		}
		detail.Espacio = *space
		return nil
	})
	g.Go(func() error {
		h, err := s.repo.Schedules(gctx, id)
		detail.Horarios = h
		return err
	})
	g.Go(func() error {
		modes, methods, err := s.repo.PaymentOptions(gctx, id)
		detail.Modalidades, detail.MetodosPago = modes, methods
		return err
	})
	g.Go(func() error {
		t, err := s.repo.Rates(gctx, id)
		detail.Tarifas = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *espacioService) ListByUser(ctx context.Context, requesterID, ownerID int64) ([]entities.Space, error) {
	if requesterID != ownerID {
		return nil, fmt.Errorf("listing of usuario %d: %w", ownerID, apperrors.ErrForbidden)
	}
	return s.repo.ListByUser(ctx, ownerID)
}

func (s *espacioService) Search(ctx context.Context, query string) ([]entities.Space, error) {
	return s.repo.Search(ctx, query)
}

func (s *espacioService) Schedules(ctx context.Context, id int64) ([]entities.Schedule, error) {
	if _, err := s.repo.OwnerOf(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Schedules(ctx, id)
}

func (s *espacioService) Rates(ctx context.Context, id int64) ([]entities.Rate, error) {
	if _, err := s.repo.OwnerOf(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Rates(ctx, id)
}

func (s *espacioService) checkOwner(ctx context.Context, userID, id int64) error {
	owner, err := s.repo.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != userID {
		return fmt.Errorf("espacio %d: %w", id, apperrors.ErrForbidden)
	}
	return nil
}
