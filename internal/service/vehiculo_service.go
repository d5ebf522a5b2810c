package service

import (
	"context"

	"findmyspace/internal/entities"
	"findmyspace/internal/repository"
	"findmyspace/internal/utils"

	"go.uber.org/zap"
)

type VehiculoService interface {
	List(ctx context.Context, userID int64) ([]entities.Vehicle, error)
	Create(ctx context.Context, userID int64, req entities.VehicleRequest) (int64, error)
	Update(ctx context.Context, userID, id int64, req entities.VehicleRequest) error
	Delete(ctx context.Context, userID, id int64) error
	VehicleTypes(ctx context.Context) ([]string, error)
}

type vehiculoService struct {
	repo   repository.VehiculoRepository
	logger *zap.Logger
}

func NewVehiculoService(repo repository.VehiculoRepository, logger *zap.Logger) VehiculoService {
	return &vehiculoService{repo: repo, logger: logger}
}

func (s *vehiculoService) List(ctx context.Context, userID int64) ([]entities.Vehicle, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *vehiculoService) Create(ctx context.Context, userID int64, req entities.VehicleRequest) (int64, error) {
	req.Normalize()
	req.Tipo = utils.NormalizeVehicleType(req.Tipo)
	if err := req.Validate(); err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return 0, err
	}
	s.logger.Info("vehiculo created", zap.Int64("vehiculo_id", id), zap.Int64("usuario_id", userID))
	return id, nil
}

func (s *vehiculoService) Update(ctx context.Context, userID, id int64, req entities.VehicleRequest) error {
	req.Normalize()
	req.Tipo = utils.NormalizeVehicleType(req.Tipo)
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, id, req)
}

func (s *vehiculoService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}

// VehicleTypes returns the default types plus every type already in use.
func (s *vehiculoService) VehicleTypes(ctx context.Context) ([]string, error) {
	known, err := s.repo.KnownTypes(ctx)
	if err != nil {
		return nil, err
	}
	return utils.MergeVehicleTypes(known...), nil
}
