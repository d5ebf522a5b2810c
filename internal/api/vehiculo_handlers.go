package api

import (
	"net/http"

	"findmyspace/internal/entities"
	"findmyspace/internal/service"

	"go.uber.org/zap"
)

type VehiculoHandler struct {
	vehicles service.VehiculoService
	stats    service.EstadisticasService
	logger   *zap.Logger
}

func NewVehiculoHandler(vehicles service.VehiculoService, stats service.EstadisticasService, logger *zap.Logger) *VehiculoHandler {
	return &VehiculoHandler{vehicles: vehicles, stats: stats, logger: logger}
}

func (h *VehiculoHandler) VehicleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.vehicles.VehicleTypes(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *VehiculoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	vehicles, err := h.vehicles.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehiculoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req entities.VehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := h.vehicles.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.CreatedResponse{ID: id})
}

func (h *VehiculoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req entities.VehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.vehicles.Update(r.Context(), userID, id, req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *VehiculoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.vehicles.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *VehiculoHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	ownerID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	stats, err := h.stats.ForUser(r.Context(), userID, ownerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
