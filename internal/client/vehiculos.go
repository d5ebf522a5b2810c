package client

import (
	"context"
	"fmt"
	"net/http"

	"findmyspace/internal/entities"
)

func (c *Client) ListVehicles(ctx context.Context) ([]entities.Vehicle, error) {
	var vehicles []entities.Vehicle
	if err := c.do(ctx, http.MethodGet, "/api/vehiculos", nil, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (c *Client) CreateVehicle(ctx context.Context, req entities.VehicleRequest) (int64, error) {
	var created entities.CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/api/vehiculos", req, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) UpdateVehicle(ctx context.Context, id int64, req entities.VehicleRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/vehiculos/%d", id), req, nil)
}

func (c *Client) DeleteVehicle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/vehiculos/%d", id), nil, nil)
}

func (c *Client) GetStatistics(ctx context.Context, userID int64) (*entities.Statistics, error) {
	var stats entities.Statistics
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/estadisticas/usuario/%d", userID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Login authenticates and stores the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*entities.LoginResponse, error) {
	var resp entities.LoginResponse
	req := entities.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}
