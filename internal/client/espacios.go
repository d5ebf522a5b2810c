package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"findmyspace/internal/entities"
)

func (c *Client) GetSpace(ctx context.Context, id int64) (*entities.SpaceDetail, error) {
	var detail entities.SpaceDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/espacios/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateSpace creates a space and returns the server-assigned id.
func (c *Client) CreateSpace(ctx context.Context, req entities.SpaceRequest) (int64, error) {
	var created entities.CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/api/espacios", req, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// UpdateSpace replaces the attributes of a space. A request without Mapa keeps the stored layout.
func (c *Client) UpdateSpace(ctx context.Context, id int64, req entities.SpaceRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/espacios/%d", id), req, nil)
}

// UpdateLayout stores only the layout (plus the core attributes it was built for).
func (c *Client) UpdateLayout(ctx context.Context, id int64, upd entities.LayoutUpdate) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/espacios/%d/mapa", id), upd, nil)
}

func (c *Client) DeleteSpace(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/espacios/%d", id), nil, nil)
}

func (c *Client) ListUserSpaces(ctx context.Context, userID int64) ([]entities.Space, error) {
	var spaces []entities.Space
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/espacios/usuario/%d", userID), nil, &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

// SearchSpaces lists spaces whose name or location contains query. An empty query lists all.
func (c *Client) SearchSpaces(ctx context.Context, query string) ([]entities.Space, error) {
	path := "/api/espacios"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var spaces []entities.Space
	if err := c.do(ctx, http.MethodGet, path, nil, &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

func (c *Client) GetSchedules(ctx context.Context, id int64) ([]entities.Schedule, error) {
	var horarios []entities.Schedule
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/espacios/%d/horarios", id), nil, &horarios); err != nil {
		return nil, err
	}
	return horarios, nil
}

func (c *Client) GetRates(ctx context.Context, id int64) ([]entities.Rate, error) {
	var tarifas []entities.Rate
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/espacios/%d/tarifas", id), nil, &tarifas); err != nil {
		return nil, err
	}
	return tarifas, nil
}

func (c *Client) ListVehicleTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.do(ctx, http.MethodGet, "/api/tipos-vehiculo", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}
