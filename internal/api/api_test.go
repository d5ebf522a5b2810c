package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"findmyspace/internal/auth"
	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"
	"findmyspace/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, req entities.RegisterRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuth) Activate(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuth) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*entities.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockAuth) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuth) ResetPassword(ctx context.Context, req entities.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

type mockEspacios struct{ mock.Mock }

func (m *mockEspacios) Create(ctx context.Context, ownerID int64, req entities.SpaceRequest) (int64, error) {
	args := m.Called(ctx, ownerID, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEspacios) Update(ctx context.Context, userID, id int64, req entities.SpaceRequest) error {
	return m.Called(ctx, userID, id, req).Error(0)
}

func (m *mockEspacios) UpdateLayout(ctx context.Context, userID, id int64, upd entities.LayoutUpdate) error {
	return m.Called(ctx, userID, id, upd).Error(0)
}

func (m *mockEspacios) Delete(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockEspacios) Get(ctx context.Context, id int64) (*entities.SpaceDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*entities.SpaceDetail)
	return d, args.Error(1)
}

func (m *mockEspacios) ListByUser(ctx context.Context, requesterID, ownerID int64) ([]entities.Space, error) {
	args := m.Called(ctx, requesterID, ownerID)
	s, _ := args.Get(0).([]entities.Space)
	return s, args.Error(1)
}

func (m *mockEspacios) Search(ctx context.Context, query string) ([]entities.Space, error) {
	args := m.Called(ctx, query)
	s, _ := args.Get(0).([]entities.Space)
	return s, args.Error(1)
}

func (m *mockEspacios) Schedules(ctx context.Context, id int64) ([]entities.Schedule, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).([]entities.Schedule)
	return s, args.Error(1)
}

func (m *mockEspacios) Rates(ctx context.Context, id int64) ([]entities.Rate, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).([]entities.Rate)
	return r, args.Error(1)
}

type mockVehiculos struct{ mock.Mock }

func (m *mockVehiculos) List(ctx context.Context, userID int64) ([]entities.Vehicle, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).([]entities.Vehicle)
	return v, args.Error(1)
}

func (m *mockVehiculos) Create(ctx context.Context, userID int64, req entities.VehicleRequest) (int64, error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockVehiculos) Update(ctx context.Context, userID, id int64, req entities.VehicleRequest) error {
	return m.Called(ctx, userID, id, req).Error(0)
}

func (m *mockVehiculos) Delete(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockVehiculos) VehicleTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]string)
	return t, args.Error(1)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) ForUser(ctx context.Context, requesterID, userID int64) (*entities.Statistics, error) {
	args := m.Called(ctx, requesterID, userID)
	s, _ := args.Get(0).(*entities.Statistics)
	return s, args.Error(1)
}

type fixture struct {
	auth      *mockAuth
	espacios  *mockEspacios
	vehiculos *mockVehiculos
	stats     *mockStats
	tokens    *auth.Tokens
	router    http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		auth:      &mockAuth{},
		espacios:  &mockEspacios{},
		vehiculos: &mockVehiculos{},
		stats:     &mockStats{},
		tokens:    auth.NewTokens("test-secret", time.Hour),
	}
	logger := zap.NewNop()
	f.router = NewRouter(Handlers{
		Auth:      NewAuthHandler(f.auth, logger),
		Espacios:  NewEspacioHandler(f.espacios, logger),
		Vehiculos: NewVehiculoHandler(f.vehiculos, f.stats, logger),
	}, f.tokens, logger)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, userID int64) (*httptest.ResponseRecorder, entities.Envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID > 0 {
		token, err := f.tokens.Issue(userID, "ana@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var env entities.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestGetSpace_ReturnsEnvelopeWithLayout(t *testing.T) {
	f := newFixture()
	m := layout.GenerateDefaultPositions(2, []int{1}, layout.DefaultGeometry())
	f.espacios.On("Get", mock.Anything, int64(7)).Return(&entities.SpaceDetail{
		Espacio: entities.Space{ID: 7, SpaceAttributes: entities.SpaceAttributes{Nombre: "Centro", Plazas: 2}, Mapa: &m},
	}, nil)

	w, env := f.do(t, http.MethodGet, "/api/espacios/7", "", 0)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	var detail entities.SpaceDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Centro", detail.Espacio.Nombre)
	require.NotNil(t, detail.Espacio.Mapa)
	assert.Equal(t, 2, detail.Espacio.Mapa.SlotCount())
}

func TestGetSpace_NotFound(t *testing.T) {
	f := newFixture()
	f.espacios.On("Get", mock.Anything, int64(9)).Return(nil, fmt.Errorf("espacio 9: %w", apperrors.ErrNotFound))

	w, env := f.do(t, http.MethodGet, "/api/espacios/9", "", 0)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestSearch_PassesQuery(t *testing.T) {
	f := newFixture()
	f.espacios.On("Search", mock.Anything, "palermo").Return([]entities.Space{{ID: 1}}, nil)

	w, env := f.do(t, http.MethodGet, "/api/espacios?q=palermo", "", 0)

	assert.Equal(t, http.StatusOK, w.Code)
	var spaces []entities.Space
	require.NoError(t, json.Unmarshal(env.Data, &spaces))
	require.Len(t, spaces, 1)
	assert.Equal(t, int64(1), spaces[0].ID)
	f.espacios.AssertExpectations(t)
}

func TestCreateSpace_RequiresSession(t *testing.T) {
	f := newFixture()

	w, env := f.do(t, http.MethodPost, "/api/espacios", `{"nombre":"x"}`, 0)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
	f.espacios.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSpace_ReturnsID(t *testing.T) {
	f := newFixture()
	f.espacios.On("Create", mock.Anything, int64(3), mock.MatchedBy(func(r entities.SpaceRequest) bool {
		return r.Nombre == "Centro" && r.Mapa == nil
	})).Return(int64(12), nil)

	w, env := f.do(t, http.MethodPost, "/api/espacios", `{"nombre":"Centro","plazas":4}`, 3)

	assert.Equal(t, http.StatusCreated, w.Code)
	var created entities.CreatedResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, int64(12), created.ID)
}

func TestCreateSpace_NoCoordinates(t *testing.T) {
	f := newFixture()
	f.espacios.On("Create", mock.Anything, int64(3), mock.Anything).
		Return(int64(0), fmt.Errorf("%w: Calle Falsa 123", apperrors.ErrNoCoordinates))

	w, env := f.do(t, http.MethodPost, "/api/espacios", `{"nombre":"Centro"}`, 3)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_COORDINATES", env.Code)
}

func TestCreateSpace_MalformedBody(t *testing.T) {
	f := newFixture()

	w, env := f.do(t, http.MethodPost, "/api/espacios", `{"nombre":`, 3)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Code)
}

func TestUpdateLayout_ForbiddenForOtherOwner(t *testing.T) {
	f := newFixture()
	f.espacios.On("UpdateLayout", mock.Anything, int64(5), int64(4), mock.Anything).
		Return(fmt.Errorf("espacio 4: %w", apperrors.ErrForbidden))

	w, env := f.do(t, http.MethodPut, "/api/espacios/4/mapa", `{"nombre":"Centro","mapa":{"slots":[]}}`, 5)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Code)
}

func TestListByUser_DoesNotShadowGet(t *testing.T) {
	f := newFixture()
	f.espacios.On("ListByUser", mock.Anything, int64(2), int64(2)).Return([]entities.Space{}, nil)

	w, env := f.do(t, http.MethodGet, "/api/espacios/usuario/2", "", 2)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data))
	f.espacios.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestDeleteSpace(t *testing.T) {
	f := newFixture()
	f.espacios.On("Delete", mock.Anything, int64(2), int64(8)).Return(nil)

	w, env := f.do(t, http.MethodDelete, "/api/espacios/8", "", 2)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	f.espacios.AssertExpectations(t)
}

func TestVehicles_DuplicatePlateConflicts(t *testing.T) {
	f := newFixture()
	f.vehiculos.On("Create", mock.Anything, int64(2), mock.Anything).
		Return(int64(0), fmt.Errorf("matricula AB123CD: %w", apperrors.ErrConflict))

	w, env := f.do(t, http.MethodPost, "/api/vehiculos", `{"matricula":"AB 123 CD","tipo":"auto"}`, 2)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Code)
}

func TestVehicleTypes_Public(t *testing.T) {
	f := newFixture()
	f.vehiculos.On("VehicleTypes", mock.Anything).Return([]string{"auto", "moto"}, nil)

	w, env := f.do(t, http.MethodGet, "/api/tipos-vehiculo", "", 0)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["auto","moto"]`, string(env.Data))
}

func TestStatistics(t *testing.T) {
	f := newFixture()
	f.stats.On("ForUser", mock.Anything, int64(9), int64(9)).Return(&entities.Statistics{UsuarioID: 9, Espacios: 2}, nil)

	w, env := f.do(t, http.MethodGet, "/api/estadisticas/usuario/9", "", 9)

	assert.Equal(t, http.StatusOK, w.Code)
	var stats entities.Statistics
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.Espacios)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture()
	f.auth.On("Login", mock.Anything, entities.LoginRequest{Email: "ana@example.com", Password: "nope"}).
		Return(nil, apperrors.ErrUnauthenticated)

	w, env := f.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"nope"}`, 0)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}

func TestActivate(t *testing.T) {
	f := newFixture()
	f.auth.On("Activate", mock.Anything, "abc-123").Return(nil)

	w, _ := f.do(t, http.MethodGet, "/api/auth/activar/abc-123", "", 0)

	assert.Equal(t, http.StatusOK, w.Code)
	f.auth.AssertExpectations(t)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	f := newFixture()
	f.espacios.On("Schedules", mock.Anything, int64(1)).Return(nil, fmt.Errorf("pq: connection refused"))

	w, env := f.do(t, http.MethodGet, "/api/espacios/1/horarios", "", 0)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", env.Message)
}
