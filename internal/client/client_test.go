package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"findmyspace/internal/entities"
	apperrors "findmyspace/internal/errors"
	"findmyspace/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(entities.Envelope{Success: true, Data: raw})
}

func TestClient_GetSpaceDecodesMultiFloorLayout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/espacios/7", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		io.WriteString(w, `{"success":true,"data":{
			"espacio":{"id":7,"nombre":"Norte","plazas":3,"tipo_estructura":"enclosed","pisos":1,"sotano":true,
				"mapa":{"floors":[{"level":0,"slots":[{"id":3,"x":0,"y":0}],"selectedSlots":[],"canvasSize":600,"slotSize":40},
				                  {"level":-1,"slots":[{"id":1,"x":0,"y":0},{"id":2,"x":560,"y":0}],"selectedSlots":[2],"canvasSize":600,"slotSize":40}]}},
			"horarios":[{"dia":"lunes","franjas":[{"apertura":"08:00","cierre":"20:00"}]}],
			"modalidades":["hour"],"metodos_pago":["cash"],"tarifas":[{"tipo_vehiculo":"car","modalidad":"hour","precio":500}]}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	detail, err := c.GetSpace(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), detail.Espacio.ID)
	require.NotNil(t, detail.Espacio.Mapa)
	assert.Equal(t, []int{-1, 0}, detail.Espacio.Mapa.Levels())
	assert.Equal(t, 3, detail.Espacio.Mapa.SlotCount())
	require.Len(t, detail.Tarifas, 1)
	assert.Equal(t, 500.0, detail.Tarifas[0].Precio)
	assert.Equal(t, "lunes", detail.Horarios[0].Dia)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   []error
	}{
		{"unauthorized", http.StatusUnauthorized, "UNAUTHORIZED", []error{ErrNotAuthenticated}},
		{"forbidden", http.StatusForbidden, "FORBIDDEN", []error{ErrNotAuthenticated, apperrors.ErrForbidden}},
		{"unprocessable", http.StatusUnprocessableEntity, "", []error{ErrInvalid}},
		{"validation", http.StatusBadRequest, "VALIDATION_ERROR", []error{ErrInvalid, apperrors.ErrValidation}},
		{"no coordinates", http.StatusBadRequest, "NO_COORDINATES", []error{ErrInvalid, apperrors.ErrNoCoordinates}},
		{"not found", http.StatusNotFound, "NOT_FOUND", []error{ErrInvalid, apperrors.ErrNotFound}},
		{"unavailable", http.StatusServiceUnavailable, "", []error{ErrServerError}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(entities.Envelope{Success: false, Message: "nope", Code: tt.code})
			}))
			defer srv.Close()

			err := New(srv.URL).DeleteSpace(context.Background(), 1)
			require.Error(t, err)
			for _, w := range tt.want {
				assert.ErrorIs(t, err, w)
			}
			var cerr *Error
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.status, cerr.Status)
			assert.Equal(t, "nope", cerr.Message)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).ListVehicleTypes(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrServerError)
}

func TestClient_SingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetRates(context.Background(), 3)
	assert.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, 1, calls)
}

func TestClient_UpdateSpaceOmitsEmptyMapa(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeEnvelope(t, w, http.StatusOK, nil)
	}))
	defer srv.Close()

	req := entities.SpaceRequest{SpaceAttributes: entities.SpaceAttributes{Nombre: "A", Plazas: 2}}
	require.NoError(t, New(srv.URL).UpdateSpace(context.Background(), 4, req))
	_, ok := body["mapa"]
	assert.False(t, ok)
	assert.Equal(t, "A", body["nombre"])
}

func TestClient_UpdateLayoutSendsSingleFloorShape(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/espacios/4/mapa", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeEnvelope(t, w, http.StatusOK, nil)
	}))
	defer srv.Close()

	m := layout.GenerateDefaultPositions(2, []int{0}, layout.DefaultGeometry())
	upd := entities.LayoutUpdate{SpaceAttributes: entities.SpaceAttributes{Plazas: 2}, Mapa: m}
	require.NoError(t, New(srv.URL).UpdateLayout(context.Background(), 4, upd))

	var shape map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body["mapa"], &shape))
	assert.Contains(t, shape, "slots")
	assert.NotContains(t, shape, "floors")
}

func TestClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req entities.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ana@example.com", req.Email)
			writeEnvelope(t, w, http.StatusOK, entities.LoginResponse{Token: "jwt", Usuario: entities.User{ID: 9}})
		case "/api/estadisticas/usuario/9":
			assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
			writeEnvelope(t, w, http.StatusOK, entities.Statistics{UsuarioID: 9, Espacios: 2})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.Usuario.ID)

	stats, err := c.GetStatistics(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Espacios)
}

func TestClient_CreateVehicle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/vehiculos", r.URL.Path)
		writeEnvelope(t, w, http.StatusCreated, entities.CreatedResponse{ID: 12})
	}))
	defer srv.Close()

	id, err := New(srv.URL).CreateVehicle(context.Background(), entities.VehicleRequest{Matricula: "AB123CD", Tipo: "car"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
}
