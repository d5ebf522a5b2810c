package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatim_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "findmyspace-test", r.Header.Get("User-Agent"))
		if r.URL.Query().Get("q") == "nowhere" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"lat":"-34.6037","lon":"-58.3816"}]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.URL+"/", "findmyspace-test", nil)

	lat, lng, err := g.Geocode(context.Background(), "Obelisco, Buenos Aires")
	require.NoError(t, err)
	assert.InDelta(t, -34.6037, lat, 1e-9)
	assert.InDelta(t, -58.3816, lng, 1e-9)

	_, _, err = g.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = g.Geocode(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNominatim_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _, err := NewNominatim(srv.URL, "", nil).Geocode(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
