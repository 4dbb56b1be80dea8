package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPassesPayloadThrough(t *testing.T) {
	payload := `{"weather":[{"main":"Clear"}],"main":{"temp":17.3},"wind":{"speed":4.1}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lon"))
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL

	got, err := c.Current(context.Background(), 36.9581, -122.0172)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(got))
}

func TestCurrentUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	c := NewClient("bad-key")
	c.BaseURL = srv.URL

	_, err := c.Current(context.Background(), 0, 0)
	assert.Error(t, err)
}
