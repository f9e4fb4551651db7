package routeros

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"shaper-sync/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func clientFor(t *testing.T, srv *httptest.Server, retries int) *RESTClient {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return NewRESTClient(config.Router{
		Name:              "edge-01",
		Address:           u.Hostname(),
		Port:              port,
		Username:          "api",
		Password:          "secret",
		TimeoutSeconds:    5,
		Retries:           retries,
		RetryDelaySeconds: 0,
	}, zap.NewNop())
}

func TestRESTClient_FetchResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "api", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/rest/ppp/secret", r.URL.Path)
		assert.Equal(t, "gold", r.URL.Query().Get("profile"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"alice","profile":"gold","disabled":"false"}]`))
	}))
	defer srv.Close()

	c := clientFor(t, srv, 1)
	records, err := c.FetchResource(context.Background(), "/ppp/secret", map[string]string{"profile": "gold"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Str("name"))
	assert.False(t, records[0].Bool("disabled"))
	assert.True(t, records[0].Has("profile"))
	assert.False(t, records[0].Has("comment"))
}

func TestRESTClient_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := clientFor(t, srv, 3)
	records, err := c.FetchResource(context.Background(), "/ip/hotspot/active", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRESTClient_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := clientFor(t, srv, 2)
	_, err := c.FetchResource(context.Background(), "/ppp/active", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, int32(2), calls.Load())
}
