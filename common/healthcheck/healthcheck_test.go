package healthcheck

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, server *HealthCheckServer) (int, HealthCheckHttpResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	var res HealthCheckHttpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	return rec.Code, res
}

func TestHealthy(t *testing.T) {
	server := NewHealthCheckServer(":0")
	server.Register("arena", func() (error, bool) { return nil, true })

	code, res := get(t, server)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, res.Checks, 1)
	assert.Equal(t, "arena", res.Checks[0].Name)
	assert.True(t, res.Checks[0].Status)
}

func TestUnhealthy(t *testing.T) {
	server := NewHealthCheckServer(":0")
	server.Register("arena", func() (error, bool) { return nil, true })
	server.Register("mq", func() (error, bool) { return errors.New("broker down"), false })

	code, res := get(t, server)
	assert.Equal(t, http.StatusInternalServerError, code)
	require.Len(t, res.Checks, 2)
	assert.False(t, res.Checks[1].Status)
	assert.Equal(t, "broker down", res.Checks[1].Error)
}

func TestListenAndStop(t *testing.T) {
	server := NewHealthCheckServer("127.0.0.1:0")
	require.NoError(t, server.Listen())

	res, err := http.Get("http://" + server.Addr() + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	assert.NoError(t, server.Stop())
}
