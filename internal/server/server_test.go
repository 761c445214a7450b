package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"digitsort/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestID_Echoed(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestSort_OK(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/v1/sort", `{"values":[1,4,23,46,123,2,5]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"values":[1,2,4,5,23,46,123],"width":3}`, w.Body.String())
}

func TestSort_Empty(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/v1/sort", `{"values":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"values":[],"width":0}`, w.Body.String())
}

func TestSort_Trace(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/v1/sort", `{"values":[100,10,1],"trace":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp sortResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int{1, 10, 100}, resp.Values)
	require.Len(t, resp.Passes, 3)
	assert.Equal(t, 100, resp.Passes[2].Divisor)
}

func TestSort_TraceDisabled(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.Trace = false })
	w := do(t, s, http.MethodPost, "/v1/sort", `{"values":[2,1],"trace":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "passes")
}

func TestSort_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	for _, body := range []string{
		`not json`,
		`{"values":"1,2,3"}`,
		`{"values":[1,-2]}`,
		`{"values":[1.5]}`,
		`{}`,
	} {
		w := do(t, s, http.MethodPost, "/v1/sort", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		assert.Contains(t, w.Body.String(), "invalid argument", "body %s", body)
	}
}

func TestSort_TrailingDataRejected(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/v1/sort", `{"values":[3,1]} {"values":"junk"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "trailing data")

	w = do(t, s, http.MethodPost, "/v1/sort/batch", `{"inputs":[[2,1]]} []`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSort_TooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Limits.MaxValues = 3 })
	w := do(t, s, http.MethodPost, "/v1/sort", `{"values":[1,2,3,4]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "invalid argument: limit exceeded: 4 values exceeds limit of 3")

	w = do(t, s, http.MethodPost, "/v1/sort", `{"values":[1,2,3]}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBatch(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodPost, "/v1/sort/batch", `{"inputs":[[3,2,1],[1,-1],[],"x"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp batchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 4)
	assert.Equal(t, []int{1, 2, 3}, resp.Results[0].Values)
	assert.Contains(t, resp.Results[1].Error, "negative")
	assert.Equal(t, []int{}, resp.Results[2].Values)
	assert.Contains(t, resp.Results[3].Error, "expected a JSON array")
	assert.Equal(t, 2, resp.Failed)
}

func TestBatch_Limits(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Limits.MaxBatchInputs = 1
		c.Limits.MaxValues = 2
	})
	w := do(t, s, http.MethodPost, "/v1/sort/batch", `{"inputs":[[1],[2]]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(t, s, http.MethodPost, "/v1/sort/batch", `{"inputs":[[3,2,1]]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp batchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Results[0].Error, "limit exceeded")
	assert.Equal(t, 1, resp.Failed)

	w = do(t, s, http.MethodPost, "/v1/sort/batch", `{"inputs":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Post("http://"+ln.Addr().String()+"/v1/sort", "application/json",
		bytes.NewBufferString(`{"values":[9,8,7]}`))
	require.NoError(t, err)
	var body sortResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, []int{7, 8, 9}, body.Values)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
