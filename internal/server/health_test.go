package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/repository"
	"github.com/UnknownOlympus/staffbook/internal/server"
	"github.com/stretchr/testify/require"
)

type mockPinger struct {
	shouldFail bool
}

func (m *mockPinger) Ping(_ context.Context) error {
	if m.shouldFail {
		return errors.New("mock snapshot error")
	}
	return nil
}

type fixedCounter int

func (c fixedCounter) Count() int {
	return int(c)
}

func TestHealthChecker(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("snapshot ok", func(t *testing.T) {
		t.Parallel()

		healthChecker := server.NewHealthChecker(&mockPinger{}, fixedCounter(3), logger)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()

		healthChecker.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		require.JSONEq(t, `{"snapshot":"ok","employees":3}`, rr.Body.String())
	})

	t.Run("snapshot unavailable", func(t *testing.T) {
		t.Parallel()

		healthChecker := server.NewHealthChecker(&mockPinger{shouldFail: true}, fixedCounter(0), logger)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()

		healthChecker.ServeHTTP(rr, req)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		require.JSONEq(t, `{"snapshot":"unavailable","employees":0}`, rr.Body.String())
	})

	t.Run("file store", func(t *testing.T) {
		t.Parallel()

		store := repository.NewFileStore(filepath.Join(t.TempDir(), "nested", "employees.json"))
		healthChecker := server.NewHealthChecker(store, fixedCounter(1), logger)

		rr := httptest.NewRecorder()
		healthChecker.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		require.DirExists(t, filepath.Dir(store.Path()))
	})
}
