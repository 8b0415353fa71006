package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"softfocus/internal/domain"
	"softfocus/internal/middleware"
	"softfocus/internal/service/explorer"
	"softfocus/internal/service/export"
	"softfocus/internal/testutil"
)

var fixtureTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func fixtureIndex() []domain.DatasetDescriptor {
	return []domain.DatasetDescriptor{
		{Name: "alpha.csv", SizeBytes: 10 * 1024, ModifiedAt: fixtureTime, ColumnCount: 3},
		{Name: "beta.csv", SizeBytes: 100 * 1024, ModifiedAt: fixtureTime.Add(24 * time.Hour), ColumnCount: 2},
		{Name: "gamma.csv", SizeBytes: 300 * 1024, ModifiedAt: fixtureTime.Add(48 * time.Hour), ColumnCount: 5},
	}
}

func fixtureLoader() *testutil.MockDatasetLoader {
	return &testutil.MockDatasetLoader{
		LoadFn: func(_ context.Context, datasetID string) (*domain.Table, error) {
			return &domain.Table{
				DatasetID: datasetID,
				Columns: []domain.Column{
					{Name: "time", Values: []string{"1", "2", "3"}},
					{Name: "temp", Values: []string{"20.5", "21.0", "21.5"}},
				},
			}, nil
		},
	}
}

type testServer struct {
	handler  http.Handler
	exporter *export.Exporter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	manager := explorer.NewManager(fixtureIndex(), fixtureLoader(), logger, time.Hour)
	exporter, err := export.NewExporter(t.TempDir(), logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.Session)
	r.Mount("/api", NewHandler(manager, exporter, logger).Routes())
	return &testServer{handler: r, exporter: exporter}
}

// do issues a request under a fixed session identity and decodes the JSON
// response into out (when non-nil).
func (s *testServer) do(t *testing.T, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "test-owner"})
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		// Zero the destination so fields omitted from the response (e.g.
		// omitempty) are not left over from a previous decode.
		v := reflect.ValueOf(out).Elem()
		v.Set(reflect.Zero(v.Type()))
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func (s *testServer) openSession(t *testing.T, dataset string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/catalog/select", selectRequest{Dataset: dataset}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/sessions", openSessionRequest{Dataset: dataset}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
}
