package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetCatalog(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	var resp catalogResponse
	rec := s.do(t, http.MethodGet, "/api/catalog", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, resp.Datasets, 3)
	assert.Equal(t, "alpha.csv", resp.Datasets[0].Name)
	assert.Equal(t, int64(10), resp.Datasets[0].SizeKB)
	assert.Empty(t, resp.Selection)
	assert.False(t, resp.CanPlot)
}

func TestSetFilterNarrowsView(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	var resp catalogResponse
	rec := s.do(t, http.MethodPost, "/api/catalog/filter", filterRequest{Size: strPtr("50..400")}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, resp.Datasets, 2)
	assert.Equal(t, "beta.csv", resp.Datasets[0].Name)
	assert.Equal(t, "gamma.csv", resp.Datasets[1].Name)
	assert.Equal(t, "50..400", resp.Filter.Size)
}

func TestSetFilterValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/catalog/filter", filterRequest{Size: strPtr("abc")}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/catalog/filter", filterRequest{From: strPtr("2026-05-01")}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "from without to rejected")

	rec = s.do(t, http.MethodPost, "/api/catalog/filter", filterRequest{From: strPtr("nope"), To: strPtr("2026-05-02")}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectAndDeselect(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	var resp catalogResponse
	rec := s.do(t, http.MethodPost, "/api/catalog/select", selectRequest{Dataset: "alpha.csv"}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alpha.csv", resp.Selection)
	assert.True(t, resp.CanPlot)

	rec = s.do(t, http.MethodDelete, "/api/catalog/select", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Selection)
	assert.False(t, resp.CanPlot)
}

func TestSelectUnknownDataset(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/catalog/select", selectRequest{Dataset: "missing.csv"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilterChangeResetsSelection(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/catalog/select", selectRequest{Dataset: "alpha.csv"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp catalogResponse
	rec = s.do(t, http.MethodPost, "/api/catalog/filter", filterRequest{Name: strPtr("gamma")}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Selection, "filter excluding the selection clears it")
	assert.False(t, resp.CanPlot)
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	var resp statusResponse
	rec := s.do(t, http.MethodGet, "/api/status", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", resp.State)
}
