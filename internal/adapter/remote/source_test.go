package remote

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"FightSync/internal/config"
	"FightSync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `[{"title": "A vs. B", "date": "2024-03-05", "location": {"name": "Arena"}}]`

func TestRemoteSource_FetchRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()
	logger, _ := testutil.NewTestLogger()

	src, err := NewSource(&config.IngestConfig{URL: srv.URL, Timeout: 5}, logger)
	require.NoError(t, err)
	assert.Equal(t, Name, src.GetName())

	records, err := src.FetchRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A vs. B", records[0].Title)
}

func TestRemoteSource_Gzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(payload))
		_ = gz.Close()
	}))
	defer srv.Close()
	logger, _ := testutil.NewTestLogger()

	src, err := NewSource(&config.IngestConfig{URL: srv.URL, Timeout: 5}, logger)
	require.NoError(t, err)
	records, err := src.FetchRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRemoteSource_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()
	logger, _ := testutil.NewTestLogger()

	src, err := NewSource(&config.IngestConfig{URL: srv.URL, Timeout: 5}, logger)
	require.NoError(t, err)
	_, err = src.FetchRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestRemoteSource_RequiresURL(t *testing.T) {
	logger, _ := testutil.NewTestLogger()
	_, err := NewSource(&config.IngestConfig{}, logger)
	assert.Error(t, err)
}
