package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"FightSync/internal/model"
	"FightSync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher 以URL内容作为文件内容，含 "broken" 的URL返回错误
type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, w io.Writer) error {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if strings.Contains(url, "broken") {
		return errors.New("404")
	}
	_, err := io.WriteString(w, url)
	return err
}

func TestFetchImages_Competitors(t *testing.T) {
	db := testutil.OpenTestDB(t)
	logger, _ := testutil.NewTestLogger()
	ingest := NewIngestService(db, logger)
	ctx := context.Background()

	rec := testutil.NewRecord("Davis vs. Garcia", "2024-03-05", "Arena")
	rec.Competitors[0].Image = "https://cdn.example.com/BioImage_Davis_1.png?w=300"
	rec.Competitors[1].Image = "https://cdn.example.com/broken.jpg"
	_, err := ingest.IngestRecord(ctx, rec)
	require.NoError(t, err)

	var davis model.Competitor
	require.NoError(t, db.Where("name = ?", "Gervonta Davis").First(&davis).Error)

	dir := filepath.Join(t.TempDir(), "images")
	fetcher := &fakeFetcher{}
	svc := NewImageCacheService(db, fetcher, dir, logger)

	res, err := svc.FetchImages(ctx, "competitors")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Fetched)
	assert.Equal(t, 1, res.Failed)

	data, err := os.ReadFile(filepath.Join(dir, "competitors_"+uintToString(davis.ID)+".png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/BioImage_Davis_1.png?w=300", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "failed downloads leave no files behind")

	// 已存在的文件跳过，不再下载
	res, err = svc.FetchImages(ctx, "competitors")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Fetched)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, fetcher.calls, 3)
}

func TestFetchImages_EventsWithoutImagesAreSkipped(t *testing.T) {
	db := testutil.OpenTestDB(t)
	logger, _ := testutil.NewTestLogger()
	_, err := NewIngestService(db, logger).IngestRecord(context.Background(), testutil.NewRecord("A", "2024-03-05", "Arena"))
	require.NoError(t, err)

	fetcher := &fakeFetcher{}
	res, err := NewImageCacheService(db, fetcher, t.TempDir(), logger).FetchImages(context.Background(), "events")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, fetcher.calls)
}

func TestFetchImages_UnknownKind(t *testing.T) {
	db := testutil.OpenTestDB(t)
	logger, _ := testutil.NewTestLogger()

	_, err := NewImageCacheService(db, &fakeFetcher{}, t.TempDir(), logger).FetchImages(context.Background(), "referees")
	assert.True(t, model.IsValidationError(err))
}

func TestFetchImages_KindAliases(t *testing.T) {
	db := testutil.OpenTestDB(t)
	logger, _ := testutil.NewTestLogger()
	_, err := NewIngestService(db, logger).IngestRecord(context.Background(), testutil.NewRecord("A", "2024-03-05", "Arena"))
	require.NoError(t, err)

	dir := t.TempDir()
	res, err := NewImageCacheService(db, &fakeFetcher{}, dir, logger).FetchImages(context.Background(), "Fighters")
	require.NoError(t, err)
	assert.Equal(t, KindCompetitors, res.Kind)
	assert.Equal(t, 2, res.Fetched)

	matches, err := filepath.Glob(filepath.Join(dir, "competitors_*"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = NewImageCacheService(db, &fakeFetcher{}, dir, logger).FetchImages(context.Background(), "locations")
	assert.True(t, model.IsValidationError(err), "venues have no images")
}

func TestCanonicalKind(t *testing.T) {
	for alias, want := range map[string]string{
		"fighters":   KindCompetitors,
		"competitor": KindCompetitors,
		"fight":      KindFights,
		"EVENTS":     KindEvents,
		"locations":  KindVenues,
	} {
		got, err := CanonicalKind(alias)
		require.NoError(t, err)
		assert.Equal(t, want, got, alias)
	}
	_, err := CanonicalKind("referees")
	assert.True(t, model.IsValidationError(err))
}

func TestImageExt(t *testing.T) {
	assert.Equal(t, ".png", imageExt("https://cdn.example.com/a/b.PNG?x=1"))
	assert.Equal(t, ".jpg", imageExt("https://cdn.example.com/a/b"))
	assert.Equal(t, ".webp", imageExt("b.webp"))
}

func uintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}
