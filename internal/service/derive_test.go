package service

import (
	"context"
	"testing"

	"FightSync/internal/config"
	"FightSync/internal/model"
	"FightSync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testURLBase = "https://www.premierboxingchampions.com/fight-night-"

func newDeriveFixture(t *testing.T) (*DeriveService, *IngestService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	logger, _ := testutil.NewTestLogger()
	cfg := &config.Config{
		Ingest: config.IngestConfig{EventURLBase: testURLBase},
		Images: config.ImagesConfig{BioMarker: "BioImage", FullBodyMarker: "FullBody"},
	}
	return NewDeriveService(db, cfg, logger), NewIngestService(db, logger), db
}

func ingestWithImage(t *testing.T, ingest *IngestService, title, date, image string) uint64 {
	t.Helper()
	rec := testutil.NewRecord(title, date, "Arena")
	rec.Image = image
	id, err := ingest.IngestRecord(context.Background(), rec)
	require.NoError(t, err)
	return id
}

func loadEvent(t *testing.T, db *gorm.DB, date string) *model.Event {
	t.Helper()
	ts, err := model.ParseTimestamp(date)
	require.NoError(t, err)
	var e model.Event
	require.NoError(t, db.Where("date = ?", ts).First(&e).Error)
	return &e
}

func TestUpdateEventURLs(t *testing.T) {
	derive, ingest, db := newDeriveFixture(t)
	ctx := context.Background()
	ingestWithImage(t, ingest, "A", "2024-03-05T20:00:00Z", "")

	res, err := derive.UpdateEventURLs(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)

	e := loadEvent(t, db, "2024-03-05T20:00:00Z")
	require.NotNil(t, e.EventURL)
	assert.Equal(t, testURLBase+"march-05-2024", *e.EventURL)

	res, err = derive.UpdateEventURLs(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, res.Updated, "filled fields are left alone without force")
	assert.Equal(t, 1, res.Skipped)

	res, err = derive.UpdateEventURLs(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)
	assert.Equal(t, testURLBase+"march-05-2024", *loadEvent(t, db, "2024-03-05T20:00:00Z").EventURL)
}

func TestUpdateEventURLs_UsesSourceLocalDate(t *testing.T) {
	derive, ingest, db := newDeriveFixture(t)
	ingestWithImage(t, ingest, "A", "2024-03-05T20:00:00-05:00", "")

	_, err := derive.UpdateEventURLs(context.Background(), false)
	require.NoError(t, err)

	e := loadEvent(t, db, "2024-03-06T01:00:00Z")
	assert.Equal(t, "2024-03-05", e.LocalDate)
	require.NotNil(t, e.EventURL)
	assert.Equal(t, testURLBase+"march-05-2024", *e.EventURL)
}

func TestUpdateEventImages(t *testing.T) {
	derive, ingest, db := newDeriveFixture(t)
	ctx := context.Background()

	// [a, b, a] -> a
	ingestWithImage(t, ingest, "A1", "2024-01-01", "a.jpg")
	ingestWithImage(t, ingest, "A2", "2024-01-01", "b.jpg")
	ingestWithImage(t, ingest, "A3", "2024-01-01", "a.jpg")
	// [a] -> a
	ingestWithImage(t, ingest, "B1", "2024-02-01", "single.jpg")
	// [] -> unset
	ingestWithImage(t, ingest, "C1", "2024-03-01", "")
	// all distinct -> first in stored order
	ingestWithImage(t, ingest, "D1", "2024-04-01", "first.jpg")
	ingestWithImage(t, ingest, "D2", "2024-04-01", "second.jpg")

	res, err := derive.UpdateEventImages(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Updated)

	assert.Equal(t, "a.jpg", *loadEvent(t, db, "2024-01-01").EventImage)
	assert.Equal(t, "single.jpg", *loadEvent(t, db, "2024-02-01").EventImage)
	assert.Nil(t, loadEvent(t, db, "2024-03-01").EventImage)
	assert.Equal(t, "first.jpg", *loadEvent(t, db, "2024-04-01").EventImage)
}

func TestUpdateCompetitorImages(t *testing.T) {
	derive, ingest, db := newDeriveFixture(t)
	ctx := context.Background()

	rec := testutil.NewRecord("Davis vs. Garcia", "2024-03-05", "Arena")
	rec.Competitors[0].Image = "https://cdn.example.com/BioImage_Davis_1.jpg"
	rec.Competitors[1].Image = "https://cdn.example.com/headshot_Garcia.jpg"
	_, err := ingest.IngestRecord(ctx, rec)
	require.NoError(t, err)

	res, err := derive.UpdateCompetitorImages(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)
	assert.Equal(t, 1, res.Skipped)

	var davis, garcia model.Competitor
	require.NoError(t, db.Where("name = ?", "Gervonta Davis").First(&davis).Error)
	require.NoError(t, db.Where("name = ?", "Ryan Garcia").First(&garcia).Error)

	require.NotNil(t, davis.FullBodyImage)
	assert.Equal(t, "https://cdn.example.com/FullBody_Davis_1.jpg", *davis.FullBodyImage)
	require.NotNil(t, davis.BioImageNoIndex)
	assert.Equal(t, "https://cdn.example.com/BioImage_Davis.jpg", *davis.BioImageNoIndex)
	require.NotNil(t, davis.FullBodyNoIndex)
	assert.Equal(t, "https://cdn.example.com/FullBody_Davis.jpg", *davis.FullBodyNoIndex)

	assert.Nil(t, garcia.FullBodyImage)
	assert.Nil(t, garcia.BioImageNoIndex)
	assert.Nil(t, garcia.FullBodyNoIndex)
}

func TestStandardizeFightTitles(t *testing.T) {
	derive, ingest, db := newDeriveFixture(t)
	ctx := context.Background()

	id := ingestWithImage(t, ingest, "Tank vs. KingRy", "2024-03-05", "")

	// 冲突：同一赛事下已存在标准标题
	ingestWithImage(t, ingest, "Gervonta Davis vs. Ryan Garcia", "2024-06-01", "")
	clashID := ingestWithImage(t, ingest, "Rematch", "2024-06-01", "")

	// 只有一名选手的对决不处理
	solo := testutil.NewRecord("Exhibition", "2024-03-05", "Arena")
	solo.Competitors = solo.Competitors[:1]
	_, err := ingest.IngestRecord(ctx, solo)
	require.NoError(t, err)

	res, err := derive.StandardizeFightTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)

	var f model.Fight
	require.NoError(t, db.First(&f, id).Error)
	assert.Equal(t, "Gervonta Davis vs. Ryan Garcia", f.Title)

	var clash model.Fight
	require.NoError(t, db.First(&clash, clashID).Error)
	assert.Equal(t, "Rematch", clash.Title, "colliding rename is skipped")

	var exhibition model.Fight
	require.NoError(t, db.Where("title = ?", "Exhibition").First(&exhibition).Error)
}

func TestCleanColumn(t *testing.T) {
	derive, ingest, db := newDeriveFixture(t)
	ctx := context.Background()
	ingestWithImage(t, ingest, "A", "2024-03-05", "")

	res, err := derive.CleanColumn(ctx, "fighters", "nationality", "USA", "United States")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Updated)

	var n int64
	require.NoError(t, db.Model(&model.Competitor{}).Where("nationality = ?", "United States").Count(&n).Error)
	assert.Equal(t, int64(2), n)

	res, err = derive.CleanColumn(ctx, "locations", "address", " Way", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)
	var v model.Venue
	require.NoError(t, db.First(&v).Error)
	assert.Equal(t, "1 Arena", v.Address)
}

func TestCleanColumn_TextColumnsWithTypeTags(t *testing.T) {
	derive, ingest, db := newDeriveFixture(t)
	ctx := context.Background()
	ingestWithImage(t, ingest, "Davis vs. Garcia", "2024-03-05", "")

	for _, tt := range []struct{ kind, column, target string }{
		{"fights", "title", "Davis"},
		{"venues", "name", "Arena"},
		{"events", "description", "Fight"},
	} {
		_, err := derive.CleanColumn(ctx, tt.kind, tt.column, tt.target, "Z")
		require.NoError(t, err, "%s.%s", tt.kind, tt.column)
	}

	var f model.Fight
	require.NoError(t, db.First(&f).Error)
	assert.Equal(t, "Z vs. Garcia", f.Title)
}

func TestCleanColumn_Rejects(t *testing.T) {
	derive, _, _ := newDeriveFixture(t)
	ctx := context.Background()

	tests := []struct {
		name                 string
		kind, column, target string
	}{
		{"unknown kind", "referees", "name", "x"},
		{"json column", "competitors", "work_location", "x"},
		{"unknown column", "fights", "no_such_column", "x"},
		{"non text column", "competitors", "weight_value", "x"},
		{"empty target", "fights", "title", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := derive.CleanColumn(ctx, tt.kind, tt.column, tt.target, "y")
			assert.True(t, model.IsValidationError(err), "got %v", err)
		})
	}
}
