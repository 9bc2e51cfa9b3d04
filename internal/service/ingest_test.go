package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"FightSync/internal/model"
	"FightSync/internal/repository"
	"FightSync/internal/testutil"
	"FightSync/internal/utils/dbctx"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type entityCounts struct {
	venues, events, fights, competitors, links int64
}

func countEntities(t *testing.T, db *gorm.DB) entityCounts {
	t.Helper()
	return entityCounts{
		venues:      testutil.CountRows(t, db, &model.Venue{}),
		events:      testutil.CountRows(t, db, &model.Event{}),
		fights:      testutil.CountRows(t, db, &model.Fight{}),
		competitors: testutil.CountRows(t, db, &model.Competitor{}),
		links:       testutil.CountRows(t, db, &model.FightCompetitor{}),
	}
}

func newIngestService(t *testing.T) (*IngestService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	logger, _ := testutil.NewTestLogger()
	return NewIngestService(db, logger), db
}

func TestIngestRecord_CreatesGraph(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	fightID, err := svc.IngestRecord(ctx, testutil.NewRecord("Davis vs. Garcia", "2024-03-05T20:00:00Z", "T-Mobile Arena"))
	require.NoError(t, err)
	require.NotZero(t, fightID)

	assert.Equal(t, entityCounts{venues: 1, events: 1, fights: 1, competitors: 2, links: 2}, countEntities(t, db))

	competitors, err := repository.NewCompetitorRepository(db).ListByFight(dbctx.New(ctx), fightID)
	require.NoError(t, err)
	require.Len(t, competitors, 2)
	assert.Equal(t, "Gervonta Davis", competitors[0].Name, "link order follows input order")
	assert.Equal(t, "Ryan Garcia", competitors[1].Name)
	assert.Equal(t, "Baltimore", competitors[0].FightingOutOfCity)
	require.NotNil(t, competitors[0].WeightValue)
	assert.InDelta(t, 135, *competitors[0].WeightValue, 1e-9)
}

func TestIngestAll_Idempotent(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()
	records := func() []*model.RawRecord {
		return []*model.RawRecord{
			testutil.NewRecord("Davis vs. Garcia", "2024-03-05T20:00:00Z", "T-Mobile Arena"),
			testutil.NewRecord("Undercard", "2024-03-05T20:00:00Z", "T-Mobile Arena"),
		}
	}

	first := svc.IngestAll(ctx, "test", records())
	assert.Equal(t, 2, first.Succeeded)
	after := countEntities(t, db)
	assert.Equal(t, entityCounts{venues: 1, events: 1, fights: 2, competitors: 2, links: 4}, after,
		"venue, event and competitors are reused within a batch")

	second := svc.IngestAll(ctx, "test", records())
	assert.Equal(t, 0, second.Succeeded)
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 0, second.Failed)
	for _, o := range second.Outcomes {
		assert.Equal(t, OutcomeSkipped, o.Status)
		assert.NotZero(t, o.FightID)
	}
	assert.Equal(t, after, countEntities(t, db))
}

func TestIngestRecord_DuplicateReturnsExistingFight(t *testing.T) {
	svc, _ := newIngestService(t)
	ctx := context.Background()

	id1, err := svc.IngestRecord(ctx, testutil.NewRecord("Davis vs. Garcia", "2024-03-05", "Arena"))
	require.NoError(t, err)

	id2, err := svc.IngestRecord(ctx, testutil.NewRecord("Davis vs. Garcia", "2024-03-05", "Arena"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDuplicateFight))
	assert.Equal(t, id1, id2)
}

func TestIngestRecord_FirstWriteWins(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	_, err := svc.IngestRecord(ctx, testutil.NewRecord("Fight A", "2024-03-05", "Arena"))
	require.NoError(t, err)

	rec := testutil.NewRecord("Fight B", "2024-04-01", "Arena")
	rec.Location.Address = "Another address"
	rec.Competitors[0].Nationality = "Changed"
	_, err = svc.IngestRecord(ctx, rec)
	require.NoError(t, err)

	venue, err := repository.NewVenueRepository(db).FindByName(dbctx.New(ctx), "Arena")
	require.NoError(t, err)
	assert.Equal(t, "1 Arena Way", venue.Address)

	c, err := repository.NewCompetitorRepository(db).FindByNameBirth(dbctx.New(ctx), "Gervonta Davis", mustParse(t, "1994-11-07"))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "USA", c.Nationality)

	assert.Equal(t, int64(2), testutil.CountRows(t, db, &model.Competitor{}))
	assert.Equal(t, int64(2), testutil.CountRows(t, db, &model.Event{}), "different dates create different events")
}

func TestIngestRecord_PartialFailureLeavesNothing(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	rec := testutil.NewRecord("Davis vs. Garcia", "2024-03-05", "Arena")
	rec.Competitors[1].BirthDate = "not-a-date"

	_, err := svc.IngestRecord(ctx, rec)
	require.Error(t, err)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "competitors[1].birthDate", ve.Field)

	assert.Equal(t, entityCounts{}, countEntities(t, db))
}

func TestIngestRecord_StoreFailureRollsBackRecord(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	// 让关联写入失败：删除关联表后，场馆/赛事/对决/选手都应随事务回滚
	require.NoError(t, db.Migrator().DropTable(&model.FightCompetitor{}))

	_, err := svc.IngestRecord(ctx, testutil.NewRecord("Davis vs. Garcia", "2024-03-05", "Arena"))
	require.Error(t, err)
	assert.True(t, model.IsStoreError(err))

	assert.Equal(t, int64(0), testutil.CountRows(t, db, &model.Venue{}))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &model.Event{}))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &model.Fight{}))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &model.Competitor{}))
}

func TestIngestAll_ContinuesAfterFailure(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	bad := testutil.NewRecord("Broken", "2024-03-05", "Arena")
	bad.Competitors[0].Weight = nil

	records := []*model.RawRecord{
		testutil.NewRecord("Fight A", "2024-03-05", "Arena"),
		bad,
		nil,
		testutil.NewRecord("Fight B", "2024-03-05", "Arena"),
	}
	report := svc.IngestAll(ctx, "test", records)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Outcomes, 4)
	assert.Equal(t, OutcomeFailed, report.Outcomes[1].Status)
	assert.Contains(t, report.Outcomes[1].Reason, "competitors[0].weight")
	assert.Equal(t, OutcomeSucceeded, report.Outcomes[3].Status)

	assert.Equal(t, int64(2), testutil.CountRows(t, db, &model.Fight{}))

	run, err := repository.NewIngestRunRepository(db).GetByUUID(dbctx.New(ctx), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, "test", run.Source)
	assert.Equal(t, 2, run.Succeeded)
	assert.Equal(t, 2, run.Failed)

	var outcomes []RecordOutcome
	require.NoError(t, json.Unmarshal(run.Outcomes, &outcomes))
	assert.Len(t, outcomes, 4)
}

func TestIngestAll_CancelledContextFailsRemaining(t *testing.T) {
	svc, db := newIngestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := svc.IngestAll(ctx, "test", []*model.RawRecord{
		testutil.NewRecord("Fight A", "2024-03-05", "Arena"),
	})
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &model.Fight{}))
}

func TestIngestAll_UniquenessHolds(t *testing.T) {
	svc, db := newIngestService(t)
	ctx := context.Background()

	var records []*model.RawRecord
	for _, title := range []string{"A", "B", "A", "C", "B"} {
		records = append(records, testutil.NewRecord(title, "2024-03-05T20:00:00Z", "Arena"))
		records = append(records, testutil.NewRecord(title, "2024-03-05T15:00:00-05:00", "Arena"))
	}
	svc.IngestAll(ctx, "test", records)

	type dup struct{ N int64 }
	var rows []dup
	require.NoError(t, db.Raw("SELECT COUNT(*) AS n FROM events GROUP BY date, venue_id HAVING COUNT(*) > 1").Scan(&rows).Error)
	assert.Empty(t, rows)
	require.NoError(t, db.Raw("SELECT COUNT(*) AS n FROM fights GROUP BY event_id, title HAVING COUNT(*) > 1").Scan(&rows).Error)
	assert.Empty(t, rows)
	require.NoError(t, db.Raw("SELECT COUNT(*) AS n FROM competitors GROUP BY name, birth_date HAVING COUNT(*) > 1").Scan(&rows).Error)
	assert.Empty(t, rows)

	assert.Equal(t, int64(1), testutil.CountRows(t, db, &model.Event{}), "equivalent instants resolve to one event")
	assert.Equal(t, int64(3), testutil.CountRows(t, db, &model.Fight{}))
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := model.ParseTimestamp(s)
	require.NoError(t, err)
	return v
}
