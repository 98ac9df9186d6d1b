package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"go.uber.org/zap"
)

var (
	testSupporterID = uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	testCreatorA    = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	testCreatorB    = uuid.MustParse("99999999-8888-7777-6666-555555555555")
)

func strPtr(s string) *string { return &s }

func tierPtr(t model.Tier) *model.Tier { return &t }

func boolPtr(b bool) *bool { return &b }

func supportRow(creatorID uuid.UUID, tier *model.Tier, following string, createdAt time.Time) *model.SupportRow {
	return &model.SupportRow{
		ID:          uuid.New(),
		SupporterID: testSupporterID,
		CreatorID:   creatorID,
		Tier:        tier,
		Following:   strPtr(following),
		CreatedAt:   createdAt,
	}
}

func newTestStore(supports *fakeSupportRepo, feed ChangeFeed) *SubscriptionStore {
	return newSubscriptionStore(zap.NewNop(), testRepository(newFakeUserRepo(), supports), feed, testSupporterID)
}

func TestLoadOne_TierBackfillNotOverwrite(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	// Newest first: a pure unfollow row with no tier, then an older Gold row.
	supports := &fakeSupportRepo{rows: []*model.SupportRow{
		supportRow(testCreatorA, nil, "false", t2),
		supportRow(testCreatorA, tierPtr(model.TierGold), "true", t1),
	}}

	store := newTestStore(supports, nil)
	record := store.LoadOne(context.Background(), testCreatorA)

	require.NotNil(t, record)
	require.NotNil(t, record.Following)
	assert.False(t, *record.Following, "latest following wins")
	require.NotNil(t, record.Tier)
	assert.Equal(t, model.TierGold, *record.Tier, "a null-tier row must not erase the known tier")
	assert.Equal(t, t2, record.CreatedAt)
}

func TestLoadOne_NoRowsMeansAbsent(t *testing.T) {
	store := newTestStore(&fakeSupportRepo{}, nil)

	store.ApplyOptimistic(testCreatorA.String(), RecordPatch{Following: boolPtr(true)})

	record := store.LoadOne(context.Background(), testCreatorA)
	assert.Nil(t, record)

	_, exists := store.Get(testCreatorA.String())
	assert.False(t, exists, "a targeted reload with no rows clears the record")
}

func TestLoadAll_OneRecordPerCreator(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Two creators interleaved in time, newest first.
	supports := &fakeSupportRepo{rows: []*model.SupportRow{
		supportRow(testCreatorA, nil, "true", base.Add(4*time.Hour)),
		supportRow(testCreatorB, nil, "false", base.Add(3*time.Hour)),
		supportRow(testCreatorA, tierPtr(model.TierSilver), "true", base.Add(2*time.Hour)),
		supportRow(testCreatorB, tierPtr(model.TierBronze), "true", base.Add(time.Hour)),
		supportRow(testCreatorA, tierPtr(model.TierBronze), "true", base),
	}}

	store := newTestStore(supports, nil)
	records := store.LoadAll(context.Background())

	require.Len(t, records, 2)

	recordA := records[testCreatorA.String()]
	require.NotNil(t, recordA.Following)
	assert.True(t, *recordA.Following)
	require.NotNil(t, recordA.Tier)
	assert.Equal(t, model.TierSilver, *recordA.Tier, "backfill takes the most recent non-null tier, not the oldest")
	assert.Equal(t, base.Add(4*time.Hour), recordA.CreatedAt)

	recordB := records[testCreatorB.String()]
	require.NotNil(t, recordB.Following)
	assert.False(t, *recordB.Following)
	require.NotNil(t, recordB.Tier)
	assert.Equal(t, model.TierBronze, *recordB.Tier)
}

func TestLoadAll_BackendErrorDegradesToEmpty(t *testing.T) {
	supports := &fakeSupportRepo{err: assert.AnError}

	store := newTestStore(supports, nil)
	records := store.LoadAll(context.Background())

	assert.Empty(t, records)
}

func TestApplyOptimistic_PreservesUnpatchedFields(t *testing.T) {
	store := newTestStore(&fakeSupportRepo{}, nil)
	key := testCreatorA.String()

	store.ApplyOptimistic(key, RecordPatch{Tier: tierPtr(model.TierGold), Following: boolPtr(true)})
	store.ApplyOptimistic(key, RecordPatch{Following: boolPtr(false)})

	record, exists := store.Get(key)
	require.True(t, exists)
	require.NotNil(t, record.Following)
	assert.False(t, *record.Following)
	require.NotNil(t, record.Tier)
	assert.Equal(t, model.TierGold, *record.Tier)
}

func TestCurrentTier_GatedByFollowing(t *testing.T) {
	store := newTestStore(&fakeSupportRepo{}, nil)
	key := testCreatorA.String()

	store.ApplyOptimistic(key, RecordPatch{Tier: tierPtr(model.TierGold), Following: boolPtr(false)})
	assert.Nil(t, store.CurrentTier(key), "a tier on a non-followed record is not active")

	store.ApplyOptimistic(key, RecordPatch{Following: boolPtr(true)})
	require.NotNil(t, store.CurrentTier(key))
	assert.Equal(t, model.TierGold, *store.CurrentTier(key))
}

func TestApplyRealtimeEvent_ScopedToTrackedPair(t *testing.T) {
	store := newTestStore(&fakeSupportRepo{}, nil)
	keyA := testCreatorA.String()

	require.NoError(t, store.Track(keyA))
	store.ApplyOptimistic(keyA, RecordPatch{Tier: tierPtr(model.TierGold), Following: boolPtr(true)})

	// Delete for creator B must not touch A's record.
	store.ApplyRealtimeEvent(model.SupportEvent{
		Kind:   model.SupportEventDelete,
		OldRow: supportRow(testCreatorB, nil, "true", time.Now()),
	})

	record, _ := store.Get(keyA)
	require.NotNil(t, record.Following)
	assert.True(t, *record.Following)

	// Delete for the tracked creator resets following to unknown, keeps the tier.
	store.ApplyRealtimeEvent(model.SupportEvent{
		Kind:   model.SupportEventDelete,
		OldRow: supportRow(testCreatorA, nil, "true", time.Now()),
	})

	record, _ = store.Get(keyA)
	assert.Nil(t, record.Following)
	require.NotNil(t, record.Tier)
	assert.Equal(t, model.TierGold, *record.Tier)
}

func TestApplyRealtimeEvent_NeverUpdatesTier(t *testing.T) {
	store := newTestStore(&fakeSupportRepo{}, nil)
	keyA := testCreatorA.String()

	require.NoError(t, store.Track(keyA))
	store.ApplyOptimistic(keyA, RecordPatch{Tier: tierPtr(model.TierSilver), Following: boolPtr(true)})

	eventTime := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store.ApplyRealtimeEvent(model.SupportEvent{
		Kind:   model.SupportEventUpdate,
		NewRow: supportRow(testCreatorA, tierPtr(model.TierPlatinum), "false", eventTime),
	})

	record, _ := store.Get(keyA)
	require.NotNil(t, record.Following)
	assert.False(t, *record.Following)
	assert.Equal(t, eventTime, record.CreatedAt)
	require.NotNil(t, record.Tier)
	assert.Equal(t, model.TierSilver, *record.Tier, "tier changes are only trusted from the viewer's own action flow")
}

func TestApplyRealtimeEvent_NormalizesFollowing(t *testing.T) {
	store := newTestStore(&fakeSupportRepo{}, nil)
	keyA := testCreatorA.String()
	require.NoError(t, store.Track(keyA))

	store.ApplyRealtimeEvent(model.SupportEvent{
		Kind:   model.SupportEventUpdate,
		NewRow: supportRow(testCreatorA, nil, "maybe", time.Now()),
	})

	record, exists := store.Get(keyA)
	require.True(t, exists)
	assert.Nil(t, record.Following, "unparseable following values normalize to unknown")
}

func TestTrack_ReleasesPreviousSubscription(t *testing.T) {
	feed := &fakeFeed{}
	store := newTestStore(&fakeSupportRepo{}, feed)

	require.NoError(t, store.Track(testCreatorA.String()))
	require.NoError(t, store.Track(testCreatorB.String()))

	assert.Equal(t, []string{testCreatorA.String(), testCreatorB.String()}, feed.subscribed)
	assert.Equal(t, 1, feed.stopped, "re-scoping must release the previous feed first")

	store.Close()
	assert.Equal(t, 2, feed.stopped)
}

func TestSubscriptionService_StorePerViewer(t *testing.T) {
	subscriptions := newSubscriptionService(zap.NewNop(), testRepository(newFakeUserRepo(), &fakeSupportRepo{}), nil)

	first := subscriptions.Store(testSupporterID)
	second := subscriptions.Store(testSupporterID)
	assert.Same(t, first, second)

	subscriptions.Release(testSupporterID)
	third := subscriptions.Store(testSupporterID)
	assert.NotSame(t, first, third)
}
