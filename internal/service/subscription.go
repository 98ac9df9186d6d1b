package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/teDdyMucho/connectlove-sub001/internal/model"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository"
	"go.uber.org/zap"
)

// SUPPORT_HISTORY_WINDOW caps how many recent rows a targeted reload reads
// when reducing one pair's history.
const SUPPORT_HISTORY_WINDOW = 20

type subscriptionService struct {
	logger *zap.Logger
	repo   *repository.Repository
	feed   ChangeFeed

	mu     sync.Mutex
	stores map[uuid.UUID]*SubscriptionStore
}

func newSubscriptionService(logger *zap.Logger, repo *repository.Repository, feed ChangeFeed) Subscriptions {
	return &subscriptionService{
		logger: logger,
		repo:   repo,
		feed:   feed,
		stores: make(map[uuid.UUID]*SubscriptionStore),
	}
}

func (s *subscriptionService) Store(supporterID uuid.UUID) *SubscriptionStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, exists := s.stores[supporterID]
	if !exists {
		store = newSubscriptionStore(s.logger, s.repo, s.feed, supporterID)
		store.trustFeedTier = viper.GetBool("feed.trust_tier")
		s.stores[supporterID] = store
	}

	return store
}

func (s *subscriptionService) Release(supporterID uuid.UUID) {
	s.mu.Lock()
	store := s.stores[supporterID]
	delete(s.stores, supporterID)
	s.mu.Unlock()

	if store != nil {
		store.Close()
	}
}

// SubscriptionStore holds one viewer's in-memory map of creator id to
// reduced SupportRecord. It is populated by full or targeted reloads,
// mutated by optimistic writes after successful actions, and by realtime
// change events scoped to the currently tracked creator. Nothing here is
// ever persisted.
type SubscriptionStore struct {
	logger      *zap.Logger
	repo        *repository.Repository
	feed        ChangeFeed
	supporterID uuid.UUID

	// trustFeedTier lets change-feed rows overwrite the known tier. The feed
	// is scoped to following-state changes, so this stays off unless the
	// backend starts emitting tier changes too.
	trustFeedTier bool

	mu               sync.Mutex
	records          map[string]*model.SupportRecord
	trackedCreatorID string
	unsubscribe      func()
}

func newSubscriptionStore(logger *zap.Logger, repo *repository.Repository, feed ChangeFeed, supporterID uuid.UUID) *SubscriptionStore {
	return &SubscriptionStore{
		logger:      logger,
		repo:        repo,
		feed:        feed,
		supporterID: supporterID,
		records:     make(map[string]*model.SupportRecord),
	}
}

// RecordPatch is a partial update to one creator's record. Nil fields are
// left untouched by the merge.
type RecordPatch struct {
	Tier      *model.Tier
	Following *bool
	CreatedAt *time.Time
}

// LoadAll replaces the store contents with the reduced view of every support
// row belonging to the supporter, one record per distinct creator. Rows
// arrive newest first: the first row per creator seeds following and
// created_at, and an older row may only backfill a tier the newer rows
// didn't carry. Backend errors degrade to an empty state.
func (st *SubscriptionStore) LoadAll(ctx context.Context) map[string]model.SupportRecord {
	rows, err := st.repo.Postgres.Support.FindBySupporter(ctx, st.supporterID)
	if err != nil {
		st.logger.Sugar().Errorf("failed to load supports for supporter(%s): %s", st.supporterID, err.Error())
		rows = nil
	}

	records := make(map[string]*model.SupportRecord)
	for _, row := range rows {
		key := row.CreatorID.String()
		if record, exists := records[key]; exists {
			if record.Tier == nil && row.Tier != nil {
				record.Tier = row.Tier
			}
			continue
		}

		records[key] = &model.SupportRecord{
			Tier:      row.Tier,
			Following: normalizeFollowing(row.Following),
			CreatedAt: row.CreatedAt,
		}
	}

	st.mu.Lock()
	st.records = records
	st.mu.Unlock()

	return st.Snapshot()
}

// LoadOne reloads a single creator's record from a bounded window of the
// pair's most recent rows. Following comes from the latest row; the tier
// comes from the first row in the window that has one, which may be older
// than the row that set following. No rows means the pair has no record.
func (st *SubscriptionStore) LoadOne(ctx context.Context, creatorID uuid.UUID) *model.SupportRecord {
	rows, err := st.repo.Postgres.Support.FindPair(ctx, st.supporterID, creatorID, SUPPORT_HISTORY_WINDOW)
	if err != nil {
		st.logger.Sugar().Errorf("failed to load support pair (%s, %s): %s", st.supporterID, creatorID, err.Error())
		rows = nil
	}

	key := creatorID.String()
	if len(rows) == 0 {
		st.mu.Lock()
		delete(st.records, key)
		st.mu.Unlock()
		return nil
	}

	record := &model.SupportRecord{
		Following: normalizeFollowing(rows[0].Following),
		CreatedAt: rows[0].CreatedAt,
	}
	for _, row := range rows {
		if row.Tier != nil {
			record.Tier = row.Tier
			break
		}
	}

	st.mu.Lock()
	st.records[key] = record
	st.mu.Unlock()

	out := *record
	return &out
}

// ApplyOptimistic merges a partial update into the creator's record right
// after a successful action, before any backend change notification lands.
func (st *SubscriptionStore) ApplyOptimistic(creatorID string, patch RecordPatch) {
	st.mu.Lock()
	defer st.mu.Unlock()

	record := model.SupportRecord{}
	if existing, exists := st.records[creatorID]; exists {
		record = *existing
	}

	if patch.Tier != nil {
		record.Tier = patch.Tier
	}
	if patch.Following != nil {
		record.Following = patch.Following
	}
	if patch.CreatedAt != nil {
		record.CreatedAt = *patch.CreatedAt
	}

	st.records[creatorID] = &record
}

// ApplyRealtimeEvent folds a pushed change into the tracked pair's record.
// Events for any other pair are dropped. Deletes reset following to unknown
// and keep the tier; upserts update following and created_at. The tier is
// never taken from the feed unless trustFeedTier is set.
func (st *SubscriptionStore) ApplyRealtimeEvent(event model.SupportEvent) {
	row := event.Row()
	if row == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	key := row.CreatorID.String()
	if key != st.trackedCreatorID || row.SupporterID != st.supporterID {
		return
	}

	record := model.SupportRecord{}
	if existing, exists := st.records[key]; exists {
		record = *existing
	}

	switch event.Kind {
	case model.SupportEventDelete:
		record.Following = nil
	default:
		record.Following = normalizeFollowing(row.Following)
		record.CreatedAt = row.CreatedAt
		if st.trustFeedTier && row.Tier != nil {
			record.Tier = row.Tier
		}
	}

	st.records[key] = &record
}

func (st *SubscriptionStore) Get(creatorID string) (model.SupportRecord, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	record, exists := st.records[creatorID]
	if !exists {
		return model.SupportRecord{}, false
	}

	return *record, true
}

// CurrentTier returns the creator's tier only while the record is actively
// following. A known tier on a non-followed record is not an active tier;
// follow and tier move independently, so this is enforced at read time.
func (st *SubscriptionStore) CurrentTier(creatorID string) *model.Tier {
	st.mu.Lock()
	defer st.mu.Unlock()

	record, exists := st.records[creatorID]
	if !exists || record.Following == nil || !*record.Following {
		return nil
	}

	return record.Tier
}

func (st *SubscriptionStore) Snapshot() map[string]model.SupportRecord {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make(map[string]model.SupportRecord, len(st.records))
	for creatorID, record := range st.records {
		out[creatorID] = *record
	}

	return out
}

// Track scopes the realtime feed to one creator. Re-scoping releases the
// previous subscription before the new one is established, so stale-scope
// events cannot leak into the new pairing's state.
func (st *SubscriptionStore) Track(creatorID string) error {
	st.mu.Lock()
	if st.unsubscribe != nil {
		st.unsubscribe()
		st.unsubscribe = nil
	}
	st.trackedCreatorID = creatorID
	st.mu.Unlock()

	if st.feed == nil || creatorID == "" {
		return nil
	}

	events, stop, err := st.feed.Subscribe(st.supporterID.String(), creatorID)
	if err != nil {
		st.logger.Sugar().Errorf("failed to subscribe to support changes (%s, %s): %s", st.supporterID, creatorID, err.Error())
		return err
	}

	st.mu.Lock()
	st.unsubscribe = stop
	st.mu.Unlock()

	go func() {
		for event := range events {
			st.ApplyRealtimeEvent(event)
		}
	}()

	return nil
}

func (st *SubscriptionStore) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.unsubscribe != nil {
		st.unsubscribe()
		st.unsubscribe = nil
	}
	st.trackedCreatorID = ""
}

// normalizeFollowing maps the backend's textual following value to the
// tri-state flag: "true"/"false" to a boolean, anything else to unknown.
func normalizeFollowing(raw *string) *bool {
	if raw == nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(*raw)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}
