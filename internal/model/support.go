package model

import (
	"time"

	"github.com/google/uuid"
)

// SupportRow is one raw row of the supports table. The table keeps the
// full history of follow toggles and tier changes per (supporter, creator)
// pair, so several rows may exist for the same pair. Following is stored
// as nullable text by the backend ("true"/"false" or null).
type SupportRow struct {
	ID            uuid.UUID `json:"id"`
	SupporterID   uuid.UUID `json:"supporter_id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	SupporterName *string   `json:"supporter_name"`
	CreatorName   *string   `json:"creator_name"`
	Tier          *Tier     `json:"tier"`
	Following     *string   `json:"following"`
	CreatedAt     time.Time `json:"created_at"`
}

// SupportRecord is the reduced view of a pair's row history: the latest
// following value and the most recent non-null tier. A nil Following means
// the state is unknown; a nil Tier means no known paid tier.
type SupportRecord struct {
	Tier      *Tier     `json:"tier"`
	Following *bool     `json:"following"`
	CreatedAt time.Time `json:"created_at"`
}

type SupportEventKind string

const (
	SupportEventInsert SupportEventKind = "INSERT"
	SupportEventUpdate SupportEventKind = "UPDATE"
	SupportEventDelete SupportEventKind = "DELETE"
)

// SupportEvent is a change-feed notification for the supports table.
// NewRow is set for inserts and updates, OldRow for deletes.
type SupportEvent struct {
	Kind   SupportEventKind `json:"kind"`
	NewRow *SupportRow      `json:"new_row,omitempty"`
	OldRow *SupportRow      `json:"old_row,omitempty"`
}

// Row returns the row the event is about, regardless of kind.
func (e SupportEvent) Row() *SupportRow {
	if e.Kind == SupportEventDelete {
		return e.OldRow
	}
	return e.NewRow
}
