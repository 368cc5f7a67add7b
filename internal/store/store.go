// Package store persists tracked items, per-keyword find history and
// broadcast receipts.
package store

import (
	"time"

	"github.com/arnaudp/vintedflip/internal/model"
)

// Stats summarizes what the store holds.
type Stats struct {
	TrackedItems int
	LoggedFinds  int
	Broadcasts   int
	AvgProfit    float64
}

// Store is the persistence surface the delivery loop drives. ItemExists
// is consulted before InsertTrackedItem so an item found in an earlier
// process lifetime is not announced again.
type Store interface {
	Migrate() error
	InsertTrackedItem(item model.EnrichedItem) error
	ItemExists(id string) (bool, error)
	LogFoundItem(item model.EnrichedItem, keyword string) error
	RecentItems(since time.Time, limit int) ([]model.EnrichedItem, error)
	ItemsByProfit(minProfit float64, limit int) ([]model.EnrichedItem, error)
	RecordBroadcast(itemID, channelID string, messageID int) error
	Stats() (Stats, error)
	Close() error
}
