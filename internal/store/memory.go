package store

import (
	"sort"
	"sync"
	"time"

	"github.com/arnaudp/vintedflip/internal/model"
)

// Memory is an in-process Store used for dry runs and tests. Nothing
// survives a restart.
type Memory struct {
	mu         sync.Mutex
	items      map[string]model.EnrichedItem
	finds      []memoryFind
	broadcasts []memoryBroadcast
}

type memoryFind struct {
	itemID  string
	keyword string
	foundAt time.Time
}

type memoryBroadcast struct {
	itemID    string
	channelID string
	messageID int
	sentAt    time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]model.EnrichedItem)}
}

func (m *Memory) Migrate() error { return nil }

func (m *Memory) InsertTrackedItem(item model.EnrichedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[item.ID]; !exists {
		m.items[item.ID] = item
	}
	return nil
}

func (m *Memory) ItemExists(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.items[id]
	return exists, nil
}

func (m *Memory) LogFoundItem(item model.EnrichedItem, keyword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds = append(m.finds, memoryFind{itemID: item.ID, keyword: keyword, foundAt: time.Now()})
	return nil
}

func (m *Memory) RecentItems(since time.Time, limit int) ([]model.EnrichedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []model.EnrichedItem
	for _, it := range m.items {
		if !it.ObservedAt.Before(since) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ObservedAt.After(items[j].ObservedAt)
	})
	return clip(items, limit), nil
}

func (m *Memory) ItemsByProfit(minProfit float64, limit int) ([]model.EnrichedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []model.EnrichedItem
	for _, it := range m.items {
		if it.ProfitPotential >= minProfit {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProfitPotential > items[j].ProfitPotential
	})
	return clip(items, limit), nil
}

func (m *Memory) RecordBroadcast(itemID, channelID string, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcasts = append(m.broadcasts, memoryBroadcast{
		itemID:    itemID,
		channelID: channelID,
		messageID: messageID,
		sentAt:    time.Now(),
	})
	return nil
}

func (m *Memory) Stats() (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		TrackedItems: len(m.items),
		LoggedFinds:  len(m.finds),
		Broadcasts:   len(m.broadcasts),
	}
	if len(m.items) > 0 {
		var total float64
		for _, it := range m.items {
			total += it.ProfitPotential
		}
		s.AvgProfit = total / float64(len(m.items))
	}
	return s, nil
}

func (m *Memory) Close() error { return nil }

func clip(items []model.EnrichedItem, limit int) []model.EnrichedItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
