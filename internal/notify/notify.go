// Package notify delivers detected opportunities to a channel.
package notify

import (
	"context"
	"log"

	"github.com/arnaudp/vintedflip/internal/model"
	"github.com/arnaudp/vintedflip/internal/recommend"
)

// Notifier announces one opportunity. It returns the channel message id
// so the caller can record the broadcast.
type Notifier interface {
	NotifyOpportunity(ctx context.Context, item model.EnrichedItem, rec recommend.Recommendation) (int, error)
	Available() bool
}

// LogNotifier writes opportunities to the process log instead of a
// channel. Used for dry runs.
type LogNotifier struct{}

func (LogNotifier) Available() bool { return true }

func (LogNotifier) NotifyOpportunity(_ context.Context, item model.EnrichedItem, rec recommend.Recommendation) (int, error) {
	log.Printf("opportunity: %s at %.2f€ (market %.2f€, -%.1f%%, profit %.2f€) resell on %s for %.2f€ net | %s",
		item.Title, item.Price, item.MarketPrice, item.DiscountPercent,
		item.ProfitPotential, rec.BestPlatform, rec.BestProfit, item.URL)
	return 0, nil
}
