// Command vintedflip sweeps second-hand catalog searches on a schedule,
// scores each listing against an estimated market value and announces
// profitable finds to a channel.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/arnaudp/vintedflip/internal/analysis"
	"github.com/arnaudp/vintedflip/internal/config"
	"github.com/arnaudp/vintedflip/internal/dedup"
	"github.com/arnaudp/vintedflip/internal/notify"
	"github.com/arnaudp/vintedflip/internal/pipeline"
	"github.com/arnaudp/vintedflip/internal/recommend"
	"github.com/arnaudp/vintedflip/internal/store"
	"github.com/arnaudp/vintedflip/internal/vinted"
)

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	dryRun := flag.Bool("dry-run", false, "log opportunities instead of broadcasting, skip the database")
	flag.Parse()

	cfg := config.Load()

	app, err := buildApp(cfg, *dryRun)
	if err != nil {
		log.Fatalf("vintedflip: %v", err)
	}
	defer app.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		app.sweep(ctx)
		app.logStats()
		return
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.CheckInterval), func() {
		app.sweep(ctx)
	}); err != nil {
		log.Fatalf("vintedflip: schedule sweep: %v", err)
	}

	log.Printf("vintedflip: sweeping %v every %s", cfg.SearchKeywords, cfg.CheckInterval)
	app.sweep(ctx)
	scheduler.Start()

	<-ctx.Done()
	log.Println("vintedflip: shutting down")
	<-scheduler.Stop().Done()
	app.logStats()
}

// app wires the sweep pipeline to delivery and persistence.
type app struct {
	cfg          *config.Config
	orchestrator *pipeline.Orchestrator
	seen         *dedup.SeenSet
	store        store.Store
	notifier     notify.Notifier
	telegram     *notify.Telegram
}

func buildApp(cfg *config.Config, dryRun bool) (*app, error) {
	a := &app{
		cfg:  cfg,
		seen: dedup.NewSeenSet(),
	}

	tg := notify.NewTelegram(notify.TelegramConfig{
		Token:     cfg.TelegramBotToken,
		ChannelID: cfg.TelegramChannelID,
	})
	if dryRun {
		tg.Stop()
		a.notifier = notify.LogNotifier{}
	} else {
		if !tg.Available() {
			tg.Stop()
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHANNEL_ID must be set (or run with -dry-run)")
		}
		a.notifier = tg
		a.telegram = tg
	}

	if dryRun || cfg.DatabaseURL == "" {
		if !dryRun {
			log.Println("vintedflip: DATABASE_URL not set, using in-memory store")
		}
		a.store = store.NewMemory()
	} else {
		pg, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			tg.Stop()
			return nil, fmt.Errorf("connect store: %w", err)
		}
		if err := pg.Migrate(); err != nil {
			tg.Stop()
			pg.Close()
			return nil, fmt.Errorf("migrate store: %w", err)
		}
		a.store = pg
	}

	client := vinted.NewClient(vinted.Config{})
	normalizer := pipeline.NewNormalizer(analysis.DefaultConfig())
	a.orchestrator = pipeline.NewOrchestrator(client, normalizer, pipeline.Options{
		MaxPrice: cfg.MaxPrice,
		PerPage:  cfg.PerPage,
		Profile:  cfg.Profile(),
	})

	return a, nil
}

// sweep runs one pass over every configured keyword and delivers the
// opportunities it has not announced before.
func (a *app) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	result := a.orchestrator.SearchMany(ctx, a.cfg.SearchKeywords)
	log.Printf("vintedflip: sweep surfaced %d opportunities across %d keywords",
		len(result.Items), len(result.Outcomes))

	delivered := 0
	for keyword, items := range result.ItemsByKeyword {
		for _, item := range items {
			if !a.seen.ShouldDeliver(item.ID) {
				continue
			}

			exists, err := a.store.ItemExists(item.ID)
			if err != nil {
				log.Printf("vintedflip: check item %s: %v", item.ID, err)
				continue
			}
			if exists {
				a.seen.MarkDelivered(item.ID)
				continue
			}

			if err := a.store.InsertTrackedItem(item); err != nil {
				log.Printf("vintedflip: track item %s: %v", item.ID, err)
				continue
			}
			if err := a.store.LogFoundItem(item, keyword); err != nil {
				log.Printf("vintedflip: log find %s: %v", item.ID, err)
			}

			rec := recommend.Recommend(item)
			msgID, err := a.notifier.NotifyOpportunity(ctx, item, rec)
			if err != nil {
				log.Printf("vintedflip: notify %s: %v", item.ID, err)
				continue
			}
			if msgID != 0 {
				if err := a.store.RecordBroadcast(item.ID, a.cfg.TelegramChannelID, msgID); err != nil {
					log.Printf("vintedflip: record broadcast %s: %v", item.ID, err)
				}
			}

			a.seen.MarkDelivered(item.ID)
			delivered++
		}
	}

	log.Printf("vintedflip: sweep delivered %d opportunities", delivered)
}

func (a *app) logStats() {
	stats, err := a.store.Stats()
	if err != nil {
		log.Printf("vintedflip: stats: %v", err)
		return
	}
	log.Printf("vintedflip: %d tracked items, %d finds logged, %d broadcasts, avg profit %.2f€",
		stats.TrackedItems, stats.LoggedFinds, stats.Broadcasts, stats.AvgProfit)
}

func (a *app) close() {
	if a.telegram != nil {
		a.telegram.Stop()
	}
	if err := a.store.Close(); err != nil {
		log.Printf("vintedflip: close store: %v", err)
	}
}
