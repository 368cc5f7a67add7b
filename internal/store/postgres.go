package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/arnaudp/vintedflip/internal/model"
)

// Postgres implements Store on top of PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects, bounds the pool and pings before returning.
func OpenPostgres(connStr string) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Migrate creates the schema when missing.
func (p *Postgres) Migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracked_items (
		item_id          TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		price            NUMERIC(10,2) NOT NULL,
		brand            TEXT,
		size             TEXT,
		condition        TEXT,
		seller           TEXT,
		seller_rating    NUMERIC(5,2) DEFAULT 0,
		image_url        TEXT,
		url              TEXT,
		category         TEXT,
		market_price     NUMERIC(10,2) DEFAULT 0,
		discount_percent NUMERIC(5,1) DEFAULT 0,
		profit_potential NUMERIC(10,2) DEFAULT 0,
		observed_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS found_items_log (
		id               SERIAL PRIMARY KEY,
		item_id          TEXT NOT NULL,
		keyword          TEXT NOT NULL,
		price            NUMERIC(10,2) NOT NULL,
		profit_potential NUMERIC(10,2) DEFAULT 0,
		found_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS channel_broadcasts (
		id         SERIAL PRIMARY KEY,
		item_id    TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		message_id BIGINT NOT NULL,
		sent_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_tracked_items_profit   ON tracked_items (profit_potential);
	CREATE INDEX IF NOT EXISTS idx_tracked_items_observed ON tracked_items (observed_at);
	CREATE INDEX IF NOT EXISTS idx_found_items_keyword    ON found_items_log (keyword);
	`
	if _, err := p.db.Exec(query); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Printf("store: schema ready")
	return nil
}

func (p *Postgres) InsertTrackedItem(item model.EnrichedItem) error {
	_, err := p.db.Exec(`
		INSERT INTO tracked_items (
			item_id, title, price, brand, size, condition, seller,
			seller_rating, image_url, url, category, market_price,
			discount_percent, profit_potential, observed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (item_id) DO NOTHING`,
		item.ID, item.Title, item.Price, item.Brand, item.Size,
		item.Condition, item.Seller, item.SellerRating, item.ImageURL,
		item.URL, string(item.Category), item.MarketPrice,
		item.DiscountPercent, item.ProfitPotential, item.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tracked item %s: %w", item.ID, err)
	}
	return nil
}

func (p *Postgres) ItemExists(id string) (bool, error) {
	var exists bool
	err := p.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM tracked_items WHERE item_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item %s: %w", id, err)
	}
	return exists, nil
}

func (p *Postgres) LogFoundItem(item model.EnrichedItem, keyword string) error {
	_, err := p.db.Exec(`
		INSERT INTO found_items_log (item_id, keyword, price, profit_potential)
		VALUES ($1, $2, $3, $4)`,
		item.ID, keyword, item.Price, item.ProfitPotential,
	)
	if err != nil {
		return fmt.Errorf("log found item %s: %w", item.ID, err)
	}
	return nil
}

func (p *Postgres) RecentItems(since time.Time, limit int) ([]model.EnrichedItem, error) {
	rows, err := p.db.Query(
		selectItems+` WHERE observed_at >= $1 ORDER BY observed_at DESC LIMIT $2`,
		since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent items: %w", err)
	}
	return scanItems(rows)
}

func (p *Postgres) ItemsByProfit(minProfit float64, limit int) ([]model.EnrichedItem, error) {
	rows, err := p.db.Query(
		selectItems+` WHERE profit_potential >= $1 ORDER BY profit_potential DESC LIMIT $2`,
		minProfit, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query items by profit: %w", err)
	}
	return scanItems(rows)
}

func (p *Postgres) RecordBroadcast(itemID, channelID string, messageID int) error {
	_, err := p.db.Exec(`
		INSERT INTO channel_broadcasts (item_id, channel_id, message_id)
		VALUES ($1, $2, $3)`,
		itemID, channelID, messageID,
	)
	if err != nil {
		return fmt.Errorf("record broadcast for %s: %w", itemID, err)
	}
	return nil
}

func (p *Postgres) Stats() (Stats, error) {
	var s Stats
	err := p.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM tracked_items),
			(SELECT COUNT(*) FROM found_items_log),
			(SELECT COUNT(*) FROM channel_broadcasts),
			(SELECT COALESCE(AVG(profit_potential), 0) FROM tracked_items)
	`).Scan(&s.TrackedItems, &s.LoggedFinds, &s.Broadcasts, &s.AvgProfit)
	if err != nil {
		return Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	return s, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

const selectItems = `
	SELECT item_id, title, price, brand, size, condition, seller,
	       seller_rating, image_url, url, category, market_price,
	       discount_percent, profit_potential, observed_at
	FROM tracked_items`

func scanItems(rows *sql.Rows) ([]model.EnrichedItem, error) {
	defer rows.Close()

	var items []model.EnrichedItem
	for rows.Next() {
		var it model.EnrichedItem
		var category string
		if err := rows.Scan(
			&it.ID, &it.Title, &it.Price, &it.Brand, &it.Size,
			&it.Condition, &it.Seller, &it.SellerRating, &it.ImageURL,
			&it.URL, &category, &it.MarketPrice, &it.DiscountPercent,
			&it.ProfitPotential, &it.ObservedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tracked item: %w", err)
		}
		it.Category = model.Category(category)
		items = append(items, it)
	}
	return items, rows.Err()
}
