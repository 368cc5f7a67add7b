package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arnaudp/vintedflip/internal/model"
	"github.com/arnaudp/vintedflip/internal/ratelimit"
	"github.com/arnaudp/vintedflip/internal/recommend"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramConfig configures the channel notifier. BaseURL is overridden
// in tests.
type TelegramConfig struct {
	Token     string
	ChannelID string
	BaseURL   string
	Timeout   time.Duration
}

// Telegram posts opportunity cards to a channel through the Bot API.
// Sends are paced through a delivery limiter so a large sweep cannot
// trip the API's flood control.
type Telegram struct {
	token     string
	channelID string
	baseURL   string
	http      *http.Client
	limiter   *ratelimit.Limiter
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = telegramAPIBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Telegram{
		token:     cfg.Token,
		channelID: cfg.ChannelID,
		baseURL:   cfg.BaseURL,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   ratelimit.NewDeliveryLimiter(),
	}
}

// Available reports whether the notifier has credentials to send with.
func (t *Telegram) Available() bool {
	return t.token != "" && t.channelID != ""
}

// NotifyOpportunity sends the item as a photo card when it has an
// image, plain text otherwise.
func (t *Telegram) NotifyOpportunity(ctx context.Context, item model.EnrichedItem, rec recommend.Recommendation) (int, error) {
	if !t.Available() {
		return 0, fmt.Errorf("telegram notifier not configured")
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("wait for delivery slot: %w", err)
	}

	caption := buildCaption(item, rec)

	params := url.Values{}
	params.Set("chat_id", t.channelID)

	method := "sendMessage"
	if item.ImageURL != "" {
		method = "sendPhoto"
		params.Set("photo", item.ImageURL)
		params.Set("caption", caption)
	} else {
		params.Set("text", caption)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", t.baseURL, t.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send %s: %w", method, err)
	}
	defer resp.Body.Close()

	var body struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int `json:"message_id"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !body.OK {
		return 0, fmt.Errorf("%s rejected: %s (http %d)", method, body.Description, resp.StatusCode)
	}
	return body.Result.MessageID, nil
}

// Stop releases the delivery limiter.
func (t *Telegram) Stop() {
	t.limiter.Stop()
}

func buildCaption(item model.EnrichedItem, rec recommend.Recommendation) string {
	var b strings.Builder

	b.WriteString("🔥 Bonne affaire détectée !\n\n")
	b.WriteString("👕 " + item.Title + "\n")
	b.WriteString("💰 Prix: " + euros(item.Price) + "\n")
	b.WriteString("📈 Valeur estimée: " + euros(item.MarketPrice) + "\n")
	b.WriteString("💸 Réduction: " + strconv.FormatFloat(item.DiscountPercent, 'f', 1, 64) + "%\n")
	b.WriteString("📊 Profit potentiel: " + euros(item.ProfitPotential) + "\n")
	b.WriteString("🏷 Marque: " + item.Brand + "\n")
	b.WriteString("📏 Taille: " + item.Size + "\n")
	b.WriteString("✨ État: " + item.Condition + "\n")
	if rec.BestPlatform != "" {
		b.WriteString("🔁 Revente conseillée: " + rec.BestPlatform +
			" (" + euros(rec.BestProfit) + " de profit)\n")
	}
	b.WriteString("\n🔗 " + item.URL)

	return b.String()
}

func euros(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "€"
}
