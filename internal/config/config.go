// Package config loads runtime settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/arnaudp/vintedflip/internal/analysis"
)

// Config holds everything the process reads from its environment.
type Config struct {
	TelegramBotToken  string
	TelegramChannelID string
	DatabaseURL       string

	MaxPrice           float64
	MinDiscountPercent float64
	MinProfit          float64
	FilterProfile      string

	CheckInterval  time.Duration
	SearchKeywords []string
	PerPage        int
}

// Load reads the .env file when present and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using system env vars")
	}

	profile := strings.ToLower(getEnv("FILTER_PROFILE", "aggressive"))
	preset := presetFor(profile)

	return &Config{
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChannelID: getEnv("TELEGRAM_CHANNEL_ID", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),

		MaxPrice:           getEnvFloat("MAX_PRICE", 50),
		MinDiscountPercent: getEnvFloat("MIN_DISCOUNT_PERCENT", preset.MinDiscount),
		MinProfit:          getEnvFloat("MIN_PROFIT", preset.MinProfit),
		FilterProfile:      profile,

		CheckInterval:  time.Duration(getEnvInt("CHECK_INTERVAL_MINUTES", 15)) * time.Minute,
		SearchKeywords: getEnvList("VINTED_SEARCH_KEYWORDS", []string{"nike", "adidas", "jordan"}),
		PerPage:        getEnvInt("VINTED_PER_PAGE", 50),
	}
}

// Profile returns the opportunity thresholds in effect: the named
// preset, with any explicit MIN_* overrides already folded in.
func (c *Config) Profile() analysis.Profile {
	return analysis.Profile{
		MinProfit:   c.MinProfit,
		MinDiscount: c.MinDiscountPercent,
	}
}

func presetFor(name string) analysis.Profile {
	if name == "baseline" {
		return analysis.BaselineProfile()
	}
	return analysis.AggressiveProfile()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
