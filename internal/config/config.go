package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	RequestTimeout = 100 * time.Second
)

// Config carries all credentials and identifiers for one sync run.
type Config struct {
	// Ozon seller API.
	OzonClientID    string
	OzonSellerToken string

	// Yandex Market partner API. FBS and DBS are the two sales
	// channels, each a campaign with its own warehouse.
	MarketToken    string
	CampaignFBSID  string
	CampaignDBSID  string
	WarehouseFBSID int64
	WarehouseDBSID int64

	// Supplier remnants feed; empty selects the default URL.
	StockURL string

	RequestTimeout time.Duration

	// Optional run report channel.
	TelegramToken  string
	TelegramChatID int64
}

// Load reads the configuration from environment variables.
func Load() Config {
	return Config{
		OzonClientID:    getEnvString("CLIENT_ID", ""),
		OzonSellerToken: getEnvString("SELLER_TOKEN", ""),
		MarketToken:     getEnvString("MARKET_TOKEN", ""),
		CampaignFBSID:   getEnvString("FBS_ID", ""),
		CampaignDBSID:   getEnvString("DBS_ID", ""),
		WarehouseFBSID:  getEnvInt64("WAREHOUSE_FBS_ID", 0),
		WarehouseDBSID:  getEnvInt64("WAREHOUSE_DBS_ID", 0),
		StockURL:        getEnvString("STOCK_URL", ""),
		RequestTimeout:  time.Duration(getEnvInt64("REQUEST_TIMEOUT_SEC", int64(RequestTimeout.Seconds()))) * time.Second,
		TelegramToken:   getEnvString("TELEGRAM_TOKEN", ""),
		TelegramChatID:  getEnvInt64("TELEGRAM_CHAT_ID", 0),
	}
}

// Вспомогательные функции для получения переменных окружения
func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid value for %s: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}

	return intValue
}
