package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"watchsync/internal/app_errors"
	"watchsync/internal/config"
	"watchsync/internal/inventory"
	"watchsync/internal/market"
	"watchsync/internal/telegram"
)

func main() {
	setupEnvironment()

	cfg := config.Load()
	if cfg.MarketToken == "" {
		log.Fatal().Msg("MARKET_TOKEN environment variable is required")
	}
	if cfg.CampaignFBSID == "" || cfg.CampaignDBSID == "" {
		log.Fatal().Msg("FBS_ID and DBS_ID environment variables are required")
	}

	if err := run(context.Background(), cfg); err != nil {
		switch app_errors.KindOf(err) {
		case app_errors.KindTimeout:
			log.Error().Err(err).Msg("timed out waiting for a marketplace response")
		case app_errors.KindConnection:
			log.Error().Err(err).Msg("connection error")
		default:
			log.Error().Err(err).Msg("sync failed")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	remnants, err := inventory.NewClient(httpClient, cfg.StockURL, "").Download(ctx)
	if err != nil {
		return fmt.Errorf("downloading remnants: %w", err)
	}
	log.Info().Int("remnants", len(remnants)).Msg("downloaded supplier feed")

	client := market.NewClient(cfg.MarketToken,
		market.WithHTTPClient(httpClient),
		market.WithLogger(log.Logger),
	)

	campaigns := map[string]market.Campaign{
		"FBS": {ID: cfg.CampaignFBSID, WarehouseID: cfg.WarehouseFBSID},
		"DBS": {ID: cfg.CampaignDBSID, WarehouseID: cfg.WarehouseDBSID},
	}

	var lines []string
	for _, channel := range []string{"FBS", "DBS"} {
		campaign := campaigns[channel]

		summary, err := client.Sync(ctx, campaign, remnants)
		if err != nil {
			return fmt.Errorf("%s campaign: %w", channel, err)
		}

		log.Info().
			Str("channel", channel).
			Int("offers", summary.Offers).
			Int("stocks", summary.Stocks).
			Int("non_zero", summary.NonZero).
			Int("prices", summary.Prices).
			Msg("campaign sync complete")

		lines = append(lines, fmt.Sprintf("%s: %d stock updates (%d in stock), %d price updates",
			channel, summary.Stocks, summary.NonZero, summary.Prices))
	}

	report(cfg, "Yandex Market sync\n"+strings.Join(lines, "\n"))
	return nil
}

// report delivers the run summary to Telegram when a bot is configured.
// Reporting failures are logged, never fatal.
func report(cfg config.Config, text string) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		return
	}

	notifier, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Warn().Err(err).Msg("telegram notifier unavailable")
		return
	}
	if err := notifier.SendReport(text); err != nil {
		log.Warn().Err(err).Msg("sending telegram report")
	}
}
