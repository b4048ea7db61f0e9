package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"watchsync/internal/app_errors"
	"watchsync/internal/config"
	"watchsync/internal/inventory"
	"watchsync/internal/ozon"
	"watchsync/internal/telegram"
)

func main() {
	setupEnvironment()

	cfg := config.Load()
	if cfg.OzonClientID == "" || cfg.OzonSellerToken == "" {
		log.Fatal().Msg("CLIENT_ID and SELLER_TOKEN environment variables are required")
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

	client := ozon.NewClient(cfg.OzonClientID, cfg.OzonSellerToken,
		ozon.WithHTTPClient(httpClient),
		ozon.WithLogger(log.Logger),
	)

	summary, err := client.Sync(ctx, remnants)
	if err != nil {
		return err
	}

	log.Info().
		Int("offers", summary.Offers).
		Int("stocks", summary.Stocks).
		Int("non_zero", summary.NonZero).
		Int("prices", summary.Prices).
		Msg("ozon sync complete")

	report(cfg, fmt.Sprintf("Ozon sync: %d stock updates (%d in stock), %d price updates across %d offers",
		summary.Stocks, summary.NonZero, summary.Prices, summary.Offers))
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
