package ozon

import (
	"context"
	"fmt"

	"watchsync/internal/batch"
	"watchsync/internal/inventory"
)

// Summary reports what one sync run pushed to the marketplace.
type Summary struct {
	Offers  int
	Stocks  int
	NonZero int
	Prices  int
}

// Sync runs one full reconciliation: fetch the catalog, push stock
// updates, then push price updates, each in size-bounded batches. A
// failed batch aborts the run; earlier batches stay applied server-side.
func (c *Client) Sync(ctx context.Context, remnants []inventory.Remnant) (Summary, error) {
	var summary Summary

	offerIDs, err := c.OfferIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetching offer ids: %w", err)
	}
	summary.Offers = len(offerIDs)

	stocks, err := BuildStocks(remnants, offerIDs)
	if err != nil {
		return summary, err
	}
	for _, part := range batch.Chunk(stocks, MaxStocksPerRequest) {
		if err := c.UpdateStocks(ctx, part); err != nil {
			return summary, fmt.Errorf("updating stocks: %w", err)
		}
		summary.Stocks += len(part)
	}
	for _, stock := range stocks {
		if stock.Stock != 0 {
			summary.NonZero++
		}
	}
	c.logger.Info().Int("stocks", summary.Stocks).Int("non_zero", summary.NonZero).Msg("ozon stocks updated")

	prices := BuildPrices(remnants, offerIDs)
	for _, part := range batch.Chunk(prices, MaxPricesPerRequest) {
		if err := c.UpdatePrices(ctx, part); err != nil {
			return summary, fmt.Errorf("updating prices: %w", err)
		}
		summary.Prices += len(part)
	}
	c.logger.Info().Int("prices", summary.Prices).Msg("ozon prices updated")

	return summary, nil
}
