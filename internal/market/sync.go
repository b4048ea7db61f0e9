package market

import (
	"context"
	"fmt"

	"watchsync/internal/batch"
	"watchsync/internal/inventory"
)

// Summary reports what one campaign sync pushed to the marketplace.
type Summary struct {
	Offers  int
	Stocks  int
	NonZero int
	Prices  int
}

// Sync runs one full reconciliation for a campaign: fetch its catalog,
// push stock updates for its warehouse, then push price updates, each in
// size-bounded batches. A failed batch aborts the run; earlier batches
// stay applied server-side.
func (c *Client) Sync(ctx context.Context, campaign Campaign, remnants []inventory.Remnant) (Summary, error) {
	var summary Summary

	offerIDs, err := c.OfferIDs(ctx, campaign.ID)
	if err != nil {
		return summary, fmt.Errorf("fetching offer ids: %w", err)
	}
	summary.Offers = len(offerIDs)

	stocks, err := BuildStocks(remnants, offerIDs, campaign.WarehouseID, c.now())
	if err != nil {
		return summary, err
	}
	for _, part := range batch.Chunk(stocks, MaxStocksPerRequest) {
		if err := c.UpdateStocks(ctx, campaign.ID, part); err != nil {
			return summary, fmt.Errorf("updating stocks: %w", err)
		}
		summary.Stocks += len(part)
	}
	for _, stock := range stocks {
		if len(stock.Items) > 0 && stock.Items[0].Count != 0 {
			summary.NonZero++
		}
	}
	c.logger.Info().Str("campaign", campaign.ID).Int("stocks", summary.Stocks).Int("non_zero", summary.NonZero).Msg("campaign stocks updated")

	prices, err := BuildPrices(remnants, offerIDs)
	if err != nil {
		return summary, err
	}
	for _, part := range batch.Chunk(prices, MaxPricesPerRequest) {
		if err := c.UpdatePrices(ctx, campaign.ID, part); err != nil {
			return summary, fmt.Errorf("updating prices: %w", err)
		}
		summary.Prices += len(part)
	}
	c.logger.Info().Str("campaign", campaign.ID).Int("prices", summary.Prices).Msg("campaign prices updated")

	return summary, nil
}
