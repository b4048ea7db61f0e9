package market

import (
	"fmt"
	"strconv"
	"time"

	"watchsync/internal/app_errors"
	"watchsync/internal/inventory"
)

// BuildStocks reconciles supplier remnants against the known shop skus
// of one campaign. Matched remnants come first, in feed order; every
// remaining catalog sku is then zeroed, in catalog order. All items are
// stamped with the same UTC timestamp and the FIT stock type.
func BuildStocks(remnants []inventory.Remnant, offerIDs []string, warehouseID int64, now time.Time) ([]StockUpdate, error) {
	known := knownSet(offerIDs)
	updatedAt := now.UTC().Truncate(time.Second).Format(time.RFC3339)

	stocks := make([]StockUpdate, 0, len(offerIDs))
	for _, watch := range remnants {
		if !known[watch.Code] {
			continue
		}
		count, err := watch.StockCount()
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, stockUpdate(watch.Code, count, warehouseID, updatedAt))
		delete(known, watch.Code)
	}

	for _, offerID := range offerIDs {
		if known[offerID] {
			stocks = append(stocks, stockUpdate(offerID, 0, warehouseID, updatedAt))
		}
	}
	return stocks, nil
}

func stockUpdate(sku string, count int, warehouseID int64, updatedAt string) StockUpdate {
	return StockUpdate{
		SKU:         sku,
		WarehouseID: warehouseID,
		Items: []StockItem{{
			Count:     count,
			Type:      "FIT",
			UpdatedAt: updatedAt,
		}},
	}
}

// BuildPrices emits a rouble price update for every remnant listed in
// the campaign. Remnants without a matching sku are dropped; catalog
// skus without a remnant keep their current price.
func BuildPrices(remnants []inventory.Remnant, offerIDs []string) ([]PriceUpdate, error) {
	known := knownSet(offerIDs)

	var prices []PriceUpdate
	for _, watch := range remnants {
		if !known[watch.Code] {
			continue
		}
		value, err := strconv.Atoi(inventory.NormalizePrice(watch.Price))
		if err != nil {
			return nil, fmt.Errorf("%w: price %q for code %q", app_errors.ErrBadData, watch.Price, watch.Code)
		}
		prices = append(prices, PriceUpdate{
			ID: watch.Code,
			Price: PriceValue{
				Value:      value,
				CurrencyID: "RUR",
			},
		})
	}
	return prices, nil
}

func knownSet(offerIDs []string) map[string]bool {
	known := make(map[string]bool, len(offerIDs))
	for _, offerID := range offerIDs {
		known[offerID] = true
	}
	return known
}
