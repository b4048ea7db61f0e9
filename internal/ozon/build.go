package ozon

import (
	"watchsync/internal/inventory"
)

// BuildStocks reconciles supplier remnants against the known offer ids.
// Remnants listed on the marketplace come first, in feed order; every
// remaining catalog id is then zeroed, in catalog order, so delisted
// items read as out of stock.
func BuildStocks(remnants []inventory.Remnant, offerIDs []string) ([]StockUpdate, error) {
	known := knownSet(offerIDs)

	stocks := make([]StockUpdate, 0, len(offerIDs))
	for _, watch := range remnants {
		if !known[watch.Code] {
			continue
		}
		count, err := watch.StockCount()
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, StockUpdate{OfferID: watch.Code, Stock: count})
		delete(known, watch.Code)
	}

	for _, offerID := range offerIDs {
		if known[offerID] {
			stocks = append(stocks, StockUpdate{OfferID: offerID, Stock: 0})
		}
	}
	return stocks, nil
}

// BuildPrices emits a price update for every remnant listed on the
// marketplace. Remnants without a matching offer id are dropped; catalog
// ids without a remnant keep their current price.
func BuildPrices(remnants []inventory.Remnant, offerIDs []string) []PriceUpdate {
	known := knownSet(offerIDs)

	var prices []PriceUpdate
	for _, watch := range remnants {
		if !known[watch.Code] {
			continue
		}
		prices = append(prices, PriceUpdate{
			AutoActionEnabled: "UNKNOWN",
			CurrencyCode:      "RUB",
			OfferID:           watch.Code,
			OldPrice:          "0",
			Price:             inventory.NormalizePrice(watch.Price),
		})
	}
	return prices
}

func knownSet(offerIDs []string) map[string]bool {
	known := make(map[string]bool, len(offerIDs))
	for _, offerID := range offerIDs {
		known[offerID] = true
	}
	return known
}
