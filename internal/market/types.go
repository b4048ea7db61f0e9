package market

// Campaign is one Yandex Market sales channel with its own catalog and
// warehouse.
type Campaign struct {
	ID          string
	WarehouseID int64
}

// StockItem carries the count for one sku at one warehouse.
type StockItem struct {
	Count     int    `json:"count"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
}

// StockUpdate is one entry of the offers/stocks payload.
type StockUpdate struct {
	SKU         string      `json:"sku"`
	WarehouseID int64       `json:"warehouseId"`
	Items       []StockItem `json:"items"`
}

// PriceValue is a price with its currency.
type PriceValue struct {
	Value      int    `json:"value"`
	CurrencyID string `json:"currencyId"`
}

// PriceUpdate is one entry of the offer-prices/updates payload.
type PriceUpdate struct {
	ID    string     `json:"id"`
	Price PriceValue `json:"price"`
}

// Offer is a campaign catalog entry; only the shop sku matters for
// reconciliation.
type Offer struct {
	ShopSKU string `json:"shopSku"`
}

// MappingEntry is one offer-mapping entry of the campaign catalog.
type MappingEntry struct {
	Offer Offer `json:"offer"`
}

// Paging carries the cursor to the next catalog page; an empty token
// means the last page.
type Paging struct {
	NextPageToken string `json:"nextPageToken"`
}

// MappingPage is one page of the campaign catalog.
type MappingPage struct {
	Entries []MappingEntry `json:"offerMappingEntries"`
	Paging  Paging         `json:"paging"`
}

type mappingResponse struct {
	Result MappingPage `json:"result"`
}

type stocksRequest struct {
	SKUs []StockUpdate `json:"skus"`
}

type pricesRequest struct {
	Offers []PriceUpdate `json:"offers"`
}
