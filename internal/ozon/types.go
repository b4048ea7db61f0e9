package ozon

// StockUpdate is one entry of the /v1/product/import/stocks payload.
type StockUpdate struct {
	OfferID string `json:"offer_id"`
	Stock   int    `json:"stock"`
}

// PriceUpdate is one entry of the /v1/product/import/prices payload.
type PriceUpdate struct {
	AutoActionEnabled string `json:"auto_action_enabled"`
	CurrencyCode      string `json:"currency_code"`
	OfferID           string `json:"offer_id"`
	OldPrice          string `json:"old_price"`
	Price             string `json:"price"`
}

// Product is a catalog entry; only the offer id matters for reconciliation.
type Product struct {
	OfferID string `json:"offer_id"`
}

// ProductPage is one page of the seller catalog.
type ProductPage struct {
	Items  []Product `json:"items"`
	Total  int       `json:"total"`
	LastID string    `json:"last_id"`
}

type productListRequest struct {
	Filter productFilter `json:"filter"`
	LastID string        `json:"last_id"`
	Limit  int           `json:"limit"`
}

type productFilter struct {
	Visibility string `json:"visibility"`
}

type productListResponse struct {
	Result ProductPage `json:"result"`
}

type stocksRequest struct {
	Stocks []StockUpdate `json:"stocks"`
}

type pricesRequest struct {
	Prices []PriceUpdate `json:"prices"`
}
