package ozon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"watchsync/internal/app_errors"
	"watchsync/internal/inventory"
)

func TestOfferIDs(t *testing.T) {
	t.Run("paginates until the reported total is reached", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v2/product/list" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/v2/product/list")
			}
			if r.Header.Get("Client-Id") != "client-1" {
				t.Errorf("Client-Id = %q, want %q", r.Header.Get("Client-Id"), "client-1")
			}
			if r.Header.Get("Api-Key") != "secret" {
				t.Errorf("Api-Key = %q, want %q", r.Header.Get("Api-Key"), "secret")
			}

			var req struct {
				LastID string `json:"last_id"`
				Limit  int    `json:"limit"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decoding request: %v", err)
			}
			if req.Limit != 1000 {
				t.Errorf("limit = %d, want 1000", req.Limit)
			}

			switch atomic.AddInt32(&requests, 1) {
			case 1:
				if req.LastID != "" {
					t.Errorf("first page last_id = %q, want empty", req.LastID)
				}
				json.NewEncoder(w).Encode(productListResponse{Result: ProductPage{
					Items:  []Product{{OfferID: "A"}, {OfferID: "B"}},
					Total:  3,
					LastID: "cursor-2",
				}})
			case 2:
				if req.LastID != "cursor-2" {
					t.Errorf("second page last_id = %q, want %q", req.LastID, "cursor-2")
				}
				json.NewEncoder(w).Encode(productListResponse{Result: ProductPage{
					Items:  []Product{{OfferID: "C"}},
					Total:  3,
					LastID: "cursor-3",
				}})
			default:
				t.Error("unexpected extra page request")
			}
		}))
		defer server.Close()

		c := NewClient("client-1", "secret", WithBaseURL(server.URL))
		offerIDs, err := c.OfferIDs(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []string{"A", "B", "C"}; !reflect.DeepEqual(offerIDs, want) {
			t.Errorf("offerIDs = %v, want %v", offerIDs, want)
		}
		if requests != 2 {
			t.Errorf("requests = %d, want 2", requests)
		}
	})

	t.Run("single page equal to total terminates immediately", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(productListResponse{Result: ProductPage{
				Items: []Product{{OfferID: "A"}},
				Total: 1,
			}})
		}))
		defer server.Close()

		c := NewClient("id", "key", WithBaseURL(server.URL))
		offerIDs, err := c.OfferIDs(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(offerIDs) != 1 {
			t.Errorf("len(offerIDs) = %d, want 1", len(offerIDs))
		}
	})

	t.Run("empty page before total is bad data, not an endless loop", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(productListResponse{Result: ProductPage{
				Items: nil,
				Total: 5,
			}})
		}))
		defer server.Close()

		c := NewClient("id", "key", WithBaseURL(server.URL))
		_, err := c.OfferIDs(context.Background())
		if !errors.Is(err, app_errors.ErrBadData) {
			t.Fatalf("expected ErrBadData, got %v", err)
		}
	})

	t.Run("page failure aborts the whole fetch", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&requests, 1) == 1 {
				json.NewEncoder(w).Encode(productListResponse{Result: ProductPage{
					Items:  []Product{{OfferID: "A"}},
					Total:  2,
					LastID: "cursor-2",
				}})
				return
			}
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		c := NewClient("id", "key", WithBaseURL(server.URL))
		_, err := c.OfferIDs(context.Background())

		var statusErr *app_errors.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusForbidden {
			t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusForbidden)
		}
	})
}

func TestUpdateStocks(t *testing.T) {
	t.Run("sends the batch as one authenticated call", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/product/import/stocks" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/v1/product/import/stocks")
			}
			if r.Method != http.MethodPost {
				t.Errorf("method = %q, want POST", r.Method)
			}

			var req stocksRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decoding request: %v", err)
			}
			want := []StockUpdate{{OfferID: "A", Stock: 4}}
			if !reflect.DeepEqual(req.Stocks, want) {
				t.Errorf("stocks payload = %v, want %v", req.Stocks, want)
			}

			w.Write([]byte(`{"result": []}`))
		}))
		defer server.Close()

		c := NewClient("id", "key", WithBaseURL(server.URL))
		if err := c.UpdateStocks(context.Background(), []StockUpdate{{OfferID: "A", Stock: 4}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-2xx propagates as status error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := NewClient("id", "key", WithBaseURL(server.URL))
		err := c.UpdateStocks(context.Background(), nil)

		var statusErr *app_errors.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
	})
}

func TestSync(t *testing.T) {
	t.Run("end to end reconciliation run", func(t *testing.T) {
		var stockBatches, priceBatches [][]json.RawMessage
		mux := http.NewServeMux()
		mux.HandleFunc("/v2/product/list", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(productListResponse{Result: ProductPage{
				Items: []Product{{OfferID: "X1"}, {OfferID: "X2"}},
				Total: 2,
			}})
		})
		mux.HandleFunc("/v1/product/import/stocks", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Stocks []json.RawMessage `json:"stocks"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			stockBatches = append(stockBatches, req.Stocks)
			w.Write([]byte(`{"result": []}`))
		})
		mux.HandleFunc("/v1/product/import/prices", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Prices []json.RawMessage `json:"prices"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			priceBatches = append(priceBatches, req.Prices)
			w.Write([]byte(`{"result": []}`))
		})

		server := httptest.NewServer(mux)
		defer server.Close()

		remnants := []inventory.Remnant{
			{Code: "X1", Quantity: ">10", Price: "1'000.00 р."},
		}

		c := NewClient("id", "key", WithBaseURL(server.URL))
		summary, err := c.Sync(context.Background(), remnants)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := Summary{Offers: 2, Stocks: 2, NonZero: 1, Prices: 1}
		if summary != want {
			t.Errorf("summary = %+v, want %+v", summary, want)
		}

		if len(stockBatches) != 1 || len(stockBatches[0]) != 2 {
			t.Fatalf("stock batches = %v, want one batch of two", stockBatches)
		}
		var first StockUpdate
		json.Unmarshal(stockBatches[0][0], &first)
		if first.OfferID != "X1" || first.Stock != 100 {
			t.Errorf("first stock = %+v, want X1 at 100", first)
		}
		var second StockUpdate
		json.Unmarshal(stockBatches[0][1], &second)
		if second.OfferID != "X2" || second.Stock != 0 {
			t.Errorf("second stock = %+v, want X2 at 0", second)
		}

		if len(priceBatches) != 1 || len(priceBatches[0]) != 1 {
			t.Fatalf("price batches = %v, want one batch of one", priceBatches)
		}
		var price PriceUpdate
		json.Unmarshal(priceBatches[0][0], &price)
		if price.OfferID != "X1" || price.Price != "1000" {
			t.Errorf("price = %+v, want X1 at 1000", price)
		}
	})

	t.Run("failed stock batch aborts before prices", func(t *testing.T) {
		var priceCalls int32
		mux := http.NewServeMux()
		mux.HandleFunc("/v2/product/list", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(productListResponse{Result: ProductPage{
				Items: []Product{{OfferID: "X1"}},
				Total: 1,
			}})
		})
		mux.HandleFunc("/v1/product/import/stocks", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		mux.HandleFunc("/v1/product/import/prices", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&priceCalls, 1)
		})

		server := httptest.NewServer(mux)
		defer server.Close()

		remnants := []inventory.Remnant{{Code: "X1", Quantity: "3", Price: "500.00"}}

		c := NewClient("id", "key", WithBaseURL(server.URL))
		_, err := c.Sync(context.Background(), remnants)

		var statusErr *app_errors.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if priceCalls != 0 {
			t.Errorf("price calls = %d, want 0 after stock failure", priceCalls)
		}
	})
}
