package app_errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestKindOf(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		err := fmt.Errorf("fetching catalog page: %w", &StatusError{
			StatusCode: http.StatusForbidden,
			Status:     "403 Forbidden",
		})
		if kind := KindOf(err); kind != KindStatus {
			t.Errorf("KindOf = %v, want KindStatus", kind)
		}
	})

	t.Run("wrapped bad data", func(t *testing.T) {
		err := fmt.Errorf("%w: decoding response: boom", ErrBadData)
		if kind := KindOf(err); kind != KindBadData {
			t.Errorf("KindOf = %v, want KindBadData", kind)
		}
	})

	t.Run("client timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := &http.Client{Timeout: 10 * time.Millisecond}
		_, err := client.Get(server.URL)
		if err == nil {
			t.Fatal("expected a timeout error")
		}
		if kind := KindOf(fmt.Errorf("executing request: %w", err)); kind != KindTimeout {
			t.Errorf("KindOf = %v, want KindTimeout", kind)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := http.Get(url)
		if err == nil {
			t.Fatal("expected a connection error")
		}
		if kind := KindOf(fmt.Errorf("executing request: %w", err)); kind != KindConnection {
			t.Errorf("KindOf = %v, want KindConnection", kind)
		}
	})

	t.Run("plain errors stay unknown", func(t *testing.T) {
		if kind := KindOf(errors.New("boom")); kind != KindUnknown {
			t.Errorf("KindOf = %v, want KindUnknown", kind)
		}
		if kind := KindOf(context.Canceled); kind != KindUnknown {
			t.Errorf("KindOf(context.Canceled) = %v, want KindUnknown", kind)
		}
		if kind := KindOf(nil); kind != KindUnknown {
			t.Errorf("KindOf(nil) = %v, want KindUnknown", kind)
		}
	})
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{StatusCode: http.StatusTooManyRequests, Status: "429 Too Many Requests"}
	if got := err.Error(); got != "unexpected status code: 429 Too Many Requests" {
		t.Errorf("Error() = %q", got)
	}
}
