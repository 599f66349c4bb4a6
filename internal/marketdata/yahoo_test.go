package marketdata

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// chartResponse renders a minimal Yahoo chart payload with one close per
// timestamp. A nil close is rendered as JSON null.
func chartResponse(timestamps []int64, closes []*float64) string {
	ts := ""
	cl := ""
	for i := range timestamps {
		if i > 0 {
			ts += ","
			cl += ","
		}
		ts += fmt.Sprintf("%d", timestamps[i])
		if closes[i] == nil {
			cl += "null"
		} else {
			cl += fmt.Sprintf("%.2f", *closes[i])
		}
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"currency":"USD","symbol":"AAPL"},`+
		`"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, ts, cl)
}

func ptr(v float64) *float64 { return &v }

func unixDay(t *testing.T, value string) int64 {
	t.Helper()
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", value, err)
	}
	return day.Unix()
}

func TestYahooClient_QueryHistorical(t *testing.T) {
	t.Run("returns closes clipped to the requested range", func(t *testing.T) {
		body := chartResponse(
			[]int64{unixDay(t, "2024-01-01"), unixDay(t, "2024-01-02"), unixDay(t, "2024-01-03")},
			[]*float64{ptr(100.00), ptr(101.50), ptr(102.25)},
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, body)
		}))
		defer server.Close()

		client := NewYahooClient()
		client.baseURL = server.URL

		start, _ := time.Parse("2006-01-02", "2024-01-02")
		end, _ := time.Parse("2006-01-02", "2024-01-03")
		quotes, err := client.QueryHistorical("AAPL", start, end)
		if err != nil {
			t.Fatalf("QueryHistorical failed: %v", err)
		}

		if len(quotes) != 2 {
			t.Fatalf("Expected 2 quotes after clipping, got %d", len(quotes))
		}
		if quotes[0].Price != 101.50 {
			t.Errorf("Expected first clipped price 101.50, got %v", quotes[0].Price)
		}
	})

	t.Run("drops days with a null close", func(t *testing.T) {
		body := chartResponse(
			[]int64{unixDay(t, "2024-01-01"), unixDay(t, "2024-01-02")},
			[]*float64{ptr(100.00), nil},
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, body)
		}))
		defer server.Close()

		client := NewYahooClient()
		client.baseURL = server.URL

		start, _ := time.Parse("2006-01-02", "2024-01-01")
		end, _ := time.Parse("2006-01-02", "2024-01-02")
		quotes, err := client.QueryHistorical("AAPL", start, end)
		if err != nil {
			t.Fatalf("QueryHistorical failed: %v", err)
		}

		if len(quotes) != 1 {
			t.Fatalf("Expected 1 quote after dropping the null close, got %d", len(quotes))
		}
	})

	t.Run("returns no quotes for an empty chart result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
		}))
		defer server.Close()

		client := NewYahooClient()
		client.baseURL = server.URL

		start, _ := time.Parse("2006-01-02", "2024-01-01")
		end, _ := time.Parse("2006-01-02", "2024-01-02")
		quotes, err := client.QueryHistorical("UNKNOWN", start, end)
		if err != nil {
			t.Fatalf("QueryHistorical failed: %v", err)
		}
		if len(quotes) != 0 {
			t.Errorf("Expected no quotes, got %d", len(quotes))
		}
	})

	t.Run("surfaces an API-level error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":[],"error":"Not Found"}}`)
		}))
		defer server.Close()

		client := NewYahooClient()
		client.baseURL = server.URL

		start, _ := time.Parse("2006-01-02", "2024-01-01")
		end, _ := time.Parse("2006-01-02", "2024-01-02")
		_, err := client.QueryHistorical("BOGUS", start, end)
		if err == nil {
			t.Error("Expected an error from the chart error slot, got nil")
		}
	})
}

func TestYahooClient_QueryCurrent(t *testing.T) {
	t.Run("returns the newest close", func(t *testing.T) {
		body := chartResponse(
			[]int64{unixDay(t, "2024-01-01"), unixDay(t, "2024-01-02")},
			[]*float64{ptr(100.00), ptr(104.75)},
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, body)
		}))
		defer server.Close()

		client := NewYahooClient()
		client.baseURL = server.URL

		price, err := client.QueryCurrent("AAPL")
		if err != nil {
			t.Fatalf("QueryCurrent failed: %v", err)
		}
		if price != 104.75 {
			t.Errorf("Expected 104.75, got %v", price)
		}
	})

	t.Run("fails when no prices are available", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
		}))
		defer server.Close()

		client := NewYahooClient()
		client.baseURL = server.URL

		_, err := client.QueryCurrent("UNKNOWN")
		if err == nil {
			t.Error("Expected an error for an empty result, got nil")
		}
	})
}
