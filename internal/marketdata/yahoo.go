package marketdata

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

func init() {
	Register("yahoo", func(_ Config) Client {
		// Yahoo's chart endpoint needs no API key.
		return NewYahooClient()
	})
}

// YahooClient fetches closing prices from the Yahoo Finance chart API.
// It wraps an HTTP client and translates the raw chart response into Quotes.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooClient creates a new Yahoo Finance client with default HTTP settings.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		httpClient: &http.Client{},
		baseURL:    "https://query1.finance.yahoo.com",
	}
}

// QueryHistorical fetches daily closing quotes for a symbol within the
// inclusive date range. Yahoo treats period2 as exclusive, so one day is
// added to the end before the request and results are clipped back to the
// requested range afterwards.
func (c *YahooClient) QueryHistorical(symbol string, startDate, endDate time.Time) ([]Quote, error) {
	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		symbol,
		startDate.Unix(),
		endDate.AddDate(0, 0, 1).Unix(),
	)
	result, err := c.queryYahoo(url)
	if err != nil {
		return nil, err
	}
	if len(result.Chart.Result) == 0 {
		return nil, nil
	}

	quotes, err := parseQuotes(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart for %s: %w", symbol, err)
	}

	clipped := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.Date.Before(startDate) || q.Date.After(endDate) {
			continue
		}
		clipped = append(clipped, q)
	}
	return clipped, nil
}

// QueryCurrent fetches the most recent available price for a symbol.
// Markets report the previous close as the latest complete data point, so
// the last 5 trading days are requested and the newest close returned.
func (c *YahooClient) QueryCurrent(symbol string) (float64, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, symbol)
	result, err := c.queryYahoo(url)
	if err != nil {
		return 0, err
	}
	if len(result.Chart.Result) == 0 {
		return 0, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	quotes, err := parseQuotes(result)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chart for %s: %w", symbol, err)
	}
	if len(quotes) == 0 {
		return 0, fmt.Errorf("no current price available for symbol %s", symbol)
	}

	return quotes[len(quotes)-1].Price, nil
}

// queryYahoo is an internal helper that executes HTTP requests to the Yahoo
// Finance API, reading the response, parsing JSON, and checking for API
// errors. The User-Agent header mimics a browser to avoid API blocking.
func (c *YahooClient) queryYahoo(url string) (yahooResponse, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return yahooResponse{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return yahooResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return yahooResponse{}, err
	}

	var response yahooResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return yahooResponse{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}

	return response, nil
}

// parseQuotes converts a raw Yahoo chart response into date-ascending quotes.
// Days where Yahoo reports a null close (halted or not yet traded) are
// dropped rather than surfaced as zero prices.
func parseQuotes(response yahooResponse) ([]Quote, error) {
	result := response.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return nil, nil
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no close prices returned")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths")
	}

	quotes := make([]Quote, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		day := time.Unix(ts, 0).UTC()
		quotes = append(quotes, Quote{
			Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Price: *closes[i],
		})
	}
	return quotes, nil
}
