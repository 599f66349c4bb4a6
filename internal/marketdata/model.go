package marketdata

// yahooResponse maps the raw JSON response of the Yahoo Finance chart API.
// Only the fields the tracker needs are declared: per-day timestamps, close
// prices, and the API-level error slot. Close prices are pointers because
// Yahoo reports null for days without a close.
type yahooResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}
