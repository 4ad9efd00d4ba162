package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

type RatesAPIClient struct {
	http    *http.Client
	baseURL string
}

type apiResponse struct {
	Result          string                     `json:"result"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]json.RawMessage `json:"conversion_rates"`
}

// GetExchangeRates fetches how many units of each quoted currency one unit of
// base buys. Quotes are parsed into decimals without a float round-trip; the
// provider emits bare numbers but some mirrors quote them as strings, so both
// forms are accepted. Quotes that fail to parse are dropped.
func (c *RatesAPIClient) GetExchangeRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + base

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for currency %q: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for currency %q: %s", resp.StatusCode, base, resp.Status)
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response for currency %q: %w", base, err)
	}

	if body.Result != "success" {
		return nil, fmt.Errorf("api returned non-success result for currency %q: %s", base, body.Result)
	}

	quotes := make(map[string]decimal.Decimal, len(body.ConversionRates))
	for code, raw := range body.ConversionRates {
		text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
		quote, err := decimal.NewFromString(text)
		if err != nil {
			continue
		}
		quotes[code] = quote
	}

	return quotes, nil
}

func NewRatesAPIClient(httpClient *http.Client, baseURL string) *RatesAPIClient {
	return &RatesAPIClient{http: httpClient, baseURL: baseURL}
}
