// Package market fetches spot price quotes used to enrich prompts with live
// data.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Quote is the price snapshot for one asset.
type Quote struct {
	Asset     string
	PriceUSD  float64
	Change24h float64
}

// Client queries a CoinGecko-style simple-price endpoint. Every request
// carries a bounded timeout so a slow quote service cannot stall a generation
// run.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Quotes fetches price and 24h change for the given asset identifiers.
func (c *Client) Quotes(ctx context.Context, assets []string) ([]Quote, error) {
	if len(assets) == 0 {
		return nil, nil
	}
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true",
		c.baseURL, url.QueryEscape(strings.Join(assets, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("market data request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	var payload map[string]struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	quotes := make([]Quote, 0, len(payload))
	for asset, entry := range payload {
		quotes = append(quotes, Quote{Asset: asset, PriceUSD: entry.USD, Change24h: entry.USD24hChange})
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Asset < quotes[j].Asset })
	return quotes, nil
}

// Snippet renders quotes as the short live-data block appended to prompts.
func Snippet(quotes []Quote) string {
	if len(quotes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("LIVE MARKET DATA:\n")
	for _, q := range quotes {
		fmt.Fprintf(&b, "- %s: $%.2f (%+.2f%% 24h)\n", q.Asset, q.PriceUSD, q.Change24h)
	}
	return strings.TrimRight(b.String(), "\n")
}
