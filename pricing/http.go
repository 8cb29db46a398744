package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds a provider call when none is configured.
const DefaultTimeout = 30 * time.Second

// HTTPProvider fetches closes from a data provider service with a
// single POST to {BaseURL}/api/ticks.
type HTTPProvider struct {
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

// NewHTTPProvider returns a provider whose calls are bounded by timeout.
func NewHTTPProvider(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

type ticksRequest struct {
	Symbols []market.Symbol `json:"symbols"`
	Dates   []market.Date   `json:"dates"`
}

type tickPoint struct {
	Date  string           `json:"date"`
	Close *decimal.Decimal `json:"close"`
	TS    int64            `json:"ts"`
}

func (p *HTTPProvider) Historical(ctx context.Context, symbols []market.Symbol, start, end market.Date) (map[market.Symbol][]market.Observation, error) {
	dates, err := market.DateRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	body, err := json.Marshal(ticksRequest{Symbols: symbols, Dates: dates})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrDataUnavailable, err)
	}

	addr := p.BaseURL + "/api/ticks"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	p.Logger.Info("requesting historical data", "url", addr, "symbols", len(symbols), "dates", len(dates))

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot reach provider: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: POST %s: %s", ErrDataUnavailable, addr, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrDataUnavailable, err)
	}
	return decodeTicks(raw, symbols)
}

// decodeTicks parses the provider payload into typed observations for
// the requested symbols.
func decodeTicks(raw []byte, symbols []market.Symbol) (map[market.Symbol][]market.Observation, error) {
	var payload map[string][]tickPoint
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrDataUnavailable, err)
	}

	out := make(map[market.Symbol][]market.Observation, len(symbols))
	for _, sym := range symbols {
		points := payload[sym]
		obs := make([]market.Observation, 0, len(points))
		for i, pt := range points {
			d, err := market.ParseDate(pt.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", ErrDataUnavailable, sym, i, err)
			}
			if pt.Close == nil {
				return nil, fmt.Errorf("%w: %s[%d]: missing close", ErrDataUnavailable, sym, i)
			}
			obs = append(obs, market.Observation{Date: d, Close: *pt.Close})
		}
		out[sym] = obs
	}
	return out, nil
}
