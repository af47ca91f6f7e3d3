package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"SwingTrader/internal/model"
)

const (
	defaultTradingURL = "https://paper-api.alpaca.markets"
	defaultDataURL    = "https://data.alpaca.markets"
)

// AlpacaGateway talks to the Alpaca paper-trading REST API.
type AlpacaGateway struct {
	TradingURL string
	DataURL    string
	KeyID      string
	SecretKey  string
	Client     *http.Client
}

// NewAlpacaGateway creates a gateway against the paper-trading endpoints.
// Empty baseURL falls back to the public paper API.
func NewAlpacaGateway(keyID, secretKey, baseURL string) *AlpacaGateway {
	if baseURL == "" {
		baseURL = defaultTradingURL
	}
	return &AlpacaGateway{
		TradingURL: baseURL,
		DataURL:    defaultDataURL,
		KeyID:      keyID,
		SecretKey:  secretKey,
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Alpaca serializes account and position numbers as JSON strings.
type alpacaAccount struct {
	Equity         string `json:"equity"`
	Cash           string `json:"cash"`
	BuyingPower    string `json:"buying_power"`
	PortfolioValue string `json:"portfolio_value"`
}

type alpacaPosition struct {
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	AvgEntryPrice  string `json:"avg_entry_price"`
	CurrentPrice   string `json:"current_price"`
	MarketValue    string `json:"market_value"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
}

type alpacaOrder struct {
	ID             string    `json:"id"`
	Symbol         string    `json:"symbol"`
	Side           string    `json:"side"`
	Qty            string    `json:"qty"`
	FilledAvgPrice string    `json:"filled_avg_price"`
	Status         string    `json:"status"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

type alpacaBar struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume float64   `json:"v"`
}

func (g *AlpacaGateway) GetAccount(ctx context.Context) (*Account, error) {
	var acct alpacaAccount
	if err := g.get(ctx, g.TradingURL+"/v2/account", &acct); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &Account{
		Equity:         toFloat(acct.Equity),
		Cash:           toFloat(acct.Cash),
		BuyingPower:    toFloat(acct.BuyingPower),
		PortfolioValue: toFloat(acct.PortfolioValue),
	}, nil
}

func (g *AlpacaGateway) GetPositions(ctx context.Context) ([]Position, error) {
	var raw []alpacaPosition
	if err := g.get(ctx, g.TradingURL+"/v2/positions", &raw); err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}
	positions := make([]Position, len(raw))
	for i, p := range raw {
		positions[i] = toPosition(p)
	}
	return positions, nil
}

func (g *AlpacaGateway) GetPosition(ctx context.Context, symbol string) (*Position, error) {
	var raw alpacaPosition
	err := g.get(ctx, g.TradingURL+"/v2/positions/"+symbol, &raw)
	if err != nil {
		// No position is an expected state, not an error.
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get position %s: %w", symbol, err)
	}
	p := toPosition(raw)
	return &p, nil
}

func (g *AlpacaGateway) GetBars(ctx context.Context, symbol string, limit int) ([]model.Bar, error) {
	endpoint := fmt.Sprintf("%s/v2/stocks/%s/bars?timeframe=1Day&limit=%d&adjustment=split",
		g.DataURL, symbol, limit)
	var resp struct {
		Bars []alpacaBar `json:"bars"`
	}
	if err := g.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("get bars %s: %w", symbol, err)
	}

	bars := make([]model.Bar, len(resp.Bars))
	for i, b := range resp.Bars {
		bars[i] = model.Bar{
			Time:   b.Time,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (g *AlpacaGateway) CreateOrder(ctx context.Context, symbol string, qty int, side model.Side) (*Order, error) {
	payload := map[string]any{
		"symbol":        symbol,
		"qty":           strconv.Itoa(qty),
		"side":          string(side),
		"type":          "market",
		"time_in_force": "day",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TradingURL+"/v2/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var raw alpacaOrder
	if err := g.do(req, &raw); err != nil {
		return nil, fmt.Errorf("create order %s %s: %w", side, symbol, err)
	}
	return &Order{
		ID:             raw.ID,
		Symbol:         raw.Symbol,
		Side:           model.Side(raw.Side),
		Qty:            int(toFloat(raw.Qty)),
		FilledAvgPrice: toFloat(raw.FilledAvgPrice),
		Status:         raw.Status,
		SubmittedAt:    raw.SubmittedAt,
	}, nil
}

func (g *AlpacaGateway) IsMarketOpen(ctx context.Context) (bool, error) {
	var clock struct {
		IsOpen bool `json:"is_open"`
	}
	if err := g.get(ctx, g.TradingURL+"/v2/clock", &clock); err != nil {
		return false, fmt.Errorf("get clock: %w", err)
	}
	return clock.IsOpen, nil
}

func (g *AlpacaGateway) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return g.do(req, out)
}

func (g *AlpacaGateway) do(req *http.Request, out any) error {
	req.Header.Set("APCA-API-KEY-ID", g.KeyID)
	req.Header.Set("APCA-API-SECRET-KEY", g.SecretKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var errNotFound = errors.New("not found")

func isNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func toPosition(p alpacaPosition) Position {
	return Position{
		Symbol:              p.Symbol,
		Qty:                 int(toFloat(p.Qty)),
		AvgEntryPrice:       toFloat(p.AvgEntryPrice),
		CurrentPrice:        toFloat(p.CurrentPrice),
		MarketValue:         toFloat(p.MarketValue),
		UnrealizedPL:        toFloat(p.UnrealizedPL),
		UnrealizedPLPercent: toFloat(p.UnrealizedPLPC) * 100,
	}
}

func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
