package broker

import (
	"context"
	"fmt"
	"time"

	"SwingTrader/internal/model"
)

// Mock is an in-memory Gateway for tests and offline runs. Orders fill
// immediately at the last close of the symbol's bars.
type Mock struct {
	Account    Account
	Bars       map[string][]model.Bar
	Positions  map[string]*Position
	Orders     []Order
	MarketOpen bool

	Err error // returned by every call when set
}

func NewMock() *Mock {
	return &Mock{
		Account:    Account{Equity: 10000, Cash: 10000, BuyingPower: 10000, PortfolioValue: 0},
		Bars:       make(map[string][]model.Bar),
		Positions:  make(map[string]*Position),
		MarketOpen: true,
	}
}

func (m *Mock) GetAccount(_ context.Context) (*Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	acct := m.Account
	return &acct, nil
}

func (m *Mock) GetPositions(_ context.Context) ([]Position, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var positions []Position
	for _, p := range m.Positions {
		positions = append(positions, *p)
	}
	return positions, nil
}

func (m *Mock) GetPosition(_ context.Context, symbol string) (*Position, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Positions[symbol]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (m *Mock) GetBars(_ context.Context, symbol string, limit int) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars, ok := m.Bars[symbol]
	if !ok {
		return nil, fmt.Errorf("no bars for %s", symbol)
	}
	if len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

func (m *Mock) CreateOrder(_ context.Context, symbol string, qty int, side model.Side) (*Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	price := 0.0
	if bars := m.Bars[symbol]; len(bars) > 0 {
		price = bars[len(bars)-1].Close
	}
	order := Order{
		ID:             fmt.Sprintf("mock-%d", len(m.Orders)+1),
		Symbol:         symbol,
		Side:           side,
		Qty:            qty,
		FilledAvgPrice: price,
		Status:         "filled",
		SubmittedAt:    time.Now(),
	}
	m.Orders = append(m.Orders, order)

	switch side {
	case model.SideBuy:
		m.Positions[symbol] = &Position{
			Symbol: symbol, Qty: qty,
			AvgEntryPrice: price, CurrentPrice: price,
			MarketValue: price * float64(qty),
		}
	case model.SideSell:
		delete(m.Positions, symbol)
	}
	return &order, nil
}

func (m *Mock) IsMarketOpen(_ context.Context) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	return m.MarketOpen, nil
}
