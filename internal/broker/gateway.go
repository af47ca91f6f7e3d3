package broker

import (
	"context"
	"time"

	"SwingTrader/internal/model"
)

// Account is the broker account summary.
type Account struct {
	Equity         float64
	Cash           float64
	BuyingPower    float64
	PortfolioValue float64
}

// Position is an open holding as the broker reports it.
type Position struct {
	Symbol              string
	Qty                 int
	AvgEntryPrice       float64
	CurrentPrice        float64
	MarketValue         float64
	UnrealizedPL        float64
	UnrealizedPLPercent float64
}

// Order is the broker's acknowledgement of a submitted order.
type Order struct {
	ID             string
	Symbol         string
	Side           model.Side
	Qty            int
	FilledAvgPrice float64
	Status         string
	SubmittedAt    time.Time
}

// Gateway abstracts the brokerage API. GetPosition returns (nil, nil) when no
// position exists for the symbol.
type Gateway interface {
	GetAccount(ctx context.Context) (*Account, error)
	GetPositions(ctx context.Context) ([]Position, error)
	GetPosition(ctx context.Context, symbol string) (*Position, error)
	GetBars(ctx context.Context, symbol string, limit int) ([]model.Bar, error)
	CreateOrder(ctx context.Context, symbol string, qty int, side model.Side) (*Order, error)
	IsMarketOpen(ctx context.Context) (bool, error)
}
