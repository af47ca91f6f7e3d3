package model

import "time"

// Action is the trading decision for a single evaluation.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Position is the open-trade state for one ticker. At most one position per
// ticker exists at a time; there is no averaging-in and no partial sell.
// EntryATR is the ATR at fill time: the enhanced engine anchors its exit
// levels to it so the stop and target stay fixed for the life of the trade.
type Position struct {
	Ticker     string
	EntryPrice float64
	Quantity   int
	EntryATR   float64
	OpenedAt   time.Time
}

// Indicators is the computed snapshot attached to every signal. It is
// recomputed on each evaluation and never cached.
type Indicators struct {
	RSI          float64
	DipPercent   float64
	CurrentPrice float64
	Volume       float64
	AvgVolume    float64
	VolumeRatio  float64
	SMA          float64
	AboveSMA     bool
	ATR          float64

	// ATR-derived exit levels, set only when a position exists or a buy fires.
	ATRStopLoss     float64
	ATRProfitTarget float64
}

// Signal is the decision output of a strategy evaluation. The reason string
// enumerates which entry factors passed or failed so every decision can be
// audited after the fact.
type Signal struct {
	Ticker     string
	Action     Action
	Reason     string
	Indicators Indicators
}
