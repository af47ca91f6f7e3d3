package trader

import (
	"strings"
	"testing"

	"SwingTrader/internal/scoring"
)

func TestPositionSize_ByStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      scoring.Status
		wantDollars float64
	}{
		{"excellent gets max", scoring.StatusExcellent, maxPositionSize},
		{"good gets 1.5x base", scoring.StatusGood, basePositionSize * goodSizeMultiplier},
		{"unproven gets min", scoring.StatusUnproven, minPositionSize},
		{"poor gets min", scoring.StatusPoor, minPositionSize},
	}
	// Large portfolio so the 10% cap never binds; price 1 so shares==dollars.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perf := scoring.Performance{Status: tt.status, Score: 50, WinRate: 50}
			shares, dollars, _ := PositionSize(perf, 1, 1_000_000)
			if dollars != tt.wantDollars {
				t.Errorf("expected $%.0f, got $%.0f", tt.wantDollars, dollars)
			}
			if shares != int(tt.wantDollars) {
				t.Errorf("expected %d shares, got %d", int(tt.wantDollars), shares)
			}
		})
	}
}

func TestPositionSize_PortfolioCap(t *testing.T) {
	perf := scoring.Performance{Status: scoring.StatusExcellent, Score: 85, WinRate: 80}
	// 10% of 20k is 2000, well under the 5000 an excellent ticker would get.
	shares, dollars, _ := PositionSize(perf, 100, 20_000)
	if shares != 20 {
		t.Errorf("expected 20 shares, got %d", shares)
	}
	if dollars != 2000 {
		t.Errorf("expected $2000, got $%.0f", dollars)
	}
}

func TestPositionSize_FloorNeverBelowMin(t *testing.T) {
	perf := scoring.Performance{Status: scoring.StatusUnproven}
	// Tiny portfolio: the 10% cap (100) is below the minimum, which wins.
	_, dollars, _ := PositionSize(perf, 1, 1000)
	if dollars != minPositionSize {
		t.Errorf("minimum bound must hold, got $%.0f", dollars)
	}
}

func TestPositionSize_SharesAreWhole(t *testing.T) {
	perf := scoring.Performance{Status: scoring.StatusUnproven}
	shares, dollars, reason := PositionSize(perf, 333, 1_000_000)
	if shares != 1 {
		t.Errorf("expected floor(500/333)=1 share, got %d", shares)
	}
	if dollars != 333 {
		t.Errorf("dollar amount must reflect whole shares, got %.0f", dollars)
	}
	if !strings.Contains(reason, "Conservative") {
		t.Errorf("unexpected reason %q", reason)
	}
}

func TestPositionSize_ZeroPrice(t *testing.T) {
	shares, _, _ := PositionSize(scoring.Performance{}, 0, 10_000)
	if shares != 0 {
		t.Errorf("zero price must size to zero shares, got %d", shares)
	}
}
