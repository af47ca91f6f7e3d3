package broker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"SwingTrader/internal/model"
)

func newTestGateway(t *testing.T, handler http.Handler) *AlpacaGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewAlpacaGateway("test-key", "test-secret", srv.URL)
	g.DataURL = srv.URL
	return g
}

func TestGetAccount(t *testing.T) {
	var gotKey, gotSecret string
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/account" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotKey = r.Header.Get("APCA-API-KEY-ID")
		gotSecret = r.Header.Get("APCA-API-SECRET-KEY")
		w.Write([]byte(`{"equity":"10500.50","cash":"9000","buying_power":"18000","portfolio_value":"1500.50"}`))
	}))

	acct, err := g.GetAccount(context.Background())
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if gotKey != "test-key" || gotSecret != "test-secret" {
		t.Errorf("auth headers not sent: %q %q", gotKey, gotSecret)
	}
	if acct.Equity != 10500.50 || acct.Cash != 9000 {
		t.Errorf("string numbers not parsed: %+v", acct)
	}
}

func TestGetPosition_NotFoundIsNil(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":40410000,"message":"position does not exist"}`, http.StatusNotFound)
	}))

	pos, err := g.GetPosition(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("404 must not be an error: %v", err)
	}
	if pos != nil {
		t.Errorf("expected nil position, got %+v", pos)
	}
}

func TestGetBars(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/stocks/AAPL/bars" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"bars":[
			{"t":"2024-01-03T05:00:00Z","o":184,"h":186,"l":183,"c":185,"v":1000},
			{"t":"2024-01-02T05:00:00Z","o":181,"h":183,"l":180,"c":182,"v":900}
		],"next_page_token":null}`))
	}))

	bars, err := g.GetBars(context.Background(), "AAPL", 100)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars must be sorted chronologically")
	}
	if bars[1].Close != 185 {
		t.Errorf("expected last close 185, got %.1f", bars[1].Close)
	}
}

func TestCreateOrder(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/orders" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id":"ord-1","symbol":"AAPL","side":"buy","qty":"5","filled_avg_price":"185.20","status":"filled","submitted_at":"2024-01-03T14:31:00Z"}`))
	}))

	order, err := g.CreateOrder(context.Background(), "AAPL", 5, model.SideBuy)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Qty != 5 || order.FilledAvgPrice != 185.20 || order.Side != model.SideBuy {
		t.Errorf("order fields wrong: %+v", order)
	}
}

func TestIsMarketOpen(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"is_open":true,"next_open":"2024-01-04T14:30:00Z"}`))
	}))

	open, err := g.IsMarketOpen(context.Background())
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	if !open {
		t.Error("expected market open")
	}
}
