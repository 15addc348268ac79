// Package order is the execution gateway: it validates preconditions against
// live balances and prices, submits market orders through the exchange
// connector, and reports typed outcomes. It never mutates trading state;
// the engine commits state only after a gateway call returns success.
package order

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"daytrader/internal/events"
	"daytrader/pkg/exchanges/common"
	"daytrader/pkg/journal"
)

// Config fixes the gateway's pair and connector behaviour.
type Config struct {
	Pair       string
	BaseAsset  string
	QuoteAsset string
	// AmountInQuote is set when the connector's market buys take quote
	// notional instead of base quantity. Static configuration, never probed.
	AmountInQuote bool
	// QtyPrecision is the connector's base-quantity rounding, in decimals.
	QtyPrecision int
	MinNotional  float64
}

// Gateway submits orders through a connector.
type Gateway struct {
	cfg       Config
	connector common.Connector
	bus       *events.Bus
	journal   *journal.Journal
}

// NewGateway wires a gateway. Bus and journal may be nil.
func NewGateway(cfg Config, connector common.Connector, bus *events.Bus, jnl *journal.Journal) *Gateway {
	return &Gateway{cfg: cfg, connector: connector, bus: bus, journal: jnl}
}

// Entry is a successful long entry.
type Entry struct {
	Order    common.Order
	Price    float64 // quoted price at submission, not the realized fill
	Qty      float64
	Notional float64
}

// Exit is a successful long exit.
type Exit struct {
	Order      common.Order
	Amount     float64
	ExitPrice  float64
	PnL        float64
	PriceKnown bool // false when the post-trade quote could not be fetched
}

// EnterLong validates balance and price, sizes the order from risk
// parameters, and submits a market buy. On any failure nothing was committed
// and the returned error identifies the reason.
func (g *Gateway) EnterLong(ctx context.Context, riskPerTrade, leverage float64) (Entry, error) {
	balances, err := g.connector.FetchBalances(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("fetch balance: %w", err)
	}
	quoteFree := balances[g.cfg.QuoteAsset].Free
	if quoteFree <= 0 {
		return Entry{}, fmt.Errorf("%s free=%.2f: %w", g.cfg.QuoteAsset, quoteFree, ErrZeroBalance)
	}

	ticker, err := g.connector.FetchTicker(ctx, g.cfg.Pair)
	if err != nil {
		return Entry{}, fmt.Errorf("fetch ticker: %w", err)
	}
	price := ticker.Last

	sizing, err := ComputeSize(quoteFree, riskPerTrade, leverage, g.cfg.MinNotional, price, g.cfg.QtyPrecision)
	if err != nil {
		return Entry{}, err
	}

	amount := sizing.Qty
	if g.cfg.AmountInQuote {
		amount = sizing.Notional
	}

	log.Printf("submitting buy %s: notional=%.2f %s price=%.2f qty=%.6f %s",
		g.cfg.Pair, sizing.Notional, g.cfg.QuoteAsset, price, sizing.Qty, g.cfg.BaseAsset)

	ord, err := g.connector.CreateMarketBuyOrder(ctx, g.cfg.Pair, amount)
	if err != nil {
		g.bus.Publish(events.TopicOrderRejected, err.Error())
		return Entry{}, fmt.Errorf("create buy order: %w", err)
	}

	g.bus.Publish(events.TopicOrderSubmitted, ord)
	g.recordOrder(ctx, ord, fmt.Sprintf("entry notional=%.2f price=%.2f", sizing.Notional, price))

	return Entry{Order: ord, Price: price, Qty: sizing.Qty, Notional: sizing.Notional}, nil
}

// ExitLong sells min(recorded size, live free base balance), reconciling any
// drift between recorded and actual holdings. The post-trade quote is
// best-effort: a failed ticker fetch after a successful sale does not undo
// the exit, it only leaves the P&L unknown.
func (g *Gateway) ExitLong(ctx context.Context, recordedSize, entryPrice float64, reason string) (Exit, error) {
	balances, err := g.connector.FetchBalances(ctx)
	if err != nil {
		return Exit{}, fmt.Errorf("fetch balance: %w", err)
	}
	baseFree := balances[g.cfg.BaseAsset].Free

	amount := math.Min(recordedSize, baseFree)
	if amount <= 0 {
		return Exit{}, fmt.Errorf("%s free=%.8f recorded=%.8f: %w", g.cfg.BaseAsset, baseFree, recordedSize, ErrZeroBalance)
	}

	log.Printf("submitting sell %s: qty=%.6f %s (recorded=%.6f free=%.6f) reason=%s",
		g.cfg.Pair, amount, g.cfg.BaseAsset, recordedSize, baseFree, reason)

	ord, err := g.connector.CreateMarketSellOrder(ctx, g.cfg.Pair, amount)
	if err != nil {
		g.bus.Publish(events.TopicOrderRejected, err.Error())
		return Exit{}, fmt.Errorf("create sell order: %w", err)
	}

	g.bus.Publish(events.TopicOrderSubmitted, ord)

	out := Exit{Order: ord, Amount: amount}
	if ticker, err := g.connector.FetchTicker(ctx, g.cfg.Pair); err != nil {
		log.Printf("post-trade quote unavailable, P&L unknown: %v", err)
	} else {
		out.ExitPrice = ticker.Last
		out.PnL = amount * (ticker.Last - entryPrice)
		out.PriceKnown = true
	}

	g.recordOrder(ctx, ord, "exit reason="+reason)
	g.recordTrade(ctx, ord, amount, entryPrice, out, reason)
	return out, nil
}

func (g *Gateway) recordOrder(ctx context.Context, ord common.Order, note string) {
	id := ord.ClientID
	if id == "" {
		id = uuid.NewString()
	}
	err := g.journal.RecordOrder(ctx, journal.OrderRecord{
		ID:         id,
		ExchangeID: ord.ID,
		Pair:       ord.Pair,
		Side:       string(ord.Side),
		Amount:     ord.Amount,
		Status:     string(ord.Status),
		Note:       note,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		log.Printf("journal order error: %v", err)
	}
}

func (g *Gateway) recordTrade(ctx context.Context, ord common.Order, qty, entryPrice float64, exit Exit, reason string) {
	err := g.journal.RecordTrade(ctx, journal.TradeRecord{
		ID:         uuid.NewString(),
		OrderID:    ord.ID,
		Pair:       ord.Pair,
		Qty:        qty,
		EntryPrice: entryPrice,
		ExitPrice:  exit.ExitPrice,
		PnL:        exit.PnL,
		Reason:     reason,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		log.Printf("journal trade error: %v", err)
	}
}
