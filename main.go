package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"daytrader/internal/api"
	"daytrader/internal/engine"
	"daytrader/internal/events"
	"daytrader/internal/monitor"
	"daytrader/internal/order"
	"daytrader/internal/session"
	"daytrader/pkg/config"
	"daytrader/pkg/exchanges/bitget"
	"daytrader/pkg/journal"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config load failed: %v", err)
	}
	base, quote, err := config.SplitPair(cfg.Pair)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("starting daytrader: pair=%s timeframe=%s risk=%.2f leverage=%.1f",
		cfg.Pair, cfg.Timeframe, cfg.RiskPerTrade, cfg.Leverage)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Exchange connector. Missing credentials are a startup failure, not a
	// runtime one.
	connector, err := bitget.New(bitget.Config{
		APIKey:     cfg.BitgetAPIKey,
		APISecret:  cfg.BitgetAPISecret,
		Passphrase: cfg.BitgetPassphrase,
	})
	if err != nil {
		log.Fatalf("❌ exchange client init failed: %v", err)
	}

	jnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		log.Fatalf("❌ journal init failed: %v", err)
	}
	defer jnl.Close()

	bus := events.NewBus()

	mon := &monitor.Monitor{Bus: bus, AlertFn: func(msg string) {
		log.Printf("🚨 %s", msg)
	}}
	mon.Start(ctx)

	gateway := order.NewGateway(order.Config{
		Pair:          cfg.Pair,
		BaseAsset:     base,
		QuoteAsset:    quote,
		AmountInQuote: true, // Bitget market buys take quote notional
		QtyPrecision:  6,
		MinNotional:   cfg.MinNotional,
	}, connector, bus, jnl)

	sess := &session.Controller{FlattenHour: cfg.FlattenHour}
	if cfg.TradingHoursStart >= 0 && cfg.TradingHoursEnd >= 0 {
		sess.Hours = &session.Hours{Start: cfg.TradingHoursStart, End: cfg.TradingHoursEnd}
	}

	eng := engine.New(cfg.Pair, cfg.Timeframe, engine.Params{
		RiskPerTrade:   cfg.RiskPerTrade,
		Leverage:       cfg.Leverage,
		TakeProfitPct:  cfg.TakeProfitPct,
		StopLossPct:    cfg.StopLossPct,
		MaxDailyTrades: cfg.MaxDailyTrades,
		CandleLimit:    cfg.CandleLimit,
		TickInterval:   cfg.TickInterval,
		ErrorBackoff:   cfg.ErrorBackoff,
	}, connector, gateway, sess, bus)

	if cfg.Port != "" {
		passwordHash := ""
		if cfg.OperatorPassword != "" {
			passwordHash, err = api.HashPassword(cfg.OperatorPassword)
			if err != nil {
				log.Fatalf("❌ operator password hash failed: %v", err)
			}
		} else {
			log.Printf("⚠️ OPERATOR_PASSWORD not set, API login disabled")
		}

		server := api.NewServer(bus, eng, jnl, api.SystemMeta{
			Venue:     "bitget-spot",
			Pair:      cfg.Pair,
			Timeframe: cfg.Timeframe,
			Version:   version(),
		}, cfg.Operator, passwordHash, cfg.JWTSecret)

		go func() {
			log.Printf("operator API listening on :%s", cfg.Port)
			if err := server.Start(":" + cfg.Port); err != nil {
				log.Printf("❌ API server stopped: %v", err)
			}
		}()
	}

	if err := eng.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("❌ trading loop failed: %v", err)
	}
}

func version() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "v1.0-dev"
}
