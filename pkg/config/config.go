// Package config loads runtime settings from the environment (optionally via
// .env) and an optional YAML strategy file. Environment wins over YAML for
// credentials; the YAML file only carries strategy parameters.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the trading process needs.
type Config struct {
	// Bitget credentials. All three are required to start.
	BitgetAPIKey     string
	BitgetAPISecret  string
	BitgetPassphrase string

	// Strategy
	Pair           string
	Timeframe      string
	RiskPerTrade   float64
	Leverage       float64
	TakeProfitPct  float64
	StopLossPct    float64
	MaxDailyTrades int
	MinNotional    float64
	CandleLimit    int

	// Session
	TradingHoursStart int // -1 disables the hours gate
	TradingHoursEnd   int
	FlattenHour       int // -1 disables the end-of-day flatten

	// Loop cadence
	TickInterval time.Duration
	ErrorBackoff time.Duration

	// Operator API. Empty port disables the server.
	Port             string
	JWTSecret        string
	Operator         string
	OperatorPassword string

	// Journal
	JournalPath string
}

// StrategyFile is the optional YAML overlay for strategy parameters.
type StrategyFile struct {
	Pair           string  `yaml:"pair"`
	Timeframe      string  `yaml:"timeframe"`
	RiskPerTrade   float64 `yaml:"risk_per_trade"`
	Leverage       float64 `yaml:"leverage"`
	TakeProfitPct  float64 `yaml:"take_profit_pct"`
	StopLossPct    float64 `yaml:"stop_loss_pct"`
	MaxDailyTrades int     `yaml:"max_daily_trades"`
	MinNotional    float64 `yaml:"min_notional"`
}

// Load reads the environment (via .env when present) and, when STRATEGY_FILE
// points at a YAML file, overlays its strategy parameters.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	cfg := &Config{
		BitgetAPIKey:     os.Getenv("BITGET_API_KEY"),
		BitgetAPISecret:  os.Getenv("BITGET_API_SECRET"),
		BitgetPassphrase: os.Getenv("BITGET_PASSPHRASE"),

		Pair:           getEnv("TRADING_PAIR", "BTC/USDT"),
		Timeframe:      getEnv("TIMEFRAME", "15m"),
		RiskPerTrade:   getEnvFloat("RISK_PER_TRADE", 0.05),
		Leverage:       getEnvFloat("LEVERAGE", 3),
		TakeProfitPct:  getEnvFloat("TAKE_PROFIT_PCT", 0.03),
		StopLossPct:    getEnvFloat("STOP_LOSS_PCT", 0.01),
		MaxDailyTrades: getEnvInt("MAX_DAILY_TRADES", 3),
		MinNotional:    getEnvFloat("MIN_NOTIONAL", 10),
		CandleLimit:    getEnvInt("CANDLE_LIMIT", 100),

		TradingHoursStart: getEnvInt("TRADING_HOURS_START", -1),
		TradingHoursEnd:   getEnvInt("TRADING_HOURS_END", -1),
		FlattenHour:       getEnvInt("FLATTEN_HOUR", -1),

		TickInterval: time.Duration(getEnvInt("TICK_INTERVAL_SEC", 300)) * time.Second,
		ErrorBackoff: time.Duration(getEnvInt("ERROR_BACKOFF_SEC", 60)) * time.Second,

		Port:             getEnv("PORT", ""),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		Operator:         getEnv("OPERATOR_USER", "operator"),
		OperatorPassword: os.Getenv("OPERATOR_PASSWORD"),

		JournalPath: getEnv("JOURNAL_PATH", "./data/daytrader.db"),
	}

	if path := os.Getenv("STRATEGY_FILE"); path != "" {
		if err := cfg.applyStrategyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.validate()
}

func (c *Config) applyStrategyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read strategy file: %w", err)
	}
	var f StrategyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse strategy file: %w", err)
	}

	if f.Pair != "" {
		c.Pair = f.Pair
	}
	if f.Timeframe != "" {
		c.Timeframe = f.Timeframe
	}
	if f.RiskPerTrade > 0 {
		c.RiskPerTrade = f.RiskPerTrade
	}
	if f.Leverage > 0 {
		c.Leverage = f.Leverage
	}
	if f.TakeProfitPct > 0 {
		c.TakeProfitPct = f.TakeProfitPct
	}
	if f.StopLossPct > 0 {
		c.StopLossPct = f.StopLossPct
	}
	if f.MaxDailyTrades > 0 {
		c.MaxDailyTrades = f.MaxDailyTrades
	}
	if f.MinNotional > 0 {
		c.MinNotional = f.MinNotional
	}
	return nil
}

func (c *Config) validate() error {
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 1 {
		return fmt.Errorf("RISK_PER_TRADE %.4f out of range (0, 1]", c.RiskPerTrade)
	}
	if c.StopLossPct <= 0 || c.TakeProfitPct <= 0 {
		return fmt.Errorf("TAKE_PROFIT_PCT and STOP_LOSS_PCT must be positive")
	}
	if c.MaxDailyTrades <= 0 {
		return fmt.Errorf("MAX_DAILY_TRADES must be positive")
	}
	if _, _, err := SplitPair(c.Pair); err != nil {
		return err
	}
	return nil
}

// SplitPair splits "BTC/USDT" into base and quote assets.
func SplitPair(pair string) (base, quote string, err error) {
	parts := strings.Split(pair, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid trading pair %q, want BASE/QUOTE", pair)
	}
	return parts[0], parts[1], nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
