// Package bitget implements the exchange connector against the Bitget spot
// REST API (v2).
package bitget

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"daytrader/pkg/exchanges/common"
)

const okCode = "00000"

// Config holds Bitget credentials and client behaviour.
type Config struct {
	APIKey     string
	APISecret  string
	Passphrase string
	// RequestsPerSecond caps outbound request frequency; 0 uses a default of 10.
	RequestsPerSecond float64
}

// Client is a Bitget spot trading client.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	timeSync   *common.TimeSync
	pacer      *common.Pacer
}

// New builds a client. Credentials are validated eagerly so a misconfigured
// process fails at startup rather than on the first order.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" || cfg.Passphrase == "" {
		return nil, errors.New("bitget: API key, secret and passphrase are required")
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	c := &Client{
		cfg:        cfg,
		baseURL:    "https://api.bitget.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		pacer:      common.NewPacer(rps, 20),
	}
	c.timeSync = common.NewTimeSync(c.GetServerTime)
	return c, nil
}

// apiResponse is the common Bitget envelope.
type apiResponse struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// FetchBalances returns per-asset spot balances.
func (c *Client) FetchBalances(ctx context.Context) (map[string]common.AssetBalance, error) {
	body, err := c.doSigned(ctx, http.MethodGet, "/api/v2/spot/account/assets", nil, nil, "fetch_balance")
	if err != nil {
		return nil, err
	}

	var assets []struct {
		Coin      string `json:"coin"`
		Available string `json:"available"`
		Frozen    string `json:"frozen"`
		Locked    string `json:"locked"`
	}
	if err := json.Unmarshal(body, &assets); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}

	out := make(map[string]common.AssetBalance, len(assets))
	for _, a := range assets {
		free := parseFloat(a.Available)
		used := parseFloat(a.Frozen) + parseFloat(a.Locked)
		out[strings.ToUpper(a.Coin)] = common.AssetBalance{
			Free:  free,
			Used:  used,
			Total: free + used,
		}
	}
	return out, nil
}

// FetchTicker returns the last traded price for a pair.
func (c *Client) FetchTicker(ctx context.Context, pair string) (common.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", Symbol(pair))

	body, err := c.doPublic(ctx, "/api/v2/spot/market/tickers", params, "fetch_ticker")
	if err != nil {
		return common.Ticker{}, err
	}

	var tickers []struct {
		Symbol string `json:"symbol"`
		LastPr string `json:"lastPr"`
		Ts     string `json:"ts"`
	}
	if err := json.Unmarshal(body, &tickers); err != nil {
		return common.Ticker{}, fmt.Errorf("decode ticker: %w", err)
	}
	if len(tickers) == 0 {
		return common.Ticker{}, fmt.Errorf("ticker %s: empty response", pair)
	}

	return common.Ticker{
		Pair: pair,
		Last: parseFloat(tickers[0].LastPr),
		Time: parseInt(tickers[0].Ts),
	}, nil
}

// FetchCandles returns up to limit most recent bars, oldest first.
func (c *Client) FetchCandles(ctx context.Context, pair, timeframe string, limit int) ([]common.Candle, error) {
	params := url.Values{}
	params.Set("symbol", Symbol(pair))
	params.Set("granularity", granularity(timeframe))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.doPublic(ctx, "/api/v2/spot/market/candles", params, "fetch_ohlcv")
	if err != nil {
		return nil, err
	}

	// Each row is [ts, open, high, low, close, baseVol, usdtVol, quoteVol].
	var raw [][]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}

	candles := make([]common.Candle, 0, len(raw))
	for _, row := range raw {
		if len(row) < 6 {
			continue
		}
		candles = append(candles, common.Candle{
			OpenTime: parseInt(row[0]),
			Open:     parseFloat(row[1]),
			High:     parseFloat(row[2]),
			Low:      parseFloat(row[3]),
			Close:    parseFloat(row[4]),
			Volume:   parseFloat(row[5]),
		})
	}
	return candles, nil
}

// CreateMarketBuyOrder submits a market buy. Bitget market buys take the
// amount in quote currency (notional), never base quantity.
func (c *Client) CreateMarketBuyOrder(ctx context.Context, pair string, amount float64) (common.Order, error) {
	return c.placeMarketOrder(ctx, pair, common.SideBuy, amount)
}

// CreateMarketSellOrder submits a market sell for a base quantity.
func (c *Client) CreateMarketSellOrder(ctx context.Context, pair string, amount float64) (common.Order, error) {
	return c.placeMarketOrder(ctx, pair, common.SideSell, amount)
}

func (c *Client) placeMarketOrder(ctx context.Context, pair string, side common.Side, amount float64) (common.Order, error) {
	clientID := uuid.NewString()
	payload := map[string]string{
		"symbol":    Symbol(pair),
		"side":      strings.ToLower(string(side)),
		"orderType": "market",
		"force":     "gtc",
		"size":      formatFloat(amount),
		"clientOid": clientID,
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return common.Order{}, err
	}

	body, err := c.doSigned(ctx, http.MethodPost, "/api/v2/spot/trade/place-order", nil, reqBody, "create_order")
	if err != nil {
		return common.Order{}, err
	}

	var resp struct {
		OrderID   string `json:"orderId"`
		ClientOid string `json:"clientOid"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return common.Order{}, fmt.Errorf("decode order response: %w", err)
	}

	return common.Order{
		ID:       resp.OrderID,
		ClientID: resp.ClientOid,
		Pair:     pair,
		Side:     side,
		Amount:   amount,
		Status:   common.StatusNew,
	}, nil
}

// GetServerTime fetches the exchange server time in milliseconds.
func (c *Client) GetServerTime() (int64, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/v2/public/time")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("server time status %d: %s", resp.StatusCode, string(b))
	}
	var res struct {
		Data struct {
			ServerTime string `json:"serverTime"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return 0, err
	}
	return parseInt(res.Data.ServerTime), nil
}

// doPublic performs an unauthenticated GET and unwraps the envelope.
func (c *Client) doPublic(ctx context.Context, path string, params url.Values, op string) (json.RawMessage, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.send(req, op, path)
}

// doSigned signs the request per Bitget's ACCESS-SIGN scheme and unwraps the
// envelope.
func (c *Client) doSigned(ctx context.Context, method, path string, params url.Values, body []byte, op string) (json.RawMessage, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	requestPath := path
	if len(params) > 0 {
		requestPath += "?" + params.Encode()
	}

	timestamp := strconv.FormatInt(c.timeSync.Now(), 10)
	prehash := timestamp + strings.ToUpper(method) + requestPath + string(body)
	mac := hmac.New(sha256.New, []byte(c.cfg.APISecret))
	mac.Write([]byte(prehash))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("ACCESS-KEY", c.cfg.APIKey)
	req.Header.Set("ACCESS-SIGN", signature)
	req.Header.Set("ACCESS-TIMESTAMP", timestamp)
	req.Header.Set("ACCESS-PASSPHRASE", c.cfg.Passphrase)
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, op, path)
}

func (c *Client) send(req *http.Request, op, path string) (json.RawMessage, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.APIError{Op: op, Endpoint: path, Message: err.Error()}
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return nil, &common.APIError{Op: op, Endpoint: path, Status: res.StatusCode, Message: string(raw)}
	}

	var env apiResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%s: decode envelope: %w", op, err)
	}
	if env.Code != okCode {
		return nil, &common.APIError{Op: op, Endpoint: path, Status: res.StatusCode, Code: env.Code, Message: env.Msg}
	}
	return env.Data, nil
}

// Symbol converts a pair like "BTC/USDT" into Bitget's "BTCUSDT" form.
func Symbol(pair string) string {
	return strings.ToUpper(strings.ReplaceAll(pair, "/", ""))
}

// granularity maps common timeframe notation to Bitget's candle granularity.
func granularity(timeframe string) string {
	switch timeframe {
	case "1m":
		return "1min"
	case "5m":
		return "5min"
	case "15m":
		return "15min"
	case "30m":
		return "30min"
	case "1h":
		return "1H"
	case "4h":
		return "4H"
	case "1d":
		return "1D"
	default:
		return timeframe
	}
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int64 {
	i, _ := strconv.ParseInt(s, 10, 64)
	return i
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
