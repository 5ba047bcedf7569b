package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/coindex/proxy/pkg/validation"
)

// MarketDescriptor is the static reference data for one tradable instrument,
// as returned by the upbit market list endpoint.
type MarketDescriptor struct {
	Market      string `json:"market" validate:"required,market"`
	KoreanName  string `json:"korean_name" validate:"required"`
	EnglishName string `json:"english_name" validate:"required"`
}

// Validate validates the MarketDescriptor struct
func (m MarketDescriptor) Validate() error {
	if errs := validation.ValidateStruct(m); len(errs) > 0 {
		return errs
	}
	return nil
}

// Symbol strips the quote-currency prefix: KRW-BTC -> BTC.
func (m MarketDescriptor) Symbol() string {
	return strings.TrimPrefix(m.Market, "KRW-")
}

// TickerSnapshot is the volatile per-instrument state from the upbit ticker
// endpoint. Never cached; merged with MarketDescriptor at serve time.
type TickerSnapshot struct {
	Market            string  `json:"market"`
	TradePrice        float64 `json:"trade_price"`
	SignedChangeRate  float64 `json:"signed_change_rate"`
	SignedChangePrice float64 `json:"signed_change_price"`
	AccTradePrice24h  float64 `json:"acc_trade_price_24h"`
}

// Symbol strips the quote-currency prefix: KRW-BTC -> BTC.
func (t TickerSnapshot) Symbol() string {
	return strings.TrimPrefix(t.Market, "KRW-")
}

// PremiumRow is a TickerSnapshot merged with its display name, the paired
// foreign price and the cross-exchange premium. BinancePrice and Premium are
// null when the instrument has no USDT pairing on the foreign exchange.
type PremiumRow struct {
	Market            string   `json:"market"`
	KoreanName        string   `json:"korean_name"`
	TradePrice        float64  `json:"trade_price"`
	SignedChangeRate  float64  `json:"signed_change_rate"`
	AccTradePrice24h  float64  `json:"acc_trade_price_24h"`
	BinancePrice      *float64 `json:"binance_price"`
	FXRate            float64  `json:"fx_rate"`
	Premium           *float64 `json:"premium"`
}

// binanceTicker is the subset of the binance 24h ticker payload the premium
// merge needs; prices arrive as strings.
type binanceTicker struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
}

// BinancePriceMap parses a raw binance 24h ticker array into a map of base
// symbol (BTC, not BTCUSDT) to last price in USD. Only USDT-quoted pairs are
// kept.
func BinancePriceMap(raw json.RawMessage) (map[string]float64, error) {
	var tickers []binanceTicker
	if err := json.Unmarshal(raw, &tickers); err != nil {
		return nil, fmt.Errorf("binance ticker parse error: %w", err)
	}

	prices := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		if !strings.HasSuffix(t.Symbol, "USDT") {
			continue
		}
		price, err := strconv.ParseFloat(t.LastPrice, 64)
		if err != nil || price <= 0 {
			continue
		}
		prices[strings.TrimSuffix(t.Symbol, "USDT")] = price
	}
	return prices, nil
}
