package models

import (
	"time"
)

// Security represents a tradeable instrument tracked by Folio.
// TickerInfo and News hold raw JSON blobs fetched from the market data
// provider; templates navigate into them with dotted paths.
type Security struct {
	ID           string    `json:"id" badgerhold:"key"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Ticker       string    `json:"ticker"`
	Exchange     string    `json:"exchange"`
	Currency     string    `json:"currency"`
	Sector       string    `json:"sector"`
	Industry     string    `json:"industry"`
	Country      string    `json:"country,omitempty"`
	Description  string    `json:"description,omitempty"`
	CurrentPrice float64   `json:"current_price"`
	MarketCap    float64   `json:"market_cap,omitempty"`
	TickerInfo   string    `json:"ticker_info,omitempty"` // raw JSON from provider
	News         string    `json:"news,omitempty"`        // raw JSON article list
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GetField implements FieldAccessor.
func (s *Security) GetField(name string) any {
	if s == nil {
		return nil
	}
	switch name {
	case "id":
		return s.ID
	case "name", "security_name":
		return s.Name
	case "symbol":
		return s.Symbol
	case "ticker":
		return s.Ticker
	case "exchange":
		return s.Exchange
	case "currency":
		return s.Currency
	case "sector":
		return s.Sector
	case "industry":
		return s.Industry
	case "country":
		return s.Country
	case "description":
		return s.Description
	case "current_price":
		return s.CurrentPrice
	case "market_cap":
		return s.MarketCap
	case "ticker_info":
		return s.TickerInfo
	case "news":
		return s.News
	default:
		return nil
	}
}

// DisplaySymbol returns the symbol, falling back to ticker then name.
func (s *Security) DisplaySymbol() string {
	if s.Symbol != "" {
		return s.Symbol
	}
	if s.Ticker != "" {
		return s.Ticker
	}
	return s.Name
}
