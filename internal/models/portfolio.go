package models

import (
	"time"
)

// Portfolio represents a collection of holdings owned by a user.
type Portfolio struct {
	ID            string    `json:"id" badgerhold:"key"`
	Name          string    `json:"portfolio_name"`
	UserID        string    `json:"user_id,omitempty"`
	Currency      string    `json:"currency"`
	CashBalance   float64   `json:"cash_balance"`
	TotalValue    float64   `json:"total_value"`
	TotalCost     float64   `json:"total_cost"`
	TotalGain     float64   `json:"total_gain"`
	TotalGainPct  float64   `json:"total_gain_pct"`
	RiskProfile   string    `json:"risk_profile,omitempty"`
	Strategy      string    `json:"strategy,omitempty"`
	Holdings      []Holding `json:"holdings"`
	LastSynced    time.Time `json:"last_synced"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GetField implements FieldAccessor.
func (p *Portfolio) GetField(name string) any {
	if p == nil {
		return nil
	}
	switch name {
	case "id":
		return p.ID
	case "name", "portfolio_name":
		return p.Name
	case "user_id":
		return p.UserID
	case "currency":
		return p.Currency
	case "cash_balance":
		return p.CashBalance
	case "total_value":
		return p.TotalValue
	case "total_cost":
		return p.TotalCost
	case "total_gain":
		return p.TotalGain
	case "total_gain_pct":
		return p.TotalGainPct
	case "risk_profile":
		return p.RiskProfile
	case "strategy":
		return p.Strategy
	default:
		return nil
	}
}

// ListHoldings returns the holdings in portfolio order.
func (p *Portfolio) ListHoldings() []Holding {
	if p == nil {
		return nil
	}
	return p.Holdings
}

// Holding represents a position within a portfolio, linked to a security.
type Holding struct {
	ID           string    `json:"id"`
	PortfolioID  string    `json:"portfolio_id"`
	SecurityID   string    `json:"security_id"`
	Units        float64   `json:"units"`
	AvgCost      float64   `json:"avg_cost"`
	CurrentPrice float64   `json:"current_price"`
	MarketValue  float64   `json:"market_value"`
	CostBasis    float64   `json:"cost_basis"`
	GainLoss     float64   `json:"gain_loss"`
	GainLossPct  float64   `json:"gain_loss_pct"`
	WeightPct    float64   `json:"weight_pct"`
	Currency     string    `json:"currency,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	LastUpdated  time.Time `json:"last_updated"`
}

// GetField implements FieldAccessor.
func (h *Holding) GetField(name string) any {
	if h == nil {
		return nil
	}
	switch name {
	case "id":
		return h.ID
	case "portfolio_id", "portfolio":
		return h.PortfolioID
	case "security_id", "security":
		return h.SecurityID
	case "units", "quantity":
		return h.Units
	case "avg_cost", "average_purchase_price":
		return h.AvgCost
	case "current_price":
		return h.CurrentPrice
	case "market_value", "current_value":
		return h.MarketValue
	case "cost_basis":
		return h.CostBasis
	case "gain_loss":
		return h.GainLoss
	case "gain_loss_pct":
		return h.GainLossPct
	case "weight_pct":
		return h.WeightPct
	case "currency":
		return h.Currency
	case "notes":
		return h.Notes
	default:
		return nil
	}
}
